// Copyright 2018 Comcast Cable Communications Management, LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides the hot-path structured logger used throughout the
// client. It wraps zerolog with ECS-compatible field names and a
// lumberjack-backed rotating file sink, matching how the rest of this
// codebase expects to log.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = ecszerolog.New(os.Stderr).Level(zerolog.InfoLevel).Logger()
)

// Config controls where and how the package logger writes. Loaded from
// TOML via pkg/config.Load, which decodes it as the "logging" table of a
// client's configuration file.
type Config struct {
	Level      string `toml:"level"`
	FilePath   string `toml:"file_path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// Init reconfigures the package-level logger. When cfg.FilePath is set,
// output is routed through a rotating lumberjack writer in addition to
// stderr; otherwise stderr alone is used.
func Init(cfg Config) error {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stderr
	if cfg.FilePath != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}

	l := ecszerolog.New(w).Level(lvl).Logger()

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

func get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs at debug level using printf-style formatting.
func Debugf(format string, args ...interface{}) {
	get().Debug().Msgf(format, args...)
}

// Infof logs at info level using printf-style formatting.
func Infof(format string, args ...interface{}) {
	get().Info().Msgf(format, args...)
}

// Warnf logs at warn level using printf-style formatting.
func Warnf(format string, args ...interface{}) {
	get().Warn().Msgf(format, args...)
}

// Errorf logs at error level using printf-style formatting.
func Errorf(format string, args ...interface{}) {
	get().Error().Msgf(format, args...)
}
