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

// Package config loads a client/consumer's TOML configuration file into
// the core/manage and pkg/log types that actually drive the client,
// translating the file's plain scalar fields (millisecond durations,
// PEM file paths) into the richer Go types (time.Duration, *tls.Config)
// those packages expect.
package config

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/brightflow/pubsub-go/core/manage"
	"github.com/brightflow/pubsub-go/pkg/log"
)

// File is the root of a client's TOML configuration file.
type File struct {
	Client   ClientFile   `toml:"client"`
	Logging  log.Config   `toml:"logging"`
	Consumer ConsumerFile `toml:"consumer"`
}

// ClientFile configures the broker connection.
type ClientFile struct {
	Addr             string  `toml:"addr"`
	DialTimeoutMS    int     `toml:"dial_timeout_ms"`
	ConnectTimeoutMS int     `toml:"connect_timeout_ms"`
	AuthMethod       string  `toml:"auth_method"`
	AuthDataFile     string  `toml:"auth_data_file"` // opaque auth payload, read as-is
	TLS              TLSFile `toml:"tls"`
}

// TLSFile configures an optional TLS connection to the broker. Leaving
// Enabled false (the default) dials plain TCP.
type TLSFile struct {
	Enabled    bool   `toml:"enabled"`
	CertFile   string `toml:"cert_file"`
	KeyFile    string `toml:"key_file"`
	CAFile     string `toml:"ca_file"`
	ServerName string `toml:"server_name"`
}

// ConsumerFile configures a managed consumer built on top of Client.
type ConsumerFile struct {
	Topic   string `toml:"topic"`
	Name    string `toml:"name"` // queue group name, used only when sub_mode = "shared"
	SubMode string `toml:"sub_mode"`

	QueueSize int `toml:"queue_size"`

	NewConsumerTimeoutMS    int `toml:"new_consumer_timeout_ms"`
	InitialReconnectDelayMS int `toml:"initial_reconnect_delay_ms"`
	MaxReconnectDelayMS     int `toml:"max_reconnect_delay_ms"`
	ReceivePollIntervalMS   int `toml:"receive_poll_interval_ms"`
}

// Load decodes the TOML file at path into a File.
func Load(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, errors.Wrapf(err, "config: decode %s", path)
	}
	return &f, nil
}

// ClientConfig builds the manage.ClientConfig this file describes,
// loading the TLS key pair / CA bundle and auth data named by path
// fields along the way.
func (f *File) ClientConfig() (manage.ClientConfig, error) {
	cfg := manage.ClientConfig{
		Addr:           f.Client.Addr,
		DialTimeout:    time.Duration(f.Client.DialTimeoutMS) * time.Millisecond,
		ConnectTimeout: time.Duration(f.Client.ConnectTimeoutMS) * time.Millisecond,
		AuthMethod:     f.Client.AuthMethod,
	}

	if f.Client.AuthDataFile != "" {
		data, err := os.ReadFile(f.Client.AuthDataFile)
		if err != nil {
			return cfg, errors.Wrapf(err, "config: read auth_data_file %s", f.Client.AuthDataFile)
		}
		cfg.AuthData = data
	}

	if f.Client.TLS.Enabled {
		tlsCfg, err := f.Client.TLS.build()
		if err != nil {
			return cfg, err
		}
		cfg.TLSConfig = tlsCfg
	}

	return cfg, nil
}

// build assembles a *tls.Config from the referenced PEM files. A missing
// CertFile/KeyFile pair is fine (no client certificate); a missing
// CAFile falls back to the system root pool.
func (t TLSFile) build() (*tls.Config, error) {
	tlsCfg := &tls.Config{ServerName: t.ServerName}

	if t.CertFile != "" || t.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "config: load TLS key pair")
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	if t.CAFile != "" {
		pem, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, errors.Wrapf(err, "config: read ca_file %s", t.CAFile)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.Errorf("config: ca_file %s contains no usable certificates", t.CAFile)
		}
		tlsCfg.RootCAs = pool
	}

	return tlsCfg, nil
}

// ConsumerConfig builds the manage.ConsumerConfig this file describes,
// embedding clientCfg (typically the result of ClientConfig) as its
// ClientConfig field.
func (f *File) ConsumerConfig(clientCfg manage.ClientConfig) (manage.ConsumerConfig, error) {
	mode, err := parseSubMode(f.Consumer.SubMode)
	if err != nil {
		return manage.ConsumerConfig{}, err
	}

	return manage.ConsumerConfig{
		ClientConfig:          clientCfg,
		Topic:                 f.Consumer.Topic,
		Name:                  f.Consumer.Name,
		SubMode:               mode,
		QueueSize:             f.Consumer.QueueSize,
		NewConsumerTimeout:    time.Duration(f.Consumer.NewConsumerTimeoutMS) * time.Millisecond,
		InitialReconnectDelay: time.Duration(f.Consumer.InitialReconnectDelayMS) * time.Millisecond,
		MaxReconnectDelay:     time.Duration(f.Consumer.MaxReconnectDelayMS) * time.Millisecond,
		ReceivePollInterval:   time.Duration(f.Consumer.ReceivePollIntervalMS) * time.Millisecond,
	}, nil
}

func parseSubMode(s string) (manage.SubscriptionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exclusive":
		return manage.SubscriptionModeExclusive, nil
	case "failover":
		return manage.SubscriptionModeFailover, nil
	case "shared":
		return manage.SubscriptionModeShared, nil
	default:
		return 0, errors.Errorf("config: unknown sub_mode %q", s)
	}
}
