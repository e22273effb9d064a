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

// Package utils holds small cross-cutting pieces shared by core/conn,
// core/pub and core/manage: client/protocol version constants,
// the sentinel "no request id" value, an unexpected-message error
// builder, and the secondary async error reporter.
package utils

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ClientVersion is advertised to the broker in every CONNECT command.
const ClientVersion = "pubsub-go"

// ProtoVersion is the wire protocol version this client speaks.
const ProtoVersion = 12

// UndefRequestID is the sentinel request ID used for responses (notably
// CONNECT failures) that aren't tied to a request the client itself
// allocated an ID for.
const UndefRequestID = ^uint64(0)

// NewUnexpectedErrMsg builds an error for the case where a
// request/response dispatch received a frame of a type it didn't know
// how to interpret, wrapped with github.com/pkg/errors so callers get a
// stack trace attached at the point of construction.
func NewUnexpectedErrMsg(msgType fmt.Stringer, ids ...uint64) error {
	return errors.Wrapf(fmt.Errorf("unexpected message type %s", msgType), "ids=%v", ids)
}

// AsyncErrors collects errors surfaced by goroutines that have no
// synchronous caller to return them to (the managed consumer's receive
// and reconnect loops, the client's read loop). It logs them immediately
// via logrus, independent of the zerolog hot-path logger in pkg/log; an
// error is not kept after it is logged.
type AsyncErrors struct {
	log *logrus.Logger
}

// NewAsyncErrors returns a ready-to-use AsyncErrors reporter that logs to
// stderr at warning level and above.
func NewAsyncErrors() *AsyncErrors {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return &AsyncErrors{log: l}
}

// Send reports an async error under the given context label.
func (a *AsyncErrors) Send(context string, err error) {
	if err == nil {
		return
	}
	a.log.WithField("context", context).Warn(err)
}
