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

package frame

import (
	"sync"

	"github.com/brightflow/pubsub-go/pkg/api"
)

// MockSender is a CmdSender that records every frame it was asked to
// send instead of writing to a real connection. It exists for tests
// exercising the producer, subscription and connector packages.
type MockSender struct {
	mu     sync.Mutex
	Frames []Frame

	closedc   chan struct{}
	closeOnce sync.Once
}

// SendSimpleCmd records a frame built from cmd alone.
func (m *MockSender) SendSimpleCmd(cmd api.BaseCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, Frame{BaseCmd: &cmd})
	return nil
}

// SendPayloadCmd records a frame built from cmd, metadata and payload.
func (m *MockSender) SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, Frame{BaseCmd: &cmd, Metadata: &metadata, Payload: payload})
	return nil
}

// Closed returns a channel that unblocks once Close has been called.
// The zero value of MockSender behaves as a never-closed sender.
func (m *MockSender) Closed() <-chan struct{} {
	m.mu.Lock()
	if m.closedc == nil {
		m.closedc = make(chan struct{})
	}
	ch := m.closedc
	m.mu.Unlock()
	return ch
}

// Close marks the mock sender closed, unblocking Closed(). Safe to call
// more than once.
func (m *MockSender) Close() {
	m.mu.Lock()
	if m.closedc == nil {
		m.closedc = make(chan struct{})
	}
	ch := m.closedc
	m.mu.Unlock()
	m.closeOnce.Do(func() { close(ch) })
}
