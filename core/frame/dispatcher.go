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
	"fmt"
	"sync"

	"github.com/brightflow/pubsub-go/pkg/api"
)

// CmdSender is the subset of *conn.Conn that the connector, producer and
// subscription layers need in order to write commands to the wire
// without depending on the conn package directly (and so they can be
// exercised against MockSender in tests).
type CmdSender interface {
	SendSimpleCmd(cmd api.BaseCommand) error
	SendPayloadCmd(cmd api.BaseCommand, metadata api.MessageMetadata, payload []byte) error
	Closed() <-chan struct{}
}

type prodSeqKey struct {
	producerID uint64
	sequenceID uint64
}

// NewFrameDispatcher returns a ready-to-use Dispatcher.
func NewFrameDispatcher() *Dispatcher {
	return &Dispatcher{
		reqID:      make(map[uint64]chan Frame),
		prodSeqID:  make(map[prodSeqKey]chan Frame),
		global:     make(map[int]chan Frame),
	}
}

// Dispatcher routes inbound Frames to the goroutine waiting on the
// matching request ID, (producer ID, sequence ID) pair, or global
// channel (used for requests, like CONNECT, that precede the assignment
// of any ID). Each pending request uses one of the three registration
// forms, except CONNECT, which registers globally for CONNECTED and by
// utils.UndefRequestID for a handshake ERROR.
type Dispatcher struct {
	mu        sync.Mutex
	reqID     map[uint64]chan Frame
	prodSeqID map[prodSeqKey]chan Frame
	global    map[int]chan Frame
	globalSeq int
}

// RegisterReqID registers interest in a response frame carrying the
// given request ID. The returned cancel func must be called (typically
// via defer) once the caller is done waiting, whether or not a response
// arrived, to avoid leaking the registration.
func (d *Dispatcher) RegisterReqID(id uint64) (chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.reqID[id]; exists {
		return nil, nil, fmt.Errorf("request id %d already registered", id)
	}

	ch := make(chan Frame, 1)
	d.reqID[id] = ch

	cancel := func() {
		d.mu.Lock()
		delete(d.reqID, id)
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

// RegisterProdSeqIDs registers interest in a response frame carrying the
// given (producer ID, sequence ID) pair, used for SEND_RECEIPT/SEND_ERROR
// replies to a producer's Send.
func (d *Dispatcher) RegisterProdSeqIDs(producerID, sequenceID uint64) (chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := prodSeqKey{producerID, sequenceID}
	if _, exists := d.prodSeqID[key]; exists {
		return nil, nil, fmt.Errorf("producer/sequence id %d/%d already registered", producerID, sequenceID)
	}

	ch := make(chan Frame, 1)
	d.prodSeqID[key] = ch

	cancel := func() {
		d.mu.Lock()
		delete(d.prodSeqID, key)
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

// RegisterGlobal registers interest in the next frame dispatched via
// NotifyGlobal, used before any request/producer ID has been assigned
// (the CONNECT/CONNECTED handshake).
func (d *Dispatcher) RegisterGlobal() (chan Frame, func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.globalSeq
	d.globalSeq++

	ch := make(chan Frame, 1)
	d.global[id] = ch

	cancel := func() {
		d.mu.Lock()
		delete(d.global, id)
		d.mu.Unlock()
	}
	return ch, cancel, nil
}

// NotifyReqID delivers f to the goroutine registered for id, if any. It
// is a no-op (not an error) if nothing is currently registered, since the
// waiter may have already timed out and cancelled.
func (d *Dispatcher) NotifyReqID(id uint64, f Frame) error {
	d.mu.Lock()
	ch, ok := d.reqID[id]
	d.mu.Unlock()

	if !ok {
		return nil
	}

	select {
	case ch <- f:
	default:
		return fmt.Errorf("request id %d: receiver not ready", id)
	}
	return nil
}

// NotifyProdSeqIDs delivers f to the goroutine registered for the given
// (producer ID, sequence ID) pair, if any.
func (d *Dispatcher) NotifyProdSeqIDs(producerID, sequenceID uint64, f Frame) error {
	d.mu.Lock()
	ch, ok := d.prodSeqID[prodSeqKey{producerID, sequenceID}]
	d.mu.Unlock()

	if !ok {
		return nil
	}

	select {
	case ch <- f:
	default:
		return fmt.Errorf("producer/sequence id %d/%d: receiver not ready", producerID, sequenceID)
	}
	return nil
}

// NotifyGlobal delivers f to every goroutine currently waiting via
// RegisterGlobal. Used for the CONNECTED reply, which isn't keyed by any
// ID the client chose.
func (d *Dispatcher) NotifyGlobal(f Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, ch := range d.global {
		select {
		case ch <- f:
		default:
		}
	}
}
