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

// Package msg holds the types shared between the connection, producer
// and subscription layers: the public Message delivered to subscribers,
// and the monotonic ID generator used for request and sequence IDs.
package msg

import "sync"

// MonotonicID generates a strictly increasing sequence of uint64 values,
// used for request IDs, producer sequence IDs and consumer IDs. The zero
// value is ready to use. ID holds the value the next call to Next hands
// out, so the zero value's first call returns 0.
type MonotonicID struct {
	mu sync.Mutex
	ID uint64
}

// Next returns a pointer to the next value in the sequence (the current
// ID) and advances ID by one. A pointer is returned (rather than a value)
// because the wire command structs carry these fields as optional
// (nilable) protobuf fields.
func (m *MonotonicID) Next() *uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.ID
	m.ID++
	return &v
}

// Message is a single payload delivered to a subscription, carrying both
// the data the caller sees and the position/delivery bookkeeping the
// subscription core needs.
//
// next is used exclusively by the owning subscription to link Message
// values into its pending-delivery list; it must never be read or
// written by anything outside core/sub.
type Message struct {
	Topic           string
	Payload         []byte
	Properties      map[string]string
	ID              MessageID
	PublishTime     int64
	RedeliveryCount uint32

	next *Message
}

// MessageID identifies a message's position in its topic's log.
type MessageID struct {
	LedgerID uint64
	EntryID  uint64
}

// Next returns the next message in the owning subscription's pending
// list, or nil if this is the tail.
func (m *Message) Next() *Message { return m.next }

// SetNext is used by core/sub to link m into its pending-delivery list.
func (m *Message) SetNext(n *Message) { m.next = n }
