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

package sub

import "github.com/brightflow/pubsub-go/core/msg"

// messageList is a FIFO of pending messages owned exclusively by one
// Subscription. Every method here assumes the owning subscription's lock
// is already held by the caller; the list itself has no lock and no
// intrinsic capacity.
type messageList struct {
	head  *msg.Message
	tail  *msg.Message
	count int
}

// enqueue appends m at the tail. O(1).
func (l *messageList) enqueue(m *msg.Message) {
	m.SetNext(nil)
	if l.tail == nil {
		l.head = m
		l.tail = m
	} else {
		l.tail.SetNext(m)
		l.tail = m
	}
	l.count++
}

// dequeue removes and returns the head message, or nil if the list is
// empty. O(1).
func (l *messageList) dequeue() *msg.Message {
	if l.head == nil {
		return nil
	}
	m := l.head
	l.head = m.Next()
	if l.head == nil {
		l.tail = nil
	}
	m.SetNext(nil)
	l.count--
	return m
}

// drain discards every remaining message, used on subscription
// destruction.
func (l *messageList) drain() {
	l.head = nil
	l.tail = nil
	l.count = 0
}
