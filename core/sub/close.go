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

import "sync/atomic"

// Close drives the subscription's only state transition, Active -> Closed.
// It stops the signal timer, marks the subscription (and, if connClosed is
// true, its connection) as no longer usable, and broadcasts the condition
// so the delivery worker and any pull caller wake at their next boundary.
// Re-entry is idempotent: a subscription that is already closed ignores a
// second call, even one that disagrees about connClosed.
func (s *Subscription) Close(connClosed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.stopTimerLocked()
	s.closed = true
	s.connClosed = connClosed
	s.cond.Broadcast()
}

// Unsubscribe asks the connection to remove this subscription's interest
// unconditionally. It is a no-op error (ErrConnectionClosed or
// ErrInvalidSubscription) if the subscription has already reached a
// terminal state.
func (s *Subscription) Unsubscribe() error {
	return s.unsubscribe(0)
}

// AutoUnsubscribe arranges for the subscription to close itself after max
// messages have been delivered: max is recorded locally, and the delivery
// worker or pull caller asks the connection to remove the subscription the
// moment delivered reaches max (see worker.go and pull.go); core/manage's
// Client closes it as part of that removal. No limit is sent on the wire:
// Client.Unsubscribe sends nothing for max > 0. max must be greater than
// zero; Unsubscribe is the unconditional variant.
func (s *Subscription) AutoUnsubscribe(max uint64) error {
	if max == 0 {
		return ErrInvalidArgument
	}
	return s.unsubscribe(max)
}

// Destroy releases the creator's reference to the subscription. If the
// subscription has not already been closed, it first issues an implicit
// Unsubscribe. Any callback already in flight continues to run to
// completion, since the delivery worker holds its own reference
// independent of the creator's. Safe to call more than once: only the
// first call releases the creator's reference.
func (s *Subscription) Destroy() {
	if !atomic.CompareAndSwapInt32(&s.destroyed, 0, 1) {
		return
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if !closed {
		s.unsubscribe(0)
	}

	s.release()
}

// unsubscribe is the body shared by Unsubscribe and AutoUnsubscribe: reject
// if already terminal, record max locally (so the worker/pull path can
// enforce it even before the wire round-trip completes), retain across the
// call into conn so the subscription cannot be destroyed out from under
// it, and release once the connection has done its part. When max == 0,
// the connection is expected to invoke Close(false) synchronously as part
// of its Unsubscribe implementation.
func (s *Subscription) unsubscribe(max uint64) error {
	s.mu.Lock()

	if s.connClosed {
		s.mu.Unlock()
		return ErrConnectionClosed
	}
	if s.closed {
		s.mu.Unlock()
		return ErrInvalidSubscription
	}

	if max > 0 {
		s.max = max
	}

	atomic.AddInt32(&s.refs, 1)
	conn := s.conn
	s.mu.Unlock()

	err := conn.Unsubscribe(s, max)

	s.release()

	return err
}
