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

import (
	"time"

	"github.com/brightflow/pubsub-go/core/msg"
)

// NextMsg blocks for up to timeout waiting for the next message on a
// synchronous subscription. A timeout of 0 polls without blocking. It is
// only valid to call NextMsg on a subscription created without a
// callback; calling it on an async subscription returns ErrIllegalState.
func (s *Subscription) NextMsg(timeout time.Duration) (*msg.Message, error) {
	s.mu.Lock()

	if s.connClosed {
		s.mu.Unlock()
		return nil, ErrConnectionClosed
	}

	if s.closed {
		s.mu.Unlock()
		if s.max > 0 && s.delivered >= s.max {
			return nil, ErrMaxMessagesDelivered
		}
		return nil, ErrInvalidSubscription
	}

	if s.cb != nil {
		s.mu.Unlock()
		return nil, ErrIllegalState
	}

	if s.slowConsumer {
		s.slowConsumer = false
		s.mu.Unlock()
		return nil, ErrSlowConsumer
	}

	if timeout <= 0 {
		if s.list.count == 0 {
			s.mu.Unlock()
			return nil, ErrTimeout
		}
		return s.finishPullLocked()
	}

	var timedOut bool
	timer := time.AfterFunc(timeout, func() {
		s.mu.Lock()
		timedOut = true
		s.cond.Broadcast()
		s.mu.Unlock()
	})
	defer timer.Stop()

	s.inWait++
	for s.list.count == 0 && !s.closed && !timedOut {
		s.cond.Wait()
	}
	s.inWait--

	if s.list.count == 0 {
		s.mu.Unlock()
		if s.closed {
			return nil, ErrInvalidSubscription
		}
		return nil, ErrTimeout
	}

	return s.finishPullLocked()
}

// finishPullLocked performs the post-wait success path: bump delivered,
// dequeue, and (if the auto-unsubscribe limit was just reached) ask the
// connection to remove the subscription. Must be called with s.mu held;
// unlocks before returning.
func (s *Subscription) finishPullLocked() (*msg.Message, error) {
	s.delivered++

	if s.max > 0 && s.delivered > s.max {
		s.mu.Unlock()
		return nil, ErrMaxMessagesDelivered
	}

	removeSub := s.max > 0 && s.delivered == s.max

	m := s.list.dequeue()
	conn := s.conn
	s.mu.Unlock()

	if removeSub {
		conn.RemoveSubscription(s, true)
	}

	return m, nil
}
