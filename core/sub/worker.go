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

// deliveryLoop runs for the life of an async subscription, draining the
// message list and invoking the user callback serially. Exactly one
// instance runs per async subscription; it exits when the subscription
// closes or its delivery limit is reached, releasing the reference it
// was started with.
func (s *Subscription) deliveryLoop() {
	defer s.release()

	for {
		s.mu.Lock()
		s.inWait++
		for s.list.count == 0 && !s.closed {
			s.cond.Wait()
		}
		s.inWait--

		if s.closed {
			s.mu.Unlock()
			return
		}

		m := s.list.dequeue()

		s.delivered++
		max := s.max
		delivered := s.delivered
		cb := s.cb
		cbCtx := s.cbCtx
		conn := s.conn
		s.mu.Unlock()

		if max == 0 || delivered <= max {
			cb(conn, s, m, cbCtx)
		}

		if max > 0 && delivered >= max {
			conn.RemoveSubscription(s, true)
			return
		}
	}
}
