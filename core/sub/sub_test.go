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
	"sync"
	"testing"
	"time"

	"github.com/brightflow/pubsub-go/core/msg"
)

// fakeConn is a minimal ConnHandle for exercising Subscription in
// isolation, without a real wire connection.
type fakeConn struct {
	mu sync.Mutex

	retains  int
	released int

	registered   []*Subscription
	registerErr  error

	unsubscribed []uint64 // max argument passed to Unsubscribe, in call order
	unsubErr     error

	removed      []*Subscription
	removedDrain []bool
}

func (c *fakeConn) Retain() {
	c.mu.Lock()
	c.retains++
	c.mu.Unlock()
}

func (c *fakeConn) Release() {
	c.mu.Lock()
	c.released++
	c.mu.Unlock()
}

func (c *fakeConn) RegisterSubscription(s *Subscription) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registerErr != nil {
		return c.registerErr
	}
	c.registered = append(c.registered, s)
	return nil
}

func (c *fakeConn) Unsubscribe(s *Subscription, max uint64) error {
	c.mu.Lock()
	c.unsubscribed = append(c.unsubscribed, max)
	err := c.unsubErr
	c.mu.Unlock()
	if err == nil && max == 0 {
		s.Close(false)
	}
	return err
}

func (c *fakeConn) RemoveSubscription(s *Subscription, drain bool) {
	c.mu.Lock()
	c.removed = append(c.removed, s)
	c.removedDrain = append(c.removedDrain, drain)
	c.mu.Unlock()
}

func newMsg(topic string, payload string) *msg.Message {
	return &msg.Message{Topic: topic, Payload: []byte(payload)}
}

// Async delivery is in FIFO order, one message per callback invocation.
func TestSubscription_AsyncDeliveryOrder(t *testing.T) {
	conn := &fakeConn{}

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	cb := func(_ ConnHandle, _ *Subscription, m *msg.Message, _ interface{}) {
		mu.Lock()
		got = append(got, string(m.Payload))
		n := len(got)
		mu.Unlock()
		if n == 3 {
			close(done)
		}
	}

	s, err := New(conn, Options{Subject: "orders", Callback: cb, NoDelay: true})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	s.Deliver(newMsg("orders", "one"))
	s.Deliver(newMsg("orders", "two"))
	s.Deliver(newMsg("orders", "three"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async delivery")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v; want %v", got, want)
		}
	}
}

// AutoUnsubscribe stops delivery once the limit is reached and asks the
// connection to remove the subscription exactly once.
func TestSubscription_AutoUnsubscribe(t *testing.T) {
	conn := &fakeConn{}

	var mu sync.Mutex
	var count int
	done := make(chan struct{})

	cb := func(_ ConnHandle, _ *Subscription, _ *msg.Message, _ interface{}) {
		mu.Lock()
		count++
		n := count
		mu.Unlock()
		if n == 2 {
			close(done)
		}
	}

	s, err := New(conn, Options{Subject: "limited", Callback: cb, NoDelay: true})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if err := s.AutoUnsubscribe(2); err != nil {
		t.Fatalf("AutoUnsubscribe() err = %v", err)
	}

	s.Deliver(newMsg("limited", "one"))
	s.Deliver(newMsg("limited", "two"))
	s.Deliver(newMsg("limited", "three")) // must never be delivered

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery limit")
	}

	// Give the worker a moment to observe the limit and call RemoveSubscription.
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	got := count
	mu.Unlock()
	if got != 2 {
		t.Fatalf("delivered %d messages; want exactly 2", got)
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.removed) != 1 {
		t.Fatalf("RemoveSubscription called %d times; want 1", len(conn.removed))
	}
	if !conn.removedDrain[0] {
		t.Fatalf("RemoveSubscription drain = false; want true")
	}
}

// NextMsg with no pending message and a positive timeout returns
// ErrTimeout rather than blocking forever.
func TestSubscription_SyncTimeout(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "empty"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	start := time.Now()
	_, err = s.NextMsg(50 * time.Millisecond)
	elapsed := time.Since(start)

	if err != ErrTimeout {
		t.Fatalf("NextMsg() err = %v; want ErrTimeout", err)
	}
	if elapsed < 50*time.Millisecond {
		t.Fatalf("NextMsg() returned after %v; want >= 50ms", elapsed)
	}
}

// A zero timeout is a non-blocking poll.
func TestSubscription_SyncNonBlockingPoll(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "empty"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if _, err := s.NextMsg(0); err != ErrTimeout {
		t.Fatalf("NextMsg(0) err = %v; want ErrTimeout", err)
	}
}

// Exceeding PendingMax flags the subscription as a slow consumer and
// drops the excess; the flag surfaces exactly once, on the next
// successful-or-not observation, per the documented
// clear-on-next-observation behavior. Mirrors the pending_max=4,
// six-enqueue scenario: only messages 5 and 6 are discarded.
func TestSubscription_SlowConsumer(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "busy", PendingMax: 4})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	s.Deliver(newMsg("busy", "one"))   // count 0 >= 4: false, queued
	s.Deliver(newMsg("busy", "two"))   // count 1 >= 4: false, queued
	s.Deliver(newMsg("busy", "three")) // count 2 >= 4: false, queued
	s.Deliver(newMsg("busy", "four"))  // count 3 >= 4: false, queued
	s.Deliver(newMsg("busy", "five"))  // count 4 >= 4: true, dropped, flags slow consumer
	s.Deliver(newMsg("busy", "six"))   // count 4 >= 4: true, dropped

	n, err := s.QueuedMessages()
	if err != nil {
		t.Fatalf("QueuedMessages() err = %v", err)
	}
	if n != 4 {
		t.Fatalf("QueuedMessages() = %d; want 4 (pendingMax), messages 5 and 6 must be dropped", n)
	}

	if _, err := s.NextMsg(0); err != ErrSlowConsumer {
		t.Fatalf("NextMsg() err = %v; want ErrSlowConsumer", err)
	}

	// Flag cleared: subsequent pulls succeed normally against what's queued.
	m, err := s.NextMsg(0)
	if err != nil {
		t.Fatalf("NextMsg() err = %v; want nil", err)
	}
	if string(m.Payload) != "one" {
		t.Fatalf("NextMsg() payload = %q; want %q", m.Payload, "one")
	}
}

// Close(true) (connection closed) wakes a blocked NextMsg caller and
// leaves the subscription permanently invalid.
func TestSubscription_ConnectionCloseWakesBlockedPull(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "waiting"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	resultc := make(chan error, 1)
	go func() {
		_, err := s.NextMsg(5 * time.Second)
		resultc <- err
	}()

	time.Sleep(50 * time.Millisecond) // let NextMsg enter its wait
	s.Close(true)

	select {
	case err := <-resultc:
		if err != ErrInvalidSubscription {
			t.Fatalf("NextMsg() err = %v; want ErrInvalidSubscription", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("NextMsg() did not wake up after Close(true)")
	}

	if s.IsValid() {
		t.Fatal("IsValid() = true after Close(true); want false")
	}

	// A subsequent NextMsg observes the connection as closed, not merely invalid.
	if _, err := s.NextMsg(0); err != ErrConnectionClosed {
		t.Fatalf("NextMsg() err = %v; want ErrConnectionClosed", err)
	}
}

// Close is idempotent: concurrent callers racing to close (or to close
// while an in-flight callback is about to request removal) never panic
// and never double-release the connection reference.
func TestSubscription_CloseRacesAreIdempotent(t *testing.T) {
	conn := &fakeConn{}

	cb := func(_ ConnHandle, _ *Subscription, _ *msg.Message, _ interface{}) {
		time.Sleep(10 * time.Millisecond)
	}

	s, err := New(conn, Options{Subject: "racey", Callback: cb, NoDelay: true})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	s.Deliver(newMsg("racey", "one"))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Close(false)
		}()
	}
	wg.Wait()

	if s.IsValid() {
		t.Fatal("IsValid() = true after concurrent Close; want false")
	}

	// Close releases at most the signal timer's reference (there is none
	// here, since NoDelay is set); the worker releases its own on exit. So
	// racing Close calls must never drive conn.Release below what the
	// surviving references actually warrant.
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.released > 1 {
		t.Fatalf("conn.Release called %d times; want at most 1", conn.released)
	}
}

// Unsubscribe (unconditional) asks the connection to remove wire
// interest and transitions the subscription to invalid via the fake
// connection's synchronous Close(false), matching the documented
// contract that the connection calls Close as part of handling max==0.
func TestSubscription_Unsubscribe(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "bye"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if err := s.Unsubscribe(); err != nil {
		t.Fatalf("Unsubscribe() err = %v", err)
	}

	conn.mu.Lock()
	if len(conn.unsubscribed) != 1 || conn.unsubscribed[0] != 0 {
		conn.mu.Unlock()
		t.Fatalf("conn.Unsubscribe called with %v; want [0]", conn.unsubscribed)
	}
	conn.mu.Unlock()

	if s.IsValid() {
		t.Fatal("IsValid() = true after Unsubscribe(); want false")
	}

	// A second Unsubscribe on an already-closed subscription is a
	// documented no-op error, not a panic or a second wire round-trip.
	if err := s.Unsubscribe(); err != ErrInvalidSubscription {
		t.Fatalf("second Unsubscribe() err = %v; want ErrInvalidSubscription", err)
	}
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.unsubscribed) != 1 {
		t.Fatalf("conn.Unsubscribe called %d times; want 1", len(conn.unsubscribed))
	}
}

// Destroy releases the creator's reference, implicitly unsubscribing a
// still-active subscription exactly once even if called more than once.
func TestSubscription_Destroy(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "gone"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	s.Destroy()
	s.Destroy() // must not double-release or re-issue the wire unsubscribe

	if s.IsValid() {
		t.Fatal("IsValid() = true after Destroy(); want false")
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.unsubscribed) != 1 {
		t.Fatalf("conn.Unsubscribe called %d times; want 1", len(conn.unsubscribed))
	}
	// Destroy drives refs to zero exactly once (signal timer's stop
	// callback and the creator's release both race, but destroy() itself
	// is invoked by whichever one observes zero), so conn.Release fires
	// exactly once regardless of internal ref-count bookkeeping.
	time.Sleep(50 * time.Millisecond) // let the timer's async stop callback run
	if conn.released != 1 {
		t.Fatalf("conn.Release called %d times; want 1", conn.released)
	}
}

// Destroying an already-unsubscribed subscription only releases the
// creator's reference; it must not attempt a second wire unsubscribe.
func TestSubscription_DestroyAfterUnsubscribe(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "gone2"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if err := s.Unsubscribe(); err != nil {
		t.Fatalf("Unsubscribe() err = %v", err)
	}
	s.Destroy()

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.unsubscribed) != 1 {
		t.Fatalf("conn.Unsubscribe called %d times; want 1", len(conn.unsubscribed))
	}
}

// New rejects a nil connection or an empty subject.
func TestSubscription_NewInvalidArgument(t *testing.T) {
	conn := &fakeConn{}

	if _, err := New(nil, Options{Subject: "x"}); err != ErrInvalidArgument {
		t.Fatalf("New(nil conn) err = %v; want ErrInvalidArgument", err)
	}
	if _, err := New(conn, Options{}); err != ErrInvalidArgument {
		t.Fatalf("New(empty subject) err = %v; want ErrInvalidArgument", err)
	}
}

// NextMsg on an async subscription is a programmer error, not a race.
func TestSubscription_NextMsgOnAsyncIsIllegal(t *testing.T) {
	conn := &fakeConn{}

	cb := func(_ ConnHandle, _ *Subscription, _ *msg.Message, _ interface{}) {}
	s, err := New(conn, Options{Subject: "async", Callback: cb})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if _, err := s.NextMsg(0); err != ErrIllegalState {
		t.Fatalf("NextMsg() on async sub err = %v; want ErrIllegalState", err)
	}
}

// QueuedMessages reports the pending count and errors once closed.
func TestSubscription_QueuedMessages(t *testing.T) {
	conn := &fakeConn{}

	s, err := New(conn, Options{Subject: "q"})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	s.Deliver(newMsg("q", "a"))
	s.Deliver(newMsg("q", "b"))

	n, err := s.QueuedMessages()
	if err != nil {
		t.Fatalf("QueuedMessages() err = %v", err)
	}
	if n != 2 {
		t.Fatalf("QueuedMessages() = %d; want 2", n)
	}

	s.Close(false)
	if _, err := s.QueuedMessages(); err != ErrInvalidSubscription {
		t.Fatalf("QueuedMessages() after close err = %v; want ErrInvalidSubscription", err)
	}
}
