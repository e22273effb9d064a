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

// Package sub implements the subscription core: a per-subscription
// message queue fed by a connection's read loop, drained either by a
// dedicated delivery worker goroutine (async, callback-driven) or by a
// synchronous NextMsg pull (sync). It is the centerpiece of the client:
// everything else (conn, frame, pub, manage) exists to get bytes to and
// from this package.
package sub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/brightflow/pubsub-go/core/msg"
	"github.com/brightflow/pubsub-go/pkg/log"
)

// Defaults for the signal coalescer: the timer idles at slowInterval once
// the list has drained, and is kicked into fastInterval by the reader
// the moment a message arrives on an empty list.
const (
	slowInterval         = 10 * time.Second
	fastInterval         = 50 * time.Millisecond
	signalFailCountLimit = 10
)

// MsgHandler is invoked by the delivery worker for each message on an
// async subscription. It owns msg for the duration of the call; msg must
// not be retained past return. Mirrors nats.go's MsgHandler-is-nil-or-not
// convention: a nil handler on a Subscription makes it synchronous.
type MsgHandler func(conn ConnHandle, sub *Subscription, m *msg.Message, cbCtx interface{})

// ConnHandle is the collaborator a Subscription calls back into: the
// concrete connection that owns the wire, implemented by core/manage's
// Client. It is never itself locked by Subscription code while the
// subscription's own lock is held (see Concurrency & Resource Model:
// connection-lock before subscription-lock, never the reverse).
type ConnHandle interface {
	// Retain/Release implement the back-reference a subscription holds
	// on its connection for as long as it is alive.
	Retain()
	Release()

	// RegisterSubscription performs the wire-level SUBSCRIBE registration
	// for s. Named distinctly from the Client-level Subscribe/SubscribeSync/
	// QueueSubscribe/QueueSubscribeSync family (which construct a
	// Subscription and call this as part of doing so) to keep the two
	// levels of the API from colliding on a method name.
	RegisterSubscription(s *Subscription) error

	// Unsubscribe performs the wire-level UNSUBSCRIBE for s with the
	// given auto-unsubscribe limit (0 means unconditional).
	Unsubscribe(s *Subscription, max uint64) error

	// RemoveSubscription removes s from the connection's subscription
	// table. drain is true when triggered by a delivery limit rather
	// than an explicit unsubscribe.
	RemoveSubscription(s *Subscription, drain bool)
}

// Subscription is a single subscription's identity, queue, counters and
// synchronization primitives. Exactly one of async (cb != nil) or sync
// (cb == nil) holds for its entire life.
type Subscription struct {
	mu   sync.Mutex
	cond *sync.Cond

	subject string
	queue   string

	conn ConnHandle

	cb    MsgHandler
	cbCtx interface{}

	list messageList

	delivered uint64
	max       uint64

	pendingMax  int
	signalLimit int

	noDelay bool
	inWait  int

	closed     bool
	connClosed bool

	slowConsumer bool

	refs int32

	// destroyed guards Destroy against releasing the creator's reference
	// more than once; see close.go.
	destroyed int32

	signalTimer         *time.Timer
	signalTimerInterval time.Duration
	signalFailCount     int
}

// Options configures a new Subscription. QueueGroup, Callback, CbCtx and
// NoDelay are all optional; PendingMax of 0 disables slow-consumer
// detection.
type Options struct {
	Subject    string
	QueueGroup string
	Callback   MsgHandler
	CbCtx      interface{}
	NoDelay    bool
	PendingMax int
	Max        uint64
}

// New creates and registers a subscription on conn. If opts.Callback is
// non-nil the subscription is async and a delivery worker goroutine is
// started immediately; otherwise it is sync and consumed via NextMsg.
// The returned subscription holds the creator's reference (refs == 1
// plus one more for the worker, if any, and one more for the signal timer
// unless NoDelay is set).
func New(conn ConnHandle, opts Options) (*Subscription, error) {
	if conn == nil || opts.Subject == "" {
		return nil, ErrInvalidArgument
	}

	s := &Subscription{
		subject:     opts.Subject,
		queue:       opts.QueueGroup,
		conn:        conn,
		cb:          opts.Callback,
		cbCtx:       opts.CbCtx,
		max:         opts.Max,
		pendingMax:  opts.PendingMax,
		signalLimit: opts.PendingMax * 3 / 4,
		noDelay:     opts.NoDelay,
		refs:        1,
	}
	s.cond = sync.NewCond(&s.mu)

	conn.Retain()

	if err := conn.RegisterSubscription(s); err != nil {
		conn.Release()
		return nil, err
	}

	if s.cb != nil {
		s.retainLocked()
		go s.deliveryLoop()
	}

	if !s.noDelay {
		s.retainLocked()
		s.mu.Lock()
		s.signalTimerInterval = slowInterval
		s.signalTimer = time.AfterFunc(s.signalTimerInterval, s.onTick)
		s.mu.Unlock()
	}

	return s, nil
}

// retainLocked increments the reference count. Callers do not need to
// hold s.mu, but the discipline followed elsewhere is to increment only
// from a context that could also have taken the lock; New calls this
// before the subscription is reachable by any other goroutine.
func (s *Subscription) retainLocked() {
	atomic.AddInt32(&s.refs, 1)
}

// retain increments the reference count under the subscription lock, as
// required for any retain happening after the subscription is shared
// across goroutines.
func (s *Subscription) retain() {
	s.mu.Lock()
	atomic.AddInt32(&s.refs, 1)
	s.mu.Unlock()
}

// release decrements the reference count and destroys the subscription
// exactly once, from whichever goroutine observes the count reach zero.
func (s *Subscription) release() {
	if atomic.AddInt32(&s.refs, -1) == 0 {
		s.destroy()
	}
}

// destroy drains the message list and releases the connection
// reference. Called exactly once, by release() when refs hits zero.
func (s *Subscription) destroy() {
	s.mu.Lock()
	s.list.drain()
	s.mu.Unlock()
	s.conn.Release()
}

// NoDeliveryDelay idempotently flips the subscription into no-delay mode
// and stops the signal timer. Safe to call more than once.
func (s *Subscription) NoDeliveryDelay() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.noDelay {
		return
	}
	s.noDelay = true
	s.stopTimerLocked()
}

// stopTimerLocked stops the signal timer, if any, and nils the handle so
// that a subsequent reset (from the reader upcall) is a documented
// no-op. Must be called with s.mu held.
func (s *Subscription) stopTimerLocked() {
	if s.signalTimer == nil {
		return
	}
	t := s.signalTimer
	s.signalTimer = nil
	// Stop's own goroutine releases the timer's reference exactly once,
	// whether or not the timer had already fired.
	go func() {
		t.Stop()
		s.release()
	}()
}

// QueuedMessages returns the number of messages currently pending
// delivery. Fails if the subscription has been closed.
func (s *Subscription) QueuedMessages() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrInvalidSubscription
	}
	return s.list.count, nil
}

// IsValid reports whether the subscription has not been closed.
func (s *Subscription) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Subject returns the subscription's interest pattern.
func (s *Subscription) Subject() string { return s.subject }

// QueueGroup returns the subscription's queue-group name, or "" if none.
func (s *Subscription) QueueGroup() string { return s.queue }

// Deliver is called by the connection's read loop when a MESSAGE frame
// decodes to m for this subscription. It applies slow-consumer detection
// and either wakes waiters immediately (no-delay, or list was empty) or
// leaves the wake to the signal coalescer.
func (s *Subscription) Deliver(m *msg.Message) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	if s.pendingMax > 0 && s.list.count >= s.pendingMax {
		s.slowConsumer = true
		s.mu.Unlock()
		log.Warnf("sub %s: pending_max (%d) exceeded, dropping message", s.subject, s.pendingMax)
		return
	}

	wasEmpty := s.list.count == 0
	s.list.enqueue(m)
	crossedSignalLimit := s.signalLimit > 0 && s.list.count >= s.signalLimit

	switch {
	case s.noDelay:
		s.cond.Broadcast()
	case wasEmpty || crossedSignalLimit:
		// Either the worker/puller has nothing else to do (wasEmpty) or the
		// list just crossed the soft signal_limit threshold (75% of
		// pendingMax): in both cases, waking now rather than waiting for
		// the next coalescer tick keeps the list from growing into
		// slow-consumer territory under sustained load.
		s.resetTimerLocked(fastInterval)
		if s.inWait > 0 {
			s.cond.Broadcast()
		}
	}

	s.mu.Unlock()
}

// resetTimerLocked reparents the signal timer onto interval. A no-op if
// the timer has already been stopped (signalTimer == nil), per the
// documented resolution of the no_delay/timer interaction. Must be
// called with s.mu held.
func (s *Subscription) resetTimerLocked(interval time.Duration) {
	if s.signalTimer == nil {
		return
	}
	s.signalTimerInterval = interval
	s.signalTimer.Reset(interval)
}

// onTick is the signal timer's callback, invoked from its own goroutine
// on every tick. It implements a try-lock/fail-counter coalescing
// protocol so a contended lock never stalls the timer indefinitely.
func (s *Subscription) onTick() {
	if !s.mu.TryLock() {
		s.signalFailCount++
		if s.signalFailCount < signalFailCountLimit {
			s.rearmLocklessly()
			return
		}
		s.mu.Lock()
		s.signalFailCount = 0
	}

	s.tickLocked()
}

// rearmLocklessly reschedules the timer without touching the
// subscription lock, used while backing off from a contended lock.
func (s *Subscription) rearmLocklessly() {
	if s.signalTimer != nil {
		s.signalTimer.Reset(s.signalTimerInterval)
	}
}

// tickLocked implements the lock-held portion of onTick and unlocks
// before returning.
func (s *Subscription) tickLocked() {
	defer s.mu.Unlock()

	if s.closed || s.signalTimer == nil {
		return
	}

	s.signalFailCount = 0

	if s.list.count == 0 {
		s.signalTimerInterval = slowInterval
	} else if s.inWait > 0 {
		s.cond.Broadcast()
	}

	s.signalTimer.Reset(s.signalTimerInterval)
}
