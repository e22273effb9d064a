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

package manage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/brightflow/pubsub-go/core/msg"
	"github.com/brightflow/pubsub-go/core/sub"
	"github.com/brightflow/pubsub-go/pkg/log"
	"github.com/brightflow/pubsub-go/utils"
)

// SubscriptionMode selects how a ManagedConsumer's underlying
// subscription competes with other consumers for the same topic.
type SubscriptionMode int

const (
	// SubscriptionModeExclusive binds the only consumer allowed on the
	// subscription; a second attempt fails.
	SubscriptionModeExclusive SubscriptionMode = iota + 1
	// SubscriptionModeFailover is accepted for API symmetry with the
	// other two modes but currently maps onto the same QueueGroup-less
	// subscription as Exclusive: this protocol has no separate failover
	// sub-type on the wire.
	SubscriptionModeFailover
	// SubscriptionModeShared load-balances delivery across every consumer
	// sharing the same queue group name (ConsumerConfig.Name).
	SubscriptionModeShared
)

// ErrorInvalidSubMode is returned when ConsumerConfig.SubMode isn't one
// of the SubscriptionMode constants.
var ErrorInvalidSubMode = errors.New("invalid subscription mode")

// ConsumerConfig configures a ManagedConsumer.
type ConsumerConfig struct {
	ClientConfig

	Topic   string
	Name    string // queue group name, used only in SubscriptionModeShared
	SubMode SubscriptionMode

	// QueueSize becomes the underlying subscription's PendingMax: the
	// number of messages buffered before slow-consumer detection trips.
	QueueSize int

	NewConsumerTimeout    time.Duration // maximum duration to create a subscription, including connect
	InitialReconnectDelay time.Duration
	MaxReconnectDelay     time.Duration
	ReceivePollInterval   time.Duration // NextMsg poll granularity used by Receive/ReceiveAsync
}

// SetDefaults returns a modified config with zero-valued fields replaced
// by reasonable defaults.
func (c ConsumerConfig) SetDefaults() ConsumerConfig {
	if c.NewConsumerTimeout <= 0 {
		c.NewConsumerTimeout = 5 * time.Second
	}
	if c.InitialReconnectDelay <= 0 {
		c.InitialReconnectDelay = 1 * time.Second
	}
	if c.MaxReconnectDelay <= 0 {
		c.MaxReconnectDelay = 5 * time.Minute
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 128
	}
	if c.ReceivePollInterval <= 0 {
		c.ReceivePollInterval = 5 * time.Second
	}
	return c
}

// manageCheckInterval is how often manage's background goroutine polls
// the current subscription's validity. Subscription exposes no
// close-notification channel (unlike a raw connection's Closed()), so
// polling stands in for an event-driven watch.
const manageCheckInterval = 200 * time.Millisecond

// NewManagedConsumer returns an initialized ManagedConsumer. It creates
// and, on failure, recreates a subscription for the given topic on a
// background goroutine.
func NewManagedConsumer(cp *ClientPool, cfg ConsumerConfig) *ManagedConsumer {
	cfg = cfg.SetDefaults()

	m := &ManagedConsumer{
		clientPool:     cp,
		cfg:            cfg,
		asyncErrs:      utils.NewAsyncErrors(),
		waitc:          make(chan struct{}),
		stopManageChan: make(chan struct{}),
	}

	go m.manage()

	return m
}

// ManagedConsumer wraps a *sub.Subscription with reconnect logic, built
// around this protocol's pull-based (NextMsg) subscription core rather
// than a permit-based flow-control channel.
type ManagedConsumer struct {
	clientPool *ClientPool
	cfg        ConsumerConfig
	asyncErrs  *utils.AsyncErrors

	mu             sync.RWMutex      // protects following
	sub            *sub.Subscription // either sub is nil and waitc isn't, or vice versa
	waitc          chan struct{}
	stopManageChan chan struct{}
}

// Receive returns a single Message, blocking (subject to ctx) until one
// is available. While the managed subscription is torn down and not yet
// replaced, it keeps retrying instead of returning; only ctx ends the
// wait with an error.
func (m *ManagedConsumer) Receive(ctx context.Context) (*msg.Message, error) {
	for {
		m.mu.RLock()
		s := m.sub
		wait := m.waitc
		m.mu.RUnlock()

		if s == nil {
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		message, err := s.NextMsg(m.cfg.ReceivePollInterval)
		switch {
		case err == nil:
			return message, nil

		case errors.Is(err, sub.ErrTimeout):
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
				continue
			}

		case errors.Is(err, sub.ErrSlowConsumer):
			m.asyncErrs.Send("receive", err)
			continue

		default:
			// Subscription torn down (ErrConnectionClosed, ErrInvalidSubscription,
			// ErrMaxMessagesDelivered); wait for manage() to install a replacement.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
				continue
			}
		}
	}
}

// ReceiveAsync blocks until ctx is done, continuously pulling messages
// and sending them to msgs. It collapses onto Receive in a loop, since
// this protocol has no permit channel to pace independently of NextMsg's
// own polling.
func (m *ManagedConsumer) ReceiveAsync(ctx context.Context, msgs chan<- *msg.Message) error {
	for {
		message, err := m.Receive(ctx)
		if err != nil {
			return err
		}

		select {
		case msgs <- message:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Unsubscribe removes the managed subscription's interest in its topic
// unconditionally, waiting (subject to ctx) if a subscription isn't
// currently installed.
func (m *ManagedConsumer) Unsubscribe(ctx context.Context) error {
	for {
		m.mu.RLock()
		s := m.sub
		wait := m.waitc
		m.mu.RUnlock()

		if s == nil {
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return s.Unsubscribe()
	}
}

// Close stops the background manage goroutine and unsubscribes the
// current subscription.
func (m *ManagedConsumer) Close(ctx context.Context) error {
	for {
		m.mu.RLock()
		s := m.sub
		wait := m.waitc
		m.mu.RUnlock()

		if s == nil {
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		m.mu.Lock()
		select {
		case <-m.stopManageChan:
		default:
			close(m.stopManageChan)
		}
		m.mu.Unlock()

		err := s.Unsubscribe()
		s.Destroy() // Unsubscribe already closed s; this only releases our reference.
		return err
	}
}

// destroyCurrent is called by manage() whenever it is replacing or
// retiring the subscription it currently owns. It releases the creator's
// reference (sending an implicit Unsubscribe first if the subscription
// is still active), matching the teardown a plain Client caller performs
// when it is done with a *sub.Subscription.
func (m *ManagedConsumer) destroyCurrent(s *sub.Subscription) {
	if s != nil {
		s.Destroy()
	}
}

// set installs s as the current subscription and unblocks any Receive/
// ReceiveAsync/Unsubscribe/Close callers waiting for one.
func (m *ManagedConsumer) set(s *sub.Subscription) {
	m.mu.Lock()

	m.sub = s

	if m.waitc != nil {
		close(m.waitc)
		m.waitc = nil
	}

	m.mu.Unlock()
}

// unset clears the current subscription and arranges a fresh wait
// channel for callers to block on until the next set.
func (m *ManagedConsumer) unset() {
	m.mu.Lock()

	if m.waitc == nil {
		m.waitc = make(chan struct{})
	}
	m.sub = nil

	m.mu.Unlock()
}

// newConsumer attempts to create a subscription for the configured
// topic via the client pool.
func (m *ManagedConsumer) newConsumer(ctx context.Context) (*sub.Subscription, error) {
	handle, err := m.clientPool.ForTopic(ctx, m.cfg.ClientConfig, m.cfg.Topic)
	if err != nil {
		return nil, err
	}

	client, err := handle.Get(ctx)
	if err != nil {
		return nil, err
	}

	sc := SubConfig{PendingMax: m.cfg.QueueSize}

	switch m.cfg.SubMode {
	case SubscriptionModeExclusive, SubscriptionModeFailover:
		return client.SubscribeSync(m.cfg.Topic, sc)
	case SubscriptionModeShared:
		return client.QueueSubscribeSync(m.cfg.Topic, m.cfg.Name, sc)
	default:
		return nil, ErrorInvalidSubMode
	}
}

// reconnect blocks, retrying with exponential backoff (capped at
// MaxReconnectDelay), until a new subscription is created.
func (m *ManagedConsumer) reconnect(initial bool) *sub.Subscription {
	retryDelay := m.cfg.InitialReconnectDelay

	for {
		if initial {
			initial = false
		} else {
			<-time.After(retryDelay)
			if retryDelay < m.cfg.MaxReconnectDelay {
				if retryDelay *= 2; retryDelay > m.cfg.MaxReconnectDelay {
					retryDelay = m.cfg.MaxReconnectDelay
				}
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.NewConsumerTimeout)
		s, err := m.newConsumer(ctx)
		cancel()
		if err != nil {
			m.asyncErrs.Send("reconnect", err)
			continue
		}

		log.Debugf("managed consumer: subscribed to %s", m.cfg.Topic)
		return s
	}
}

// manage owns the current subscription's lifecycle: it creates the
// initial one, then polls its validity and recreates it on failure,
// until stopped via Close.
func (m *ManagedConsumer) manage() {
	defer m.unset()

	s := m.reconnect(true)
	m.set(s)

	ticker := time.NewTicker(manageCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.IsValid() {
				continue
			}
		case <-m.stopManageChan:
			return
		}

		m.destroyCurrent(s)
		m.unset()
		s = m.reconnect(false)
		m.set(s)
	}
}
