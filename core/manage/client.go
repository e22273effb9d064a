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
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brightflow/pubsub-go/core/conn"
	"github.com/brightflow/pubsub-go/core/frame"
	"github.com/brightflow/pubsub-go/core/msg"
	"github.com/brightflow/pubsub-go/core/pub"
	"github.com/brightflow/pubsub-go/core/sub"
	"github.com/brightflow/pubsub-go/pkg/api"
	"github.com/brightflow/pubsub-go/pkg/log"
	"github.com/brightflow/pubsub-go/utils"
)

// ClientConfig dials and authenticates a single broker connection.
type ClientConfig struct {
	Addr           string
	DialTimeout    time.Duration
	ConnectTimeout time.Duration
	TLSConfig      *tls.Config // nil means plain TCP
	AuthMethod     string
	AuthData       []byte
}

// SetDefaults returns a modified config with zero-valued timeouts
// replaced by reasonable defaults.
func (c ClientConfig) SetDefaults() ClientConfig {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	return c
}

// SubConfig carries the tuning knobs exposed to callers of the
// Subscribe/SubscribeSync/QueueSubscribe/QueueSubscribeSync family. The
// subject, queue group and callback are supplied as direct arguments to
// those methods instead of living here, matching nats.go's calling
// convention.
type SubConfig struct {
	// PendingMax bounds the subscription's local queue before the slow
	// consumer flag trips and further messages are dropped. Zero disables
	// slow-consumer detection.
	PendingMax int
	// NoDelay disables signal coalescing, trading CPU for lower latency;
	// appropriate for request/reply-shaped subjects.
	NoDelay bool
	// Max, if non-zero, auto-unsubscribes the subscription after this
	// many deliveries.
	Max uint64
}

// Client is the concrete ConnHandle collaborator core/sub calls back
// into: it owns a connection, a request/response dispatcher, and the
// subscription and producer tables keyed by the IDs it hands out on the
// wire. It implements Retain/Release/RegisterSubscription/Unsubscribe/
// RemoveSubscription for core/sub, and exposes the public
// Subscribe/SubscribeSync/QueueSubscribe/QueueSubscribeSync/NewProducer
// surface built on top of it.
type Client struct {
	cfg        ClientConfig
	conn       *conn.Conn
	dispatcher *frame.Dispatcher
	asyncErrs  *utils.AsyncErrors

	reqID      msg.MonotonicID
	consumerID msg.MonotonicID
	producerID msg.MonotonicID

	refs int32

	mu        sync.Mutex
	subs      map[uint64]*sub.Subscription
	subIDs    map[*sub.Subscription]uint64
	producers map[uint64]*pub.Producer
	closed    bool
}

// Connect dials addr, completes the CONNECT/CONNECTED handshake, and
// starts the connection's read loop. The returned Client holds the
// creator's reference; callers give it up with Release when done, and the
// connection closes once that and every subscription's reference are
// released.
func Connect(ctx context.Context, cfg ClientConfig) (*Client, error) {
	cfg = cfg.SetDefaults()

	var tc *conn.Conn
	var err error
	if cfg.TLSConfig != nil {
		tc, err = conn.NewTLSConn(cfg.Addr, cfg.TLSConfig, cfg.DialTimeout)
	} else {
		tc, err = conn.NewTCPConn(cfg.Addr, cfg.DialTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.Addr, err)
	}

	c := &Client{
		cfg:        cfg,
		conn:       tc,
		dispatcher: frame.NewFrameDispatcher(),
		asyncErrs:  utils.NewAsyncErrors(),
		refs:       1,
		subs:       make(map[uint64]*sub.Subscription),
		subIDs:     make(map[*sub.Subscription]uint64),
		producers:  make(map[uint64]*pub.Producer),
	}

	connector := conn.NewConnector(c.conn, c.dispatcher, conn.AuthConfig{
		AuthMethod: cfg.AuthMethod,
		AuthData:   cfg.AuthData,
	})

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	go func() {
		if err := c.conn.Read(c.handleFrame); err != nil {
			log.Debugf("client %s: read loop exited: %v", cfg.Addr, err)
		}
		c.closeAll()
	}()

	if _, err := connector.Connect(connectCtx, cfg.AuthMethod, ""); err != nil {
		_ = c.conn.Close()
		return nil, fmt.Errorf("connect %s: %w", cfg.Addr, err)
	}

	return c, nil
}

// u64 dereferences a required protobuf uint64 field, treating a nil
// pointer (which should never occur for a required field, but the
// hand-maintained api package doesn't enforce that at decode time) as 0.
func u64(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}

// Retain implements sub.ConnHandle.
func (c *Client) Retain() { atomic.AddInt32(&c.refs, 1) }

// Release implements sub.ConnHandle. It closes the underlying connection
// once every subscription and the creator handle have let go. Producers
// hold no reference.
func (c *Client) Release() {
	if atomic.AddInt32(&c.refs, -1) == 0 {
		_ = c.conn.Close()
	}
}

// Closed reports the client's connection-closed channel. Producers and the
// connector are given the underlying *conn.Conn, not the Client, as their
// frame.CmdSender.
func (c *Client) Closed() <-chan struct{} { return c.conn.Closed() }

// Alive reports whether the client's connection is still usable. Used by
// ClientPool to decide whether a cached Client can be handed out again or
// must be replaced.
func (c *Client) Alive() bool {
	select {
	case <-c.Closed():
		return false
	default:
		return true
	}
}

// subscribe is the shared body of the public Subscribe family: build a
// Subscription (which itself calls back into RegisterSubscription to do
// the wire round trip) and, on success, nothing further is needed since
// New already performed registration.
func (c *Client) subscribe(subject, queue string, cb sub.MsgHandler, cbCtx interface{}, sc SubConfig) (*sub.Subscription, error) {
	return sub.New(c, sub.Options{
		Subject:    subject,
		QueueGroup: queue,
		Callback:   cb,
		CbCtx:      cbCtx,
		NoDelay:    sc.NoDelay,
		PendingMax: sc.PendingMax,
		Max:        sc.Max,
	})
}

// Subscribe creates an asynchronous subscription: cb is invoked for every
// message, serially, on a dedicated delivery goroutine.
func (c *Client) Subscribe(subject string, cb sub.MsgHandler, cbCtx interface{}, sc SubConfig) (*sub.Subscription, error) {
	return c.subscribe(subject, "", cb, cbCtx, sc)
}

// SubscribeSync creates a synchronous subscription, consumed via
// (*sub.Subscription).NextMsg.
func (c *Client) SubscribeSync(subject string, sc SubConfig) (*sub.Subscription, error) {
	return c.subscribe(subject, "", nil, nil, sc)
}

// QueueSubscribe is Subscribe plus a queue group: the broker load-balances
// delivery across every subscription sharing queue.
func (c *Client) QueueSubscribe(subject, queue string, cb sub.MsgHandler, cbCtx interface{}, sc SubConfig) (*sub.Subscription, error) {
	return c.subscribe(subject, queue, cb, cbCtx, sc)
}

// QueueSubscribeSync is SubscribeSync plus a queue group.
func (c *Client) QueueSubscribeSync(subject, queue string, sc SubConfig) (*sub.Subscription, error) {
	return c.subscribe(subject, queue, nil, nil, sc)
}

// RegisterSubscription implements sub.ConnHandle: it assigns a consumer
// ID, records s in the client's tables, and performs the SUBSCRIBE
// round-trip.
func (c *Client) RegisterSubscription(s *sub.Subscription) error {
	id := *c.consumerID.Next()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("client: %w", sub.ErrConnectionClosed)
	}
	c.subs[id] = s
	c.subIDs[s] = id
	c.mu.Unlock()

	reqID := *c.reqID.Next()
	subType := api.SubType_Exclusive
	if s.QueueGroup() != "" {
		subType = api.SubType_Shared
	}

	resp, cancel, err := c.dispatcher.RegisterReqID(reqID)
	if err != nil {
		return err
	}
	defer cancel()

	subject := s.Subject()
	cmd := api.BaseCommand{
		Type: api.BaseCommand_SUBSCRIBE.Enum(),
		Subscribe: &api.CommandSubscribe{
			Topic:        &subject,
			Subscription: &subject,
			SubType:      subType.Enum(),
			ConsumerId:   &id,
			RequestId:    &reqID,
		},
	}
	if err := c.conn.SendSimpleCmd(cmd); err != nil {
		return err
	}

	select {
	case f := <-resp:
		if f.BaseCmd.GetType() == api.BaseCommand_ERROR {
			errCmd := f.BaseCmd.GetError()
			return fmt.Errorf("subscribe %s: %s: %s", s.Subject(), errCmd.GetError(), errCmd.GetMessage())
		}
		return nil
	case <-c.conn.Closed():
		return sub.ErrConnectionClosed
	}
}

// Unsubscribe implements sub.ConnHandle. When max == 0 (unconditional
// unsubscribe) it sends the wire-level UNSUBSCRIBE, waits for the reply or
// for the connection to close, and synchronously closes s. When max > 0
// (auto-unsubscribe) it sends nothing: UNSUBSCRIBE carries no limit in this
// protocol, and s enforces the limit locally.
func (c *Client) Unsubscribe(s *sub.Subscription, max uint64) error {
	c.mu.Lock()
	id, ok := c.subIDs[s]
	c.mu.Unlock()
	if !ok {
		return sub.ErrInvalidSubscription
	}

	if max == 0 {
		reqID := *c.reqID.Next()
		resp, cancel, err := c.dispatcher.RegisterReqID(reqID)
		if err != nil {
			return err
		}
		defer cancel()

		cmd := api.BaseCommand{
			Type: api.BaseCommand_UNSUBSCRIBE.Enum(),
			Unsubscribe: &api.CommandUnsubscribe{
				ConsumerId: &id,
				RequestId:  &reqID,
			},
		}
		if err := c.conn.SendSimpleCmd(cmd); err != nil {
			return err
		}

		select {
		case <-resp:
		case <-c.conn.Closed():
		}

		c.RemoveSubscription(s, false)
		s.Close(false)
	}

	return nil
}

// RemoveSubscription implements sub.ConnHandle, deregistering s from the
// client's tables and closing it (a no-op if s is already closed), so a
// subscription whose delivery limit was reached ends up closed. drain is
// accepted for interface parity; any in-flight delivery already holds its
// own reference to s so removing the table entry here never races a live
// callback.
func (c *Client) RemoveSubscription(s *sub.Subscription, drain bool) {
	c.mu.Lock()
	id, ok := c.subIDs[s]
	if ok {
		delete(c.subIDs, s)
		delete(c.subs, id)
	}
	c.mu.Unlock()

	s.Close(false)
}

// NewProducer creates a producer for the given topic and completes the
// wire-level PRODUCER handshake.
func (c *Client) NewProducer(ctx context.Context, topic string) (*pub.Producer, error) {
	id := *c.producerID.Next()
	reqID := *c.reqID.Next()

	resp, cancel, err := c.dispatcher.RegisterReqID(reqID)
	if err != nil {
		return nil, err
	}
	defer cancel()

	cmd := api.BaseCommand{
		Type: api.BaseCommand_PRODUCER.Enum(),
		Producer: &api.CommandProducer{
			Topic:      &topic,
			ProducerId: &id,
			RequestId:  &reqID,
		},
	}
	if err := c.conn.SendSimpleCmd(cmd); err != nil {
		return nil, err
	}

	var producerName string
	select {
	case f := <-resp:
		if f.BaseCmd.GetType() == api.BaseCommand_ERROR {
			errCmd := f.BaseCmd.GetError()
			return nil, fmt.Errorf("producer %s: %s: %s", topic, errCmd.GetError(), errCmd.GetMessage())
		}
		producerName = f.BaseCmd.GetProducerSuccess().GetProducerName()
	case <-c.conn.Closed():
		return nil, fmt.Errorf("client: %w", sub.ErrConnectionClosed)
	}

	p := pub.NewProducer(c.conn, c.dispatcher, &c.reqID, id)
	p.ProducerName = producerName

	c.mu.Lock()
	c.producers[id] = p
	c.mu.Unlock()

	return p, nil
}

// handleFrame dispatches a decoded frame to the dispatcher, a
// subscription's Deliver, or a producer's close handler, according to its
// type. It runs on the connection's single read goroutine.
func (c *Client) handleFrame(f frame.Frame) {
	switch f.BaseCmd.GetType() {
	case api.BaseCommand_CONNECTED:
		c.dispatcher.NotifyGlobal(f)

	case api.BaseCommand_SUCCESS:
		_ = c.dispatcher.NotifyReqID(u64(f.BaseCmd.GetSuccess().RequestId), f)

	case api.BaseCommand_PRODUCER_SUCCESS:
		_ = c.dispatcher.NotifyReqID(u64(f.BaseCmd.GetProducerSuccess().RequestId), f)

	case api.BaseCommand_ERROR:
		_ = c.dispatcher.NotifyReqID(u64(f.BaseCmd.GetError().RequestId), f)

	case api.BaseCommand_SEND_RECEIPT:
		r := f.BaseCmd.GetSendReceipt()
		_ = c.dispatcher.NotifyProdSeqIDs(u64(r.ProducerId), u64(r.SequenceId), f)

	case api.BaseCommand_SEND_ERROR:
		r := f.BaseCmd.GetSendError()
		_ = c.dispatcher.NotifyProdSeqIDs(u64(r.ProducerId), u64(r.SequenceId), f)

	case api.BaseCommand_CLOSE_PRODUCER:
		r := f.BaseCmd.GetCloseProducer()
		c.mu.Lock()
		p, ok := c.producers[r.GetProducerId()]
		c.mu.Unlock()
		if ok {
			if err := p.HandleCloseProducer(f); err != nil {
				c.asyncErrs.Send("close-producer", err)
			}
		}

	case api.BaseCommand_MESSAGE:
		r := f.BaseCmd.GetMessage()
		consumerID := u64(r.ConsumerId)
		c.mu.Lock()
		s, ok := c.subs[consumerID]
		c.mu.Unlock()
		if !ok {
			return
		}
		s.Deliver(&msg.Message{
			Topic:           s.Subject(),
			Payload:         f.Payload,
			Properties:      f.Metadata.GetProperties(),
			RedeliveryCount: r.GetRedeliveryCount(),
		})

	default:
		log.Debugf("client %s: unhandled frame type %s", c.cfg.Addr, f.BaseCmd.GetType())
	}
}

// closeAll is invoked once the read loop exits (the connection is gone):
// it marks the client closed and forces every live subscription closed
// with connClosed = true, mirroring the cooperative-cancellation model
// Close(sub, conn_closed_flag) describes.
func (c *Client) closeAll() {
	c.mu.Lock()
	c.closed = true
	subs := make([]*sub.Subscription, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s.Close(true)
	}
}
