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
	"fmt"
	"sync"
)

// NewClientPool returns a ready-to-use, empty ClientPool.
func NewClientPool() *ClientPool {
	return &ClientPool{clients: make(map[string]*Client)}
}

// ClientPool caches one Client per broker address, so every
// ManagedConsumer and producer targeting the same broker shares a
// connection instead of dialing one each.
type ClientPool struct {
	mu      sync.Mutex
	clients map[string]*Client
}

// ClientHandle defers a pool lookup's dial until Get is called, so
// ForTopic can be called eagerly (e.g. from ManagedConsumer.newConsumer)
// without forcing a connection attempt before it's actually needed.
type ClientHandle struct {
	pool *ClientPool
	cfg  ClientConfig
}

// ForTopic returns a handle for the client serving cfg.Addr. topic plays
// no role in address-keyed pooling today (there is no per-topic broker
// routing in this protocol) but is accepted so call sites that learn a
// topic's broker address via discovery can be adapted later without
// changing this signature.
func (p *ClientPool) ForTopic(ctx context.Context, cfg ClientConfig, topic string) (*ClientHandle, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("client pool: topic %q: empty broker address", topic)
	}
	return &ClientHandle{pool: p, cfg: cfg}, nil
}

// Get returns the pooled Client for this handle's address, dialing and
// connecting one if none is cached or the cached one's connection has
// gone away. The pool itself owns the reference keeping a cached client's
// connection open (see Client.Retain/Release); individual subscriptions
// built on the returned Client acquire their own reference as part of
// their own construction (producers take none), so callers of Get need
// not call Retain or Release themselves.
func (h *ClientHandle) Get(ctx context.Context) (*Client, error) {
	return h.pool.get(ctx, h.cfg)
}

// get implements the double-checked lookup: a quick path under the pool
// lock for the common case of an already-live client, and a dial outside
// the lock (so one slow Connect doesn't stall unrelated addresses)
// followed by a second check to avoid a redundant connection racing
// another goroutine's.
func (p *ClientPool) get(ctx context.Context, cfg ClientConfig) (*Client, error) {
	p.mu.Lock()
	if c, ok := p.clients[cfg.Addr]; ok && c.Alive() {
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	c, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if existing, ok := p.clients[cfg.Addr]; ok && existing.Alive() {
		p.mu.Unlock()
		c.Release()
		return existing, nil
	}
	p.clients[cfg.Addr] = c
	p.mu.Unlock()

	return c, nil
}
