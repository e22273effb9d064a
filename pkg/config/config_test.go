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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brightflow/pubsub-go/core/manage"
)

const sampleTOML = `
[client]
addr = "broker.internal:7650"
dial_timeout_ms = 3000
connect_timeout_ms = 4000
auth_method = "none"

[logging]
level = "debug"
file_path = "/var/log/pubsub-go.log"
max_size_mb = 10
max_backups = 3
max_age_days = 7
compress = true

[consumer]
topic = "orders"
sub_mode = "shared"
name = "order-workers"
queue_size = 256
new_consumer_timeout_ms = 5000
initial_reconnect_delay_ms = 1000
max_reconnect_delay_ms = 60000
receive_poll_interval_ms = 5000
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o600); err != nil {
		t.Fatalf("os.WriteFile() err = %v", err)
	}
	return path
}

func TestLoad_ClientAndConsumerConfig(t *testing.T) {
	path := writeSample(t)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	clientCfg, err := f.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig() err = %v", err)
	}
	if clientCfg.Addr != "broker.internal:7650" {
		t.Fatalf("Addr = %q; want %q", clientCfg.Addr, "broker.internal:7650")
	}
	if clientCfg.DialTimeout != 3*time.Second {
		t.Fatalf("DialTimeout = %v; want 3s", clientCfg.DialTimeout)
	}
	if clientCfg.TLSConfig != nil {
		t.Fatalf("TLSConfig = %v; want nil (tls.enabled not set)", clientCfg.TLSConfig)
	}

	consumerCfg, err := f.ConsumerConfig(clientCfg)
	if err != nil {
		t.Fatalf("ConsumerConfig() err = %v", err)
	}
	if consumerCfg.Topic != "orders" {
		t.Fatalf("Topic = %q; want %q", consumerCfg.Topic, "orders")
	}
	if consumerCfg.SubMode != manage.SubscriptionModeShared {
		t.Fatalf("SubMode = %v; want SubscriptionModeShared", consumerCfg.SubMode)
	}
	if consumerCfg.QueueSize != 256 {
		t.Fatalf("QueueSize = %d; want 256", consumerCfg.QueueSize)
	}
	if consumerCfg.ReceivePollInterval != 5*time.Second {
		t.Fatalf("ReceivePollInterval = %v; want 5s", consumerCfg.ReceivePollInterval)
	}

	if f.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q; want %q", f.Logging.Level, "debug")
	}
	if f.Logging.MaxSizeMB != 10 {
		t.Fatalf("Logging.MaxSizeMB = %d; want 10", f.Logging.MaxSizeMB)
	}
}

func TestParseSubMode(t *testing.T) {
	cases := map[string]manage.SubscriptionMode{
		"":          manage.SubscriptionModeExclusive,
		"exclusive": manage.SubscriptionModeExclusive,
		"Failover":  manage.SubscriptionModeFailover,
		"SHARED":    manage.SubscriptionModeShared,
	}
	for in, want := range cases {
		got, err := parseSubMode(in)
		if err != nil {
			t.Fatalf("parseSubMode(%q) err = %v", in, err)
		}
		if got != want {
			t.Fatalf("parseSubMode(%q) = %v; want %v", in, got, want)
		}
	}

	if _, err := parseSubMode("bogus"); err == nil {
		t.Fatal("parseSubMode(\"bogus\") err = nil; want error")
	}
}
