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

package utils

import (
	"os"
	"testing"
)

// BrokerAddr returns the broker address integration tests should dial,
// taken from the PUBSUB_ADDR environment variable (default
// "localhost:7650"), skipping the test entirely when PUBSUB_INTEGRATION
// isn't set so the suite stays runnable without a live broker.
func BrokerAddr(t *testing.T) string {
	t.Helper()
	if os.Getenv("PUBSUB_INTEGRATION") == "" {
		t.Skip("set PUBSUB_INTEGRATION=1 to run integration tests against a live broker")
	}
	addr := os.Getenv("PUBSUB_ADDR")
	if addr == "" {
		addr = "localhost:7650"
	}
	return addr
}
