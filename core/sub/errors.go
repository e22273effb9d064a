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

import "errors"

// Sentinel errors returned by Subscription operations. Precondition
// violations and terminal-state observations are reported through these
// rather than panics, matching core/pub's ErrClosedProducer idiom.
var (
	ErrInvalidArgument      = errors.New("sub: invalid argument")
	ErrInvalidSubscription  = errors.New("sub: invalid subscription")
	ErrConnectionClosed     = errors.New("sub: connection closed")
	ErrIllegalState         = errors.New("sub: illegal state for this subscription type")
	ErrSlowConsumer         = errors.New("sub: slow consumer, messages were dropped")
	ErrTimeout              = errors.New("sub: timeout waiting for message")
	ErrMaxMessagesDelivered = errors.New("sub: max messages already delivered")
)
