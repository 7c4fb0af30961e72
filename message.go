// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msgseg

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Message owns one segment list end to end. The parser borrows it
// mutably for the duration of one Parse call; the host may read it at
// any time but must not mutate it (the one exception being
// MetadataTagSegment.MarkHandlerInvoked). Calls to Parse on the same
// Message must be serialized by the caller; Message's own mutex only
// guards against accidental concurrent misuse, it is not a substitute
// for that contract.
type Message struct {
	mu        sync.Mutex
	id        string
	segments  []Segment
	nextID    int64
	finalized bool
}

// NewMessage creates an empty message with a fresh correlation id, used
// by the reference Dispatcher to tag log lines across handler calls.
func NewMessage() *Message {
	return &Message{id: uuid.NewString()}
}

// ID is this message's correlation id, stable for its lifetime.
func (m *Message) ID() string { return m.id }

// Segments returns a snapshot slice of the message's current segments,
// in order. The slice is a copy; mutating it does not affect the
// message, but the Segment values themselves are still owned by the
// parser.
func (m *Message) Segments() []Segment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

// Finalized reports whether Finalize has already run on this message.
func (m *Message) Finalized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finalized
}

// Reconstruct concatenates the textual reconstruction of every segment,
// in order. Per invariant 1, this equals the total input consumed so
// far for a message that has had no calls dropped out from under it.
func (m *Message) Reconstruct() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, seg := range m.segments {
		b.WriteString(seg.Reconstruct())
	}
	return b.String()
}

func (m *Message) allocID() int64 {
	id := m.nextID
	m.nextID++
	return id
}
