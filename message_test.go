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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageHasStableID(t *testing.T) {
	m1 := NewMessage()
	m2 := NewMessage()
	require.NotEmpty(t, m1.ID())
	assert.NotEqual(t, m1.ID(), m2.ID())
	assert.False(t, m1.Finalized())
}

func TestMessageSegmentsReturnsCopy(t *testing.T) {
	m := NewMessage()
	m.segments = append(m.segments, newTextSegment(m.allocID(), "hi", StatusCompleted))

	segs := m.Segments()
	segs[0] = newTextSegment(99, "tampered", StatusCompleted)

	assert.Equal(t, "hi", m.segments[0].(*TextSegment).Raw())
}

func TestMessageAllocIDIsMonotonic(t *testing.T) {
	m := NewMessage()
	a := m.allocID()
	b := m.allocID()
	assert.Less(t, a, b)
}
