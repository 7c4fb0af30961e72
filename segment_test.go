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
)

func TestTextSegmentReconstruct(t *testing.T) {
	ts := newTextSegment(1, "hello", StatusCompleted)
	assert.Equal(t, "hello", ts.Reconstruct())
	assert.Equal(t, KindText, ts.SegmentKind())
}

func TestTagSegmentReconstructByStatus(t *testing.T) {
	incomplete := newRenderableTagSegment(1, "cha", "", StatusIncomplete)
	assert.Equal(t, "<cha", incomplete.Reconstruct())

	streaming := newRenderableTagSegment(2, "chart", "partial", StatusStreaming)
	assert.Equal(t, "<chart>partial", streaming.Reconstruct())

	completed := newRenderableTagSegment(3, "chart", "done", StatusCompleted)
	assert.Equal(t, "<chart>done</chart>", completed.Reconstruct())
}

func TestMetadataTagSegmentIsMetadata(t *testing.T) {
	m := newMetadataTagSegment(1, "usage", "{}", StatusCompleted)
	assert.True(t, m.IsMetadata())
	assert.False(t, m.HandlerInvoked())
	m.MarkHandlerInvoked()
	assert.True(t, m.HandlerInvoked())
}

func TestRenderableTagSegmentIsNotMetadata(t *testing.T) {
	r := newRenderableTagSegment(1, "thinking", "x", StatusCompleted)
	assert.False(t, r.IsMetadata())
}

func TestTypeGuards(t *testing.T) {
	text := newTextSegment(1, "hi", StatusCompleted)
	renderable := newRenderableTagSegment(2, "thinking", "x", StatusCompleted)
	metadata := newMetadataTagSegment(3, "usage", "{}", StatusCompleted)

	if _, ok := AsText(text); !ok {
		t.Fatal("expected text segment to match AsText")
	}
	if _, ok := AsRenderableTag(text); ok {
		t.Fatal("text segment must not match AsRenderableTag")
	}
	if _, ok := AsRenderableTag(renderable); !ok {
		t.Fatal("expected renderable segment to match AsRenderableTag")
	}
	if _, ok := AsMetadataTag(metadata); !ok {
		t.Fatal("expected metadata segment to match AsMetadataTag")
	}

	tag, ok := TagOf(renderable)
	assert.True(t, ok)
	assert.Equal(t, "thinking", tag)

	_, ok = TagOf(text)
	assert.False(t, ok)
}

func TestModifiedSetPreservesFirstTouchOrder(t *testing.T) {
	ms := newModifiedSet()
	a := newTextSegment(1, "a", StatusStreaming)
	b := newTextSegment(2, "b", StatusStreaming)

	ms.add(a)
	ms.add(b)
	ms.add(a) // re-touch, should not reorder

	ids := make([]int64, 0, 2)
	for _, s := range ms.Segments() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, []int64{1, 2}, ids)
	assert.Equal(t, 2, ms.Len())
	assert.True(t, ms.Contains(1))
	assert.False(t, ms.Contains(99))
}
