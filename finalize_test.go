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
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFinalizeIsIdempotent(t *testing.T) {
	p := newTestParser(t, map[string]TagKind{"chart": KindRenderable})
	msg := parseChunks(t, p, []string{"start <chart>partial"}, true)

	ctx := context.Background()
	require.NoError(t, p.Finalize(ctx, msg))
	first := summarize(msg.Segments())

	require.NoError(t, p.Finalize(ctx, msg))
	second := summarize(msg.Segments())

	require.Equal(t, first, second)
	require.True(t, msg.Finalized())
}

func TestFinalizeOnAlreadyCompletedMessageIsNoop(t *testing.T) {
	p := newTestParser(t, map[string]TagKind{"prompt": KindRenderable})
	msg := parseChunks(t, p, []string{"Hi <prompt>Go</prompt>!"}, false)
	require.True(t, msg.Finalized())

	require.NoError(t, p.Finalize(context.Background(), msg))
	require.Equal(t, "Hi <prompt>Go</prompt>!", msg.Reconstruct())
}

func TestFinalizeResolvesTrailingIncompleteTag(t *testing.T) {
	p := newTestParser(t, map[string]TagKind{"chart": KindRenderable})
	msg := parseChunks(t, p, []string{"trailing <cha"}, true)

	require.NoError(t, p.Finalize(context.Background(), msg))
	want := []segSummary{
		{Kind: KindText, Raw: "trailing <cha", Status: StatusCompleted},
	}
	require.Equal(t, want, summarize(msg.Segments()))
}
