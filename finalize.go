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

import "context"

// Finalize resolves a message once its stream has ended: an empty,
// non-streaming Parse call — which performs the usual tail reattachment
// and rescan, so a still-open tag whose name turns out to be
// unrecognized or whose registry entry has since been removed is
// correctly rejected back to literal text — followed by a defensive
// backward sweep that resolves any segment the rescan could not reach
// (there should be at most one; Parse's own reconciliation already
// settles the rest).
//
// Finalize is idempotent: calling it twice, or calling it on an already
// fully-completed message, does nothing on the second call.
func (p *Parser) Finalize(ctx context.Context, msg *Message) error {
	msg.mu.Lock()
	if msg.finalized {
		msg.mu.Unlock()
		return nil
	}
	msg.mu.Unlock()

	if _, err := p.Parse(ctx, msg, "", false); err != nil {
		return err
	}

	msg.mu.Lock()
	defer msg.mu.Unlock()
	finalizeLocked(msg)
	msg.finalized = true
	return nil
}

func finalizeLocked(msg *Message) {
	for i := len(msg.segments) - 1; i >= 0; i-- {
		seg := msg.segments[i]
		switch seg.SegmentStatus() {
		case StatusCompleted:
			return
		case StatusStreaming:
			if ts, ok := seg.(*TextSegment); ok {
				ts.status = StatusCompleted
				continue
			}
			msg.segments[i] = rewriteAsText(seg)
		case StatusIncomplete:
			msg.segments[i] = rewriteAsText(seg)
		}
	}
}

// rewriteAsText converts a still-open tag segment into a completed
// TextSegment carrying its literal reconstruction, preserving id.
func rewriteAsText(seg Segment) *TextSegment {
	return newTextSegment(seg.ID(), seg.Reconstruct(), StatusCompleted)
}
