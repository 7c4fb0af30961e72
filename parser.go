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
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Parser is the incremental state machine described by this package. It
// holds no per-message state itself (that lives on Message); a single
// Parser may drive many independent messages.
type Parser struct {
	registry *TagRegistry
	options  ParserOptions
	metrics  parserMetrics
}

// NewParser creates a Parser backed by registry, using DefaultParserOptions
// and no metrics.
func NewParser(registry *TagRegistry) *Parser {
	return NewParserWithOptions(registry, DefaultParserOptions(), nil)
}

// NewParserWithOptions creates a Parser with explicit options and an
// optional OpenTelemetry meter. A nil meter disables metrics. Invalid
// options fall back to DefaultParserOptions rather than failing the
// constructor.
func NewParserWithOptions(registry *TagRegistry, options ParserOptions, meter metric.Meter) *Parser {
	if err := options.Validate(); err != nil {
		options = DefaultParserOptions()
	}
	return &Parser{
		registry: registry,
		options:  options,
		metrics:  newParserMetrics(meter),
	}
}

// Parse consumes appendText — text produced since the previous call on
// this message, never including any text already parsed — and mutates
// msg's segment list in place. streaming=true means more input is
// expected; streaming=false resolves any trailing incomplete/streaming
// state immediately, equivalent to following this call with Finalize.
//
// Parse returns the set of segments created or changed during this
// call, for the host to drive minimal UI updates.
func (p *Parser) Parse(ctx context.Context, msg *Message, appendText string, streaming bool) (*ModifiedSet, error) {
	msg.mu.Lock()
	defer msg.mu.Unlock()

	start := time.Now()
	if msg.finalized {
		return nil, ErrAlreadyFinalized
	}

	snap := p.registry.Snapshot()
	modified := newModifiedSet()

	working := appendText
	if n := len(msg.segments); n > 0 {
		tail := msg.segments[n-1]
		if tail.SegmentStatus() == StatusStreaming || tail.SegmentStatus() == StatusIncomplete {
			working = reattachmentFragment(tail, appendText) + appendText
			msg.segments = msg.segments[:n-1]
		}
	}

	buf := []rune(working)
	if len(buf) > p.options.MaxBufferSize {
		return nil, ErrMaxBufferSizeExceeded
	}

	p.scan(msg, buf, streaming, snap, modified)
	p.reconcileStatuses(msg, streaming, modified)

	if !streaming {
		msg.finalized = true
	}

	p.metrics.recordParse(ctx, start, modified.Len())
	return modified, nil
}

// scan walks the working buffer left to right one code point at a time,
// emitting text and tag segments in order as it recognizes them.
func (p *Parser) scan(msg *Message, buf []rune, streaming bool, snap RegistrySnapshot, modified *ModifiedSet) {
	n := len(buf)
	cursor := 0

	for cursor < n {
		lt := indexRune(buf, cursor, '<')
		if lt < 0 {
			p.emitText(msg, string(buf[cursor:]), modified)
			cursor = n
			break
		}
		if lt > cursor {
			p.emitText(msg, string(buf[cursor:lt]), modified)
			cursor = lt
		}

		name, nameEnd := matchName(buf, cursor+1)
		if name == "" {
			// "<" not followed by a valid name start; literal.
			p.emitText(msg, "<", modified)
			cursor++
			continue
		}

		switch {
		case nameEnd >= n:
			// Terminator is end-of-buffer: the name might still grow,
			// so while streaming this always stays provisional,
			// whether or not it already matches a registered name.
			if streaming {
				p.emitIncomplete(msg, name, modified)
				cursor = n
			} else {
				p.emitText(msg, "<", modified)
				cursor++
			}

		case buf[nameEnd] == '>':
			cursor = p.emitAtDelimiter(msg, buf, cursor, name, nameEnd+1, streaming, snap, modified)

		default:
			// Anything other than an immediate ">" (including
			// whitespace — see DESIGN.md for why this package requires
			// the delimiter to directly follow the name) cannot open a
			// tag; the "<" is literal.
			p.emitText(msg, "<", modified)
			cursor++
		}
	}
}

// emitAtDelimiter handles the `<name>` case once a ">" immediately
// following name has been found at tagBodyStart-1. It returns the
// cursor position to resume scanning from.
func (p *Parser) emitAtDelimiter(msg *Message, buf []rune, ltPos int, name string, tagBodyStart int, streaming bool, snap RegistrySnapshot, modified *ModifiedSet) int {
	kind := snap.Lookup(name)
	if kind == KindUnknown {
		// Rejected: case 4, first clause.
		p.emitText(msg, "<", modified)
		return ltPos + 1
	}

	closeDelim := []rune("</" + name + ">")
	if idx := indexRunes(buf, tagBodyStart, closeDelim); idx >= 0 {
		raw := string(buf[tagBodyStart:idx])
		p.emitCompleteTag(msg, name, raw, kind, modified)
		return idx + len(closeDelim)
	}

	if !streaming {
		// Rejected: case 4, second clause — no closing tag, and this is
		// the final call.
		p.emitText(msg, "<", modified)
		return ltPos + 1
	}

	// Open-only recognized: case 2.
	raw := string(buf[tagBodyStart:])
	p.emitOpenTag(msg, name, raw, kind, modified)
	return len(buf)
}

// emitText appends text content, coalescing into the last segment when
// it is already a TextSegment — adjacent text segments are never left
// standing. If that TextSegment predates this call (it was not already
// in modified — i.e. it was sitting there StatusCompleted before scan
// started), it is replaced rather than mutated in place: a segment that
// was already shown to the host as completed keeps its content and id
// stable, so the merge is represented as a fresh id rather than a
// silent rewrite of a completed one. This only arises when a previously
// open tag ends up rejected back to literal text next to a text segment
// that had completed earlier — see DESIGN.md.
func (p *Parser) emitText(msg *Message, s string, modified *ModifiedSet) {
	if s == "" {
		return
	}
	if n := len(msg.segments); n > 0 {
		if ts, ok := msg.segments[n-1].(*TextSegment); ok {
			if modified.Contains(ts.ID()) {
				ts.raw += s
				modified.add(ts)
				return
			}
			merged := newTextSegment(msg.allocID(), ts.raw+s, StatusStreaming)
			msg.segments[n-1] = merged
			modified.add(merged)
			return
		}
	}
	seg := newTextSegment(msg.allocID(), s, StatusStreaming)
	msg.segments = append(msg.segments, seg)
	modified.add(seg)
}

// emitIncomplete creates a provisional tag segment. It is represented as
// a RenderableTagSegment purely as a carrier: its tag has not yet been
// proven recognized, so isMetadata cannot be determined. Hosts must
// never act on an incomplete segment's renderable/metadata classification
// — only on tag+status once it leaves StatusIncomplete.
func (p *Parser) emitIncomplete(msg *Message, tag string, modified *ModifiedSet) {
	seg := newRenderableTagSegment(msg.allocID(), tag, "", StatusIncomplete)
	msg.segments = append(msg.segments, seg)
	modified.add(seg)
}

func (p *Parser) emitOpenTag(msg *Message, tag, raw string, kind TagKind, modified *ModifiedSet) {
	seg := newTagSegmentFor(msg.allocID(), tag, raw, StatusStreaming, kind)
	msg.segments = append(msg.segments, seg)
	modified.add(seg)
}

func (p *Parser) emitCompleteTag(msg *Message, tag, raw string, kind TagKind, modified *ModifiedSet) {
	seg := newTagSegmentFor(msg.allocID(), tag, raw, StatusCompleted, kind)
	msg.segments = append(msg.segments, seg)
	modified.add(seg)
}

func newTagSegmentFor(id int64, tag, raw string, status Status, kind TagKind) Segment {
	if kind == KindMetadata {
		return newMetadataTagSegment(id, tag, raw, status)
	}
	return newRenderableTagSegment(id, tag, raw, status)
}

// reconcileStatuses settles the StatusStreaming placeholders this call
// assigned to newly created or extended segments (plain text runs and
// still-open tags) to completed, unless the segment is both the
// message's current last segment and streaming is true. Segments
// already settled to StatusCompleted or StatusIncomplete during this
// call are left alone.
func (p *Parser) reconcileStatuses(msg *Message, streaming bool, modified *ModifiedSet) {
	var lastID int64 = -1
	if n := len(msg.segments); n > 0 {
		lastID = msg.segments[n-1].ID()
	}
	for _, seg := range modified.Segments() {
		if seg.SegmentStatus() != StatusStreaming {
			continue
		}
		if !streaming || seg.ID() != lastID {
			seg.setStatus(StatusCompleted)
		}
	}
}

// reattachmentFragment reconstructs the literal input fragment that
// produced tail, to be logically prepended to the newly appended text
// before reparsing, so a segment left open at a chunk boundary gets a
// fair chance to resolve differently once more input arrives.
func reattachmentFragment(tail Segment) string {
	if ts, ok := tail.(*TextSegment); ok {
		return ts.raw
	}

	tag, raw, status := tagFields(tail)
	switch status {
	case StatusIncomplete:
		return "<" + tag
	default: // StatusStreaming: only created once its ">" was seen
		return "<" + tag + ">" + raw
	}
}

func tagFields(s Segment) (tag, raw string, status Status) {
	switch t := s.(type) {
	case *RenderableTagSegment:
		return t.tag, t.raw, t.status
	case *MetadataTagSegment:
		return t.tag, t.raw, t.status
	default:
		return "", "", StatusCompleted
	}
}

// --- name grammar ---

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameCont(r rune) bool {
	return isASCIILetter(r) || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.'
}

// matchName matches the longest name-grammar prefix of buf starting at
// pos. It returns "" if pos does not begin with an ASCII letter.
func matchName(buf []rune, pos int) (name string, end int) {
	if pos >= len(buf) || !isASCIILetter(buf[pos]) {
		return "", pos
	}
	end = pos + 1
	for end < len(buf) && isNameCont(buf[end]) {
		end++
	}
	return string(buf[pos:end]), end
}

func indexRune(buf []rune, from int, target rune) int {
	for i := from; i < len(buf); i++ {
		if buf[i] == target {
			return i
		}
	}
	return -1
}

// indexRunes finds the first occurrence of sub in buf at or after from.
func indexRunes(buf []rune, from int, sub []rune) int {
	if len(sub) == 0 {
		return from
	}
	limit := len(buf) - len(sub)
	for i := from; i <= limit; i++ {
		match := true
		for j := range sub {
			if buf[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
