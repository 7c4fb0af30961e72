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
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handler processes one completed metadata tag's raw content. It is
// invoked at most once per MetadataTagSegment across the lifetime of a
// message, and only once that segment reaches StatusCompleted.
type Handler func(ctx context.Context, msg *Message, seg *MetadataTagSegment) error

// Dispatcher is a reference implementation of the host-side contract for
// acting on metadata segments: walk a message's segments, find completed
// metadata tags whose handler has not yet run, invoke the registered
// handler exactly once, and mark the segment so a later Dispatch call
// (against a message that has grown more segments since) does not
// invoke it again.
type Dispatcher struct {
	handlers map[string]Handler
	logger   *zap.Logger
	pool     *ants.Pool
}

// NewDispatcher builds a Dispatcher from a tag-name-to-handler table. A
// nil logger falls back to zap.NewNop(), so a caller never has to
// construct a logger just to get a no-op.
func NewDispatcher(handlers map[string]Handler, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	cp := make(map[string]Handler, len(handlers))
	for k, v := range handlers {
		cp[k] = v
	}
	return &Dispatcher{handlers: cp, logger: logger}
}

// Dispatch invokes the handler for every completed, not-yet-invoked
// metadata segment in msg, in segment order. A handler error is logged
// and the segment is still marked invoked — a handler runs at most once
// regardless of outcome — and all handler errors encountered during the
// call are aggregated with go.uber.org/multierr rather than aborting on
// the first one.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) error {
	msg.mu.Lock()
	segs := make([]Segment, len(msg.segments))
	copy(segs, msg.segments)
	msg.mu.Unlock()

	var errs error
	for _, seg := range segs {
		mseg, ok := AsMetadataTag(seg)
		if !ok || mseg.SegmentStatus() != StatusCompleted || mseg.HandlerInvoked() {
			continue
		}

		handler, ok := d.handlers[mseg.Tag()]
		mseg.MarkHandlerInvoked()
		if !ok {
			d.logger.Warn("no handler registered for metadata tag",
				zap.String("message_id", msg.ID()),
				zap.String("tag", mseg.Tag()),
			)
			continue
		}

		if err := handler(ctx, msg, mseg); err != nil {
			d.logger.Error("metadata handler failed",
				zap.String("message_id", msg.ID()),
				zap.String("tag", mseg.Tag()),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("tag %q: %w", mseg.Tag(), err))
		}
	}
	return errs
}

// DispatchConcurrent fans Dispatch out across messages using a bounded
// goroutine pool, for hosts driving many simultaneous streams. poolSize
// caps concurrency; a non-positive value falls back to ants' default.
func (d *Dispatcher) DispatchConcurrent(ctx context.Context, msgs []*Message, poolSize int) error {
	if poolSize <= 0 {
		poolSize = ants.DefaultAntsPoolSize
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return fmt.Errorf("msgseg: creating dispatch pool: %w", err)
	}
	defer pool.Release()

	var (
		errsMu sync.Mutex
		errs   error
		wg     sync.WaitGroup
	)

	for _, msg := range msgs {
		msg := msg
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := d.Dispatch(ctx, msg); err != nil {
				errsMu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("message %q: %w", msg.ID(), err))
				errsMu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			errsMu.Lock()
			errs = multierr.Append(errs, fmt.Errorf("message %q: submit: %w", msg.ID(), submitErr))
			errsMu.Unlock()
		}
	}

	wg.Wait()
	return errs
}
