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
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ParserOptions holds configuration for a Parser. There is no MaxDepth
// here (the grammar has no nesting) and no AllowedElements (that
// filtering job belongs to the TagRegistry, not the parser).
type ParserOptions struct {
	// MaxBufferSize limits how large the working buffer (reattached tail
	// plus appended text) may grow for a single message, in code points.
	// Default: 10MB worth of runes (10 * 1024 * 1024).
	MaxBufferSize int

	// BufferCleanupThreshold is checked by Validate (it must be >= 0) but
	// is not read by the Parser, which keeps no working buffer between
	// Parse calls and so never trims one.
	// Default: 1024.
	BufferCleanupThreshold int
}

// DefaultParserOptions returns the default parser configuration.
func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		MaxBufferSize:          10 * 1024 * 1024,
		BufferCleanupThreshold: 1024,
	}
}

// Validate checks whether the options are usable, aggregating every
// violation rather than stopping at the first one found.
func (o ParserOptions) Validate() error {
	var result *multierror.Error
	if o.MaxBufferSize < 1024 {
		result = multierror.Append(result, fmt.Errorf("%w: MaxBufferSize must be >= 1024, got %d", ErrInvalidConfiguration, o.MaxBufferSize))
	}
	if o.BufferCleanupThreshold < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: BufferCleanupThreshold must be >= 0, got %d", ErrInvalidConfiguration, o.BufferCleanupThreshold))
	}
	return result.ErrorOrNil()
}
