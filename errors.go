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

import "errors"

// Error definitions for the parser.
var (
	// ErrMaxBufferSizeExceeded is returned when the working buffer for a
	// single message would exceed the configured maximum.
	ErrMaxBufferSizeExceeded = errors.New("msgseg: maximum buffer size exceeded")

	// ErrInvalidConfiguration is returned when parser options are invalid.
	// ParserOptions.Validate returns a *multierror.Error wrapping one or
	// more of these instead of stopping at the first violation.
	ErrInvalidConfiguration = errors.New("msgseg: invalid parser configuration")

	// ErrReservedTagName is returned by TagRegistry.Register for the
	// reserved name "text", which names the text-segment kind and must
	// never be registered as a tag.
	ErrReservedTagName = errors.New("msgseg: \"text\" is reserved and cannot be registered as a tag")

	// ErrAlreadyFinalized is returned when Parse is called again on a
	// Message after Finalize has run.
	ErrAlreadyFinalized = errors.New("msgseg: message already finalized")
)
