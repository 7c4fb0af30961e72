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

// Package msgseg implements the incremental chat-message segment
// parser: it turns a growing stream of model output into an ordered
// sequence of text and recognized-tag segments suitable for progressive
// chat rendering, reparsing across chunk boundaries without ever losing
// or duplicating a code point.
//
// A TagRegistry classifies tag names as renderable or metadata. A
// Parser consumes appended text against a Message's segment list one
// chunk at a time via Parse, and Finalize resolves whatever is left
// open once the stream ends. Dispatcher is a reference implementation
// of the host-side contract that invokes metadata handlers exactly
// once per completed metadata segment.
package msgseg
