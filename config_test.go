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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParserOptionsValid(t *testing.T) {
	require.NoError(t, DefaultParserOptions().Validate())
}

func TestParserOptionsValidateAggregatesViolations(t *testing.T) {
	opts := ParserOptions{MaxBufferSize: 0, BufferCleanupThreshold: -1}
	err := opts.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	assert.Contains(t, err.Error(), "MaxBufferSize")
	assert.Contains(t, err.Error(), "BufferCleanupThreshold")
}

func TestParserOptionsValidateSingleViolation(t *testing.T) {
	opts := ParserOptions{MaxBufferSize: 2048, BufferCleanupThreshold: -5}
	err := opts.Validate()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "MaxBufferSize must")
}
