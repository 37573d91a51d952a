// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
)

// TestProposalPrompt renders the default template for a real mode and checks
// the substitutions: style text, density, duration, example JSON, and the
// timestamped transcript.
func TestProposalPrompt(t *testing.T) {
	policy, ok := modes.BuiltIn().Get("mrbeast")
	require.True(t, ok)
	transcript := model.GetExampleTranscript()

	prompt := ProposalPrompt("", policy, effects.BuiltIn(), transcript, 30)

	assert.NotContains(t, prompt, "__MODE__")
	assert.NotContains(t, prompt, "__EFFECTS__")
	assert.Contains(t, prompt, policy.DisplayName)
	assert.Contains(t, prompt, "40 edits per minute")
	assert.Contains(t, prompt, "30 seconds long")
	assert.Contains(t, prompt, `"zoom_punch"`) // from the embedded example
	assert.Contains(t, prompt, "[0 - 9.5] welcome back everyone")
}

// TestProposalPromptExcludesAvoided verifies mode-avoided effects never
// appear in the allowed list shown to the model.
func TestProposalPromptExcludesAvoided(t *testing.T) {
	policy, ok := modes.BuiltIn().Get("aesthetic")
	require.True(t, ok)
	require.True(t, policy.Avoids("shake_heavy"))

	prompt := ProposalPrompt("", policy, effects.BuiltIn(), nil, 60)

	listStart := strings.Index(prompt, "Use ONLY effect names from this list:")
	require.GreaterOrEqual(t, listStart, 0)
	listEnd := strings.Index(prompt[listStart:], "\n")
	list := prompt[listStart : listStart+listEnd]

	assert.NotContains(t, list, "shake_heavy")
	assert.Contains(t, list, "zoom_in_slow")
}

// TestProposalPromptEmptyTranscript verifies the silent-video placeholder.
func TestProposalPromptEmptyTranscript(t *testing.T) {
	policy, ok := modes.BuiltIn().Get("vlog")
	require.True(t, ok)

	prompt := ProposalPrompt("", policy, effects.BuiltIn(), &model.TranscriptResult{}, 10)
	assert.Contains(t, prompt, "(no speech detected)")
}

// TestStripJSONFences covers the response shapes models actually return.
func TestStripJSONFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StripJSONFences(tc.in), "%q", tc.in)
	}
}
