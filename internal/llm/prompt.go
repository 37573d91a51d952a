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
	"encoding/json"
	"strings"

	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
)

// DefaultProposalTemplate is the edit-proposal prompt used when config does
// not override it. Placeholders: __MODE__, __MODE_DESCRIPTION__, __EPM__,
// __EFFECTS__, __TRANSCRIPT__, __DURATION__, __EXAMPLE__.
const DefaultProposalTemplate = `You are a professional video editor. Given the transcript of a video, propose
an edit timeline in the "__MODE__" style: __MODE_DESCRIPTION__.

Rules:
- Aim for roughly __EPM__ edits per minute of video.
- Use ONLY effect names from this list: __EFFECTS__.
- All times are absolute seconds from the start of the video. The video is
  __DURATION__ seconds long; never schedule an edit outside that range.
- Group edits into scenes of about ten seconds each, covering the whole video.
- Respond with JSON only, exactly matching the structure of this example:
__EXAMPLE__

Transcript:
__TRANSCRIPT__`

// ProposalPrompt renders the edit-proposal prompt for one job.
//
// Inputs:
//   - template: The prompt template; empty string selects the default.
//   - policy: The active mode, contributing style guidance and density.
//   - catalog: The effect catalog; avoided effects are excluded from the
//     list shown to the model so it never proposes them.
//   - transcript: The transcript to propose edits for.
//   - duration: The output duration in seconds.
func ProposalPrompt(template string, policy *modes.Policy, catalog *effects.Catalog, transcript *model.TranscriptResult, duration float64) string {
	if template == "" {
		template = DefaultProposalTemplate
	}

	allowed := make([]string, 0, catalog.Len())
	for _, id := range catalog.IDs() {
		if !policy.Avoids(id) {
			allowed = append(allowed, id)
		}
	}

	example, _ := json.Marshal(model.GetExampleRawEditList())

	r := strings.NewReplacer(
		"__MODE__", policy.DisplayName,
		"__MODE_DESCRIPTION__", policy.Description,
		"__EPM__", itoa(policy.EditsPerMinute),
		"__EFFECTS__", strings.Join(allowed, ", "),
		"__DURATION__", ftoa(duration),
		"__EXAMPLE__", string(example),
		"__TRANSCRIPT__", transcriptLines(transcript),
	)
	return r.Replace(template)
}

// transcriptLines formats the transcript with per-segment timestamps so the
// model can anchor edits to moments in the speech.
func transcriptLines(t *model.TranscriptResult) string {
	if t == nil || len(t.Segments) == 0 {
		return "(no speech detected)"
	}
	var sb strings.Builder
	for _, seg := range t.Segments {
		sb.WriteString("[")
		sb.WriteString(ftoa(seg.Start))
		sb.WriteString(" - ")
		sb.WriteString(ftoa(seg.End))
		sb.WriteString("] ")
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}

func itoa(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func ftoa(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
