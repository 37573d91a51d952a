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

package builder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
)

func testPolicy(t *testing.T, id string) *modes.Policy {
	t.Helper()
	p, ok := modes.BuiltIn().Get(id)
	require.True(t, ok, id)
	return p
}

func build(t *testing.T, in Input) *model.EditManifest {
	t.Helper()
	b := New(effects.BuiltIn(), nil)
	m := b.Build(in)
	require.NotNil(t, m)
	return m
}

// assertTiling checks the structural invariant every manifest must satisfy:
// scenes tile [0, duration) contiguously, first starts at zero, last ends
// exactly at the duration.
func assertTiling(t *testing.T, m *model.EditManifest) {
	t.Helper()
	require.NotEmpty(t, m.Scenes)
	assert.Equal(t, 0.0, m.Scenes[0].Start)
	assert.Equal(t, m.Duration, m.Scenes[len(m.Scenes)-1].End)
	for i := 1; i < len(m.Scenes); i++ {
		assert.Equal(t, m.Scenes[i-1].End, m.Scenes[i].Start, "gap before scene %d", i)
	}
	for _, s := range m.Scenes {
		assert.Greater(t, s.End, s.Start)
	}
}

// TestTilingInvariant covers durations that do and do not divide evenly into
// the scene window, plus a duration shorter than one window.
func TestTilingInvariant(t *testing.T) {
	for _, duration := range []float64{30, 33.37, 9.5, 60, 61} {
		m := build(t, Input{
			Policy:      testPolicy(t, "vlog"),
			SourceMedia: "clip.mp4",
			Duration:    duration,
			FPS:         30, Width: 1920, Height: 1080,
		})
		assertTiling(t, m)
	}
}

// TestEmptyTranscriptStillBuilds verifies a silent video gets empty-text
// scenes and the full local edit density anyway.
func TestEmptyTranscriptStillBuilds(t *testing.T) {
	m := build(t, Input{
		Policy:      testPolicy(t, "mrbeast"),
		SourceMedia: "silent.mp4",
		Duration:    30,
		FPS:         30, Width: 1920, Height: 1080,
	})

	assertTiling(t, m)
	for _, s := range m.Scenes {
		assert.Empty(t, s.Text)
	}
	// 30s at 40 edits/min targets 20 edits, plus the base grade per scene.
	assert.GreaterOrEqual(t, m.EditCount(), 15)
}

// TestEditsStayInBounds verifies the invariant pass: every placed edit starts
// inside the manifest and ends at or before its end.
func TestEditsStayInBounds(t *testing.T) {
	m := build(t, Input{
		Policy:      testPolicy(t, "tiktok"),
		SourceMedia: "clip.mp4",
		Duration:    45,
		FPS:         30, Width: 1080, Height: 1920,
	})

	for _, s := range m.Scenes {
		for _, e := range s.Edits {
			assert.GreaterOrEqual(t, e.At, 0.0)
			assert.Less(t, e.At, m.Duration)
			assert.Greater(t, e.Duration, 0.0)
			assert.LessOrEqual(t, e.End(), m.Duration+1e-9)
			assert.True(t, s.Contains(e.At), "edit %q at %v outside scene [%v,%v)", e.Type, e.At, s.Start, s.End)
		}
	}
}

// TestProposalClampedAtTail reproduces the trailing-edit case: an edit
// proposed at 29s with a 5s duration in a 30s video must be truncated to the
// single remaining second, not dropped and not overhanging.
func TestProposalClampedAtTail(t *testing.T) {
	proposal := &model.RawEditList{Scenes: []model.RawScene{{
		Start: 0, End: 30,
		Edits: []model.RawEdit{{Type: "ken_burns_broll", At: 29, Duration: 5}},
	}}}

	m := build(t, Input{
		Proposal:    proposal,
		Policy:      testPolicy(t, "documentary"),
		SourceMedia: "clip.mp4",
		Duration:    30,
		FPS:         30, Width: 1920, Height: 1080,
	})

	found := false
	for _, s := range m.Scenes {
		for _, e := range s.Edits {
			if e.Type == "ken_burns_broll" && e.At == 29 {
				found = true
				assert.InDelta(t, 1.0, e.Duration, 1e-9)
			}
		}
	}
	assert.True(t, found, "clamped edit missing from manifest")
}

// TestProposalSanitization verifies unknown and mode-avoided effects are
// dropped while valid proposed edits survive.
func TestProposalSanitization(t *testing.T) {
	policy := testPolicy(t, "aesthetic") // avoids zoom_punch among others
	require.True(t, policy.Avoids("zoom_punch"))

	proposal := &model.RawEditList{Scenes: []model.RawScene{{
		Start: 0, End: 20,
		Edits: []model.RawEdit{
			{Type: "made_up_effect", At: 1, Duration: 1},
			{Type: "zoom_punch", At: 2, Duration: 0.5},
			{Type: "float", At: 5, Duration: 2},
			{Type: "float", At: -3, Duration: 2},   // negative start clamps to 0
			{Type: "float", At: 500, Duration: 2},  // beyond the end, dropped
		},
	}}}

	m := build(t, Input{
		Proposal:    proposal,
		Policy:      policy,
		SourceMedia: "clip.mp4",
		Duration:    20,
		FPS:         30, Width: 1920, Height: 1080,
	})

	for _, s := range m.Scenes {
		for _, e := range s.Edits {
			assert.NotEqual(t, "made_up_effect", e.Type)
			assert.NotEqual(t, "zoom_punch", e.Type)
		}
	}
}

// TestSparseProposalTopsUp verifies a proposal far below the mode's density
// target gets supplemented by the local path instead of shipping thin.
func TestSparseProposalTopsUp(t *testing.T) {
	proposal := &model.RawEditList{Scenes: []model.RawScene{{
		Start: 0, End: 60,
		Edits: []model.RawEdit{{Type: "zoom_punch", At: 5, Duration: 0.5}},
	}}}

	m := build(t, Input{
		Proposal:    proposal,
		Policy:      testPolicy(t, "mrbeast"), // 40 epm, target 40 over 60s
		SourceMedia: "clip.mp4",
		Duration:    60,
		FPS:         30, Width: 1920, Height: 1080,
	})

	assert.GreaterOrEqual(t, m.EditCount(), 20)
}

// TestBaseColorGrade verifies the mode's grade lands in every scene, each
// instance spanning exactly its scene's window. A single full-duration edit
// would stop rendering at the first scene boundary.
func TestBaseColorGrade(t *testing.T) {
	policy := testPolicy(t, "truecrime")
	require.NotEmpty(t, policy.ColorGrade)

	m := build(t, Input{
		Policy:      policy,
		SourceMedia: "clip.mp4",
		Duration:    30,
		FPS:         30, Width: 1920, Height: 1080,
	})

	require.Equal(t, 3, len(m.Scenes))
	for i, s := range m.Scenes {
		found := false
		for _, e := range s.Edits {
			if e.Type == policy.ColorGrade && e.At == s.Start && e.End() == s.End {
				found = true
			}
		}
		assert.True(t, found, "scene %d missing the base grade", i)
	}
}

// TestEditClampedAtSceneBoundary verifies an edit spanning a scene boundary
// is truncated at the boundary in the manifest itself, so the persisted
// duration matches what the compositor actually renders.
func TestEditClampedAtSceneBoundary(t *testing.T) {
	proposal := &model.RawEditList{Scenes: []model.RawScene{{
		Start: 0, End: 30,
		Edits: []model.RawEdit{{Type: "ken_burns_broll", At: 9, Duration: 5}},
	}}}

	m := build(t, Input{
		Proposal:    proposal,
		Policy:      testPolicy(t, "documentary"),
		SourceMedia: "clip.mp4",
		Duration:    30,
		FPS:         30, Width: 1920, Height: 1080,
	})

	found := false
	for _, s := range m.Scenes {
		for _, e := range s.Edits {
			if e.Type == "ken_burns_broll" && e.At == 9 {
				found = true
				assert.InDelta(t, 1.0, e.Duration, 1e-9)
				assert.LessOrEqual(t, e.End(), s.End)
			}
		}
	}
	assert.True(t, found, "boundary edit missing from manifest")
}

// TestBuildDeterminism builds the same input twice and expects identical
// timelines. The selection rng is seeded from the manifest identity, which is
// itself derived from the inputs.
func TestBuildDeterminism(t *testing.T) {
	transcript := model.GetExampleTranscript()
	in := Input{
		Transcript:  transcript,
		Policy:      testPolicy(t, "vlog"),
		SourceMedia: "clip.mp4",
		Duration:    transcript.Duration,
		FPS:         30, Width: 1920, Height: 1080,
	}

	a := build(t, in)
	b := build(t, in)

	assert.Equal(t, a.ID, b.ID)
	require.Equal(t, len(a.Scenes), len(b.Scenes))
	for i := range a.Scenes {
		assert.Equal(t, a.Scenes[i].Edits, b.Scenes[i].Edits, "scene %d", i)
	}
}

// TestTargetEditCount checks the density formula ceil(duration/60 * epm).
func TestTargetEditCount(t *testing.T) {
	assert.Equal(t, 20, targetEditCount(30, 40))
	assert.Equal(t, 8, targetEditCount(60, 8))
	assert.Equal(t, 1, targetEditCount(1, 5))
	assert.Equal(t, int(math.Ceil(33.37/60*50)), targetEditCount(33.37, 50))
}

// TestZeroDuration verifies the degenerate input produces an empty but valid
// manifest instead of a panic or a divide by zero.
func TestZeroDuration(t *testing.T) {
	m := build(t, Input{
		Policy:      testPolicy(t, "vlog"),
		SourceMedia: "clip.mp4",
		Duration:    0,
		FPS:         30, Width: 1920, Height: 1080,
	})

	assert.Equal(t, 0, m.EditCount())
	assert.Empty(t, m.Scenes)
}

// TestWindowText verifies transcript segments attach to the scenes they
// overlap, including a segment spanning a boundary.
func TestWindowText(t *testing.T) {
	transcript := &model.TranscriptResult{
		Duration: 20,
		Segments: []model.TranscriptSegment{
			{Start: 0, End: 4, Text: "hello everyone"},
			{Start: 8, End: 12, Text: "big reveal"},
			{Start: 15, End: 18, Text: "wrap up"},
		},
	}

	m := build(t, Input{
		Transcript:  transcript,
		Policy:      testPolicy(t, "vlog"),
		SourceMedia: "clip.mp4",
		Duration:    20,
		FPS:         30, Width: 1920, Height: 1080,
	})

	require.Equal(t, 2, len(m.Scenes))
	assert.Contains(t, m.Scenes[0].Text, "hello everyone")
	assert.Contains(t, m.Scenes[0].Text, "big reveal") // spans the boundary
	assert.Contains(t, m.Scenes[1].Text, "big reveal")
	assert.Contains(t, m.Scenes[1].Text, "wrap up")
	assert.NotContains(t, m.Scenes[1].Text, "hello")
}
