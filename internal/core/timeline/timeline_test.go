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

package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terryhq/terry/internal/core/builder"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
)

func testManifest() *model.EditManifest {
	m := model.NewEditManifest("vlog", "clip.mp4", 30, 30, 1920, 1080)
	m.Scenes = []model.Scene{
		{Start: 0, End: 10, Text: "hello world", Edits: []model.Edit{
			{Type: "zoom_punch", At: 2, Duration: 1},
			{Type: "sound_hit", At: 2, Duration: 1},
		}},
		{Start: 10, End: 20, Edits: []model.Edit{
			{Type: "cinematic", At: 10, Duration: 10},
			{Type: "noir", At: 14, Duration: 4},
		}},
		{Start: 20, End: 30, Edits: []model.Edit{
			{Type: "definitely_not_real", At: 21, Duration: 5},
			{Type: "letterbox", At: 21, Duration: 5},
		}},
	}
	return m
}

func newTestCompositor() *Compositor {
	return NewCompositor(effects.BuiltIn(), nil)
}

// TestRenderFrameDeterminism renders the same frame repeatedly and expects
// identical output. This is the property the concurrent render pool relies on.
func TestRenderFrameDeterminism(t *testing.T) {
	c := newTestCompositor()
	m := testManifest()

	for _, frame := range []int{0, 61, 75, 450, 650, 899} {
		a := c.RenderFrame(m, frame)
		b := c.RenderFrame(m, frame)
		assert.Equal(t, a, b, "frame %d", frame)
	}
}

// TestActiveWindow verifies an edit contributes ops exactly inside
// [At, At+Duration) and nowhere else.
func TestActiveWindow(t *testing.T) {
	c := newTestCompositor()
	m := testManifest()

	// frame 59 is t=1.9667, before the zoom at t=2
	assert.NotContains(t, opEffects(c.RenderFrame(m, 59)), "zoom_punch")
	// frame 60 is t=2 exactly
	assert.Contains(t, opEffects(c.RenderFrame(m, 60)), "zoom_punch")
	// frame 89 is t=2.9667, still inside
	assert.Contains(t, opEffects(c.RenderFrame(m, 89)), "zoom_punch")
	// frame 90 is t=3, the half-open end
	assert.NotContains(t, opEffects(c.RenderFrame(m, 90)), "zoom_punch")
}

// TestConflictLastStartedWins sets up two overlapping color grades and
// expects only the later one to render while both are active.
func TestConflictLastStartedWins(t *testing.T) {
	c := newTestCompositor()
	m := testManifest()

	// t=12: only cinematic is active
	ops := opEffects(c.RenderFrame(m, 360))
	assert.Contains(t, ops, "cinematic")
	assert.NotContains(t, ops, "noir")

	// t=15: both active, noir started later and wins
	ops = opEffects(c.RenderFrame(m, 450))
	assert.Contains(t, ops, "noir")
	assert.NotContains(t, ops, "cinematic")

	// t=19: noir has ended, cinematic resumes
	ops = opEffects(c.RenderFrame(m, 570))
	assert.Contains(t, ops, "cinematic")
	assert.NotContains(t, ops, "noir")
}

// TestUnknownEffectSkipped verifies a stale manifest entry degrades to a
// skipped edit, not a dead render.
func TestUnknownEffectSkipped(t *testing.T) {
	c := newTestCompositor()
	m := testManifest()

	ops := opEffects(c.RenderFrame(m, 660)) // t=22
	assert.NotContains(t, ops, "definitely_not_real")
	assert.Contains(t, ops, "letterbox")
}

// TestAudioCueOnStartFrameOnly verifies a sound effect emits its cue on
// exactly one frame and never renders a visual op.
func TestAudioCueOnStartFrameOnly(t *testing.T) {
	c := newTestCompositor()
	m := testManifest()

	cueFrames := 0
	for frame := 55; frame <= 95; frame++ {
		out := c.RenderFrame(m, frame)
		assert.NotContains(t, opEffects(out), "sound_hit")
		if len(out.AudioCues) > 0 {
			cueFrames++
			assert.Equal(t, 60, frame)
			require.Equal(t, 1, len(out.AudioCues))
			assert.Equal(t, 2.0, out.AudioCues[0].At)
			assert.NotEmpty(t, out.AudioCues[0].File)
		}
	}
	assert.Equal(t, 1, cueFrames)
}

// TestLayerOrdering verifies ops come back sorted by compositing layer with
// the scene caption last.
func TestLayerOrdering(t *testing.T) {
	c := newTestCompositor()
	m := model.NewEditManifest("vlog", "clip.mp4", 10, 30, 1920, 1080)
	m.Scenes = []model.Scene{{Start: 0, End: 10, Text: "caption", Edits: []model.Edit{
		{Type: "text_pop", At: 1, Duration: 5, Props: map[string]any{"text": "HI"}},
		{Type: "cinematic", At: 0, Duration: 10},
		{Type: "zoom_punch", At: 1, Duration: 1},
		{Type: "vignette", At: 0, Duration: 10},
	}}}

	out := c.RenderFrame(m, 45) // t=1.5, everything active
	require.GreaterOrEqual(t, len(out.Ops), 5)

	for i := 1; i < len(out.Ops)-1; i++ {
		assert.LessOrEqual(t, out.Ops[i-1].Layer, out.Ops[i].Layer)
	}
	last := out.Ops[len(out.Ops)-1]
	assert.Equal(t, "subtitle", last.Effect)
	assert.Equal(t, effects.LayerForeground, last.Layer)
	assert.Equal(t, "caption", last.Text.Content)
}

// TestOutOfRangeFrames verifies frames outside the manifest render empty.
func TestOutOfRangeFrames(t *testing.T) {
	c := newTestCompositor()
	m := testManifest()

	out := c.RenderFrame(m, m.TotalFrames())
	assert.Empty(t, out.Ops)
	assert.Empty(t, out.AudioCues)
}

// TestBuiltManifestRenders runs the full local build path for a silent 30s
// video at mrbeast density and checks an arbitrary mid-video frame resolves
// its scene and renders without error. Frame 450 at 30fps is t=15, which must
// land in the scene spanning [10,20).
func TestBuiltManifestRenders(t *testing.T) {
	policy, ok := modes.BuiltIn().Get("mrbeast")
	require.True(t, ok)

	b := builder.New(effects.BuiltIn(), nil)
	m := b.Build(builder.Input{
		Policy:      policy,
		SourceMedia: "silent.mp4",
		Duration:    30,
		FPS:         30, Width: 1920, Height: 1080,
	})

	scene := m.SceneAt(15.0)
	require.NotNil(t, scene)
	assert.Equal(t, 10.0, scene.Start)
	assert.Equal(t, 20.0, scene.End)

	c := newTestCompositor()
	for frame := 0; frame < m.TotalFrames(); frame += 90 {
		out := c.RenderFrame(m, frame)
		assert.Equal(t, frame, out.FrameIndex)
	}

	out := c.RenderFrame(m, 450)
	assert.Equal(t, 15.0, out.Time)
}

// TestBaseGradeSpansScenes builds a manifest for a graded mode with no other
// edits and renders frames in every scene. The grade must be active for the
// entire video, not just the scene containing t=0.
func TestBaseGradeSpansScenes(t *testing.T) {
	policy := &modes.Policy{ID: "graded", ColorGrade: "noir"}
	b := builder.New(effects.BuiltIn(), nil)
	m := b.Build(builder.Input{
		Policy:      policy,
		SourceMedia: "silent.mp4",
		Duration:    30,
		FPS:         30, Width: 1920, Height: 1080,
	})

	c := newTestCompositor()
	for _, sec := range []float64{1, 11, 15, 25, 29.9} {
		frame := int(sec * 30)
		assert.Contains(t, opEffects(c.RenderFrame(m, frame)), "noir", "t=%vs", sec)
	}
}

func opEffects(out FrameOutput) []string {
	ids := make([]string, 0, len(out.Ops))
	for _, op := range out.Ops {
		ids = append(ids, op.Effect)
	}
	return ids
}
