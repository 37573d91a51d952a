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

package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuiltInCatalog checks that the built-in library registers cleanly and
// passes its own validation, and that every category is populated.
func TestBuiltInCatalog(t *testing.T) {
	c := BuiltIn()

	require.NoError(t, c.Validate())
	assert.Equal(t, len(library), c.Len())
	for _, cat := range Categories {
		assert.NotEmpty(t, c.ByCategory(cat), "category %s has no effects", cat)
	}
}

// TestColorGradesAreExclusive verifies the mutual exclusion group: any two
// distinct color grades conflict with each other, in both directions.
func TestColorGradesAreExclusive(t *testing.T) {
	c := BuiltIn()

	cine, ok := c.Get("cinematic")
	require.True(t, ok)
	noir, ok := c.Get("noir")
	require.True(t, ok)

	assert.True(t, cine.ConflictsWithID(noir.ID))
	assert.True(t, noir.ConflictsWithID(cine.ID))
	assert.False(t, cine.ConflictsWithID(cine.ID))
}

// TestRegisterRejectsBadDefinitions covers the registration errors: duplicate
// IDs, empty IDs, unknown categories, and missing render strategies.
func TestRegisterRejectsBadDefinitions(t *testing.T) {
	c := NewCatalog()
	ok := &Definition{
		ID: "a", Category: CategoryZoom, Layer: LayerMotion,
		Timing: Timing{Default: 1, Min: 0.5, Max: 2},
		render: renderZoom,
	}
	require.NoError(t, c.Register(ok))

	assert.Error(t, c.Register(ok), "duplicate id must be rejected")
	assert.Error(t, c.Register(&Definition{Category: CategoryZoom, render: renderZoom}))
	assert.Error(t, c.Register(&Definition{ID: "b", Category: Category("bogus"), render: renderZoom}))
	assert.Error(t, c.Register(&Definition{ID: "c", Category: CategoryZoom}))
}

// TestValidateCatchesBadTiming verifies validation rejects inverted timing
// bounds and dangling conflict references.
func TestValidateCatchesBadTiming(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(&Definition{
		ID: "bad", Category: CategoryZoom, Layer: LayerMotion,
		Timing: Timing{Default: 5, Min: 1, Max: 2},
		render: renderZoom,
	}))
	assert.Error(t, c.Validate())

	c2 := NewCatalog()
	require.NoError(t, c2.Register(&Definition{
		ID: "lonely", Category: CategoryZoom, Layer: LayerMotion,
		ConflictsWith: []string{"ghost"},
		Timing:        Timing{Default: 1, Min: 0.5, Max: 2},
		render:        renderZoom,
	}))
	assert.Error(t, c2.Validate())
}

// TestClampDuration checks the timing window clamp.
func TestClampDuration(t *testing.T) {
	d := Definition{Timing: Timing{Default: 1, Min: 0.5, Max: 2}}

	assert.Equal(t, 0.5, d.ClampDuration(0.1))
	assert.Equal(t, 2.0, d.ClampDuration(10))
	assert.Equal(t, 1.5, d.ClampDuration(1.5))
}

// TestRenderDeterminism renders the same instant of the same effect twice and
// expects byte-identical ops. This property is what lets frames render on any
// worker in any order.
func TestRenderDeterminism(t *testing.T) {
	c := BuiltIn()
	for _, id := range []string{"zoom_punch", "shake_heavy", "jitter", "vintage", "letterbox"} {
		def, ok := c.Get(id)
		require.True(t, ok, id)

		a := def.Render(0.25, 1.0, 42, 1920, 1080, nil)
		b := def.Render(0.25, 1.0, 42, 1920, 1080, nil)
		assert.Equal(t, a, b, id)
	}
}

// TestRenderClampsLocalTime verifies out-of-range local times evaluate at the
// nearest defined instant instead of misbehaving.
func TestRenderClampsLocalTime(t *testing.T) {
	c := BuiltIn()
	def, ok := c.Get("zoom_punch")
	require.True(t, ok)

	early := def.Render(-1, 1.0, 0, 1920, 1080, nil)
	atStart := def.Render(0, 1.0, 0, 1920, 1080, nil)
	assert.Equal(t, atStart, early)

	late := def.Render(5, 1.0, 30, 1920, 1080, nil)
	atEnd := def.Render(1.0, 1.0, 30, 1920, 1080, nil)
	assert.Equal(t, atEnd, late)
}

// TestRenderMergesProps checks that caller props override definition defaults
// while unknown keys ride along harmlessly.
func TestRenderMergesProps(t *testing.T) {
	c := BuiltIn()
	def, ok := c.Get("text_pop")
	require.True(t, ok)

	op := def.Render(0.5, 2.0, 15, 1920, 1080, map[string]any{
		"text":    "BOOM",
		"garbage": []int{1, 2, 3},
	})
	require.NotNil(t, op.Text)
	assert.Equal(t, "BOOM", op.Text.Content)
	assert.Equal(t, LayerText, op.Layer)
}

// TestEnvelope exercises the attack/release fade math, including the
// degenerate zero-length cases.
func TestEnvelope(t *testing.T) {
	assert.Equal(t, 0.5, envelope(0.05, 1, 0.1, 0))
	assert.Equal(t, 1.0, envelope(0.5, 1, 0.1, 0.1))
	assert.Equal(t, 0.5, envelope(0.95, 1, 0, 0.1))
	assert.Equal(t, 1.0, envelope(0.5, 1, 0, 0))
	assert.Equal(t, 0.0, envelope(0, 1, 0.1, 0))
}

// TestNoiseDeterminism checks the hash-derived noise: stable across calls,
// different across frames, and in range.
func TestNoiseDeterminism(t *testing.T) {
	assert.Equal(t, Noise("jitter", 10), Noise("jitter", 10))
	assert.NotEqual(t, Noise("jitter", 10), Noise("jitter", 11))
	assert.NotEqual(t, Noise("jitter", 10), Noise("shake_light", 10))

	for i := 0; i < 500; i++ {
		n := Noise("x", i)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.Less(t, n, 1.0)

		s := SignedNoise("x", i, 7)
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

// TestSoundCueFlags verifies the cue-only audio effects are flagged and carry
// a file default, while audio visualizations stay visual.
func TestSoundCueFlags(t *testing.T) {
	c := BuiltIn()
	for _, id := range []string{"sound_hit", "sound_meme"} {
		def, ok := c.Get(id)
		require.True(t, ok, id)
		assert.True(t, def.Sound, id)
		assert.NotEmpty(t, String(def.Defaults, "file", ""), id)
	}

	bars, ok := c.Get("audio_bars")
	require.True(t, ok)
	assert.False(t, bars.Sound)
}
