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

// Package effects implements the effect catalog: the registry of named,
// parameterized animation definitions that the timeline compositor evaluates
// once per frame.
//
// Every effect is a pure function of (local time, instance duration, frame
// index, parameters) to a VisualOp — an abstract, renderer-agnostic
// description of a visual change. Effects never produce pixels; rasterization
// belongs to the external render capability.
//
// The contract every definition must honor:
//   - Defined for all local times in [0, duration].
//   - Deterministic and side-effect free for identical inputs. Anything that
//     looks random is derived from the frame index through a hash, never from
//     the clock or a shared RNG, so re-renders and parallel chunked renders
//     are frame-reproducible.
//   - Missing or extra parameters never error; they fall back to defaults.
package effects

import "math"

// Category groups effects by their visual role. The category decides the
// compositing layer, not the order the edits arrived in.
type Category string

const (
	CategoryZoom       Category = "zoom"
	CategoryText       Category = "text"
	CategoryTransition Category = "transition"
	CategoryOverlay    Category = "overlay"
	CategoryMotion     Category = "motion"
	CategoryColor      Category = "color"
	CategoryBroll      Category = "broll"
	CategoryAudio      Category = "audio"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryZoom, CategoryText, CategoryTransition, CategoryOverlay,
	CategoryMotion, CategoryColor, CategoryBroll, CategoryAudio,
}

// Layer is the fixed z-order slot a category composites into. Lower layers
// render first. The ordering is background/video, color grade, motion and
// camera transforms, overlay decorations, text, then foreground UI.
type Layer int

const (
	LayerBackground Layer = iota
	LayerVideo
	LayerColor
	LayerMotion
	LayerOverlay
	LayerText
	LayerForeground
)

// layerForCategory maps each category to its compositing layer. B-roll sits
// with overlays, audio visualizations with foreground chrome.
func layerForCategory(c Category) Layer {
	switch c {
	case CategoryColor:
		return LayerColor
	case CategoryZoom, CategoryMotion, CategoryTransition:
		return LayerMotion
	case CategoryOverlay, CategoryBroll:
		return LayerOverlay
	case CategoryText:
		return LayerText
	case CategoryAudio:
		return LayerForeground
	default:
		return LayerVideo
	}
}

// Transform is a 2D affine transform expressed as the primitive operations the
// render capability understands. Scale of 1 and zero offsets is the identity.
type Transform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Rotate     float64 `json:"rotate"` // degrees
	OriginX    float64 `json:"origin_x"`
	OriginY    float64 `json:"origin_y"`
}

// ColorFilter is a set of color-grade parameters. A value of 1 for the
// multiplicative fields and 0 for the additive ones is a no-op.
type ColorFilter struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	HueRotate  float64 `json:"hue_rotate"` // degrees
	Sepia      float64 `json:"sepia"`
	Grayscale  float64 `json:"grayscale"`
	Blur       float64 `json:"blur"`
	Invert     float64 `json:"invert"`
}

// TextOp carries the content and styling for a text effect.
type TextOp struct {
	Content   string  `json:"content"`
	FontSize  float64 `json:"font_size"`
	Color     string  `json:"color"`
	Position  string  `json:"position"`
	Animation string  `json:"animation"`
	Reveal    float64 `json:"reveal"` // fraction of content visible, for typewriter-style reveals
}

// Geometry describes an overlay decoration: its shape, placement, and color.
type Geometry struct {
	Shape  string  `json:"shape"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  string  `json:"color"`
}

// VisualOp is the abstract output of one effect at one frame. A frame's final
// output is an ordered stack of these plus the scene caption on top.
type VisualOp struct {
	Effect   string       `json:"effect"`
	Category Category     `json:"category"`
	Layer    Layer        `json:"layer"`
	Opacity  float64      `json:"opacity"`
	Progress float64      `json:"progress"`
	Transform *Transform  `json:"transform,omitempty"`
	Color    *ColorFilter `json:"color,omitempty"`
	Text     *TextOp      `json:"text,omitempty"`
	Overlay  *Geometry    `json:"overlay,omitempty"`
	MediaRef string       `json:"media_ref,omitempty"`
}

// AudioCue references a sound asset scheduled at an absolute time. Audio
// effects emit cues instead of visual ops; the render capability mixes them.
type AudioCue struct {
	File   string  `json:"file"`
	At     float64 `json:"at"`
	Volume float64 `json:"volume"`
}

// Trigger holds the keyword metadata the builder uses to pick effects that
// match the spoken content of a scene.
type Trigger struct {
	Keywords []string `json:"keywords,omitempty" toml:"keywords"`
	Weight   float64  `json:"weight" toml:"weight"`
	MinGap   float64  `json:"min_gap" toml:"min_gap"` // seconds between uses of the same effect
}

// Timing bounds the duration of an effect instance, in seconds. Builder-side
// clamping guarantees Min <= duration <= Max for every edit that reaches the
// compositor. Attack and Release are the fade-in/out envelope lengths.
type Timing struct {
	Default float64 `json:"default" toml:"default"`
	Min     float64 `json:"min" toml:"min"`
	Max     float64 `json:"max" toml:"max"`
	Attack  float64 `json:"attack" toml:"attack"`
	Release float64 `json:"release" toml:"release"`
}

// Input bundles everything a render strategy may depend on. Params has the
// definition defaults already merged in.
type Input struct {
	Effect     string
	LocalTime  float64
	Duration   float64
	FrameIndex int
	Width      int
	Height     int
	Params     map[string]any
	// Progress is LocalTime/Duration in [0,1].
	Progress float64
	// Envelope is the attack/release fade factor in [0,1].
	Envelope float64
}

// renderFunc is the per-category strategy. One strategy serves every effect in
// its category; the differences between effects are data in the definition.
type renderFunc func(def *Definition, in Input) VisualOp

// Definition is a single catalog entry. Definitions are static: loaded once at
// process start and never mutated, which makes the catalog safe to share
// across concurrent jobs.
type Definition struct {
	ID            string
	Category      Category
	Layer         Layer
	ConflictsWith []string
	Triggers      Trigger
	Timing        Timing
	Defaults      map[string]any
	// Sound marks cue-only audio effects. They emit an AudioCue at their
	// start time instead of a visual op.
	Sound  bool
	render renderFunc
}

// ClampDuration forces d into the definition's [Min, Max] window.
func (d *Definition) ClampDuration(dur float64) float64 {
	if dur < d.Timing.Min {
		return d.Timing.Min
	}
	if dur > d.Timing.Max {
		return d.Timing.Max
	}
	return dur
}

// ConflictsWithID reports whether the other effect is declared mutually
// exclusive with this one.
func (d *Definition) ConflictsWithID(id string) bool {
	for _, c := range d.ConflictsWith {
		if c == id {
			return true
		}
	}
	return false
}

// Render evaluates the effect at the given local time. Local time is clamped
// to [0, duration]; props are merged over the definition defaults. The result
// is deterministic for identical arguments.
func (d *Definition) Render(localTime, duration float64, frameIndex, width, height int, props map[string]any) VisualOp {
	if duration <= 0 {
		duration = d.Timing.Default
	}
	if localTime < 0 {
		localTime = 0
	}
	if localTime > duration {
		localTime = duration
	}

	params := make(map[string]any, len(d.Defaults)+len(props))
	for k, v := range d.Defaults {
		params[k] = v
	}
	for k, v := range props {
		if v != nil {
			params[k] = v
		}
	}

	in := Input{
		Effect:     d.ID,
		LocalTime:  localTime,
		Duration:   duration,
		FrameIndex: frameIndex,
		Width:      width,
		Height:     height,
		Params:     params,
		Progress:   localTime / duration,
		Envelope:   envelope(localTime, duration, d.Timing.Attack, d.Timing.Release),
	}
	op := d.render(d, in)
	op.Effect = d.ID
	op.Category = d.Category
	op.Layer = d.Layer
	op.Progress = in.Progress
	return op
}

// envelope computes the attack/release fade factor for a point inside the
// effect's lifetime. Degenerate attack/release values collapse to a hard 1.
func envelope(local, duration, attack, release float64) float64 {
	v := 1.0
	if attack > 0 && local < attack {
		v = local / attack
	}
	if release > 0 && duration-local < release {
		r := (duration - local) / release
		if r < v {
			v = r
		}
	}
	return math.Max(0, math.Min(1, v))
}

// Float reads a numeric parameter, accepting the types JSON decoding and TOML
// decoding produce. Falls back to def when absent or not numeric.
func Float(params map[string]any, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// String reads a string parameter with a fallback.
func String(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Bool reads a boolean parameter with a fallback.
func Bool(params map[string]any, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}
