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

// Package builder turns a transcript plus a mode policy into a complete edit
// manifest. It is the trust boundary of the system: the only component that
// reads untrusted generative proposals, and the component that guarantees
// every invariant the compositor relies on (scene tiling, positive durations,
// in-bounds times, known effect IDs).
//
// Logic Flow:
//  1. Tile the output duration into fixed scene windows and attach the
//     transcript text overlapping each window.
//  2. Collect edits, from one of two paths:
//     a. Proposal path: sanitize the generative proposal (drop unknown and
//     avoided effects, clamp timings). If the surviving edit count is far
//     below the mode's target density, top up with the local path.
//     b. Local path: place edits at even intervals with deterministic
//     jitter, choosing effects by transcript keyword triggers with a
//     weighted draw, falling back to the mode's preferred list.
//  3. Apply the mode's base color grade to every scene, so the whole video
//     renders graded.
//  4. Post-process: clamp every edit into its scene's window, drop the
//     degenerate ones, assign each to its scene, and sort scenes by time.
//
// Build never returns an error. Bad input degrades the output (fewer or more
// generic edits) and logs why, but a manifest always comes back.
package builder

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
)

// DefaultSceneWindow is the scene length the timeline is tiled into, seconds.
const DefaultSceneWindow = 10.0

// Input carries everything one build needs. Transcript and Proposal may be
// nil; Duration, FPS, Width, Height must describe the output video.
type Input struct {
	Transcript  *model.TranscriptResult
	Proposal    *model.RawEditList
	Policy      *modes.Policy
	SourceMedia string
	Duration    float64
	FPS         int
	Width       int
	Height      int
}

// Builder constructs edit manifests against a fixed catalog.
type Builder struct {
	catalog     *effects.Catalog
	log         *slog.Logger
	sceneWindow float64
}

// New creates a Builder. The logger may be nil, in which case slog's default
// is used.
func New(catalog *effects.Catalog, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{catalog: catalog, log: log, sceneWindow: DefaultSceneWindow}
}

// SetSceneWindow overrides the scene tiling window, for tests and config.
func (b *Builder) SetSceneWindow(seconds float64) {
	if seconds > 0 {
		b.sceneWindow = seconds
	}
}

// Build produces the manifest for the given input. See the package doc for
// the algorithm. The result always satisfies the tiling and bounds
// invariants, even for an empty transcript or a garbage proposal.
func (b *Builder) Build(in Input) *model.EditManifest {
	m := model.NewEditManifest(in.Policy.ID, in.SourceMedia, in.Duration, in.FPS, in.Width, in.Height)
	if in.Duration <= 0 {
		return m
	}
	m.Scenes = b.tileScenes(in.Duration, in.Transcript)

	rng := newRand(hash64(m.ID))
	target := targetEditCount(in.Duration, in.Policy.EditsPerMinute)

	var edits []model.Edit
	if in.Proposal != nil {
		edits = b.sanitizeProposal(in.Proposal, in.Policy, in.Duration)
		if len(edits) < target/2 {
			b.log.Warn("proposal too sparse, topping up with local selection",
				"mode", in.Policy.ID, "proposed", len(edits), "target", target)
			edits = append(edits, b.localEdits(m, in, target-len(edits), rng)...)
		}
	} else {
		edits = b.localEdits(m, in, target, rng)
	}

	// the compositor only evaluates the active scene's edits, so the base
	// grade is emitted once per scene to cover the whole timeline
	if grade := in.Policy.ColorGrade; grade != "" && b.catalog.Has(grade) {
		for _, s := range m.Scenes {
			edits = append(edits, model.Edit{Type: grade, At: s.Start, Duration: s.End - s.Start})
		}
	}

	b.placeEdits(m, edits)
	return m
}

// targetEditCount implements ceil(duration/60 * editsPerMinute).
func targetEditCount(duration float64, epm int) int {
	return int(math.Ceil(duration / 60.0 * float64(epm)))
}

// tileScenes splits [0, duration) into contiguous windows and attaches the
// transcript text overlapping each window. Silent stretches get empty-text
// scenes; the tiling never has gaps or overlaps.
func (b *Builder) tileScenes(duration float64, transcript *model.TranscriptResult) []model.Scene {
	n := int(math.Ceil(duration / b.sceneWindow))
	if n < 1 {
		n = 1
	}
	scenes := make([]model.Scene, 0, n)
	for i := 0; i < n; i++ {
		start := float64(i) * b.sceneWindow
		end := start + b.sceneWindow
		if end > duration || i == n-1 {
			end = duration
		}
		scenes = append(scenes, model.Scene{
			Start: start,
			End:   end,
			Text:  windowText(transcript, start, end),
			Edits: make([]model.Edit, 0),
		})
	}
	return scenes
}

// windowText joins the transcript segments overlapping [start, end).
func windowText(t *model.TranscriptResult, start, end float64) string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	for _, seg := range t.Segments {
		if seg.End > start && seg.Start < end {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
	}
	return strings.Join(parts, " ")
}

// sanitizeProposal converts an untrusted proposal into valid edits. Unknown
// effect IDs and mode-avoided effects are dropped with a log line; durations
// are clamped to the effect's timing bounds. Bounds clamping against the
// scene windows happens later in placeEdits along with everything else.
func (b *Builder) sanitizeProposal(p *model.RawEditList, policy *modes.Policy, duration float64) []model.Edit {
	out := make([]model.Edit, 0)
	for _, raw := range p.FlatEdits() {
		def, ok := b.catalog.Get(raw.Type)
		if !ok {
			b.log.Warn("dropping proposed edit with unknown effect", "effect", raw.Type)
			continue
		}
		if policy.Avoids(raw.Type) {
			b.log.Debug("dropping proposed edit avoided by mode", "effect", raw.Type, "mode", policy.ID)
			continue
		}
		at := raw.At
		if at < 0 {
			at = 0
		}
		if at >= duration {
			continue
		}
		dur := raw.Duration
		if dur <= 0 {
			dur = def.Timing.Default
		}
		out = append(out, model.Edit{
			Type:     raw.Type,
			At:       at,
			Duration: def.ClampDuration(dur),
			Props:    raw.Props,
		})
	}
	return out
}

// localEdits is the deterministic selection path: count edits spread at even
// intervals across the duration, jittered, each assigned an effect chosen
// from transcript keywords or the mode's preferences. lastUse enforces each
// effect's minimum gap so the same effect doesn't pile up back to back.
func (b *Builder) localEdits(m *model.EditManifest, in Input, count int, rng *rand64) []model.Edit {
	if count <= 0 {
		return nil
	}
	interval := in.Duration / float64(count)
	lastUse := make(map[string]float64, count)
	edits := make([]model.Edit, 0, count)

	for i := 0; i < count; i++ {
		at := (float64(i) + 0.5) * interval
		at += (rng.float() - 0.5) * interval * 0.6
		at = math.Max(0, math.Min(at, in.Duration-0.05))

		scene := m.SceneAt(at)
		text := ""
		if scene != nil {
			text = scene.Text
		}
		def := b.chooseEffect(text, in.Policy, at, lastUse, rng)
		if def == nil {
			continue
		}
		lastUse[def.ID] = at

		edit := model.Edit{Type: def.ID, At: at, Duration: def.Timing.Default}
		if def.Category == effects.CategoryText {
			edit.Props = map[string]any{"text": overlayText(text, def, rng)}
		}
		edits = append(edits, edit)
	}
	return edits
}

// chooseEffect picks the effect for one slot. Keyword-triggered candidates
// are drawn by weight (preferred effects count double); with no keyword hit
// the draw falls back to the mode's preferred list, then to the whole
// allowed catalog.
func (b *Builder) chooseEffect(sceneText string, policy *modes.Policy, at float64, lastUse map[string]float64, rng *rand64) *effects.Definition {
	words := tokenize(sceneText)

	type candidate struct {
		def    *effects.Definition
		weight float64
	}
	var triggered []candidate
	total := 0.0
	for _, id := range b.catalog.IDs() {
		def, _ := b.catalog.Get(id)
		if policy.Avoids(id) || len(def.Triggers.Keywords) == 0 {
			continue
		}
		if last, ok := lastUse[id]; ok && at-last < def.Triggers.MinGap {
			continue
		}
		if !matchesKeyword(words, def.Triggers.Keywords) {
			continue
		}
		w := def.Triggers.Weight
		if w <= 0 {
			w = 1
		}
		if policy.Prefers(id) {
			w *= 2
		}
		triggered = append(triggered, candidate{def, w})
		total += w
	}
	if len(triggered) > 0 {
		pick := rng.float() * total
		for _, c := range triggered {
			pick -= c.weight
			if pick <= 0 {
				return c.def
			}
		}
		return triggered[len(triggered)-1].def
	}

	// no keyword hit: preferred list first, whole catalog second
	pool := make([]string, 0, len(policy.PreferredEffects))
	for _, id := range policy.PreferredEffects {
		if b.catalog.Has(id) && !policy.Avoids(id) {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		for _, id := range b.catalog.IDs() {
			if !policy.Avoids(id) {
				pool = append(pool, id)
			}
		}
	}
	if len(pool) == 0 {
		return nil
	}
	def, _ := b.catalog.Get(pool[rng.intn(len(pool))])
	return def
}

// overlayText builds the string a text effect should display: the loudest
// keyword in the scene if one matched, otherwise the opening words.
func overlayText(sceneText string, def *effects.Definition, rng *rand64) string {
	words := tokenize(sceneText)
	for _, w := range words {
		for _, k := range def.Triggers.Keywords {
			if w == k {
				return strings.ToUpper(k)
			}
		}
	}
	if len(words) == 0 {
		return ""
	}
	n := 3
	if len(words) < n {
		n = len(words)
	}
	return strings.ToUpper(strings.Join(words[:n], " "))
}

// placeEdits runs the final invariant pass: clamp every edit into the window
// of the scene containing its start, drop what degenerates to nothing, and
// sort each scene's edits by start time.
func (b *Builder) placeEdits(m *model.EditManifest, edits []model.Edit) {
	for _, e := range edits {
		if e.At < 0 {
			e.At = 0
		}
		if e.At >= m.Duration {
			continue
		}
		scene := m.SceneAt(e.At)
		if scene == nil {
			continue
		}
		// an edit only renders while its scene is active, so a span past the
		// scene end would silently lose its tail at render time. Scenes tile
		// the duration, so this also clamps to the manifest end.
		if e.End() > scene.End {
			e.Duration = scene.End - e.At
		}
		if e.Duration <= 0 {
			continue
		}
		scene.Edits = append(scene.Edits, e)
	}
	for i := range m.Scenes {
		s := &m.Scenes[i]
		sort.SliceStable(s.Edits, func(a, b int) bool { return s.Edits[a].At < s.Edits[b].At })
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

func matchesKeyword(words, keywords []string) bool {
	for _, w := range words {
		for _, k := range keywords {
			if w == k {
				return true
			}
		}
	}
	return false
}
