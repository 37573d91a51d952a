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

// Package timeline is the frame scheduler and compositor. Given an immutable
// manifest and a frame index it decides which effects are active, resolves
// conflicts between them, and returns their visual ops in compositing order.
//
// RenderFrame is stateless and deterministic: frame N produces the same
// output whether it is rendered first, last, twice, or concurrently with
// every other frame. The render worker pool depends on this to chunk the
// video across goroutines without coordination.
package timeline

import (
	"log/slog"
	"math"
	"sort"

	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
)

// FrameOutput is everything the renderer needs for one output frame.
type FrameOutput struct {
	FrameIndex int                `json:"frame_index"`
	Time       float64            `json:"time"`
	Ops        []effects.VisualOp `json:"ops"`
	AudioCues  []effects.AudioCue `json:"audio_cues,omitempty"`
}

// Compositor evaluates manifests against a fixed catalog. It holds no
// per-frame or per-job state and is safe for concurrent use.
type Compositor struct {
	catalog *effects.Catalog
	log     *slog.Logger
}

// NewCompositor creates a Compositor. A nil logger falls back to the default.
func NewCompositor(catalog *effects.Catalog, log *slog.Logger) *Compositor {
	if log == nil {
		log = slog.Default()
	}
	return &Compositor{catalog: catalog, log: log}
}

// RenderFrame computes the visual ops and audio cues for one frame.
//
// Logic Flow:
//  1. Convert the frame index to absolute time and binary-search the active
//     scene. No scene (time out of range) renders an empty frame.
//  2. Collect the scene's edits whose [At, At+Duration) window covers the
//     frame time. Edits referencing effects missing from the catalog are
//     skipped with a warning; a stale manifest must not kill a render.
//  3. Suppress conflicts: when two active edits are mutually exclusive, the
//     one that started later wins.
//  4. Evaluate each surviving effect at its local time, emit audio cues for
//     sound effects whose start lands on this frame, and stable-sort the
//     visual ops by compositing layer.
//  5. Append the scene caption topmost when the scene has text.
func (c *Compositor) RenderFrame(m *model.EditManifest, frameIndex int) FrameOutput {
	t := m.TimeAt(frameIndex)
	out := FrameOutput{FrameIndex: frameIndex, Time: t, Ops: make([]effects.VisualOp, 0, 4)}

	scene := m.SceneAt(t)
	if scene == nil {
		return out
	}

	type active struct {
		edit *model.Edit
		def  *effects.Definition
	}
	actives := make([]active, 0, len(scene.Edits))
	for i := range scene.Edits {
		e := &scene.Edits[i]
		if t < e.At || t >= e.End() {
			continue
		}
		def, ok := c.catalog.Get(e.Type)
		if !ok {
			c.log.Warn("skipping edit with unknown effect", "effect", e.Type, "at", e.At)
			continue
		}
		actives = append(actives, active{e, def})
	}

	// last-started-wins among mutually exclusive edits. Later list position
	// breaks At ties, and edits are sorted by At, so scanning backwards
	// keeps the winner and drops everything it conflicts with.
	suppressed := make([]bool, len(actives))
	for i := len(actives) - 1; i >= 0; i-- {
		if suppressed[i] {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if !suppressed[j] && actives[i].def.ConflictsWithID(actives[j].edit.Type) {
				suppressed[j] = true
			}
		}
	}

	for i, a := range actives {
		if suppressed[i] {
			continue
		}
		if a.def.Sound {
			if frameIndex == startFrame(a.edit.At, m.FPS) {
				out.AudioCues = append(out.AudioCues, audioCue(a.def, a.edit))
			}
			continue
		}
		op := a.def.Render(t-a.edit.At, a.edit.Duration, frameIndex, m.Width, m.Height, a.edit.Props)
		out.Ops = append(out.Ops, op)
	}

	sort.SliceStable(out.Ops, func(i, j int) bool { return out.Ops[i].Layer < out.Ops[j].Layer })

	if scene.Text != "" {
		out.Ops = append(out.Ops, subtitleOp(scene.Text))
	}
	return out
}

// startFrame is the first frame index whose time is >= at.
func startFrame(at float64, fps int) int {
	return int(math.Ceil(at * float64(fps)))
}

func audioCue(def *effects.Definition, e *model.Edit) effects.AudioCue {
	file := effects.String(e.Props, "file", effects.String(def.Defaults, "file", ""))
	vol := effects.Float(e.Props, "volume", effects.Float(def.Defaults, "volume", 1))
	return effects.AudioCue{File: file, At: e.At, Volume: vol}
}

// subtitleOp is the always-on-top caption for the active scene.
func subtitleOp(text string) effects.VisualOp {
	return effects.VisualOp{
		Effect:   "subtitle",
		Category: effects.CategoryText,
		Layer:    effects.LayerForeground,
		Opacity:  1,
		Text: &effects.TextOp{
			Content:  text,
			FontSize: 42,
			Color:    "#ffffff",
			Position: "bottom",
			Reveal:   1,
		},
	}
}
