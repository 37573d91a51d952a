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

// Package model defines the core data structures for the auto-edit engine.
// This file contains the edit manifest: the single source of truth that the
// manifest builder produces and the timeline compositor consumes. A manifest
// is built once per job, validated at build time, and never mutated during
// rendering. That immutability is what allows the compositor to evaluate
// frames concurrently and out of order without any locking.
//
// All times in the manifest are absolute seconds from the start of the output
// video. Frame indices are derived as `t = frameIndex / fps`.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Word is a single word of transcribed speech with its own timing. Word-level
// timing lets the builder align effects with the exact moment a keyword is
// spoken rather than the start of the whole segment.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptSegment is one timestamped span of transcribed speech as produced
// by the transcription collaborator. Segments arrive ordered by start time but
// may contain gaps or small overlaps from upstream imprecision; the manifest
// builder tolerates both.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// TranscriptResult is the complete output of a transcription run.
type TranscriptResult struct {
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language,omitempty"`
	Duration float64             `json:"duration"`
}

// Text concatenates all segment texts into a single string, used when a
// prompt or a log line needs the full spoken content.
func (t *TranscriptResult) Text() string {
	out := ""
	for i, seg := range t.Segments {
		if i > 0 {
			out += " "
		}
		out += seg.Text
	}
	return out
}

// Edit is a single scheduled effect instance. `Type` names an entry in the
// effect catalog, `At` is the absolute start time in seconds, `Duration` is
// always positive after builder post-processing, and `Props` carries the
// effect-specific parameters. Props are sanitized at build time so the
// compositor never needs to defend against malformed values.
type Edit struct {
	Type     string         `json:"type"`
	At       float64        `json:"at"`
	Duration float64        `json:"duration"`
	Props    map[string]any `json:"props,omitempty"`
}

// End returns the absolute end time of the edit.
func (e Edit) End() float64 { return e.At + e.Duration }

// Scene is a contiguous window of the output timeline. Scenes tile the full
// duration with no gaps or overlaps; the builder synthesizes empty scenes to
// fill holes where the transcript is silent. Edits are expressed in absolute
// manifest time but only render while their scene is the active one.
type Scene struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Edits []Edit  `json:"edits"`
}

// Contains reports whether the absolute time t falls inside this scene.
// Scene membership uses the half-open interval [Start, End).
func (s *Scene) Contains(t float64) bool {
	return t >= s.Start && t < s.End
}

// EditManifest is the root artifact of a job: the full timeline description
// handed to the renderer. It is immutable once returned by the builder; the
// compositor only reads it. Serialization round-trips losslessly so manifests
// can be written to disk for debugging and replayed.
type EditManifest struct {
	ID          string  `json:"id"`
	Mode        string  `json:"mode"`
	Duration    float64 `json:"duration"`
	FPS         int     `json:"fps"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	SourceMedia string  `json:"source_media"`
	Scenes      []Scene `json:"scenes"`
	CreateDate  time.Time `json:"create_date"`
}

// NewEditManifest creates an empty manifest shell for the given job inputs.
// The ID is a UUIDv5 hash of the source media reference and mode, so building
// the same job twice yields the same manifest identity. The builder fills in
// the scenes.
func NewEditManifest(mode, sourceMedia string, duration float64, fps, width, height int) *EditManifest {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceMedia+"|"+mode))
	return &EditManifest{
		ID:          id.String(),
		Mode:        mode,
		Duration:    duration,
		FPS:         fps,
		Width:       width,
		Height:      height,
		SourceMedia: sourceMedia,
		Scenes:      make([]Scene, 0),
		CreateDate:  time.Now(),
	}
}

// TotalFrames returns the number of output frames the manifest describes.
func (m *EditManifest) TotalFrames() int {
	return int(m.Duration * float64(m.FPS))
}

// TimeAt converts a frame index into absolute manifest time.
func (m *EditManifest) TimeAt(frameIndex int) float64 {
	return float64(frameIndex) / float64(m.FPS)
}

// SceneAt locates the unique scene containing the absolute time t using a
// binary search over the sorted, gap-free scene sequence. Returns nil when t
// is outside [0, Duration) or the manifest has no scenes.
func (m *EditManifest) SceneAt(t float64) *Scene {
	lo, hi := 0, len(m.Scenes)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		s := &m.Scenes[mid]
		switch {
		case t < s.Start:
			hi = mid - 1
		case t >= s.End:
			lo = mid + 1
		default:
			return s
		}
	}
	return nil
}

// EditCount returns the total number of edits across all scenes.
func (m *EditManifest) EditCount() int {
	n := 0
	for i := range m.Scenes {
		n += len(m.Scenes[i].Edits)
	}
	return n
}
