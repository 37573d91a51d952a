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
// This file, `transient.go`, contains struct definitions for data that only
// exists in memory while a workflow executes. These objects are intermediate
// containers passed between commands in a chain; they are never part of the
// persisted manifest.
//
// The most important type here is RawEditList: the UNTRUSTED output of the
// generative edit-proposal collaborator. Nothing in a RawEditList may be
// assumed well-formed. The manifest builder is the only component allowed to
// consume it, and it does so defensively (clip, clamp, drop).
package model

// RawEdit is a single proposed edit as emitted by the generative model. The
// field values come straight out of parsed JSON and may reference unknown
// effect names, negative times, absurd durations, or nothing at all.
type RawEdit struct {
	Type     string         `json:"type"`
	At       float64        `json:"at"`
	Duration float64        `json:"duration"`
	Props    map[string]any `json:"props,omitempty"`
}

// RawScene mirrors the scene grouping the proposal prompt asks for. Scene
// boundaries in a proposal are advisory only; the builder re-tiles the
// timeline itself and keeps just the edits.
type RawScene struct {
	Start float64   `json:"start"`
	End   float64   `json:"end"`
	Text  string    `json:"text"`
	Edits []RawEdit `json:"edits"`
}

// RawEditList is the top-level shape of a generative edit proposal.
type RawEditList struct {
	Scenes []RawScene `json:"scenes"`
}

// FlatEdits returns every proposed edit across all raw scenes in document
// order. Scene grouping is discarded here on purpose.
func (r *RawEditList) FlatEdits() []RawEdit {
	out := make([]RawEdit, 0)
	for i := range r.Scenes {
		out = append(out, r.Scenes[i].Edits...)
	}
	return out
}

// RenderProgress is the incremental progress report emitted by the render
// collaborator while it encodes the output video.
type RenderProgress struct {
	Percent     float64 `json:"percent"`
	FrameIndex  int     `json:"frame_index"`
	TotalFrames int     `json:"total_frames"`
	Stage       string  `json:"stage"`
}

// MediaInfo holds the probed properties of a source media file. Path is the
// working copy the pipeline reads and moves to the staged temp file after
// staging; Origin stays the path the user submitted, which is what stable
// identities are derived from.
type MediaInfo struct {
	Path     string  `json:"path"`
	Origin   string  `json:"origin,omitempty"`
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	HasVideo bool    `json:"has_video"`
	HasAudio bool    `json:"has_audio"`
}
