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

// Package model defines the data structures for the auto-edit engine. This
// file, `examples.go`, provides factory functions for creating hardcoded,
// example instances of the data models.
//
// These example objects are crucial for "few-shot" prompting with the
// generative model. By providing a concrete example of the desired JSON
// output structure within the prompt itself, we guide the model to return
// edit proposals that are consistent, correctly formatted, and parsable.
// They double as fixtures for the builder and compositor tests.
package model

// GetExampleRawEditList creates a sample RawEditList. It is embedded into the
// edit-proposal prompt so the generative model sees exactly the JSON shape the
// builder expects back: scenes with absolute second timings and typed edits.
//
// Outputs:
//   - *RawEditList: A pointer to a hardcoded proposal document.
func GetExampleRawEditList() *RawEditList {
	return &RawEditList{
		Scenes: []RawScene{
			{
				Start: 0,
				End:   10,
				Text:  "welcome back everyone, today we are testing the fastest car ever made",
				Edits: []RawEdit{
					{Type: "zoom_punch", At: 2.5, Duration: 0.5, Props: map[string]any{"intensity": 1.3}},
					{Type: "text_pop", At: 3.0, Duration: 2.0, Props: map[string]any{"text": "FASTEST CAR"}},
					{Type: "sound_hit", At: 2.5, Duration: 1.0, Props: map[string]any{"file": "001_boom.mp3"}},
				},
			},
			{
				Start: 10,
				End:   20,
				Text:  "and it costs more than my entire house",
				Edits: []RawEdit{
					{Type: "shake_light", At: 12.0, Duration: 0.8, Props: map[string]any{"intensity": 6}},
				},
			},
		},
	}
}

// GetExampleTranscript creates a short transcript covering thirty seconds of
// speech in three segments, with word timings on the first segment. Used by
// builder and workflow tests as a deterministic input.
//
// Outputs:
//   - *TranscriptResult: A pointer to a hardcoded transcript.
func GetExampleTranscript() *TranscriptResult {
	return &TranscriptResult{
		Duration: 30,
		Language: "en",
		Segments: []TranscriptSegment{
			{
				Start: 0.0,
				End:   9.5,
				Text:  "welcome back everyone today we are testing the fastest car ever made",
				Words: []Word{
					{Word: "welcome", Start: 0.0, End: 0.4},
					{Word: "back", Start: 0.4, End: 0.7},
					{Word: "everyone", Start: 0.7, End: 1.3},
					{Word: "fastest", Start: 5.8, End: 6.3},
					{Word: "car", Start: 6.3, End: 6.6},
				},
			},
			{Start: 10.2, End: 19.8, Text: "and it costs more than my entire house which is insane"},
			{Start: 20.5, End: 29.0, Text: "stick around because the ending will shock you"},
		},
	}
}
