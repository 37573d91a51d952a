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

// Package commands provides the concrete pipeline steps of the auto-edit
// workflow, each an implementation of the cor.Command interface. The chain
// pipes each command's primary output to the next command's input; the keys
// below are the named slots for data that more than one downstream command
// needs.
package commands

const (
	// CtxMediaInfo holds the *model.MediaInfo for the staged source.
	CtxMediaInfo = "media_info"
	// CtxTranscript holds the *model.TranscriptResult.
	CtxTranscript = "transcript"
	// CtxPolicy holds the *modes.Policy for the requested editing mode.
	CtxPolicy = "policy"
	// CtxOutputPath holds the destination path for the rendered video.
	CtxOutputPath = "output_path"
	// CtxManifestPath holds the path the manifest JSON was persisted to.
	CtxManifestPath = "manifest_path"
)
