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

// This file defines the manifest build step, the point where the untrusted
// and best-effort inputs (proposal, transcript) become the validated,
// immutable manifest the renderer trusts completely. The builder itself
// never fails; this command only fails if the context is missing the media
// info that sizes the output.
package commands

import (
	"github.com/terryhq/terry/internal/core/builder"
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
)

// ManifestBuildCommand builds the edit manifest. Input: *model.RawEditList
// (an empty list selects the local path). Output: *model.EditManifest.
type ManifestBuildCommand struct {
	cor.BaseCommand
	builder *builder.Builder
	fps     int
	width   int
	height  int
}

// NewManifestBuildCommand is the constructor. fps, width, and height define
// the output geometry for every job built by this command.
func NewManifestBuildCommand(name string, b *builder.Builder, fps, width, height int) *ManifestBuildCommand {
	return &ManifestBuildCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		builder:     b,
		fps:         fps,
		width:       width,
		height:      height,
	}
}

// Execute assembles the builder input from the context and builds.
func (c *ManifestBuildCommand) Execute(context cor.Context) {
	proposal := context.Get(c.GetInputParam()).(*model.RawEditList)
	policy := context.Get(CtxPolicy).(*modes.Policy)
	info := context.Get(CtxMediaInfo).(*model.MediaInfo)
	transcript, _ := context.Get(CtxTranscript).(*model.TranscriptResult)

	if len(proposal.Scenes) == 0 {
		proposal = nil
	}

	// identity from the path the user submitted, not the staged temp copy,
	// so the same source and mode rebuild the same manifest across jobs
	source := info.Origin
	if source == "" {
		source = info.Path
	}

	manifest := c.builder.Build(builder.Input{
		Transcript:  transcript,
		Proposal:    proposal,
		Policy:      policy,
		SourceMedia: source,
		Duration:    info.Duration,
		FPS:         c.fps,
		Width:       c.width,
		Height:      c.height,
	})

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), manifest)
}
