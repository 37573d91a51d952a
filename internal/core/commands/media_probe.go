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

// This file defines the first pipeline step: probing the source media with
// ffprobe. Everything downstream (scene tiling, frame counts, render
// geometry) derives from the duration and stream info discovered here, so a
// file that cannot be probed fails the job immediately.
package commands

import (
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/media"
)

// MediaProbeCommand probes the source media file. Input: the source path
// (string). Output: the *model.MediaInfo, also stored under CtxMediaInfo for
// later steps.
type MediaProbeCommand struct {
	cor.BaseCommand
	prober *media.Prober
}

// NewMediaProbeCommand is the constructor.
//
// Inputs:
//   - name: The command name for logging and telemetry.
//   - prober: The configured ffprobe adapter.
//
// Outputs:
//   - *MediaProbeCommand: A pointer to the newly instantiated command.
func NewMediaProbeCommand(name string, prober *media.Prober) *MediaProbeCommand {
	return &MediaProbeCommand{BaseCommand: *cor.NewBaseCommand(name), prober: prober}
}

// Execute runs ffprobe and records the result.
func (c *MediaProbeCommand) Execute(context cor.Context) {
	sourcePath := context.Get(c.GetInputParam()).(string)

	info, err := c.prober.Probe(context.GetContext(), sourcePath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	info.Origin = sourcePath

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxMediaInfo, info)
	context.Add(c.GetOutputParam(), info)
}
