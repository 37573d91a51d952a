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

// This file defines the staging step: copying the user's source file into a
// temp file with a content-sniffed extension. The staged copy isolates the
// pipeline from the original file being moved or edited mid-job, and the
// temp file is registered with the context so cleanup happens on every exit
// path.
package commands

import (
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/media"
)

// MediaStageCommand stages the probed source into the temp dir. Input and
// output: *model.MediaInfo; the output's Path points at the staged copy.
type MediaStageCommand struct {
	cor.BaseCommand
	stager *media.Stager
}

// NewMediaStageCommand is the constructor.
func NewMediaStageCommand(name string, stager *media.Stager) *MediaStageCommand {
	return &MediaStageCommand{BaseCommand: *cor.NewBaseCommand(name), stager: stager}
}

// Execute copies the source and swaps the working path to the staged file.
func (c *MediaStageCommand) Execute(context cor.Context) {
	info := context.Get(c.GetInputParam()).(*model.MediaInfo)

	staged, err := c.stager.Stage(info.Path)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	context.AddTempFile(staged)
	info.Path = staged

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxMediaInfo, info)
	context.Add(c.GetOutputParam(), info)
}
