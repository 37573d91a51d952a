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

// This file defines the manifest persistence step. The manifest is written
// as JSON next to the output video so a finished or failed job can be
// inspected and a render replayed without re-running transcription and
// proposal. The manifest round-trips losslessly, so the persisted file is a
// complete record of the timeline.
package commands

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/model"
)

// ManifestPersistCommand writes the manifest to disk. Input and output:
// *model.EditManifest (pass-through). The written path is stored under
// CtxManifestPath.
type ManifestPersistCommand struct {
	cor.BaseCommand
}

// NewManifestPersistCommand is the constructor.
func NewManifestPersistCommand(name string) *ManifestPersistCommand {
	return &ManifestPersistCommand{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute marshals the manifest next to the configured output path.
func (c *ManifestPersistCommand) Execute(context cor.Context) {
	manifest := context.Get(c.GetInputParam()).(*model.EditManifest)
	outputPath, _ := context.Get(CtxOutputPath).(string)

	manifestPath := manifestSidecarPath(outputPath, manifest.ID)
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = os.WriteFile(manifestPath, data, 0o644)
	}
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxManifestPath, manifestPath)
	context.Add(c.GetOutputParam(), manifest)
}

// manifestSidecarPath derives the manifest location: next to the output
// video when one is configured, otherwise a manifest file in the working
// directory named by the manifest ID.
func manifestSidecarPath(outputPath, manifestID string) string {
	if outputPath == "" {
		return manifestID + ".manifest.json"
	}
	if idx := strings.LastIndex(outputPath, "."); idx > strings.LastIndexByte(outputPath, os.PathSeparator) {
		return outputPath[:idx] + ".manifest.json"
	}
	return outputPath + ".manifest.json"
}
