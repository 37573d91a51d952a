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

package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terryhq/terry/internal/core/builder"
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
	test "github.com/terryhq/terry/internal/testutil"
)

func newCommandContext(t *testing.T) cor.Context {
	t.Helper()
	chCtx := cor.NewBaseContext()
	chCtx.SetContext(context.Background())
	t.Cleanup(chCtx.Close)
	return chCtx
}

// TestProposalParseValid decodes a well-formed model response into a typed
// edit list.
func TestProposalParseValid(t *testing.T) {
	cmd := NewProposalParseCommand("parse")
	chCtx := newCommandContext(t)
	chCtx.Add(cor.CtxIn, test.GetTestProposalText())

	require.True(t, cmd.IsExecutable(chCtx))
	cmd.Execute(chCtx)

	require.False(t, chCtx.HasErrors())
	proposal := chCtx.Get(cor.CtxOut).(*model.RawEditList)
	require.Equal(t, 2, len(proposal.Scenes))
	assert.Equal(t, "zoom_punch", proposal.Scenes[0].Edits[0].Type)
	assert.Equal(t, 2.5, proposal.Scenes[0].Edits[0].At)
}

// TestProposalParseMalformed verifies garbage output degrades to an empty
// proposal instead of failing the job. The builder then takes the local path.
func TestProposalParseMalformed(t *testing.T) {
	cmd := NewProposalParseCommand("parse")
	chCtx := newCommandContext(t)
	chCtx.Add(cor.CtxIn, test.GetTestMalformedProposalText())

	cmd.Execute(chCtx)

	require.False(t, chCtx.HasErrors())
	proposal := chCtx.Get(cor.CtxOut).(*model.RawEditList)
	assert.Empty(t, proposal.Scenes)
}

// TestProposalParseEmptyInput verifies the command accepts an empty string,
// which is what a disabled or failed generative step hands forward.
func TestProposalParseEmptyInput(t *testing.T) {
	cmd := NewProposalParseCommand("parse")
	chCtx := newCommandContext(t)
	chCtx.Add(cor.CtxIn, "")

	require.True(t, cmd.IsExecutable(chCtx))
	cmd.Execute(chCtx)

	proposal := chCtx.Get(cor.CtxOut).(*model.RawEditList)
	assert.Empty(t, proposal.Scenes)

	chCtx.Remove(cor.CtxIn)
	assert.False(t, cmd.IsExecutable(chCtx))
}

// TestManifestBuild runs the build step with an empty proposal and checks a
// complete manifest comes out with the configured geometry.
func TestManifestBuild(t *testing.T) {
	catalog := effects.BuiltIn()
	policy, ok := modes.BuiltIn().Get("vlog")
	require.True(t, ok)

	cmd := NewManifestBuildCommand("build", builder.New(catalog, nil), 30, 1280, 720)
	chCtx := newCommandContext(t)
	chCtx.Add(cor.CtxIn, &model.RawEditList{})
	chCtx.Add(CtxPolicy, policy)
	chCtx.Add(CtxMediaInfo, &model.MediaInfo{Path: "clip.mp4", Duration: 30, HasVideo: true})

	require.True(t, cmd.IsExecutable(chCtx))
	cmd.Execute(chCtx)

	require.False(t, chCtx.HasErrors())
	manifest := chCtx.Get(cor.CtxOut).(*model.EditManifest)
	assert.Equal(t, "vlog", manifest.Mode)
	assert.Equal(t, 30, manifest.FPS)
	assert.Equal(t, 1280, manifest.Width)
	assert.Equal(t, 720, manifest.Height)
	assert.Greater(t, manifest.EditCount(), 0)
}

// TestManifestIdentityFromOrigin verifies the manifest identity and recorded
// source come from the path the user submitted, not the randomly named staged
// copy, so the same source and mode rebuild the same manifest across jobs.
func TestManifestIdentityFromOrigin(t *testing.T) {
	policy, ok := modes.BuiltIn().Get("vlog")
	require.True(t, ok)

	buildWith := func(staged string) *model.EditManifest {
		cmd := NewManifestBuildCommand("build", builder.New(effects.BuiltIn(), nil), 30, 1280, 720)
		chCtx := newCommandContext(t)
		chCtx.Add(cor.CtxIn, &model.RawEditList{})
		chCtx.Add(CtxPolicy, policy)
		chCtx.Add(CtxMediaInfo, &model.MediaInfo{
			Path:     staged,
			Origin:   "talk.mp4",
			Duration: 30,
			HasVideo: true,
		})
		cmd.Execute(chCtx)
		require.False(t, chCtx.HasErrors())
		return chCtx.Get(cor.CtxOut).(*model.EditManifest)
	}

	first := buildWith(filepath.Join(t.TempDir(), "terry-source-1a2b.mp4"))
	second := buildWith(filepath.Join(t.TempDir(), "terry-source-9f8e.mp4"))

	assert.Equal(t, "talk.mp4", first.SourceMedia)
	assert.Equal(t, first.ID, second.ID)
}

// TestManifestPersist writes the manifest sidecar and checks it decodes back
// to the same timeline.
func TestManifestPersist(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "video.mp4")
	manifest := model.NewEditManifest("vlog", "clip.mp4", 10, 30, 1920, 1080)

	cmd := NewManifestPersistCommand("persist")
	chCtx := newCommandContext(t)
	chCtx.Add(cor.CtxIn, manifest)
	chCtx.Add(CtxOutputPath, outputPath)

	cmd.Execute(chCtx)

	require.False(t, chCtx.HasErrors())
	manifestPath := chCtx.Get(CtxManifestPath).(string)
	assert.Equal(t, filepath.Join(dir, "video.manifest.json"), manifestPath)

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	var back model.EditManifest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, manifest.ID, back.ID)

	// pass-through: the manifest stays the chain's piped value for the
	// render step
	assert.Same(t, manifest, chCtx.Get(cor.CtxOut))
}

// TestManifestPersistFailure points the sidecar at a directory that does not
// exist and expects a recorded error.
func TestManifestPersistFailure(t *testing.T) {
	manifest := model.NewEditManifest("vlog", "clip.mp4", 10, 30, 1920, 1080)

	cmd := NewManifestPersistCommand("persist")
	chCtx := newCommandContext(t)
	chCtx.Add(cor.CtxIn, manifest)
	chCtx.Add(CtxOutputPath, filepath.Join(t.TempDir(), "missing", "video.mp4"))

	cmd.Execute(chCtx)
	assert.True(t, chCtx.HasErrors())
}

// TestManifestSidecarPath covers the path derivation rules.
func TestManifestSidecarPath(t *testing.T) {
	assert.Equal(t, "abc.manifest.json", manifestSidecarPath("", "abc"))
	assert.Equal(t,
		filepath.Join("out", "video.manifest.json"),
		manifestSidecarPath(filepath.Join("out", "video.mp4"), "abc"))
	assert.Equal(t,
		filepath.Join("out.d", "video.manifest.json"),
		manifestSidecarPath(filepath.Join("out.d", "video"), "abc"))
}
