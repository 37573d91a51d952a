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

// This file tests the auto-edit pipeline's chain mechanics: step observation,
// failure propagation, and cancellation. The runs here use a source file that
// does not exist, so the pipeline fails at the probe step; the full path
// through render is covered by the package-level builder and timeline tests
// plus manual runs against real footage.
package workflow_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terryhq/terry/internal/core/builder"
	"github.com/terryhq/terry/internal/core/commands"
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/modes"
	"github.com/terryhq/terry/internal/core/timeline"
	"github.com/terryhq/terry/internal/core/workflow"
)

// newPipeline builds a pipeline from the test configuration with proposals
// disabled.
func newPipeline(t *testing.T) *workflow.AutoEditWorkflow {
	t.Helper()
	catalog := effects.BuiltIn()
	return workflow.NewAutoEditPipeline(
		cfg,
		catalog,
		nil,
		timeline.NewCompositor(catalog, nil),
		builder.New(catalog, nil),
		nil,
	)
}

func newPipelineContext(t *testing.T, goCtx context.Context, source string) cor.Context {
	t.Helper()
	policy, ok := modes.BuiltIn().Get("vlog")
	require.True(t, ok)

	chCtx := cor.NewBaseContext()
	t.Cleanup(chCtx.Close)
	chCtx.SetContext(goCtx)
	chCtx.Add(cor.CtxIn, source)
	chCtx.Add(commands.CtxPolicy, policy)
	chCtx.Add(commands.CtxOutputPath, filepath.Join(t.TempDir(), "edited.mp4"))
	return chCtx
}

// TestPipelineFailsOnMissingSource verifies a bad source path fails the chain
// at the probe step and stops there: the stage listener sees the probe start
// and nothing after it.
func TestPipelineFailsOnMissingSource(t *testing.T) {
	spanCtx, span := tracer.Start(ctx, "test-pipeline-missing-source")
	defer span.End()

	pipeline := newPipeline(t)
	var steps []string
	pipeline.SetStageListener(func(commandName string) {
		steps = append(steps, commandName)
	})

	chCtx := newPipelineContext(t, spanCtx, filepath.Join(t.TempDir(), "missing.mp4"))
	pipeline.Execute(chCtx)

	assert.True(t, chCtx.HasErrors())
	require.Equal(t, 1, len(steps))
	assert.Equal(t, workflow.StepProbe, steps[0])
}

// TestPipelineHonorsCancellation verifies a cancelled job records the
// cancellation and never starts a step.
func TestPipelineHonorsCancellation(t *testing.T) {
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	pipeline := newPipeline(t)
	started := false
	pipeline.SetStageListener(func(string) { started = true })

	chCtx := newPipelineContext(t, cancelled, "clip.mp4")
	pipeline.Execute(chCtx)

	assert.True(t, chCtx.HasErrors())
	assert.False(t, started)
	for _, err := range chCtx.GetErrors() {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

// TestPipelineName verifies the workflow presents itself as a command, which
// is what lets pipelines nest inside larger chains.
func TestPipelineName(t *testing.T) {
	pipeline := newPipeline(t)
	assert.Equal(t, "auto-edit-pipeline", pipeline.GetName())
	assert.Equal(t, cor.CtxIn, pipeline.GetInputParam())
}
