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

// Package workflow defines the high-level business logic orchestrations,
// combining commands into coherent pipelines. This file implements the
// primary auto-edit workflow.
package workflow

import (
	"time"

	"github.com/terryhq/terry/internal/config"
	"github.com/terryhq/terry/internal/core/builder"
	"github.com/terryhq/terry/internal/core/commands"
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/timeline"
	"github.com/terryhq/terry/internal/llm"
	"github.com/terryhq/terry/internal/media"
)

// Command names of the pipeline steps, exported so observers registered via
// SetStageListener can map steps to job states.
const (
	StepProbe      = "probe-source-media"
	StepStage      = "stage-source-media"
	StepTranscribe = "transcribe-source-media"
	StepPropose    = "propose-edits"
	StepParse      = "parse-edit-proposal"
	StepBuild      = "build-edit-manifest"
	StepPersist    = "persist-edit-manifest"
	StepRender     = "render-output-video"
)

// AutoEditWorkflow orchestrates the entire process of turning a raw source
// video into an edited one. It is structured as a Chain of Responsibility
// (cor.Chain) that executes a sequence of commands: probing and staging the
// source, transcribing it, asking the generative model for an edit proposal,
// building the validated edit manifest, and rendering the final video.
//
// The workflow is deliberately tolerant in the middle: a failed or disabled
// proposal degrades to the local deterministic edit selection, so only the
// steps that touch the filesystem or subprocesses can fail a job.
type AutoEditWorkflow struct {
	cor.BaseCommand
	config     *config.Config
	catalog    *effects.Catalog
	genaiModel *llm.QuotaAwareGenerativeAIModel
	compositor *timeline.Compositor
	builder    *builder.Builder
	progress   commands.ProgressFunc
	chain      *cor.BaseChain // The underlying chain of commands to be executed.
}

// SetStageListener registers a callback fired as each pipeline step starts,
// with the step's command name. The job service uses it to derive coarse
// job states.
func (w *AutoEditWorkflow) SetStageListener(listener func(commandName string)) {
	w.chain.SetCommandListener(listener)
}

// Execute runs the entire auto-edit workflow by invoking the underlying
// chain. The context carries the source path as its initial input plus the
// policy and output path, and accumulates state between commands.
//
// Inputs:
//   - context: The chain of responsibility context for this execution.
func (w *AutoEditWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the sequence of commands that make up this workflow.
// Each command is an atomic unit of work whose primary output feeds the next
// command's input. This method is called by the constructor.
func (w *AutoEditWorkflow) initializeChain() {
	cfg := w.config

	// Create the chain that will hold all the command steps.
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Probe the source file with ffprobe. The duration and stream
	// layout discovered here drive everything downstream.
	prober := &media.Prober{FFprobePath: cfg.Media.FFprobePath}
	out.AddCommand(commands.NewMediaProbeCommand(StepProbe, prober))

	// Step 2: Stage the source into a temp file with a content-sniffed
	// extension, isolating the pipeline from the original file.
	stager := &media.Stager{TempDir: cfg.Media.TempDir}
	out.AddCommand(commands.NewMediaStageCommand(StepStage, stager))

	// Step 3: Transcribe the staged file with whisper under a deadline.
	transcriber := &media.Transcriber{
		WhisperPath: cfg.Media.WhisperPath,
		Model:       cfg.Media.WhisperModel,
		Timeout:     time.Duration(cfg.Media.TranscribeTimeoutInSeconds) * time.Second,
		TempDir:     cfg.Media.TempDir,
	}
	out.AddCommand(commands.NewTranscribeCommand(StepTranscribe, transcriber))

	// Step 4: Ask the generative model for an edit proposal. Best effort; a
	// nil model or a model failure yields an empty proposal.
	template := cfg.PromptTemplates.EditProposal
	if template == "" {
		template = llm.DefaultProposalTemplate
	}
	out.AddCommand(commands.NewEditProposeCommand(StepPropose, w.genaiModel, w.catalog, template))

	// Step 5: Decode the model's response. Malformed JSON becomes an empty
	// proposal rather than a chain error.
	out.AddCommand(commands.NewProposalParseCommand(StepParse))

	// Step 6: Build the edit manifest. The builder sanitizes or replaces the
	// proposal and always produces a valid timeline.
	out.AddCommand(commands.NewManifestBuildCommand(
		StepBuild, w.builder, cfg.Render.FPS, cfg.Render.Width, cfg.Render.Height))

	// Step 7: Persist the manifest JSON next to the output so the timeline
	// can be inspected or re-rendered later.
	out.AddCommand(commands.NewManifestPersistCommand(StepPersist))

	// Step 8: Render the manifest to the output video through the frame
	// pipeline, reporting progress as frames are encoded.
	out.AddCommand(commands.NewRenderCommand(
		StepRender,
		w.compositor,
		cfg.Media.FFmpegPath,
		cfg.Render.Workers,
		time.Duration(cfg.Media.RenderTimeoutInSeconds)*time.Second,
		w.progress))

	// Assign the fully constructed chain to the workflow instance.
	w.chain = out
}

// NewAutoEditPipeline is the constructor for the AutoEditWorkflow. It wires
// the media tool adapters from config and initializes the command chain.
//
// Inputs:
//   - cfg: The application's overall configuration.
//   - catalog: The effect catalog shared by proposal and build steps.
//   - genaiModel: The quota-aware proposal model; nil disables proposals.
//   - compositor: The stateless frame compositor used by the renderer.
//   - b: The manifest builder.
//   - progress: Optional render progress callback.
//
// Outputs:
//   - A pointer to a newly created and fully initialized AutoEditWorkflow.
func NewAutoEditPipeline(
	cfg *config.Config,
	catalog *effects.Catalog,
	genaiModel *llm.QuotaAwareGenerativeAIModel,
	compositor *timeline.Compositor,
	b *builder.Builder,
	progress commands.ProgressFunc) *AutoEditWorkflow {

	pipeline := &AutoEditWorkflow{
		BaseCommand: *cor.NewBaseCommand("auto-edit-pipeline"),
		config:      cfg,
		catalog:     catalog,
		genaiModel:  genaiModel,
		compositor:  compositor,
		builder:     b,
		progress:    progress,
	}
	// Build the command chain for the new pipeline instance.
	pipeline.initializeChain()
	return pipeline
}
