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

// Package services contains the business logic between the API surface and
// the pipeline. This file defines the JobService, which owns the lifecycle
// of edit jobs: submission, concurrent execution, progress tracking,
// cancellation, and retries.
//
// Concurrency model: each job runs the pipeline in its own goroutine with
// its own cancellable context and its own workflow instance. The catalog,
// mode table, compositor, and builder are shared across jobs and are
// read-only after construction, so no locking is needed on the pipeline
// side. The service's own job map is guarded by a mutex, and every Job
// handed out is a copy of the live record.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terryhq/terry/internal/config"
	"github.com/terryhq/terry/internal/core/builder"
	"github.com/terryhq/terry/internal/core/commands"
	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
	"github.com/terryhq/terry/internal/core/timeline"
	"github.com/terryhq/terry/internal/core/workflow"
	"github.com/terryhq/terry/internal/llm"
)

// ErrJobNotFound is returned when a job ID is unknown to the service.
var ErrJobNotFound = errors.New("job not found")

// jobRecord is the live, mutable state of one job. The embedded Job is the
// externally visible snapshot; cancel aborts the running pipeline.
type jobRecord struct {
	job    model.Job
	cancel context.CancelFunc
}

// JobService owns edit jobs from submission to completion.
type JobService struct {
	config     *config.Config
	catalog    *effects.Catalog
	modeTable  *modes.Table
	genaiModel *llm.QuotaAwareGenerativeAIModel
	compositor *timeline.Compositor
	builder    *builder.Builder

	mu   sync.Mutex
	jobs map[string]*jobRecord
}

// NewJobService is the constructor. The genaiModel may be nil, in which case
// every job uses the local deterministic edit selection.
//
// Inputs:
//   - cfg: The application configuration.
//   - catalog: The validated effect catalog.
//   - modeTable: The validated mode table, overrides already applied.
//   - genaiModel: The proposal model, or nil.
//
// Outputs:
//   - *JobService: A pointer to the newly instantiated service.
func NewJobService(
	cfg *config.Config,
	catalog *effects.Catalog,
	modeTable *modes.Table,
	genaiModel *llm.QuotaAwareGenerativeAIModel) *JobService {

	b := builder.New(catalog, nil)
	if cfg.Application.SceneWindow > 0 {
		b.SetSceneWindow(cfg.Application.SceneWindow)
	}
	return &JobService{
		config:     cfg,
		catalog:    catalog,
		modeTable:  modeTable,
		genaiModel: genaiModel,
		compositor: timeline.NewCompositor(catalog, nil),
		builder:    b,
		jobs:       make(map[string]*jobRecord),
	}
}

// Submit creates a new job and starts it immediately.
//
// Inputs:
//   - sourcePath: The source video on local disk.
//   - mode: The editing mode ID, which must exist in the mode table.
//   - outputPath: The destination video; empty derives one from the job ID
//     under the configured output directory.
//
// Outputs:
//   - model.Job: A snapshot of the newly created job.
//   - error: Non-nil when the mode is unknown.
func (s *JobService) Submit(sourcePath, mode, outputPath string) (model.Job, error) {
	policy, ok := s.modeTable.Get(mode)
	if !ok {
		return model.Job{}, fmt.Errorf("unknown editing mode: %q", mode)
	}

	id := uuid.NewString()
	if outputPath == "" {
		outputPath = filepath.Join(s.config.Application.OutputDir, id+".mp4")
	}

	now := time.Now()
	record := &jobRecord{job: model.Job{
		ID:         id,
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Mode:       mode,
		State:      model.JobStatePending,
		CreateTime: now,
		UpdateTime: now,
	}}

	s.mu.Lock()
	s.jobs[id] = record
	s.mu.Unlock()

	s.start(id, policy)
	return record.job, nil
}

// Get returns a snapshot of one job.
func (s *JobService) Get(id string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.jobs[id]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	return record.job, nil
}

// List returns snapshots of all jobs, newest first.
func (s *JobService) List() []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Job, 0, len(s.jobs))
	for _, record := range s.jobs {
		out = append(out, record.job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreateTime.After(out[j].CreateTime) })
	return out
}

// Cancel aborts a running job. The pipeline's context is cancelled, which
// kills any ffmpeg or whisper subprocess the job is blocked on. Cancelling a
// job that already reached a terminal state is an error.
func (s *JobService) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if record.job.State.Terminal() {
		return fmt.Errorf("job %s already finished: %s", id, record.job.State)
	}
	if record.cancel != nil {
		record.cancel()
	}
	return nil
}

// Retry restarts a finished job from scratch: a fresh context, fresh staging
// and transcription, fresh proposal. Only terminal jobs can be retried.
func (s *JobService) Retry(id string) (model.Job, error) {
	s.mu.Lock()
	record, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return model.Job{}, ErrJobNotFound
	}
	if !record.job.State.Terminal() {
		s.mu.Unlock()
		return model.Job{}, fmt.Errorf("job %s still running: %s", id, record.job.State)
	}
	policy, ok := s.modeTable.Get(record.job.Mode)
	if !ok {
		s.mu.Unlock()
		return model.Job{}, fmt.Errorf("unknown editing mode: %q", record.job.Mode)
	}
	record.job.State = model.JobStatePending
	record.job.Progress = 0
	record.job.Error = ""
	record.job.ManifestPath = ""
	record.job.UpdateTime = time.Now()
	snapshot := record.job
	s.mu.Unlock()

	s.start(id, policy)
	return snapshot, nil
}

// start launches the pipeline goroutine for a job.
func (s *JobService) start(id string, policy *modes.Policy) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	record := s.jobs[id]
	record.cancel = cancel
	snapshot := record.job
	s.mu.Unlock()

	go s.run(ctx, cancel, snapshot, policy)
}

// run executes the full pipeline for one job and records the outcome.
func (s *JobService) run(ctx context.Context, cancel context.CancelFunc, job model.Job, policy *modes.Policy) {
	defer cancel()

	progress := func(p model.RenderProgress) {
		s.update(job.ID, func(j *model.Job) {
			j.State = model.JobStateRendering
			j.Progress = p.Percent
		})
	}

	pipeline := workflow.NewAutoEditPipeline(s.config, s.catalog, s.genaiModel, s.compositor, s.builder, progress)
	pipeline.SetStageListener(func(commandName string) {
		state := stateForStep(commandName)
		if state == "" {
			return
		}
		s.update(job.ID, func(j *model.Job) { j.State = state })
	})

	chCtx := cor.NewBaseContext()
	defer chCtx.Close()
	chCtx.SetContext(ctx)
	chCtx.Add(cor.CtxIn, job.SourcePath)
	chCtx.Add(commands.CtxPolicy, policy)
	chCtx.Add(commands.CtxOutputPath, job.OutputPath)

	slog.InfoContext(ctx, "starting edit job", "job_id", job.ID, "mode", job.Mode, "source", job.SourcePath)
	pipeline.Execute(chCtx)

	manifestPath, _ := chCtx.Get(commands.CtxManifestPath).(string)

	switch {
	case ctx.Err() != nil:
		slog.InfoContext(context.Background(), "edit job cancelled", "job_id", job.ID)
		s.update(job.ID, func(j *model.Job) {
			j.State = model.JobStateCancelled
			j.ManifestPath = manifestPath
		})
	case chCtx.HasErrors():
		err := joinErrors(chCtx.GetErrors())
		slog.ErrorContext(ctx, "edit job failed", "job_id", job.ID, "error", err)
		s.update(job.ID, func(j *model.Job) {
			j.State = model.JobStateError
			j.Error = err.Error()
			j.ManifestPath = manifestPath
		})
	default:
		slog.InfoContext(ctx, "edit job complete", "job_id", job.ID, "output", job.OutputPath)
		s.update(job.ID, func(j *model.Job) {
			j.State = model.JobStateComplete
			j.Progress = 100
			j.ManifestPath = manifestPath
		})
	}
}

// update applies a mutation to the live job record under the lock.
func (s *JobService) update(id string, fn func(j *model.Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.jobs[id]
	if !ok {
		return
	}
	fn(&record.job)
	record.job.UpdateTime = time.Now()
}

// stateForStep maps pipeline steps to the coarse job states the API exposes.
// Steps with no mapping keep the current state.
func stateForStep(commandName string) model.JobState {
	switch commandName {
	case workflow.StepTranscribe:
		return model.JobStateTranscribing
	case workflow.StepPropose, workflow.StepParse, workflow.StepBuild:
		return model.JobStateGenerating
	case workflow.StepRender:
		return model.JobStateRendering
	}
	return ""
}

// joinErrors flattens the chain's error map into one error, keyed by the
// command that failed.
func joinErrors(errs map[string]error) error {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	joined := make([]error, 0, len(errs))
	for _, k := range keys {
		joined = append(joined, fmt.Errorf("%s: %w", k, errs[k]))
	}
	return errors.Join(joined...)
}
