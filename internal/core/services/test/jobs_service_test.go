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

// Package services_test contains the test suite for the services package.
// This file tests the JobService lifecycle: submission, failure reporting,
// cancellation rules, and retries. The jobs here run the real pipeline
// against sources that do not exist, so they exercise the full goroutine and
// state machinery without needing media tools installed.
package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
	"github.com/terryhq/terry/internal/core/services"
	test "github.com/terryhq/terry/internal/testutil"
)

// newJobService builds a service with the test configuration, a temp output
// directory, and no generative model.
func newJobService(t *testing.T) *services.JobService {
	cfg := test.GetConfig()
	cfg.Application.OutputDir = t.TempDir()
	return services.NewJobService(cfg, effects.BuiltIn(), modes.BuiltIn(), nil)
}

// waitForTerminal polls the job until it reaches a terminal state.
func waitForTerminal(t *testing.T, svc *services.JobService, id string) model.Job {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Get(id)
		assert.NoError(t, err)
		if job.State.Terminal() {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return model.Job{}
}

// TestSubmitUnknownMode verifies submission fails fast on a mode the table
// does not know, before any goroutine starts.
func TestSubmitUnknownMode(t *testing.T) {
	svc := newJobService(t)

	_, err := svc.Submit("clip.mp4", "not_a_mode", "")
	assert.Error(t, err)
}

// TestUnknownJobID verifies the lookup operations agree on the sentinel
// error.
func TestUnknownJobID(t *testing.T) {
	svc := newJobService(t)

	_, err := svc.Get("nope")
	assert.True(t, errors.Is(err, services.ErrJobNotFound))

	err = svc.Cancel("nope")
	assert.True(t, errors.Is(err, services.ErrJobNotFound))

	_, err = svc.Retry("nope")
	assert.True(t, errors.Is(err, services.ErrJobNotFound))
}

// TestJobFailsOnMissingSource submits a job for a file that does not exist
// and expects the pipeline to surface the probe failure as an error state
// with a populated message.
func TestJobFailsOnMissingSource(t *testing.T) {
	svc := newJobService(t)

	job, err := svc.Submit("/definitely/not/here.mp4", "vlog", "")
	assert.NoError(t, err)
	assert.Equal(t, model.JobStatePending, job.State)
	assert.Equal(t, "vlog", job.Mode)
	assert.NotNil(t, job.OutputPath)

	done := waitForTerminal(t, svc, job.ID)
	assert.Equal(t, model.JobStateError, done.State)
	assert.True(t, done.Error != "")
}

// TestCancelFinishedJobRejected verifies terminal jobs cannot be cancelled.
func TestCancelFinishedJobRejected(t *testing.T) {
	svc := newJobService(t)

	job, err := svc.Submit("/definitely/not/here.mp4", "vlog", "")
	assert.NoError(t, err)
	waitForTerminal(t, svc, job.ID)

	err = svc.Cancel(job.ID)
	assert.Error(t, err)
}

// TestRetryRestartsFinishedJob verifies a failed job can be retried from
// scratch: the snapshot resets to pending, and the rerun reaches its own
// terminal state.
func TestRetryRestartsFinishedJob(t *testing.T) {
	svc := newJobService(t)

	job, err := svc.Submit("/definitely/not/here.mp4", "vlog", "")
	assert.NoError(t, err)
	waitForTerminal(t, svc, job.ID)

	snapshot, err := svc.Retry(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.JobStatePending, snapshot.State)
	assert.Equal(t, "", snapshot.Error)

	done := waitForTerminal(t, svc, job.ID)
	assert.Equal(t, model.JobStateError, done.State)
}

// TestListNewestFirst verifies List orders jobs by creation time descending.
func TestListNewestFirst(t *testing.T) {
	svc := newJobService(t)

	first, err := svc.Submit("/a.mp4", "vlog", "")
	assert.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Submit("/b.mp4", "tiktok", "")
	assert.NoError(t, err)

	jobs := svc.List()
	assert.Equal(t, 2, len(jobs))
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)

	waitForTerminal(t, svc, first.ID)
	waitForTerminal(t, svc, second.ID)
}
