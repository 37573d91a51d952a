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

// This file defines the job record the service layer and API exchange. A job
// is one run of the auto-edit pipeline over one source file.
package model

import "time"

// JobState is the coarse lifecycle state of an edit job.
type JobState string

const (
	JobStatePending      JobState = "pending"
	JobStateTranscribing JobState = "transcribing"
	JobStateGenerating   JobState = "generating"
	JobStateRendering    JobState = "rendering"
	JobStateComplete     JobState = "complete"
	JobStateError        JobState = "error"
	JobStateCancelled    JobState = "cancelled"
)

// Terminal reports whether the state is final. Only terminal jobs can be
// retried.
func (s JobState) Terminal() bool {
	return s == JobStateComplete || s == JobStateError || s == JobStateCancelled
}

// Job is a snapshot of one edit job. The service owns the mutable record;
// everything handed out through the API is a copy.
type Job struct {
	ID           string    `json:"id"`
	SourcePath   string    `json:"source_path"`
	OutputPath   string    `json:"output_path"`
	ManifestPath string    `json:"manifest_path,omitempty"`
	Mode         string    `json:"mode"`
	State        JobState  `json:"state"`
	Progress     float64   `json:"progress"` // Percent complete, 0-100.
	Error        string    `json:"error,omitempty"`
	CreateTime   time.Time `json:"create_time"`
	UpdateTime   time.Time `json:"update_time"`
}
