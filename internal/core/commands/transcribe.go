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

// This file defines the transcription step. Whisper runs under a deadline
// and the job context, so cancelling a job kills the subprocess instead of
// waiting on it. A video with no speech is not an error; the builder handles
// an empty transcript with its fallback density.
package commands

import (
	"log/slog"

	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/media"
)

// TranscribeCommand runs whisper on the staged media. Input:
// *model.MediaInfo. Output: *model.TranscriptResult, also stored under
// CtxTranscript.
type TranscribeCommand struct {
	cor.BaseCommand
	transcriber *media.Transcriber
}

// NewTranscribeCommand is the constructor.
func NewTranscribeCommand(name string, transcriber *media.Transcriber) *TranscribeCommand {
	return &TranscribeCommand{BaseCommand: *cor.NewBaseCommand(name), transcriber: transcriber}
}

// Execute transcribes the staged file and records the transcript.
func (c *TranscribeCommand) Execute(context cor.Context) {
	info := context.Get(c.GetInputParam()).(*model.MediaInfo)

	transcript, err := c.transcriber.Transcribe(context.GetContext(), info.Path)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if len(transcript.Segments) == 0 {
		slog.WarnContext(context.GetContext(), "no speech detected in source media", "path", info.Path)
	}
	// the probe's duration wins; whisper only sees up to the last word
	if transcript.Duration < info.Duration {
		transcript.Duration = info.Duration
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxTranscript, transcript)
	context.Add(c.GetOutputParam(), transcript)
}
