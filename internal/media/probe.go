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

// Package media contains the adapters around the external tools the pipeline
// shells out to: ffprobe for inspection, ffmpeg for decode and encode, and
// whisper for transcription. Everything here takes a context and dies
// promptly when it is cancelled; a killed job must never leave an orphaned
// subprocess running.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/terryhq/terry/internal/core/model"
)

// Prober inspects media files with ffprobe.
type Prober struct {
	FFprobePath string
}

// ffprobeOutput mirrors the subset of `ffprobe -print_format json` we read.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe runs ffprobe on the file and returns its properties.
//
// Inputs:
//   - ctx: Cancels the subprocess when the job is cancelled.
//   - path: The media file to inspect.
//
// Outputs:
//   - *model.MediaInfo: Duration, dimensions, and stream presence.
//   - error: Non-nil when ffprobe fails or reports no usable streams.
func (p *Prober) Probe(ctx context.Context, path string) (*model.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, p.FFprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return nil, fmt.Errorf("unparsable ffprobe output for %s: %w", path, err)
	}

	info := &model.MediaInfo{Path: path}
	info.Duration, err = strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil || info.Duration <= 0 {
		return nil, fmt.Errorf("media %s has no usable duration", path)
	}
	for _, s := range probed.Streams {
		switch s.CodecType {
		case "video":
			info.HasVideo = true
			if s.Width > 0 {
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if !info.HasVideo {
		return nil, fmt.Errorf("media %s has no video stream", path)
	}
	return info, nil
}
