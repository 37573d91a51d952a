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

// This file writes composited RGBA frames into the final output video. One
// ffmpeg subprocess consumes raw frames on stdin and muxes the source file's
// audio track alongside them.
package media

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// FrameWriter encodes a sequence of raw RGBA frames to an H.264 MP4,
// carrying the audio over from the source file. Frames must be written in
// presentation order.
type FrameWriter struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	size  int
}

// NewFrameWriter starts the encode subprocess.
//
// Inputs:
//   - ctx: Kills the encoder when the job is cancelled.
//   - ffmpegPath: The ffmpeg executable.
//   - src: The staged source path, used for its audio stream. Empty skips
//     audio muxing.
//   - out: The output file path.
//   - width, height, fps: The geometry of the incoming frames.
func NewFrameWriter(ctx context.Context, ffmpegPath, src, out string, width, height, fps int) (*FrameWriter, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.Itoa(fps),
		"-i", "-",
	}
	if src != "" {
		args = append(args,
			"-i", src,
			"-map", "0:v:0",
			"-map", "1:a:0?",
			"-c:a", "aac",
			"-shortest",
		)
	}
	args = append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		out,
	)
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start ffmpeg encoder: %w", err)
	}
	return &FrameWriter{cmd: cmd, stdin: stdin, size: FrameSize(width, height)}, nil
}

// Write sends one frame to the encoder.
func (w *FrameWriter) Write(frame []byte) error {
	if len(frame) != w.size {
		return fmt.Errorf("frame is %d bytes, want %d", len(frame), w.size)
	}
	_, err := w.stdin.Write(frame)
	return err
}

// Close signals end of stream and waits for the encoder to finish the file.
func (w *FrameWriter) Close() error {
	if err := w.stdin.Close(); err != nil {
		_ = w.cmd.Wait()
		return err
	}
	return w.cmd.Wait()
}
