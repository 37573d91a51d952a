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

// This file reads source video as a stream of raw RGBA frames. ffmpeg does
// the decoding, scaling, and frame-rate conversion; we read fixed-size frame
// buffers off its stdout in sequence.
package media

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// FrameSize returns the byte length of one RGBA frame.
func FrameSize(width, height int) int {
	return width * height * 4
}

// FrameReader streams decoded frames from a source file at a fixed output
// geometry and frame rate. Frames come back in order; the reader owns the
// ffmpeg subprocess and kills it when closed or when the context fires.
type FrameReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	size   int
}

// NewFrameReader starts the decode subprocess.
//
// Inputs:
//   - ctx: Kills the decoder when the job is cancelled.
//   - ffmpegPath: The ffmpeg executable.
//   - src: The staged source media path.
//   - width, height, fps: The output geometry every frame is conformed to.
func NewFrameReader(ctx context.Context, ffmpegPath, src string, width, height, fps int) (*FrameReader, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-hide_banner", "-loglevel", "error",
		"-i", src,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.Itoa(fps),
		"-")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot start ffmpeg decoder: %w", err)
	}
	return &FrameReader{cmd: cmd, stdout: stdout, size: FrameSize(width, height)}, nil
}

// Next reads one frame into buf, which must be FrameSize bytes. Returns
// io.EOF cleanly when the source runs out.
func (r *FrameReader) Next(buf []byte) error {
	if len(buf) != r.size {
		return fmt.Errorf("frame buffer is %d bytes, want %d", len(buf), r.size)
	}
	_, err := io.ReadFull(r.stdout, buf)
	if err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}

// Close terminates the decoder and reaps the subprocess.
func (r *FrameReader) Close() error {
	_ = r.stdout.Close()
	return r.cmd.Wait()
}
