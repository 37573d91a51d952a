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

// This file defines the render step, the heaviest command in the pipeline.
//
// Logic Flow:
//  1. **Decode**: One ffmpeg subprocess decodes the staged source into raw
//     RGBA frames conformed to the output geometry and frame rate.
//  2. **Worker Pool Pattern**: A pool of goroutines consumes frames from a
//     `jobs` channel. Each worker asks the stateless compositor for the
//     frame's visual ops and rasterizes them into the frame buffer. The
//     compositor's determinism is what makes this safe: frame N renders
//     identically no matter which worker picks it up.
//  3. **Ordered Mux**: Workers finish out of order, but the encoder needs
//     frames in presentation order. A reorder buffer holds finished frames
//     until their turn comes up, then streams them to the encoding ffmpeg's
//     stdin.
//  4. **Audio Cues**: Sound-cue effects encountered along the way are
//     collected and written to a sidecar JSON next to the output for the
//     shell's audio mixer.
//  5. **Progress**: A callback fires as frames are encoded, feeding the job
//     service's progress reporting.
//
// The whole step runs under a configurable deadline. Cancellation or
// timeout kills both ffmpeg subprocesses via their contexts.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/timeline"
	"github.com/terryhq/terry/internal/media"
)

// ProgressFunc receives render progress updates. Implementations must be
// fast; it is called on the encode path.
type ProgressFunc func(progress model.RenderProgress)

// RenderCommand renders the manifest to the output video. Input:
// *model.EditManifest. Output: the output video path (string).
type RenderCommand struct {
	cor.BaseCommand
	compositor *timeline.Compositor
	ffmpegPath string
	workers    int
	timeout    time.Duration
	progress   ProgressFunc
}

// renderJob carries one frame through the pool.
type renderJob struct {
	index   int
	frame   []byte
	scratch []byte
	cues    []effects.AudioCue
}

// NewRenderCommand is the constructor.
//
// Inputs:
//   - name: The command name.
//   - compositor: The stateless frame compositor.
//   - ffmpegPath: The ffmpeg executable for decode and encode.
//   - workers: Rasterizer goroutines; <= 0 means NumCPU.
//   - timeout: Wall-clock bound for the whole render; 0 disables it.
//   - progress: Optional progress callback.
func NewRenderCommand(name string, compositor *timeline.Compositor, ffmpegPath string, workers int, timeout time.Duration, progress ProgressFunc) *RenderCommand {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &RenderCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		compositor:  compositor,
		ffmpegPath:  ffmpegPath,
		workers:     workers,
		timeout:     timeout,
		progress:    progress,
	}
}

// Execute renders every frame of the manifest.
func (c *RenderCommand) Execute(context cor.Context) {
	manifest := context.Get(c.GetInputParam()).(*model.EditManifest)
	outputPath, _ := context.Get(CtxOutputPath).(string)
	if outputPath == "" {
		outputPath = manifest.ID + ".mp4"
	}

	// decode from the staged working copy; the manifest records the path the
	// user submitted, which may have moved since the job started
	source := manifest.SourceMedia
	if info, ok := context.Get(CtxMediaInfo).(*model.MediaInfo); ok && info.Path != "" {
		source = info.Path
	}

	cues, err := c.render(context.GetContext(), manifest, source, outputPath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if len(cues) > 0 {
		if err := writeCueSidecar(outputPath, cues); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), err)
			return
		}
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), outputPath)
}

func (c *RenderCommand) render(parent context.Context, manifest *model.EditManifest, source, outputPath string) ([]effects.AudioCue, error) {
	ctx := parent
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, c.timeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	width, height, fps := manifest.Width, manifest.Height, manifest.FPS
	total := manifest.TotalFrames()
	frameSize := media.FrameSize(width, height)

	reader, err := media.NewFrameReader(ctx, c.ffmpegPath, source, width, height, fps)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	writer, err := media.NewFrameWriter(ctx, c.ffmpegPath, source, outputPath, width, height, fps)
	if err != nil {
		return nil, err
	}

	jobs := make(chan *renderJob, c.workers)
	done := make(chan *renderJob, c.workers)
	errCh := make(chan error, c.workers+2)

	// buffer recycling: each in-flight job owns a frame+scratch pair
	pool := make(chan *renderJob, c.workers*2)
	for i := 0; i < c.workers*2; i++ {
		pool <- &renderJob{frame: make([]byte, frameSize), scratch: make([]byte, frameSize)}
	}

	var wg sync.WaitGroup
	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				out := c.compositor.RenderFrame(manifest, job.index)
				media.Rasterize(job.frame, job.scratch, width, height, out.Ops)
				job.cues = out.AudioCues
				done <- job
			}
		}()
	}

	// reader goroutine: feed decoded frames to the pool in order
	go func() {
		defer close(jobs)
		last := make([]byte, frameSize)
		for i := 0; i < total; i++ {
			var job *renderJob
			select {
			case job = <-pool:
			case <-ctx.Done():
				return
			}
			job.index = i
			job.cues = nil
			if err := nextFrame(reader, job.frame, last); err != nil {
				errCh <- fmt.Errorf("decode failed at frame %d: %w", i, err)
				cancel()
				return
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	// mux: reorder completed frames and stream them to the encoder
	var allCues []effects.AudioCue
	pending := make(map[int]*renderJob)
	next := 0
	for job := range done {
		pending[job.index] = job
		for {
			j, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := writer.Write(j.frame); err != nil {
				errCh <- fmt.Errorf("encode failed at frame %d: %w", next, err)
				cancel()
				break
			}
			allCues = append(allCues, j.cues...)
			next++
			c.reportProgress(next, total)
			select {
			case pool <- j:
			default:
			}
		}
	}

	if err := writer.Close(); err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("encoder did not finish cleanly: %w", err)
	}
	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled or timed out: %w", err)
	}
	if next < total {
		return nil, fmt.Errorf("render stopped early at frame %d of %d", next, total)
	}

	sort.Slice(allCues, func(i, j int) bool { return allCues[i].At < allCues[j].At })
	return allCues, nil
}

// frameSource is the slice of the decoder the fill loop needs.
type frameSource interface {
	Next(buf []byte) error
}

// nextFrame reads the next decoded frame into buf and mirrors it into last.
// On clean EOF it copies last into buf instead: a source that runs short of
// its probed duration pads the tail with a freeze of the final decoded frame,
// not with whatever stale data the recycled buffer still held.
func nextFrame(r frameSource, buf, last []byte) error {
	err := r.Next(buf)
	if err == nil {
		copy(last, buf)
		return nil
	}
	if err == io.EOF {
		copy(buf, last)
		return nil
	}
	return err
}

func (c *RenderCommand) reportProgress(written, total int) {
	if c.progress == nil {
		return
	}
	// every half second of output is plenty of granularity
	if written%15 != 0 && written != total {
		return
	}
	c.progress(model.RenderProgress{
		Percent:     float64(written) / float64(total) * 100,
		FrameIndex:  written,
		TotalFrames: total,
		Stage:       "encoding",
	})
}

// writeCueSidecar persists the collected audio cues next to the output video.
func writeCueSidecar(outputPath string, cues []effects.AudioCue) error {
	path := strings.TrimSuffix(outputPath, ".mp4") + ".cues.json"
	data, err := json.MarshalIndent(cues, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
