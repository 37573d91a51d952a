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

// This file runs the whisper CLI to transcribe staged media. Whisper is asked
// for JSON output with word timestamps; when only an SRT file shows up (older
// builds), the SRT is parsed instead, losing word timings but keeping the
// segments the builder needs.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/terryhq/terry/internal/core/model"
)

// Transcriber shells out to whisper.
type Transcriber struct {
	WhisperPath string
	Model       string // e.g. "small"; empty uses whisper's default
	Timeout     time.Duration
	TempDir     string
}

// whisperJSON mirrors whisper's --output_format json document.
type whisperJSON struct {
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		Words []struct {
			Word  string  `json:"word"`
			Start float64 `json:"start"`
			End   float64 `json:"end"`
		} `json:"words"`
	} `json:"segments"`
}

// Transcribe runs whisper on the media file and parses the result.
//
// Logic Flow:
//  1. Run whisper with a deadline, writing output into a scratch directory.
//  2. Prefer the JSON output file; fall back to SRT when JSON is missing.
//  3. Normalize into a TranscriptResult with the overall duration taken
//     from the last segment.
//
// Inputs:
//   - ctx: Cancellation; the subprocess is killed when it fires.
//   - path: The staged media file.
//
// Outputs:
//   - *model.TranscriptResult: The parsed transcript. Empty speech yields a
//     result with zero segments, not an error.
//   - error: Non-nil on subprocess failure, timeout, or unparsable output.
func (t *Transcriber) Transcribe(ctx context.Context, path string) (*model.TranscriptResult, error) {
	outDir, err := os.MkdirTemp(t.TempDir, "terry-whisper-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	args := []string{
		path,
		"--output_dir", outDir,
		"--output_format", "json",
		"--word_timestamps", "True",
	}
	if t.Model != "" {
		args = append(args, "--model", t.Model)
	}
	cmd := exec.CommandContext(ctx, t.WhisperPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("transcription timed out or was cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("whisper failed: %w: %s", err, truncate(string(out), 512))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	jsonPath := filepath.Join(outDir, base+".json")
	if data, err := os.ReadFile(jsonPath); err == nil {
		return parseWhisperJSON(data)
	}
	srtPath := filepath.Join(outDir, base+".srt")
	if data, err := os.ReadFile(srtPath); err == nil {
		return ParseSRT(string(data))
	}
	return nil, fmt.Errorf("whisper produced no readable output in %s", outDir)
}

func parseWhisperJSON(data []byte) (*model.TranscriptResult, error) {
	var doc whisperJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unparsable whisper json: %w", err)
	}
	result := &model.TranscriptResult{Language: doc.Language}
	for _, seg := range doc.Segments {
		s := model.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		}
		for _, w := range seg.Words {
			s.Words = append(s.Words, model.Word{
				Word:  strings.TrimSpace(w.Word),
				Start: w.Start,
				End:   w.End,
			})
		}
		result.Segments = append(result.Segments, s)
		if seg.End > result.Duration {
			result.Duration = seg.End
		}
	}
	return result, nil
}

// srtTimeRe matches "00:01:02,345 --> 00:01:04,000" cue timing lines.
var srtTimeRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRT converts SRT subtitle text into a transcript. Word timings are not
// available in SRT, so segments come back without them.
func ParseSRT(srt string) (*model.TranscriptResult, error) {
	result := &model.TranscriptResult{}
	blocks := strings.Split(strings.ReplaceAll(srt, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		// first line is the cue index, second the timing
		m := srtTimeRe.FindStringSubmatch(lines[1])
		if m == nil {
			// some files omit the index line
			m = srtTimeRe.FindStringSubmatch(lines[0])
			if m == nil {
				continue
			}
			lines = append([]string{""}, lines...)
		}
		seg := model.TranscriptSegment{
			Start: srtSeconds(m[1], m[2], m[3], m[4]),
			End:   srtSeconds(m[5], m[6], m[7], m[8]),
			Text:  strings.TrimSpace(strings.Join(lines[2:], " ")),
		}
		if seg.Text == "" {
			continue
		}
		result.Segments = append(result.Segments, seg)
		if seg.End > result.Duration {
			result.Duration = seg.End
		}
	}
	return result, nil
}

func srtSeconds(h, m, s, ms string) float64 {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	mss, _ := strconv.Atoi(ms)
	return float64(hh)*3600 + float64(mm)*60 + float64(ss) + float64(mss)/1000
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
