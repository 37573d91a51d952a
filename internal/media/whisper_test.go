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

package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSRT covers the well-formed case: indexed cues, comma millis,
// multi-line cue text joined with spaces.
func TestParseSRT(t *testing.T) {
	srt := `1
00:00:01,500 --> 00:00:04,200
welcome back everyone

2
00:01:02,000 --> 00:01:04,750
this line
wraps across two rows
`
	result, err := ParseSRT(srt)
	require.NoError(t, err)
	require.Equal(t, 2, len(result.Segments))

	assert.Equal(t, 1.5, result.Segments[0].Start)
	assert.Equal(t, 4.2, result.Segments[0].End)
	assert.Equal(t, "welcome back everyone", result.Segments[0].Text)
	assert.Empty(t, result.Segments[0].Words)

	assert.Equal(t, 62.0, result.Segments[1].Start)
	assert.Equal(t, 64.75, result.Segments[1].End)
	assert.Equal(t, "this line wraps across two rows", result.Segments[1].Text)

	assert.Equal(t, 64.75, result.Duration)
}

// TestParseSRTVariants covers the file shapes whisper builds actually emit:
// CRLF line endings, dot millisecond separators, and cues missing the index
// line.
func TestParseSRTVariants(t *testing.T) {
	crlf := "1\r\n00:00:00,000 --> 00:00:02,000\r\nhello\r\n\r\n2\r\n00:00:02,000 --> 00:00:03,000\r\nworld\r\n"
	result, err := ParseSRT(crlf)
	require.NoError(t, err)
	require.Equal(t, 2, len(result.Segments))
	assert.Equal(t, "hello", result.Segments[0].Text)

	dots := "1\n00:00:00.000 --> 00:00:02.500\ndotted millis\n"
	result, err = ParseSRT(dots)
	require.NoError(t, err)
	require.Equal(t, 1, len(result.Segments))
	assert.Equal(t, 2.5, result.Segments[0].End)

	noIndex := "00:00:05,000 --> 00:00:06,000\nno index line\n"
	result, err = ParseSRT(noIndex)
	require.NoError(t, err)
	require.Equal(t, 1, len(result.Segments))
	assert.Equal(t, 5.0, result.Segments[0].Start)
	assert.Equal(t, "no index line", result.Segments[0].Text)
}

// TestParseSRTSkipsJunk verifies blocks without a timing line or without text
// are dropped rather than failing the whole transcript.
func TestParseSRTSkipsJunk(t *testing.T) {
	srt := `WEBVTT header garbage

1
00:00:01,000 --> 00:00:02,000

2
00:00:03,000 --> 00:00:04,000
kept
`
	result, err := ParseSRT(srt)
	require.NoError(t, err)
	require.Equal(t, 1, len(result.Segments))
	assert.Equal(t, "kept", result.Segments[0].Text)
}

// TestParseSRTEmpty verifies empty input yields an empty transcript, matching
// the silent-video contract.
func TestParseSRTEmpty(t *testing.T) {
	result, err := ParseSRT("")
	require.NoError(t, err)
	assert.Empty(t, result.Segments)
	assert.Equal(t, 0.0, result.Duration)
}

// TestParseWhisperJSON verifies the preferred JSON path keeps word timings.
func TestParseWhisperJSON(t *testing.T) {
	doc := `{
		"language": "en",
		"segments": [
			{"start": 0.0, "end": 2.4, "text": " hello there ",
			 "words": [{"word": " hello", "start": 0.0, "end": 0.5}]},
			{"start": 2.4, "end": 5.1, "text": "general kenobi"}
		]
	}`
	result, err := parseWhisperJSON([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "en", result.Language)
	require.Equal(t, 2, len(result.Segments))
	assert.Equal(t, "hello there", result.Segments[0].Text)
	require.Equal(t, 1, len(result.Segments[0].Words))
	assert.Equal(t, "hello", result.Segments[0].Words[0].Word)
	assert.Equal(t, 5.1, result.Duration)

	_, err = parseWhisperJSON([]byte("not json"))
	assert.Error(t, err)
}
