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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadLayersRuntimeOverBase writes a base file and a runtime override and
// verifies the override wins field by field while base values survive.
func TestLoadLayersRuntimeOverBase(t *testing.T) {
	dir := t.TempDir()
	base := `
[application]
name = "terry"
port = 9000
output_dir = "base-output"

[render]
fps = 24
`
	override := `
[application]
output_dir = "test-output"

[agent_models.proposal]
model = "gemini-1.5-flash"
rate_limit = 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(override), 0o644))
	t.Setenv(EnvConfigFilePrefix, dir)
	t.Setenv(EnvConfigRuntime, "test")

	cfg := NewConfig()
	Load(cfg)

	assert.Equal(t, "terry", cfg.Application.Name)
	assert.Equal(t, 9000, cfg.Application.Port)
	assert.Equal(t, "test-output", cfg.Application.OutputDir)
	assert.Equal(t, 24, cfg.Render.FPS)
	assert.Equal(t, "gemini-1.5-flash", cfg.AgentModels["proposal"].Model)
	assert.Equal(t, 2, cfg.AgentModels["proposal"].RateLimit)
}

// TestLoadDefaults verifies a missing config directory still yields a usable
// configuration.
func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigFilePrefix, filepath.Join(t.TempDir(), "nowhere"))
	t.Setenv(EnvConfigRuntime, "test")

	cfg := NewConfig()
	Load(cfg)

	assert.Equal(t, "terry", cfg.Application.Name)
	assert.Equal(t, 8080, cfg.Application.Port)
	assert.Equal(t, 10.0, cfg.Application.SceneWindow)
	assert.Equal(t, "ffmpeg", cfg.Media.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.Media.FFprobePath)
	assert.Equal(t, "whisper", cfg.Media.WhisperPath)
	assert.Equal(t, 300, cfg.Media.TranscribeTimeoutInSeconds)
	assert.Equal(t, 1800, cfg.Media.RenderTimeoutInSeconds)
	assert.Equal(t, 30, cfg.Render.FPS)
	assert.Equal(t, 1920, cfg.Render.Width)
	assert.Equal(t, 1080, cfg.Render.Height)
}
