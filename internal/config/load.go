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

// This file implements hierarchical configuration loading: a base file
// (.env.toml) is read first, then an environment-specific override file
// (.env.<runtime>.toml) is decoded over it. The directory and runtime name
// come from environment variables, so tests, local runs, and packaged builds
// each point at their own overrides without code changes.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"
	ConfigFileExtension = ".toml"
	ConfigSeparator     = "."
	// EnvConfigFilePrefix names the env var holding the config directory.
	EnvConfigFilePrefix = "TERRY_CONFIG_PREFIX"
	// EnvConfigRuntime names the env var selecting the runtime context
	// (e.g. "local", "test"). Defaults to "local".
	EnvConfigRuntime = "TERRY_RUNTIME"
)

// fileExists checks if a file exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// Load populates cfg from the base TOML file and the runtime override file.
// Missing files are skipped silently (defaults apply); a file that exists but
// fails to decode is fatal, because running with half a config is worse than
// not starting.
//
// Inputs:
//   - cfg: A pointer to the target configuration struct.
func Load(cfg *Config) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix = prefix + string(os.PathSeparator)
	}

	runtime := os.Getenv(EnvConfigRuntime)
	if runtime == "" {
		runtime = "local"
	}

	baseFile := prefix + ConfigFileBaseName + ConfigFileExtension
	envFile := prefix + ConfigFileBaseName + ConfigSeparator + runtime + ConfigFileExtension
	slog.Info("loading configuration", "base", baseFile, "override", envFile)

	if fileExists(baseFile) {
		if _, err := toml.DecodeFile(baseFile, cfg); err != nil {
			slog.Error("failed to decode base configuration file", "file", baseFile, "error", err)
			os.Exit(1)
		}
	}
	if fileExists(envFile) {
		if _, err := toml.DecodeFile(envFile, cfg); err != nil {
			slog.Error("failed to decode environment configuration file", "file", envFile, "error", err)
			os.Exit(1)
		}
	}

	applyDefaults(cfg)
}

// applyDefaults fills the gaps a sparse config leaves so downstream code
// never has to zero-check tool paths or render dimensions.
func applyDefaults(cfg *Config) {
	if cfg.Application.Name == "" {
		cfg.Application.Name = "terry"
	}
	if cfg.Application.Port == 0 {
		cfg.Application.Port = 8080
	}
	if cfg.Application.SceneWindow == 0 {
		cfg.Application.SceneWindow = 10
	}
	if cfg.Media.FFmpegPath == "" {
		cfg.Media.FFmpegPath = "ffmpeg"
	}
	if cfg.Media.FFprobePath == "" {
		cfg.Media.FFprobePath = "ffprobe"
	}
	if cfg.Media.WhisperPath == "" {
		cfg.Media.WhisperPath = "whisper"
	}
	if cfg.Media.TranscribeTimeoutInSeconds == 0 {
		cfg.Media.TranscribeTimeoutInSeconds = 300
	}
	if cfg.Media.RenderTimeoutInSeconds == 0 {
		cfg.Media.RenderTimeoutInSeconds = 1800
	}
	if cfg.Render.FPS == 0 {
		cfg.Render.FPS = 30
	}
	if cfg.Render.Width == 0 {
		cfg.Render.Width = 1920
	}
	if cfg.Render.Height == 0 {
		cfg.Render.Height = 1080
	}
}
