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

// Package config defines the application configuration, loaded from TOML
// files. It centralizes every tunable of the edit engine: server settings,
// external tool paths, generative model parameters, prompt templates, render
// defaults, and per-mode overrides.
//
// Structs:
//   - GenAiModel: Parameters for a generative model used for edit proposals.
//   - PromptTemplates: Text templates for the prompts sent to the model.
//   - Media: Paths and timeouts for the external media tools.
//   - Render: Output video defaults and worker pool sizing.
//   - ModeOverride: TOML-level adjustments to a built-in editing mode.
//   - Config: The top-level aggregate.
package config

// GenAiModel holds the parameters for one generative model entry. Models are
// keyed by a logical name (e.g. "proposal-flash") so the active model can be
// switched in config without touching code.
type GenAiModel struct {
	Model              string  `toml:"model"`               // The provider model name.
	APIKeyEnv          string  `toml:"api_key_env"`         // The environment variable holding the API key.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               int32   `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"` // Response MIME type, e.g. "application/json".
	RateLimit          int     `toml:"rate_limit"`    // Requests per second.
	MaxRetries         int     `toml:"max_retries"`
}

// PromptTemplates holds the templates for prompts sent to the model. The
// proposal template receives the transcript, mode description, and the
// few-shot example document.
type PromptTemplates struct {
	EditProposal string `toml:"edit_proposal"`
}

// Media configures the external tool adapters.
type Media struct {
	FFmpegPath                  string `toml:"ffmpeg_path"`
	FFprobePath                 string `toml:"ffprobe_path"`
	WhisperPath                 string `toml:"whisper_path"`
	WhisperModel                string `toml:"whisper_model"`
	TranscribeTimeoutInSeconds  int    `toml:"transcribe_timeout_in_seconds"`
	RenderTimeoutInSeconds      int    `toml:"render_timeout_in_seconds"`
	TempDir                     string `toml:"temp_dir"` // Empty means the OS default.
}

// Render holds output defaults. Per-job requests may override the dimensions.
type Render struct {
	FPS     int `toml:"fps"`
	Width   int `toml:"width"`
	Height  int `toml:"height"`
	Workers int `toml:"workers"` // Frame computation goroutines; 0 means NumCPU.
}

// ModeOverride adjusts a built-in editing mode from config. Zero values leave
// the built-in value untouched.
type ModeOverride struct {
	EditsPerMinute   int      `toml:"edits_per_minute"`
	PreferredEffects []string `toml:"preferred_effects"`
	AvoidEffects     []string `toml:"avoid_effects"`
	ColorGrade       string   `toml:"color_grade"`
}

// Config is the root container, populated by Load from the hierarchical
// TOML files.
type Config struct {
	Application struct {
		Name           string `toml:"name"`
		Port           int    `toml:"port"`
		OutputDir      string `toml:"output_dir"`
		SceneWindow    float64 `toml:"scene_window_seconds"`
		DisableGenAI   bool   `toml:"disable_genai"` // Forces the local deterministic builder path.
	} `toml:"application"`
	Media           Media                   `toml:"media"`
	Render          Render                  `toml:"render"`
	PromptTemplates PromptTemplates         `toml:"prompt_templates"`
	AgentModels     map[string]GenAiModel   `toml:"agent_models"`
	ModeOverrides   map[string]ModeOverride `toml:"mode_overrides"`
}

// NewConfig creates a Config with its map fields initialized, so the TOML
// decoder never writes into a nil map.
//
// Outputs:
//   - *Config: A pointer to a new Config struct ready for Load.
func NewConfig() *Config {
	return &Config{
		AgentModels:   make(map[string]GenAiModel),
		ModeOverrides: make(map[string]ModeOverride),
	}
}
