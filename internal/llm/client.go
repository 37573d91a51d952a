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

// Package llm wraps the Generative AI client used for edit proposals. It
// configures models from the application config, decorates them with rate
// limiting and retries, and normalizes responses into plain JSON text for
// the parser downstream.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/terryhq/terry/internal/config"
)

// DefaultSafetySettings disables content blocking for every harm category.
// The model only ever sees transcripts of the user's own footage, so blocked
// responses would just be silent proposal failures.
var DefaultSafetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
}

// NewClient creates the underlying Generative AI client. The API key comes
// from the environment variable named in the model config (default
// GEMINI_API_KEY).
//
// Inputs:
//   - ctx: The context for client construction.
//   - cfg: The model configuration entry from the application config.
//
// Outputs:
//   - *genai.Client: The configured client. Callers own Close.
//   - error: Non-nil when the key is missing or the client cannot be built.
func NewClient(ctx context.Context, cfg *config.GenAiModel) (*genai.Client, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "GEMINI_API_KEY"
	}
	key := os.Getenv(keyEnv)
	if key == "" {
		return nil, fmt.Errorf("generative model api key not set: %s", keyEnv)
	}
	return genai.NewClient(ctx, option.WithAPIKey(key))
}

// NewModel configures a generative model from config: sampling parameters,
// JSON output mode, system instructions, and permissive safety settings. The
// result is wrapped in the quota-aware decorator.
func NewModel(client *genai.Client, cfg *config.GenAiModel) *QuotaAwareGenerativeAIModel {
	m := client.GenerativeModel(cfg.Model)
	m.SetTemperature(cfg.Temperature)
	m.SetTopP(cfg.TopP)
	if cfg.TopK > 0 {
		m.SetTopK(cfg.TopK)
	}
	if cfg.MaxTokens > 0 {
		m.SetMaxOutputTokens(cfg.MaxTokens)
	}
	if cfg.OutputFormat != "" {
		m.ResponseMIMEType = cfg.OutputFormat
	}
	if cfg.SystemInstructions != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(cfg.SystemInstructions)}}
	}
	m.SafetySettings = DefaultSafetySettings

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 1
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return NewQuotaAwareModel(m, rateLimit, maxRetries)
}

// ProposalModel builds the proposal model from the application config. It
// never fails: disabled, missing, or unreachable model configurations all
// log and return nil, which selects the local deterministic edit path.
func ProposalModel(ctx context.Context, cfg *config.Config) *QuotaAwareGenerativeAIModel {
	if cfg.Application.DisableGenAI {
		slog.Info("generative proposals disabled by config")
		return nil
	}
	modelCfg, ok := proposalModelConfig(cfg)
	if !ok {
		slog.Warn("no generative model configured, using local edit selection")
		return nil
	}
	client, err := NewClient(ctx, &modelCfg)
	if err != nil {
		slog.Warn("generative model unavailable, using local edit selection", "error", err)
		return nil
	}
	return NewModel(client, &modelCfg)
}

// proposalModelConfig selects the model entry named "proposal" when present,
// otherwise the first entry by name.
func proposalModelConfig(cfg *config.Config) (config.GenAiModel, bool) {
	if m, ok := cfg.AgentModels["proposal"]; ok {
		return m, true
	}
	keys := make([]string, 0, len(cfg.AgentModels))
	for k := range cfg.AgentModels {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return config.GenAiModel{}, false
	}
	sort.Strings(keys)
	return cfg.AgentModels[keys[0]], true
}
