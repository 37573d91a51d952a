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

// This file decorates the generative model with rate limiting and retries.
// Hosted model APIs enforce per-minute quotas, and transient failures are
// routine; the decorator keeps both concerns out of the pipeline commands.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
)

// QuotaAwareGenerativeAIModel wraps a genai.GenerativeModel with a token
// bucket limiter and bounded retries with backoff. Safe for concurrent use;
// the limiter serializes callers across jobs.
type QuotaAwareGenerativeAIModel struct {
	Model      *genai.GenerativeModel
	Limiter    *rate.Limiter
	MaxRetries int
}

// NewQuotaAwareModel creates the decorator.
//
// Inputs:
//   - model: The configured model to wrap.
//   - requestsPerSecond: The sustained request rate to allow.
//   - maxRetries: How many times a failed call is retried before giving up.
func NewQuotaAwareModel(model *genai.GenerativeModel, requestsPerSecond, maxRetries int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		Model:      model,
		Limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		MaxRetries: maxRetries,
	}
}

// GenerateContent calls the wrapped model under the rate limit, retrying
// failures with linear backoff.
//
// Logic Flow:
//  1. Block on the limiter until a request slot is available or the context
//     is cancelled.
//  2. Call the model. On success, return.
//  3. On failure, wait attempt*2 seconds and try again, up to MaxRetries.
//     Cancellation during the wait aborts immediately, so a cancelled job
//     never sits in a backoff sleep.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= q.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("retrying generative request", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}
		if err := q.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := q.Model.GenerateContent(ctx, parts...)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("generation failed after %d retries: %w", q.MaxRetries, lastErr)
}

// GenerateText is the convenience used by the proposal command: run the
// prompt, record token usage, concatenate all text parts of all candidates,
// and strip markdown JSON fences the model sometimes adds despite the JSON
// response MIME type.
func (q *QuotaAwareGenerativeAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := q.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if resp.UsageMetadata != nil {
		slog.Debug("generative token usage",
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"candidate_tokens", resp.UsageMetadata.CandidatesTokenCount)
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return StripJSONFences(sb.String()), nil
}

// StripJSONFences removes a surrounding ```json ... ``` markdown fence.
func StripJSONFences(in string) string {
	out := strings.TrimSpace(in)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
