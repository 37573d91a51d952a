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

// This file defines the proposal parsing step. The model's response is
// untrusted text; anything that fails to decode as the expected JSON shape
// becomes an empty proposal, which downstream means "use the local path".
// Semantic validation of the decoded edits (unknown effects, bad timings)
// belongs to the builder, not here.
package commands

import (
	"encoding/json"
	"log/slog"

	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/model"
)

// ProposalParseCommand decodes the model response. Input: the raw response
// text (string). Output: *model.RawEditList, empty when the response was
// empty or malformed.
type ProposalParseCommand struct {
	cor.BaseCommand
}

// NewProposalParseCommand is the constructor.
func NewProposalParseCommand(name string) *ProposalParseCommand {
	return &ProposalParseCommand{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable accepts an empty input string, which the default check would
// treat as missing.
func (c *ProposalParseCommand) IsExecutable(context cor.Context) bool {
	_, ok := context.Get(c.GetInputParam()).(string)
	return ok && context.GetContext() != nil
}

// Execute decodes the proposal JSON.
func (c *ProposalParseCommand) Execute(context cor.Context) {
	raw := context.Get(c.GetInputParam()).(string)

	proposal := &model.RawEditList{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), proposal); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			slog.WarnContext(context.GetContext(), "unparsable edit proposal, falling back to local edit selection",
				"error", err, "response_bytes", len(raw))
			proposal = &model.RawEditList{}
		} else {
			c.GetSuccessCounter().Add(context.GetContext(), 1)
		}
	}
	context.Add(c.GetOutputParam(), proposal)
}
