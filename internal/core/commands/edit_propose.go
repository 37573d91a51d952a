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

// This file defines the edit-proposal step: asking the generative model for
// a creative edit timeline. This step is best effort by design. A model
// failure degrades the job to the deterministic local builder path instead
// of failing it, so the command logs and emits an empty proposal rather than
// adding an error to the chain.
package commands

import (
	"log/slog"

	"github.com/terryhq/terry/internal/core/cor"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
	"github.com/terryhq/terry/internal/llm"
)

// EditProposeCommand prompts the generative model. Input:
// *model.TranscriptResult. Output: the raw response text (string), possibly
// empty on degradation.
type EditProposeCommand struct {
	cor.BaseCommand
	model    *llm.QuotaAwareGenerativeAIModel
	catalog  *effects.Catalog
	template string
}

// NewEditProposeCommand is the constructor. A nil model disables the
// generative path entirely; the command then always emits an empty proposal.
func NewEditProposeCommand(name string, genModel *llm.QuotaAwareGenerativeAIModel, catalog *effects.Catalog, template string) *EditProposeCommand {
	return &EditProposeCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		model:       genModel,
		catalog:     catalog,
		template:    template,
	}
}

// Execute renders the proposal prompt and calls the model.
func (c *EditProposeCommand) Execute(context cor.Context) {
	transcript := context.Get(c.GetInputParam()).(*model.TranscriptResult)
	policy := context.Get(CtxPolicy).(*modes.Policy)
	info := context.Get(CtxMediaInfo).(*model.MediaInfo)

	if c.model == nil {
		slog.InfoContext(context.GetContext(), "generative proposals disabled, using local edit selection")
		context.Add(c.GetOutputParam(), "")
		return
	}

	prompt := llm.ProposalPrompt(c.template, policy, c.catalog, transcript, info.Duration)
	response, err := c.model.GenerateText(context.GetContext(), prompt)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.WarnContext(context.GetContext(), "edit proposal failed, falling back to local edit selection", "error", err)
		context.Add(c.GetOutputParam(), "")
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), response)
}
