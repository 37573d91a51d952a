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

// This file defines BaseChain, the default Chain implementation.
//
// Logic Flow:
//  1. Execute opens one OpenTelemetry span covering the whole chain, then a
//     child span per command.
//  2. Before each command the chain checks two stop conditions: a recorded
//     error (unless ContinueOnFailure is set) and cancellation of the Go
//     context. A cancelled job stops between commands; commands themselves
//     are expected to also honor cancellation internally for long work.
//  3. Each executable command runs with its span's Go context installed in
//     the shared cor.Context, then the chain restores its own context so
//     sibling commands trace as siblings, not descendants.
//  4. After each command the chain pipes data forward: whatever the command
//     wrote to CtxOut becomes the next command's CtxIn.
//  5. The chain span closes with Ok or Error according to the final context
//     state.
package cor

import (
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// BaseChain is the default implementation of the Chain interface.
type BaseChain struct {
	BaseCommand
	continueOnFailure bool
	commands          []Command
	commandListener   func(commandName string)
}

// NewBaseChain creates a named, empty chain.
//
// Outputs:
//   - *BaseChain: A pointer to the newly instantiated chain.
func NewBaseChain(name string) *BaseChain {
	return &BaseChain{BaseCommand: *NewBaseCommand(name)}
}

// ContinueOnFailure sets whether the chain keeps running after a command
// records an error. Returns the chain for fluent construction.
func (c *BaseChain) ContinueOnFailure(continueOnFailure bool) Chain {
	c.continueOnFailure = continueOnFailure
	return c
}

// SetCommandListener registers a callback invoked just before each command
// runs. Callers use it to observe pipeline progress without the commands
// knowing about the observer.
func (c *BaseChain) SetCommandListener(listener func(commandName string)) {
	c.commandListener = listener
}

// AddCommand appends a command to the chain's execution sequence. Returns the
// chain for fluent construction.
func (c *BaseChain) AddCommand(command Command) Chain {
	c.commands = append(c.commands, command)
	return c
}

// IsExecutable only requires a valid Go context; the per-command
// preconditions are checked as the chain reaches each command.
func (c *BaseChain) IsExecutable(context Context) bool {
	return context.GetContext() != nil
}

// Execute runs all commands in order. See the file doc for the flow.
//
// Inputs:
//   - chCtx: The shared cor.Context for the workflow execution.
func (c *BaseChain) Execute(chCtx Context) {
	parentCtx := chCtx.GetContext()

	outerCtx, chainSpan := c.Tracer.Start(parentCtx, fmt.Sprintf("%s_execute", c.GetName()))
	defer chainSpan.End()

	for _, command := range c.commands {
		commandContext, commandSpan := c.Tracer.Start(outerCtx, command.GetName())

		if err := outerCtx.Err(); err != nil {
			chCtx.AddError(c.GetName(), err)
			commandSpan.SetStatus(codes.Error, "workflow cancelled; skipping execution")
			commandSpan.End()
			break
		}

		if chCtx.HasErrors() && !c.continueOnFailure {
			commandSpan.SetStatus(codes.Error, "previous error on chain; skipping execution")
			commandSpan.End()
			break
		}

		if command.IsExecutable(chCtx) {
			if c.commandListener != nil {
				c.commandListener(command.GetName())
			}
			chCtx.SetContext(commandContext)
			command.Execute(chCtx)
			// restore so the next command's span is a sibling, not a child
			chCtx.SetContext(outerCtx)
		} else {
			commandSpan.SetStatus(codes.Error, fmt.Sprintf("command not executable: %s", command.GetName()))
		}

		if chCtx.HasErrors() {
			commandSpan.SetStatus(codes.Error, "error during or after command execution")
		} else {
			commandSpan.SetStatus(codes.Ok, "command completed successfully")
		}
		commandSpan.End()

		// pipe: the output of the command that just ran becomes the input
		// of the next one
		outputValue := chCtx.Get(CtxOut)
		chCtx.Remove(CtxIn)
		if outputValue != nil {
			chCtx.Add(CtxIn, outputValue)
		}
		chCtx.Remove(CtxOut)
	}

	if !chCtx.HasErrors() {
		chainSpan.SetStatus(codes.Ok, "chain completed successfully")
	} else {
		chainSpan.SetStatus(codes.Error, "chain failed to execute")
	}
}
