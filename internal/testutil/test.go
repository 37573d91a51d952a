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

// Package test provides utility functions and mock data to support the
// application's test suite: a cached test configuration and sample
// transcripts and proposal payloads for pipeline tests.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/terryhq/terry/internal/config"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs, so the TOML files are read once per suite.
type StateManager struct {
	config *config.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. A convenience to reduce
// boilerplate error-checking code in tests.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestProposalText returns a JSON payload shaped like a well-formed model
// response: two scenes with edits that reference real catalog effects.
func GetTestProposalText() string {
	return `{
  "scenes": [
    {
      "start": 0,
      "end": 10,
      "edits": [
        { "type": "zoom_punch", "at": 2.5, "duration": 0.5 },
        { "type": "text_pop", "at": 4.0, "duration": 2.0, "props": { "text": "WAIT FOR IT" } }
      ]
    },
    {
      "start": 10,
      "end": 20,
      "edits": [
        { "type": "shake_light", "at": 12.0, "duration": 0.6 },
        { "type": "sound_hit", "at": 15.0, "duration": 1.0 }
      ]
    }
  ]
}`
}

// GetTestMalformedProposalText returns a payload that decodes as JSON but not
// as an edit list, plus trailing prose the way misbehaving models produce it.
func GetTestMalformedProposalText() string {
	return `Here is your edit plan! {"scenes": [{"start": "zero"}]} Enjoy!`
}

// SetupOS configures the environment variables the configuration loader
// depends on, pointing it at the test configuration files (e.g.
// configs/.env.test.toml).
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	// The loader looks for ".env.test.toml" overrides under this runtime.
	err = os.Setenv(config.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration. The TOML
// files are loaded on first use and cached for subsequent calls.
//
// Returns:
//   - A pointer to the loaded and cached config.Config struct.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg := config.NewConfig()
		config.Load(cfg)
		state.config = cfg
	}
	return state.config
}
