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

package main

import (
	"context"
	"log"
	"os"

	"github.com/terryhq/terry/internal/config"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/modes"
	"github.com/terryhq/terry/internal/core/services"
	"github.com/terryhq/terry/internal/llm"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config     *config.Config
	catalog    *effects.Catalog
	modeTable  *modes.Table
	jobService *services.JobService
}

var state = &StateManager{}

// SetupOS points the config loader at the local configs directory when the
// environment has not already chosen one.
func SetupOS() (err error) {
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(config.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		err = os.Setenv(config.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		cfg := config.NewConfig()
		config.Load(cfg)
		state.config = cfg
	}
	return state.config
}

// InitState builds the catalog, mode table, generative model, and job
// service. Validation failures are fatal; a broken catalog or mode table
// must never reach a job.
func InitState(ctx context.Context) {
	cfg := GetConfig()

	catalog := effects.BuiltIn()
	modeTable := modes.BuiltIn()
	if err := services.ApplyModeOverrides(modeTable, catalog, cfg.ModeOverrides); err != nil {
		log.Fatalf("invalid mode configuration: %v\n", err)
	}

	state.catalog = catalog
	state.modeTable = modeTable
	state.jobService = services.NewJobService(cfg, catalog, modeTable, llm.ProposalModel(ctx, cfg))

	if cfg.Application.OutputDir != "" {
		if err := os.MkdirAll(cfg.Application.OutputDir, 0o755); err != nil {
			log.Fatalf("failed to create output directory: %v\n", err)
		}
	}
}
