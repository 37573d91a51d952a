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

package services

import (
	"fmt"
	"log/slog"

	"github.com/terryhq/terry/internal/config"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/modes"
)

// ApplyModeOverrides folds config-level mode adjustments into the built-in
// mode table, then re-validates the table against the catalog so a bad
// override (unknown effect, zero pace) fails startup instead of a job.
// Overrides for unknown modes are logged and skipped; zero-valued fields
// leave the built-in value untouched.
func ApplyModeOverrides(table *modes.Table, catalog *effects.Catalog, overrides map[string]config.ModeOverride) error {
	for id, override := range overrides {
		policy, ok := table.Get(id)
		if !ok {
			slog.Warn("mode override for unknown mode, skipping", "mode", id)
			continue
		}
		if override.EditsPerMinute > 0 {
			policy.EditsPerMinute = override.EditsPerMinute
		}
		if len(override.PreferredEffects) > 0 {
			policy.PreferredEffects = override.PreferredEffects
		}
		if len(override.AvoidEffects) > 0 {
			policy.AvoidEffects = override.AvoidEffects
		}
		if override.ColorGrade != "" {
			policy.ColorGrade = override.ColorGrade
		}
	}
	if err := table.Validate(catalog); err != nil {
		return fmt.Errorf("mode overrides produced an invalid table: %w", err)
	}
	return nil
}
