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

// Package modes defines the editing style presets. A mode is pure policy: it
// biases which effects the builder picks and how dense the edit timeline is,
// but contains no logic of its own. The builder and the proposal prompt are
// the only consumers.
package modes

import (
	"fmt"
	"sort"

	"github.com/terryhq/terry/internal/core/effects"
)

// Pacing is the coarse rhythm class of a mode.
type Pacing string

const (
	PacingSlow    Pacing = "slow"
	PacingMedium  Pacing = "medium"
	PacingFast    Pacing = "fast"
	PacingChaotic Pacing = "chaotic"
)

// Policy is one editing style preset.
type Policy struct {
	ID          string `json:"id" toml:"id"`
	DisplayName string `json:"display_name" toml:"display_name"`
	Description string `json:"description" toml:"description"`

	// EditsPerMinute drives the builder's target edit count:
	// ceil(duration/60 * EditsPerMinute).
	EditsPerMinute int `json:"edits_per_minute" toml:"edits_per_minute"`

	// PreferredEffects are weighted up during selection; AvoidEffects are
	// never chosen by the local builder and stripped from proposals.
	PreferredEffects []string `json:"preferred_effects" toml:"preferred_effects"`
	AvoidEffects     []string `json:"avoid_effects" toml:"avoid_effects"`

	// ColorGrade is the base grade applied across the whole timeline.
	ColorGrade string `json:"color_grade" toml:"color_grade"`

	Pacing Pacing `json:"pacing" toml:"pacing"`

	// BrollFrequency and TextOverlayFrequency are 0..1 biases for how often
	// the builder reaches for those categories.
	BrollFrequency       float64 `json:"broll_frequency" toml:"broll_frequency"`
	TextOverlayFrequency float64 `json:"text_overlay_frequency" toml:"text_overlay_frequency"`
}

// Avoids reports whether the policy excludes the effect.
func (p *Policy) Avoids(effectID string) bool {
	for _, id := range p.AvoidEffects {
		if id == effectID {
			return true
		}
	}
	return false
}

// Prefers reports whether the effect is in the policy's preferred list.
func (p *Policy) Prefers(effectID string) bool {
	for _, id := range p.PreferredEffects {
		if id == effectID {
			return true
		}
	}
	return false
}

// Table is the set of available modes.
type Table struct {
	policies map[string]*Policy
}

// NewTable builds a table from the given policies, rejecting duplicates.
func NewTable(policies []*Policy) (*Table, error) {
	t := &Table{policies: make(map[string]*Policy, len(policies))}
	for _, p := range policies {
		if p.ID == "" {
			return nil, fmt.Errorf("mode policy has empty id")
		}
		if _, ok := t.policies[p.ID]; ok {
			return nil, fmt.Errorf("duplicate mode id %q", p.ID)
		}
		t.policies[p.ID] = p
	}
	return t, nil
}

// Get looks up a policy by mode ID.
func (t *Table) Get(id string) (*Policy, bool) {
	p, ok := t.policies[id]
	return p, ok
}

// IDs returns all mode IDs in sorted order.
func (t *Table) IDs() []string {
	out := make([]string, 0, len(t.policies))
	for id := range t.policies {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// All returns every policy, ordered by ID.
func (t *Table) All() []*Policy {
	out := make([]*Policy, 0, len(t.policies))
	for _, id := range t.IDs() {
		out = append(out, t.policies[id])
	}
	return out
}

// Validate cross-checks every policy against the effect catalog. Called once
// at startup; any preferred, avoided, or grade effect that does not exist in
// the catalog is a hard error, so a typo in a mode definition surfaces
// immediately instead of silently skewing selection at build time.
func (t *Table) Validate(catalog *effects.Catalog) error {
	for _, id := range t.IDs() {
		p := t.policies[id]
		if p.EditsPerMinute <= 0 {
			return fmt.Errorf("mode %q: edits_per_minute must be positive, got %d", id, p.EditsPerMinute)
		}
		switch p.Pacing {
		case PacingSlow, PacingMedium, PacingFast, PacingChaotic:
		default:
			return fmt.Errorf("mode %q: unknown pacing %q", id, p.Pacing)
		}
		for _, e := range p.PreferredEffects {
			if !catalog.Has(e) {
				return fmt.Errorf("mode %q: preferred effect %q not in catalog", id, e)
			}
		}
		for _, e := range p.AvoidEffects {
			if !catalog.Has(e) {
				return fmt.Errorf("mode %q: avoided effect %q not in catalog", id, e)
			}
		}
		if p.ColorGrade != "" && !catalog.Has(p.ColorGrade) {
			return fmt.Errorf("mode %q: color grade %q not in catalog", id, p.ColorGrade)
		}
	}
	return nil
}
