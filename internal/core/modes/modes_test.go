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

package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terryhq/terry/internal/core/effects"
)

// TestBuiltInModes verifies the built-in table validates against the built-in
// catalog: every referenced effect exists, every pace is positive.
func TestBuiltInModes(t *testing.T) {
	table := BuiltIn()

	require.NoError(t, table.Validate(effects.BuiltIn()))
	assert.Equal(t, 16, len(table.IDs()))
}

// TestBuiltInDensities spot-checks the pacing spread across the styles: the
// calm documentary styles sit far below the short-form chaos modes.
func TestBuiltInDensities(t *testing.T) {
	table := BuiltIn()
	expected := map[string]int{
		"lemmino":     8,
		"mrbeast":     40,
		"tiktok":      50,
		"documentary": 12,
		"naturedoc":   6,
		"shorts":      45,
		"aesthetic":   5,
		"vlog":        20,
	}
	for id, epm := range expected {
		p, ok := table.Get(id)
		require.True(t, ok, id)
		assert.Equal(t, epm, p.EditsPerMinute, id)
	}
}

// TestPolicyPreferences checks the helper predicates.
func TestPolicyPreferences(t *testing.T) {
	p := Policy{
		PreferredEffects: []string{"zoom_punch", "shake_heavy"},
		AvoidEffects:     []string{"sepia"},
	}

	assert.True(t, p.Prefers("zoom_punch"))
	assert.False(t, p.Prefers("sepia"))
	assert.True(t, p.Avoids("sepia"))
	assert.False(t, p.Avoids("zoom_punch"))
}

// TestNewTableRejectsDuplicates verifies table construction fails on
// duplicate or unnamed policies.
func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable([]*Policy{
		{ID: "x", EditsPerMinute: 10, Pacing: PacingMedium},
		{ID: "x", EditsPerMinute: 20, Pacing: PacingFast},
	})
	assert.Error(t, err)

	_, err = NewTable([]*Policy{{EditsPerMinute: 10, Pacing: PacingMedium}})
	assert.Error(t, err)
}

// TestValidateFailsFast covers the startup checks: unknown effect references
// and non-positive densities must be caught before any job runs.
func TestValidateFailsFast(t *testing.T) {
	catalog := effects.BuiltIn()

	table, err := NewTable([]*Policy{{
		ID: "broken", EditsPerMinute: 10, Pacing: PacingMedium,
		PreferredEffects: []string{"not_an_effect"},
	}})
	require.NoError(t, err)
	assert.Error(t, table.Validate(catalog))

	table, err = NewTable([]*Policy{{
		ID: "sloth", EditsPerMinute: 0, Pacing: PacingSlow,
	}})
	require.NoError(t, err)
	assert.Error(t, table.Validate(catalog))

	table, err = NewTable([]*Policy{{
		ID: "offbeat", EditsPerMinute: 10, Pacing: Pacing("frantic"),
	}})
	require.NoError(t, err)
	assert.Error(t, table.Validate(catalog))
}

// TestAllIsSorted verifies deterministic iteration order for the API.
func TestAllIsSorted(t *testing.T) {
	table := BuiltIn()
	all := table.All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}
