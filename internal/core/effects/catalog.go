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

package effects

import (
	"fmt"
	"sort"
)

// Catalog is the immutable registry of effect definitions. Build it once at
// startup, validate it, then share the pointer freely; no method mutates state
// after Validate.
type Catalog struct {
	defs map[string]*Definition
	ids  []string
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register adds a definition to the catalog.
//
// Inputs:
//   - def: the definition to add. Its ID must be unique.
//
// Outputs:
//   - error: non-nil when the ID is empty, already registered, or the
//     category is unknown.
func (c *Catalog) Register(def *Definition) error {
	if def.ID == "" {
		return fmt.Errorf("effect definition has empty id")
	}
	if _, ok := c.defs[def.ID]; ok {
		return fmt.Errorf("duplicate effect id %q", def.ID)
	}
	valid := false
	for _, cat := range Categories {
		if def.Category == cat {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("effect %q has unknown category %q", def.ID, def.Category)
	}
	if def.render == nil {
		return fmt.Errorf("effect %q has no render strategy", def.ID)
	}
	c.defs[def.ID] = def
	c.ids = append(c.ids, def.ID)
	return nil
}

// Get looks up a definition by ID.
func (c *Catalog) Get(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Has reports whether the ID names a registered effect.
func (c *Catalog) Has(id string) bool {
	_, ok := c.defs[id]
	return ok
}

// IDs returns every registered effect ID in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	sort.Strings(out)
	return out
}

// Len returns the number of registered effects.
func (c *Catalog) Len() int { return len(c.defs) }

// ByCategory returns the definitions in a category, sorted by ID.
func (c *Catalog) ByCategory(cat Category) []*Definition {
	out := make([]*Definition, 0)
	for _, id := range c.IDs() {
		if d := c.defs[id]; d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Validate checks cross-entry consistency: every ConflictsWith target must
// name a registered effect, and timing bounds must be sane. Called once at
// startup; a failure here is a programming or config error, so callers should
// treat it as fatal.
func (c *Catalog) Validate() error {
	for _, id := range c.IDs() {
		d := c.defs[id]
		for _, target := range d.ConflictsWith {
			if target == d.ID {
				return fmt.Errorf("effect %q conflicts with itself", d.ID)
			}
			if !c.Has(target) {
				return fmt.Errorf("effect %q declares conflict with unknown effect %q", d.ID, target)
			}
		}
		t := d.Timing
		if t.Min <= 0 || t.Max < t.Min || t.Default < t.Min || t.Default > t.Max {
			return fmt.Errorf("effect %q has invalid timing bounds (min=%.2f default=%.2f max=%.2f)",
				d.ID, t.Min, t.Default, t.Max)
		}
	}
	return nil
}

// markExclusiveGroup cross-links every listed effect as mutually exclusive
// with all the others. Used by the library for the one-color-grade-at-a-time
// and one-transition-at-a-time rules.
func (c *Catalog) markExclusiveGroup(ids []string) {
	for _, id := range ids {
		d, ok := c.defs[id]
		if !ok {
			continue
		}
		for _, other := range ids {
			if other != id && !d.ConflictsWithID(other) {
				d.ConflictsWith = append(d.ConflictsWith, other)
			}
		}
	}
}
