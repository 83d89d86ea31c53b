package loader

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if len(defs.Species) == 0 {
		ve.Errors = append(ve.Errors, "at least one Species is required")
	}

	counts := []struct {
		name string
		n    int
	}{
		{"recipes", defs.RecipeCount},
		{"shop", defs.ShopSize},
		{"materials", defs.MaterialCount},
	}
	for _, c := range counts {
		if c.n < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Game.%s must be at least 1, got %d", c.name, c.n))
		}
	}
	// Starter gems, crafted recipes and the revive potion reference mat-11.
	if defs.MaterialCount > 0 && defs.MaterialCount < 11 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Game.materials must be at least 11, got %d", defs.MaterialCount))
	}

	for name, st := range defs.Classes {
		if !slices.Contains(types.ClassNames, name) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown class %q", name))
		}
		if st.Vitality <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q vitality must be positive", name))
		}
	}
	for _, name := range types.ClassNames {
		if _, ok := defs.Classes[name]; !ok {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("class %q has no template; it contributes zero stats", name))
		}
	}

	if len(defs.Party) > types.PartySize {
		ve.Errors = append(ve.Errors, fmt.Sprintf("Party lists %d heroes, the roster holds %d", len(defs.Party), types.PartySize))
	}
	if len(defs.Party) < types.PartySize {
		fill := state.PartyTemplate(defs, types.PartySize-1)
		for _, c := range []types.ClassName{fill.Primary, fill.Secondary} {
			if _, ok := defs.Classes[c]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf("unlisted party slots use class %q, which is undefined", c))
			}
		}
	}
	for i, h := range defs.Party {
		if strings.TrimSpace(h.Name) == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("party entry %d has no name", i+1))
		}
		for _, c := range []types.ClassName{h.Primary, h.Secondary} {
			if _, ok := defs.Classes[c]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf("party entry %d uses undefined class %q", i+1, c))
			}
		}
	}

	for id, p := range defs.Perks {
		if p.Name == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("perk %q has no name", id))
		}
		if p.DropBoost < 0 || p.DropBoost > 0.3 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("perk %q drop_boost %g outside [0, 0.3]", id, p.DropBoost))
		}
	}

	if len(defs.LoreThemes) == 0 || len(defs.LoreAdjectives) == 0 {
		ve.Warnings = append(ve.Warnings, "Lore has no themes or adjectives; floors will be silent")
	}

	for _, w := range ve.Warnings {
		log.Printf("warning: %s", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
