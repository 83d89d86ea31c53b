// Package resolve maps short player references to entity IDs.
//
// A reference may be a 1-based list index ("3" or "#3"), a full ID, an ID
// prefix, or a name. Names match case-insensitively, either in full or by a
// single word of the name.
package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/towercore/types"
)

// Sentinel errors; the typed errors below match them with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("ambiguous reference")
)

// Candidate is one entity a reference can resolve to.
type Candidate struct {
	ID   string
	Name string
}

// AmbiguityError indicates multiple entities matched a reference.
type AmbiguityError struct {
	Kind       string
	Ref        string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("which %s %q? (%s)", e.Kind, e.Ref, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguityError) Is(target error) bool { return target == ErrAmbiguous }

// NotFoundError indicates no entity matched a reference.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matches %q", e.Kind, e.Ref)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Ref resolves ref against an ordered candidate list.
func Ref(kind string, cands []Candidate, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &NotFoundError{Kind: kind, Ref: ref}
	}

	// 1. List index.
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		if n >= 1 && n <= len(cands) {
			return cands[n-1].ID, nil
		}
		if strings.HasPrefix(ref, "#") {
			return "", &NotFoundError{Kind: kind, Ref: ref}
		}
	}

	// 2. Exact ID.
	for _, c := range cands {
		if c.ID == ref {
			return c.ID, nil
		}
	}

	lower := strings.ToLower(ref)

	// 3. Exact name.
	if m := filter(cands, func(c Candidate) bool { return strings.ToLower(c.Name) == lower }); len(m) > 0 {
		return pick(kind, ref, m)
	}

	// 4. ID prefix.
	if m := filter(cands, func(c Candidate) bool { return strings.HasPrefix(strings.ToLower(c.ID), lower) }); len(m) > 0 {
		return pick(kind, ref, m)
	}

	// 5. One word of the name: "sword" matches "Rare Sword".
	m := filter(cands, func(c Candidate) bool {
		for _, w := range strings.Fields(strings.ToLower(c.Name)) {
			if w == lower {
				return true
			}
		}
		return false
	})
	return pick(kind, ref, m)
}

func filter(cands []Candidate, keep func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func pick(kind, ref string, matches []Candidate) (string, error) {
	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, Ref: ref}
	case 1:
		return matches[0].ID, nil
	default:
		names := make([]string, len(matches))
		for i, c := range matches {
			names[i] = c.Name
		}
		return "", &AmbiguityError{Kind: kind, Ref: ref, Candidates: names}
	}
}

// Hero resolves a hero reference against the roster.
func Hero(s *types.State, ref string) (string, error) {
	cands := make([]Candidate, len(s.Heroes))
	for i, h := range s.Heroes {
		cands[i] = Candidate{ID: h.ID, Name: h.Name}
	}
	return Ref("hero", cands, ref)
}

// Gear resolves a gear reference against the gear collection.
func Gear(s *types.State, ref string) (string, error) {
	cands := make([]Candidate, len(s.Inventory.Gear))
	for i, g := range s.Inventory.Gear {
		cands[i] = Candidate{ID: g.ID, Name: g.Name}
	}
	return Ref("gear", cands, ref)
}

// Gem resolves a gem reference against the unsocketed gem collection.
func Gem(s *types.State, ref string) (string, error) {
	cands := make([]Candidate, len(s.Inventory.Gems))
	for i, g := range s.Inventory.Gems {
		cands[i] = Candidate{ID: g.ID, Name: g.Name}
	}
	return Ref("gem", cands, ref)
}

// Recipe resolves a recipe reference against the recipe book.
func Recipe(s *types.State, ref string) (string, error) {
	cands := make([]Candidate, len(s.Recipes))
	for i, r := range s.Recipes {
		cands[i] = Candidate{ID: r.ID, Name: r.Name}
	}
	return Ref("recipe", cands, ref)
}

// ShopItem resolves a reference against the current shop roll.
func ShopItem(s *types.State, ref string) (string, error) {
	cands := make([]Candidate, len(s.Shop.Items))
	for i, it := range s.Shop.Items {
		cands[i] = Candidate{ID: it.ID, Name: ShopItemName(it)}
	}
	return Ref("shop item", cands, ref)
}

// ShopItemName is the display name of a shop entry's payload.
func ShopItemName(it types.ShopItem) string {
	switch {
	case it.Gear != nil:
		return it.Gear.Name
	case it.Gem != nil:
		return it.Gem.Name
	case it.Material != nil:
		return fmt.Sprintf("%d x %s", it.Material.Qty, it.Material.Name)
	case it.Kind == types.KindPotion:
		return "Revive Potion"
	}
	return string(it.Kind)
}
