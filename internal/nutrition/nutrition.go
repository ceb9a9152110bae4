// Package nutrition implements the composite nutritional elements: recipes,
// which report values normalized to 100g, and menus, which report absolute
// totals for the whole meal.
//
// Composites are built with the Add methods and then queried. They do no
// internal locking; callers must not mutate and query concurrently.
package nutrition

import (
	"fmt"
	"math"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

// Line is one constituent of a composite together with its accumulated
// quantity: grams for ingredients and recipe servings, units for products.
type Line struct {
	Element  domain.NutritionalElement
	Quantity float64
}

// lineSet keeps lines keyed by element name and remembers insertion order so
// sums and reports are deterministic.
type lineSet struct {
	byName map[string]*Line
	order  []string
}

func newLineSet() lineSet {
	return lineSet{byName: make(map[string]*Line)}
}

// add accumulates qty for el, creating the line at zero when absent.
func (s *lineSet) add(el domain.NutritionalElement, qty float64) {
	l, ok := s.byName[el.Name()]
	if !ok {
		l = &Line{Element: el}
		s.byName[el.Name()] = l
		s.order = append(s.order, el.Name())
	}
	l.Quantity += qty
}

func (s *lineSet) len() int { return len(s.order) }

// snapshot returns copies of the lines in insertion order.
func (s *lineSet) snapshot() []Line {
	out := make([]Line, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.byName[name])
	}
	return out
}

// each calls fn for every line in insertion order, stopping at the first error.
func (s *lineSet) each(fn func(l *Line) error) error {
	for _, name := range s.order {
		if err := fn(s.byName[name]); err != nil {
			return err
		}
	}
	return nil
}

// weighted scales per-100g values to qty grams: value/100*qty.
func weighted(n domain.Nutrients, qty float64) domain.Nutrients {
	return domain.Nutrients{
		Calories: n.Calories / 100 * qty,
		Proteins: n.Proteins / 100 * qty,
		Carbs:    n.Carbs / 100 * qty,
		Fat:      n.Fat / 100 * qty,
	}
}

func validateGrams(qty float64) error {
	if qty < 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return fmt.Errorf("%w: %v grams", domain.ErrInvalidQuantity, qty)
	}
	return nil
}
