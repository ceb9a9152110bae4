package nutrition

import (
	"fmt"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

// Compile-time interface check.
var _ domain.NutritionalElement = (*Recipe)(nil)

// Recipe is a set of raw materials with quantities in grams. Its values are
// expressed per 100g of the finished recipe.
type Recipe struct {
	name        string
	catalog     domain.Catalog
	ingredients lineSet
}

// NewRecipe creates an empty recipe resolving ingredients through catalog.
func NewRecipe(name string, catalog domain.Catalog) *Recipe {
	return &Recipe{
		name:        name,
		catalog:     catalog,
		ingredients: newLineSet(),
	}
}

// AddIngredient adds grams of the named raw material. Adding the same
// material again accumulates the quantity. On error the recipe is unchanged.
// The recipe is returned to allow chaining.
func (r *Recipe) AddIngredient(material string, grams float64) (*Recipe, error) {
	if err := validateGrams(grams); err != nil {
		return r, fmt.Errorf("recipe %q, ingredient %q: %w", r.name, material, err)
	}
	el, err := r.catalog.RawMaterial(material)
	if err != nil {
		return r, fmt.Errorf("recipe %q: %w", r.name, err)
	}
	if !el.Per100g() {
		return r, fmt.Errorf("recipe %q: %w: %q is not expressed per 100g", r.name, domain.ErrKindMismatch, material)
	}
	r.ingredients.add(el, grams)
	return r, nil
}

func (r *Recipe) Name() string             { return r.name }
func (r *Recipe) Per100g() bool            { return true }
func (r *Recipe) Kind() domain.ElementKind { return domain.KindRecipe }

// Ingredients returns the ingredient lines in the order they were first added.
func (r *Recipe) Ingredients() []Line { return r.ingredients.snapshot() }

// TotalGrams returns the summed mass of all ingredients.
func (r *Recipe) TotalGrams() float64 {
	var total float64
	_ = r.ingredients.each(func(l *Line) error {
		total += l.Quantity
		return nil
	})
	return total
}

// Nutrients computes the weighted per-100g values:
//
//	Σ(value/100*grams) / Σ grams * 100
//
// A recipe without ingredients, or whose ingredients weigh nothing, has no
// defined values and yields ErrEmptyRecipe.
func (r *Recipe) Nutrients() (domain.Nutrients, error) {
	if r.ingredients.len() == 0 {
		return domain.Nutrients{}, fmt.Errorf("recipe %q: %w", r.name, domain.ErrEmptyRecipe)
	}

	var total domain.Nutrients
	var grams float64
	err := r.ingredients.each(func(l *Line) error {
		v, err := l.Element.Nutrients()
		if err != nil {
			return err
		}
		total = total.Add(weighted(v, l.Quantity))
		grams += l.Quantity
		return nil
	})
	if err != nil {
		return domain.Nutrients{}, fmt.Errorf("recipe %q: %w", r.name, err)
	}
	if grams == 0 {
		return domain.Nutrients{}, fmt.Errorf("recipe %q: %w: total weight is zero", r.name, domain.ErrEmptyRecipe)
	}

	return domain.Nutrients{
		Calories: total.Calories / grams * 100,
		Proteins: total.Proteins / grams * 100,
		Carbs:    total.Carbs / grams * 100,
		Fat:      total.Fat / grams * 100,
	}, nil
}

// Calories per 100g.
func (r *Recipe) Calories() (float64, error) {
	n, err := r.Nutrients()
	return n.Calories, err
}

// Proteins per 100g.
func (r *Recipe) Proteins() (float64, error) {
	n, err := r.Nutrients()
	return n.Proteins, err
}

// Carbs per 100g.
func (r *Recipe) Carbs() (float64, error) {
	n, err := r.Nutrients()
	return n.Carbs, err
}

// Fat per 100g.
func (r *Recipe) Fat() (float64, error) {
	n, err := r.Nutrients()
	return n.Fat, err
}
