package nutrition

import (
	"fmt"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

// Compile-time interface check.
var _ domain.NutritionalElement = (*Menu)(nil)

// MenuOption configures a menu.
type MenuOption func(*Menu)

// WithProductUnitsExact makes product lines contribute value*units.
// Without it a product's value is scaled by units/100, the same way a
// per-100g serving is, which keeps totals compatible with existing menus.
func WithProductUnitsExact() MenuOption {
	return func(m *Menu) {
		m.exactUnits = true
	}
}

// Menu combines recipe servings (grams) and product units. Its values are
// absolute totals for the whole menu.
type Menu struct {
	name       string
	catalog    domain.Catalog
	recipes    lineSet
	products   lineSet
	exactUnits bool
}

// NewMenu creates an empty menu resolving recipes and products through catalog.
func NewMenu(name string, catalog domain.Catalog, opts ...MenuOption) *Menu {
	m := &Menu{
		name:     name,
		catalog:  catalog,
		recipes:  newLineSet(),
		products: newLineSet(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddRecipe adds a serving of grams of the named recipe. Servings of the
// same recipe accumulate. On error the menu is unchanged.
func (m *Menu) AddRecipe(recipe string, grams float64) (*Menu, error) {
	if err := validateGrams(grams); err != nil {
		return m, fmt.Errorf("menu %q, recipe %q: %w", m.name, recipe, err)
	}
	el, err := m.catalog.Recipe(recipe)
	if err != nil {
		return m, fmt.Errorf("menu %q: %w", m.name, err)
	}
	if !el.Per100g() {
		return m, fmt.Errorf("menu %q: %w: recipe %q is not expressed per 100g", m.name, domain.ErrKindMismatch, recipe)
	}
	m.recipes.add(el, grams)
	return m, nil
}

// AddProduct adds one unit of the named product.
func (m *Menu) AddProduct(product string) (*Menu, error) {
	return m.AddProducts(product, 1)
}

// AddProducts adds units of the named product; units must be at least one.
func (m *Menu) AddProducts(product string, units int) (*Menu, error) {
	if units < 1 {
		return m, fmt.Errorf("menu %q, product %q: %w: %d units", m.name, product, domain.ErrInvalidQuantity, units)
	}
	el, err := m.catalog.Product(product)
	if err != nil {
		return m, fmt.Errorf("menu %q: %w", m.name, err)
	}
	if el.Per100g() {
		return m, fmt.Errorf("menu %q: %w: product %q is expressed per 100g", m.name, domain.ErrKindMismatch, product)
	}
	m.products.add(el, float64(units))
	return m, nil
}

func (m *Menu) Name() string             { return m.name }
func (m *Menu) Per100g() bool            { return false }
func (m *Menu) Kind() domain.ElementKind { return domain.KindMenu }

// RecipeLines returns the recipe servings in the order first added.
func (m *Menu) RecipeLines() []Line { return m.recipes.snapshot() }

// ProductLines returns the product lines in the order first added.
// Quantity holds the unit count.
func (m *Menu) ProductLines() []Line { return m.products.snapshot() }

// Nutrients computes the absolute totals of the menu:
//
//	Σ recipe.value/100*grams + Σ product.value/100*units
//
// With WithProductUnitsExact the product term is product.value*units.
// Errors from constituent recipes are propagated.
func (m *Menu) Nutrients() (domain.Nutrients, error) {
	var total domain.Nutrients

	err := m.recipes.each(func(l *Line) error {
		v, err := l.Element.Nutrients()
		if err != nil {
			return err
		}
		total = total.Add(weighted(v, l.Quantity))
		return nil
	})
	if err != nil {
		return domain.Nutrients{}, fmt.Errorf("menu %q: %w", m.name, err)
	}

	err = m.products.each(func(l *Line) error {
		v, err := l.Element.Nutrients()
		if err != nil {
			return err
		}
		if m.exactUnits {
			total = total.Add(v.Scale(l.Quantity))
		} else {
			total = total.Add(weighted(v, l.Quantity))
		}
		return nil
	})
	if err != nil {
		return domain.Nutrients{}, fmt.Errorf("menu %q: %w", m.name, err)
	}

	return total, nil
}

// Calories in the whole menu.
func (m *Menu) Calories() (float64, error) {
	n, err := m.Nutrients()
	return n.Calories, err
}

// Proteins in the whole menu.
func (m *Menu) Proteins() (float64, error) {
	n, err := m.Nutrients()
	return n.Proteins, err
}

// Carbs in the whole menu.
func (m *Menu) Carbs() (float64, error) {
	n, err := m.Nutrients()
	return n.Carbs, err
}

// Fat in the whole menu.
func (m *Menu) Fat() (float64, error) {
	n, err := m.Nutrients()
	return n.Fat, err
}
