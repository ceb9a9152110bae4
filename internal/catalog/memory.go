// Package catalog provides the registry that owns every named nutritional
// element, together with loaders that fill it from YAML files or PostgreSQL.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/logger"
	"github.com/hammamikhairi/nutricalc/internal/nutrition"
)

// Compile-time interface check.
var _ domain.Catalog = (*MemoryCatalog)(nil)

// Option configures the catalog.
type Option func(*MemoryCatalog)

// WithMenuOptions sets the options applied to every menu the catalog creates.
func WithMenuOptions(opts ...nutrition.MenuOption) Option {
	return func(c *MemoryCatalog) {
		c.menuOpts = append(c.menuOpts, opts...)
	}
}

// MemoryCatalog holds raw materials, products, recipes and menus in memory.
// Names are unique within each kind. Lookups are safe for concurrent use;
// composites returned by the catalog follow their own build-then-query rules.
type MemoryCatalog struct {
	mu        sync.RWMutex
	materials map[string]*domain.RawMaterial
	products  map[string]*domain.Product
	recipes   map[string]*nutrition.Recipe
	menus     map[string]*nutrition.Menu
	menuOpts  []nutrition.MenuOption
	log       *logger.Logger
}

// New creates an empty catalog.
func New(log *logger.Logger, opts ...Option) *MemoryCatalog {
	c := &MemoryCatalog{
		materials: make(map[string]*domain.RawMaterial),
		products:  make(map[string]*domain.Product),
		recipes:   make(map[string]*nutrition.Recipe),
		menus:     make(map[string]*nutrition.Menu),
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefineRawMaterial registers a raw material with values per 100g.
func (c *MemoryCatalog) DefineRawMaterial(name string, values domain.Nutrients) (*domain.RawMaterial, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := validateNutrients(name, values); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.materials[name]; ok {
		return nil, fmt.Errorf("raw material %q: %w", name, domain.ErrAlreadyExists)
	}
	m := domain.NewRawMaterial(name, values)
	c.materials[name] = m
	c.log.Debug("defined raw material %s (%.1f kcal/100g)", name, values.Calories)
	return m, nil
}

// DefineProduct registers a packaged product with values per unit.
func (c *MemoryCatalog) DefineProduct(name string, values domain.Nutrients) (*domain.Product, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if err := validateNutrients(name, values); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[name]; ok {
		return nil, fmt.Errorf("product %q: %w", name, domain.ErrAlreadyExists)
	}
	p := domain.NewProduct(name, values)
	c.products[name] = p
	c.log.Debug("defined product %s (%.1f kcal/unit)", name, values.Calories)
	return p, nil
}

// CreateRecipe registers an empty recipe whose ingredients resolve through
// this catalog.
func (c *MemoryCatalog) CreateRecipe(name string) (*nutrition.Recipe, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.recipes[name]; ok {
		return nil, fmt.Errorf("recipe %q: %w", name, domain.ErrAlreadyExists)
	}
	r := nutrition.NewRecipe(name, c)
	c.recipes[name] = r
	c.log.Debug("created recipe %s", name)
	return r, nil
}

// CreateMenu registers an empty menu whose recipes and products resolve
// through this catalog. Catalog-wide menu options are applied before opts.
func (c *MemoryCatalog) CreateMenu(name string, opts ...nutrition.MenuOption) (*nutrition.Menu, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.menus[name]; ok {
		return nil, fmt.Errorf("menu %q: %w", name, domain.ErrAlreadyExists)
	}
	all := append(append([]nutrition.MenuOption{}, c.menuOpts...), opts...)
	m := nutrition.NewMenu(name, c, all...)
	c.menus[name] = m
	c.log.Debug("created menu %s", name)
	return m, nil
}

// Lookups trim surrounding whitespace from name, matching how names are
// stored on definition.

// RawMaterial returns the raw material with the given name.
func (c *MemoryCatalog) RawMaterial(name string) (domain.NutritionalElement, error) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.materials[name]
	if !ok {
		c.log.Debug("raw material not found: %s", name)
		return nil, &domain.UnknownElementError{Kind: domain.KindRawMaterial, Name: name}
	}
	return m, nil
}

// Product returns the product with the given name.
func (c *MemoryCatalog) Product(name string) (domain.NutritionalElement, error) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[name]
	if !ok {
		c.log.Debug("product not found: %s", name)
		return nil, &domain.UnknownElementError{Kind: domain.KindProduct, Name: name}
	}
	return p, nil
}

// Recipe returns the recipe with the given name.
func (c *MemoryCatalog) Recipe(name string) (domain.NutritionalElement, error) {
	r, err := c.GetRecipe(name)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecipe returns the concrete recipe so callers can keep adding to it.
func (c *MemoryCatalog) GetRecipe(name string) (*nutrition.Recipe, error) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.recipes[name]
	if !ok {
		c.log.Debug("recipe not found: %s", name)
		return nil, &domain.UnknownElementError{Kind: domain.KindRecipe, Name: name}
	}
	return r, nil
}

// GetMenu returns the menu with the given name.
func (c *MemoryCatalog) GetMenu(name string) (*nutrition.Menu, error) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.menus[name]
	if !ok {
		c.log.Debug("menu not found: %s", name)
		return nil, &domain.UnknownElementError{Kind: domain.KindMenu, Name: name}
	}
	return m, nil
}

// Lookup resolves a name of any kind, trying raw materials, products,
// recipes and menus in that order.
func (c *MemoryCatalog) Lookup(name string) (domain.NutritionalElement, error) {
	name = strings.TrimSpace(name)
	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.materials[name]; ok {
		return m, nil
	}
	if p, ok := c.products[name]; ok {
		return p, nil
	}
	if r, ok := c.recipes[name]; ok {
		return r, nil
	}
	if m, ok := c.menus[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w %q", domain.ErrUnknownElement, name)
}

// RawMaterials returns all raw materials sorted by name.
func (c *MemoryCatalog) RawMaterials() []*domain.RawMaterial {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedValues(c.materials)
}

// Products returns all products sorted by name.
func (c *MemoryCatalog) Products() []*domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedValues(c.products)
}

// Recipes returns all recipes sorted by name.
func (c *MemoryCatalog) Recipes() []*nutrition.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedValues(c.recipes)
}

// Menus returns all menus sorted by name.
func (c *MemoryCatalog) Menus() []*nutrition.Menu {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedValues(c.menus)
}

// Size returns the number of elements of every kind.
func (c *MemoryCatalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.materials) + len(c.products) + len(c.recipes) + len(c.menus)
}

func sortedValues[T any](m map[string]T) []T {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]T, 0, len(names))
	for _, name := range names {
		out = append(out, m[name])
	}
	return out
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", domain.ErrInvalidName)
	}
	return name, nil
}

func validateNutrients(name string, v domain.Nutrients) error {
	for _, f := range []struct {
		label string
		value float64
	}{
		{"calories", v.Calories},
		{"proteins", v.Proteins},
		{"carbs", v.Carbs},
		{"fat", v.Fat},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%q: %w: %s=%v", name, domain.ErrInvalidNutrients, f.label, f.value)
		}
	}
	return nil
}
