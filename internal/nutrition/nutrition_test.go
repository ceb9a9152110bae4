package nutrition

import (
	"math"
	"testing"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

const epsilon = 1e-9

// stubCatalog is a minimal domain.Catalog for composite tests.
type stubCatalog struct {
	raw      map[string]domain.NutritionalElement
	recipes  map[string]domain.NutritionalElement
	products map[string]domain.NutritionalElement
}

func newStubCatalog() *stubCatalog {
	c := &stubCatalog{
		raw:      make(map[string]domain.NutritionalElement),
		recipes:  make(map[string]domain.NutritionalElement),
		products: make(map[string]domain.NutritionalElement),
	}
	c.raw["flour"] = domain.NewRawMaterial("flour", domain.Nutrients{Calories: 364, Proteins: 10, Carbs: 76, Fat: 1})
	c.raw["sugar"] = domain.NewRawMaterial("sugar", domain.Nutrients{Calories: 400, Proteins: 0, Carbs: 100, Fat: 0})
	c.raw["butter"] = domain.NewRawMaterial("butter", domain.Nutrients{Calories: 717, Proteins: 0.9, Carbs: 0.1, Fat: 81})
	c.products["cola"] = domain.NewProduct("cola", domain.Nutrients{Calories: 139, Proteins: 0, Carbs: 35, Fat: 0})
	c.products["cracker"] = domain.NewProduct("cracker", domain.Nutrients{Calories: 120, Proteins: 3, Carbs: 20, Fat: 4})
	return c
}

func (c *stubCatalog) lookup(m map[string]domain.NutritionalElement, kind domain.ElementKind, name string) (domain.NutritionalElement, error) {
	el, ok := m[name]
	if !ok {
		return nil, &domain.UnknownElementError{Kind: kind, Name: name}
	}
	return el, nil
}

func (c *stubCatalog) RawMaterial(name string) (domain.NutritionalElement, error) {
	return c.lookup(c.raw, domain.KindRawMaterial, name)
}

func (c *stubCatalog) Recipe(name string) (domain.NutritionalElement, error) {
	return c.lookup(c.recipes, domain.KindRecipe, name)
}

func (c *stubCatalog) Product(name string) (domain.NutritionalElement, error) {
	return c.lookup(c.products, domain.KindProduct, name)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func assertNutrients(t *testing.T, got, want domain.Nutrients) {
	t.Helper()
	if !almostEqual(got.Calories, want.Calories) ||
		!almostEqual(got.Proteins, want.Proteins) ||
		!almostEqual(got.Carbs, want.Carbs) ||
		!almostEqual(got.Fat, want.Fat) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

// mustAdd fails the test when an add operation returns an error.
func mustAdd[T any](t *testing.T) func(T, error) T {
	return func(v T, err error) T {
		t.Helper()
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		return v
	}
}

func newDough(t *testing.T, cat *stubCatalog) *Recipe {
	t.Helper()
	r := NewRecipe("dough", cat)
	mustAdd[*Recipe](t)(r.AddIngredient("flour", 200))
	cat.recipes["dough"] = r
	return r
}
