package catalog

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/logger"
)

const sampleYAML = `
raw_materials:
  - {name: flour, calories: 364, proteins: 10, carbs: 76, fat: 1}
  - {name: sugar, calories: 400, carbs: 100}
products:
  - {name: cola, calories: 139, carbs: 35}
recipes:
  - name: dough
    ingredients:
      - {material: flour, grams: 200}
  - name: sweet dough
    ingredients:
      - {material: flour, grams: 150}
      - {material: sugar, grams: 50}
      - {material: flour, grams: 50}
menus:
  - name: lunch
    recipes:
      - {recipe: dough, grams: 150}
  - name: party
    products:
      - {product: cola}
      - {product: cola, units: 2}
`

func TestLoadYAML(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	c := New(log)
	if err := c.LoadYAML(strings.NewReader(sampleYAML)); err != nil {
		t.Fatalf("load: %v", err)
	}

	dough, err := c.GetRecipe("dough")
	if err != nil {
		t.Fatalf("get dough: %v", err)
	}
	cal, err := dough.Calories()
	if err != nil || math.Abs(cal-364) > 1e-9 {
		t.Fatalf("expected 364, got %v (err=%v)", cal, err)
	}

	sweet, err := c.GetRecipe("sweet dough")
	if err != nil {
		t.Fatalf("get sweet dough: %v", err)
	}
	if lines := sweet.Ingredients(); len(lines) != 2 || lines[0].Quantity != 200 {
		t.Fatalf("expected flour accumulated to 200g, got %+v", lines)
	}

	lunch, err := c.GetMenu("lunch")
	if err != nil {
		t.Fatalf("get lunch: %v", err)
	}
	cal, err = lunch.Calories()
	if err != nil || math.Abs(cal-546) > 1e-9 {
		t.Fatalf("expected 546, got %v (err=%v)", cal, err)
	}

	party, err := c.GetMenu("party")
	if err != nil {
		t.Fatalf("get party: %v", err)
	}
	if lines := party.ProductLines(); len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("expected 3 cola units, got %+v", lines)
	}
}

func TestLoadYAMLPaddedNames(t *testing.T) {
	const doc = `
raw_materials:
  - {name: "flour ", calories: 364, proteins: 10, carbs: 76, fat: 1}
recipes:
  - name: dough
    ingredients:
      - {material: "flour ", grams: 150}
      - {material: " flour", grams: 50}
menus:
  - name: lunch
    recipes:
      - {recipe: " dough ", grams: 100}
`
	c := New(logger.New(logger.LevelOff, nil))
	if err := c.LoadYAML(strings.NewReader(doc)); err != nil {
		t.Fatalf("load: %v", err)
	}

	r, err := c.GetRecipe(" dough")
	if err != nil {
		t.Fatalf("get recipe: %v", err)
	}
	lines := r.Ingredients()
	if len(lines) != 1 || lines[0].Element.Name() != "flour" || lines[0].Quantity != 200 {
		t.Fatalf("expected one 200 g flour line, got %+v", lines)
	}
	for _, name := range []string{"flour ", "\tflour", "lunch "} {
		if _, err := c.Lookup(name); err != nil {
			t.Errorf("lookup %q: %v", name, err)
		}
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"unknown ingredient", "recipes:\n  - name: r\n    ingredients:\n      - {material: ghost, grams: 1}\n", domain.ErrUnknownElement},
		{"unknown recipe in menu", "menus:\n  - name: m\n    recipes:\n      - {recipe: ghost, grams: 1}\n", domain.ErrUnknownElement},
		{"negative grams", "raw_materials:\n  - {name: a}\nrecipes:\n  - name: r\n    ingredients:\n      - {material: a, grams: -1}\n", domain.ErrInvalidQuantity},
		{"negative units", "products:\n  - {name: p}\nmenus:\n  - name: m\n    products:\n      - {product: p, units: -2}\n", domain.ErrInvalidQuantity},
		{"duplicate", "raw_materials:\n  - {name: a}\n  - {name: a}\n", domain.ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(logger.New(logger.LevelOff, nil))
			err := c.LoadYAML(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unknown field", func(t *testing.T) {
		c := New(logger.New(logger.LevelOff, nil))
		if err := c.LoadYAML(strings.NewReader("raw_materials:\n  - {name: a, sodium: 3}\n")); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("empty document", func(t *testing.T) {
		c := New(logger.New(logger.LevelOff, nil))
		if err := c.LoadYAML(strings.NewReader("")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Size() != 0 {
			t.Fatalf("expected empty catalog, got %d elements", c.Size())
		}
	})
}

func TestWriteYAMLReloads(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := New(log)
	if err := src.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var buf bytes.Buffer
	if err := src.WriteYAML(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	dst := New(log)
	if err := dst.LoadFile(path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if dst.Size() != src.Size() {
		t.Fatalf("expected %d elements, got %d", src.Size(), dst.Size())
	}

	for _, m := range src.Menus() {
		want, err := m.Nutrients()
		if err != nil {
			t.Fatalf("source menu %s: %v", m.Name(), err)
		}
		reloaded, err := dst.GetMenu(m.Name())
		if err != nil {
			t.Fatalf("reloaded menu %s: %v", m.Name(), err)
		}
		got, err := reloaded.Nutrients()
		if err != nil {
			t.Fatalf("reloaded menu %s: %v", m.Name(), err)
		}
		if math.Abs(got.Calories-want.Calories) > 1e-9 || math.Abs(got.Fat-want.Fat) > 1e-9 {
			t.Fatalf("menu %s: expected %+v, got %+v", m.Name(), want, got)
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	c := New(logger.New(logger.LevelOff, nil))
	err := c.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
