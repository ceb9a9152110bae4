package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

// catalogFile is the YAML layout of a catalog:
//
//	raw_materials:
//	  - {name: flour, calories: 364, proteins: 10, carbs: 76, fat: 1}
//	products:
//	  - {name: cola can, calories: 139, carbs: 35}
//	recipes:
//	  - name: dough
//	    ingredients:
//	      - {material: flour, grams: 200}
//	menus:
//	  - name: lunch
//	    recipes:
//	      - {recipe: dough, grams: 150}
//	    products:
//	      - {product: cola can, units: 2}
type catalogFile struct {
	RawMaterials []elementEntry `yaml:"raw_materials,omitempty"`
	Products     []elementEntry `yaml:"products,omitempty"`
	Recipes      []recipeEntry  `yaml:"recipes,omitempty"`
	Menus        []menuEntry    `yaml:"menus,omitempty"`
}

type elementEntry struct {
	Name     string  `yaml:"name"`
	Calories float64 `yaml:"calories"`
	Proteins float64 `yaml:"proteins"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
}

func (e elementEntry) nutrients() domain.Nutrients {
	return domain.Nutrients{Calories: e.Calories, Proteins: e.Proteins, Carbs: e.Carbs, Fat: e.Fat}
}

type recipeEntry struct {
	Name        string            `yaml:"name"`
	Ingredients []ingredientEntry `yaml:"ingredients"`
}

type ingredientEntry struct {
	Material string  `yaml:"material"`
	Grams    float64 `yaml:"grams"`
}

type menuEntry struct {
	Name     string         `yaml:"name"`
	Recipes  []servingEntry `yaml:"recipes,omitempty"`
	Products []unitEntry    `yaml:"products,omitempty"`
}

type servingEntry struct {
	Recipe string  `yaml:"recipe"`
	Grams  float64 `yaml:"grams"`
}

type unitEntry struct {
	Product string `yaml:"product"`
	// Units defaults to one when omitted.
	Units int `yaml:"units,omitempty"`
}

// LoadFile reads a YAML catalog file into c.
func (c *MemoryCatalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	if err := c.LoadYAML(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	c.log.Info("loaded catalog %s (%d elements)", path, c.Size())
	return nil
}

// LoadYAML decodes a YAML catalog from r and defines its elements in c.
// Leaves are defined first, then recipes in file order, then menus, so a
// menu may reference any recipe in the same document.
func (c *MemoryCatalog) LoadYAML(r io.Reader) error {
	var doc catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml catalog parsing error: %w", err)
	}
	return c.apply(&doc)
}

func (c *MemoryCatalog) apply(doc *catalogFile) error {
	for _, e := range doc.RawMaterials {
		if _, err := c.DefineRawMaterial(e.Name, e.nutrients()); err != nil {
			return err
		}
	}
	for _, e := range doc.Products {
		if _, err := c.DefineProduct(e.Name, e.nutrients()); err != nil {
			return err
		}
	}
	for _, e := range doc.Recipes {
		recipe, err := c.CreateRecipe(e.Name)
		if err != nil {
			return err
		}
		for _, in := range e.Ingredients {
			if _, err := recipe.AddIngredient(in.Material, in.Grams); err != nil {
				return err
			}
		}
	}
	for _, e := range doc.Menus {
		menu, err := c.CreateMenu(e.Name)
		if err != nil {
			return err
		}
		for _, l := range e.Recipes {
			if _, err := menu.AddRecipe(l.Recipe, l.Grams); err != nil {
				return err
			}
		}
		for _, l := range e.Products {
			units := l.Units
			if units == 0 {
				units = 1
			}
			if _, err := menu.AddProducts(l.Product, units); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteYAML encodes the whole catalog to w in the layout LoadYAML reads.
func (c *MemoryCatalog) WriteYAML(w io.Writer) error {
	var doc catalogFile

	for _, m := range c.RawMaterials() {
		doc.RawMaterials = append(doc.RawMaterials, entryFor(m.Name(), m))
	}
	for _, p := range c.Products() {
		doc.Products = append(doc.Products, entryFor(p.Name(), p))
	}
	for _, r := range c.Recipes() {
		e := recipeEntry{Name: r.Name()}
		for _, l := range r.Ingredients() {
			e.Ingredients = append(e.Ingredients, ingredientEntry{Material: l.Element.Name(), Grams: l.Quantity})
		}
		doc.Recipes = append(doc.Recipes, e)
	}
	for _, m := range c.Menus() {
		e := menuEntry{Name: m.Name()}
		for _, l := range m.RecipeLines() {
			e.Recipes = append(e.Recipes, servingEntry{Recipe: l.Element.Name(), Grams: l.Quantity})
		}
		for _, l := range m.ProductLines() {
			e.Products = append(e.Products, unitEntry{Product: l.Element.Name(), Units: int(l.Quantity)})
		}
		doc.Menus = append(doc.Menus, e)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

// leaf is satisfied by RawMaterial and Product, whose values never fail.
type leaf interface {
	Nutrients() (domain.Nutrients, error)
}

func entryFor(name string, l leaf) elementEntry {
	n, _ := l.Nutrients()
	return elementEntry{Name: name, Calories: n.Calories, Proteins: n.Proteins, Carbs: n.Carbs, Fat: n.Fat}
}
