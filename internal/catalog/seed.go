package catalog

import (
	"fmt"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

// Seed populates the catalog with a small built-in set of ingredients,
// products, recipes and menus.
func (c *MemoryCatalog) Seed() error {
	materials := []struct {
		name   string
		values domain.Nutrients
	}{
		{"flour", domain.Nutrients{Calories: 364, Proteins: 10, Carbs: 76, Fat: 1}},
		{"sugar", domain.Nutrients{Calories: 387, Proteins: 0, Carbs: 100, Fat: 0}},
		{"eggs", domain.Nutrients{Calories: 143, Proteins: 12.6, Carbs: 0.7, Fat: 9.5}},
		{"butter", domain.Nutrients{Calories: 717, Proteins: 0.9, Carbs: 0.1, Fat: 81}},
		{"whole milk", domain.Nutrients{Calories: 61, Proteins: 3.2, Carbs: 4.8, Fat: 3.3}},
		{"tomato", domain.Nutrients{Calories: 18, Proteins: 0.9, Carbs: 3.9, Fat: 0.2}},
		{"mozzarella", domain.Nutrients{Calories: 280, Proteins: 28, Carbs: 3.1, Fat: 17}},
		{"olive oil", domain.Nutrients{Calories: 884, Proteins: 0, Carbs: 0, Fat: 100}},
		{"yeast", domain.Nutrients{Calories: 325, Proteins: 40, Carbs: 41, Fat: 7.6}},
		{"salt", domain.Nutrients{}},
	}
	for _, m := range materials {
		if _, err := c.DefineRawMaterial(m.name, m.values); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	products := []struct {
		name   string
		values domain.Nutrients
	}{
		{"cola can", domain.Nutrients{Calories: 139, Proteins: 0, Carbs: 35, Fat: 0}},
		{"crackers pack", domain.Nutrients{Calories: 128, Proteins: 2.6, Carbs: 20.6, Fat: 4.2}},
		{"yogurt cup", domain.Nutrients{Calories: 150, Proteins: 8.5, Carbs: 11.5, Fat: 8}},
	}
	for _, p := range products {
		if _, err := c.DefineProduct(p.name, p.values); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	recipes := []struct {
		name        string
		ingredients []seedLine
	}{
		{"pizza dough", []seedLine{{"flour", 500}, {"yeast", 7}, {"salt", 10}, {"olive oil", 20}}},
		{"pizza margherita", []seedLine{{"flour", 250}, {"tomato", 150}, {"mozzarella", 125}, {"olive oil", 10}}},
		{"pancakes", []seedLine{{"flour", 125}, {"whole milk", 300}, {"eggs", 100}, {"butter", 20}, {"sugar", 25}}},
	}
	for _, r := range recipes {
		recipe, err := c.CreateRecipe(r.name)
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		for _, l := range r.ingredients {
			if _, err := recipe.AddIngredient(l.name, l.qty); err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
		}
	}

	menus := []struct {
		name     string
		recipes  []seedLine
		products []string
	}{
		{"lunch", []seedLine{{"pizza margherita", 300}}, []string{"cola can"}},
		{"breakfast", []seedLine{{"pancakes", 200}}, []string{"yogurt cup"}},
	}
	for _, m := range menus {
		menu, err := c.CreateMenu(m.name)
		if err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
		for _, l := range m.recipes {
			if _, err := menu.AddRecipe(l.name, l.qty); err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
		}
		for _, p := range m.products {
			if _, err := menu.AddProduct(p); err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
		}
	}

	c.log.Debug("seeded %d elements", c.Size())
	return nil
}

type seedLine struct {
	name string
	qty  float64
}
