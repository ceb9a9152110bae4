package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hammamikhairi/nutricalc/internal/domain"
)

// Querier is the part of pgxpool.Pool the loader reads through.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Beginner is the part of pgxpool.Pool the writer uses.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LoadPostgres reads the catalog tables and defines their rows in c,
// replaying them through the same operations a YAML file uses.
func (c *MemoryCatalog) LoadPostgres(ctx context.Context, db Querier) error {
	var doc catalogFile

	leaves := []struct {
		table string
		dst   *[]elementEntry
	}{
		{"raw_materials", &doc.RawMaterials},
		{"products", &doc.Products},
	}
	for _, l := range leaves {
		rows, err := db.Query(ctx, `SELECT name, calories, proteins, carbs, fat FROM `+l.table+` ORDER BY name`)
		if err != nil {
			return fmt.Errorf("querying %s: %w", l.table, err)
		}
		for rows.Next() {
			var e elementEntry
			if err := rows.Scan(&e.Name, &e.Calories, &e.Proteins, &e.Carbs, &e.Fat); err != nil {
				rows.Close()
				return fmt.Errorf("scanning %s: %w", l.table, err)
			}
			*l.dst = append(*l.dst, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("reading %s: %w", l.table, err)
		}
	}

	recipes := make(map[string]*recipeEntry)
	names, err := queryNames(ctx, db, `SELECT name FROM recipes ORDER BY name`)
	if err != nil {
		return fmt.Errorf("querying recipes: %w", err)
	}
	for _, name := range names {
		doc.Recipes = append(doc.Recipes, recipeEntry{Name: name})
	}
	for i := range doc.Recipes {
		recipes[doc.Recipes[i].Name] = &doc.Recipes[i]
	}

	rows, err := db.Query(ctx, `SELECT recipe_name, material_name, grams FROM recipe_ingredients ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying recipe_ingredients: %w", err)
	}
	for rows.Next() {
		var recipe string
		var in ingredientEntry
		if err := rows.Scan(&recipe, &in.Material, &in.Grams); err != nil {
			rows.Close()
			return fmt.Errorf("scanning recipe_ingredients: %w", err)
		}
		r, ok := recipes[recipe]
		if !ok {
			rows.Close()
			return &domain.UnknownElementError{Kind: domain.KindRecipe, Name: recipe}
		}
		r.Ingredients = append(r.Ingredients, in)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading recipe_ingredients: %w", err)
	}

	menus := make(map[string]*menuEntry)
	names, err = queryNames(ctx, db, `SELECT name FROM menus ORDER BY name`)
	if err != nil {
		return fmt.Errorf("querying menus: %w", err)
	}
	for _, name := range names {
		doc.Menus = append(doc.Menus, menuEntry{Name: name})
	}
	for i := range doc.Menus {
		menus[doc.Menus[i].Name] = &doc.Menus[i]
	}

	rows, err = db.Query(ctx, `SELECT menu_name, recipe_name, grams FROM menu_recipes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying menu_recipes: %w", err)
	}
	for rows.Next() {
		var menu string
		var s servingEntry
		if err := rows.Scan(&menu, &s.Recipe, &s.Grams); err != nil {
			rows.Close()
			return fmt.Errorf("scanning menu_recipes: %w", err)
		}
		m, ok := menus[menu]
		if !ok {
			rows.Close()
			return &domain.UnknownElementError{Kind: domain.KindMenu, Name: menu}
		}
		m.Recipes = append(m.Recipes, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading menu_recipes: %w", err)
	}

	rows, err = db.Query(ctx, `SELECT menu_name, product_name, units FROM menu_products ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying menu_products: %w", err)
	}
	for rows.Next() {
		var menu string
		var u unitEntry
		if err := rows.Scan(&menu, &u.Product, &u.Units); err != nil {
			rows.Close()
			return fmt.Errorf("scanning menu_products: %w", err)
		}
		m, ok := menus[menu]
		if !ok {
			rows.Close()
			return &domain.UnknownElementError{Kind: domain.KindMenu, Name: menu}
		}
		m.Products = append(m.Products, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading menu_products: %w", err)
	}

	if err := c.apply(&doc); err != nil {
		return err
	}
	c.log.Info("loaded catalog from postgres (%d elements)", c.Size())
	return nil
}

func queryNames(ctx context.Context, db Querier, sql string) ([]string, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SavePostgres writes every element of c to the catalog tables in a single
// transaction. Leaves are upserted; composite lines are replaced.
func (c *MemoryCatalog) SavePostgres(ctx context.Context, db Beginner) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsertLeaf := func(table string, e elementEntry) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO `+table+` (name, calories, proteins, carbs, fat)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO UPDATE
			SET calories = EXCLUDED.calories,
			    proteins = EXCLUDED.proteins,
			    carbs    = EXCLUDED.carbs,
			    fat      = EXCLUDED.fat
		`, e.Name, e.Calories, e.Proteins, e.Carbs, e.Fat)
		if err != nil {
			return fmt.Errorf("saving %s %q: %w", table, e.Name, err)
		}
		return nil
	}

	for _, m := range c.RawMaterials() {
		if err := upsertLeaf("raw_materials", entryFor(m.Name(), m)); err != nil {
			return err
		}
	}
	for _, p := range c.Products() {
		if err := upsertLeaf("products", entryFor(p.Name(), p)); err != nil {
			return err
		}
	}

	for _, r := range c.Recipes() {
		if _, err := tx.Exec(ctx, `INSERT INTO recipes (name) VALUES ($1) ON CONFLICT DO NOTHING`, r.Name()); err != nil {
			return fmt.Errorf("saving recipe %q: %w", r.Name(), err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_name = $1`, r.Name()); err != nil {
			return fmt.Errorf("clearing recipe %q: %w", r.Name(), err)
		}
		for _, l := range r.Ingredients() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO recipe_ingredients (recipe_name, material_name, grams) VALUES ($1, $2, $3)`,
				r.Name(), l.Element.Name(), l.Quantity,
			); err != nil {
				return fmt.Errorf("saving recipe %q: %w", r.Name(), err)
			}
		}
	}

	for _, m := range c.Menus() {
		if _, err := tx.Exec(ctx, `INSERT INTO menus (name) VALUES ($1) ON CONFLICT DO NOTHING`, m.Name()); err != nil {
			return fmt.Errorf("saving menu %q: %w", m.Name(), err)
		}
		for _, table := range []string{"menu_recipes", "menu_products"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE menu_name = $1`, m.Name()); err != nil {
				return fmt.Errorf("clearing menu %q: %w", m.Name(), err)
			}
		}
		for _, l := range m.RecipeLines() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO menu_recipes (menu_name, recipe_name, grams) VALUES ($1, $2, $3)`,
				m.Name(), l.Element.Name(), l.Quantity,
			); err != nil {
				return fmt.Errorf("saving menu %q: %w", m.Name(), err)
			}
		}
		for _, l := range m.ProductLines() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO menu_products (menu_name, product_name, units) VALUES ($1, $2, $3)`,
				m.Name(), l.Element.Name(), int(l.Quantity),
			); err != nil {
				return fmt.Errorf("saving menu %q: %w", m.Name(), err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}
	c.log.Info("saved catalog to postgres (%d elements)", c.Size())
	return nil
}
