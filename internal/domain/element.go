// Package domain defines the core types and interfaces for the nutrition
// calculator. All other packages depend on domain; domain depends on nothing.
package domain

// NutritionalElement is implemented by every entity that can report
// nutritional values: raw materials, products, recipes and menus.
// Callers that hold only the interface read values through Nutrients; the
// per-nutrient accessors differ between leaves and composites.
type NutritionalElement interface {
	Name() string
	// Nutrients returns calories, proteins, carbs and fat. Leaves never fail;
	// composites fail when their values are undefined (e.g. empty recipe).
	Nutrients() (Nutrients, error)
	// Per100g reports whether the values refer to a conventional 100g
	// quantity (true) or to the whole element (false).
	Per100g() bool
}

// ElementKind tells which catalog collection an element belongs to.
type ElementKind int

const (
	KindRawMaterial ElementKind = iota
	KindProduct
	KindRecipe
	KindMenu
)

// String returns a human-readable element kind.
func (k ElementKind) String() string {
	switch k {
	case KindRawMaterial:
		return "raw material"
	case KindProduct:
		return "product"
	case KindRecipe:
		return "recipe"
	case KindMenu:
		return "menu"
	default:
		return "unknown"
	}
}

// Nutrients holds the four tracked macro values.
type Nutrients struct {
	Calories float64
	Proteins float64
	Carbs    float64
	Fat      float64
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Proteins: n.Proteins + o.Proteins,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// Scale multiplies every field by factor.
func (n Nutrients) Scale(factor float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * factor,
		Proteins: n.Proteins * factor,
		Carbs:    n.Carbs * factor,
		Fat:      n.Fat * factor,
	}
}

// Compile-time interface checks.
var (
	_ NutritionalElement = (*RawMaterial)(nil)
	_ NutritionalElement = (*Product)(nil)
)

// RawMaterial is a base ingredient with values expressed per 100g.
// It is immutable once created.
type RawMaterial struct {
	name   string
	values Nutrients
}

// NewRawMaterial creates a raw material. Values are stored verbatim.
func NewRawMaterial(name string, values Nutrients) *RawMaterial {
	return &RawMaterial{name: name, values: values}
}

func (r *RawMaterial) Name() string                  { return r.name }
func (r *RawMaterial) Nutrients() (Nutrients, error) { return r.values, nil }
func (r *RawMaterial) Per100g() bool                 { return true }
func (r *RawMaterial) Kind() ElementKind             { return KindRawMaterial }

func (r *RawMaterial) Calories() float64 { return r.values.Calories }
func (r *RawMaterial) Proteins() float64 { return r.values.Proteins }
func (r *RawMaterial) Carbs() float64    { return r.values.Carbs }
func (r *RawMaterial) Fat() float64      { return r.values.Fat }

// Product is a packaged item whose values describe one whole unit.
// It is immutable once created.
type Product struct {
	name   string
	values Nutrients
}

// NewProduct creates a product. Values are stored verbatim.
func NewProduct(name string, values Nutrients) *Product {
	return &Product{name: name, values: values}
}

func (p *Product) Name() string                  { return p.name }
func (p *Product) Nutrients() (Nutrients, error) { return p.values, nil }
func (p *Product) Per100g() bool                 { return false }
func (p *Product) Kind() ElementKind             { return KindProduct }

func (p *Product) Calories() float64 { return p.values.Calories }
func (p *Product) Proteins() float64 { return p.values.Proteins }
func (p *Product) Carbs() float64    { return p.values.Carbs }
func (p *Product) Fat() float64      { return p.values.Fat }
