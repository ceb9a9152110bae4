// Package display renders nutritional reports and catalog listings for the
// terminal using lipgloss styles.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/nutrition"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#bbf7d0"))

	basisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Soft coral for values that cannot be computed.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))
)

const maxRuleWidth = 48

// Renderer formats elements. A plain renderer emits no ANSI sequences.
type Renderer struct {
	plain bool
	width int
}

// NewRenderer creates a renderer sized for the current terminal.
func NewRenderer(plain bool) *Renderer {
	w := termWidth() - 4
	if w > maxRuleWidth {
		w = maxRuleWidth
	}
	if w < 20 {
		w = 20
	}
	return &Renderer{plain: plain, width: w}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) rule() string {
	return r.style(sepStyle, strings.Repeat("─", r.width))
}

// kinded is implemented by every concrete element type.
type kinded interface {
	Kind() domain.ElementKind
}

// Basis describes what the element's values refer to.
func Basis(el domain.NutritionalElement) string {
	if el.Per100g() {
		return "per 100 g"
	}
	if k, ok := el.(kinded); ok && k.Kind() == domain.KindProduct {
		return "per unit"
	}
	return "total"
}

func kindOf(el domain.NutritionalElement) string {
	if k, ok := el.(kinded); ok {
		return k.Kind().String()
	}
	return "element"
}

// Report renders the values of el and, for recipes and menus, their lines.
func (r *Renderer) Report(el domain.NutritionalElement) (string, error) {
	n, err := el.Nutrients()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(r.style(titleStyle, el.Name()))
	b.WriteString("  ")
	b.WriteString(r.style(basisStyle, "("+kindOf(el)+", "+Basis(el)+")"))
	b.WriteByte('\n')
	b.WriteString(r.rule())
	b.WriteByte('\n')

	rows := []struct {
		label string
		value float64
		unit  string
	}{
		{"Calories", n.Calories, "kcal"},
		{"Proteins", n.Proteins, "g"},
		{"Carbs", n.Carbs, "g"},
		{"Fat", n.Fat, "g"},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s %s %s\n",
			r.style(labelStyle, fmt.Sprintf("%-9s", row.label)),
			r.style(valueStyle, fmt.Sprintf("%8.1f", row.value)),
			row.unit)
	}

	switch v := el.(type) {
	case *nutrition.Recipe:
		b.WriteString(r.rule())
		b.WriteByte('\n')
		b.WriteString(r.lines(fmt.Sprintf("Ingredients (%.1f g)", v.TotalGrams()), v.Ingredients(), "g"))
	case *nutrition.Menu:
		if lines := v.RecipeLines(); len(lines) > 0 {
			b.WriteString(r.rule())
			b.WriteByte('\n')
			b.WriteString(r.lines("Recipes", lines, "g"))
		}
		if lines := v.ProductLines(); len(lines) > 0 {
			b.WriteString(r.rule())
			b.WriteByte('\n')
			b.WriteString(r.lines("Products", lines, "x"))
		}
	}

	return b.String(), nil
}

func (r *Renderer) lines(title string, lines []nutrition.Line, unit string) string {
	var b strings.Builder
	b.WriteString("  " + r.style(sectionStyle, title) + "\n")

	width := 0
	for _, l := range lines {
		if n := len(l.Element.Name()); n > width {
			width = n
		}
	}
	for _, l := range lines {
		qty := fmt.Sprintf("%8.1f %s", l.Quantity, unit)
		if unit == "x" {
			qty = fmt.Sprintf("%8d %s", int(l.Quantity), unit)
		}
		fmt.Fprintf(&b, "    %-*s %s\n", width, l.Element.Name(), qty)
	}
	return b.String()
}

// Lister is the read side of a catalog.
type Lister interface {
	RawMaterials() []*domain.RawMaterial
	Products() []*domain.Product
	Recipes() []*nutrition.Recipe
	Menus() []*nutrition.Menu
}

// Listing renders every element of the catalog grouped by kind with its
// calories.
func (r *Renderer) Listing(c Lister) string {
	var b strings.Builder

	section := func(title string, els []domain.NutritionalElement) {
		if len(els) == 0 {
			return
		}
		b.WriteString(r.style(sectionStyle, title))
		b.WriteByte('\n')
		for _, el := range els {
			n, err := el.Nutrients()
			kcal := r.style(valueStyle, fmt.Sprintf("%8.1f kcal", n.Calories))
			if err != nil {
				kcal = r.style(errorStyle, fmt.Sprintf("%13s", "n/a"))
			}
			fmt.Fprintf(&b, "  %-28s %s  %s\n", el.Name(), kcal, r.style(basisStyle, Basis(el)))
		}
	}

	section("Raw materials", elements(c.RawMaterials()))
	section("Products", elements(c.Products()))
	section("Recipes", elements(c.Recipes()))
	section("Menus", elements(c.Menus()))

	if b.Len() == 0 {
		return "catalog is empty\n"
	}
	return b.String()
}

func elements[T domain.NutritionalElement](in []T) []domain.NutritionalElement {
	out := make([]domain.NutritionalElement, 0, len(in))
	for _, el := range in {
		out = append(out, el)
	}
	return out
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
