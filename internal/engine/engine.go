// Package engine implements the shell workbench: it executes parsed
// commands against a catalog and tracks the recipe or menu being edited.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hammamikhairi/nutricalc/internal/display"
	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/logger"
	"github.com/hammamikhairi/nutricalc/internal/nutrition"
)

// Engine errors.
var (
	ErrNoSelection    = errors.New("no recipe or menu selected")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingName    = errors.New("missing name")
)

// Workbench is the catalog surface the engine needs.
type Workbench interface {
	display.Lister
	CreateRecipe(name string) (*nutrition.Recipe, error)
	CreateMenu(name string, opts ...nutrition.MenuOption) (*nutrition.Menu, error)
	GetRecipe(name string) (*nutrition.Recipe, error)
	GetMenu(name string) (*nutrition.Menu, error)
	Lookup(name string) (domain.NutritionalElement, error)
}

// Option configures the engine.
type Option func(*Engine)

// WithDefaultGrams sets the quantity used when "add" omits one for an
// ingredient or a recipe serving.
func WithDefaultGrams(g float64) Option {
	return func(e *Engine) {
		e.defaultGrams = g
	}
}

// Response is the outcome of one command.
type Response struct {
	Message string
	Quit    bool
}

// Engine runs shell commands. It is not safe for concurrent use; the shell
// feeds it one line at a time.
type Engine struct {
	catalog      Workbench
	render       *display.Renderer
	log          *logger.Logger
	defaultGrams float64

	recipe *nutrition.Recipe
	menu   *nutrition.Menu
}

// New creates an engine with the given dependencies and options.
func New(catalog Workbench, render *display.Renderer, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		catalog:      catalog,
		render:       render,
		log:          log,
		defaultGrams: 100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Current returns the composite being edited, or nil.
func (e *Engine) Current() domain.NutritionalElement {
	switch {
	case e.recipe != nil:
		return e.recipe
	case e.menu != nil:
		return e.menu
	default:
		return nil
	}
}

// Handle executes one intent.
func (e *Engine) Handle(ctx context.Context, in *domain.Intent) (Response, error) {
	e.log.Debug("handling %s target=%q", in.Type, in.Target)

	switch in.Type {
	case domain.IntentList:
		return Response{Message: e.render.Listing(e.catalog)}, nil
	case domain.IntentShow:
		return e.show(in.Target)
	case domain.IntentReport:
		return e.show("")
	case domain.IntentNewRecipe:
		return e.newRecipe(in.Target)
	case domain.IntentNewMenu:
		return e.newMenu(in.Target)
	case domain.IntentUse:
		return e.use(in.Target)
	case domain.IntentAdd:
		return e.add(in)
	case domain.IntentHelp:
		return Response{Message: HelpText}, nil
	case domain.IntentQuit:
		return Response{Message: "bye", Quit: true}, nil
	default:
		return Response{}, fmt.Errorf("%w: %q (try \"help\")", ErrUnknownCommand, in.Raw)
	}
}

func (e *Engine) show(name string) (Response, error) {
	var el domain.NutritionalElement
	if name == "" {
		el = e.Current()
		if el == nil {
			return Response{}, ErrNoSelection
		}
	} else {
		found, err := e.catalog.Lookup(name)
		if err != nil {
			return Response{}, err
		}
		el = found
	}

	out, err := e.render.Report(el)
	if err != nil {
		return Response{}, err
	}
	return Response{Message: out}, nil
}

func (e *Engine) newRecipe(name string) (Response, error) {
	if name == "" {
		return Response{}, ErrMissingName
	}
	r, err := e.catalog.CreateRecipe(name)
	if err != nil {
		return Response{}, err
	}
	e.recipe, e.menu = r, nil
	e.log.Info("created recipe %s", r.Name())
	return Response{Message: fmt.Sprintf("editing new recipe %s", r.Name())}, nil
}

func (e *Engine) newMenu(name string) (Response, error) {
	if name == "" {
		return Response{}, ErrMissingName
	}
	m, err := e.catalog.CreateMenu(name)
	if err != nil {
		return Response{}, err
	}
	e.recipe, e.menu = nil, m
	e.log.Info("created menu %s", m.Name())
	return Response{Message: fmt.Sprintf("editing new menu %s", m.Name())}, nil
}

func (e *Engine) use(name string) (Response, error) {
	if r, err := e.catalog.GetRecipe(name); err == nil {
		e.recipe, e.menu = r, nil
		return Response{Message: fmt.Sprintf("editing recipe %s", r.Name())}, nil
	}
	m, err := e.catalog.GetMenu(name)
	if err != nil {
		return Response{}, fmt.Errorf("%w: no recipe or menu named %q", domain.ErrUnknownElement, name)
	}
	e.recipe, e.menu = nil, m
	return Response{Message: fmt.Sprintf("editing menu %s", m.Name())}, nil
}

func (e *Engine) add(in *domain.Intent) (Response, error) {
	switch {
	case e.recipe != nil:
		grams := e.gramsOf(in)
		if _, err := e.recipe.AddIngredient(in.Target, grams); err != nil {
			return Response{}, err
		}
		return Response{Message: fmt.Sprintf("added %.1f g %s to %s", grams, in.Target, e.recipe.Name())}, nil

	case e.menu != nil:
		grams := e.gramsOf(in)
		_, err := e.menu.AddRecipe(in.Target, grams)
		if err == nil {
			return Response{Message: fmt.Sprintf("added %.1f g %s to %s", grams, in.Target, e.menu.Name())}, nil
		}
		if !errors.Is(err, domain.ErrUnknownElement) {
			return Response{}, err
		}

		units, err := unitsOf(in)
		if err != nil {
			return Response{}, err
		}
		if _, err := e.menu.AddProducts(in.Target, units); err != nil {
			if errors.Is(err, domain.ErrUnknownElement) {
				return Response{}, fmt.Errorf("%w: no recipe or product named %q", domain.ErrUnknownElement, in.Target)
			}
			return Response{}, err
		}
		return Response{Message: fmt.Sprintf("added %d x %s to %s", units, in.Target, e.menu.Name())}, nil

	default:
		return Response{}, ErrNoSelection
	}
}

func (e *Engine) gramsOf(in *domain.Intent) float64 {
	if in.HasQuantity {
		return in.Quantity
	}
	return e.defaultGrams
}

// unitsOf reads a product unit count; it must be a whole number.
func unitsOf(in *domain.Intent) (int, error) {
	if !in.HasQuantity {
		return 1, nil
	}
	if in.Quantity < 1 || in.Quantity > math.MaxInt32 || in.Quantity != math.Trunc(in.Quantity) {
		return 0, fmt.Errorf("%w: %v units", domain.ErrInvalidQuantity, in.Quantity)
	}
	return int(in.Quantity), nil
}

// HelpText lists the shell commands.
const HelpText = `commands:
  list                    show every element in the catalog
  show [name]             report one element (default: the one being edited)
  recipe <name>           create a recipe and start editing it
  menu <name>             create a menu and start editing it
  use <name>              edit an existing recipe or menu
  add <name> [qty]        add grams of an ingredient or recipe, or units of a product
  report                  report the recipe or menu being edited
  help                    this text
  quit                    leave the shell`
