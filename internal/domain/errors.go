package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrUnknownElement   = errors.New("unknown element")
	ErrEmptyRecipe      = errors.New("recipe has no ingredients")
	ErrKindMismatch     = errors.New("element kind mismatch")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidNutrients = errors.New("invalid nutritional values")
	ErrInvalidName      = errors.New("invalid name")
	ErrAlreadyExists    = errors.New("already exists")
)

// UnknownElementError reports a name the catalog could not resolve.
// It matches ErrUnknownElement with errors.Is.
type UnknownElementError struct {
	Kind ElementKind
	Name string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

// Is lets errors.Is(err, ErrUnknownElement) succeed.
func (e *UnknownElementError) Is(target error) bool {
	return target == ErrUnknownElement
}
