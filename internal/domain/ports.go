package domain

import "context"

// Catalog resolves names to the elements it owns. Recipes and menus use it
// to look up their constituents. Implementations can be in-memory, file
// backed or loaded from a database.
type Catalog interface {
	RawMaterial(name string) (NutritionalElement, error)
	Recipe(name string) (NutritionalElement, error)
	Product(name string) (NutritionalElement, error)
}

// CommandParser converts raw shell input into structured intents.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
