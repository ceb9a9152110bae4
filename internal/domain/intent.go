package domain

// IntentType classifies what the user wants to do in the shell.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentList
	IntentShow
	IntentNewRecipe
	IntentNewMenu
	IntentUse
	IntentAdd
	IntentReport
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentList:
		return "list"
	case IntentShow:
		return "show"
	case IntentNewRecipe:
		return "new_recipe"
	case IntentNewMenu:
		return "new_menu"
	case IntentUse:
		return "use"
	case IntentAdd:
		return "add"
	case IntentReport:
		return "report"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed shell command.
type Intent struct {
	Type IntentType
	// Target is the element name the command refers to, if any.
	Target string
	// Quantity is grams for ingredients and servings, units for products.
	Quantity    float64
	HasQuantity bool
	// Raw is the trimmed input line.
	Raw string
}
