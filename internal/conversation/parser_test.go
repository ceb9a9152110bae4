package conversation

import (
	"context"
	"testing"

	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input      string
		wantType   domain.IntentType
		wantTarget string
		wantQty    float64
		wantHasQty bool
	}{
		// Listing
		{"list", domain.IntentList, "", 0, false},
		{"LS", domain.IntentList, "", 0, false},

		// Help / quit / report
		{"help", domain.IntentHelp, "", 0, false},
		{"?", domain.IntentHelp, "", 0, false},
		{"quit", domain.IntentQuit, "", 0, false},
		{"q", domain.IntentQuit, "", 0, false},
		{"report", domain.IntentReport, "", 0, false},
		{"totals", domain.IntentReport, "", 0, false},

		// Show
		{"show", domain.IntentShow, "", 0, false},
		{"show pizza margherita", domain.IntentShow, "pizza margherita", 0, false},

		// Create
		{"recipe dough", domain.IntentNewRecipe, "dough", 0, false},
		{"new recipe sweet dough", domain.IntentNewRecipe, "sweet dough", 0, false},
		{"menu lunch", domain.IntentNewMenu, "lunch", 0, false},
		{"new menu sunday lunch", domain.IntentNewMenu, "sunday lunch", 0, false},

		// Select
		{"use dough", domain.IntentUse, "dough", 0, false},
		{"edit lunch", domain.IntentUse, "lunch", 0, false},

		// Add
		{"add flour 200", domain.IntentAdd, "flour", 200, true},
		{"add olive oil 20g", domain.IntentAdd, "olive oil", 20, true},
		{"add olive oil 12.5 grams", domain.IntentAdd, "olive oil", 12.5, true},
		{"add cola can 2x", domain.IntentAdd, "cola can", 2, true},
		{"add cola can", domain.IntentAdd, "cola can", 0, false},
		{"add 7up", domain.IntentAdd, "7up", 0, false},
		{"add flour -5", domain.IntentAdd, "flour", -5, true},
		{"  add   flour    50  ", domain.IntentAdd, "flour", 50, true},

		// Unknown
		{"", domain.IntentUnknown, "", 0, false},
		{"make me a sandwich", domain.IntentUnknown, "", 0, false},
		{"add", domain.IntentUnknown, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if intent.Type != tt.wantType {
				t.Fatalf("input=%q: expected %s, got %s", tt.input, tt.wantType, intent.Type)
			}
			if intent.Target != tt.wantTarget {
				t.Fatalf("input=%q: expected target %q, got %q", tt.input, tt.wantTarget, intent.Target)
			}
			if intent.HasQuantity != tt.wantHasQty || intent.Quantity != tt.wantQty {
				t.Fatalf("input=%q: expected quantity %v (%v), got %v (%v)",
					tt.input, tt.wantQty, tt.wantHasQty, intent.Quantity, intent.HasQuantity)
			}
		})
	}
}
