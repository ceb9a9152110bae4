// Package conversation provides shell command parsing and user notification
// implementations.
package conversation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/nutricalc/internal/domain"
	"github.com/hammamikhairi/nutricalc/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches shell input to intents using keywords and simple
// patterns. Capture group 1, when present, is the target name and group 2
// an optional quantity.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(?:list|ls|catalog)$`), domain.IntentList},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(?:report|total|totals)$`), domain.IntentReport},
		{regexp.MustCompile(`(?i)^show(?:\s+(.+))?$`), domain.IntentShow},
		{regexp.MustCompile(`(?i)^(?:new\s+)?recipe\s+(.+)$`), domain.IntentNewRecipe},
		{regexp.MustCompile(`(?i)^(?:new\s+)?menu\s+(.+)$`), domain.IntentNewMenu},
		{regexp.MustCompile(`(?i)^(?:use|edit|select)\s+(.+)$`), domain.IntentUse},
		// "add olive oil 20g", "add cola can 2x", "add cola can".
		{regexp.MustCompile(`(?i)^add\s+(.+?)(?:\s+(-?\d+(?:\.\d+)?)\s*(?:g|grams?|x|units?)?)?$`), domain.IntentAdd},
	}
	return p
}

// Parse converts shell input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.Join(strings.Fields(input), " ")
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		intent := &domain.Intent{Type: rule.intent, Raw: trimmed}
		if len(m) > 1 {
			intent.Target = strings.TrimSpace(m[1])
		}
		if len(m) > 2 && m[2] != "" {
			q, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, err
			}
			intent.Quantity = q
			intent.HasQuantity = true
		}
		p.log.Debug("matched intent: %s target=%q", intent.Type, intent.Target)
		return intent, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Raw: trimmed}, nil
}
