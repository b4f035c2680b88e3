package model

import (
	"fmt"
	"strings"
)

// WorkCategory is one of the fixed values of the Work Category field.
type WorkCategory string

const (
	CategoryFeatureEngineering    WorkCategory = "feature_engineering"
	CategoryEngineeringExcellence WorkCategory = "engineering_excellence"
	CategoryOperationalExcellence WorkCategory = "operational_excellence"
)

// Categories lists every work category in prompt order.
var Categories = []WorkCategory{
	CategoryFeatureEngineering,
	CategoryEngineeringExcellence,
	CategoryOperationalExcellence,
}

// Label returns the option value stored in Jira for the category.
func (c WorkCategory) Label() string {
	switch c {
	case CategoryFeatureEngineering:
		return "Feature Engineering (FE)"
	case CategoryEngineeringExcellence:
		return "Engineering Excellence (EE)"
	case CategoryOperationalExcellence:
		return "Operational Excellence (OE)"
	default:
		return string(c)
	}
}

// Shortcut returns the single-letter input that selects the category.
func (c WorkCategory) Shortcut() string {
	switch c {
	case CategoryFeatureEngineering:
		return "f"
	case CategoryEngineeringExcellence:
		return "e"
	case CategoryOperationalExcellence:
		return "o"
	default:
		return ""
	}
}

// SkipShortcut is the input that leaves an issue unchanged.
const SkipShortcut = "s"

// Decision is the operator's answer for one issue: either a category or
// a skip.
type Decision struct {
	Category WorkCategory
	Skip     bool
}

// ParseDecision maps operator input to a decision. Input is trimmed and
// matched case-insensitively. It returns an error for anything other than
// f, e, o or s.
func ParseDecision(input string) (Decision, error) {
	choice := strings.ToLower(strings.TrimSpace(input))

	if choice == SkipShortcut {
		return Decision{Skip: true}, nil
	}

	for _, c := range Categories {
		if choice == c.Shortcut() {
			return Decision{Category: c}, nil
		}
	}

	return Decision{}, fmt.Errorf("invalid work category choice %q", input)
}
