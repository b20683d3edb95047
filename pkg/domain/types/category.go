package types

import "fmt"

// IndicatorCategory classifies a health signal extracted from a conversation.
// The set is closed: adding a category means adding a matcher and a weight,
// not open-ended dispatch.
type IndicatorCategory string

const (
	CategorySymptom      IndicatorCategory = "symptom"
	CategoryBehavioral   IndicatorCategory = "behavioral"
	CategoryVital        IndicatorCategory = "vital"
	CategoryPsychosocial IndicatorCategory = "psychosocial"
	CategoryUrgency      IndicatorCategory = "urgency"
)

// AllIndicatorCategories returns all valid indicator categories in their
// canonical order.
func AllIndicatorCategories() []IndicatorCategory {
	return []IndicatorCategory{
		CategorySymptom,
		CategoryBehavioral,
		CategoryVital,
		CategoryPsychosocial,
		CategoryUrgency,
	}
}

// IsValid checks if the indicator category is valid
func (c IndicatorCategory) IsValid() bool {
	switch c {
	case CategorySymptom,
		CategoryBehavioral,
		CategoryVital,
		CategoryPsychosocial,
		CategoryUrgency:
		return true
	default:
		return false
	}
}

// String returns the string representation of the indicator category
func (c IndicatorCategory) String() string {
	return string(c)
}

// ParseIndicatorCategory parses a string into an IndicatorCategory
func ParseIndicatorCategory(s string) (IndicatorCategory, error) {
	category := IndicatorCategory(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid indicator category: %s", s)
	}
	return category, nil
}
