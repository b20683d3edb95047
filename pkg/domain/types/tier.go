package types

import "fmt"

// RiskTier is a discrete risk category derived from a continuous score via
// fixed, non-overlapping thresholds.
type RiskTier string

const (
	TierLow      RiskTier = "low"
	TierModerate RiskTier = "moderate"
	TierHigh     RiskTier = "high"
	TierCritical RiskTier = "critical"
)

// AllRiskTiers returns all valid risk tiers ordered from lowest to highest
func AllRiskTiers() []RiskTier {
	return []RiskTier{
		TierLow,
		TierModerate,
		TierHigh,
		TierCritical,
	}
}

// IsValid checks if the risk tier is valid
func (t RiskTier) IsValid() bool {
	switch t {
	case TierLow,
		TierModerate,
		TierHigh,
		TierCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk tier
func (t RiskTier) String() string {
	return string(t)
}

// ParseRiskTier parses a string into a RiskTier
func ParseRiskTier(s string) (RiskTier, error) {
	tier := RiskTier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid risk tier: %s", s)
	}
	return tier, nil
}
