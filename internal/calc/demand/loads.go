package demand

import (
	"fmt"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/installation"
)

// Socket-outlet allowances (W per outlet).
const (
	socketNominal     = 100.0
	socketTier1Count  = 10
	socketTier1       = 100.0
	socketTier2Count  = 20
	socketTier2       = 50.0
	socketTier3       = 25.0
	socketNonDomestic = 75.0
)

// Cooking appliance rating breakpoints (W) and the factor applied to each band.
const (
	cookingLow     = 3000.0
	cookingHigh    = 10000.0
	cookingFull    = 1.0
	cookingMid     = 0.5
	cookingReduced = 0.25
)

// SocketDemand applies the tiered socket-outlet allowance.
func SocketDemand(n int, t installation.Type) (connected, demand float64) {
	connected = float64(n) * socketNominal
	if t != installation.Domestic {
		return connected, float64(n) * socketNonDomestic
	}
	remaining := n
	tier := func(limit int, rate float64) {
		take := remaining
		if limit >= 0 && take > limit {
			take = limit
		}
		demand += float64(take) * rate
		remaining -= take
	}
	tier(socketTier1Count, socketTier1)
	tier(socketTier2Count-socketTier1Count, socketTier2)
	tier(-1, socketTier3)
	return connected, demand
}

type CookingAppliance struct {
	Name              string   `json:"name" yaml:"name"`
	Rating            float64  `json:"rating" yaml:"rating"` // W
	Quantity          int      `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	DiversityOverride *float64 `json:"diversity_override,omitempty" yaml:"diversity_override,omitempty"`
}

// cookingFactor returns the diversity band for a single appliance rating.
func cookingFactor(rating float64) float64 {
	switch {
	case rating < cookingLow:
		return cookingFull
	case rating <= cookingHigh:
		return cookingMid
	default:
		return cookingReduced
	}
}

func resolveCookingFactor(a CookingAppliance) float64 {
	return installation.Resolve(a.DiversityOverride, cookingFactor(a.Rating))
}

// CookingDemand sums each appliance at its band factor unless overridden.
func CookingDemand(items []CookingAppliance) (connected, demand float64) {
	for _, a := range items {
		load := a.Rating * float64(installation.Quantity(a.Quantity))
		connected += load
		demand += load * resolveCookingFactor(a)
	}
	return connected, demand
}

type SpecialLoad struct {
	Name              string   `json:"name" yaml:"name"`
	Power             float64  `json:"power" yaml:"power"` // W
	DiversityOverride *float64 `json:"diversity_override,omitempty" yaml:"diversity_override,omitempty"`
}

func resolveSpecialFactor(s SpecialLoad) float64 {
	return installation.Resolve(s.DiversityOverride, 1.0)
}

// SpecialDemand is Σ power × (override ?? 1).
func SpecialDemand(items []SpecialLoad) (connected, demand float64) {
	for _, s := range items {
		connected += s.Power
		demand += s.Power * resolveSpecialFactor(s)
	}
	return connected, demand
}

func validateCooking(items []CookingAppliance) error {
	for i, a := range items {
		field := fmt.Sprintf("cooking[%d]", i)
		if !installation.Positive(a.Rating) {
			return calcerr.Invalid(field+".rating", "must be a positive number")
		}
		if a.Quantity < 0 {
			return calcerr.Invalid(field+".quantity", "must not be negative")
		}
		if err := validateOverride(field, a.DiversityOverride); err != nil {
			return err
		}
	}
	return nil
}

func validateSpecial(items []SpecialLoad) error {
	for i, s := range items {
		field := fmt.Sprintf("special_loads[%d]", i)
		if !installation.Positive(s.Power) {
			return calcerr.Invalid(field+".power", "must be a positive number")
		}
		if err := validateOverride(field, s.DiversityOverride); err != nil {
			return err
		}
	}
	return nil
}

func validateOverride(field string, v *float64) error {
	if v != nil && (!installation.Positive(*v) || *v > 1) {
		return calcerr.Invalid(field+".diversity_override", "must be in (0, 1]")
	}
	return nil
}
