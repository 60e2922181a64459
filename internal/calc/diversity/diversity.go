// Package diversity holds the diversity and simultaneity tables shared by the
// category load calculators.
package diversity

import (
	"fmt"

	"Ampere/internal/calc/installation"
)

// Policy carries the per-category minimum diversity. The floors are a design
// policy and may be tuned per deployment.
type Policy struct {
	Floors map[Category]float64
}

func DefaultPolicy() Policy {
	floors := make(map[Category]float64, len(defaultFloors))
	for c, f := range defaultFloors {
		floors[c] = f
	}
	return Policy{Floors: floors}
}

// WithFloors returns a copy of p with the given floors applied on top.
func (p Policy) WithFloors(overrides map[Category]float64) (Policy, error) {
	out := DefaultPolicy()
	for c, f := range p.Floors {
		out.Floors[c] = f
	}
	for c, f := range overrides {
		if _, ok := defaultFloors[c]; !ok {
			return p, fmt.Errorf("unknown diversity category %q", c)
		}
		if f <= 0 || f > 1 {
			return p, fmt.Errorf("floor for %s must be in (0, 1], got %v", c, f)
		}
		out.Floors[c] = f
	}
	return out, nil
}

func (p Policy) Floor(c Category) float64 {
	if f, ok := p.Floors[c]; ok {
		return f
	}
	return defaultFloors[c]
}

// Fixed reports whether the regulation mandates 100% for this combination.
func Fixed(c Category, t installation.Type) bool {
	return t == installation.Domestic && (c == Heating || c == WaterHeating)
}

// Base returns the table value for category c and installation type t.
func Base(c Category, t installation.Type) float64 {
	return base[c][t]
}

// SizeReduction returns the multiplier applied for large connected loads.
func SizeReduction(c Category, connected float64) float64 {
	bp := sizeBreakpoints[c]
	switch {
	case connected > bp.Second:
		return bp.SecondMul
	case connected > bp.First:
		return bp.FirstMul
	default:
		return 1.0
	}
}

// Factor computes base × modifier × size reduction, clamped to [floor, 1].
func Factor(c Category, t installation.Type, modifier, connected float64, p Policy) float64 {
	if Fixed(c, t) {
		return 1.0
	}
	f := Base(c, t) * modifier * SizeReduction(c, connected)
	if floor := p.Floor(c); f < floor {
		f = floor
	}
	if f > 1 {
		f = 1
	}
	return f
}

// Simultaneity combines the occupancy schedule with zone and thermostat control.
func Simultaneity(o Occupancy, zoneControl, thermostat bool) float64 {
	f := occupancyFactor[o]
	if zoneControl {
		f *= zoneControlFactor
	}
	if thermostat {
		f *= thermostatFactor
	}
	return f
}
