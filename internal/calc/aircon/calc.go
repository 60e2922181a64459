package aircon

import (
	"fmt"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/installation"
)

type UnitType string

const (
	Split      UnitType = "split"
	MultiSplit UnitType = "multi_split"
	VRF        UnitType = "vrf"
	Window     UnitType = "window"
	Ducted     UnitType = "ducted"
	Chiller    UnitType = "chiller"
)

// Nominal energy efficiency ratio (cooling kW per electrical kW).
var eer = map[UnitType]float64{
	Split:      3.2,
	MultiSplit: 3.0,
	VRF:        3.8,
	Window:     2.6,
	Ducted:     3.0,
	Chiller:    3.5,
}

func (u UnitType) Valid() bool {
	_, ok := eer[u]
	return ok
}

type ControlSystem string

const (
	Manual       ControlSystem = "manual"
	Thermostatic ControlSystem = "thermostatic"
	Programmable ControlSystem = "programmable"
	BMS          ControlSystem = "bms"
)

var controlModifier = map[ControlSystem]float64{
	Manual:       1.00,
	Thermostatic: 0.95,
	Programmable: 0.90,
	BMS:          0.85,
}

func (c ControlSystem) Valid() bool {
	_, ok := controlModifier[c]
	return ok
}

const (
	dedicatedCircuit = 16.0   // A per unit
	threePhaseUnit   = 7000.0 // W per unit
)

type Unit struct {
	Name            string   `json:"name" yaml:"name"`
	UnitType        UnitType `json:"unit_type" yaml:"unit_type"`
	CoolingCapacity float64  `json:"cooling_capacity" yaml:"cooling_capacity"` // kW
	EER             *float64 `json:"eer,omitempty" yaml:"eer,omitempty"`
	RatedPower      *float64 `json:"rated_power,omitempty" yaml:"rated_power,omitempty"` // W
	Quantity        int      `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

type Input struct {
	Units              []Unit               `json:"units" yaml:"units"`
	ControlSystem      ControlSystem        `json:"control_system" yaml:"control_system"`
	Occupancy          diversity.Occupancy  `json:"occupancy" yaml:"occupancy"`
	ZoneControl        bool                 `json:"zone_control" yaml:"zone_control"`
	Thermostat         bool                 `json:"thermostat" yaml:"thermostat"`
	SimultaneousFactor *float64             `json:"simultaneous_factor,omitempty" yaml:"simultaneous_factor,omitempty"`
	Installation       installation.Context `json:"installation" yaml:"installation"`
}

type UnitResult struct {
	Name            string   `json:"name"`
	UnitType        UnitType `json:"unit_type"`
	CoolingCapacity float64  `json:"cooling_capacity"`
	UnitPower       float64  `json:"unit_power"`
	Power           float64  `json:"power"`
	UnitCurrent     float64  `json:"unit_current"`
}

type Result struct {
	ConnectedLoad      float64      `json:"connected_load"`
	DemandLoad         float64      `json:"demand_load"`
	SimultaneityFactor float64      `json:"simultaneity_factor"`
	DiversityFactor    float64      `json:"diversity_factor"`
	Current            float64      `json:"current"`
	UnitBreakdown      []UnitResult `json:"unit_breakdown"`
	Recommendations    []string     `json:"recommendations"`
}

func Calculate(in Input) (Result, error) {
	return CalculateWithPolicy(in, diversity.DefaultPolicy())
}

func CalculateWithPolicy(in Input, p diversity.Policy) (Result, error) {
	ctx, err := validate(in)
	if err != nil {
		return Result{}, err
	}

	res := Result{UnitBreakdown: make([]UnitResult, 0, len(in.Units))}
	for i, u := range in.Units {
		unitPower := resolvePower(u)
		power := unitPower * float64(installation.Quantity(u.Quantity))
		unitCurrent := installation.Current(unitPower, ctx.SupplyVoltage)
		if err := installation.Finite(fmt.Sprintf("units[%d]", i), unitPower, power, unitCurrent); err != nil {
			return Result{}, err
		}
		res.ConnectedLoad += power
		res.UnitBreakdown = append(res.UnitBreakdown, UnitResult{
			Name:            u.Name,
			UnitType:        u.UnitType,
			CoolingCapacity: u.CoolingCapacity,
			UnitPower:       unitPower,
			Power:           power,
			UnitCurrent:     unitCurrent,
		})
	}

	res.SimultaneityFactor = resolveSimultaneity(in)
	res.DiversityFactor = diversity.Factor(diversity.AirConditioning, ctx.Type, controlModifier[in.ControlSystem], res.ConnectedLoad, p)
	res.DemandLoad = res.ConnectedLoad * res.SimultaneityFactor * res.DiversityFactor
	res.Current = installation.Current(res.DemandLoad, ctx.SupplyVoltage)
	if err := installation.Finite("units", res.ConnectedLoad, res.DemandLoad, res.Current); err != nil {
		return Result{}, err
	}
	res.Recommendations = recommendations(res)
	return res, nil
}

// resolvePower prefers the nameplate input power, then capacity / EER.
func resolvePower(u Unit) float64 {
	if u.RatedPower != nil {
		return *u.RatedPower
	}
	return u.CoolingCapacity * 1000 / resolveEER(u)
}

func resolveEER(u Unit) float64 {
	return installation.Resolve(u.EER, eer[u.UnitType])
}

func resolveSimultaneity(in Input) float64 {
	return installation.Resolve(in.SimultaneousFactor, diversity.Simultaneity(in.Occupancy, in.ZoneControl, in.Thermostat))
}

func Validate(in Input) error {
	_, err := validate(in)
	return err
}

func validate(in Input) (installation.Context, error) {
	ctx, err := in.Installation.Validate()
	if err != nil {
		return ctx, err
	}
	if len(in.Units) == 0 {
		return ctx, calcerr.Invalid("units", "at least one unit is required")
	}
	if !in.ControlSystem.Valid() {
		return ctx, calcerr.Invalid("control_system", fmt.Sprintf("unknown value %q", in.ControlSystem))
	}
	if !in.Occupancy.Valid() {
		return ctx, calcerr.Invalid("occupancy", fmt.Sprintf("unknown value %q", in.Occupancy))
	}
	if f := in.SimultaneousFactor; f != nil && (!installation.Positive(*f) || *f > 1) {
		return ctx, calcerr.Invalid("simultaneous_factor", "must be in (0, 1]")
	}
	for i, u := range in.Units {
		field := fmt.Sprintf("units[%d]", i)
		if !u.UnitType.Valid() {
			return ctx, calcerr.Invalid(field+".unit_type", fmt.Sprintf("unknown value %q", u.UnitType))
		}
		if !installation.Positive(u.CoolingCapacity) {
			return ctx, calcerr.Invalid(field+".cooling_capacity", "must be a positive number")
		}
		if u.EER != nil && !installation.Positive(*u.EER) {
			return ctx, calcerr.Invalid(field+".eer", "must be a positive number")
		}
		if u.RatedPower != nil && !installation.Positive(*u.RatedPower) {
			return ctx, calcerr.Invalid(field+".rated_power", "must be a positive number")
		}
		if u.Quantity < 0 {
			return ctx, calcerr.Invalid(field+".quantity", "must not be negative")
		}
	}
	return ctx, nil
}

func recommendations(res Result) []string {
	out := []string{fmt.Sprintf("Air conditioning design current %.1f A", res.Current)}
	for _, u := range res.UnitBreakdown {
		name := u.Name
		if name == "" {
			name = string(u.UnitType)
		}
		switch {
		case u.UnitPower > threePhaseUnit:
			out = append(out, fmt.Sprintf("%s: %.1f kW input, supply from a three-phase circuit", name, u.UnitPower/1000))
		case u.UnitCurrent > dedicatedCircuit:
			out = append(out, fmt.Sprintf("%s: dedicated circuit required (%.1f A)", name, u.UnitCurrent))
		}
	}
	out = append(out,
		"Compressor inrush: use Type C protective devices",
		"Local isolator adjacent to outdoor units per BS 7671 Regulation 537.3")
	return out
}
