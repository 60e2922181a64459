package waterheating

import (
	"fmt"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/installation"
)

type HeaterType string

const (
	Instantaneous HeaterType = "instantaneous"
	Storage       HeaterType = "storage"
	Immersion     HeaterType = "immersion"
	HeatPump      HeaterType = "heat_pump"
)

// needsCapacity marks heater types that hold a volume of water.
var needsCapacity = map[HeaterType]bool{
	Instantaneous: false,
	Storage:       true,
	Immersion:     true,
	HeatPump:      true,
}

func (h HeaterType) Valid() bool {
	_, ok := needsCapacity[h]
	return ok
}

type ControlSystem string

const (
	Manual       ControlSystem = "manual"
	Timer        ControlSystem = "timer"
	Thermostatic ControlSystem = "thermostatic"
	OffPeak      ControlSystem = "off_peak"
)

var controlModifier = map[ControlSystem]float64{
	Manual:       1.00,
	Timer:        0.90,
	Thermostatic: 0.95,
	OffPeak:      0.85,
}

func (c ControlSystem) Valid() bool {
	_, ok := controlModifier[c]
	return ok
}

const (
	dedicatedCircuit = 7200.0 // W, instantaneous showers and above
	kWhPerLitre      = 0.058  // heat 1 l by 50 K
)

type Heater struct {
	Name           string     `json:"name" yaml:"name"`
	HeaterType     HeaterType `json:"heater_type" yaml:"heater_type"`
	RatedPower     float64    `json:"rated_power" yaml:"rated_power"`
	CapacityLitres float64    `json:"capacity_litres,omitempty" yaml:"capacity_litres,omitempty"`
	Quantity       int        `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

type Input struct {
	Heaters       []Heater             `json:"heaters" yaml:"heaters"`
	ControlSystem ControlSystem        `json:"control_system" yaml:"control_system"`
	Installation  installation.Context `json:"installation" yaml:"installation"`
}

type HeaterResult struct {
	Name        string     `json:"name"`
	HeaterType  HeaterType `json:"heater_type"`
	Rating      float64    `json:"rating"`
	Power       float64    `json:"power"`
	Current     float64    `json:"current"`
	ReheatHours float64    `json:"reheat_hours,omitempty"`
}

type Result struct {
	ConnectedLoad   float64        `json:"connected_load"`
	DemandLoad      float64        `json:"demand_load"`
	DiversityFactor float64        `json:"diversity_factor"`
	Current         float64        `json:"current"`
	HeaterBreakdown []HeaterResult `json:"heater_breakdown"`
	Recommendations []string       `json:"recommendations"`
}

func Calculate(in Input) (Result, error) {
	return CalculateWithPolicy(in, diversity.DefaultPolicy())
}

func CalculateWithPolicy(in Input, p diversity.Policy) (Result, error) {
	ctx, err := validate(in)
	if err != nil {
		return Result{}, err
	}

	res := Result{HeaterBreakdown: make([]HeaterResult, 0, len(in.Heaters))}
	for i, h := range in.Heaters {
		power := h.RatedPower * float64(installation.Quantity(h.Quantity))
		hr := HeaterResult{
			Name:       h.Name,
			HeaterType: h.HeaterType,
			Rating:     h.RatedPower,
			Power:      power,
			Current:    installation.Current(h.RatedPower, ctx.SupplyVoltage),
		}
		if needsCapacity[h.HeaterType] {
			hr.ReheatHours = h.CapacityLitres * kWhPerLitre * 1000 / h.RatedPower
		}
		if err := installation.Finite(fmt.Sprintf("heaters[%d]", i), hr.Power, hr.Current, hr.ReheatHours); err != nil {
			return Result{}, err
		}
		res.ConnectedLoad += power
		res.HeaterBreakdown = append(res.HeaterBreakdown, hr)
	}

	res.DiversityFactor = diversity.Factor(diversity.WaterHeating, ctx.Type, controlModifier[in.ControlSystem], res.ConnectedLoad, p)
	res.DemandLoad = res.ConnectedLoad * res.DiversityFactor
	res.Current = installation.Current(res.DemandLoad, ctx.SupplyVoltage)
	if err := installation.Finite("heaters", res.ConnectedLoad, res.DemandLoad, res.Current); err != nil {
		return Result{}, err
	}
	res.Recommendations = recommendations(res)
	return res, nil
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
	if len(in.Heaters) == 0 {
		return ctx, calcerr.Invalid("heaters", "at least one heater is required")
	}
	if !in.ControlSystem.Valid() {
		return ctx, calcerr.Invalid("control_system", fmt.Sprintf("unknown value %q", in.ControlSystem))
	}
	for i, h := range in.Heaters {
		field := fmt.Sprintf("heaters[%d]", i)
		if !h.HeaterType.Valid() {
			return ctx, calcerr.Invalid(field+".heater_type", fmt.Sprintf("unknown value %q", h.HeaterType))
		}
		if !installation.Positive(h.RatedPower) {
			return ctx, calcerr.Invalid(field+".rated_power", "must be a positive number")
		}
		if needsCapacity[h.HeaterType] && !installation.Positive(h.CapacityLitres) {
			return ctx, calcerr.Invalid(field+".capacity_litres", "must be a positive number for "+string(h.HeaterType))
		}
		if h.Quantity < 0 {
			return ctx, calcerr.Invalid(field+".quantity", "must not be negative")
		}
	}
	return ctx, nil
}

func recommendations(res Result) []string {
	out := []string{fmt.Sprintf("Water heating design current %.1f A", res.Current)}
	for _, h := range res.HeaterBreakdown {
		name := h.Name
		if name == "" {
			name = string(h.HeaterType)
		}
		if h.HeaterType == Instantaneous && h.Rating >= dedicatedCircuit {
			out = append(out, fmt.Sprintf("%s: dedicated radial circuit with 30 mA RCD protection required (%.1f A)", name, h.Current))
		}
		if h.ReheatHours > 8 {
			out = append(out, fmt.Sprintf("%s: %.1f h reheat time, consider a larger element", name, h.ReheatHours))
		}
	}
	if res.DiversityFactor == 1.0 {
		out = append(out, "No diversity allowed for water heating in this installation type")
	}
	out = append(out, "Locations containing a bath or shower per BS 7671 Section 701")
	return out
}
