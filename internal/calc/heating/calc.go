package heating

import (
	"fmt"
	"math"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/installation"
)

type HeaterType string

const (
	Convector    HeaterType = "convector"
	Panel        HeaterType = "panel"
	StorageHeat  HeaterType = "storage"
	Underfloor   HeaterType = "underfloor"
	Radiant      HeaterType = "radiant"
	HeatPumpUnit HeaterType = "heat_pump"
)

// Typical installed heat density (W/m³) above which a room looks oversized.
var maxDensity = map[HeaterType]float64{
	Convector:    60,
	Panel:        60,
	StorageHeat:  80,
	Underfloor:   50,
	Radiant:      70,
	HeatPumpUnit: 40,
}

func (h HeaterType) Valid() bool {
	_, ok := maxDensity[h]
	return ok
}

type ControlSystem string

const (
	Manual       ControlSystem = "manual"
	Thermostatic ControlSystem = "thermostatic"
	Programmable ControlSystem = "programmable"
	Smart        ControlSystem = "smart"
)

var controlModifier = map[ControlSystem]float64{
	Manual:       1.00,
	Thermostatic: 0.95,
	Programmable: 0.90,
	Smart:        0.85,
}

func (c ControlSystem) Valid() bool {
	_, ok := controlModifier[c]
	return ok
}

const circuitLimit = 20.0 // A

type Room struct {
	Name          string     `json:"name" yaml:"name"`
	Area          float64    `json:"area" yaml:"area"`
	CeilingHeight float64    `json:"ceiling_height,omitempty" yaml:"ceiling_height,omitempty"`
	HeaterType    HeaterType `json:"heater_type" yaml:"heater_type"`
	RatedPower    float64    `json:"rated_power" yaml:"rated_power"`
	Quantity      int        `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

type Input struct {
	Rooms              []Room               `json:"rooms" yaml:"rooms"`
	ControlSystem      ControlSystem        `json:"control_system" yaml:"control_system"`
	Occupancy          diversity.Occupancy  `json:"occupancy" yaml:"occupancy"`
	ZoneControl        bool                 `json:"zone_control" yaml:"zone_control"`
	Thermostat         bool                 `json:"thermostat" yaml:"thermostat"`
	SimultaneousFactor *float64             `json:"simultaneous_factor,omitempty" yaml:"simultaneous_factor,omitempty"`
	Installation       installation.Context `json:"installation" yaml:"installation"`
}

type RoomResult struct {
	Name         string     `json:"name"`
	HeaterType   HeaterType `json:"heater_type"`
	Area         float64    `json:"area"`
	Volume       float64    `json:"volume"`
	Power        float64    `json:"power"`
	DensityPerM3 float64    `json:"density_per_m3"`
}

type Result struct {
	ConnectedLoad      float64      `json:"connected_load"`
	DemandLoad         float64      `json:"demand_load"`
	SimultaneityFactor float64      `json:"simultaneity_factor"`
	DiversityFactor    float64      `json:"diversity_factor"`
	Current            float64      `json:"current"`
	RoomBreakdown      []RoomResult `json:"room_breakdown"`
	Recommendations    []string     `json:"recommendations"`
}

const defaultCeilingHeight = 2.4

func Calculate(in Input) (Result, error) {
	return CalculateWithPolicy(in, diversity.DefaultPolicy())
}

func CalculateWithPolicy(in Input, p diversity.Policy) (Result, error) {
	ctx, err := validate(in)
	if err != nil {
		return Result{}, err
	}

	res := Result{RoomBreakdown: make([]RoomResult, 0, len(in.Rooms))}
	for i, room := range in.Rooms {
		h := room.CeilingHeight
		if h == 0 {
			h = defaultCeilingHeight
		}
		power := room.RatedPower * float64(installation.Quantity(room.Quantity))
		volume := room.Area * h
		if err := installation.Finite(fmt.Sprintf("rooms[%d]", i), power, volume, power/volume); err != nil {
			return Result{}, err
		}
		res.ConnectedLoad += power
		res.RoomBreakdown = append(res.RoomBreakdown, RoomResult{
			Name:         room.Name,
			HeaterType:   room.HeaterType,
			Area:         room.Area,
			Volume:       volume,
			Power:        power,
			DensityPerM3: power / volume,
		})
	}

	res.SimultaneityFactor = resolveSimultaneity(in)
	res.DiversityFactor = diversity.Factor(diversity.Heating, ctx.Type, controlModifier[in.ControlSystem], res.ConnectedLoad, p)
	res.DemandLoad = res.ConnectedLoad * res.SimultaneityFactor * res.DiversityFactor
	res.Current = installation.Current(res.DemandLoad, ctx.SupplyVoltage)
	if err := installation.Finite("rooms", res.ConnectedLoad, res.DemandLoad, res.Current); err != nil {
		return Result{}, err
	}
	res.Recommendations = recommendations(res)
	return res, nil
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
	if len(in.Rooms) == 0 {
		return ctx, calcerr.Invalid("rooms", "at least one room is required")
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
	for i, room := range in.Rooms {
		field := fmt.Sprintf("rooms[%d]", i)
		if !installation.Positive(room.Area) {
			return ctx, calcerr.Invalid(field+".area", "must be a positive number")
		}
		if room.CeilingHeight != 0 && !installation.Positive(room.CeilingHeight) {
			return ctx, calcerr.Invalid(field+".ceiling_height", "must be a positive number")
		}
		if !room.HeaterType.Valid() {
			return ctx, calcerr.Invalid(field+".heater_type", fmt.Sprintf("unknown value %q", room.HeaterType))
		}
		if !installation.Positive(room.RatedPower) {
			return ctx, calcerr.Invalid(field+".rated_power", "must be a positive number")
		}
		if room.Quantity < 0 {
			return ctx, calcerr.Invalid(field+".quantity", "must not be negative")
		}
	}
	return ctx, nil
}

func recommendations(res Result) []string {
	out := []string{fmt.Sprintf("Space heating design current %.1f A", res.Current)}
	if res.Current > circuitLimit {
		n := int(math.Ceil(res.Current / circuitLimit))
		out = append(out, fmt.Sprintf("Supply heaters from at least %d radial circuits (max %.0f A each)", n, circuitLimit))
	}
	for _, room := range res.RoomBreakdown {
		if room.DensityPerM3 > maxDensity[room.HeaterType] {
			name := room.Name
			if name == "" {
				name = string(room.HeaterType)
			}
			out = append(out, fmt.Sprintf("%s: %.0f W/m³ exceeds typical %s sizing, check heat-loss calculation", name, room.DensityPerM3, room.HeaterType))
		}
	}
	if res.DiversityFactor == 1.0 {
		out = append(out, "No diversity allowed for fixed space heating in this installation type")
	}
	out = append(out, "Heating circuits per BS 7671 Section 753 where embedded heating is used")
	return out
}
