package lighting

import (
	"fmt"
	"math"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/installation"
)

type Room struct {
	Name              string   `json:"name" yaml:"name"`
	Area              float64  `json:"area" yaml:"area"`
	CeilingHeight     float64  `json:"ceiling_height,omitempty" yaml:"ceiling_height,omitempty"`
	RoomType          RoomType `json:"room_type" yaml:"room_type"`
	RequiredLux       *float64 `json:"required_lux,omitempty" yaml:"required_lux,omitempty"`
	UtilizationFactor *float64 `json:"utilization_factor,omitempty" yaml:"utilization_factor,omitempty"`
}

type Input struct {
	Rooms             []Room               `json:"rooms" yaml:"rooms"`
	LightingType      Type                 `json:"lighting_type" yaml:"lighting_type"`
	ControlSystem     ControlSystem        `json:"control_system" yaml:"control_system"`
	Installation      installation.Context `json:"installation" yaml:"installation"`
	LuminousEfficacy  *float64             `json:"luminous_efficacy,omitempty" yaml:"luminous_efficacy,omitempty"`
	MaintenanceFactor *float64             `json:"maintenance_factor,omitempty" yaml:"maintenance_factor,omitempty"`
}

type RoomResult struct {
	Name         string   `json:"name"`
	RoomType     RoomType `json:"room_type"`
	Area         float64  `json:"area"`
	Lux          float64  `json:"lux"`
	Power        float64  `json:"power"`
	PowerDensity float64  `json:"power_density"`
}

type Result struct {
	ConnectedLoad   float64      `json:"connected_load"`
	DemandLoad      float64      `json:"demand_load"`
	DiversityFactor float64      `json:"diversity_factor"`
	Current         float64      `json:"current"`
	RoomBreakdown   []RoomResult `json:"room_breakdown"`
	Recommendations []string     `json:"recommendations"`
}

func Calculate(in Input) (Result, error) {
	return CalculateWithPolicy(in, diversity.DefaultPolicy())
}

func CalculateWithPolicy(in Input, p diversity.Policy) (Result, error) {
	ctx, err := validate(in)
	if err != nil {
		return Result{}, err
	}

	efficacy := resolveEfficacy(in)
	mf := resolveMaintenance(in)

	res := Result{RoomBreakdown: make([]RoomResult, 0, len(in.Rooms))}
	for i, room := range in.Rooms {
		lux := resolveLux(room)
		uf := resolveUtilization(room)
		// lumen method: P = E·A / (η·UF·MF)
		power := lux * room.Area / (efficacy * uf * mf)
		if power < minRoomPower {
			power = minRoomPower
		}
		if err := installation.Finite(fmt.Sprintf("rooms[%d]", i), power, power/room.Area); err != nil {
			return Result{}, err
		}
		res.ConnectedLoad += power
		res.RoomBreakdown = append(res.RoomBreakdown, RoomResult{
			Name:         room.Name,
			RoomType:     room.RoomType,
			Area:         room.Area,
			Lux:          lux,
			Power:        power,
			PowerDensity: power / room.Area,
		})
	}

	res.DiversityFactor = diversity.Factor(diversity.Lighting, ctx.Type, controlModifier[in.ControlSystem], res.ConnectedLoad, p)
	res.DemandLoad = res.ConnectedLoad * res.DiversityFactor
	res.Current = installation.Current(res.DemandLoad, ctx.SupplyVoltage)
	if err := installation.Finite("rooms", res.ConnectedLoad, res.DemandLoad, res.Current); err != nil {
		return Result{}, err
	}
	res.Recommendations = recommendations(res)
	return res, nil
}

// Validate checks in without computing anything.
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
	if !in.LightingType.Valid() {
		return ctx, calcerr.Invalid("lighting_type", fmt.Sprintf("unknown value %q", in.LightingType))
	}
	if !in.ControlSystem.Valid() {
		return ctx, calcerr.Invalid("control_system", fmt.Sprintf("unknown value %q", in.ControlSystem))
	}
	if in.LuminousEfficacy != nil && !installation.Positive(*in.LuminousEfficacy) {
		return ctx, calcerr.Invalid("luminous_efficacy", "must be a positive number")
	}
	if in.MaintenanceFactor != nil && !fraction(*in.MaintenanceFactor) {
		return ctx, calcerr.Invalid("maintenance_factor", "must be in (0, 1]")
	}
	for i, room := range in.Rooms {
		field := fmt.Sprintf("rooms[%d]", i)
		if !installation.Positive(room.Area) {
			return ctx, calcerr.Invalid(field+".area", "must be a positive number")
		}
		if room.CeilingHeight != 0 && !installation.Positive(room.CeilingHeight) {
			return ctx, calcerr.Invalid(field+".ceiling_height", "must be a positive number")
		}
		if !room.RoomType.Valid() {
			return ctx, calcerr.Invalid(field+".room_type", fmt.Sprintf("unknown value %q", room.RoomType))
		}
		if room.RequiredLux != nil && !installation.Positive(*room.RequiredLux) {
			return ctx, calcerr.Invalid(field+".required_lux", "must be a positive number")
		}
		if room.UtilizationFactor != nil && !fraction(*room.UtilizationFactor) {
			return ctx, calcerr.Invalid(field+".utilization_factor", "must be in (0, 1]")
		}
	}
	return ctx, nil
}

func fraction(v float64) bool {
	return installation.Positive(v) && v <= 1
}

func resolveLux(r Room) float64 {
	return installation.Resolve(r.RequiredLux, rooms[r.RoomType].Lux)
}

// resolveUtilization derates the tabulated UF for tall rooms; an explicit
// override is used as given.
func resolveUtilization(r Room) float64 {
	uf := rooms[r.RoomType].UF
	if r.CeilingHeight > highCeiling {
		uf *= highCeilingUF
	}
	return installation.Resolve(r.UtilizationFactor, uf)
}

func resolveEfficacy(in Input) float64 {
	return installation.Resolve(in.LuminousEfficacy, lamps[in.LightingType].Efficacy)
}

func resolveMaintenance(in Input) float64 {
	return installation.Resolve(in.MaintenanceFactor, lamps[in.LightingType].Maintenance)
}

func recommendations(res Result) []string {
	out := []string{fmt.Sprintf("Lighting design current %.1f A", res.Current)}
	if res.Current > circuitLimit {
		n := int(math.Ceil(res.Current / circuitLimit))
		out = append(out, fmt.Sprintf("Split lighting across at least %d circuits (max %.0f A each)", n, circuitLimit))
	}
	for _, room := range res.RoomBreakdown {
		if room.PowerDensity > densityWarning {
			out = append(out, fmt.Sprintf("%s: %.1f W/m² is high, consider higher-efficacy luminaires", label(room), room.PowerDensity))
		}
	}
	out = append(out, "Luminaire installation per BS 7671 Section 559; illuminance per EN 12464-1")
	return out
}

func label(r RoomResult) string {
	if r.Name != "" {
		return r.Name
	}
	return string(r.RoomType)
}
