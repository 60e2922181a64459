// Package demand aggregates every load category of an installation into its
// maximum demand.
package demand

import (
	"errors"
	"fmt"
	"math"

	"Ampere/internal/calc/aircon"
	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/heating"
	"Ampere/internal/calc/installation"
	"Ampere/internal/calc/lighting"
	"Ampere/internal/calc/waterheating"
)

// Breakdown category names, in result order.
const (
	CategoryLighting        = "lighting"
	CategoryHeating         = "heating"
	CategoryWaterHeating    = "water_heating"
	CategoryAirConditioning = "air_conditioning"
	CategorySockets         = "sockets"
	CategoryCooking         = "cooking"
	CategorySpecialLoads    = "special_loads"
)

var Order = []string{
	CategoryLighting,
	CategoryHeating,
	CategoryWaterHeating,
	CategoryAirConditioning,
	CategorySockets,
	CategoryCooking,
	CategorySpecialLoads,
}

const (
	threePhaseThreshold       = 100.0 // A single-phase
	domesticApprovalThreshold = 17000.0
)

// main switch ratings offered below the three-phase threshold
var mainSwitches = []float64{60, 80, 100}

type Input struct {
	Installation    installation.Context `json:"installation" yaml:"installation"`
	Lighting        *lighting.Input      `json:"lighting" yaml:"lighting"`
	Heating         *heating.Input       `json:"heating" yaml:"heating"`
	WaterHeating    *waterheating.Input  `json:"water_heating" yaml:"water_heating"`
	AirConditioning *aircon.Input        `json:"air_conditioning" yaml:"air_conditioning"`
	NumberOfSockets int                  `json:"number_of_sockets" yaml:"number_of_sockets"`
	Cooking         []CookingAppliance   `json:"cooking" yaml:"cooking"`
	SpecialLoads    []SpecialLoad        `json:"special_loads" yaml:"special_loads"`
}

type CategoryLoad struct {
	Category        string  `json:"category"`
	ConnectedLoad   float64 `json:"connected_load"`
	DemandLoad      float64 `json:"demand_load"`
	DiversityFactor float64 `json:"diversity_factor"`
}

type CurrentBreakdown struct {
	SinglePhase float64 `json:"single_phase"`
	ThreePhase  float64 `json:"three_phase"`
}

// Details keeps the full category results; a category with no items is nil.
type Details struct {
	Lighting        *lighting.Result     `json:"lighting,omitempty"`
	Heating         *heating.Result      `json:"heating,omitempty"`
	WaterHeating    *waterheating.Result `json:"water_heating,omitempty"`
	AirConditioning *aircon.Result       `json:"air_conditioning,omitempty"`
}

type Result struct {
	TotalConnectedLoad       float64          `json:"total_connected_load"`
	TotalDemandLoad          float64          `json:"total_demand_load"`
	OverallDiversityFactor   float64          `json:"overall_diversity_factor"`
	CurrentBreakdown         CurrentBreakdown `json:"current_breakdown"`
	Breakdown                []CategoryLoad   `json:"breakdown"`
	ThreePhaseRecommended    bool             `json:"three_phase_recommended"`
	MainSwitchRating         float64          `json:"main_switch_rating,omitempty"`
	OperatorApprovalRequired bool             `json:"operator_approval_required"`
	Details                  Details          `json:"details"`
	Recommendations          []string         `json:"recommendations"`
}

func Calculate(in Input) (Result, error) {
	return CalculateWithPolicy(in, diversity.DefaultPolicy())
}

func CalculateWithPolicy(in Input, p diversity.Policy) (Result, error) {
	ctx, err := validate(in)
	if err != nil {
		return Result{}, err
	}

	var res Result
	loads := make(map[string]CategoryLoad, len(Order))

	if len(in.Lighting.Rooms) > 0 {
		sub := *in.Lighting
		sub.Installation = ctx
		r, err := lighting.CalculateWithPolicy(sub, p)
		if err != nil {
			return Result{}, scoped(CategoryLighting, err)
		}
		res.Details.Lighting = &r
		loads[CategoryLighting] = load(CategoryLighting, r.ConnectedLoad, r.DemandLoad)
	}
	if len(in.Heating.Rooms) > 0 {
		sub := *in.Heating
		sub.Installation = ctx
		r, err := heating.CalculateWithPolicy(sub, p)
		if err != nil {
			return Result{}, scoped(CategoryHeating, err)
		}
		res.Details.Heating = &r
		loads[CategoryHeating] = load(CategoryHeating, r.ConnectedLoad, r.DemandLoad)
	}
	if len(in.WaterHeating.Heaters) > 0 {
		sub := *in.WaterHeating
		sub.Installation = ctx
		r, err := waterheating.CalculateWithPolicy(sub, p)
		if err != nil {
			return Result{}, scoped(CategoryWaterHeating, err)
		}
		res.Details.WaterHeating = &r
		loads[CategoryWaterHeating] = load(CategoryWaterHeating, r.ConnectedLoad, r.DemandLoad)
	}
	if len(in.AirConditioning.Units) > 0 {
		sub := *in.AirConditioning
		sub.Installation = ctx
		r, err := aircon.CalculateWithPolicy(sub, p)
		if err != nil {
			return Result{}, scoped(CategoryAirConditioning, err)
		}
		res.Details.AirConditioning = &r
		loads[CategoryAirConditioning] = load(CategoryAirConditioning, r.ConnectedLoad, r.DemandLoad)
	}

	c, d := SocketDemand(in.NumberOfSockets, ctx.Type)
	loads[CategorySockets] = load(CategorySockets, c, d)
	c, d = CookingDemand(in.Cooking)
	if err := installation.Finite("cooking", c, d); err != nil {
		return Result{}, err
	}
	loads[CategoryCooking] = load(CategoryCooking, c, d)
	c, d = SpecialDemand(in.SpecialLoads)
	if err := installation.Finite("special_loads", c, d); err != nil {
		return Result{}, err
	}
	loads[CategorySpecialLoads] = load(CategorySpecialLoads, c, d)

	res.Breakdown = make([]CategoryLoad, 0, len(Order))
	for _, name := range Order {
		l, ok := loads[name]
		if !ok {
			l = CategoryLoad{Category: name}
		}
		res.Breakdown = append(res.Breakdown, l)
		res.TotalConnectedLoad += l.ConnectedLoad
		res.TotalDemandLoad += l.DemandLoad
	}
	res.OverallDiversityFactor = ratio(res.TotalDemandLoad, res.TotalConnectedLoad)
	res.CurrentBreakdown = CurrentBreakdown{
		SinglePhase: res.TotalDemandLoad / ctx.SupplyVoltage,
		ThreePhase:  res.TotalDemandLoad / (ctx.SupplyVoltage * math.Sqrt(3)),
	}
	if err := installation.Finite("installation", res.TotalConnectedLoad, res.TotalDemandLoad, res.CurrentBreakdown.SinglePhase); err != nil {
		return Result{}, err
	}
	applyPolicy(&res, ctx)
	return res, nil
}

func load(name string, connected, demand float64) CategoryLoad {
	return CategoryLoad{
		Category:        name,
		ConnectedLoad:   connected,
		DemandLoad:      demand,
		DiversityFactor: ratio(demand, connected),
	}
}

func ratio(demand, connected float64) float64 {
	if connected == 0 {
		return 0
	}
	return demand / connected
}

func validate(in Input) (installation.Context, error) {
	if in.Installation.Type == "" {
		return in.Installation, &calcerr.MissingCategoryError{Category: "installation_type"}
	}
	ctx, err := in.Installation.Validate()
	if err != nil {
		return ctx, err
	}
	switch {
	case in.Lighting == nil:
		return ctx, &calcerr.MissingCategoryError{Category: CategoryLighting}
	case in.Heating == nil:
		return ctx, &calcerr.MissingCategoryError{Category: CategoryHeating}
	case in.WaterHeating == nil:
		return ctx, &calcerr.MissingCategoryError{Category: CategoryWaterHeating}
	case in.AirConditioning == nil:
		return ctx, &calcerr.MissingCategoryError{Category: CategoryAirConditioning}
	}
	if err := validateCategories(in, ctx); err != nil {
		return ctx, err
	}
	if in.NumberOfSockets < 0 {
		return ctx, &calcerr.InvalidCountError{Field: "number_of_sockets", Value: in.NumberOfSockets}
	}
	if err := validateCooking(in.Cooking); err != nil {
		return ctx, err
	}
	return ctx, validateSpecial(in.SpecialLoads)
}

// validateCategories checks every non-empty category under the shared context
// before any of them is calculated.
func validateCategories(in Input, ctx installation.Context) error {
	if len(in.Lighting.Rooms) > 0 {
		sub := *in.Lighting
		sub.Installation = ctx
		if err := lighting.Validate(sub); err != nil {
			return scoped(CategoryLighting, err)
		}
	}
	if len(in.Heating.Rooms) > 0 {
		sub := *in.Heating
		sub.Installation = ctx
		if err := heating.Validate(sub); err != nil {
			return scoped(CategoryHeating, err)
		}
	}
	if len(in.WaterHeating.Heaters) > 0 {
		sub := *in.WaterHeating
		sub.Installation = ctx
		if err := waterheating.Validate(sub); err != nil {
			return scoped(CategoryWaterHeating, err)
		}
	}
	if len(in.AirConditioning.Units) > 0 {
		sub := *in.AirConditioning
		sub.Installation = ctx
		if err := aircon.Validate(sub); err != nil {
			return scoped(CategoryAirConditioning, err)
		}
	}
	return nil
}

// scoped prefixes a category calculator's field with the category name.
func scoped(category string, err error) error {
	var inv *calcerr.InvalidInputError
	if errors.As(err, &inv) {
		return calcerr.Invalid(category+"."+inv.Field, inv.Reason)
	}
	return fmt.Errorf("%s: %w", category, err)
}

func applyPolicy(res *Result, ctx installation.Context) {
	i := res.CurrentBreakdown.SinglePhase
	res.Recommendations = append(res.Recommendations,
		fmt.Sprintf("Maximum demand %.1f kW (%.1f A single-phase, %.1f A per phase three-phase)",
			res.TotalDemandLoad/1000, i, res.CurrentBreakdown.ThreePhase))

	if i > threePhaseThreshold {
		res.ThreePhaseRecommended = true
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Single-phase demand exceeds %.0f A: a three-phase supply is recommended", threePhaseThreshold))
	} else {
		for _, rating := range mainSwitches {
			if i <= rating {
				res.MainSwitchRating = rating
				res.Recommendations = append(res.Recommendations, fmt.Sprintf("%.0f A main switch recommended", rating))
				break
			}
		}
	}

	if ctx.Type == installation.Domestic && res.TotalDemandLoad > domesticApprovalThreshold {
		res.OperatorApprovalRequired = true
		res.Recommendations = append(res.Recommendations,
			fmt.Sprintf("Domestic demand above %.0f kW: distribution network operator approval may be required", domesticApprovalThreshold/1000))
	}
	res.Recommendations = append(res.Recommendations, "Maximum demand and diversity assessed per BS 7671 Regulation 311.1")
}
