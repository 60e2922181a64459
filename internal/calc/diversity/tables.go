package diversity

import "Ampere/internal/calc/installation"

type Category string

const (
	Lighting        Category = "lighting"
	Heating         Category = "heating"
	WaterHeating    Category = "water_heating"
	AirConditioning Category = "air_conditioning"
)

var Categories = []Category{Lighting, Heating, WaterHeating, AirConditioning}

// base holds the starting diversity per category and installation type.
// Domestic heating and water heating are fixed at 100% and never read from here.
var base = map[Category]map[installation.Type]float64{
	Lighting: {
		installation.Domestic:     0.90,
		installation.Commercial:   0.90,
		installation.Industrial:   0.95,
		installation.Agricultural: 0.85,
		installation.Healthcare:   1.00,
		installation.Educational:  0.90,
		installation.Retail:       0.95,
	},
	Heating: {
		installation.Domestic:     1.00,
		installation.Commercial:   0.90,
		installation.Industrial:   0.95,
		installation.Agricultural: 0.80,
		installation.Healthcare:   1.00,
		installation.Educational:  0.85,
		installation.Retail:       0.90,
	},
	WaterHeating: {
		installation.Domestic:     1.00,
		installation.Commercial:   0.80,
		installation.Industrial:   0.85,
		installation.Agricultural: 0.75,
		installation.Healthcare:   0.90,
		installation.Educational:  0.70,
		installation.Retail:       0.75,
	},
	AirConditioning: {
		installation.Domestic:     0.80,
		installation.Commercial:   0.90,
		installation.Industrial:   0.95,
		installation.Agricultural: 0.75,
		installation.Healthcare:   1.00,
		installation.Educational:  0.85,
		installation.Retail:       0.90,
	},
}

// breakpoints reduce diversity further for very large connected loads (W).
// Only the highest breakpoint exceeded applies.
type breakpoints struct {
	First     float64
	FirstMul  float64
	Second    float64
	SecondMul float64
}

var sizeBreakpoints = map[Category]breakpoints{
	Lighting:        {First: 10_000, FirstMul: 0.95, Second: 50_000, SecondMul: 0.90},
	Heating:         {First: 20_000, FirstMul: 0.95, Second: 100_000, SecondMul: 0.90},
	WaterHeating:    {First: 15_000, FirstMul: 0.95, Second: 60_000, SecondMul: 0.90},
	AirConditioning: {First: 20_000, FirstMul: 0.95, Second: 100_000, SecondMul: 0.90},
}

var defaultFloors = map[Category]float64{
	Lighting:        0.50,
	Heating:         0.60,
	WaterHeating:    0.50,
	AirConditioning: 0.60,
}

type Occupancy string

const (
	Continuous   Occupancy = "continuous"
	Daytime      Occupancy = "daytime"
	Intermittent Occupancy = "intermittent"
	Occasional   Occupancy = "occasional"
)

var Occupancies = []Occupancy{Continuous, Daytime, Intermittent, Occasional}

var occupancyFactor = map[Occupancy]float64{
	Continuous:   1.00,
	Daytime:      0.90,
	Intermittent: 0.80,
	Occasional:   0.70,
}

func (o Occupancy) Valid() bool {
	_, ok := occupancyFactor[o]
	return ok
}

const (
	zoneControlFactor = 0.95
	thermostatFactor  = 0.95
)
