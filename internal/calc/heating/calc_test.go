package heating

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/installation"
)

func validInput() Input {
	return Input{
		Rooms: []Room{
			{Name: "Lounge", Area: 20, CeilingHeight: 2.5, HeaterType: Panel, RatedPower: 1500, Quantity: 2},
			{Name: "Bedroom", Area: 12, HeaterType: Convector, RatedPower: 1000},
		},
		ControlSystem: Thermostatic,
		Occupancy:     diversity.Continuous,
		Installation:  installation.Context{Type: installation.Domestic, Phases: 1},
	}
}

func TestCalculate_DomesticIsFullDiversity(t *testing.T) {
	res, err := Calculate(validInput())
	require.NoError(t, err)
	assert.Equal(t, 4000.0, res.ConnectedLoad)
	assert.Equal(t, 1.0, res.DiversityFactor)
	assert.Equal(t, 1.0, res.SimultaneityFactor)
	assert.Equal(t, 4000.0, res.DemandLoad)
	require.Len(t, res.RoomBreakdown, 2)
	assert.InDelta(t, 50.0, res.RoomBreakdown[0].Volume, 1e-9)
	assert.InDelta(t, 12*2.4, res.RoomBreakdown[1].Volume, 1e-9)
}

func TestCalculate_SimultaneityAppliedBeforeDiversity(t *testing.T) {
	in := validInput()
	in.Installation.Type = installation.Commercial
	in.Occupancy = diversity.Daytime
	in.ZoneControl = true
	in.Thermostat = true

	res, err := Calculate(in)
	require.NoError(t, err)
	sim := 0.9 * 0.95 * 0.95
	assert.InDelta(t, sim, res.SimultaneityFactor, 1e-12)
	assert.InDelta(t, 0.9*0.95, res.DiversityFactor, 1e-12)
	assert.InDelta(t, 4000*sim*0.9*0.95, res.DemandLoad, 1e-9)
	assert.LessOrEqual(t, res.DemandLoad, res.ConnectedLoad)
}

func TestCalculate_SimultaneousOverride(t *testing.T) {
	in := validInput()
	f := 0.5
	in.SimultaneousFactor = &f
	in.Occupancy = diversity.Occasional
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.SimultaneityFactor)
	assert.Equal(t, 2000.0, res.DemandLoad)
}

func TestCalculate_FloorAndPolicy(t *testing.T) {
	in := validInput()
	in.Installation.Type = installation.Agricultural
	in.ControlSystem = Smart
	in.Rooms = []Room{{Area: 500, HeaterType: Radiant, RatedPower: 30_000, Quantity: 5}}

	res, err := Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, 0.8*0.85*0.9, res.DiversityFactor, 1e-12)

	p, err := diversity.DefaultPolicy().WithFloors(map[diversity.Category]float64{diversity.Heating: 0.65})
	require.NoError(t, err)
	res, err = CalculateWithPolicy(in, p)
	require.NoError(t, err)
	assert.Equal(t, 0.65, res.DiversityFactor)
	assert.Contains(t, res.Recommendations[1], "radial circuits")
}

func TestCalculate_Validation(t *testing.T) {
	cases := map[string]struct {
		edit  func(*Input)
		field string
	}{
		"empty rooms":     {func(in *Input) { in.Rooms = []Room{} }, "rooms"},
		"zero power":      {func(in *Input) { in.Rooms[0].RatedPower = 0 }, "rooms[0].rated_power"},
		"bad heater":      {func(in *Input) { in.Rooms[1].HeaterType = "fire" }, "rooms[1].heater_type"},
		"negative qty":    {func(in *Input) { in.Rooms[0].Quantity = -2 }, "rooms[0].quantity"},
		"bad occupancy":   {func(in *Input) { in.Occupancy = "" }, "occupancy"},
		"bad control":     {func(in *Input) { in.ControlSystem = "remote" }, "control_system"},
		"three and a bit": {func(in *Input) { in.Installation.Phases = 2 }, "phases"},
		"phases unset":    {func(in *Input) { in.Installation.Phases = 0 }, "phases"},
		"power overflow":  {func(in *Input) { in.Rooms[0].RatedPower = 1e308 }, "rooms[0]"},
		"tiny supply":     {func(in *Input) { in.Installation.SupplyVoltage = 1e-310 }, "rooms"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			_, err := Calculate(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, calcerr.ErrInvalidInput))
			assert.Equal(t, tc.field, calcerr.Field(err))
		})
	}
}
