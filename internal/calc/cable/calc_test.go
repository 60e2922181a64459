package cable

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/metrics"
)

func ptr(v float64) *float64 { return &v }

func TestCalculate_RadialCircuit(t *testing.T) {
	res, err := Calculate(Input{DesignCurrent: 32, Length: 20, InstallationMethod: MethodC, Phases: 1, VoltageDropLimit: ptr(5)})
	require.NoError(t, err)

	assert.Equal(t, 4.0, res.RecommendedSize)
	assert.Equal(t, 37.0, res.CurrentCarryingCapacity)
	assert.True(t, res.ThermalCheck)
	assert.True(t, res.VoltageDropCheck)
	assert.False(t, res.BoundsExceeded)
	assert.InDelta(t, 11*32*20/(10*230.0), res.VoltageDrop, 1e-9)
	assert.InDelta(t, 7.04, res.VoltageDropVolts, 1e-9)
	assert.Equal(t, 32.0, res.ProtectionRequired)
	assert.InDelta(t, 230*32*0.9/1000, res.LoadPowerKW, 1e-9)
	assert.NoError(t, res.Err())
}

func TestCalculate_StepsUpForVoltageDrop(t *testing.T) {
	res, err := Calculate(Input{DesignCurrent: 32, Length: 50, InstallationMethod: MethodC, Phases: 1})
	require.NoError(t, err)

	// 4 mm² gives 7.65 %, 6 mm² 5.08 %
	assert.Equal(t, 10.0, res.RecommendedSize)
	assert.True(t, res.VoltageDropCheck)
	assert.LessOrEqual(t, res.VoltageDrop, 5.0)
	assert.GreaterOrEqual(t, res.CurrentCarryingCapacity, 32.0)
}

func TestCalculate_CorrectionFactors(t *testing.T) {
	res, err := Calculate(Input{
		DesignCurrent:      32,
		Length:             10,
		InstallationMethod: MethodC,
		Phases:             1,
		GroupingFactor:     ptr(0.7),
		AmbientFactor:      ptr(0.94),
	})
	require.NoError(t, err)

	assert.InDelta(t, 32/(0.7*0.94), res.EffectiveCurrent, 1e-9)
	// 48.6 A effective needs 10 mm² (65 A)
	assert.Equal(t, 10.0, res.RecommendedSize)
	assert.InDelta(t, 65*0.7*0.94, res.CorrectedCapacity, 1e-9)
	assert.Equal(t, 32.0, res.ProtectionRequired)
}

func TestCalculate_ThreePhase(t *testing.T) {
	res, err := Calculate(Input{DesignCurrent: 63, Length: 40, InstallationMethod: MethodE, Phases: 3})
	require.NoError(t, err)

	assert.Equal(t, 10.0, res.RecommendedSize)
	assert.InDelta(t, 3.8*63*40/(10*400.0), res.VoltageDrop, 1e-9)
	assert.Equal(t, 63.0, res.ProtectionRequired)
	assert.Greater(t, res.LoadPowerKW, 39.0)
}

func TestCalculate_LadderExhausted(t *testing.T) {
	res, err := Calculate(Input{DesignCurrent: 400, Length: 300, InstallationMethod: MethodA, Phases: 1})
	require.NoError(t, err)

	assert.True(t, res.BoundsExceeded)
	assert.Equal(t, Sizes[len(Sizes)-1], res.RecommendedSize)
	assert.False(t, res.ThermalCheck)
	assert.False(t, res.VoltageDropCheck)
	assert.Zero(t, res.ProtectionRequired)
	assert.Contains(t, strings.Join(res.Recommendations, "\n"), "No standard size")
	assert.ErrorIs(t, res.Err(), calcerr.ErrBoundsExceeded)
}

func TestCalculate_NoCoordinatingDevice(t *testing.T) {
	res, err := Calculate(Input{DesignCurrent: 33, Length: 20, InstallationMethod: MethodC, Phases: 1})
	require.NoError(t, err)

	assert.Equal(t, 4.0, res.RecommendedSize)
	assert.Zero(t, res.ProtectionRequired, "40 A exceeds Iz of 37 A")
	assert.Contains(t, strings.Join(res.Recommendations, "\n"), "No standard device rating")
}

func TestCalculate_SizeNonDecreasingInCurrent(t *testing.T) {
	for _, m := range Methods {
		for _, phases := range []int{1, 3} {
			prev := 0.0
			for ib := 1.0; ib <= 700; ib += 1.5 {
				res, err := Calculate(Input{DesignCurrent: ib, Length: 35, InstallationMethod: m, Phases: phases})
				require.NoError(t, err)
				require.GreaterOrEqual(t, res.RecommendedSize, prev, "method %s, %d phase, %.1f A", m, phases, ib)
				prev = res.RecommendedSize
			}
		}
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{DesignCurrent: 20, Length: 18, InstallationMethod: MethodB, Phases: 1, GroupingFactor: ptr(0.8)}
	a, err := Calculate(in)
	require.NoError(t, err)
	b, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCalculate_Validation(t *testing.T) {
	valid := func() Input {
		return Input{DesignCurrent: 32, Length: 20, InstallationMethod: MethodC, Phases: 1}
	}
	cases := map[string]struct {
		edit  func(*Input)
		field string
	}{
		"zero current":  {func(in *Input) { in.DesignCurrent = 0 }, "design_current"},
		"zero length":   {func(in *Input) { in.Length = 0 }, "length"},
		"method":        {func(in *Input) { in.InstallationMethod = "G" }, "installation_method"},
		"phases":        {func(in *Input) { in.Phases = 2 }, "phases"},
		"phases zero":   {func(in *Input) { in.Phases = 0 }, "phases"},
		"drop overflow": {func(in *Input) { in.DesignCurrent, in.Length = 1e308, 1e308 }, "length"},
		"tiny factor":   {func(in *Input) { in.DesignCurrent, in.GroupingFactor = 1e300, ptr(1e-10) }, "design_current"},
		"power factor":  {func(in *Input) { in.PowerFactor = ptr(1.2) }, "power_factor"},
		"grouping":      {func(in *Input) { in.GroupingFactor = ptr(0) }, "grouping_factor"},
		"ambient":       {func(in *Input) { in.AmbientFactor = ptr(-0.5) }, "ambient_temp_factor"},
		"insulation":    {func(in *Input) { in.InsulationFactor = ptr(1.5) }, "insulation_factor"},
		"drop limit":    {func(in *Input) { in.VoltageDropLimit = ptr(0) }, "voltage_drop_limit"},
		"supply volts":  {func(in *Input) { in.Voltage = ptr(-230) }, "voltage"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid()
			tc.edit(&in)
			res, err := Calculate(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, calcerr.ErrInvalidInput))
			assert.Equal(t, tc.field, calcerr.Field(err))
			assert.Zero(t, res.RecommendedSize)
		})
	}
}

func TestLadder(t *testing.T) {
	for _, m := range Methods {
		require.Len(t, capacity[m], len(Sizes), "method %s", m)
		var got []float64
		for c := range Ladder(m) {
			got = append(got, c.Size)
		}
		assert.Equal(t, Sizes, got, "method %s", m)
	}

	for c := range Ladder(MethodF) {
		if c.Size == 240 {
			assert.Equal(t, 546.0, c.Capacity)
		}
	}
}

func TestProtection(t *testing.T) {
	assert.Equal(t, 20.0, Protection(18, 27))
	assert.Equal(t, 32.0, Protection(32, 32))
	assert.Zero(t, Protection(33, 37))
	assert.Zero(t, Protection(700, 800))
}

func TestHandler(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := &Handler{Metrics: m}

	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"design_current":400,"length":300,"installation_method":"A","phases":1}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.BoundsExceeded)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BoundsExceeded))

	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"design_current":0,"length":20,"installation_method":"C"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"design_current"`)

	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"design_current":1e308,"length":1e308,"installation_method":"C","phases":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"length"`)
}
