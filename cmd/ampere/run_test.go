package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/demand"
	"Ampere/internal/calc/lighting"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunCable(t *testing.T) {
	path := write(t, "cable.yml", "design_current: 32\nlength: 20\ninstallation_method: C\nphases: 1\nvoltage_drop_limit: 5\n")
	var out bytes.Buffer
	require.NoError(t, runCable(path, &out))

	var res cable.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, 4.0, res.RecommendedSize)
	assert.Equal(t, 32.0, res.ProtectionRequired)
}

func TestRunCable_Invalid(t *testing.T) {
	path := write(t, "cable.yml", "design_current: 0\nlength: 20\ninstallation_method: C\n")
	err := runCable(path, &bytes.Buffer{})
	assert.ErrorIs(t, err, calcerr.ErrInvalidInput)

	assert.Error(t, runCable(filepath.Join(t.TempDir(), "missing.yml"), &bytes.Buffer{}))

	path = write(t, "cable.yml", "design_current: 32\nlength: 20\ninstallation_method: C\n")
	err = runCable(path, &bytes.Buffer{})
	assert.Equal(t, "phases", calcerr.Field(err))
}

func TestRunDerate(t *testing.T) {
	path := write(t, "derate.json", `{"installation_method":"C","ambient_temperature":40,"grouped_circuits":2,"total_length":10,"original_rating":37}`)
	var out bytes.Buffer
	require.NoError(t, runDerate(path, &out))
	assert.Contains(t, out.String(), `"overall_derating"`)
}

const house = `
installation:
  installation_type: domestic
  phases: 1
lighting:
  rooms:
    - {name: Lounge, area: 25, room_type: living_room}
    - {name: Kitchen, area: 15, room_type: kitchen}
  lighting_type: led
  control_system: manual
heating: {}
water_heating: {}
air_conditioning: {}
number_of_sockets: 15
`

func TestRunDemand(t *testing.T) {
	path := write(t, "house.yml", house)
	var out bytes.Buffer
	require.NoError(t, runDemand(path, "", &out))

	var res demand.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Len(t, res.Breakdown, len(demand.Order))
	assert.Equal(t, 1250.0, res.Breakdown[4].DemandLoad)
	require.NotNil(t, res.Details.Lighting)
	assert.InDelta(t, 0.81, res.Details.Lighting.DiversityFactor, 1e-9)
}

func TestRunDemand_Floors(t *testing.T) {
	path := write(t, "house.yml", house)
	floors := write(t, "floors.yml", "lighting: 0.85\n")
	var out bytes.Buffer
	require.NoError(t, runDemand(path, floors, &out))

	var res demand.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.InDelta(t, 0.85, res.Details.Lighting.DiversityFactor, 1e-9)

	bad := write(t, "floors.yml", "lighting: 2\n")
	assert.Error(t, runDemand(path, bad, &bytes.Buffer{}))
}

func TestRunLighting(t *testing.T) {
	path := write(t, "lighting.yml", "rooms:\n  - {area: 20, room_type: office}\nlighting_type: led\ncontrol_system: timer\ninstallation:\n  installation_type: commercial\n  phases: 1\n")
	var out bytes.Buffer
	require.NoError(t, runLighting(path, &out))

	var res lighting.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Len(t, res.RoomBreakdown, 1)
}
