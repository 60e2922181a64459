package derating

import "Ampere/internal/calc/cable"

type Material string

const (
	PVC  Material = "pvc"
	XLPE Material = "xlpe"
)

func (m Material) Valid() bool {
	return m == PVC || m == XLPE
}

// step is one row of a threshold table: factor applies up to and including At.
type step struct {
	At     float64
	Factor float64
}

// lookup returns the factor of the first row whose threshold is ≥ v, and
// false when v lies beyond the table.
func lookup(rows []step, v float64) (float64, bool) {
	for _, r := range rows {
		if v <= r.At {
			return r.Factor, true
		}
	}
	return 0, false
}

// Grouping factors by number of circuits, per method class.
var (
	groupEnclosed = []step{{1, 1}, {2, 0.8}, {3, 0.7}, {4, 0.65}, {5, 0.6}, {6, 0.57}, {7, 0.54}, {8, 0.52}, {9, 0.5}, {12, 0.45}, {16, 0.41}, {20, 0.38}}
	groupClipped  = []step{{1, 1}, {2, 0.85}, {3, 0.79}, {4, 0.75}, {5, 0.73}, {6, 0.72}, {7, 0.72}, {8, 0.71}, {9, 0.70}}
	groupTray     = []step{{1, 1}, {2, 0.88}, {3, 0.82}, {4, 0.77}, {5, 0.75}, {6, 0.73}, {7, 0.73}, {8, 0.72}, {9, 0.72}}
	groupBuried   = []step{{1, 1}, {2, 0.85}, {3, 0.75}, {4, 0.70}, {5, 0.65}, {6, 0.60}}
)

func groupingTable(m cable.Method) []step {
	switch m {
	case cable.MethodA, cable.MethodB:
		return groupEnclosed
	case cable.MethodC:
		return groupClipped
	case cable.MethodD:
		return groupBuried
	default:
		return groupTray
	}
}

const (
	airReference    = 30.0 // °C
	groundReference = 20.0 // °C
)

// Ambient temperature factors (°C) above the reference temperature.
var (
	ambientAir = map[Material][]step{
		PVC:  {{35, 0.94}, {40, 0.87}, {45, 0.79}, {50, 0.71}, {55, 0.61}, {60, 0.50}},
		XLPE: {{35, 0.96}, {40, 0.91}, {45, 0.87}, {50, 0.82}, {55, 0.76}, {60, 0.71}, {65, 0.65}, {70, 0.58}, {75, 0.50}, {80, 0.41}},
	}
	ambientGround = map[Material][]step{
		PVC:  {{25, 0.95}, {30, 0.89}, {35, 0.84}, {40, 0.77}, {45, 0.71}, {50, 0.63}},
		XLPE: {{25, 0.96}, {30, 0.93}, {35, 0.89}, {40, 0.85}, {45, 0.80}, {50, 0.76}, {55, 0.71}, {60, 0.65}},
	}
)

// Thermal insulation factors by length of run surrounded by insulation (m).
var insulation = []step{{0.05, 0.88}, {0.1, 0.78}, {0.2, 0.63}, {0.4, 0.51}}

const fullySurrounded = 0.5

// Buried factors by soil thermal resistivity (K·m/W).
var soil = []step{{1.5, 1.0}, {2.0, 0.93}, {2.5, 0.88}, {3.0, 0.82}}

const drySoil = 0.76
