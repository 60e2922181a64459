package cable

import "iter"

// Method is the reference installation method of a circuit.
type Method string

const (
	MethodA Method = "A" // enclosed in conduit in an insulated wall
	MethodB Method = "B" // enclosed in conduit or trunking on a wall
	MethodC Method = "C" // clipped direct
	MethodD Method = "D" // in ducts in the ground
	MethodE Method = "E" // multicore on a perforated tray in free air
	MethodF Method = "F" // single-core touching on a tray in free air
)

var Methods = []Method{MethodA, MethodB, MethodC, MethodD, MethodE, MethodF}

func (m Method) Valid() bool {
	_, ok := capacity[m]
	return ok
}

// Sizes is the standard copper conductor ladder (mm²), ascending.
var Sizes = []float64{1, 1.5, 2.5, 4, 6, 10, 16, 25, 35, 50, 70, 95, 120, 150, 185, 240, 300}

// Tabulated current-carrying capacity It (A) per method, aligned with Sizes.
// Two-core PVC copper, 70 °C conductor, 30 °C ambient.
var capacity = map[Method][]float64{
	MethodA: {11, 14.5, 19.5, 26, 34, 46, 61, 80, 99, 119, 151, 182, 210, 240, 273, 321, 367},
	MethodB: {13.5, 17.5, 24, 32, 41, 57, 76, 101, 125, 151, 192, 232, 269, 300, 341, 400, 458},
	MethodC: {15.5, 20, 27, 37, 47, 65, 87, 114, 141, 182, 234, 284, 330, 381, 436, 515, 594},
	MethodD: {17, 22, 29, 38, 47, 63, 81, 104, 125, 148, 183, 216, 246, 278, 312, 361, 408},
	MethodE: {17, 22, 30, 40, 51, 70, 94, 119, 148, 180, 232, 282, 328, 379, 434, 514, 593},
	MethodF: {18, 23, 31, 42, 54, 75, 100, 131, 162, 196, 251, 304, 352, 406, 463, 546, 629},
}

// Voltage drop coefficients (mV/A/m), aligned with Sizes.
var (
	mvSinglePhase = []float64{44, 29, 18, 11, 7.3, 4.4, 2.8, 1.75, 1.25, 0.93, 0.63, 0.46, 0.36, 0.29, 0.23, 0.18, 0.145}
	mvThreePhase  = []float64{38, 25, 15, 9.5, 6.4, 3.8, 2.4, 1.5, 1.1, 0.81, 0.55, 0.41, 0.33, 0.26, 0.21, 0.16, 0.135}
)

// DeviceRatings are the standard overcurrent device ratings In (A).
var DeviceRatings = []float64{6, 10, 16, 20, 25, 32, 40, 50, 63, 80, 100, 125, 160, 200, 250, 315, 400, 500, 630}

const (
	defaultPowerFactor = 0.9
	defaultDropLimit   = 5.0 // %
	lightingDropLimit  = 3.0 // %
	longRun            = 100.0
)

// Conductor is one rung of the size ladder for a given method.
type Conductor struct {
	Size       float64
	Capacity   float64
	MVPerAmpM1 float64
	MVPerAmpM3 float64
}

// mV returns the drop coefficient for the phase count.
func (c Conductor) mV(phases int) float64 {
	if phases == 3 {
		return c.MVPerAmpM3
	}
	return c.MVPerAmpM1
}

// Ladder yields the conductors for m from the smallest size upwards. It stops
// after the last standard size.
func Ladder(m Method) iter.Seq[Conductor] {
	caps := capacity[m]
	return func(yield func(Conductor) bool) {
		for i, size := range Sizes {
			if i >= len(caps) {
				return
			}
			c := Conductor{Size: size, Capacity: caps[i], MVPerAmpM1: mvSinglePhase[i], MVPerAmpM3: mvThreePhase[i]}
			if !yield(c) {
				return
			}
		}
	}
}

// Protection returns the smallest standard rating In with ib ≤ In ≤ iz, or 0.
func Protection(ib, iz float64) float64 {
	for _, in := range DeviceRatings {
		if in >= ib && in <= iz {
			return in
		}
		if in > iz {
			break
		}
	}
	return 0
}
