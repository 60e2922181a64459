package recommend

import (
	"fmt"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/installation"
)

type LoadType string

const (
	Resistive   LoadType = "resistive"
	Lighting    LoadType = "lighting"
	Sockets     LoadType = "sockets"
	Motor       LoadType = "motor"
	Inductive   LoadType = "inductive"
	Transformer LoadType = "transformer"
	Welder      LoadType = "welder"
)

type Curve string

const (
	CurveB Curve = "B"
	CurveC Curve = "C"
	CurveD Curve = "D"
)

var curveFor = map[LoadType]Curve{
	Resistive:   CurveB,
	Lighting:    CurveB,
	Sockets:     CurveB,
	Motor:       CurveC,
	Inductive:   CurveC,
	Transformer: CurveD,
	Welder:      CurveD,
}

// instantaneous trip multiple of In per curve
var tripMultiple = map[Curve]float64{CurveB: 5, CurveC: 10, CurveD: 20}

const zsMargin = 0.95

func (l LoadType) Valid() bool {
	_, ok := curveFor[l]
	return ok
}

type Input struct {
	DesignCurrent float64  `json:"design_current"`
	CableCapacity float64  `json:"cable_capacity"` // Iz
	LoadType      LoadType `json:"load_type"`
	Voltage       *float64 `json:"voltage,omitempty"` // U0
}

type Result struct {
	Curve       Curve   `json:"curve"`
	Rating      float64 `json:"rating"`
	TripCurrent float64 `json:"trip_current"`
	MaxZs       float64 `json:"max_zs"` // Ω
	Coordinated bool    `json:"coordinated"`
	Notes       string  `json:"notes"`
}

// Device picks the MCB curve for the load and the smallest rating with
// Ib ≤ In ≤ Iz. If the cable cannot be coordinated the next rating above Ib
// is given with Coordinated false.
func Device(in Input) (Result, error) {
	if !installation.Positive(in.DesignCurrent) {
		return Result{}, calcerr.Invalid("design_current", "must be a positive number")
	}
	if !installation.Positive(in.CableCapacity) {
		return Result{}, calcerr.Invalid("cable_capacity", "must be a positive number")
	}
	if in.LoadType == "" {
		in.LoadType = Resistive
	}
	if !in.LoadType.Valid() {
		return Result{}, calcerr.Invalid("load_type", fmt.Sprintf("unknown value %q", in.LoadType))
	}
	if in.Voltage != nil && !installation.Positive(*in.Voltage) {
		return Result{}, calcerr.Invalid("voltage", "must be a positive number")
	}
	u0 := installation.Resolve(in.Voltage, installation.NominalVoltage)

	res := Result{Curve: curveFor[in.LoadType]}
	res.Rating = cable.Protection(in.DesignCurrent, in.CableCapacity)
	res.Coordinated = res.Rating > 0
	if !res.Coordinated {
		for _, r := range cable.DeviceRatings {
			if r >= in.DesignCurrent {
				res.Rating = r
				break
			}
		}
	}
	if res.Rating == 0 {
		return Result{}, calcerr.Invalid("design_current", fmt.Sprintf("above the largest device rating %.0f A", cable.DeviceRatings[len(cable.DeviceRatings)-1]))
	}

	k := tripMultiple[res.Curve]
	res.TripCurrent = k * res.Rating
	res.MaxZs = zsMargin * u0 / res.TripCurrent
	res.Notes = fmt.Sprintf("Type %s %.0f A MCB, Zs ≤ %.2f Ω for 0.4 s disconnection", res.Curve, res.Rating, res.MaxZs)
	if !res.Coordinated {
		res.Notes += fmt.Sprintf("; cable Iz %.1f A is below In, upsize the cable", in.CableCapacity)
	}
	return res, nil
}
