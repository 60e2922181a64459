// Package autodesign sizes a complete final circuit from its load: design
// current, correction factors, conductor and protective device.
package autodesign

import (
	"math"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/derating"
	"Ampere/internal/calc/installation"
	"Ampere/internal/calc/premium/recommend"
)

type Input struct {
	Name               string             `json:"name"`
	LoadKW             float64            `json:"load_kw"`
	PowerFactor        *float64           `json:"power_factor,omitempty"`
	Phases             int                `json:"phases"`
	Length             float64            `json:"length"`
	InstallationMethod cable.Method       `json:"installation_method"`
	LoadType           recommend.LoadType `json:"load_type,omitempty"`
	AmbientTemperature float64            `json:"ambient_temperature"`
	GroupedCircuits    int                `json:"grouped_circuits"`
	InsulationLength   float64            `json:"insulation_length"`
	IsBuried           bool               `json:"is_buried"`
	SoilResistivity    float64            `json:"soil_thermal_resistivity,omitempty"`
	Material           derating.Material  `json:"insulation_material,omitempty"`
	VoltageDropLimit   *float64           `json:"voltage_drop_limit,omitempty"`
}

type Result struct {
	Name          string           `json:"name"`
	DesignCurrent float64          `json:"design_current"`
	Derating      derating.Result  `json:"derating"`
	Cable         cable.Result     `json:"cable"`
	Device        recommend.Result `json:"device"`
	Compliant     bool             `json:"compliant"`
	Notes         string           `json:"notes"`
}

const defaultPowerFactor = 0.9

func designCurrent(in Input) float64 {
	pf := installation.Resolve(in.PowerFactor, defaultPowerFactor)
	w := in.LoadKW * 1000
	if in.Phases == 3 {
		return w / (math.Sqrt(3) * installation.NominalLineVoltage * pf)
	}
	return w / (installation.NominalVoltage * pf)
}

func Circuit(in Input) (Result, error) {
	if !installation.Positive(in.LoadKW) {
		return Result{}, calcerr.Invalid("load_kw", "must be a positive number")
	}
	if in.PowerFactor != nil && (!installation.Positive(*in.PowerFactor) || *in.PowerFactor > 1) {
		return Result{}, calcerr.Invalid("power_factor", "must be in (0, 1]")
	}
	if !installation.Positive(in.Length) {
		return Result{}, calcerr.Invalid("length", "must be a positive number")
	}
	if in.Phases != 1 && in.Phases != 3 {
		return Result{}, calcerr.Invalid("phases", "must be 1 or 3")
	}
	ib := designCurrent(in)

	// factors only depend on conditions, so size against Ib first
	der, err := derating.Calculate(conditions(in, ib))
	if err != nil {
		return Result{}, err
	}
	sized, err := cable.Calculate(cable.Input{
		DesignCurrent:      ib,
		Length:             in.Length,
		InstallationMethod: in.InstallationMethod,
		Phases:             in.Phases,
		PowerFactor:        in.PowerFactor,
		GroupingFactor:     ptr(der.GroupingFactor),
		AmbientFactor:      ptr(der.AmbientTempFactor * der.BuriedFactor),
		InsulationFactor:   ptr(der.ThermalInsulationFactor),
		VoltageDropLimit:   in.VoltageDropLimit,
	})
	if err != nil {
		return Result{}, err
	}
	der, err = derating.Calculate(withRating(conditions(in, ib), sized.CurrentCarryingCapacity, ib))
	if err != nil {
		return Result{}, err
	}
	dev, err := recommend.Device(recommend.Input{
		DesignCurrent: ib,
		CableCapacity: der.DeratedCurrent,
		LoadType:      in.LoadType,
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Name:          in.Name,
		DesignCurrent: ib,
		Derating:      der,
		Cable:         sized,
		Device:        dev,
		Compliant:     sized.ThermalCheck && sized.VoltageDropCheck && dev.Coordinated,
	}
	if res.Compliant {
		res.Notes = "Auto-sized circuit: cable, drop and protection coordinate."
	} else {
		res.Notes = "No compliant standard design: see cable and device notes."
	}
	return res, nil
}

func conditions(in Input, ib float64) derating.Input {
	return derating.Input{
		InstallationMethod: in.InstallationMethod,
		AmbientTemperature: in.AmbientTemperature,
		GroupedCircuits:    in.GroupedCircuits,
		InsulationLength:   in.InsulationLength,
		TotalLength:        in.Length,
		IsBuried:           in.IsBuried,
		SoilResistivity:    in.SoilResistivity,
		OriginalRating:     ib,
		Material:           in.Material,
	}
}

func withRating(d derating.Input, rating, ib float64) derating.Input {
	d.OriginalRating = rating
	d.DesignCurrent = &ib
	return d
}

func ptr(v float64) *float64 { return &v }
