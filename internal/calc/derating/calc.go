// Package derating computes the correction factors that reduce an existing
// cable's rated current under adverse installation conditions.
package derating

import (
	"fmt"
	"math"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/installation"
)

type Input struct {
	InstallationMethod cable.Method `json:"installation_method" yaml:"installation_method"`
	AmbientTemperature float64      `json:"ambient_temperature" yaml:"ambient_temperature"` // °C
	GroupedCircuits    int          `json:"grouped_circuits" yaml:"grouped_circuits"`
	InsulationLength   float64      `json:"insulation_length" yaml:"insulation_length"` // m
	TotalLength        float64      `json:"total_length" yaml:"total_length"`           // m
	IsBuried           bool         `json:"is_buried" yaml:"is_buried"`
	SoilResistivity    float64      `json:"soil_thermal_resistivity,omitempty" yaml:"soil_thermal_resistivity,omitempty"` // K·m/W
	OriginalRating     float64      `json:"original_rating" yaml:"original_rating"`                                       // A
	DesignCurrent      *float64     `json:"design_current,omitempty" yaml:"design_current,omitempty"`
	Material           Material     `json:"insulation_material,omitempty" yaml:"insulation_material,omitempty"`
}

type Result struct {
	GroupingFactor          float64  `json:"grouping_factor"`
	AmbientTempFactor       float64  `json:"ambient_temp_factor"`
	ThermalInsulationFactor float64  `json:"thermal_insulation_factor"`
	BuriedFactor            float64  `json:"buried_factor"`
	OverallDerating         float64  `json:"overall_derating"`
	DeratedCurrent          float64  `json:"derated_current"`
	RequiredRating          float64  `json:"required_rating,omitempty"`
	Adequate                *bool    `json:"adequate,omitempty"`
	Recommendations         []string `json:"recommendations"`
}

func Calculate(in Input) (Result, error) {
	material, err := validate(in)
	if err != nil {
		return Result{}, err
	}
	ambient, err := ambientFactor(in, material)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		GroupingFactor:          groupingFactor(in),
		AmbientTempFactor:       ambient,
		ThermalInsulationFactor: insulationFactor(in),
		BuriedFactor:            buriedFactor(in),
	}
	res.OverallDerating = res.GroupingFactor * res.AmbientTempFactor * res.ThermalInsulationFactor * res.BuriedFactor
	res.DeratedCurrent = in.OriginalRating * res.OverallDerating

	if in.DesignCurrent != nil {
		res.RequiredRating = *in.DesignCurrent / res.OverallDerating
		if err := installation.Finite("design_current", res.RequiredRating); err != nil {
			return Result{}, err
		}
		ok := res.DeratedCurrent >= *in.DesignCurrent
		res.Adequate = &ok
	}
	res.Recommendations = recommendations(in, res)
	return res, nil
}

func validate(in Input) (Material, error) {
	if !in.InstallationMethod.Valid() {
		return "", calcerr.Invalid("installation_method", fmt.Sprintf("unknown value %q, expected A-F", in.InstallationMethod))
	}
	if !installation.Positive(in.OriginalRating) {
		return "", calcerr.Invalid("original_rating", "must be a positive number")
	}
	if !installation.Positive(in.TotalLength) {
		return "", calcerr.Invalid("total_length", "must be a positive number")
	}
	if in.InsulationLength < 0 || in.InsulationLength > in.TotalLength || math.IsNaN(in.InsulationLength) {
		return "", calcerr.Invalid("insulation_length", "must be between 0 and total_length")
	}
	if in.GroupedCircuits < 0 {
		return "", calcerr.Invalid("grouped_circuits", "must not be negative")
	}
	if math.IsNaN(in.AmbientTemperature) || math.IsInf(in.AmbientTemperature, 0) {
		return "", calcerr.Invalid("ambient_temperature", "must be a finite number")
	}
	if in.IsBuried && !installation.Positive(in.SoilResistivity) {
		return "", calcerr.Invalid("soil_thermal_resistivity", "must be a positive number for buried cables")
	}
	if in.DesignCurrent != nil && !installation.Positive(*in.DesignCurrent) {
		return "", calcerr.Invalid("design_current", "must be a positive number")
	}
	m := in.Material
	if m == "" {
		m = PVC
	}
	if !m.Valid() {
		return "", calcerr.Invalid("insulation_material", fmt.Sprintf("unknown value %q", m))
	}
	return m, nil
}

func inGround(in Input) bool {
	return in.IsBuried || in.InstallationMethod == cable.MethodD
}

// groupingFactor treats zero circuits as one; beyond the table the last
// factor holds.
func groupingFactor(in Input) float64 {
	rows := groupingTable(in.InstallationMethod)
	if f, ok := lookup(rows, float64(max(in.GroupedCircuits, 1))); ok {
		return f
	}
	return rows[len(rows)-1].Factor
}

// ambientFactor is 1.0 at or below the reference temperature; cables are
// never uprated for cooler surroundings.
func ambientFactor(in Input, m Material) (float64, error) {
	ref, rows := airReference, ambientAir[m]
	if inGround(in) {
		ref, rows = groundReference, ambientGround[m]
	}
	if in.AmbientTemperature <= ref {
		return 1, nil
	}
	f, ok := lookup(rows, in.AmbientTemperature)
	if !ok {
		return 0, calcerr.Invalid("ambient_temperature",
			fmt.Sprintf("%.1f °C is above the %.0f °C limit for %s", in.AmbientTemperature, rows[len(rows)-1].At, m))
	}
	return f, nil
}

func insulationFactor(in Input) float64 {
	if in.InsulationLength == 0 {
		return 1
	}
	if f, ok := lookup(insulation, in.InsulationLength); ok {
		return f
	}
	return fullySurrounded
}

func buriedFactor(in Input) float64 {
	if !in.IsBuried {
		return 1
	}
	if f, ok := lookup(soil, in.SoilResistivity); ok {
		return f
	}
	return drySoil
}

func recommendations(in Input, res Result) []string {
	out := []string{fmt.Sprintf("Overall derating %.3f: %.1f A becomes %.1f A", res.OverallDerating, in.OriginalRating, res.DeratedCurrent)}
	if res.Adequate != nil {
		if *res.Adequate {
			out = append(out, fmt.Sprintf("Derated capacity covers the %.1f A design current", *in.DesignCurrent))
		} else {
			out = append(out, fmt.Sprintf("Inadequate: a cable rated at least %.1f A is required", res.RequiredRating))
		}
	}
	if res.GroupingFactor < 0.7 {
		out = append(out, "Heavy grouping: separate circuits or move to a tray to improve heat dissipation")
	}
	if res.ThermalInsulationFactor <= fullySurrounded {
		out = append(out, "Cable fully surrounded by insulation: reroute clear of insulation where possible")
	}
	if res.BuriedFactor < 1 {
		out = append(out, "High soil resistivity: consider selected backfill around the cable")
	}
	out = append(out, "Correction factors per BS 7671 Appendix 4 Tables 4B1, 4B2, 4C1 and 52.2")
	return out
}
