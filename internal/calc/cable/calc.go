// Package cable selects the minimum conductor size for a circuit that meets
// both current-carrying capacity and voltage drop limits.
package cable

import (
	"fmt"
	"math"

	"Ampere/internal/calc/calcerr"
	"Ampere/internal/calc/installation"
)

type Input struct {
	DesignCurrent      float64  `json:"design_current" yaml:"design_current"` // Ib, A
	Length             float64  `json:"length" yaml:"length"`                 // m
	InstallationMethod Method   `json:"installation_method" yaml:"installation_method"`
	Phases             int      `json:"phases" yaml:"phases"`
	PowerFactor        *float64 `json:"power_factor,omitempty" yaml:"power_factor,omitempty"`
	GroupingFactor     *float64 `json:"grouping_factor,omitempty" yaml:"grouping_factor,omitempty"`
	AmbientFactor      *float64 `json:"ambient_temp_factor,omitempty" yaml:"ambient_temp_factor,omitempty"`
	InsulationFactor   *float64 `json:"insulation_factor,omitempty" yaml:"insulation_factor,omitempty"`
	VoltageDropLimit   *float64 `json:"voltage_drop_limit,omitempty" yaml:"voltage_drop_limit,omitempty"` // %
	Voltage            *float64 `json:"voltage,omitempty" yaml:"voltage,omitempty"`
}

type Result struct {
	RecommendedSize         float64  `json:"recommended_size"`          // mm²
	CurrentCarryingCapacity float64  `json:"current_carrying_capacity"` // It
	CorrectedCapacity       float64  `json:"corrected_capacity"`        // Iz
	EffectiveCurrent        float64  `json:"effective_current"`
	CorrectionFactor        float64  `json:"correction_factor"`
	VoltageDrop             float64  `json:"voltage_drop"` // %
	VoltageDropVolts        float64  `json:"voltage_drop_volts"`
	VoltageDropLimit        float64  `json:"voltage_drop_limit"`
	VoltageDropCheck        bool     `json:"voltage_drop_check"`
	ThermalCheck            bool     `json:"thermal_check"`
	ProtectionRequired      float64  `json:"protection_required"`
	LoadPowerKW             float64  `json:"load_power_kw"`
	BoundsExceeded          bool     `json:"bounds_exceeded"`
	Recommendations         []string `json:"recommendations"`
}

// Calculate walks the size ladder for the first conductor that passes both
// checks. When none does, the largest size is returned with its failing
// checks and BoundsExceeded set.
func Calculate(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}
	volts := resolveVoltage(in)
	limit := resolveDropLimit(in)
	factor := resolveGrouping(in) * resolveAmbient(in) * resolveInsulation(in)
	effective := in.DesignCurrent / factor
	if err := installation.Finite("design_current", effective); err != nil {
		return Result{}, err
	}

	res := Result{
		EffectiveCurrent: effective,
		CorrectionFactor: factor,
		VoltageDropLimit: limit,
		LoadPowerKW:      loadPower(in.DesignCurrent, volts, resolvePowerFactor(in), in.Phases),
	}

	found := false
	for c := range Ladder(in.InstallationMethod) {
		// drop% = mV/A/m × Ib × L / (10 × U)
		drop := c.mV(in.Phases) * in.DesignCurrent * in.Length / 1000
		res.RecommendedSize = c.Size
		res.CurrentCarryingCapacity = c.Capacity
		res.CorrectedCapacity = c.Capacity * factor
		res.VoltageDropVolts = drop
		res.VoltageDrop = drop / volts * 100
		res.ThermalCheck = c.Capacity >= effective
		res.VoltageDropCheck = res.VoltageDrop <= limit
		if res.ThermalCheck && res.VoltageDropCheck {
			found = true
			break
		}
	}
	if err := installation.Finite("length", res.VoltageDropVolts, res.VoltageDrop); err != nil {
		return Result{}, err
	}
	if err := installation.Finite("design_current", res.LoadPowerKW); err != nil {
		return Result{}, err
	}
	res.BoundsExceeded = !found
	res.ProtectionRequired = Protection(in.DesignCurrent, res.CorrectedCapacity)
	res.Recommendations = recommendations(in, res)
	return res, nil
}

// Err reports an exhausted size ladder as calcerr.ErrBoundsExceeded; the
// result itself stays usable.
func (r Result) Err() error {
	if !r.BoundsExceeded {
		return nil
	}
	return fmt.Errorf("%g mm² does not satisfy the circuit: %w", r.RecommendedSize, calcerr.ErrBoundsExceeded)
}

func loadPower(ib, volts, pf float64, phases int) float64 {
	if phases == 3 {
		return math.Sqrt(3) * volts * ib * pf / 1000
	}
	return volts * ib * pf / 1000
}

func validate(in Input) error {
	if !installation.Positive(in.DesignCurrent) {
		return calcerr.Invalid("design_current", "must be a positive number")
	}
	if !installation.Positive(in.Length) {
		return calcerr.Invalid("length", "must be a positive number")
	}
	if !in.InstallationMethod.Valid() {
		return calcerr.Invalid("installation_method", fmt.Sprintf("unknown value %q, expected A-F", in.InstallationMethod))
	}
	if in.Phases != 1 && in.Phases != 3 {
		return calcerr.Invalid("phases", "must be 1 or 3")
	}
	fractions := []struct {
		field string
		v     *float64
	}{
		{"power_factor", in.PowerFactor},
		{"grouping_factor", in.GroupingFactor},
		{"ambient_temp_factor", in.AmbientFactor},
		{"insulation_factor", in.InsulationFactor},
	}
	for _, f := range fractions {
		if f.v != nil && (!installation.Positive(*f.v) || *f.v > 1) {
			return calcerr.Invalid(f.field, "must be in (0, 1]")
		}
	}
	if in.VoltageDropLimit != nil && (!installation.Positive(*in.VoltageDropLimit) || *in.VoltageDropLimit > 100) {
		return calcerr.Invalid("voltage_drop_limit", "must be a percentage in (0, 100]")
	}
	if in.Voltage != nil && !installation.Positive(*in.Voltage) {
		return calcerr.Invalid("voltage", "must be a positive number")
	}
	return nil
}

func resolvePowerFactor(in Input) float64 {
	return installation.Resolve(in.PowerFactor, defaultPowerFactor)
}

func resolveGrouping(in Input) float64 {
	return installation.Resolve(in.GroupingFactor, 1)
}

func resolveAmbient(in Input) float64 {
	return installation.Resolve(in.AmbientFactor, 1)
}

func resolveInsulation(in Input) float64 {
	return installation.Resolve(in.InsulationFactor, 1)
}

func resolveDropLimit(in Input) float64 {
	return installation.Resolve(in.VoltageDropLimit, defaultDropLimit)
}

// resolveVoltage defaults to the nominal phase or line voltage.
func resolveVoltage(in Input) float64 {
	if in.Phases == 3 {
		return installation.Resolve(in.Voltage, installation.NominalLineVoltage)
	}
	return installation.Resolve(in.Voltage, installation.NominalVoltage)
}

func recommendations(in Input, res Result) []string {
	out := []string{fmt.Sprintf("%g mm² copper, It %.1f A, Iz %.1f A after correction", res.RecommendedSize, res.CurrentCarryingCapacity, res.CorrectedCapacity)}
	if res.BoundsExceeded {
		out = append(out, fmt.Sprintf("No standard size up to %g mm² satisfies this circuit: use parallel conductors or reduce the run length", res.RecommendedSize))
	}
	if !res.ThermalCheck {
		out = append(out, fmt.Sprintf("Capacity %.1f A is below the effective current %.1f A", res.CurrentCarryingCapacity, res.EffectiveCurrent))
	}
	if !res.VoltageDropCheck {
		out = append(out, fmt.Sprintf("Voltage drop %.2f%% exceeds the %.1f%% limit", res.VoltageDrop, res.VoltageDropLimit))
	} else {
		out = append(out, fmt.Sprintf("Voltage drop %.2f%% (%.2f V) within the %.1f%% limit", res.VoltageDrop, res.VoltageDropVolts, res.VoltageDropLimit))
	}
	if res.ProtectionRequired > 0 {
		out = append(out, fmt.Sprintf("%.0f A overcurrent device (Ib ≤ In ≤ Iz)", res.ProtectionRequired))
	} else {
		out = append(out, "No standard device rating coordinates Ib ≤ In ≤ Iz: select a larger cable")
	}
	if res.VoltageDropLimit > lightingDropLimit && res.VoltageDrop > lightingDropLimit {
		out = append(out, fmt.Sprintf("Drop exceeds %.0f%%: not suitable for lighting circuits", lightingDropLimit))
	}
	if in.Length > longRun {
		out = append(out, "Long run: verify earth fault loop impedance for disconnection time")
	}
	out = append(out, "Sizing per BS 7671 Appendix 4 and Regulation 433.1.1")
	return out
}
