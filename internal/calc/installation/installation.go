package installation

import (
	"math"

	"Ampere/internal/calc/calcerr"
)

type Type string

const (
	Domestic     Type = "domestic"
	Commercial   Type = "commercial"
	Industrial   Type = "industrial"
	Agricultural Type = "agricultural"
	Healthcare   Type = "healthcare"
	Educational  Type = "educational"
	Retail       Type = "retail"
)

// Types lists every installation type in a stable order.
var Types = []Type{Domestic, Commercial, Industrial, Agricultural, Healthcare, Educational, Retail}

func (t Type) Valid() bool {
	switch t {
	case Domestic, Commercial, Industrial, Agricultural, Healthcare, Educational, Retail:
		return true
	}
	return false
}

const (
	NominalVoltage     = 230.0
	NominalLineVoltage = 400.0
)

// Context is shared by every category calculator of one installation.
type Context struct {
	Type          Type    `json:"installation_type" yaml:"installation_type"`
	SupplyVoltage float64 `json:"supply_voltage,omitempty" yaml:"supply_voltage,omitempty"`
	Phases        int     `json:"phases,omitempty" yaml:"phases,omitempty"`
}

// Validate checks the context and fills the 230 V default. The phase count
// has no default.
func (c Context) Validate() (Context, error) {
	if c.Type == "" {
		return c, calcerr.Invalid("installation_type", "required")
	}
	if !c.Type.Valid() {
		return c, calcerr.Invalid("installation_type", "unknown value "+string(c.Type))
	}
	if c.SupplyVoltage == 0 {
		c.SupplyVoltage = NominalVoltage
	}
	if !Positive(c.SupplyVoltage) {
		return c, calcerr.Invalid("supply_voltage", "must be a positive number")
	}
	if c.Phases != 1 && c.Phases != 3 {
		return c, calcerr.Invalid("phases", "must be 1 or 3")
	}
	return c, nil
}

// Positive reports whether v is finite and strictly greater than zero.
func Positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Quantity treats an unset count as one.
func Quantity(q int) int {
	if q == 0 {
		return 1
	}
	return q
}

// Finite rejects a computed value that overflowed even though every input was
// finite.
func Finite(field string, values ...float64) error {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return calcerr.Invalid(field, "too large: result is not a finite number")
		}
	}
	return nil
}

// Resolve returns the override when set, else the table value.
func Resolve(override *float64, table float64) float64 {
	if override != nil {
		return *override
	}
	return table
}

// Current returns the single-phase current drawn by watts at volts.
func Current(watts, volts float64) float64 {
	if volts <= 0 {
		volts = NominalVoltage
	}
	return watts / volts
}
