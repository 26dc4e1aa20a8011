package odx

import (
	"math"

	"github.com/pkg/errors"
)

// CompuCategory names the conversion rule between the internal and the
// physical representation of a value.
type CompuCategory string

const (
	CompuCategoryIdentical CompuCategory = "IDENTICAL"
	CompuCategoryLinear    CompuCategory = "LINEAR"
	CompuCategoryTexttable CompuCategory = "TEXTTABLE"
)

// CompuMethod converts between the internal values found on the wire
// and the physical values exposed to the application.
type CompuMethod interface {
	Category() CompuCategory

	// ConvertInternalToPhysical computes the physical representation
	// of an internal value.
	ConvertInternalToPhysical(internal ParameterValue) (ParameterValue, error)

	// ConvertPhysicalToInternal computes the internal representation
	// of a physical value.
	ConvertPhysicalToInternal(physical ParameterValue) (ParameterValue, error)

	// IsValidPhysicalValue reports whether the physical value can be
	// represented by the method.
	IsValidPhysicalValue(physical ParameterValue) bool
}

// IntervalType describes how a limit bounds an interval.
type IntervalType string

const (
	IntervalTypeOpen     IntervalType = "OPEN"
	IntervalTypeClosed   IntervalType = "CLOSED"
	IntervalTypeInfinite IntervalType = "INFINITE"
)

// Limit is one bound of an internal value interval.
type Limit struct {
	Value        float64
	IntervalType IntervalType
}

func (l *Limit) acceptsAsLower(v float64) bool {
	if l == nil {
		return true
	}
	switch l.IntervalType {
	case IntervalTypeInfinite:
		return true
	case IntervalTypeOpen:
		return v > l.Value
	default:
		return v >= l.Value
	}
}

func (l *Limit) acceptsAsUpper(v float64) bool {
	if l == nil {
		return true
	}
	switch l.IntervalType {
	case IntervalTypeInfinite:
		return true
	case IntervalTypeOpen:
		return v < l.Value
	default:
		return v <= l.Value
	}
}

// IdenticalCompuMethod passes values through unchanged.
type IdenticalCompuMethod struct {
	InternalType DataType
	PhysicalType DataType
}

func (m *IdenticalCompuMethod) Category() CompuCategory { return CompuCategoryIdentical }

func (m *IdenticalCompuMethod) ConvertInternalToPhysical(internal ParameterValue) (ParameterValue, error) {
	return m.PhysicalType.coerceInternal(internal)
}

func (m *IdenticalCompuMethod) ConvertPhysicalToInternal(physical ParameterValue) (ParameterValue, error) {
	return m.InternalType.coerceInternal(physical)
}

func (m *IdenticalCompuMethod) IsValidPhysicalValue(physical ParameterValue) bool {
	_, err := m.PhysicalType.coerceInternal(physical)
	return err == nil
}

// LinearCompuMethod converts values with the affine rational function
// physical = (offset + factor*internal) / denominator.
type LinearCompuMethod struct {
	InternalType DataType
	PhysicalType DataType

	Offset      float64
	Factor      float64
	Denominator float64

	// InternalLowerLimit and InternalUpperLimit bound the valid
	// internal values of the conversion.
	InternalLowerLimit *Limit
	InternalUpperLimit *Limit
}

func (m *LinearCompuMethod) Category() CompuCategory { return CompuCategoryLinear }

func (m *LinearCompuMethod) internalInRange(internal float64) bool {
	return m.InternalLowerLimit.acceptsAsLower(internal) &&
		m.InternalUpperLimit.acceptsAsUpper(internal)
}

func (m *LinearCompuMethod) ConvertInternalToPhysical(internal ParameterValue) (ParameterValue, error) {
	n, err := toFloat64(internal)
	if err != nil {
		return nil, err
	}
	if !m.internalInRange(n) {
		return nil, errors.Errorf("internal value %v is out of range", internal)
	}
	physical := (m.Offset + m.Factor*n) / m.Denominator
	return coerceNumeric(m.PhysicalType, physical)
}

func (m *LinearCompuMethod) ConvertPhysicalToInternal(physical ParameterValue) (ParameterValue, error) {
	if m.Factor == 0 {
		return nil, errors.New("conversion is not invertible: factor is zero")
	}
	p, err := toFloat64(physical)
	if err != nil {
		return nil, err
	}
	internal := (p*m.Denominator - m.Offset) / m.Factor
	if !m.internalInRange(internal) {
		return nil, errors.Errorf("physical value %v is out of range", physical)
	}
	return coerceNumeric(m.InternalType, internal)
}

func (m *LinearCompuMethod) IsValidPhysicalValue(physical ParameterValue) bool {
	_, err := m.ConvertPhysicalToInternal(physical)
	return err == nil
}

// TexttableScale maps one internal value interval to a display text.
type TexttableScale struct {
	// Lower and Upper bound the internal values of the scale,
	// inclusive. A point scale has Lower == Upper.
	Lower int64
	Upper int64

	// Text is the physical representation of the scale.
	Text string

	// InverseValue overrides the internal value used when converting
	// Text back. When unset the lower bound is used.
	InverseValue *int64
}

// TexttableCompuMethod converts between internal values and display
// texts.
type TexttableCompuMethod struct {
	InternalType DataType
	Scales       []TexttableScale
}

func (m *TexttableCompuMethod) Category() CompuCategory { return CompuCategoryTexttable }

func (m *TexttableCompuMethod) ConvertInternalToPhysical(internal ParameterValue) (ParameterValue, error) {
	n, err := toInt64(internal)
	if err != nil {
		return nil, err
	}
	for _, scale := range m.Scales {
		if n >= scale.Lower && n <= scale.Upper {
			return scale.Text, nil
		}
	}
	return nil, errors.Errorf("internal value %d has no text scale", n)
}

func (m *TexttableCompuMethod) ConvertPhysicalToInternal(physical ParameterValue) (ParameterValue, error) {
	text, ok := physical.(string)
	if !ok {
		return nil, errors.Errorf("expected a text value, got %T", physical)
	}
	for _, scale := range m.Scales {
		if scale.Text != text {
			continue
		}
		internal := scale.Lower
		if scale.InverseValue != nil {
			internal = *scale.InverseValue
		}
		return coerceNumeric(m.InternalType, float64(internal))
	}
	return nil, errors.Errorf("text %q has no scale", text)
}

func (m *TexttableCompuMethod) IsValidPhysicalValue(physical ParameterValue) bool {
	text, ok := physical.(string)
	if !ok {
		return false
	}
	for _, scale := range m.Scales {
		if scale.Text == text {
			return true
		}
	}
	return false
}

// compuMethodFromXML builds the conversion method described by a
// COMPU-METHOD element. Only the identical, linear and texttable
// categories are part of the supported dialect.
func compuMethodFromXML(raw *xmlCompuMethod, internalType, physicalType DataType) (CompuMethod, error) {
	if raw == nil {
		return nil, structuralErrorf("missing COMPU-METHOD element")
	}

	switch CompuCategory(raw.Category) {
	case CompuCategoryIdentical:
		return &IdenticalCompuMethod{InternalType: internalType, PhysicalType: physicalType}, nil

	case CompuCategoryLinear:
		if raw.InternalToPhys == nil || len(raw.InternalToPhys.Scales) != 1 {
			return nil, structuralErrorf("a linear compu method requires exactly one COMPU-SCALE")
		}
		scale := raw.InternalToPhys.Scales[0]
		if scale.RationalCoeffs == nil || len(scale.RationalCoeffs.Numerators) == 0 {
			return nil, structuralErrorf("a linear compu method requires COMPU-RATIONAL-COEFFS")
		}

		m := &LinearCompuMethod{
			InternalType: internalType,
			PhysicalType: physicalType,
			Offset:       scale.RationalCoeffs.Numerators[0],
			Denominator:  1,
		}
		if len(scale.RationalCoeffs.Numerators) > 1 {
			m.Factor = scale.RationalCoeffs.Numerators[1]
		}
		if len(scale.RationalCoeffs.Denominators) > 0 {
			m.Denominator = scale.RationalCoeffs.Denominators[0]
			if m.Denominator == 0 {
				return nil, structuralErrorf("a linear compu method cannot have a zero denominator")
			}
		}
		var err error
		if m.InternalLowerLimit, err = limitFromXML(scale.LowerLimit); err != nil {
			return nil, err
		}
		if m.InternalUpperLimit, err = limitFromXML(scale.UpperLimit); err != nil {
			return nil, err
		}
		return m, nil

	case CompuCategoryTexttable:
		if raw.InternalToPhys == nil || len(raw.InternalToPhys.Scales) == 0 {
			return nil, structuralErrorf("a texttable compu method requires COMPU-SCALEs")
		}
		m := &TexttableCompuMethod{InternalType: internalType}
		for _, scale := range raw.InternalToPhys.Scales {
			if scale.CompuConst == nil {
				return nil, structuralErrorf("a texttable COMPU-SCALE requires a COMPU-CONST")
			}
			lower, err := limitFromXML(scale.LowerLimit)
			if err != nil {
				return nil, err
			}
			if lower == nil {
				return nil, structuralErrorf("a texttable COMPU-SCALE requires a LOWER-LIMIT")
			}
			ts := TexttableScale{
				Lower: int64(lower.Value),
				Upper: int64(lower.Value),
				Text:  scale.CompuConst.VT,
			}
			upper, err := limitFromXML(scale.UpperLimit)
			if err != nil {
				return nil, err
			}
			if upper != nil {
				ts.Upper = int64(upper.Value)
			}
			if scale.InverseValue != nil {
				inv := int64(*scale.InverseValue)
				ts.InverseValue = &inv
			}
			m.Scales = append(m.Scales, ts)
		}
		return m, nil
	}

	return nil, structuralErrorf("unsupported compu method category %q", raw.Category)
}

func limitFromXML(raw *xmlLimit) (*Limit, error) {
	if raw == nil {
		return nil, nil
	}
	l := &Limit{IntervalType: IntervalTypeClosed}
	if raw.IntervalType != "" {
		switch it := IntervalType(raw.IntervalType); it {
		case IntervalTypeOpen, IntervalTypeClosed, IntervalTypeInfinite:
			l.IntervalType = it
		default:
			return nil, structuralErrorf("unknown interval type %q", raw.IntervalType)
		}
	}
	if l.IntervalType != IntervalTypeInfinite {
		v, err := toFloat64FromText(raw.Value)
		if err != nil {
			return nil, structuralErrorf("invalid limit value %q", raw.Value)
		}
		l.Value = v
	}
	return l, nil
}

// coerceNumeric converts a float64 into the Go representation of the
// given numeric data type, rounding to the nearest integer for the
// integral types.
func coerceNumeric(dt DataType, v float64) (ParameterValue, error) {
	switch dt {
	case DataTypeUint32, DataTypeInt32:
		return dt.coerceInternal(math.Round(v))
	case DataTypeFloat32:
		return float32(v), nil
	case DataTypeFloat64:
		return v, nil
	}
	return nil, errors.Errorf("values of type %s cannot be computed numerically", dt)
}
