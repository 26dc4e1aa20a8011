package odx

import "testing"

func TestIdenticalCompuMethod(t *testing.T) {
	m := &IdenticalCompuMethod{InternalType: DataTypeUint32, PhysicalType: DataTypeUint32}

	physical, err := m.ConvertInternalToPhysical(uint32(62))
	if err != nil {
		t.Fatalf("ConvertInternalToPhysical() error: %s", err)
	}
	if physical != uint32(62) {
		t.Errorf("ConvertInternalToPhysical() = %v, want 62", physical)
	}

	internal, err := m.ConvertPhysicalToInternal(62)
	if err != nil {
		t.Fatalf("ConvertPhysicalToInternal() error: %s", err)
	}
	if internal != uint32(62) {
		t.Errorf("ConvertPhysicalToInternal() = %v (%T), want uint32 62", internal, internal)
	}

	if m.IsValidPhysicalValue("not a number") {
		t.Error("IsValidPhysicalValue() accepted a string for a numeric type")
	}
}

func TestLinearCompuMethod(t *testing.T) {
	// The demo temperature scale: physical = internal - 40.
	m := &LinearCompuMethod{
		InternalType: DataTypeUint32,
		PhysicalType: DataTypeFloat64,
		Offset:       -40,
		Factor:       1,
		Denominator:  1,
	}

	physical, err := m.ConvertInternalToPhysical(uint32(25))
	if err != nil {
		t.Fatalf("ConvertInternalToPhysical() error: %s", err)
	}
	if physical != float64(-15) {
		t.Errorf("ConvertInternalToPhysical(25) = %v, want -15", physical)
	}

	internal, err := m.ConvertPhysicalToInternal(float64(-15))
	if err != nil {
		t.Fatalf("ConvertPhysicalToInternal() error: %s", err)
	}
	if internal != uint32(25) {
		t.Errorf("ConvertPhysicalToInternal(-15) = %v (%T), want uint32 25", internal, internal)
	}
}

func TestLinearCompuMethodLimits(t *testing.T) {
	m := &LinearCompuMethod{
		InternalType:       DataTypeUint32,
		PhysicalType:       DataTypeUint32,
		Factor:             1,
		Denominator:        1,
		InternalLowerLimit: &Limit{Value: 10},
		InternalUpperLimit: &Limit{Value: 20},
	}

	if _, err := m.ConvertInternalToPhysical(uint32(15)); err != nil {
		t.Errorf("ConvertInternalToPhysical(15) failed inside the limits: %s", err)
	}
	if _, err := m.ConvertInternalToPhysical(uint32(25)); err == nil {
		t.Error("ConvertInternalToPhysical(25) accepted a value above the upper limit")
	}
	if _, err := m.ConvertPhysicalToInternal(uint32(5)); err == nil {
		t.Error("ConvertPhysicalToInternal(5) accepted a value below the lower limit")
	}
	if m.IsValidPhysicalValue(uint32(25)) {
		t.Error("IsValidPhysicalValue() accepted an out-of-range value")
	}
}

func TestLinearCompuMethodNotInvertible(t *testing.T) {
	m := &LinearCompuMethod{
		InternalType: DataTypeUint32,
		PhysicalType: DataTypeUint32,
		Factor:       0,
		Denominator:  1,
	}
	if _, err := m.ConvertPhysicalToInternal(uint32(1)); err == nil {
		t.Error("ConvertPhysicalToInternal() inverted a conversion with factor zero")
	}
}

func TestTexttableCompuMethod(t *testing.T) {
	two := int64(2)
	m := &TexttableCompuMethod{
		InternalType: DataTypeUint32,
		Scales: []TexttableScale{
			{Lower: 1, Upper: 1, Text: "default"},
			{Lower: 2, Upper: 3, Text: "programming", InverseValue: &two},
		},
	}

	tests := []struct {
		internal uint32
		want     string
	}{
		{1, "default"},
		{2, "programming"},
		{3, "programming"},
	}
	for _, tt := range tests {
		physical, err := m.ConvertInternalToPhysical(tt.internal)
		if err != nil {
			t.Fatalf("ConvertInternalToPhysical(%d) error: %s", tt.internal, err)
		}
		if physical != tt.want {
			t.Errorf("ConvertInternalToPhysical(%d) = %v, want %q", tt.internal, physical, tt.want)
		}
	}

	if _, err := m.ConvertInternalToPhysical(uint32(9)); err == nil {
		t.Error("ConvertInternalToPhysical(9) found a text for an unmapped value")
	}

	internal, err := m.ConvertPhysicalToInternal("programming")
	if err != nil {
		t.Fatalf("ConvertPhysicalToInternal() error: %s", err)
	}
	if internal != uint32(2) {
		t.Errorf("ConvertPhysicalToInternal(programming) = %v, want the inverse value 2", internal)
	}

	if _, err := m.ConvertPhysicalToInternal("unknown"); err == nil {
		t.Error("ConvertPhysicalToInternal() accepted an unmapped text")
	}
	if !m.IsValidPhysicalValue("default") || m.IsValidPhysicalValue("unknown") {
		t.Error("IsValidPhysicalValue() does not follow the scales")
	}
}
