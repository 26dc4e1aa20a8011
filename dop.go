package odx

import "github.com/gavinwade12/odx/odxlink"

// Radix selects the base values are displayed in.
type Radix string

const (
	RadixHex Radix = "HEX"
	RadixDec Radix = "DEC"
	RadixBin Radix = "BIN"
	RadixOct Radix = "OCT"
)

// PhysicalType describes the representation of a physical value.
type PhysicalType struct {
	BaseDataType DataType
	DisplayRadix Radix
	Precision    *uint
}

func physicalTypeFromXML(raw *xmlPhysicalType) (PhysicalType, error) {
	if raw == nil {
		return PhysicalType{}, structuralErrorf("missing PHYSICAL-TYPE element")
	}
	dt, err := parseDataType(raw.BaseDataType)
	if err != nil {
		return PhysicalType{}, err
	}
	pt := PhysicalType{BaseDataType: dt, Precision: raw.Precision}
	if raw.DisplayRadix != "" {
		switch r := Radix(raw.DisplayRadix); r {
		case RadixHex, RadixDec, RadixBin, RadixOct:
			pt.DisplayRadix = r
		default:
			return PhysicalType{}, structuralErrorf("unknown display radix %q", raw.DisplayRadix)
		}
	}
	return pt, nil
}

// DopBase is the interface of everything that can serve as the type of
// a value parameter: simple data object properties as well as
// structures.
type DopBase interface {
	NamedElement

	// ID returns the identifier of the property.
	ID() odxlink.ID

	// StaticBitLength returns the fixed bit length of the coded
	// representation, if it has one.
	StaticBitLength() (uint, bool)

	encodeValue(state *EncodeState, physical ParameterValue, bitPosition uint8) ([]byte, error)
	decodeValue(state *DecodeState, bitPosition uint8) (ParameterValue, int, error)

	buildLinks(b *odxlink.Builder) error
	resolveLinks(r *resolver) error
	resolveSNRefs(r *resolver, layer *DiagLayer) error
}

// DataObjectProperty ties a coded representation, a conversion method
// and a physical representation together.
type DataObjectProperty struct {
	IdentifiableElement

	DiagCodedType DiagCodedType
	PhysicalType  PhysicalType
	CompuMethod   CompuMethod

	unitRef odxlink.Ref
	unit    *Unit
}

// Unit returns the display unit of the property, if it has one.
func (d *DataObjectProperty) Unit() *Unit { return d.unit }

func (d *DataObjectProperty) StaticBitLength() (uint, bool) {
	return d.DiagCodedType.StaticBitLength()
}

func (d *DataObjectProperty) encodeValue(state *EncodeState, physical ParameterValue, bitPosition uint8) ([]byte, error) {
	internal, err := d.CompuMethod.ConvertPhysicalToInternal(physical)
	if err != nil {
		return nil, encodeErrorf("converting value for %s: %s", d.ShortName, err)
	}
	return d.DiagCodedType.encodeInternal(state, internal, bitPosition)
}

func (d *DataObjectProperty) decodeValue(state *DecodeState, bitPosition uint8) (ParameterValue, int, error) {
	internal, cursor, err := d.DiagCodedType.decodeInternal(state, bitPosition)
	if err != nil {
		return nil, 0, err
	}
	physical, err := d.CompuMethod.ConvertInternalToPhysical(internal)
	if err != nil {
		return nil, 0, decodeErrorf("converting value for %s: %s", d.ShortName, err)
	}
	return physical, cursor, nil
}

// ConvertPhysicalToInternal exposes the conversion of the property's
// compu method.
func (d *DataObjectProperty) ConvertPhysicalToInternal(physical ParameterValue) (ParameterValue, error) {
	return d.CompuMethod.ConvertPhysicalToInternal(physical)
}

func (d *DataObjectProperty) buildLinks(b *odxlink.Builder) error {
	return b.Register(d.OdxID, d)
}

func (d *DataObjectProperty) resolveLinks(r *resolver) error {
	if err := d.DiagCodedType.resolveLinks(r); err != nil {
		return err
	}
	if !d.unitRef.IsZero() {
		unit, err := resolveLink[*Unit](r, d.unitRef)
		if err != nil {
			return err
		}
		d.unit = unit
	}
	return nil
}

func (d *DataObjectProperty) resolveSNRefs(r *resolver, layer *DiagLayer) error {
	return nil
}

func dopFromXML(raw *xmlDOP, frags []odxlink.DocFragment) (*DataObjectProperty, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("DATA-OBJECT-PROP %q without an ID", raw.ShortName)
	}

	dct, err := diagCodedTypeFromXML(raw.DiagCodedType, frags)
	if err != nil {
		return nil, err
	}
	pt, err := physicalTypeFromXML(raw.PhysicalType)
	if err != nil {
		return nil, err
	}
	cm, err := compuMethodFromXML(raw.CompuMethod, dct.BaseDataType(), pt.BaseDataType)
	if err != nil {
		return nil, err
	}

	dop := &DataObjectProperty{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		DiagCodedType:       dct,
		PhysicalType:        pt,
		CompuMethod:         cm,
	}
	if raw.UnitRef != nil {
		dop.unitRef = raw.UnitRef.toRef(frags)
	}
	return dop, nil
}
