package odx

import "github.com/gavinwade12/odx/odxlink"

// Parameter kind tags as used in the PARAM element's xsi:type
// attribute. The catalog is closed: parameters of any other kind are
// rejected while loading.
const (
	ParameterTypeCodedConst      = "CODED-CONST"
	ParameterTypeMatchingRequest = "MATCHING-REQUEST-PARAM"
	ParameterTypeValue           = "VALUE"
	ParameterTypePhysConst       = "PHYS-CONST"
	ParameterTypeNrcConst        = "NRC-CONST"
	ParameterTypeReserved        = "RESERVED"
	ParameterTypeLengthKey       = "LENGTH-KEY"
	ParameterTypeTableKey        = "TABLE-KEY"
	ParameterTypeTableStruct     = "TABLE-STRUCT"
)

// Parameter is one ordered entry of a structure. Implementations are
// immutable once the database is loaded; all mutable encode/decode
// state lives in the state objects threaded through the calls.
type Parameter interface {
	NamedElement

	// ParameterType returns the kind tag of the parameter.
	ParameterType() string

	// Semantic returns the free-form role attribute, e.g. "SERVICE-ID".
	Semantic() string

	// BytePosition returns the explicit byte position, if declared.
	BytePosition() (uint, bool)

	// BitPosition returns the offset of the value's least significant
	// bit within its byte, 0 to 7.
	BitPosition() uint8

	// StaticBitLength returns the fixed bit count the parameter
	// occupies, if it is statically known.
	StaticBitLength() (uint, bool)

	// IsRequired reports whether a value must be supplied when
	// encoding.
	IsRequired() bool

	// IsSettable reports whether a value may be supplied when
	// encoding. Settable parameters are also the ones whose values are
	// reported by decode; fixed and derived parameters are not.
	IsSettable() bool

	// EncodeIntoPDU places the parameter's coded bytes into the
	// message under construction and returns the resulting message.
	EncodeIntoPDU(state *EncodeState) ([]byte, error)

	// DecodeFromPDU reads the parameter's physical value and returns
	// it together with the cursor position after the parameter.
	DecodeFromPDU(state *DecodeState) (ParameterValue, int, error)

	buildLinks(b *odxlink.Builder) error
	resolveLinks(r *resolver) error
	resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error
}

// keyParameter is implemented by the parameter kinds whose value is
// derived from sibling parameters. They reserve placeholder bytes in
// the first encoding pass and are written in the second one.
type keyParameter interface {
	Parameter

	encodeKeyIntoPDU(state *EncodeState) ([]byte, error)
}

// parameterBase carries the properties shared by all parameter kinds.
type parameterBase struct {
	IdentifiableElement

	semantic     string
	bytePosition *uint
	bitPosition  uint8
}

func (p *parameterBase) Semantic() string { return p.semantic }

func (p *parameterBase) BytePosition() (uint, bool) {
	if p.bytePosition == nil {
		return 0, false
	}
	return *p.bytePosition, true
}

func (p *parameterBase) BitPosition() uint8 { return p.bitPosition }

// encodePosition returns the byte offset the parameter is placed at:
// its explicit position or the end of the message built so far.
func (p *parameterBase) encodePosition(state *EncodeState) int {
	if p.bytePosition != nil {
		return int(*p.bytePosition)
	}
	return len(state.CodedMessage)
}

// subDecodeState returns a decode state whose cursor points at the
// parameter, honoring an explicit byte position.
func (p *parameterBase) subDecodeState(state *DecodeState) DecodeState {
	cursor := state.CursorPosition
	if p.bytePosition != nil {
		cursor = int(*p.bytePosition)
	}
	return DecodeState{
		CodedMessage:    state.CodedMessage,
		ParameterValues: state.ParameterValues,
		CursorPosition:  cursor,
	}
}

func (p *parameterBase) buildLinks(b *odxlink.Builder) error { return nil }

func (p *parameterBase) resolveLinks(r *resolver) error { return nil }

func (p *parameterBase) resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error {
	return nil
}

// dopParameterBase is shared by the parameter kinds whose coded
// representation is described by a referenced data object property or
// structure.
type dopParameterBase struct {
	parameterBase

	dopRef   odxlink.Ref
	dopSNRef string
	dop      DopBase
}

// DOP returns the resolved type of the parameter. It is nil when the
// reference is dangling in lenient mode.
func (p *dopParameterBase) DOP() DopBase { return p.dop }

func (p *dopParameterBase) StaticBitLength() (uint, bool) {
	if p.dop == nil {
		return 0, false
	}
	return p.dop.StaticBitLength()
}

func (p *dopParameterBase) resolveLinks(r *resolver) error {
	if p.dopRef.IsZero() {
		return nil
	}
	dop, err := resolveLink[DopBase](r, p.dopRef)
	if err != nil {
		return err
	}
	p.dop = dop
	return nil
}

func (p *dopParameterBase) resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error {
	if p.dopSNRef == "" {
		return nil
	}
	dop, ok := layer.lookupDOP(p.dopSNRef)
	if !ok {
		return r.unresolvedSNRef("data object property", p.dopSNRef, layer)
	}
	p.dop = dop
	return nil
}

// parameterFromXML builds the concrete parameter for a PARAM element
// based on its xsi:type attribute.
func parameterFromXML(raw *xmlParameter, frags []odxlink.DocFragment) (Parameter, error) {
	base := parameterBase{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		semantic:            raw.Semantic,
		bytePosition:        raw.BytePosition,
	}
	if base.ShortName == "" {
		return nil, structuralErrorf("PARAM without a SHORT-NAME")
	}
	if raw.BitPosition != nil {
		if *raw.BitPosition > 7 {
			return nil, structuralErrorf("parameter %s: bit position %d is out of range",
				base.ShortName, *raw.BitPosition)
		}
		base.bitPosition = uint8(*raw.BitPosition)
	}

	dopBase := func() dopParameterBase {
		db := dopParameterBase{parameterBase: base}
		if raw.DopRef != nil {
			db.dopRef = raw.DopRef.toRef(frags)
		}
		if raw.DopSNRef != nil {
			db.dopSNRef = raw.DopSNRef.ShortName
		}
		return db
	}

	switch raw.XSIType {
	case ParameterTypeCodedConst:
		dct, err := diagCodedTypeFromXML(raw.DiagCodedType, frags)
		if err != nil {
			return nil, structuralErrorf("parameter %s: %s", base.ShortName, err)
		}
		value, err := dct.BaseDataType().parseValue(raw.CodedValue)
		if err != nil {
			return nil, structuralErrorf("parameter %s: invalid CODED-VALUE: %s", base.ShortName, err)
		}
		return &CodedConstParameter{parameterBase: base, DiagCodedType: dct, CodedValue: value}, nil

	case ParameterTypeNrcConst:
		dct, err := diagCodedTypeFromXML(raw.DiagCodedType, frags)
		if err != nil {
			return nil, structuralErrorf("parameter %s: %s", base.ShortName, err)
		}
		if len(raw.CodedValues) == 0 {
			return nil, structuralErrorf("parameter %s: NRC-CONST requires CODED-VALUES", base.ShortName)
		}
		values := make([]ParameterValue, len(raw.CodedValues))
		for i, s := range raw.CodedValues {
			v, err := dct.BaseDataType().parseValue(s)
			if err != nil {
				return nil, structuralErrorf("parameter %s: invalid CODED-VALUE: %s", base.ShortName, err)
			}
			values[i] = v
		}
		return &NrcConstParameter{parameterBase: base, DiagCodedType: dct, CodedValues: values}, nil

	case ParameterTypeMatchingRequest:
		if raw.RequestBytePos == nil || raw.ByteLength == nil {
			return nil, structuralErrorf(
				"parameter %s: MATCHING-REQUEST-PARAM requires REQUEST-BYTE-POS and BYTE-LENGTH",
				base.ShortName)
		}
		return &MatchingRequestParameter{
			parameterBase:       base,
			RequestBytePosition: *raw.RequestBytePos,
			ByteLength:          *raw.ByteLength,
		}, nil

	case ParameterTypeValue:
		p := &ValueParameter{dopParameterBase: dopBase()}
		if p.dopRef.IsZero() && p.dopSNRef == "" {
			return nil, structuralErrorf("parameter %s: VALUE requires a DOP-REF or DOP-SNREF", base.ShortName)
		}
		p.physicalDefaultText = raw.PhysicalDefaultValue
		return p, nil

	case ParameterTypePhysConst:
		p := &PhysicalConstantParameter{dopParameterBase: dopBase()}
		if p.dopRef.IsZero() && p.dopSNRef == "" {
			return nil, structuralErrorf("parameter %s: PHYS-CONST requires a DOP-REF or DOP-SNREF", base.ShortName)
		}
		if raw.PhysConstantValue == nil {
			return nil, structuralErrorf("parameter %s: PHYS-CONST requires a PHYS-CONSTANT-VALUE", base.ShortName)
		}
		p.constantText = *raw.PhysConstantValue
		return p, nil

	case ParameterTypeReserved:
		if raw.BitLength == nil || *raw.BitLength == 0 {
			return nil, structuralErrorf("parameter %s: RESERVED requires a non-zero BIT-LENGTH", base.ShortName)
		}
		return &ReservedParameter{parameterBase: base, BitLength: *raw.BitLength}, nil

	case ParameterTypeLengthKey:
		if base.OdxID.IsZero() {
			return nil, structuralErrorf("parameter %s: LENGTH-KEY requires an ID", base.ShortName)
		}
		if base.bytePosition != nil {
			return nil, structuralErrorf(
				"parameter %s: key parameters with an explicit BYTE-POSITION are not supported",
				base.ShortName)
		}
		p := &LengthKeyParameter{dopParameterBase: dopBase()}
		if p.dopRef.IsZero() && p.dopSNRef == "" {
			return nil, structuralErrorf("parameter %s: LENGTH-KEY requires a DOP-REF or DOP-SNREF", base.ShortName)
		}
		return p, nil

	case ParameterTypeTableKey:
		if base.OdxID.IsZero() {
			return nil, structuralErrorf("parameter %s: TABLE-KEY requires an ID", base.ShortName)
		}
		if base.bytePosition != nil {
			return nil, structuralErrorf(
				"parameter %s: key parameters with an explicit BYTE-POSITION are not supported",
				base.ShortName)
		}
		p := &TableKeyParameter{parameterBase: base}
		if raw.TableRef != nil {
			p.tableRef = raw.TableRef.toRef(frags)
		}
		if raw.TableSNRef != nil {
			p.tableSNRef = raw.TableSNRef.ShortName
		}
		if p.tableRef.IsZero() && p.tableSNRef == "" {
			return nil, structuralErrorf("parameter %s: TABLE-KEY requires a TABLE-REF or TABLE-SNREF", base.ShortName)
		}
		return p, nil

	case ParameterTypeTableStruct:
		p := &TableStructParameter{parameterBase: base}
		if raw.TableKeyRef != nil {
			p.tableKeyRef = raw.TableKeyRef.toRef(frags)
		}
		if raw.TableKeySNRef != nil {
			p.tableKeySNRef = raw.TableKeySNRef.ShortName
		}
		if p.tableKeyRef.IsZero() && p.tableKeySNRef == "" {
			return nil, structuralErrorf("parameter %s: TABLE-STRUCT requires a TABLE-KEY-REF or TABLE-KEY-SNREF",
				base.ShortName)
		}
		return p, nil
	}

	return nil, structuralErrorf("parameter %s has unknown kind %q", base.ShortName, raw.XSIType)
}

func registerIfIdentified(b *odxlink.Builder, id odxlink.ID, entity any) error {
	if id.IsZero() {
		return nil
	}
	return b.Register(id, entity)
}
