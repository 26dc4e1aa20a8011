package odx

import "github.com/gavinwade12/odx/odxlink"

// CodedConstParameter always codes the same value, e.g. a service
// identifier byte.
type CodedConstParameter struct {
	parameterBase

	DiagCodedType DiagCodedType
	CodedValue    ParameterValue
}

func (p *CodedConstParameter) ParameterType() string { return ParameterTypeCodedConst }

func (p *CodedConstParameter) StaticBitLength() (uint, bool) {
	return p.DiagCodedType.StaticBitLength()
}

func (p *CodedConstParameter) IsRequired() bool { return false }
func (p *CodedConstParameter) IsSettable() bool { return false }

func (p *CodedConstParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if v, ok := state.ParameterValues[p.ShortName]; ok && !valuesEqual(v, p.CodedValue) {
		return nil, encodeErrorf("parameter %s is constant %v and cannot be set to %v",
			p.ShortName, p.CodedValue, v)
	}
	blob, err := p.DiagCodedType.encodeInternal(state, p.CodedValue, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), blob), nil
}

func (p *CodedConstParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	sub := p.subDecodeState(state)
	value, cursor, err := p.DiagCodedType.decodeInternal(&sub, p.bitPosition)
	if err != nil {
		return nil, 0, err
	}
	if !valuesEqual(value, p.CodedValue) {
		return nil, 0, decodeErrorf("parameter %s decoded to %v, expected the constant %v",
			p.ShortName, value, p.CodedValue)
	}
	return value, cursor, nil
}

func (p *CodedConstParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}

func (p *CodedConstParameter) resolveLinks(r *resolver) error {
	return p.DiagCodedType.resolveLinks(r)
}

// NrcConstParameter codes one value out of a fixed set, used for the
// negative response code of a negative response. At decode time a value
// outside the set rejects the whole structure, which is how negative
// responses with other codes are told apart.
type NrcConstParameter struct {
	parameterBase

	DiagCodedType DiagCodedType
	CodedValues   []ParameterValue
}

func (p *NrcConstParameter) ParameterType() string { return ParameterTypeNrcConst }

func (p *NrcConstParameter) StaticBitLength() (uint, bool) {
	return p.DiagCodedType.StaticBitLength()
}

func (p *NrcConstParameter) IsRequired() bool { return false }
func (p *NrcConstParameter) IsSettable() bool { return false }

func (p *NrcConstParameter) containsValue(v ParameterValue) bool {
	for _, cv := range p.CodedValues {
		if valuesEqual(cv, v) {
			return true
		}
	}
	return false
}

func (p *NrcConstParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	value := p.CodedValues[0]
	if v, ok := state.ParameterValues[p.ShortName]; ok {
		if !p.containsValue(v) {
			return nil, encodeErrorf("parameter %s cannot be set to %v, the allowed values are %v",
				p.ShortName, v, p.CodedValues)
		}
		value = v
	}
	blob, err := p.DiagCodedType.encodeInternal(state, value, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), blob), nil
}

func (p *NrcConstParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	sub := p.subDecodeState(state)
	value, cursor, err := p.DiagCodedType.decodeInternal(&sub, p.bitPosition)
	if err != nil {
		return nil, 0, err
	}
	if !p.containsValue(value) {
		return nil, 0, decodeErrorf("parameter %s decoded to %v which is not one of %v",
			p.ShortName, value, p.CodedValues)
	}
	return value, cursor, nil
}

func (p *NrcConstParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}

func (p *NrcConstParameter) resolveLinks(r *resolver) error {
	return p.DiagCodedType.resolveLinks(r)
}

// PhysicalConstantParameter codes a constant given as a physical value
// converted through a data object property.
type PhysicalConstantParameter struct {
	dopParameterBase

	constantText  string
	constantValue ParameterValue
}

func (p *PhysicalConstantParameter) ParameterType() string { return ParameterTypePhysConst }

// ConstantValue returns the physical constant. It is nil until the
// parameter's type reference has been resolved.
func (p *PhysicalConstantParameter) ConstantValue() ParameterValue { return p.constantValue }

func (p *PhysicalConstantParameter) IsRequired() bool { return false }
func (p *PhysicalConstantParameter) IsSettable() bool { return false }

// parseConstant derives the typed constant once the data object
// property is known.
func (p *PhysicalConstantParameter) parseConstant() error {
	dop, ok := p.dop.(*DataObjectProperty)
	if !ok {
		if p.dop == nil {
			return nil
		}
		return structuralErrorf("parameter %s: a physical constant requires a simple data object property",
			p.ShortName)
	}
	value, err := dop.PhysicalType.BaseDataType.parseValue(p.constantText)
	if err != nil {
		return structuralErrorf("parameter %s: invalid PHYS-CONSTANT-VALUE: %s", p.ShortName, err)
	}
	p.constantValue = value
	return nil
}

func (p *PhysicalConstantParameter) resolveLinks(r *resolver) error {
	if err := p.dopParameterBase.resolveLinks(r); err != nil {
		return err
	}
	return p.parseConstant()
}

func (p *PhysicalConstantParameter) resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error {
	if err := p.dopParameterBase.resolveSNRefs(r, layer, siblings); err != nil {
		return err
	}
	return p.parseConstant()
}

func (p *PhysicalConstantParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if p.dop == nil {
		return nil, encodeErrorf("the type of parameter %s is not resolved", p.ShortName)
	}
	if v, ok := state.ParameterValues[p.ShortName]; ok && !valuesEqual(v, p.constantValue) {
		return nil, encodeErrorf("parameter %s is constant %v and cannot be set to %v",
			p.ShortName, p.constantValue, v)
	}
	blob, err := p.dop.encodeValue(state, p.constantValue, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), blob), nil
}

func (p *PhysicalConstantParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	if p.dop == nil {
		return nil, 0, decodeErrorf("the type of parameter %s is not resolved", p.ShortName)
	}
	sub := p.subDecodeState(state)
	value, cursor, err := p.dop.decodeValue(&sub, p.bitPosition)
	if err != nil {
		return nil, 0, err
	}
	if !valuesEqual(value, p.constantValue) {
		return nil, 0, decodeErrorf("parameter %s decoded to %v, expected the constant %v",
			p.ShortName, value, p.constantValue)
	}
	return value, cursor, nil
}

func (p *PhysicalConstantParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}
