package odx

import "github.com/gavinwade12/odx/odxlink"

// ValueParameter carries an application supplied value whose coded
// representation is described by a data object property or structure.
type ValueParameter struct {
	dopParameterBase

	physicalDefaultText  string
	physicalDefaultValue ParameterValue
}

func (p *ValueParameter) ParameterType() string { return ParameterTypeValue }

// PhysicalDefaultValue returns the value used when the caller does not
// supply one, or nil if the parameter has no default.
func (p *ValueParameter) PhysicalDefaultValue() ParameterValue { return p.physicalDefaultValue }

func (p *ValueParameter) IsRequired() bool { return p.physicalDefaultText == "" }
func (p *ValueParameter) IsSettable() bool { return true }

// parseDefault derives the typed default value once the data object
// property is known.
func (p *ValueParameter) parseDefault() error {
	if p.physicalDefaultText == "" {
		return nil
	}
	dop, ok := p.dop.(*DataObjectProperty)
	if !ok {
		if p.dop == nil {
			return nil
		}
		return structuralErrorf("parameter %s: a default value requires a simple data object property",
			p.ShortName)
	}
	value, err := dop.PhysicalType.BaseDataType.parseValue(p.physicalDefaultText)
	if err != nil {
		return structuralErrorf("parameter %s: invalid PHYSICAL-DEFAULT-VALUE: %s", p.ShortName, err)
	}
	p.physicalDefaultValue = value
	return nil
}

func (p *ValueParameter) resolveLinks(r *resolver) error {
	if err := p.dopParameterBase.resolveLinks(r); err != nil {
		return err
	}
	return p.parseDefault()
}

func (p *ValueParameter) resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error {
	if err := p.dopParameterBase.resolveSNRefs(r, layer, siblings); err != nil {
		return err
	}
	return p.parseDefault()
}

func (p *ValueParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if p.dop == nil {
		return nil, encodeErrorf("the type of parameter %s is not resolved", p.ShortName)
	}

	value, ok := state.ParameterValues[p.ShortName]
	if !ok {
		if p.physicalDefaultValue == nil {
			return nil, encodeErrorf("no value for parameter %s", p.ShortName)
		}
		value = p.physicalDefaultValue
	}

	blob, err := p.dop.encodeValue(state, value, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), blob), nil
}

func (p *ValueParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	if p.dop == nil {
		return nil, 0, decodeErrorf("the type of parameter %s is not resolved", p.ShortName)
	}
	sub := p.subDecodeState(state)
	return p.dop.decodeValue(&sub, p.bitPosition)
}

func (p *ValueParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}
