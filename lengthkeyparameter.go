package odx

import "github.com/gavinwade12/odx/odxlink"

// LengthKeyParameter carries the bit count of another parameter of the
// same structure whose coded type is a ParamLengthInfoType. Its value
// is usually not supplied by the caller: the first encoding pass
// reserves placeholder bytes for the key and the parameter it gates
// records the actual length, which the second pass then writes into the
// reserved bytes.
type LengthKeyParameter struct {
	dopParameterBase
}

func (p *LengthKeyParameter) ParameterType() string { return ParameterTypeLengthKey }

func (p *LengthKeyParameter) IsRequired() bool { return false }
func (p *LengthKeyParameter) IsSettable() bool { return false }

func (p *LengthKeyParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if p.dop == nil {
		return nil, encodeErrorf("the type of parameter %s is not resolved", p.ShortName)
	}
	bitLength, ok := p.dop.StaticBitLength()
	if !ok {
		return nil, encodeErrorf("length key %s requires a type of fixed length", p.ShortName)
	}

	pos := p.encodePosition(state)
	state.reserveKeyPosition(p.ShortName, pos)

	placeholder := make([]byte, (uint(p.bitPosition)+bitLength+7)/8)
	return mergeIntoMessage(state.CodedMessage, pos, placeholder), nil
}

// encodeKeyIntoPDU writes the derived key value over the placeholder
// bytes reserved in the first pass. It fails if no parameter recorded a
// length for the key and the caller did not supply one either.
func (p *LengthKeyParameter) encodeKeyIntoPDU(state *EncodeState) ([]byte, error) {
	value, ok := state.ParameterValues[p.ShortName]
	if !ok {
		return nil, encodeErrorf("the value of length key %s was neither supplied nor derived",
			p.ShortName)
	}
	pos, ok := state.keyPositions[p.ShortName]
	if !ok {
		return nil, encodeErrorf("length key %s was not placed during the first encoding pass",
			p.ShortName)
	}
	blob, err := p.dop.encodeValue(state, value, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, pos, blob), nil
}

func (p *LengthKeyParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	if p.dop == nil {
		return nil, 0, decodeErrorf("the type of parameter %s is not resolved", p.ShortName)
	}
	sub := p.subDecodeState(state)
	return p.dop.decodeValue(&sub, p.bitPosition)
}

func (p *LengthKeyParameter) buildLinks(b *odxlink.Builder) error {
	return b.Register(p.OdxID, p)
}
