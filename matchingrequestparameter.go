package odx

import "github.com/gavinwade12/odx/odxlink"

// MatchingRequestParameter mirrors a byte range of the request a
// response replies to, e.g. the echoed identifier of a read service.
type MatchingRequestParameter struct {
	parameterBase

	// RequestBytePosition is the offset of the mirrored range within
	// the triggering request.
	RequestBytePosition uint

	// ByteLength is the size of the mirrored range.
	ByteLength uint
}

func (p *MatchingRequestParameter) ParameterType() string { return ParameterTypeMatchingRequest }

func (p *MatchingRequestParameter) StaticBitLength() (uint, bool) {
	return 8 * p.ByteLength, true
}

func (p *MatchingRequestParameter) IsRequired() bool { return false }
func (p *MatchingRequestParameter) IsSettable() bool { return false }

func (p *MatchingRequestParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if state.TriggeringRequest == nil {
		return nil, encodeErrorf("parameter %s mirrors the request but no triggering request was given",
			p.ShortName)
	}
	end := int(p.RequestBytePosition + p.ByteLength)
	if end > len(state.TriggeringRequest) {
		return nil, encodeErrorf("parameter %s mirrors request bytes %d to %d but the request is only %d bytes long",
			p.ShortName, p.RequestBytePosition, end, len(state.TriggeringRequest))
	}
	blob := state.TriggeringRequest[p.RequestBytePosition:end]
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), blob), nil
}

func (p *MatchingRequestParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	sub := p.subDecodeState(state)
	end := sub.CursorPosition + int(p.ByteLength)
	if end > len(sub.CodedMessage) {
		return nil, 0, decodeErrorf("message too short: need %d bytes at offset %d but only %d are left",
			p.ByteLength, sub.CursorPosition, len(sub.CodedMessage)-sub.CursorPosition)
	}
	value := append([]byte(nil), sub.CodedMessage[sub.CursorPosition:end]...)
	return value, end, nil
}

func (p *MatchingRequestParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}

// ReservedParameter occupies bits that carry no information. The bits
// are encoded as zero and ignored while decoding.
type ReservedParameter struct {
	parameterBase

	BitLength uint
}

func (p *ReservedParameter) ParameterType() string { return ParameterTypeReserved }

func (p *ReservedParameter) StaticBitLength() (uint, bool) { return p.BitLength, true }

func (p *ReservedParameter) IsRequired() bool { return false }
func (p *ReservedParameter) IsSettable() bool { return false }

func (p *ReservedParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	byteLen := int((uint(p.bitPosition) + p.BitLength + 7) / 8)
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), make([]byte, byteLen)), nil
}

func (p *ReservedParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	sub := p.subDecodeState(state)
	byteLen := int((uint(p.bitPosition) + p.BitLength + 7) / 8)
	if sub.CursorPosition+byteLen > len(sub.CodedMessage) {
		return nil, 0, decodeErrorf("message too short: need %d bytes at offset %d but only %d are left",
			byteLen, sub.CursorPosition, len(sub.CodedMessage)-sub.CursorPosition)
	}
	return uint32(0), sub.CursorPosition + byteLen, nil
}

func (p *ReservedParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}
