package odx

import "bytes"

// Termination describes how the end of a MinMaxLengthType value is
// signalled on the wire.
type Termination string

const (
	// TerminationZero ends the value with a zero character.
	TerminationZero Termination = "ZERO"
	// TerminationHexFF ends the value with a 0xFF character.
	TerminationHexFF Termination = "HEX-FF"
	// TerminationEndOfPDU ends the value with the end of the message.
	TerminationEndOfPDU Termination = "END-OF-PDU"
)

func parseTermination(s string) (Termination, error) {
	switch t := Termination(s); t {
	case TerminationZero, TerminationHexFF, TerminationEndOfPDU:
		return t, nil
	}
	return "", structuralErrorf("unknown termination %q", s)
}

// MinMaxLengthType codes a value of variable length bounded by a
// minimum and an optional maximum byte count. The end of the value is
// found via a termination character or the end of the message.
type MinMaxLengthType struct {
	diagCodedTypeBase

	MinLength   uint
	MaxLength   *uint
	Termination Termination
}

func (t *MinMaxLengthType) StaticBitLength() (uint, bool) {
	return 0, false
}

// terminationSequence returns the bytes the termination character
// occupies on the wire. Unicode strings use two byte characters.
func (t *MinMaxLengthType) terminationSequence() []byte {
	var unit byte
	switch t.Termination {
	case TerminationZero:
		unit = 0x00
	case TerminationHexFF:
		unit = 0xFF
	default:
		return nil
	}
	if t.baseDataType == DataTypeUnicode2String {
		return []byte{unit, unit}
	}
	return []byte{unit}
}

func (t *MinMaxLengthType) encodeInternal(state *EncodeState, value ParameterValue, bitPosition uint8) ([]byte, error) {
	if bitPosition != 0 {
		return nil, encodeErrorf("values of variable length must be byte aligned, got bit position %d", bitPosition)
	}

	data, err := variableLengthBytes(t.baseDataType, value, t.highLowByteOrder)
	if err != nil {
		return nil, err
	}
	if uint(len(data)) < t.MinLength {
		return nil, encodeErrorf("value is %d bytes long but at least %d are required", len(data), t.MinLength)
	}
	if t.MaxLength != nil && uint(len(data)) > *t.MaxLength {
		return nil, encodeErrorf("value is %d bytes long but at most %d are allowed", len(data), *t.MaxLength)
	}

	if t.Termination == TerminationEndOfPDU {
		if !state.IsEndOfPDU {
			return nil, encodeErrorf("values terminated by the end of the PDU cannot be encoded in the middle of one")
		}
		return data, nil
	}

	// The termination character is only needed if the value does not
	// already have its maximum length.
	if t.MaxLength == nil || uint(len(data)) < *t.MaxLength {
		data = append(data, t.terminationSequence()...)
	}
	return data, nil
}

func (t *MinMaxLengthType) decodeInternal(state *DecodeState, bitPosition uint8) (ParameterValue, int, error) {
	if bitPosition != 0 {
		return nil, 0, decodeErrorf("values of variable length must be byte aligned, got bit position %d", bitPosition)
	}

	rest := state.CodedMessage[state.CursorPosition:]
	if uint(len(rest)) < t.MinLength {
		return nil, 0, decodeErrorf("message too short: need at least %d bytes at offset %d but only %d are left",
			t.MinLength, state.CursorPosition, len(rest))
	}

	limit := len(rest)
	if t.MaxLength != nil && int(*t.MaxLength) < limit {
		limit = int(*t.MaxLength)
	}

	// Without a terminator the value ends at its maximum length or at
	// the end of the message, whichever comes first.
	valueLen := limit
	consumed := limit
	if term := t.terminationSequence(); term != nil {
		for i := int(t.MinLength); i+len(term) <= limit; i += len(term) {
			if bytes.Equal(rest[i:i+len(term)], term) {
				valueLen = i
				consumed = i + len(term)
				break
			}
		}
	}

	value, err := variableLengthValue(t.baseDataType, rest[:valueLen], t.highLowByteOrder)
	if err != nil {
		return nil, 0, err
	}
	return value, state.CursorPosition + consumed, nil
}
