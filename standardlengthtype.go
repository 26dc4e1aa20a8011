package odx

// StandardLengthType codes a value with a fixed bit length.
type StandardLengthType struct {
	diagCodedTypeBase

	// BitLength is the number of bits the coded value occupies.
	BitLength uint

	// BitMask restricts which bits of the coded value carry
	// information. Bits outside the mask read and write as zero.
	BitMask *uint64

	// Condensed indicates that the masked bits are packed together.
	// Condensed masks are rejected while loading.
	Condensed bool
}

func (t *StandardLengthType) StaticBitLength() (uint, bool) {
	return t.BitLength, true
}

func (t *StandardLengthType) encodeInternal(state *EncodeState, value ParameterValue, bitPosition uint8) ([]byte, error) {
	if t.BitMask != nil {
		n, err := toUint64(value)
		if err != nil {
			return nil, encodeErrorf("applying bit mask: %s", err)
		}
		value = n & *t.BitMask
	}
	return encodeAtomicValue(t.baseDataType, value, t.BitLength, bitPosition, t.highLowByteOrder)
}

func (t *StandardLengthType) decodeInternal(state *DecodeState, bitPosition uint8) (ParameterValue, int, error) {
	value, cursor, err := decodeAtomicValue(state, t.baseDataType, t.BitLength, bitPosition, t.highLowByteOrder)
	if err != nil {
		return nil, 0, err
	}
	if t.BitMask != nil {
		n, err := toUint64(value)
		if err != nil {
			return nil, 0, decodeErrorf("applying bit mask: %s", err)
		}
		value = uint32(n & *t.BitMask)
	}
	return value, cursor, nil
}
