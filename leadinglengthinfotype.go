package odx

// LeadingLengthInfoType codes a value whose byte count is sent in a
// length field directly in front of it.
type LeadingLengthInfoType struct {
	diagCodedTypeBase

	// BitLength is the size of the leading length field.
	BitLength uint
}

func (t *LeadingLengthInfoType) StaticBitLength() (uint, bool) {
	return 0, false
}

func (t *LeadingLengthInfoType) encodeInternal(state *EncodeState, value ParameterValue, bitPosition uint8) ([]byte, error) {
	payload, err := variableLengthBytes(t.baseDataType, value, t.highLowByteOrder)
	if err != nil {
		return nil, err
	}

	prefix, err := encodeAtomicValue(DataTypeUint32, uint32(len(payload)), t.BitLength, bitPosition, t.highLowByteOrder)
	if err != nil {
		return nil, err
	}
	return append(prefix, payload...), nil
}

func (t *LeadingLengthInfoType) decodeInternal(state *DecodeState, bitPosition uint8) (ParameterValue, int, error) {
	length, cursor, err := decodeAtomicValue(state, DataTypeUint32, t.BitLength, bitPosition, t.highLowByteOrder)
	if err != nil {
		return nil, 0, err
	}
	byteCount := int(length.(uint32))

	if cursor+byteCount > len(state.CodedMessage) {
		return nil, 0, decodeErrorf("length field announces %d bytes at offset %d but only %d are left",
			byteCount, cursor, len(state.CodedMessage)-cursor)
	}
	value, err := variableLengthValue(t.baseDataType, state.CodedMessage[cursor:cursor+byteCount], t.highLowByteOrder)
	if err != nil {
		return nil, 0, err
	}
	return value, cursor + byteCount, nil
}

// variableLengthBytes returns the byte representation of a string or
// byte field value for the coded types that determine the length at
// runtime.
func variableLengthBytes(dt DataType, value ParameterValue, highLowByteOrder bool) ([]byte, error) {
	switch dt {
	case DataTypeAsciiString, DataTypeUtf8String:
		s, ok := value.(string)
		if !ok {
			return nil, encodeErrorf("expected a string value, got %T", value)
		}
		return []byte(s), nil
	case DataTypeUnicode2String:
		s, ok := value.(string)
		if !ok {
			return nil, encodeErrorf("expected a string value, got %T", value)
		}
		return encodeUTF16(s, highLowByteOrder), nil
	case DataTypeByteField:
		b, ok := value.([]byte)
		if !ok {
			return nil, encodeErrorf("expected a byte field value, got %T", value)
		}
		return append([]byte(nil), b...), nil
	}
	return nil, encodeErrorf("variable length values cannot have base data type %s", dt)
}

// variableLengthValue is the inverse of variableLengthBytes.
func variableLengthValue(dt DataType, data []byte, highLowByteOrder bool) (ParameterValue, error) {
	switch dt {
	case DataTypeAsciiString, DataTypeUtf8String:
		return string(data), nil
	case DataTypeUnicode2String:
		return decodeUTF16(data, highLowByteOrder)
	case DataTypeByteField:
		return append([]byte(nil), data...), nil
	}
	return nil, decodeErrorf("variable length values cannot have base data type %s", dt)
}
