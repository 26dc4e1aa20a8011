package odx

import (
	"math/bits"

	"github.com/gavinwade12/odx/odxlink"
)

// ParamLengthInfoType codes a value whose bit length is carried by a
// length key parameter elsewhere in the same structure.
type ParamLengthInfoType struct {
	diagCodedTypeBase

	lengthKeyRef odxlink.Ref
	lengthKey    *LengthKeyParameter
}

// LengthKey returns the parameter holding the bit length of the coded
// value.
func (t *ParamLengthInfoType) LengthKey() *LengthKeyParameter { return t.lengthKey }

func (t *ParamLengthInfoType) StaticBitLength() (uint, bool) {
	return 0, false
}

func (t *ParamLengthInfoType) resolveLinks(r *resolver) error {
	key, err := resolveLink[*LengthKeyParameter](r, t.lengthKeyRef)
	if err != nil {
		return err
	}
	t.lengthKey = key
	return nil
}

func (t *ParamLengthInfoType) encodeInternal(state *EncodeState, value ParameterValue, bitPosition uint8) ([]byte, error) {
	if t.lengthKey == nil {
		return nil, encodeErrorf("length key reference %s is not resolved", t.lengthKeyRef)
	}

	// The key parameter carries the length of the gated value in
	// bytes.
	var byteCount uint
	if keyValue, ok := state.ParameterValues[t.lengthKey.Name()]; ok {
		n, err := toUint64(keyValue)
		if err != nil {
			return nil, encodeErrorf("length key %s: %s", t.lengthKey.Name(), err)
		}
		byteCount = uint(n)
	} else {
		byteCount = t.inferByteCount(value)
		// Record the derived length so that the length key parameter
		// can be encoded in the second pass.
		state.ParameterValues[t.lengthKey.Name()] = uint32(byteCount)
	}

	return encodeAtomicValue(t.baseDataType, value, 8*byteCount, bitPosition, t.highLowByteOrder)
}

func (t *ParamLengthInfoType) decodeInternal(state *DecodeState, bitPosition uint8) (ParameterValue, int, error) {
	if t.lengthKey == nil {
		return nil, 0, decodeErrorf("length key reference %s is not resolved", t.lengthKeyRef)
	}

	keyValue, ok := state.ParameterValues[t.lengthKey.Name()]
	if !ok {
		return nil, 0, decodeErrorf("length key %s has not been decoded yet", t.lengthKey.Name())
	}
	n, err := toUint64(keyValue)
	if err != nil {
		return nil, 0, decodeErrorf("length key %s: %s", t.lengthKey.Name(), err)
	}

	return decodeAtomicValue(state, t.baseDataType, 8*uint(n), bitPosition, t.highLowByteOrder)
}

// inferByteCount derives the byte count from the value itself when the
// length key was not specified by the caller.
func (t *ParamLengthInfoType) inferByteCount(value ParameterValue) uint {
	switch t.baseDataType {
	case DataTypeByteField, DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String:
		if data, err := variableLengthBytes(t.baseDataType, value, t.highLowByteOrder); err == nil {
			return uint(len(data))
		}
	case DataTypeUint32, DataTypeInt32:
		if n, err := toUint64(value); err == nil {
			byteCount := (bits.Len64(n) + 7) / 8
			if byteCount == 0 {
				byteCount = 1
			}
			return uint(byteCount)
		}
	case DataTypeFloat32:
		return 4
	case DataTypeFloat64:
		return 8
	}
	return 0
}
