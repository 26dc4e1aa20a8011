package odx

import (
	"math"
	"unicode/utf16"

	"github.com/gavinwade12/odx/odxlink"
)

// DiagCodedType describes how an internal value is represented on the
// wire. The four concrete representations are StandardLengthType,
// LeadingLengthInfoType, MinMaxLengthType and ParamLengthInfoType;
// other representations are rejected while loading.
type DiagCodedType interface {
	// BaseDataType returns the data type of the internal value.
	BaseDataType() DataType

	// StaticBitLength returns the fixed bit length of the coded
	// representation, if it has one.
	StaticBitLength() (uint, bool)

	// encodeInternal converts an internal value into its coded bytes.
	// The returned bytes are placed into the message by the calling
	// parameter.
	encodeInternal(state *EncodeState, value ParameterValue, bitPosition uint8) ([]byte, error)

	// decodeInternal reads an internal value starting at the state's
	// cursor and returns it together with the cursor position after
	// the value.
	decodeInternal(state *DecodeState, bitPosition uint8) (ParameterValue, int, error)

	resolveLinks(r *resolver) error
}

const maxAtomicBitLength = 64

// encodeAtomicValue packs a single internal value into the smallest
// run of bytes covering bitPosition+bitLength bits. Numeric values are
// shifted up by bitPosition so that their least significant bit sits at
// the requested position of the final byte; strings and byte fields
// must be byte aligned.
func encodeAtomicValue(dt DataType, value ParameterValue, bitLength uint, bitPosition uint8, highLowByteOrder bool) ([]byte, error) {
	if dt.IsNumeric() {
		return encodeAtomicNumber(dt, value, bitLength, bitPosition, highLowByteOrder)
	}

	if bitPosition != 0 {
		return nil, encodeErrorf("%s values must be byte aligned, got bit position %d", dt, bitPosition)
	}
	if bitLength%8 != 0 {
		return nil, encodeErrorf("%s values must cover whole bytes, got %d bits", dt, bitLength)
	}

	var data []byte
	switch dt {
	case DataTypeAsciiString, DataTypeUtf8String:
		s, ok := value.(string)
		if !ok {
			return nil, encodeErrorf("expected a string value, got %T", value)
		}
		data = []byte(s)
	case DataTypeUnicode2String:
		s, ok := value.(string)
		if !ok {
			return nil, encodeErrorf("expected a string value, got %T", value)
		}
		data = encodeUTF16(s, highLowByteOrder)
	case DataTypeByteField:
		b, ok := value.([]byte)
		if !ok {
			return nil, encodeErrorf("expected a byte field value, got %T", value)
		}
		data = append([]byte(nil), b...)
	default:
		return nil, encodeErrorf("unknown base data type %q", dt)
	}

	if uint(len(data))*8 != bitLength {
		return nil, encodeErrorf("value occupies %d bits but the coded type requires %d",
			len(data)*8, bitLength)
	}
	return data, nil
}

func encodeAtomicNumber(dt DataType, value ParameterValue, bitLength uint, bitPosition uint8, highLowByteOrder bool) ([]byte, error) {
	if bitLength == 0 || bitLength > maxAtomicBitLength {
		return nil, encodeErrorf("cannot encode a %d bit number", bitLength)
	}

	var raw uint64
	switch dt {
	case DataTypeUint32:
		n, err := toUint64(value)
		if err != nil {
			return nil, encodeErrorf("encoding %s: %s", dt, err)
		}
		if bitLength < 64 && n >= 1<<bitLength {
			return nil, encodeErrorf("value %d does not fit into %d bits", n, bitLength)
		}
		raw = n
	case DataTypeInt32:
		n, err := toInt64(value)
		if err != nil {
			return nil, encodeErrorf("encoding %s: %s", dt, err)
		}
		if bitLength < 64 {
			limit := int64(1) << (bitLength - 1)
			if n < -limit || n >= limit {
				return nil, encodeErrorf("value %d does not fit into %d bits", n, bitLength)
			}
			raw = uint64(n) & (1<<bitLength - 1)
		} else {
			raw = uint64(n)
		}
	case DataTypeFloat32:
		if bitLength != 32 {
			return nil, encodeErrorf("%s requires 32 bits, got %d", dt, bitLength)
		}
		f, err := toFloat64(value)
		if err != nil {
			return nil, encodeErrorf("encoding %s: %s", dt, err)
		}
		raw = uint64(math.Float32bits(float32(f)))
	case DataTypeFloat64:
		if bitLength != 64 {
			return nil, encodeErrorf("%s requires 64 bits, got %d", dt, bitLength)
		}
		f, err := toFloat64(value)
		if err != nil {
			return nil, encodeErrorf("encoding %s: %s", dt, err)
		}
		raw = math.Float64bits(f)
	}

	totalBits := uint(bitPosition) + bitLength
	byteLen := int((totalBits + 7) / 8)

	// The value is shifted up so that its least significant bit sits
	// bitPosition bits above the bottom of the last byte. The shifted
	// value can exceed 64 bits, in which case the overflowing top bits
	// form an extra leading byte.
	data := make([]byte, byteLen)
	low := raw << bitPosition
	for i := byteLen - 1; i >= 0 && i >= byteLen-8; i-- {
		data[i] = byte(low >> (8 * uint(byteLen-1-i)))
	}
	if byteLen == 9 {
		data[0] = byte(raw >> (64 - uint(bitPosition)))
	}

	if !highLowByteOrder {
		reverseBytes(data)
	}
	return data, nil
}

// decodeAtomicValue reads a single internal value starting at the
// cursor of the decode state and returns it together with the new
// cursor position.
func decodeAtomicValue(state *DecodeState, dt DataType, bitLength uint, bitPosition uint8, highLowByteOrder bool) (ParameterValue, int, error) {
	totalBits := uint(bitPosition) + bitLength
	byteLen := int((totalBits + 7) / 8)
	if state.CursorPosition+byteLen > len(state.CodedMessage) {
		return nil, 0, decodeErrorf("message too short: need %d bytes at offset %d but only %d are left",
			byteLen, state.CursorPosition, len(state.CodedMessage)-state.CursorPosition)
	}
	window := state.CodedMessage[state.CursorPosition : state.CursorPosition+byteLen]
	cursor := state.CursorPosition + byteLen

	if !dt.IsNumeric() {
		if bitPosition != 0 {
			return nil, 0, decodeErrorf("%s values must be byte aligned, got bit position %d", dt, bitPosition)
		}
		if bitLength%8 != 0 {
			return nil, 0, decodeErrorf("%s values must cover whole bytes, got %d bits", dt, bitLength)
		}
		switch dt {
		case DataTypeAsciiString, DataTypeUtf8String:
			return string(window), cursor, nil
		case DataTypeUnicode2String:
			s, err := decodeUTF16(window, highLowByteOrder)
			if err != nil {
				return nil, 0, err
			}
			return s, cursor, nil
		case DataTypeByteField:
			return append([]byte(nil), window...), cursor, nil
		}
		return nil, 0, decodeErrorf("unknown base data type %q", dt)
	}

	if bitLength == 0 || bitLength > maxAtomicBitLength {
		return nil, 0, decodeErrorf("cannot decode a %d bit number at bit position %d", bitLength, bitPosition)
	}

	if !highLowByteOrder {
		window = append([]byte(nil), window...)
		reverseBytes(window)
	}

	// Shift the window down by bitPosition, then collect the low
	// bitLength bits. Shifting byte-wise keeps values straddling the
	// 64 bit boundary intact.
	shifted := make([]byte, byteLen)
	var carry byte
	for i := 0; i < byteLen; i++ {
		b := window[i]
		shifted[i] = carry<<(8-bitPosition) | b>>bitPosition
		carry = b & (1<<bitPosition - 1)
	}

	var raw uint64
	start := 0
	if byteLen > 8 {
		start = byteLen - 8
	}
	for _, b := range shifted[start:] {
		raw = raw<<8 | uint64(b)
	}
	if bitLength < 64 {
		raw &= 1<<bitLength - 1
	}

	switch dt {
	case DataTypeUint32:
		return uint32(raw), cursor, nil
	case DataTypeInt32:
		if bitLength < 64 && raw&(1<<(bitLength-1)) != 0 {
			raw |= ^uint64(0) << bitLength
		}
		return int32(int64(raw)), cursor, nil
	case DataTypeFloat32:
		if bitLength != 32 {
			return nil, 0, decodeErrorf("%s requires 32 bits, got %d", dt, bitLength)
		}
		return math.Float32frombits(uint32(raw)), cursor, nil
	case DataTypeFloat64:
		if bitLength != 64 {
			return nil, 0, decodeErrorf("%s requires 64 bits, got %d", dt, bitLength)
		}
		return math.Float64frombits(raw), cursor, nil
	}
	return nil, 0, decodeErrorf("unknown base data type %q", dt)
}

func encodeUTF16(s string, bigEndian bool) []byte {
	units := utf16.Encode([]rune(s))
	data := make([]byte, 2*len(units))
	for i, u := range units {
		if bigEndian {
			data[2*i] = byte(u >> 8)
			data[2*i+1] = byte(u)
		} else {
			data[2*i] = byte(u)
			data[2*i+1] = byte(u >> 8)
		}
	}
	return data
}

func decodeUTF16(data []byte, bigEndian bool) (string, error) {
	if len(data)%2 != 0 {
		return "", decodeErrorf("%s values require an even byte count, got %d", DataTypeUnicode2String, len(data))
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		if bigEndian {
			units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
		} else {
			units[i] = uint16(data[2*i+1])<<8 | uint16(data[2*i])
		}
	}
	return string(utf16.Decode(units)), nil
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// diagCodedTypeFromXML builds the concrete coded type from a
// DIAG-CODED-TYPE element based on its xsi:type attribute.
func diagCodedTypeFromXML(raw *xmlDiagCodedType, frags []odxlink.DocFragment) (DiagCodedType, error) {
	if raw == nil {
		return nil, structuralErrorf("missing DIAG-CODED-TYPE element")
	}

	baseType, err := parseDataType(raw.BaseDataType)
	if err != nil {
		return nil, err
	}
	base := diagCodedTypeBase{
		baseDataType:     baseType,
		highLowByteOrder: raw.highLowByteOrder(),
	}

	switch raw.XSIType {
	case "STANDARD-LENGTH-TYPE":
		if raw.BitLength == nil {
			return nil, structuralErrorf("STANDARD-LENGTH-TYPE requires a BIT-LENGTH")
		}
		t := &StandardLengthType{
			diagCodedTypeBase: base,
			BitLength:         *raw.BitLength,
			Condensed:         raw.Condensed,
		}
		if raw.BitMask != "" {
			mask, err := decodeHexString(raw.BitMask)
			if err != nil {
				return nil, structuralErrorf("invalid BIT-MASK %q: %s", raw.BitMask, err)
			}
			var m uint64
			for _, b := range mask {
				m = m<<8 | uint64(b)
			}
			t.BitMask = &m
		}
		if t.Condensed {
			return nil, structuralErrorf("condensed bit masks are not supported")
		}
		if t.BitMask != nil && baseType != DataTypeUint32 {
			return nil, structuralErrorf("BIT-MASK requires base data type %s, got %s",
				DataTypeUint32, baseType)
		}
		return t, nil

	case "LEADING-LENGTH-INFO-TYPE":
		if raw.BitLength == nil || *raw.BitLength == 0 {
			return nil, structuralErrorf("LEADING-LENGTH-INFO-TYPE requires a non-zero BIT-LENGTH")
		}
		switch baseType {
		case DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String, DataTypeByteField:
		default:
			return nil, structuralErrorf("LEADING-LENGTH-INFO-TYPE cannot be used with %s", baseType)
		}
		return &LeadingLengthInfoType{
			diagCodedTypeBase: base,
			BitLength:         *raw.BitLength,
		}, nil

	case "MIN-MAX-LENGTH-TYPE":
		if raw.MinLength == nil {
			return nil, structuralErrorf("MIN-MAX-LENGTH-TYPE requires a MIN-LENGTH")
		}
		term, err := parseTermination(raw.Termination)
		if err != nil {
			return nil, err
		}
		t := &MinMaxLengthType{
			diagCodedTypeBase: base,
			MinLength:         *raw.MinLength,
			MaxLength:         raw.MaxLength,
			Termination:       term,
		}
		if t.MaxLength != nil && *t.MaxLength < t.MinLength {
			return nil, structuralErrorf("MIN-MAX-LENGTH-TYPE with MAX-LENGTH %d below MIN-LENGTH %d",
				*t.MaxLength, t.MinLength)
		}
		switch baseType {
		case DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String, DataTypeByteField:
		default:
			return nil, structuralErrorf("MIN-MAX-LENGTH-TYPE cannot be used with %s", baseType)
		}
		return t, nil

	case "PARAM-LENGTH-INFO-TYPE":
		if raw.LengthKeyRef == nil {
			return nil, structuralErrorf("PARAM-LENGTH-INFO-TYPE requires a LENGTH-KEY-REF")
		}
		return &ParamLengthInfoType{
			diagCodedTypeBase: base,
			lengthKeyRef:      raw.LengthKeyRef.toRef(frags),
		}, nil
	}

	return nil, structuralErrorf("unknown diag coded type %q", raw.XSIType)
}

// diagCodedTypeBase carries the properties shared by all coded types.
type diagCodedTypeBase struct {
	baseDataType     DataType
	highLowByteOrder bool
}

func (t *diagCodedTypeBase) BaseDataType() DataType { return t.baseDataType }

// HighLowByteOrder reports whether multi-byte values are represented
// most significant byte first.
func (t *diagCodedTypeBase) HighLowByteOrder() bool { return t.highLowByteOrder }

func (t *diagCodedTypeBase) resolveLinks(*resolver) error { return nil }
