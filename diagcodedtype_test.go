package odx

import (
	"bytes"
	"reflect"
	"testing"
)

func uint64Ptr(n uint64) *uint64 { return &n }

func TestEncodeAtomicValue(t *testing.T) {
	tests := []struct {
		name             string
		dataType         DataType
		value            ParameterValue
		bitLength        uint
		bitPosition      uint8
		highLowByteOrder bool
		want             []byte
	}{
		{"uint8", DataTypeUint32, uint32(0x3E), 8, 0, true, []byte{0x3E}},
		{"uint16 big endian", DataTypeUint32, uint32(0xF190), 16, 0, true, []byte{0xF1, 0x90}},
		{"uint16 little endian", DataTypeUint32, uint32(0xF190), 16, 0, false, []byte{0x90, 0xF1}},
		{"sub-byte at bit position", DataTypeUint32, uint32(0x05), 4, 4, true, []byte{0x50}},
		{"12 bits straddling bytes", DataTypeUint32, uint32(0xABC), 12, 0, true, []byte{0x0A, 0xBC}},
		{"negative int", DataTypeInt32, int32(-2), 8, 0, true, []byte{0xFE}},
		{"ascii", DataTypeAsciiString, "AB", 16, 0, true, []byte{'A', 'B'}},
		{"byte field", DataTypeByteField, []byte{0xDE, 0xAD}, 16, 0, true, []byte{0xDE, 0xAD}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeAtomicValue(tt.dataType, tt.value, tt.bitLength, tt.bitPosition, tt.highLowByteOrder)
			if err != nil {
				t.Fatalf("encodeAtomicValue() error: %s", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encodeAtomicValue() = % X, want % X", got, tt.want)
			}

			state := &DecodeState{CodedMessage: got}
			value, cursor, err := decodeAtomicValue(state, tt.dataType, tt.bitLength, tt.bitPosition, tt.highLowByteOrder)
			if err != nil {
				t.Fatalf("decodeAtomicValue() error: %s", err)
			}
			if cursor != len(got) {
				t.Errorf("decodeAtomicValue() cursor = %d, want %d", cursor, len(got))
			}
			if !reflect.DeepEqual(value, tt.value) {
				t.Errorf("decodeAtomicValue() = %v (%T), want %v (%T)", value, value, tt.value, tt.value)
			}
		})
	}
}

func TestEncodeAtomicValueRejectsOverflow(t *testing.T) {
	if _, err := encodeAtomicValue(DataTypeUint32, uint32(0x100), 8, 0, true); err == nil {
		t.Error("encodeAtomicValue() accepted a value exceeding its bit length")
	}
	if _, err := encodeAtomicValue(DataTypeInt32, int32(128), 8, 0, true); err == nil {
		t.Error("encodeAtomicValue() accepted a signed value exceeding its bit length")
	}
	if _, err := encodeAtomicValue(DataTypeAsciiString, "ABC", 16, 0, true); err == nil {
		t.Error("encodeAtomicValue() accepted a string longer than the coded type")
	}
	if _, err := encodeAtomicValue(DataTypeAsciiString, "AB", 16, 3, true); err == nil {
		t.Error("encodeAtomicValue() accepted a string at a sub-byte position")
	}
}

func TestStandardLengthTypeBitMask(t *testing.T) {
	typ := &StandardLengthType{
		diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeUint32, highLowByteOrder: true},
		BitLength:         8,
		BitMask:           uint64Ptr(0x0F),
	}

	state := &EncodeState{}
	got, err := typ.encodeInternal(state, uint32(0xFA), 0)
	if err != nil {
		t.Fatalf("encodeInternal() error: %s", err)
	}
	if want := []byte{0x0A}; !bytes.Equal(got, want) {
		t.Errorf("encodeInternal() = % X, want % X", got, want)
	}

	decState := &DecodeState{CodedMessage: []byte{0xFA}}
	value, _, err := typ.decodeInternal(decState, 0)
	if err != nil {
		t.Fatalf("decodeInternal() error: %s", err)
	}
	if value != uint32(0x0A) {
		t.Errorf("decodeInternal() = %v, want masked 0x0A", value)
	}
}

func TestLeadingLengthInfoType(t *testing.T) {
	typ := &LeadingLengthInfoType{
		diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeAsciiString, highLowByteOrder: true},
		BitLength:         8,
	}

	state := &EncodeState{}
	got, err := typ.encodeInternal(state, "flip", 0)
	if err != nil {
		t.Fatalf("encodeInternal() error: %s", err)
	}
	if want := []byte{0x04, 'f', 'l', 'i', 'p'}; !bytes.Equal(got, want) {
		t.Fatalf("encodeInternal() = % X, want % X", got, want)
	}

	decState := &DecodeState{CodedMessage: got}
	value, cursor, err := typ.decodeInternal(decState, 0)
	if err != nil {
		t.Fatalf("decodeInternal() error: %s", err)
	}
	if value != "flip" || cursor != 5 {
		t.Errorf("decodeInternal() = %v, %d, want flip, 5", value, cursor)
	}

	// A length field announcing more bytes than remain is rejected.
	decState = &DecodeState{CodedMessage: []byte{0x05, 'f', 'l'}}
	if _, _, err := typ.decodeInternal(decState, 0); err == nil {
		t.Error("decodeInternal() accepted a length field beyond the message")
	}
}

func TestMinMaxLengthTypeTermination(t *testing.T) {
	maxLen := uint(4)
	typ := &MinMaxLengthType{
		diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeAsciiString, highLowByteOrder: true},
		MinLength:         1,
		MaxLength:         &maxLen,
		Termination:       TerminationZero,
	}

	state := &EncodeState{}
	got, err := typ.encodeInternal(state, "ab", 0)
	if err != nil {
		t.Fatalf("encodeInternal() error: %s", err)
	}
	if want := []byte{'a', 'b', 0x00}; !bytes.Equal(got, want) {
		t.Errorf("encodeInternal() = % X, want % X", got, want)
	}

	// At maximum length the terminator is omitted.
	got, err = typ.encodeInternal(state, "abcd", 0)
	if err != nil {
		t.Fatalf("encodeInternal() error: %s", err)
	}
	if want := []byte{'a', 'b', 'c', 'd'}; !bytes.Equal(got, want) {
		t.Errorf("encodeInternal() = % X, want % X", got, want)
	}

	if _, err := typ.encodeInternal(state, "", 0); err == nil {
		t.Error("encodeInternal() accepted a value below the minimum length")
	}
	if _, err := typ.encodeInternal(state, "abcde", 0); err == nil {
		t.Error("encodeInternal() accepted a value above the maximum length")
	}

	// The terminator ends the value; trailing bytes stay unread.
	decState := &DecodeState{CodedMessage: []byte{'a', 'b', 0x00, 'x'}}
	value, cursor, err := typ.decodeInternal(decState, 0)
	if err != nil {
		t.Fatalf("decodeInternal() error: %s", err)
	}
	if value != "ab" || cursor != 3 {
		t.Errorf("decodeInternal() = %v, %d, want ab, 3", value, cursor)
	}

	// Without a terminator the value ends at its maximum length.
	decState = &DecodeState{CodedMessage: []byte{'a', 'b', 'c', 'd', 'e'}}
	value, cursor, err = typ.decodeInternal(decState, 0)
	if err != nil {
		t.Fatalf("decodeInternal() error: %s", err)
	}
	if value != "abcd" || cursor != 4 {
		t.Errorf("decodeInternal() = %v, %d, want abcd, 4", value, cursor)
	}
}

func TestMinMaxLengthTypeEndOfPDU(t *testing.T) {
	typ := &MinMaxLengthType{
		diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeByteField, highLowByteOrder: true},
		MinLength:         1,
		Termination:       TerminationEndOfPDU,
	}

	state := &EncodeState{IsEndOfPDU: true}
	got, err := typ.encodeInternal(state, []byte{0xDE, 0xAD}, 0)
	if err != nil {
		t.Fatalf("encodeInternal() error: %s", err)
	}
	if want := []byte{0xDE, 0xAD}; !bytes.Equal(got, want) {
		t.Errorf("encodeInternal() = % X, want % X", got, want)
	}

	state = &EncodeState{}
	if _, err := typ.encodeInternal(state, []byte{0xDE}, 0); err == nil {
		t.Error("encodeInternal() accepted an end-of-PDU value in the middle of a message")
	}

	decState := &DecodeState{CodedMessage: []byte{0x01, 0x02, 0x03}}
	value, cursor, err := typ.decodeInternal(decState, 0)
	if err != nil {
		t.Fatalf("decodeInternal() error: %s", err)
	}
	if !bytes.Equal(value.([]byte), []byte{0x01, 0x02, 0x03}) || cursor != 3 {
		t.Errorf("decodeInternal() = %v, %d, want the whole message", value, cursor)
	}
}
