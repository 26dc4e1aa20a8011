package odx

import (
	"bytes"
	"reflect"
	"testing"
)

func uintPtr(n uint) *uint { return &n }

func testParamBase(name string) parameterBase {
	return parameterBase{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: name}},
	}
}

func testCodedConst(name string, value uint32, bitLength uint) *CodedConstParameter {
	return &CodedConstParameter{
		parameterBase: testParamBase(name),
		DiagCodedType: &StandardLengthType{
			diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeUint32, highLowByteOrder: true},
			BitLength:         bitLength,
		},
		CodedValue: value,
	}
}

// testUint8DOP returns a property coding an unsigned byte one to one.
func testUint8DOP(name string) *DataObjectProperty {
	return &DataObjectProperty{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: name}},
		DiagCodedType: &StandardLengthType{
			diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeUint32, highLowByteOrder: true},
			BitLength:         8,
		},
		PhysicalType: PhysicalType{BaseDataType: DataTypeUint32},
		CompuMethod:  &IdenticalCompuMethod{InternalType: DataTypeUint32, PhysicalType: DataTypeUint32},
	}
}

func testStructure(name string, params ...Parameter) *Structure {
	return &Structure{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: name}},
		Parameters:          NewNamedItemList(params...),
	}
}

func TestStructureConstOnly(t *testing.T) {
	s := testStructure("rq_tester_present",
		testCodedConst("sid", 0x3E, 8),
		testCodedConst("sub_function", 0x00, 8))

	if bits, ok := s.StaticBitLength(); !ok || bits != 16 {
		t.Errorf("StaticBitLength() = %d, %t, want 16, true", bits, ok)
	}

	coded, err := s.Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x3E, 0x00}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	values, err := s.Decode([]byte{0x3E, 0x00})
	if err != nil {
		t.Fatalf("Decode() error: %s", err)
	}
	if len(values) != 0 {
		t.Errorf("Decode() = %v, want no free parameter values", values)
	}

	if _, err := s.Decode([]byte{0x3F, 0x00}); err == nil {
		t.Error("Decode() accepted a message breaking the constant")
	}
}

func TestStructureRejectsWrongConstValue(t *testing.T) {
	s := testStructure("rq", testCodedConst("sid", 0x3E, 8))

	_, err := s.Encode(ParameterValueMap{"sid": uint32(0x10)}, nil)
	if err == nil {
		t.Fatal("Encode() accepted a value contradicting the constant")
	}
	if _, ok := err.(*EncodeError); !ok {
		t.Errorf("Encode() error is %T, want *EncodeError", err)
	}

	// Supplying the constant's own value is allowed.
	if _, err := s.Encode(ParameterValueMap{"sid": uint32(0x3E)}, nil); err != nil {
		t.Errorf("Encode() with the matching value failed: %s", err)
	}
}

func TestStructureValueParameter(t *testing.T) {
	s := testStructure("rq_session",
		testCodedConst("sid", 0x10, 8),
		&ValueParameter{dopParameterBase: dopParameterBase{
			parameterBase: testParamBase("session"),
			dop:           testUint8DOP("dop_uint8"),
		}})

	coded, err := s.Encode(ParameterValueMap{"session": uint32(3)}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x10, 0x03}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	if _, err := s.Encode(nil, nil); err == nil {
		t.Error("Encode() without a value for a required parameter succeeded")
	}

	values, err := s.Decode(coded)
	if err != nil {
		t.Fatalf("Decode() error: %s", err)
	}
	want := ParameterValueMap{"session": uint32(3)}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Decode() = %v, want %v", values, want)
	}
}

func TestStructureLengthKey(t *testing.T) {
	key := &LengthKeyParameter{dopParameterBase: dopParameterBase{
		parameterBase: testParamBase("identity_length"),
		dop:           testUint8DOP("dop_uint8"),
	}}
	identity := &ValueParameter{dopParameterBase: dopParameterBase{
		parameterBase: testParamBase("identity"),
		dop: &DataObjectProperty{
			IdentifiableElement: IdentifiableElement{Element: Element{ShortName: "dop_identity"}},
			DiagCodedType: &ParamLengthInfoType{
				diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeAsciiString, highLowByteOrder: true},
				lengthKey:         key,
			},
			PhysicalType: PhysicalType{BaseDataType: DataTypeAsciiString},
			CompuMethod:  &IdenticalCompuMethod{InternalType: DataTypeAsciiString, PhysicalType: DataTypeAsciiString},
		},
	}}
	s := testStructure("pr_identity", key, identity)

	// The key's byte count is derived from the gated value in the
	// first pass and written over the placeholder in the second.
	coded, err := s.Encode(ParameterValueMap{"identity": "AB"}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x02, 'A', 'B'}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	values, err := s.Decode(coded)
	if err != nil {
		t.Fatalf("Decode() error: %s", err)
	}
	want := ParameterValueMap{"identity": "AB"}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Decode() = %v, want %v", values, want)
	}

	// An explicit key value that contradicts the gated value is a
	// coding error, not silently corrected.
	_, err = s.Encode(ParameterValueMap{"identity": "ABC", "identity_length": uint32(2)}, nil)
	if err == nil {
		t.Error("Encode() accepted a length key contradicting the value's length")
	}
}

func TestStructureExplicitByteSize(t *testing.T) {
	s := testStructure("padded", testCodedConst("sid", 0x11, 8))
	s.ByteSize = uintPtr(4)

	if bits, ok := s.StaticBitLength(); !ok || bits != 32 {
		t.Errorf("StaticBitLength() = %d, %t, want 32, true", bits, ok)
	}

	coded, err := s.Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x11, 0x00, 0x00, 0x00}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	over := testStructure("overfull", testCodedConst("a", 1, 8), testCodedConst("b", 2, 8))
	over.ByteSize = uintPtr(1)
	_, err = over.Encode(nil, nil)
	if err == nil {
		t.Fatal("Encode() accepted a message exceeding the declared byte size")
	}
	if _, ok := err.(*EncodeError); !ok {
		t.Errorf("Encode() error is %T, want *EncodeError", err)
	}
}

func TestStructureExplicitBytePosition(t *testing.T) {
	late := testCodedConst("late", 0xAA, 8)
	late.bytePosition = uintPtr(3)
	s := testStructure("gapped", testCodedConst("sid", 0x22, 8), late)

	if bits, ok := s.StaticBitLength(); !ok || bits != 32 {
		t.Errorf("StaticBitLength() = %d, %t, want 32, true", bits, ok)
	}

	coded, err := s.Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x22, 0x00, 0x00, 0xAA}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}
}

func TestStructureSharedByteViaBitPositions(t *testing.T) {
	low := testCodedConst("low", 0x02, 4)
	high := testCodedConst("high", 0x05, 4)
	high.bytePosition = uintPtr(0)
	high.bitPosition = 4
	s := testStructure("nibbles", low, high)

	coded, err := s.Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x52}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	if _, err := s.Decode(coded); err != nil {
		t.Errorf("Decode() error: %s", err)
	}
}

func TestStructureMatchingRequest(t *testing.T) {
	s := testStructure("pr_transfer",
		testCodedConst("sid", 0x76, 8),
		&MatchingRequestParameter{
			parameterBase:       testParamBase("block_counter"),
			RequestBytePosition: 1,
			ByteLength:          1,
		})

	coded, err := s.Encode(nil, []byte{0x36, 0x07, 0xDE, 0xAD})
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x76, 0x07}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	if _, err := s.Encode(nil, nil); err == nil {
		t.Error("Encode() without a triggering request succeeded")
	}

	// With the request known the mirrored byte is part of the prefix.
	prefix := s.CodedConstPrefix([]byte{0x36, 0x07})
	if want := []byte{0x76, 0x07}; !bytes.Equal(prefix, want) {
		t.Errorf("CodedConstPrefix() = % X, want % X", prefix, want)
	}

	// Without it the prefix ends before the mirrored range.
	prefix = s.CodedConstPrefix(nil)
	if want := []byte{0x76}; !bytes.Equal(prefix, want) {
		t.Errorf("CodedConstPrefix(nil) = % X, want % X", prefix, want)
	}
}

func TestStructureNrcConst(t *testing.T) {
	s := testStructure("neg_response",
		testCodedConst("sid", 0x7F, 8),
		&MatchingRequestParameter{
			parameterBase:       testParamBase("rejected_sid"),
			RequestBytePosition: 0,
			ByteLength:          1,
		},
		&NrcConstParameter{
			parameterBase: testParamBase("response_code"),
			DiagCodedType: &StandardLengthType{
				diagCodedTypeBase: diagCodedTypeBase{baseDataType: DataTypeUint32, highLowByteOrder: true},
				BitLength:         8,
			},
			CodedValues: []ParameterValue{uint32(0x10), uint32(0x22)},
		})

	if _, err := s.Decode([]byte{0x7F, 0x36, 0x22}); err != nil {
		t.Errorf("Decode() with a listed response code failed: %s", err)
	}

	_, err := s.Decode([]byte{0x7F, 0x36, 0x99})
	if err == nil {
		t.Fatal("Decode() accepted a response code outside the set")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Errorf("Decode() error is %T, want *DecodeError", err)
	}
}

func TestStructureTableKeyAndStruct(t *testing.T) {
	entry := testStructure("struct_entry",
		&ValueParameter{dopParameterBase: dopParameterBase{
			parameterBase: testParamBase("count"),
			dop:           testUint8DOP("dop_uint8"),
		}})
	table := &Table{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: "log"}},
		Rows: NewNamedItemList(
			&TableRow{
				IdentifiableElement: IdentifiableElement{Element: Element{ShortName: "forward"}},
				Key:                 uint32(1),
				rowType:             entry,
			},
			&TableRow{
				IdentifiableElement: IdentifiableElement{Element: Element{ShortName: "empty"}},
				Key:                 uint32(2),
			}),
		keyDop: testUint8DOP("dop_key"),
	}
	key := &TableKeyParameter{parameterBase: testParamBase("entry_kind"), table: table}
	s := testStructure("pr_log",
		key,
		&TableStructParameter{parameterBase: testParamBase("entry"), tableKey: key})

	selected := TableStructValue{
		RowName: "forward",
		Value:   ParameterValueMap{"count": uint32(7)},
	}
	coded, err := s.Encode(ParameterValueMap{"entry": selected}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x01, 0x07}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	values, err := s.Decode(coded)
	if err != nil {
		t.Fatalf("Decode() error: %s", err)
	}
	want := ParameterValueMap{"entry": selected}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Decode() = %v, want %v", values, want)
	}

	// A row without a payload type codes the key only.
	coded, err = s.Encode(ParameterValueMap{"entry": TableStructValue{RowName: "empty"}}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x02}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}

	if _, err := s.Encode(ParameterValueMap{"entry": TableStructValue{RowName: "sideways"}}, nil); err == nil {
		t.Error("Encode() accepted an unknown row name")
	}
	if _, err := s.Decode([]byte{0x03}); err == nil {
		t.Error("Decode() accepted a key no row carries")
	}
}

func TestStructureCodedConstPrefixStopsAtFreeParameter(t *testing.T) {
	s := testStructure("rq_session",
		testCodedConst("sid", 0x10, 8),
		&ValueParameter{dopParameterBase: dopParameterBase{
			parameterBase: testParamBase("session"),
			dop:           testUint8DOP("dop_uint8"),
		}},
		testCodedConst("trailer", 0xFF, 8))

	if want := []byte{0x10}; !bytes.Equal(s.CodedConstPrefix(nil), want) {
		t.Errorf("CodedConstPrefix() = % X, want % X", s.CodedConstPrefix(nil), want)
	}
}

func TestStructureRequiredAndFreeParameters(t *testing.T) {
	withDefault := &ValueParameter{
		dopParameterBase: dopParameterBase{
			parameterBase: testParamBase("mode"),
			dop:           testUint8DOP("dop_uint8"),
		},
		physicalDefaultText:  "1",
		physicalDefaultValue: uint32(1),
	}
	s := testStructure("rq",
		testCodedConst("sid", 0x31, 8),
		&ValueParameter{dopParameterBase: dopParameterBase{
			parameterBase: testParamBase("routine"),
			dop:           testUint8DOP("dop_uint8"),
		}},
		withDefault)

	required := s.RequiredParameters()
	if len(required) != 1 || required[0].Name() != "routine" {
		t.Errorf("RequiredParameters() = %v, want [routine]", parameterNames(required))
	}

	free := s.FreeParameters()
	if got, want := parameterNames(free), []string{"routine", "mode"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FreeParameters() = %v, want %v", got, want)
	}

	// The default fills in for an omitted optional parameter.
	coded, err := s.Encode(ParameterValueMap{"routine": uint32(2)}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x31, 0x02, 0x01}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}
}

func TestStructureNestingCycleRejected(t *testing.T) {
	s := testStructure("recursive")
	s.Parameters = NewNamedItemList[Parameter](
		&ValueParameter{dopParameterBase: dopParameterBase{
			parameterBase: testParamBase("inner"),
			dop:           s,
		}})

	err := s.checkNesting(nil)
	if err == nil {
		t.Fatal("checkNesting() accepted a structure nesting itself")
	}
	if _, ok := err.(*StructuralError); !ok {
		t.Errorf("checkNesting() error is %T, want *StructuralError", err)
	}
}

func TestStructureDecodeShortMessage(t *testing.T) {
	s := testStructure("rq", testCodedConst("sid", 0x3E, 8), testCodedConst("sub", 0x00, 8))

	_, err := s.Decode([]byte{0x3E})
	if err == nil {
		t.Fatal("Decode() accepted a truncated message")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Errorf("Decode() error is %T, want *DecodeError", err)
	}
}

func parameterNames(params []Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name()
	}
	return names
}
