package odx

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DataType enumerates the base data types of the data model. It is used
// both for the coded representation of a value (in diag coded types)
// and for its physical representation (in physical types).
type DataType string

const (
	DataTypeInt32          DataType = "A_INT32"
	DataTypeUint32         DataType = "A_UINT32"
	DataTypeFloat32        DataType = "A_FLOAT32"
	DataTypeFloat64        DataType = "A_FLOAT64"
	DataTypeAsciiString    DataType = "A_ASCIISTRING"
	DataTypeUtf8String     DataType = "A_UTF8STRING"
	DataTypeUnicode2String DataType = "A_UNICODE2STRING"
	DataTypeByteField      DataType = "A_BYTEFIELD"
)

func parseDataType(s string) (DataType, error) {
	switch dt := DataType(s); dt {
	case DataTypeInt32, DataTypeUint32, DataTypeFloat32, DataTypeFloat64,
		DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String,
		DataTypeByteField:
		return dt, nil
	}
	return "", structuralErrorf("unknown base data type %q", s)
}

// IsString reports whether values of the data type are represented as
// Go strings.
func (dt DataType) IsString() bool {
	switch dt {
	case DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String:
		return true
	}
	return false
}

// IsNumeric reports whether values of the data type are numbers.
func (dt DataType) IsNumeric() bool {
	switch dt {
	case DataTypeInt32, DataTypeUint32, DataTypeFloat32, DataTypeFloat64:
		return true
	}
	return false
}

// ParameterValue is the physical value of a parameter. Depending on the
// data type involved it holds an uint32, int32, float32, float64,
// string or []byte. Structure typed parameters hold a
// ParameterValueMap, table rows a TableStructValue.
type ParameterValue = any

// ParameterValueMap maps parameter short names to their physical
// values.
type ParameterValueMap = map[string]ParameterValue

// toUint64 converts any of the Go integer and float types to an uint64.
// Floats must be integral and non-negative.
func toUint64(v ParameterValue) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, errors.Errorf("value %d is negative", n)
		}
		return uint64(n), nil
	case int32:
		if n < 0 {
			return 0, errors.Errorf("value %d is negative", n)
		}
		return uint64(n), nil
	case int16:
		if n < 0 {
			return 0, errors.Errorf("value %d is negative", n)
		}
		return uint64(n), nil
	case int8:
		if n < 0 {
			return 0, errors.Errorf("value %d is negative", n)
		}
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, errors.Errorf("value %d is negative", n)
		}
		return uint64(n), nil
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, errors.Errorf("value %v is not an unsigned integer", n)
		}
		return uint64(n), nil
	case float32:
		return toUint64(float64(n))
	}
	return 0, errors.Errorf("value %v (%T) is not an unsigned integer", v, v)
}

func toInt64(v ParameterValue) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, errors.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case float32:
		return toInt64(float64(n))
	}
	return 0, errors.Errorf("value %v (%T) is not an integer", v, v)
}

func toFloat64(v ParameterValue) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, errors.Errorf("value %v (%T) is not a number", v, v)
}

// coerceInternal converts a value supplied by the user into the
// canonical Go representation for the data type.
func (dt DataType) coerceInternal(v ParameterValue) (ParameterValue, error) {
	switch dt {
	case DataTypeUint32:
		n, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		if n > 0xFFFFFFFF {
			return nil, errors.Errorf("value %d does not fit into 32 bits", n)
		}
		return uint32(n), nil
	case DataTypeInt32:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if n < -0x80000000 || n > 0x7FFFFFFF {
			return nil, errors.Errorf("value %d does not fit into 32 bits", n)
		}
		return int32(n), nil
	case DataTypeFloat32:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case DataTypeFloat64:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return f, nil
	case DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String:
		s, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("value %v (%T) is not a string", v, v)
		}
		return s, nil
	case DataTypeByteField:
		b, ok := v.([]byte)
		if !ok {
			return nil, errors.Errorf("value %v (%T) is not a byte field", v, v)
		}
		return b, nil
	}
	return nil, errors.Errorf("unknown base data type %q", dt)
}

// parseValue converts the string representation used by the documents
// (e.g. a CODED-VALUE or PHYS-CONSTANT-VALUE element) into the
// canonical Go representation for the data type.
func (dt DataType) parseValue(s string) (ParameterValue, error) {
	switch dt {
	case DataTypeUint32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q as %s", s, dt)
		}
		return uint32(n), nil
	case DataTypeInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q as %s", s, dt)
		}
		return int32(n), nil
	case DataTypeFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q as %s", s, dt)
		}
		return float32(f), nil
	case DataTypeFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q as %s", s, dt)
		}
		return f, nil
	case DataTypeAsciiString, DataTypeUtf8String, DataTypeUnicode2String:
		return s, nil
	case DataTypeByteField:
		b, err := decodeHexString(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q as %s", s, dt)
		}
		return b, nil
	}
	return nil, errors.Errorf("unknown base data type %q", dt)
}

func toFloat64FromText(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func decodeHexString(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errors.Errorf("odd length hex string %q", s)
	}
	b := make([]byte, len(s)/2)
	for i := 0; i < len(b); i++ {
		n, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, err
		}
		b[i] = byte(n)
	}
	return b, nil
}

// valuesEqual compares two parameter values after normalizing the
// numeric types.
func valuesEqual(a, b ParameterValue) bool {
	if ab, ok := a.([]byte); ok {
		bb, ok := b.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	af, aerr := toFloat64(a)
	bf, berr := toFloat64(b)
	if aerr == nil && berr == nil {
		return af == bf
	}
	return a == b
}
