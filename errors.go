package odx

import (
	"fmt"
	"strings"
)

// StructuralError indicates that a document violates the structural
// rules of the data model, e.g. a parameter of an unknown kind or a
// reference attribute without a target. Structural errors abort loading
// regardless of the strictness mode.
type StructuralError struct {
	msg string
}

func structuralErrorf(format string, args ...any) *StructuralError {
	return &StructuralError{msg: fmt.Sprintf(format, args...)}
}

func (e *StructuralError) Error() string { return e.msg }

// InheritanceCycleError is returned when the parent references of the
// diagnostic layers form a cycle. None of the layers on the cycle can
// be finalized.
type InheritanceCycleError struct {
	// Layers holds the short names of the layers forming the cycle in
	// reference order. The first layer is repeated at the end.
	Layers []string
}

func (e *InheritanceCycleError) Error() string {
	return fmt.Sprintf("inheritance cycle between diagnostic layers: %s",
		strings.Join(e.Layers, " -> "))
}

// EncodeError indicates that a physical value cannot be converted into
// its coded representation.
type EncodeError struct {
	msg string
}

func encodeErrorf(format string, args ...any) *EncodeError {
	return &EncodeError{msg: fmt.Sprintf(format, args...)}
}

func (e *EncodeError) Error() string { return e.msg }

// DecodeError indicates that coded bytes cannot be interpreted by the
// data model, e.g. because the message is shorter than the described
// layout or a constant byte does not match.
type DecodeError struct {
	msg string
}

func decodeErrorf(format string, args ...any) *DecodeError {
	return &DecodeError{msg: fmt.Sprintf(format, args...)}
}

func (e *DecodeError) Error() string { return e.msg }
