package odx

// EncodeState carries the evolving state while one message is encoded.
type EncodeState struct {
	// CodedMessage holds the message bytes produced so far.
	CodedMessage []byte

	// ParameterValues maps parameter short names to their physical
	// values. Derived parameters (length and table keys) record the
	// values they computed here so that the second encoding pass can
	// pick them up.
	ParameterValues ParameterValueMap

	// TriggeringRequest is the coded request a response is encoded
	// for. It is nil when a request is encoded.
	TriggeringRequest []byte

	// IsEndOfPDU is true while the parameter located at the end of the
	// message is encoded. Only then may unbounded values consume the
	// remaining space.
	IsEndOfPDU bool

	// keyPositions records the byte positions the length and table key
	// parameters reserved during the first encoding pass. The second
	// pass overwrites the reserved placeholder bytes with the derived
	// key values.
	keyPositions map[string]int
}

// reserveKeyPosition remembers where a key parameter's placeholder
// bytes start.
func (s *EncodeState) reserveKeyPosition(name string, bytePos int) {
	if s.keyPositions == nil {
		s.keyPositions = make(map[string]int)
	}
	s.keyPositions[name] = bytePos
}

// DecodeState carries the evolving state while one message is decoded.
type DecodeState struct {
	// CodedMessage holds the complete message being decoded.
	CodedMessage []byte

	// ParameterValues accumulates the values decoded so far. Derived
	// parameters look up their key values here.
	ParameterValues ParameterValueMap

	// CursorPosition is the byte offset the next parameter without an
	// explicit byte position is decoded at.
	CursorPosition int
}

// mergeIntoMessage places blob at the given byte position of msg and
// returns the resulting message. Gaps are filled with zero bytes.
// Overlapping bytes are merged bitwise so that several parameters can
// share a byte at different bit positions.
func mergeIntoMessage(msg []byte, bytePos int, blob []byte) []byte {
	needed := bytePos + len(blob)
	if len(msg) < needed {
		msg = append(msg, make([]byte, needed-len(msg))...)
	}
	for i, b := range blob {
		msg[bytePos+i] |= b
	}
	return msg
}
