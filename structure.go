package odx

import (
	"github.com/rs/zerolog/log"

	"github.com/gavinwade12/odx/odxlink"
)

// Structure is an ordered list of parameters plus an optional explicit
// byte size. Requests, responses and complex data object properties are
// all structures; a structure can in turn serve as the type of a value
// parameter, which nests its layout into the enclosing one.
type Structure struct {
	IdentifiableElement

	Parameters NamedItemList[Parameter]

	// ByteSize is the declared size of the coded structure. When set it
	// overrides the size derived from the parameters: short messages
	// are padded with zero bytes and a coded message of any other size
	// is rejected.
	ByteSize *uint
}

// StaticBitLength returns the fixed bit count of the coded structure.
// An explicit byte size always wins; otherwise the parameters are
// walked in declaration order, where an explicit byte position moves
// the cursor before the parameter's bits are added. A single parameter
// of unknown length makes the whole structure's length unknown.
func (s *Structure) StaticBitLength() (uint, bool) {
	if s.ByteSize != nil {
		return 8 * *s.ByteSize, true
	}

	var cursor, length uint
	for _, param := range s.Parameters.Items() {
		bitLength, ok := param.StaticBitLength()
		if !ok {
			return 0, false
		}
		if bytePos, ok := param.BytePosition(); ok {
			cursor = 8*bytePos + uint(param.BitPosition())
		}
		cursor += bitLength
		if cursor > length {
			length = cursor
		}
	}

	// Round up to account for padding bits.
	return (length + 7) / 8 * 8, true
}

// RequiredParameters returns the parameters a value must be supplied
// for when encoding.
func (s *Structure) RequiredParameters() []Parameter {
	var result []Parameter
	for _, param := range s.Parameters.Items() {
		if param.IsRequired() {
			result = append(result, param)
		}
	}
	return result
}

// FreeParameters returns the parameters a value may be supplied for
// when encoding. Parameters whose value is fixed or derived from
// others are not free.
func (s *Structure) FreeParameters() []Parameter {
	var result []Parameter
	for _, param := range s.Parameters.Items() {
		if param.IsSettable() {
			result = append(result, param)
		}
	}
	return result
}

// Encode composes the coded message for the structure from the given
// parameter values. The map is keyed by parameter short name and must
// contain a value for every required parameter. When a response to a
// known request is encoded, triggeringRequest carries the coded request
// so that mirrored parameters can be filled in.
func (s *Structure) Encode(values ParameterValueMap, triggeringRequest []byte) ([]byte, error) {
	return s.encodeMessage(values, triggeringRequest, true)
}

func (s *Structure) encodeMessage(values ParameterValueMap, triggeringRequest []byte, isEndOfPDU bool) ([]byte, error) {
	state := &EncodeState{
		CodedMessage:      []byte{},
		ParameterValues:   make(ParameterValueMap, len(values)),
		TriggeringRequest: triggeringRequest,
	}
	for name, value := range values {
		state.ParameterValues[name] = value
	}

	params := s.Parameters.Items()
	for i, param := range params {
		if i == len(params)-1 {
			// The last parameter sits at the end of the PDU if the
			// structure itself does. Only there may values of
			// unbounded length consume the remaining space.
			state.IsEndOfPDU = isEndOfPDU
		}
		msg, err := param.EncodeIntoPDU(state)
		if err != nil {
			return nil, err
		}
		state.CodedMessage = msg
	}
	state.IsEndOfPDU = false

	if s.ByteSize != nil && uint(len(state.CodedMessage)) < *s.ByteSize {
		padding := make([]byte, *s.ByteSize-uint(len(state.CodedMessage)))
		state.CodedMessage = append(state.CodedMessage, padding...)
	}

	// Second pass: the length and table keys are encoded only now
	// because their values may be defined implicitly by the parameters
	// they gate, which the first pass had to encode first.
	for _, param := range params {
		key, ok := param.(keyParameter)
		if !ok {
			continue
		}
		msg, err := key.encodeKeyIntoPDU(state)
		if err != nil {
			return nil, err
		}
		state.CodedMessage = msg
	}

	if err := s.validateCodedMessage(state.CodedMessage); err != nil {
		return nil, err
	}
	return state.CodedMessage, nil
}

// validateCodedMessage checks the finished message against the
// structure's declared size. Breaking an explicit byte size is a hard
// error; a mismatch against the statically derived length is only
// warned about, since overlapping parameters and gaps can make the
// derived length wrong without the message being wrong.
func (s *Structure) validateCodedMessage(msg []byte) error {
	if s.ByteSize != nil {
		if uint(len(msg)) != *s.ByteSize {
			return encodeErrorf("structure %s encoded to %d bytes, the declared byte size is %d",
				s.ShortName, len(msg), *s.ByteSize)
		}
		return nil
	}

	if bitLength, ok := s.StaticBitLength(); ok && 8*uint(len(msg)) != bitLength {
		log.Warn().
			Str("structure", s.ShortName).
			Hex("message", msg).
			Msgf("coded message is %d bits, the derived length is %d bits", 8*len(msg), bitLength)
	}
	return nil
}

// CodedConstPrefix returns the leading bytes of the structure that are
// the same for every message, built from the parameters whose coded
// value does not depend on caller input. The prefix identifies which
// structure a raw message belongs to. For responses, requestPrefix
// supplies the coded request so that mirrored parameters can
// contribute.
func (s *Structure) CodedConstPrefix(requestPrefix []byte) []byte {
	state := &EncodeState{
		CodedMessage:      []byte{},
		ParameterValues:   ParameterValueMap{},
		TriggeringRequest: requestPrefix,
	}
	for _, param := range s.Parameters.Items() {
		switch param.(type) {
		case *CodedConstParameter, *NrcConstParameter, *MatchingRequestParameter, *PhysicalConstantParameter:
		default:
			return state.CodedMessage
		}
		msg, err := param.EncodeIntoPDU(state)
		if err != nil {
			// A parameter that cannot contribute, e.g. a mirrored
			// range beyond the known request bytes, ends the prefix.
			return state.CodedMessage
		}
		state.CodedMessage = msg
	}
	return state.CodedMessage
}

// Decode reads the parameter values coded in a message. The returned
// map holds the values of the structure's free parameters; constants
// and derived keys are checked or consumed but not reported. Trailing
// bytes beyond the structure's layout are warned about but do not fail
// the decode, since they may belong to an enclosing envelope.
func (s *Structure) Decode(message []byte) (ParameterValueMap, error) {
	values, cursor, err := s.decodeMessage(message)
	if err != nil {
		return nil, err
	}
	if cursor != len(message) {
		log.Warn().
			Str("structure", s.ShortName).
			Hex("message", message).
			Msgf("message is longer than could be parsed: expected %d bytes, got %d", cursor, len(message))
	}
	return s.filterSettable(values), nil
}

// decodeMessage walks the parameters in declaration order against a
// cursor local to the structure's byte window. Every decoded value is
// visible to the parameters after it, which the derived keys rely on.
// The cursor only ever moves forward: a parameter placed at an explicit
// earlier position does not pull it back.
func (s *Structure) decodeMessage(message []byte) (ParameterValueMap, int, error) {
	state := &DecodeState{
		CodedMessage:    message,
		ParameterValues: ParameterValueMap{},
	}
	for _, param := range s.Parameters.Items() {
		value, cursor, err := param.DecodeFromPDU(state)
		if err != nil {
			return nil, 0, err
		}
		state.ParameterValues[param.Name()] = value
		if cursor > state.CursorPosition {
			state.CursorPosition = cursor
		}
	}
	return state.ParameterValues, state.CursorPosition, nil
}

func (s *Structure) filterSettable(values ParameterValueMap) ParameterValueMap {
	result := make(ParameterValueMap)
	for _, param := range s.Parameters.Items() {
		if !param.IsSettable() {
			continue
		}
		if value, ok := values[param.Name()]; ok {
			result[param.Name()] = value
		}
	}
	return result
}

// encodeValue nests the structure's coded form into an enclosing
// message. Structures are never placed at a sub-byte offset.
func (s *Structure) encodeValue(state *EncodeState, physical ParameterValue, bitPosition uint8) ([]byte, error) {
	if bitPosition != 0 {
		return nil, encodeErrorf("structure %s must be byte aligned, got bit position %d",
			s.ShortName, bitPosition)
	}
	values, ok := physical.(ParameterValueMap)
	if !ok {
		return nil, encodeErrorf("structure %s expects a map of parameter values, got %T",
			s.ShortName, physical)
	}
	return s.encodeMessage(values, state.TriggeringRequest, state.IsEndOfPDU)
}

func (s *Structure) decodeValue(state *DecodeState, bitPosition uint8) (ParameterValue, int, error) {
	if bitPosition != 0 {
		return nil, 0, decodeErrorf("structure %s must be byte aligned, got bit position %d",
			s.ShortName, bitPosition)
	}
	values, consumed, err := s.decodeMessage(state.CodedMessage[state.CursorPosition:])
	if err != nil {
		return nil, 0, err
	}
	return s.filterSettable(values), state.CursorPosition + consumed, nil
}

func (s *Structure) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(s.OdxID, s); err != nil {
		return err
	}
	return s.buildParameterLinks(b)
}

func (s *Structure) buildParameterLinks(b *odxlink.Builder) error {
	for _, param := range s.Parameters.Items() {
		if err := param.buildLinks(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Structure) resolveLinks(r *resolver) error {
	for _, param := range s.Parameters.Items() {
		if err := param.resolveLinks(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *Structure) resolveSNRefs(r *resolver, layer *DiagLayer) error {
	siblings := s.Parameters.Items()
	for _, param := range siblings {
		if err := param.resolveSNRefs(r, layer, siblings); err != nil {
			return err
		}
	}
	return nil
}

// checkNesting rejects structures that nest themselves through a
// required parameter, which could never finish encoding.
func (s *Structure) checkNesting(path []string) error {
	for _, name := range path {
		if name == s.ShortName {
			return structuralErrorf("structure %s nests itself: %s",
				s.ShortName, formatCyclePath(append(path, s.ShortName)))
		}
	}
	path = append(path, s.ShortName)
	for _, param := range s.Parameters.Items() {
		if !param.IsRequired() {
			continue
		}
		dopHolder, ok := param.(interface{ DOP() DopBase })
		if !ok {
			continue
		}
		if nested, ok := dopHolder.DOP().(*Structure); ok {
			if err := nested.checkNesting(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatCyclePath(path []string) string {
	result := ""
	for i, name := range path {
		if i > 0 {
			result += " -> "
		}
		result += name
	}
	return result
}

func structureFromXML(raw *xmlStructure, frags []odxlink.DocFragment) (*Structure, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("structure %q without an ID", raw.ShortName)
	}
	s := &Structure{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		ByteSize:            raw.ByteSize,
	}
	for i := range raw.Params {
		param, err := parameterFromXML(&raw.Params[i], frags)
		if err != nil {
			return nil, structuralErrorf("structure %s: %s", s.ShortName, err)
		}
		s.Parameters.append(param)
	}
	return s, nil
}

// Request is the structure coding a diagnostic request message.
type Request struct {
	Structure
}

func (r *Request) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(r.OdxID, r); err != nil {
		return err
	}
	return r.buildParameterLinks(b)
}

// ResponseType tells positive, negative and global negative responses
// apart.
type ResponseType string

const (
	ResponseTypePositive       ResponseType = "POS-RESPONSE"
	ResponseTypeNegative       ResponseType = "NEG-RESPONSE"
	ResponseTypeGlobalNegative ResponseType = "GLOBAL-NEG-RESPONSE"
)

// Response is the structure coding a diagnostic response message.
type Response struct {
	Structure

	ResponseType ResponseType
}

func (r *Response) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(r.OdxID, r); err != nil {
		return err
	}
	return r.buildParameterLinks(b)
}

func requestFromXML(raw *xmlStructure, frags []odxlink.DocFragment) (*Request, error) {
	s, err := structureFromXML(raw, frags)
	if err != nil {
		return nil, err
	}
	return &Request{Structure: *s}, nil
}

func responseFromXML(raw *xmlStructure, frags []odxlink.DocFragment, typ ResponseType) (*Response, error) {
	s, err := structureFromXML(raw, frags)
	if err != nil {
		return nil, err
	}
	return &Response{Structure: *s, ResponseType: typ}, nil
}
