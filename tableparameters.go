package odx

import "github.com/gavinwade12/odx/odxlink"

// TableKeyParameter selects a row of a table. Like a length key its
// coded value is derived: the sibling table struct parameter records
// which row it encoded and the second encoding pass writes the row's
// key into the bytes reserved here. The parameter's value is the short
// name of the selected row.
type TableKeyParameter struct {
	parameterBase

	tableRef   odxlink.Ref
	tableSNRef string
	table      *Table
}

func (p *TableKeyParameter) ParameterType() string { return ParameterTypeTableKey }

// Table returns the table the parameter selects rows from.
func (p *TableKeyParameter) Table() *Table { return p.table }

func (p *TableKeyParameter) StaticBitLength() (uint, bool) {
	if p.table == nil || p.table.KeyDOP() == nil {
		return 0, false
	}
	return p.table.KeyDOP().StaticBitLength()
}

func (p *TableKeyParameter) IsRequired() bool { return false }
func (p *TableKeyParameter) IsSettable() bool { return false }

func (p *TableKeyParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if p.table == nil || p.table.KeyDOP() == nil {
		return nil, encodeErrorf("the table of parameter %s is not resolved", p.ShortName)
	}
	bitLength, ok := p.table.KeyDOP().StaticBitLength()
	if !ok {
		return nil, encodeErrorf("table key %s requires a key type of fixed length", p.ShortName)
	}

	pos := p.encodePosition(state)
	state.reserveKeyPosition(p.ShortName, pos)

	placeholder := make([]byte, (uint(p.bitPosition)+bitLength+7)/8)
	return mergeIntoMessage(state.CodedMessage, pos, placeholder), nil
}

// encodeKeyIntoPDU writes the key of the selected row over the bytes
// reserved in the first pass.
func (p *TableKeyParameter) encodeKeyIntoPDU(state *EncodeState) ([]byte, error) {
	value, ok := state.ParameterValues[p.ShortName]
	if !ok {
		return nil, encodeErrorf("no row was selected for table key %s", p.ShortName)
	}
	rowName, ok := value.(string)
	if !ok {
		return nil, encodeErrorf("table key %s expects a row short name, got %T", p.ShortName, value)
	}
	row, ok := p.table.Rows.ByName(rowName)
	if !ok {
		return nil, encodeErrorf("table %s has no row %q", p.table.ShortName, rowName)
	}
	pos, ok := state.keyPositions[p.ShortName]
	if !ok {
		return nil, encodeErrorf("table key %s was not placed during the first encoding pass",
			p.ShortName)
	}
	blob, err := p.table.KeyDOP().encodeValue(state, row.Key, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, pos, blob), nil
}

func (p *TableKeyParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	if p.table == nil || p.table.KeyDOP() == nil {
		return nil, 0, decodeErrorf("the table of parameter %s is not resolved", p.ShortName)
	}
	sub := p.subDecodeState(state)
	key, cursor, err := p.table.KeyDOP().decodeValue(&sub, p.bitPosition)
	if err != nil {
		return nil, 0, err
	}
	row, ok := p.table.RowByKey(key)
	if !ok {
		return nil, 0, decodeErrorf("table %s has no row with key %v", p.table.ShortName, key)
	}
	return row.ShortName, cursor, nil
}

func (p *TableKeyParameter) buildLinks(b *odxlink.Builder) error {
	return b.Register(p.OdxID, p)
}

func (p *TableKeyParameter) resolveLinks(r *resolver) error {
	if p.tableRef.IsZero() {
		return nil
	}
	table, err := resolveLink[*Table](r, p.tableRef)
	if err != nil {
		return err
	}
	p.table = table
	return nil
}

func (p *TableKeyParameter) resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error {
	if p.tableSNRef == "" {
		return nil
	}
	table, ok := layer.lookupTable(p.tableSNRef)
	if !ok {
		return r.unresolvedSNRef("table", p.tableSNRef, layer)
	}
	p.table = table
	return nil
}

// TableStructValue is the physical value of a table struct parameter:
// the short name of the selected table row plus the value coded by the
// row's type.
type TableStructValue struct {
	RowName string
	Value   ParameterValue
}

// TableStructParameter codes the payload of the table row selected by
// its table key sibling.
type TableStructParameter struct {
	parameterBase

	tableKeyRef   odxlink.Ref
	tableKeySNRef string
	tableKey      *TableKeyParameter
}

func (p *TableStructParameter) ParameterType() string { return ParameterTypeTableStruct }

// TableKey returns the parameter selecting the row to be coded.
func (p *TableStructParameter) TableKey() *TableKeyParameter { return p.tableKey }

func (p *TableStructParameter) StaticBitLength() (uint, bool) { return 0, false }

func (p *TableStructParameter) IsRequired() bool { return true }
func (p *TableStructParameter) IsSettable() bool { return true }

func (p *TableStructParameter) EncodeIntoPDU(state *EncodeState) ([]byte, error) {
	if p.tableKey == nil || p.tableKey.Table() == nil {
		return nil, encodeErrorf("the table key of parameter %s is not resolved", p.ShortName)
	}

	raw, ok := state.ParameterValues[p.ShortName]
	if !ok {
		return nil, encodeErrorf("no value for parameter %s", p.ShortName)
	}
	value, ok := raw.(TableStructValue)
	if !ok {
		return nil, encodeErrorf("parameter %s expects a table struct value, got %T", p.ShortName, raw)
	}
	row, ok := p.tableKey.Table().Rows.ByName(value.RowName)
	if !ok {
		return nil, encodeErrorf("table %s has no row %q", p.tableKey.Table().ShortName, value.RowName)
	}

	// Make the selection visible to the table key so that the second
	// pass can encode the row's key value.
	if existing, ok := state.ParameterValues[p.tableKey.ShortName]; ok && existing != value.RowName {
		return nil, encodeErrorf("parameter %s selects row %q but table key %s is set to %v",
			p.ShortName, value.RowName, p.tableKey.ShortName, existing)
	}
	state.ParameterValues[p.tableKey.ShortName] = value.RowName

	if row.RowType() == nil {
		return state.CodedMessage, nil
	}
	blob, err := row.RowType().encodeValue(state, value.Value, p.bitPosition)
	if err != nil {
		return nil, err
	}
	return mergeIntoMessage(state.CodedMessage, p.encodePosition(state), blob), nil
}

func (p *TableStructParameter) DecodeFromPDU(state *DecodeState) (ParameterValue, int, error) {
	if p.tableKey == nil || p.tableKey.Table() == nil {
		return nil, 0, decodeErrorf("the table key of parameter %s is not resolved", p.ShortName)
	}

	raw, ok := state.ParameterValues[p.tableKey.ShortName]
	if !ok {
		return nil, 0, decodeErrorf("table key %s has not been decoded yet", p.tableKey.ShortName)
	}
	rowName, ok := raw.(string)
	if !ok {
		return nil, 0, decodeErrorf("table key %s decoded to %T, expected a row short name",
			p.tableKey.ShortName, raw)
	}
	row, ok := p.tableKey.Table().Rows.ByName(rowName)
	if !ok {
		return nil, 0, decodeErrorf("table %s has no row %q", p.tableKey.Table().ShortName, rowName)
	}

	sub := p.subDecodeState(state)
	if row.RowType() == nil {
		return TableStructValue{RowName: rowName}, sub.CursorPosition, nil
	}
	value, cursor, err := row.RowType().decodeValue(&sub, p.bitPosition)
	if err != nil {
		return nil, 0, err
	}
	return TableStructValue{RowName: rowName, Value: value}, cursor, nil
}

func (p *TableStructParameter) buildLinks(b *odxlink.Builder) error {
	return registerIfIdentified(b, p.OdxID, p)
}

func (p *TableStructParameter) resolveLinks(r *resolver) error {
	if p.tableKeyRef.IsZero() {
		return nil
	}
	key, err := resolveLink[*TableKeyParameter](r, p.tableKeyRef)
	if err != nil {
		return err
	}
	p.tableKey = key
	return nil
}

func (p *TableStructParameter) resolveSNRefs(r *resolver, layer *DiagLayer, siblings []Parameter) error {
	if p.tableKeySNRef == "" {
		return nil
	}
	for _, sibling := range siblings {
		if key, ok := sibling.(*TableKeyParameter); ok && key.ShortName == p.tableKeySNRef {
			p.tableKey = key
			return nil
		}
	}
	return r.unresolvedSNRef("table key", p.tableKeySNRef, layer)
}
