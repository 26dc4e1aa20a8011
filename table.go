package odx

import "github.com/gavinwade12/odx/odxlink"

// TableRow binds one key value to the type that describes the payload
// selected by it. The type is either a structure or a simple data
// object property.
type TableRow struct {
	IdentifiableElement

	// KeyText is the raw KEY element content. The typed Key is derived
	// from it once the table's key property is resolved.
	KeyText string

	// Key is the physical key value of the row.
	Key ParameterValue

	structureRef odxlink.Ref
	dopRef       odxlink.Ref
	rowType      DopBase
}

// RowType returns the structure or data object property describing the
// row's payload, or nil if the row carries none.
func (tr *TableRow) RowType() DopBase { return tr.rowType }

// Table maps the values of a key parameter to per-row payload types.
// It is referenced by the table key parameters selecting one of its
// rows.
type Table struct {
	IdentifiableElement

	Semantic string
	Rows     NamedItemList[*TableRow]

	keyDopRef odxlink.Ref
	keyDop    *DataObjectProperty
}

// KeyDOP returns the data object property coding the row keys.
func (t *Table) KeyDOP() *DataObjectProperty { return t.keyDop }

// RowByKey returns the row whose key equals the given physical value.
func (t *Table) RowByKey(key ParameterValue) (*TableRow, bool) {
	for _, row := range t.Rows.Items() {
		if valuesEqual(row.Key, key) {
			return row, true
		}
	}
	return nil, false
}

func (t *Table) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(t.OdxID, t); err != nil {
		return err
	}
	for _, row := range t.Rows.Items() {
		if err := b.Register(row.OdxID, row); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) resolveLinks(r *resolver) error {
	keyDop, err := resolveLink[*DataObjectProperty](r, t.keyDopRef)
	if err != nil {
		return err
	}
	t.keyDop = keyDop

	for _, row := range t.Rows.Items() {
		switch {
		case !row.structureRef.IsZero():
			st, err := resolveLink[*Structure](r, row.structureRef)
			if err != nil {
				return err
			}
			row.rowType = st
		case !row.dopRef.IsZero():
			dop, err := resolveLink[DopBase](r, row.dopRef)
			if err != nil {
				return err
			}
			row.rowType = dop
		}

		if t.keyDop != nil {
			key, err := t.keyDop.PhysicalType.BaseDataType.parseValue(row.KeyText)
			if err != nil {
				return structuralErrorf("table %s: invalid KEY for row %s: %s",
					t.ShortName, row.ShortName, err)
			}
			row.Key = key
		}
	}
	return nil
}

func tableFromXML(raw *xmlTable, frags []odxlink.DocFragment) (*Table, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("TABLE %q without an ID", raw.ShortName)
	}
	if raw.KeyDopRef == nil {
		return nil, structuralErrorf("table %s: missing KEY-DOP-REF", raw.ShortName)
	}

	table := &Table{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		Semantic:            raw.Semantic,
		keyDopRef:           raw.KeyDopRef.toRef(frags),
	}
	for i := range raw.Rows {
		rawRow := &raw.Rows[i]
		if rawRow.ID == "" {
			return nil, structuralErrorf("table %s: TABLE-ROW %q without an ID",
				table.ShortName, rawRow.ShortName)
		}
		row := &TableRow{
			IdentifiableElement: identifiableFromXML(rawRow.xmlNamedElement, frags),
			KeyText:             rawRow.Key,
		}
		if rawRow.StructureRef != nil {
			row.structureRef = rawRow.StructureRef.toRef(frags)
		}
		if rawRow.DopRef != nil {
			row.dopRef = rawRow.DopRef.toRef(frags)
		}
		table.Rows.append(row)
	}
	return table, nil
}
