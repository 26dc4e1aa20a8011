package odx

import "github.com/gavinwade12/odx/odxlink"

// Unit describes the display unit of a physical value, e.g. seconds or
// percent, together with the conversion to its SI base.
type Unit struct {
	IdentifiableElement

	// DisplayName is shown next to values carrying this unit.
	DisplayName string

	// FactorSIToUnit and OffsetSIToUnit convert a value from the SI
	// base unit into this unit.
	FactorSIToUnit *float64
	OffsetSIToUnit *float64
}

// UnitSpec groups the units available to the data object properties of
// a data dictionary.
type UnitSpec struct {
	Units NamedItemList[*Unit]
}

func (s *UnitSpec) buildLinks(b *odxlink.Builder) error {
	for _, u := range s.Units.Items() {
		if err := b.Register(u.OdxID, u); err != nil {
			return err
		}
	}
	return nil
}

func unitSpecFromXML(raw *xmlUnitSpec, frags []odxlink.DocFragment) (*UnitSpec, error) {
	if raw == nil {
		return nil, nil
	}
	spec := &UnitSpec{}
	for i := range raw.Units {
		rawUnit := &raw.Units[i]
		if rawUnit.ID == "" {
			return nil, structuralErrorf("UNIT %q without an ID", rawUnit.ShortName)
		}
		unit := &Unit{
			IdentifiableElement: identifiableFromXML(rawUnit.xmlNamedElement, frags),
			DisplayName:         rawUnit.DisplayName,
			FactorSIToUnit:      rawUnit.FactorSIToUnit,
			OffsetSIToUnit:      rawUnit.OffsetSIToUnit,
		}
		spec.Units.append(unit)
	}
	return spec, nil
}
