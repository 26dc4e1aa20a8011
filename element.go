package odx

import "github.com/gavinwade12/odx/odxlink"

// Element is the common part of all named entities of the data model.
type Element struct {
	// ShortName identifies the element within its enclosing namespace.
	ShortName   string
	LongName    string
	Description string
}

// Name returns the element's short name.
func (e *Element) Name() string { return e.ShortName }

// NamedElement is implemented by every entity that carries a short
// name.
type NamedElement interface {
	Name() string
}

// IdentifiableElement is the common part of all entities that carry an
// ID and can therefore be the target of references.
type IdentifiableElement struct {
	Element
	OdxID odxlink.ID
}

// ID returns the element's identifier.
func (e *IdentifiableElement) ID() odxlink.ID { return e.OdxID }

func elementFromXML(raw xmlNamedElement) Element {
	return Element{
		ShortName:   raw.ShortName,
		LongName:    raw.LongName,
		Description: raw.Description.text(),
	}
}

func identifiableFromXML(raw xmlNamedElement, frags []odxlink.DocFragment) IdentifiableElement {
	ie := IdentifiableElement{Element: elementFromXML(raw)}
	if raw.ID != "" {
		ie.OdxID = odxlink.NewID(raw.ID, frags...)
	}
	return ie
}
