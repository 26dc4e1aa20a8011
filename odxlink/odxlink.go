// Package odxlink implements identification of and references between
// the entities of an ODX database. Every identifiable entity carries an
// ID which is unique across all documents loaded into a database, and
// any entity may point at another one via a Ref. References are resolved
// against an immutable Database that is built once while loading.
package odxlink

import (
	"fmt"
	"strings"
)

// DocType categorizes the document a DocFragment points into. The values
// mirror the DOCTYPE attribute used by ODX reference elements.
type DocType string

const (
	DocTypeContainer      DocType = "CONTAINER"
	DocTypeLayer          DocType = "LAYER"
	DocTypeComparamSpec   DocType = "COMPARAM-SPEC"
	DocTypeComparamSubset DocType = "COMPARAM-SUBSET"
	DocTypeFlash          DocType = "FLASH"
)

// DocFragment names a single ODX document. IDs are only unique within
// one document, so every ID and Ref carries the fragments of the
// document it belongs to.
type DocFragment struct {
	DocName string
	DocType DocType
}

// NewDocFragment returns a fragment for the document with the given
// short name and type.
func NewDocFragment(name string, typ DocType) DocFragment {
	return DocFragment{DocName: name, DocType: typ}
}

func (f DocFragment) String() string {
	return fmt.Sprintf("%s:%s", f.DocType, f.DocName)
}

// ID uniquely identifies an entity inside an ODX database. Two IDs are
// equal iff their local ID and their full document fragment stack are
// equal.
type ID struct {
	// LocalID is the value of the entity's ID attribute. It is only
	// unique within the entity's document.
	LocalID string

	// DocFragments names the document the entity lives in. The last
	// fragment is the most specific one.
	DocFragments []DocFragment
}

// NewID builds an ID from a local ID attribute value and the fragments
// of the document it was read from.
func NewID(localID string, docFrags ...DocFragment) ID {
	return ID{LocalID: localID, DocFragments: docFrags}
}

// IsZero reports whether the ID is unset.
func (i ID) IsZero() bool {
	return i.LocalID == ""
}

func (i ID) String() string {
	frags := make([]string, len(i.DocFragments))
	for n, f := range i.DocFragments {
		frags[n] = f.String()
	}
	return fmt.Sprintf("%s@[%s]", i.LocalID, strings.Join(frags, ","))
}

// key returns a comparable representation of the full ID. It is used to
// detect entities registered twice under the same identity.
func (i ID) key() string {
	var sb strings.Builder
	sb.WriteString(i.LocalID)
	for _, f := range i.DocFragments {
		sb.WriteByte(0)
		sb.WriteString(string(f.DocType))
		sb.WriteByte(0)
		sb.WriteString(f.DocName)
	}
	return sb.String()
}

// Ref is a reference to an entity with a given ID. A reference carries
// the document fragments that are searched while resolving it: for a
// same-document reference these are the fragments of the document the
// reference was declared in, for a cross-document reference they name
// the target document (the DOCREF/DOCTYPE attributes).
type Ref struct {
	RefID        string
	DocFragments []DocFragment
}

// NewRef builds a reference to the entity with the given local ID in
// one of the given documents.
func NewRef(refID string, docFrags ...DocFragment) Ref {
	return Ref{RefID: refID, DocFragments: docFrags}
}

// RefTo returns a reference that resolves to the entity with the given
// ID.
func RefTo(id ID) Ref {
	return Ref{RefID: id.LocalID, DocFragments: id.DocFragments}
}

// IsZero reports whether the reference is unset. Optional references
// are represented as zero Refs.
func (r Ref) IsZero() bool {
	return r.RefID == ""
}

func (r Ref) String() string {
	frags := make([]string, len(r.DocFragments))
	for n, f := range r.DocFragments {
		frags[n] = f.String()
	}
	return fmt.Sprintf("%s@[%s]", r.RefID, strings.Join(frags, ","))
}
