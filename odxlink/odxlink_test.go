package odxlink_test

import (
	"errors"
	"testing"

	"github.com/gavinwade12/odx/odxlink"
)

var (
	containerFrag = odxlink.NewDocFragment("somersault", odxlink.DocTypeContainer)
	subsetFrag    = odxlink.NewDocFragment("iso_15765_2", odxlink.DocTypeComparamSubset)
)

func TestRegisterAndResolve(t *testing.T) {
	b := odxlink.NewBuilder()

	layer := &struct{ name string }{"flip_base"}
	if err := b.Register(odxlink.NewID("BV.flip_base", containerFrag), layer); err != nil {
		t.Fatalf("registering: %v", err)
	}
	db := b.Freeze()

	entity, err := db.Resolve(odxlink.NewRef("BV.flip_base", containerFrag))
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if entity != layer {
		t.Errorf("resolved entity = %v, want %v", entity, layer)
	}
}

func TestRegisterDuplicateID(t *testing.T) {
	b := odxlink.NewBuilder()

	id := odxlink.NewID("DOP.uint8", containerFrag)
	if err := b.Register(id, 1); err != nil {
		t.Fatalf("registering: %v", err)
	}

	err := b.Register(id, 2)
	var dup *odxlink.DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("registering duplicate: got %v, want DuplicateIDError", err)
	}
	if dup.ID.LocalID != "DOP.uint8" {
		t.Errorf("duplicate ID = %q, want %q", dup.ID.LocalID, "DOP.uint8")
	}
}

func TestRegisterSameLocalIDInDifferentDocuments(t *testing.T) {
	b := odxlink.NewBuilder()

	if err := b.Register(odxlink.NewID("DOP.uint8", containerFrag), "container"); err != nil {
		t.Fatalf("registering container entity: %v", err)
	}
	if err := b.Register(odxlink.NewID("DOP.uint8", subsetFrag), "subset"); err != nil {
		t.Fatalf("registering subset entity: %v", err)
	}
	db := b.Freeze()

	entity, err := db.Resolve(odxlink.NewRef("DOP.uint8", subsetFrag))
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if entity != "subset" {
		t.Errorf("resolved entity = %v, want %q", entity, "subset")
	}
}

func TestResolveSearchesMostSpecificFragmentFirst(t *testing.T) {
	b := odxlink.NewBuilder()

	if err := b.Register(odxlink.NewID("DOP.session", containerFrag), "outer"); err != nil {
		t.Fatalf("registering outer entity: %v", err)
	}
	if err := b.Register(odxlink.NewID("DOP.session", subsetFrag), "inner"); err != nil {
		t.Fatalf("registering inner entity: %v", err)
	}
	db := b.Freeze()

	// A reference declared inside the subset document carries both
	// fragments with the subset as the most specific one.
	entity, err := db.Resolve(odxlink.NewRef("DOP.session", containerFrag, subsetFrag))
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if entity != "inner" {
		t.Errorf("resolved entity = %v, want %q", entity, "inner")
	}
}

func TestResolveUnknownReference(t *testing.T) {
	db := odxlink.NewBuilder().Freeze()

	ref := odxlink.NewRef("DOP.missing", containerFrag)
	_, err := db.Resolve(ref)
	var unresolved *odxlink.UnresolvedError
	if !errors.As(err, &unresolved) {
		t.Fatalf("resolving unknown reference: got %v, want UnresolvedError", err)
	}
	if unresolved.Ref.RefID != "DOP.missing" {
		t.Errorf("unresolved ref = %q, want %q", unresolved.Ref.RefID, "DOP.missing")
	}

	if entity := db.ResolveLenient(ref); entity != nil {
		t.Errorf("ResolveLenient = %v, want nil", entity)
	}
}

func TestResolveAs(t *testing.T) {
	type dop struct{ name string }

	b := odxlink.NewBuilder()
	want := &dop{"uint8"}
	if err := b.Register(odxlink.NewID("DOP.uint8", containerFrag), want); err != nil {
		t.Fatalf("registering: %v", err)
	}
	db := b.Freeze()

	got, err := odxlink.ResolveAs[*dop](db, odxlink.NewRef("DOP.uint8", containerFrag))
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if got != want {
		t.Errorf("resolved entity = %v, want %v", got, want)
	}

	if _, err := odxlink.ResolveAs[string](db, odxlink.NewRef("DOP.uint8", containerFrag)); err == nil {
		t.Error("resolving with wrong type: expected error")
	}
}

func TestRefTo(t *testing.T) {
	id := odxlink.NewID("S.tester_present", containerFrag)
	ref := odxlink.RefTo(id)

	b := odxlink.NewBuilder()
	if err := b.Register(id, "service"); err != nil {
		t.Fatalf("registering: %v", err)
	}
	db := b.Freeze()

	entity, err := db.Resolve(ref)
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if entity != "service" {
		t.Errorf("resolved entity = %v, want %q", entity, "service")
	}
}

func TestZeroValues(t *testing.T) {
	if !(odxlink.Ref{}).IsZero() {
		t.Error("zero Ref should report IsZero")
	}
	if !(odxlink.ID{}).IsZero() {
		t.Error("zero ID should report IsZero")
	}
	if (odxlink.NewRef("X", containerFrag)).IsZero() {
		t.Error("non-empty Ref should not report IsZero")
	}
}
