package odx

import (
	"reflect"
	"testing"
)

func namedElement(name string) *Element {
	return &Element{ShortName: name}
}

func TestNamedItemListByName(t *testing.T) {
	l := NewNamedItemList(namedElement("alpha"), namedElement("beta"))

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}

	item, ok := l.ByName("beta")
	if !ok {
		t.Fatal("ByName(beta) reported missing item")
	}
	if item.Name() != "beta" {
		t.Errorf("item name = %q, want %q", item.Name(), "beta")
	}

	if _, ok := l.ByName("gamma"); ok {
		t.Error("ByName(gamma) found an item that was never added")
	}
}

func TestNamedItemListKeepsInsertionOrder(t *testing.T) {
	l := NewNamedItemList(namedElement("c"), namedElement("a"), namedElement("b"))

	want := []string{"c", "a", "b"}
	if got := l.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNamedItemListDuplicateNamesResolveToFirst(t *testing.T) {
	first := namedElement("dup")
	second := namedElement("dup")

	var l NamedItemList[*Element]
	l.append(first)
	l.append(second)

	item, ok := l.ByName("dup")
	if !ok {
		t.Fatal("ByName(dup) reported missing item")
	}
	if item != first {
		t.Error("ByName(dup) did not return the first item added")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}
