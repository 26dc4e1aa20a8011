package odx

import (
	"reflect"
	"testing"
)

func testLayer(name string, layerType DiagLayerType) *DiagLayer {
	return &DiagLayer{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: name}},
		LayerType:           layerType,
	}
}

func testService(name string) *DiagService {
	return &DiagService{diagCommBase: diagCommBase{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: name}},
	}}
}

func testParentRef(parent *DiagLayer) *ParentRef {
	return &ParentRef{layerType: parent.LayerType, parent: parent}
}

func finalizeAll(t *testing.T, layers ...*DiagLayer) {
	t.Helper()
	for _, l := range layers {
		if err := l.finalize(nil); err != nil {
			t.Fatalf("finalize(%s) error: %s", l.ShortName, err)
		}
	}
}

func TestDiagLayerLocalEntityWinsOverInherited(t *testing.T) {
	parent := testLayer("base", DiagLayerTypeBaseVariant)
	parentPresent := testService("tester_present")
	parent.local.DiagComms.append(parentPresent)
	parent.local.DiagComms.append(testService("read_identity"))

	child := testLayer("variant", DiagLayerTypeEcuVariant)
	localPresent := testService("tester_present")
	child.local.DiagComms.append(localPresent)
	child.parentRefs = []*ParentRef{testParentRef(parent)}

	finalizeAll(t, child)

	want := []string{"tester_present", "read_identity"}
	if got := child.DiagComms().Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("DiagComms() = %v, want %v", got, want)
	}
	got, _ := child.DiagComms().ByName("tester_present")
	if got != DiagComm(localPresent) {
		t.Error("the inherited service shadowed the local one")
	}

	if origin := child.InheritedFrom(EntityKindDiagComm, "tester_present"); origin != nil {
		t.Errorf("InheritedFrom(tester_present) = %v, want nil for a local entity", origin)
	}
	if origin := child.InheritedFrom(EntityKindDiagComm, "read_identity"); origin != parent {
		t.Errorf("InheritedFrom(read_identity) = %v, want the parent layer", origin)
	}
}

func TestDiagLayerFirstParentWins(t *testing.T) {
	first := testLayer("first", DiagLayerTypeEcuSharedData)
	firstDOP := testUint8DOP("dop_shared")
	first.local.DataObjectProps.append(firstDOP)

	second := testLayer("second", DiagLayerTypeEcuSharedData)
	second.local.DataObjectProps.append(testUint8DOP("dop_shared"))

	child := testLayer("variant", DiagLayerTypeBaseVariant)
	child.parentRefs = []*ParentRef{testParentRef(first), testParentRef(second)}

	finalizeAll(t, child)

	if child.DataObjectProperties().Len() != 1 {
		t.Fatalf("DataObjectProperties().Len() = %d, want 1", child.DataObjectProperties().Len())
	}
	dop, _ := child.DataObjectProperties().ByName("dop_shared")
	if dop != firstDOP {
		t.Error("the second parent's property shadowed the first parent's")
	}
	if origin := child.InheritedFrom(EntityKindDOP, "dop_shared"); origin != first {
		t.Errorf("InheritedFrom(dop_shared) = %v, want the first parent", origin)
	}
}

func TestDiagLayerEntityKindsAreSeparateNamespaces(t *testing.T) {
	parent := testLayer("base", DiagLayerTypeBaseVariant)
	parent.local.DiagComms.append(testService("flight_log"))
	parent.local.Tables.append(&Table{
		IdentifiableElement: IdentifiableElement{Element: Element{ShortName: "flight_log"}},
	})

	child := testLayer("variant", DiagLayerTypeEcuVariant)
	child.parentRefs = []*ParentRef{testParentRef(parent)}

	finalizeAll(t, child)

	if !child.DiagComms().Contains("flight_log") || !child.Tables().Contains("flight_log") {
		t.Error("entities of different kinds with the same name did not both survive the merge")
	}
}

func TestDiagLayerNotInheritedFilters(t *testing.T) {
	parent := testLayer("base", DiagLayerTypeBaseVariant)
	parent.local.DiagComms.append(testService("request_download"))
	parent.local.DiagComms.append(testService("tester_present"))
	parent.local.DataObjectProps.append(testUint8DOP("dop_block"))
	parent.local.DataObjectProps.append(testUint8DOP("dop_session"))

	child := testLayer("variant", DiagLayerTypeEcuVariant)
	pr := testParentRef(parent)
	pr.notInheritedDiagComms = map[string]bool{"request_download": true}
	pr.notInheritedDOPs = map[string]bool{"dop_block": true}
	child.parentRefs = []*ParentRef{pr}

	finalizeAll(t, child)

	if child.DiagComms().Contains("request_download") {
		t.Error("an excluded communication was inherited")
	}
	if !child.DiagComms().Contains("tester_present") {
		t.Error("a communication outside the exclusion set was not inherited")
	}
	if child.DataObjectProperties().Contains("dop_block") {
		t.Error("an excluded data object property was inherited")
	}
	if !child.DataObjectProperties().Contains("dop_session") {
		t.Error("a property outside the exclusion set was not inherited")
	}
}

func TestDiagLayerDiamondInheritsOnce(t *testing.T) {
	grand := testLayer("grand", DiagLayerTypeProtocol)
	grand.local.DiagComms.append(testService("tester_present"))

	left := testLayer("left", DiagLayerTypeBaseVariant)
	left.parentRefs = []*ParentRef{testParentRef(grand)}
	right := testLayer("right", DiagLayerTypeBaseVariant)
	right.parentRefs = []*ParentRef{testParentRef(grand)}

	child := testLayer("variant", DiagLayerTypeEcuVariant)
	child.parentRefs = []*ParentRef{testParentRef(left), testParentRef(right)}

	finalizeAll(t, child)

	if got := child.DiagComms().Len(); got != 1 {
		t.Errorf("DiagComms().Len() = %d, want 1 for a diamond", got)
	}
}

func TestDiagLayerInheritanceCycle(t *testing.T) {
	a := testLayer("a", DiagLayerTypeBaseVariant)
	b := testLayer("b", DiagLayerTypeBaseVariant)
	c := testLayer("c", DiagLayerTypeBaseVariant)
	a.parentRefs = []*ParentRef{testParentRef(b)}
	b.parentRefs = []*ParentRef{testParentRef(c)}
	c.parentRefs = []*ParentRef{testParentRef(a)}

	err := a.finalize(nil)
	if err == nil {
		t.Fatal("finalize() accepted a cyclic parent chain")
	}
	cycleErr, ok := err.(*InheritanceCycleError)
	if !ok {
		t.Fatalf("finalize() error is %T, want *InheritanceCycleError", err)
	}
	want := []string{"a", "b", "c", "a"}
	if !reflect.DeepEqual(cycleErr.Layers, want) {
		t.Errorf("cycle layers = %v, want %v", cycleErr.Layers, want)
	}
}

func TestDiagLayerDecodeMessage(t *testing.T) {
	request := &Request{Structure: *testStructure("rq_tester_present",
		testCodedConst("sid", 0x3E, 8),
		testCodedConst("sub_function", 0x00, 8))}
	response := &Response{
		Structure: *testStructure("pr_tester_present",
			testCodedConst("sid", 0x7E, 8),
			testCodedConst("sub_function", 0x00, 8)),
		ResponseType: ResponseTypePositive,
	}
	service := testService("tester_present")
	service.request = request
	service.posResponses = []*Response{response}

	layer := testLayer("variant", DiagLayerTypeEcuVariant)
	layer.local.DiagComms.append(service)
	finalizeAll(t, layer)

	results, err := layer.DecodeMessage([]byte{0x7E, 0x00})
	if err != nil {
		t.Fatalf("DecodeMessage() error: %s", err)
	}
	if len(results) != 1 {
		t.Fatalf("DecodeMessage() returned %d results, want 1", len(results))
	}
	if results[0].Service != service {
		t.Error("DecodeMessage() attributed the message to the wrong service")
	}
	if results[0].Structure != &response.Structure {
		t.Error("DecodeMessage() matched the wrong structure")
	}

	if _, err := layer.DecodeMessage([]byte{0x99, 0x00}); err == nil {
		t.Error("DecodeMessage() claimed a message no structure matches")
	}
}
