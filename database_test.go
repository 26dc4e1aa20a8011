package odx

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func loadDemo(t *testing.T) *Database {
	t.Helper()
	db, err := LoadDemoDatabase()
	if err != nil {
		t.Fatalf("LoadDemoDatabase() error: %s", err)
	}
	return db
}

func demoLayer(t *testing.T, db *Database, name string) *DiagLayer {
	t.Helper()
	layer, ok := db.LayerByName(name)
	if !ok {
		t.Fatalf("LayerByName(%s) reported a missing layer", name)
	}
	return layer
}

func demoService(t *testing.T, layer *DiagLayer, name string) *DiagService {
	t.Helper()
	comm, ok := layer.DiagComms().ByName(name)
	if !ok {
		t.Fatalf("layer %s has no communication %s", layer.ShortName, name)
	}
	service, ok := comm.(*DiagService)
	if !ok {
		t.Fatalf("communication %s is a %T, not a service", name, comm)
	}
	return service
}

func TestLoadDemoDatabase(t *testing.T) {
	db := loadDemo(t)

	if warnings := db.Warnings(); len(warnings) != 0 {
		t.Errorf("Warnings() = %v, want none in strict mode", warnings)
	}

	checks := []struct {
		list NamedItemList[*DiagLayer]
		want []string
	}{
		{db.Protocols(), []string{"uds_on_can"}},
		{db.EcuSharedDatas(), []string{"flip_shared"}},
		{db.BaseVariants(), []string{"flip_base"}},
		{db.EcuVariants(), []string{"flip_front", "flip_rear"}},
	}
	for _, check := range checks {
		if got := check.list.Names(); !reflect.DeepEqual(got, check.want) {
			t.Errorf("layer names = %v, want %v", got, check.want)
		}
	}

	if got := len(db.Variants()); got != 3 {
		t.Errorf("Variants() returned %d layers, want 3", got)
	}
	if !db.ComparamSpecs().Contains("uds_can_comparams") || !db.ComparamSpecs().Contains("legacy_comparams") {
		t.Errorf("ComparamSpecs() = %v, want both demo specs", db.ComparamSpecs().Names())
	}
	if !db.ComparamSubsets().Contains("uds_can_subset") {
		t.Errorf("ComparamSubsets() = %v, want the demo subset", db.ComparamSubsets().Names())
	}
}

func TestDemoProtocolStackResolution(t *testing.T) {
	db := loadDemo(t)
	protocol := demoLayer(t, db, "uds_on_can")

	stack := protocol.ProtStack()
	if stack == nil {
		t.Fatal("ProtStack() = nil, want the stack named by the protocol layer")
	}
	if stack.ShortName != "can_stack" {
		t.Errorf("stack name = %q, want %q", stack.ShortName, "can_stack")
	}

	subsets := stack.ComparamSubsets()
	if len(subsets) != 1 || subsets[0].ShortName != "uds_can_subset" {
		t.Fatalf("stack subsets = %v, want [uds_can_subset]", subsets)
	}

	cp, ok := subsets[0].Comparams.ByName("CP_CanPhysReqId")
	if !ok {
		t.Fatal("subset has no CP_CanPhysReqId parameter")
	}
	value, err := cp.DefaultValue()
	if err != nil {
		t.Fatalf("DefaultValue() error: %s", err)
	}
	if value != uint32(2016) {
		t.Errorf("DefaultValue() = %v, want uint32 2016", value)
	}
}

func TestDemoLegacyComparamSpec(t *testing.T) {
	db := loadDemo(t)

	spec, ok := db.ComparamSpecs().ByName("legacy_comparams")
	if !ok {
		t.Fatal("legacy_comparams spec is missing")
	}
	if spec.ProtStacks.Len() != 0 {
		t.Errorf("a pre-2.2 spec carries %d protocol stacks, want none", spec.ProtStacks.Len())
	}

	cp, ok := spec.Comparams.ByName("CP_RequestTimeout")
	if !ok {
		t.Fatal("legacy spec has no CP_RequestTimeout parameter")
	}
	// Without a data object property the textual default is returned.
	value, err := cp.DefaultValue()
	if err != nil {
		t.Fatalf("DefaultValue() error: %s", err)
	}
	if value != "500" {
		t.Errorf("DefaultValue() = %v, want the raw text %q", value, "500")
	}
}

func TestDemoInheritance(t *testing.T) {
	db := loadDemo(t)
	base := demoLayer(t, db, "flip_base")
	front := demoLayer(t, db, "flip_front")
	rear := demoLayer(t, db, "flip_rear")

	// flip_front declares its own tester_present, shadowing the
	// inherited one.
	present := demoService(t, front, "tester_present")
	if present.Semantic() != "TESTERPRESENT-FAST" {
		t.Errorf("tester_present semantic = %q, want the local override", present.Semantic())
	}
	if origin := front.InheritedFrom(EntityKindDiagComm, "tester_present"); origin != nil {
		t.Errorf("InheritedFrom(tester_present) = %v, want nil for a local service", origin)
	}
	if origin := front.InheritedFrom(EntityKindDiagComm, "read_identity"); origin != base {
		t.Errorf("InheritedFrom(read_identity) = %v, want flip_base", origin)
	}

	// Properties flow down the whole chain: flip_shared into flip_base
	// into the variants.
	if origin := base.InheritedFrom(EntityKindDOP, "dop_uint8"); origin == nil || origin.ShortName != "flip_shared" {
		t.Errorf("InheritedFrom(dop_uint8) on flip_base = %v, want flip_shared", origin)
	}
	if !front.DataObjectProperties().Contains("dop_uint8") {
		t.Error("flip_front did not inherit dop_uint8")
	}
	if !front.DataObjectProperties().Contains("dop_seat_count") {
		t.Error("flip_front lost its local dop_seat_count")
	}

	// flip_rear excludes the flash services of its base variant.
	for _, name := range []string{"request_download", "transfer_data", "transfer_exit"} {
		if rear.DiagComms().Contains(name) {
			t.Errorf("flip_rear inherited the excluded service %s", name)
		}
	}
	if !rear.DiagComms().Contains("tester_present") || !rear.DiagComms().Contains("read_flight_log") {
		t.Error("flip_rear is missing services outside the exclusion set")
	}

	// The single ECU job participates in inheritance like a service.
	if len(rear.SingleEcuJobs()) != 1 {
		t.Errorf("flip_rear has %d jobs, want the inherited recover_flip", len(rear.SingleEcuJobs()))
	}
}

func TestDemoEncodeRequests(t *testing.T) {
	db := loadDemo(t)
	base := demoLayer(t, db, "flip_base")

	present := demoService(t, base, "tester_present")
	coded, err := present.Request().Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x3E, 0x00}; !bytes.Equal(coded, want) {
		t.Errorf("tester_present request = % X, want % X", coded, want)
	}

	session := demoService(t, base, "session_start")
	coded, err = session.Request().Encode(ParameterValueMap{"session": "programming"}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x10, 0x02}; !bytes.Equal(coded, want) {
		t.Errorf("session_start request = % X, want % X", coded, want)
	}
}

func TestDemoIdentityRoundTrip(t *testing.T) {
	db := loadDemo(t)
	base := demoLayer(t, db, "flip_base")
	service := demoService(t, base, "read_identity")

	request, err := service.Request().Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x22, 0xF1, 0x90}; !bytes.Equal(request, want) {
		t.Fatalf("read_identity request = % X, want % X", request, want)
	}

	response := service.PositiveResponses()[0]
	coded, err := response.Encode(ParameterValueMap{"identity": "AB"}, request)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0x62, 0xF1, 0x90, 0x02, 'A', 'B'}; !bytes.Equal(coded, want) {
		t.Fatalf("read_identity response = % X, want % X", coded, want)
	}

	values, err := response.Decode(coded)
	if err != nil {
		t.Fatalf("Decode() error: %s", err)
	}
	want := ParameterValueMap{"identity": "AB"}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Decode() = %v, want %v", values, want)
	}
}

func TestDemoFlightLogRoundTrip(t *testing.T) {
	db := loadDemo(t)
	base := demoLayer(t, db, "flip_base")
	response := demoService(t, base, "read_flight_log").PositiveResponses()[0]

	// A row whose payload is a structure: the timestamp property is
	// inherited from flip_shared, the temperature one converts through
	// a linear scale.
	entry := TableStructValue{
		RowName: "forward_flip",
		Value: ParameterValueMap{
			"timestamp":   uint32(0x0102),
			"temperature": float64(-15),
		},
	}
	coded, err := response.Encode(ParameterValueMap{"entry": entry}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0xFB, 0x01, 0x01, 0x02, 0x19}; !bytes.Equal(coded, want) {
		t.Fatalf("Encode() = % X, want % X", coded, want)
	}

	values, err := response.Decode(coded)
	if err != nil {
		t.Fatalf("Decode() error: %s", err)
	}
	if !reflect.DeepEqual(values, ParameterValueMap{"entry": entry}) {
		t.Errorf("Decode() = %v, want %v", values, ParameterValueMap{"entry": entry})
	}

	// A row whose payload is a plain property.
	count := TableStructValue{RowName: "flip_count", Value: uint32(5)}
	coded, err = response.Encode(ParameterValueMap{"entry": count}, nil)
	if err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	if want := []byte{0xFB, 0x03, 0x05}; !bytes.Equal(coded, want) {
		t.Errorf("Encode() = % X, want % X", coded, want)
	}
}

func TestDemoDecodeMessage(t *testing.T) {
	db := loadDemo(t)
	base := demoLayer(t, db, "flip_base")

	results, err := base.DecodeMessage([]byte{0x3E, 0x00})
	if err != nil {
		t.Fatalf("DecodeMessage() error: %s", err)
	}
	if len(results) != 1 {
		t.Fatalf("DecodeMessage() returned %d results, want 1", len(results))
	}
	if results[0].Service.ShortName != "tester_present" || results[0].Structure.ShortName != "rq_tester_present" {
		t.Errorf("DecodeMessage() matched %s/%s, want tester_present/rq_tester_present",
			results[0].Service.ShortName, results[0].Structure.ShortName)
	}

	// The global negative response matches regardless of the service.
	results, err = base.DecodeMessage([]byte{0x7F, 0x22, 0x10})
	if err != nil {
		t.Fatalf("DecodeMessage() error: %s", err)
	}
	for _, result := range results {
		if result.Structure.ShortName != "gnr_general" {
			t.Errorf("a negative response message matched %s", result.Structure.ShortName)
		}
	}

	// A response code outside the declared set matches nothing.
	if _, err := base.DecodeMessage([]byte{0x7F, 0x22, 0x99}); err == nil {
		t.Error("DecodeMessage() claimed a negative response with an unknown code")
	}
}

func TestPDXRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "flip.pdx")
	if err := WriteDemoPDX(name); err != nil {
		t.Fatalf("WriteDemoPDX() error: %s", err)
	}

	db, err := NewDatabase(LoadOptions{PDXFile: name, Strict: true})
	if err != nil {
		t.Fatalf("NewDatabase() error: %s", err)
	}
	if got, want := db.EcuVariants().Names(), []string{"flip_front", "flip_rear"}; !reflect.DeepEqual(got, want) {
		t.Errorf("EcuVariants() = %v, want %v", got, want)
	}
	if db.ComparamSubsets().Len() != 1 {
		t.Errorf("ComparamSubsets().Len() = %d, want 1", db.ComparamSubsets().Len())
	}
}

func TestLoadRejectsWrongComparamShape(t *testing.T) {
	subsetAtOldVersion := strings.Replace(demoComparamSubsetDoc, `MODEL-VERSION="2.2.0"`, `MODEL-VERSION="2.0.0"`, 1)
	_, err := NewDatabase(LoadOptions{Documents: []Document{
		{Name: "subset.odx-cs", Data: []byte(subsetAtOldVersion)},
	}})
	if err == nil {
		t.Error("NewDatabase() accepted a subset document at a pre-2.2 model version")
	}

	inlineAtNewVersion := strings.Replace(demoLegacyComparamDoc, `MODEL-VERSION="2.0.0"`, `MODEL-VERSION="2.2.0"`, 1)
	_, err = NewDatabase(LoadOptions{Documents: []Document{
		{Name: "spec.odx-c", Data: []byte(inlineAtNewVersion)},
	}})
	if err == nil {
		t.Error("NewDatabase() accepted inline parameters at a 2.2 model version")
	}
}

func TestLoadRejectsMalformedModelVersion(t *testing.T) {
	doc := strings.Replace(demoLegacyComparamDoc, `MODEL-VERSION="2.0.0"`, `MODEL-VERSION="two"`, 1)
	_, err := NewDatabase(LoadOptions{Documents: []Document{{Name: "spec.odx-c", Data: []byte(doc)}}})
	if err == nil {
		t.Error("NewDatabase() accepted a malformed model version")
	}
}

func TestLoadOptionInputSets(t *testing.T) {
	if _, err := NewDatabase(LoadOptions{}); err == nil {
		t.Error("NewDatabase() accepted empty load options")
	}
	_, err := NewDatabase(LoadOptions{
		PDXFile:   "some.pdx",
		Documents: DemoDocuments(),
	})
	if err == nil {
		t.Error("NewDatabase() accepted two input sets at once")
	}
}

func TestLoadStrictVersusLenient(t *testing.T) {
	broken := strings.Replace(demoLayerDoc, `ID-REF="dop_temperature"`, `ID-REF="dop_missing"`, 1)
	docs := []Document{
		{Name: "flip.odx-d", Data: []byte(broken)},
		{Name: "uds_can_comparams.odx-c", Data: []byte(demoComparamSpecDoc)},
		{Name: "uds_can_subset.odx-cs", Data: []byte(demoComparamSubsetDoc)},
	}

	if _, err := NewDatabase(LoadOptions{Documents: docs, Strict: true}); err == nil {
		t.Error("NewDatabase() in strict mode accepted a dangling reference")
	}

	db, err := NewDatabase(LoadOptions{Documents: docs})
	if err != nil {
		t.Fatalf("NewDatabase() in lenient mode failed: %s", err)
	}
	if len(db.Warnings()) == 0 {
		t.Error("Warnings() is empty, want a record of the dangling reference")
	}
}
