package odx

import (
	"bytes"

	"github.com/gavinwade12/odx/odxlink"
)

// DiagLayerType enumerates the kinds of diagnostic layers.
type DiagLayerType string

const (
	DiagLayerTypeProtocol        DiagLayerType = "PROTOCOL"
	DiagLayerTypeFunctionalGroup DiagLayerType = "FUNCTIONAL-GROUP"
	DiagLayerTypeBaseVariant     DiagLayerType = "BASE-VARIANT"
	DiagLayerTypeEcuVariant      DiagLayerType = "ECU-VARIANT"
	DiagLayerTypeEcuSharedData   DiagLayerType = "ECU-SHARED-DATA"
)

// EntityKind names the per-kind namespaces of a finalized layer. An
// entity of one kind never shadows an entity of another.
type EntityKind string

const (
	EntityKindDiagComm        EntityKind = "diagnostic communication"
	EntityKindDOP             EntityKind = "data object property"
	EntityKindStructure       EntityKind = "structure"
	EntityKindTable           EntityKind = "table"
	EntityKindUnit            EntityKind = "unit"
	EntityKindFunctionalClass EntityKind = "functional class"
	EntityKindAudience        EntityKind = "additional audience"
	EntityKindStateChart      EntityKind = "state chart"
)

// ParentRef connects a layer to a parent it inherits from. The
// not-inherited name sets exclude individual entities from the merge.
type ParentRef struct {
	ref       odxlink.Ref
	layerType DiagLayerType

	notInheritedDiagComms map[string]bool
	notInheritedDOPs      map[string]bool

	parent *DiagLayer
}

// Parent returns the referenced layer. It is nil when the reference is
// dangling in lenient mode.
func (pr *ParentRef) Parent() *DiagLayer { return pr.parent }

func parentRefTypeFromXSI(s string) (DiagLayerType, error) {
	switch s {
	case "PROTOCOL-REF":
		return DiagLayerTypeProtocol, nil
	case "FUNCTIONAL-GROUP-REF":
		return DiagLayerTypeFunctionalGroup, nil
	case "BASE-VARIANT-REF":
		return DiagLayerTypeBaseVariant, nil
	case "ECU-SHARED-DATA-REF":
		return DiagLayerTypeEcuSharedData, nil
	}
	return "", structuralErrorf("unknown parent reference kind %q", s)
}

// layerContent holds the entities of one layer that participate in
// inheritance, either as locally declared or as a finalized view.
type layerContent struct {
	DiagComms           NamedItemList[DiagComm]
	DataObjectProps     NamedItemList[*DataObjectProperty]
	Structures          NamedItemList[*Structure]
	Tables              NamedItemList[*Table]
	Units               NamedItemList[*Unit]
	FunctionalClasses   NamedItemList[*FunctionalClass]
	AdditionalAudiences NamedItemList[*AdditionalAudience]
	StateCharts         NamedItemList[*StateChart]
}

type layerFinalizeState int

const (
	layerUnfinalized layerFinalizeState = iota
	layerFinalizing
	layerFinalized
)

// DiagLayer is a named collection of diagnostic communications and data
// definitions. Layers inherit from each other along their parent
// references; after finalization every layer exposes a flattened,
// self-contained view of its own and its ancestors' entities.
type DiagLayer struct {
	IdentifiableElement

	LayerType DiagLayerType

	local      layerContent
	requests   []*Request
	responses  []*Response
	parentRefs []*ParentRef

	// Protocol layers reference the communication parameters of their
	// protocol stack.
	comparamSpecRef odxlink.Ref
	comparamSpec    *ComparamSpec
	protStackSNRef  string
	protStack       *ProtStack

	finalizeState layerFinalizeState
	view          layerContent
	origins       map[string]*DiagLayer
}

// ParentRefs returns the layer's parent references in declaration
// order.
func (l *DiagLayer) ParentRefs() []*ParentRef { return l.parentRefs }

// DiagComms returns the finalized view of the layer's diagnostic
// communications, including the inherited ones.
func (l *DiagLayer) DiagComms() NamedItemList[DiagComm] { return l.view.DiagComms }

// Services returns the diagnostic services of the finalized view.
func (l *DiagLayer) Services() []*DiagService {
	var result []*DiagService
	for _, comm := range l.view.DiagComms.Items() {
		if service, ok := comm.(*DiagService); ok {
			result = append(result, service)
		}
	}
	return result
}

// SingleEcuJobs returns the jobs of the finalized view.
func (l *DiagLayer) SingleEcuJobs() []*SingleEcuJob {
	var result []*SingleEcuJob
	for _, comm := range l.view.DiagComms.Items() {
		if job, ok := comm.(*SingleEcuJob); ok {
			result = append(result, job)
		}
	}
	return result
}

// DataObjectProperties returns the finalized view of the layer's data
// object properties.
func (l *DiagLayer) DataObjectProperties() NamedItemList[*DataObjectProperty] {
	return l.view.DataObjectProps
}

// Structures returns the finalized view of the layer's structures.
func (l *DiagLayer) Structures() NamedItemList[*Structure] { return l.view.Structures }

// Tables returns the finalized view of the layer's tables.
func (l *DiagLayer) Tables() NamedItemList[*Table] { return l.view.Tables }

// Units returns the finalized view of the layer's units.
func (l *DiagLayer) Units() NamedItemList[*Unit] { return l.view.Units }

// FunctionalClasses returns the finalized view of the layer's
// functional classes.
func (l *DiagLayer) FunctionalClasses() NamedItemList[*FunctionalClass] {
	return l.view.FunctionalClasses
}

// AdditionalAudiences returns the finalized view of the layer's
// additional audiences.
func (l *DiagLayer) AdditionalAudiences() NamedItemList[*AdditionalAudience] {
	return l.view.AdditionalAudiences
}

// StateCharts returns the finalized view of the layer's state charts.
func (l *DiagLayer) StateCharts() NamedItemList[*StateChart] { return l.view.StateCharts }

// ComparamSpec returns the communication parameter spec of a protocol
// layer.
func (l *DiagLayer) ComparamSpec() *ComparamSpec { return l.comparamSpec }

// ProtStack returns the protocol stack selected by a protocol layer.
func (l *DiagLayer) ProtStack() *ProtStack { return l.protStack }

// InheritedFrom returns the layer the named entity of the finalized
// view was inherited from, or nil if the layer declares it itself.
func (l *DiagLayer) InheritedFrom(kind EntityKind, name string) *DiagLayer {
	return l.origins[string(kind)+"/"+name]
}

func (l *DiagLayer) lookupDOP(name string) (*DataObjectProperty, bool) {
	return l.view.DataObjectProps.ByName(name)
}

func (l *DiagLayer) lookupTable(name string) (*Table, bool) {
	return l.view.Tables.ByName(name)
}

func (l *DiagLayer) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(l.OdxID, l); err != nil {
		return err
	}
	for _, comm := range l.local.DiagComms.Items() {
		if err := comm.buildLinks(b); err != nil {
			return err
		}
	}
	for _, dop := range l.local.DataObjectProps.Items() {
		if err := dop.buildLinks(b); err != nil {
			return err
		}
	}
	for _, structure := range l.local.Structures.Items() {
		if err := structure.buildLinks(b); err != nil {
			return err
		}
	}
	for _, table := range l.local.Tables.Items() {
		if err := table.buildLinks(b); err != nil {
			return err
		}
	}
	for _, unit := range l.local.Units.Items() {
		if err := b.Register(unit.OdxID, unit); err != nil {
			return err
		}
	}
	for _, fc := range l.local.FunctionalClasses.Items() {
		if err := b.Register(fc.OdxID, fc); err != nil {
			return err
		}
	}
	for _, audience := range l.local.AdditionalAudiences.Items() {
		if err := b.Register(audience.OdxID, audience); err != nil {
			return err
		}
	}
	for _, chart := range l.local.StateCharts.Items() {
		if err := chart.buildLinks(b); err != nil {
			return err
		}
	}
	for _, request := range l.requests {
		if err := request.buildLinks(b); err != nil {
			return err
		}
	}
	for _, response := range l.responses {
		if err := response.buildLinks(b); err != nil {
			return err
		}
	}
	return nil
}

func (l *DiagLayer) resolveLinks(r *resolver) error {
	for _, pr := range l.parentRefs {
		parent, err := resolveLink[*DiagLayer](r, pr.ref)
		if err != nil {
			return err
		}
		if parent != nil && parent.LayerType != pr.layerType {
			return structuralErrorf("layer %s: parent reference %s names a %s, expected a %s",
				l.ShortName, pr.ref, parent.LayerType, pr.layerType)
		}
		pr.parent = parent
	}
	for _, comm := range l.local.DiagComms.Items() {
		if err := comm.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, dop := range l.local.DataObjectProps.Items() {
		if err := dop.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, structure := range l.local.Structures.Items() {
		if err := structure.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, table := range l.local.Tables.Items() {
		if err := table.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, request := range l.requests {
		if err := request.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, response := range l.responses {
		if err := response.resolveLinks(r); err != nil {
			return err
		}
	}
	if !l.comparamSpecRef.IsZero() {
		spec, err := resolveLink[*ComparamSpec](r, l.comparamSpecRef)
		if err != nil {
			return err
		}
		l.comparamSpec = spec
	}
	return nil
}

// resolveSNRefs resolves the short name references of the layer's
// content. It runs after finalization so that names inherited from
// parent layers are visible.
func (l *DiagLayer) resolveSNRefs(r *resolver) error {
	for _, comm := range l.local.DiagComms.Items() {
		if err := comm.resolveSNRefs(r, l); err != nil {
			return err
		}
	}
	for _, structure := range l.local.Structures.Items() {
		if err := structure.resolveSNRefs(r, l); err != nil {
			return err
		}
	}
	for _, request := range l.requests {
		if err := request.resolveSNRefs(r, l); err != nil {
			return err
		}
	}
	for _, response := range l.responses {
		if err := response.resolveSNRefs(r, l); err != nil {
			return err
		}
	}
	if l.protStackSNRef != "" {
		if l.comparamSpec == nil {
			return r.unresolvedSNRef("protocol stack", l.protStackSNRef, l)
		}
		stack, ok := l.comparamSpec.ProtStacks.ByName(l.protStackSNRef)
		if !ok {
			return r.unresolvedSNRef("protocol stack", l.protStackSNRef, l)
		}
		l.protStack = stack
	}
	return nil
}

// finalize computes the flattened view of the layer. Parents are
// finalized first; their views are merged into the local entities in
// parent declaration order, where the first entity of a given kind and
// short name wins. A parent chain returning to the layer itself is an
// inheritance cycle.
func (l *DiagLayer) finalize(stack []string) error {
	switch l.finalizeState {
	case layerFinalized:
		return nil
	case layerFinalizing:
		cycle := append([]string{}, stack...)
		for i, name := range cycle {
			if name == l.ShortName {
				cycle = cycle[i:]
				break
			}
		}
		return &InheritanceCycleError{Layers: append(cycle, l.ShortName)}
	}

	l.finalizeState = layerFinalizing
	stack = append(stack, l.ShortName)
	for _, pr := range l.parentRefs {
		if pr.parent == nil {
			continue
		}
		if err := pr.parent.finalize(stack); err != nil {
			return err
		}
	}

	l.view = layerContent{}
	l.origins = make(map[string]*DiagLayer)
	l.mergeContent(&l.local, nil, nil)
	for _, pr := range l.parentRefs {
		if pr.parent == nil {
			continue
		}
		l.mergeContent(&pr.parent.view, pr, pr.parent)
	}

	l.finalizeState = layerFinalized
	return nil
}

// mergeContent adds the entities of one content set to the layer's
// view. Entities whose kind and short name are already present are
// skipped, as are the ones named by the parent reference's
// not-inherited sets. origin is nil while the layer's own entities are
// added.
func (l *DiagLayer) mergeContent(content *layerContent, pr *ParentRef, origin *DiagLayer) {
	record := func(kind EntityKind, name string) bool {
		key := string(kind) + "/" + name
		if _, taken := l.origins[key]; taken {
			return false
		}
		l.origins[key] = origin
		return true
	}

	for _, comm := range content.DiagComms.Items() {
		if pr != nil && pr.notInheritedDiagComms[comm.Name()] {
			continue
		}
		if record(EntityKindDiagComm, comm.Name()) {
			l.view.DiagComms.append(comm)
		}
	}
	for _, dop := range content.DataObjectProps.Items() {
		if pr != nil && pr.notInheritedDOPs[dop.Name()] {
			continue
		}
		if record(EntityKindDOP, dop.Name()) {
			l.view.DataObjectProps.append(dop)
		}
	}
	for _, structure := range content.Structures.Items() {
		if record(EntityKindStructure, structure.Name()) {
			l.view.Structures.append(structure)
		}
	}
	for _, table := range content.Tables.Items() {
		if record(EntityKindTable, table.Name()) {
			l.view.Tables.append(table)
		}
	}
	for _, unit := range content.Units.Items() {
		if record(EntityKindUnit, unit.Name()) {
			l.view.Units.append(unit)
		}
	}
	for _, fc := range content.FunctionalClasses.Items() {
		if record(EntityKindFunctionalClass, fc.Name()) {
			l.view.FunctionalClasses.append(fc)
		}
	}
	for _, audience := range content.AdditionalAudiences.Items() {
		if record(EntityKindAudience, audience.Name()) {
			l.view.AdditionalAudiences.append(audience)
		}
	}
	for _, chart := range content.StateCharts.Items() {
		if record(EntityKindStateChart, chart.Name()) {
			l.view.StateCharts.append(chart)
		}
	}
}

// DecodedMessage is one interpretation of a raw message against a
// layer's services.
type DecodedMessage struct {
	// Service is the diagnostic service the message belongs to.
	Service *DiagService

	// Structure is the request or response structure that matched.
	Structure *Structure

	// Values holds the decoded free parameter values.
	Values ParameterValueMap
}

// DecodeMessage matches a raw message against the constant prefixes of
// the layer's requests and responses and decodes it with every
// structure that fits. Ambiguous messages yield several results; a
// message no structure claims is a decode error.
func (l *DiagLayer) DecodeMessage(message []byte) ([]DecodedMessage, error) {
	var results []DecodedMessage

	tryStructure := func(service *DiagService, s *Structure) {
		prefix := s.CodedConstPrefix(nil)
		if len(prefix) == 0 || !bytes.HasPrefix(message, prefix) {
			return
		}
		values, err := s.Decode(message)
		if err != nil {
			return
		}
		results = append(results, DecodedMessage{Service: service, Structure: s, Values: values})
	}

	for _, service := range l.Services() {
		if request := service.Request(); request != nil {
			tryStructure(service, &request.Structure)
		}
		for _, response := range service.PositiveResponses() {
			tryStructure(service, &response.Structure)
		}
		for _, response := range service.NegativeResponses() {
			tryStructure(service, &response.Structure)
		}
	}

	if len(results) == 0 {
		return nil, decodeErrorf("no service of layer %s claims the message % X", l.ShortName, message)
	}
	return results, nil
}

func diagLayerFromXML(raw *xmlDiagLayer, layerType DiagLayerType, frags []odxlink.DocFragment) (*DiagLayer, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("%s %q without an ID", layerType, raw.ShortName)
	}

	l := &DiagLayer{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		LayerType:           layerType,
	}

	if raw.DiagComms != nil {
		for i := range raw.DiagComms.Services {
			service, err := diagServiceFromXML(&raw.DiagComms.Services[i], frags)
			if err != nil {
				return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
			}
			l.local.DiagComms.append(service)
		}
		for i := range raw.DiagComms.Jobs {
			job, err := singleEcuJobFromXML(&raw.DiagComms.Jobs[i], frags)
			if err != nil {
				return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
			}
			l.local.DiagComms.append(job)
		}
	}

	if ddds := raw.DiagDataDictionarySpec; ddds != nil {
		for i := range ddds.Dops {
			dop, err := dopFromXML(&ddds.Dops[i], frags)
			if err != nil {
				return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
			}
			l.local.DataObjectProps.append(dop)
		}
		for i := range ddds.Structures {
			structure, err := structureFromXML(&ddds.Structures[i], frags)
			if err != nil {
				return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
			}
			l.local.Structures.append(structure)
		}
		for i := range ddds.Tables {
			table, err := tableFromXML(&ddds.Tables[i], frags)
			if err != nil {
				return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
			}
			l.local.Tables.append(table)
		}
		unitSpec, err := unitSpecFromXML(ddds.UnitSpec, frags)
		if err != nil {
			return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
		}
		if unitSpec != nil {
			for _, unit := range unitSpec.Units.Items() {
				l.local.Units.append(unit)
			}
		}
	}

	for i := range raw.FunctClasses {
		fc, err := functionalClassFromXML(&raw.FunctClasses[i], frags)
		if err != nil {
			return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
		}
		l.local.FunctionalClasses.append(fc)
	}
	for i := range raw.AdditionalAudiences {
		audience, err := additionalAudienceFromXML(&raw.AdditionalAudiences[i], frags)
		if err != nil {
			return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
		}
		l.local.AdditionalAudiences.append(audience)
	}
	for i := range raw.StateCharts {
		chart, err := stateChartFromXML(&raw.StateCharts[i], frags)
		if err != nil {
			return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
		}
		l.local.StateCharts.append(chart)
	}

	for i := range raw.Requests {
		request, err := requestFromXML(&raw.Requests[i], frags)
		if err != nil {
			return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
		}
		l.requests = append(l.requests, request)
	}
	for i, group := range [][]xmlStructure{raw.PosResponses, raw.NegResponses, raw.GlobalNegResponses} {
		typ := [...]ResponseType{ResponseTypePositive, ResponseTypeNegative, ResponseTypeGlobalNegative}[i]
		for j := range group {
			response, err := responseFromXML(&group[j], frags, typ)
			if err != nil {
				return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
			}
			l.responses = append(l.responses, response)
		}
	}

	for i := range raw.ParentRefs {
		rawRef := &raw.ParentRefs[i]
		prType, err := parentRefTypeFromXSI(rawRef.XSIType)
		if err != nil {
			return nil, structuralErrorf("layer %s: %s", l.ShortName, err)
		}
		ref := xmlRef{IDRef: rawRef.IDRef, DocRef: rawRef.DocRef, DocType: rawRef.DocType}
		pr := &ParentRef{
			ref:                   ref.toRef(frags),
			layerType:             prType,
			notInheritedDiagComms: make(map[string]bool),
			notInheritedDOPs:      make(map[string]bool),
		}
		for _, ni := range rawRef.NotInheritedDiagComms {
			if ni.DiagCommSNRef != nil {
				pr.notInheritedDiagComms[ni.DiagCommSNRef.ShortName] = true
			}
		}
		for _, ni := range rawRef.NotInheritedDOPs {
			if ni.DopBaseSNRef != nil {
				pr.notInheritedDOPs[ni.DopBaseSNRef.ShortName] = true
			}
		}
		l.parentRefs = append(l.parentRefs, pr)
	}

	if raw.ComparamSpecRef != nil {
		l.comparamSpecRef = raw.ComparamSpecRef.toRef(frags)
	}
	if raw.ProtStackSNRef != nil {
		l.protStackSNRef = raw.ProtStackSNRef.ShortName
	}
	return l, nil
}
