package odx

import "github.com/gavinwade12/odx/odxlink"

// Comparam describes a single communication parameter, e.g. a CAN
// identifier or a timing value of the transport protocol.
type Comparam struct {
	IdentifiableElement

	ParamClass string
	CpType     string
	CpUsage    string

	// PhysicalDefaultValue is the textual default; it is interpreted
	// against the parameter's data object property.
	PhysicalDefaultValue string

	dopRef odxlink.Ref
	dop    *DataObjectProperty
}

// DOP returns the data object property describing the parameter's
// value, or nil when the reference is dangling in lenient mode.
func (c *Comparam) DOP() *DataObjectProperty { return c.dop }

// DefaultValue returns the physical default value parsed through the
// parameter's data object property. Without a resolved property the
// raw text is returned.
func (c *Comparam) DefaultValue() (ParameterValue, error) {
	if c.PhysicalDefaultValue == "" {
		return nil, nil
	}
	if c.dop == nil {
		return c.PhysicalDefaultValue, nil
	}
	return c.dop.PhysicalType.BaseDataType.parseValue(c.PhysicalDefaultValue)
}

func (c *Comparam) buildLinks(b *odxlink.Builder) error {
	return b.Register(c.OdxID, c)
}

func (c *Comparam) resolveLinks(r *resolver) error {
	if c.dopRef.IsZero() {
		return nil
	}
	dop, err := resolveLink[*DataObjectProperty](r, c.dopRef)
	if err != nil {
		return err
	}
	c.dop = dop
	return nil
}

func comparamFromXML(raw *xmlComparam, frags []odxlink.DocFragment) (*Comparam, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("communication parameter %q without an ID", raw.ShortName)
	}
	c := &Comparam{
		IdentifiableElement:  identifiableFromXML(raw.xmlNamedElement, frags),
		ParamClass:           raw.ParamClass,
		CpType:               raw.CpType,
		CpUsage:              raw.CpUsage,
		PhysicalDefaultValue: raw.PhysicalDefaultValue,
	}
	if raw.DopRef != nil {
		c.dopRef = raw.DopRef.toRef(frags)
	}
	return c, nil
}

// ProtStack selects the communication parameter subsets making up one
// protocol stack. Protocol stacks only exist in the split container
// shape of model version 2.2 and later.
type ProtStack struct {
	IdentifiableElement

	PduProtocolType  string
	PhysicalLinkType string

	subsetRefs []odxlink.Ref
	subsets    []*ComparamSubset
}

// ComparamSubsets returns the subsets of the stack in declaration
// order.
func (p *ProtStack) ComparamSubsets() []*ComparamSubset { return p.subsets }

func (p *ProtStack) buildLinks(b *odxlink.Builder) error {
	return b.Register(p.OdxID, p)
}

func (p *ProtStack) resolveLinks(r *resolver) error {
	for _, ref := range p.subsetRefs {
		subset, err := resolveLink[*ComparamSubset](r, ref)
		if err != nil {
			return err
		}
		if subset != nil {
			p.subsets = append(p.subsets, subset)
		}
	}
	return nil
}

func protStackFromXML(raw *xmlProtStack, frags []odxlink.DocFragment) (*ProtStack, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("protocol stack %q without an ID", raw.ShortName)
	}
	p := &ProtStack{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		PduProtocolType:     raw.PduProtocolType,
		PhysicalLinkType:    raw.PhysicalLinkType,
	}
	for i := range raw.ComparamSubsetRefs {
		p.subsetRefs = append(p.subsetRefs, raw.ComparamSubsetRefs[i].toRef(frags))
	}
	return p, nil
}

// ComparamSubset is a standalone document holding communication
// parameters together with the data object properties they are
// interpreted with. Subsets exist from model version 2.2 on and are
// referenced by protocol stacks.
type ComparamSubset struct {
	IdentifiableElement

	Category string

	Comparams       NamedItemList[*Comparam]
	DataObjectProps NamedItemList[*DataObjectProperty]
	UnitSpec        *UnitSpec
}

func (s *ComparamSubset) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(s.OdxID, s); err != nil {
		return err
	}
	for _, c := range s.Comparams.Items() {
		if err := c.buildLinks(b); err != nil {
			return err
		}
	}
	for _, dop := range s.DataObjectProps.Items() {
		if err := dop.buildLinks(b); err != nil {
			return err
		}
	}
	if s.UnitSpec != nil {
		if err := s.UnitSpec.buildLinks(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *ComparamSubset) resolveLinks(r *resolver) error {
	for _, c := range s.Comparams.Items() {
		if err := c.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, dop := range s.DataObjectProps.Items() {
		if err := dop.resolveLinks(r); err != nil {
			return err
		}
	}
	return nil
}

func comparamSubsetFromXML(raw *xmlComparamSubset, frags []odxlink.DocFragment) (*ComparamSubset, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("communication parameter subset %q without an ID", raw.ShortName)
	}
	s := &ComparamSubset{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		Category:            raw.Category,
	}
	for i := range raw.Comparams {
		c, err := comparamFromXML(&raw.Comparams[i], frags)
		if err != nil {
			return nil, structuralErrorf("subset %s: %s", s.ShortName, err)
		}
		s.Comparams.append(c)
	}
	for i := range raw.DataObjectProps {
		dop, err := dopFromXML(&raw.DataObjectProps[i], frags)
		if err != nil {
			return nil, structuralErrorf("subset %s: %s", s.ShortName, err)
		}
		s.DataObjectProps.append(dop)
	}
	spec, err := unitSpecFromXML(raw.UnitSpec, frags)
	if err != nil {
		return nil, structuralErrorf("subset %s: %s", s.ShortName, err)
	}
	s.UnitSpec = spec
	return s, nil
}

// ComparamSpec is the document protocol layers reference for their
// communication parameters. Before model version 2.2 the spec holds
// the parameters inline; from 2.2 on it holds protocol stacks that
// reference communication parameter subsets instead.
type ComparamSpec struct {
	IdentifiableElement

	ProtStacks NamedItemList[*ProtStack]
	Comparams  NamedItemList[*Comparam]
}

func (s *ComparamSpec) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(s.OdxID, s); err != nil {
		return err
	}
	for _, stack := range s.ProtStacks.Items() {
		if err := stack.buildLinks(b); err != nil {
			return err
		}
	}
	for _, c := range s.Comparams.Items() {
		if err := c.buildLinks(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *ComparamSpec) resolveLinks(r *resolver) error {
	for _, stack := range s.ProtStacks.Items() {
		if err := stack.resolveLinks(r); err != nil {
			return err
		}
	}
	for _, c := range s.Comparams.Items() {
		if err := c.resolveLinks(r); err != nil {
			return err
		}
	}
	return nil
}

// comparamSpecFromXML builds a spec from its document. The model
// version of the document picks the allowed container shape: inline
// parameters before 2.2, protocol stacks from 2.2 on.
func comparamSpecFromXML(raw *xmlComparamSpec, frags []odxlink.DocFragment, splitShape bool) (*ComparamSpec, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("communication parameter spec %q without an ID", raw.ShortName)
	}
	if splitShape && len(raw.Comparams) > 0 {
		return nil, structuralErrorf("spec %s declares inline communication parameters, not allowed from model version 2.2 on", raw.ShortName)
	}
	if !splitShape && len(raw.ProtStacks) > 0 {
		return nil, structuralErrorf("spec %s declares protocol stacks, not allowed before model version 2.2", raw.ShortName)
	}
	s := &ComparamSpec{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
	}
	for i := range raw.ProtStacks {
		stack, err := protStackFromXML(&raw.ProtStacks[i], frags)
		if err != nil {
			return nil, structuralErrorf("spec %s: %s", s.ShortName, err)
		}
		s.ProtStacks.append(stack)
	}
	for i := range raw.Comparams {
		c, err := comparamFromXML(&raw.Comparams[i], frags)
		if err != nil {
			return nil, structuralErrorf("spec %s: %s", s.ShortName, err)
		}
		s.Comparams.append(c)
	}
	return s, nil
}
