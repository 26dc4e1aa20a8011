package odx

import "github.com/gavinwade12/odx/odxlink"

// DiagComm is a diagnostic communication of a layer: a service or a
// single ECU job. Communications participate in inheritance and carry
// an audience and functional class assignment.
type DiagComm interface {
	NamedElement

	// ID returns the identifier of the communication.
	ID() odxlink.ID

	// Semantic returns the role attribute of the communication.
	Semantic() string

	// Audience returns who may execute the communication, or nil when
	// it is unrestricted.
	Audience() *Audience

	// FunctionalClasses returns the classes the communication belongs
	// to.
	FunctionalClasses() []*FunctionalClass

	buildLinks(b *odxlink.Builder) error
	resolveLinks(r *resolver) error
	resolveSNRefs(r *resolver, layer *DiagLayer) error
}

// diagCommBase carries the properties shared by services and jobs.
type diagCommBase struct {
	IdentifiableElement

	semantic string
	audience *Audience

	functClassRefs []odxlink.Ref
	functClasses   []*FunctionalClass
}

func (c *diagCommBase) Semantic() string { return c.semantic }

func (c *diagCommBase) Audience() *Audience { return c.audience }

func (c *diagCommBase) FunctionalClasses() []*FunctionalClass { return c.functClasses }

func (c *diagCommBase) resolveLinks(r *resolver) error {
	for _, ref := range c.functClassRefs {
		fc, err := resolveLink[*FunctionalClass](r, ref)
		if err != nil {
			return err
		}
		if fc != nil {
			c.functClasses = append(c.functClasses, fc)
		}
	}
	if c.audience != nil {
		return c.audience.resolveLinks(r)
	}
	return nil
}

// DiagService ties a request structure to its possible responses.
type DiagService struct {
	diagCommBase

	requestRef      odxlink.Ref
	posResponseRefs []odxlink.Ref
	negResponseRefs []odxlink.Ref

	request      *Request
	posResponses []*Response
	negResponses []*Response
}

// Request returns the structure coding the service's request message.
// It is nil when the reference is dangling in lenient mode.
func (s *DiagService) Request() *Request { return s.request }

// PositiveResponses returns the structures coding the service's
// positive response messages.
func (s *DiagService) PositiveResponses() []*Response { return s.posResponses }

// NegativeResponses returns the structures coding the service's
// negative response messages.
func (s *DiagService) NegativeResponses() []*Response { return s.negResponses }

func (s *DiagService) buildLinks(b *odxlink.Builder) error {
	return b.Register(s.OdxID, s)
}

func (s *DiagService) resolveLinks(r *resolver) error {
	if err := s.diagCommBase.resolveLinks(r); err != nil {
		return err
	}
	if !s.requestRef.IsZero() {
		request, err := resolveLink[*Request](r, s.requestRef)
		if err != nil {
			return err
		}
		s.request = request
	}
	for _, ref := range s.posResponseRefs {
		response, err := resolveLink[*Response](r, ref)
		if err != nil {
			return err
		}
		if response != nil {
			s.posResponses = append(s.posResponses, response)
		}
	}
	for _, ref := range s.negResponseRefs {
		response, err := resolveLink[*Response](r, ref)
		if err != nil {
			return err
		}
		if response != nil {
			s.negResponses = append(s.negResponses, response)
		}
	}
	return nil
}

func (s *DiagService) resolveSNRefs(r *resolver, layer *DiagLayer) error { return nil }

func diagServiceFromXML(raw *xmlDiagService, frags []odxlink.DocFragment) (*DiagService, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("DIAG-SERVICE %q without an ID", raw.ShortName)
	}
	if raw.RequestRef == nil {
		return nil, structuralErrorf("service %s: missing REQUEST-REF", raw.ShortName)
	}

	s := &DiagService{
		diagCommBase: diagCommBase{
			IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
			semantic:            raw.Semantic,
			audience:            audienceFromXML(raw.Audience, frags),
		},
		requestRef: raw.RequestRef.toRef(frags),
	}
	for i := range raw.FunctClassRefs {
		s.functClassRefs = append(s.functClassRefs, raw.FunctClassRefs[i].toRef(frags))
	}
	for i := range raw.PosResponseRefs {
		s.posResponseRefs = append(s.posResponseRefs, raw.PosResponseRefs[i].toRef(frags))
	}
	for i := range raw.NegResponseRefs {
		s.negResponseRefs = append(s.negResponseRefs, raw.NegResponseRefs[i].toRef(frags))
	}
	return s, nil
}
