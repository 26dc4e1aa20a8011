package odx

import "github.com/gavinwade12/odx/odxlink"

// ProgCode names the executable implementing a single ECU job.
type ProgCode struct {
	CodeFile   string
	Syntax     string
	Revision   string
	Entrypoint string
}

// JobParameter describes one input or output of a single ECU job. Its
// representation is given by a referenced data object property.
type JobParameter struct {
	Element

	Semantic             string
	PhysicalDefaultValue string

	dopBaseRef odxlink.Ref
	dop        DopBase
}

// DOP returns the resolved type of the job parameter. It is nil when
// the reference is dangling in lenient mode.
func (p *JobParameter) DOP() DopBase { return p.dop }

func (p *JobParameter) resolveLinks(r *resolver) error {
	if p.dopBaseRef.IsZero() {
		return nil
	}
	dop, err := resolveLink[DopBase](r, p.dopBaseRef)
	if err != nil {
		return err
	}
	p.dop = dop
	return nil
}

// SingleEcuJob is a diagnostic communication implemented by executable
// code specific to one ECU rather than by a plain request/response
// exchange.
type SingleEcuJob struct {
	diagCommBase

	ProgCodes []ProgCode

	InputParams     NamedItemList[*JobParameter]
	OutputParams    NamedItemList[*JobParameter]
	NegOutputParams NamedItemList[*JobParameter]
}

func (j *SingleEcuJob) buildLinks(b *odxlink.Builder) error {
	return b.Register(j.OdxID, j)
}

func (j *SingleEcuJob) resolveLinks(r *resolver) error {
	if err := j.diagCommBase.resolveLinks(r); err != nil {
		return err
	}
	for _, params := range []NamedItemList[*JobParameter]{j.InputParams, j.OutputParams, j.NegOutputParams} {
		for _, p := range params.Items() {
			if err := p.resolveLinks(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (j *SingleEcuJob) resolveSNRefs(r *resolver, layer *DiagLayer) error { return nil }

func jobParametersFromXML(raws []xmlJobParam, frags []odxlink.DocFragment) (NamedItemList[*JobParameter], error) {
	var params NamedItemList[*JobParameter]
	for i := range raws {
		raw := &raws[i]
		if raw.ShortName == "" {
			return params, structuralErrorf("job parameter without a SHORT-NAME")
		}
		p := &JobParameter{
			Element:              elementFromXML(raw.xmlNamedElement),
			Semantic:             raw.Semantic,
			PhysicalDefaultValue: raw.PhysicalDefaultValue,
		}
		if raw.DopBaseRef != nil {
			p.dopBaseRef = raw.DopBaseRef.toRef(frags)
		}
		params.append(p)
	}
	return params, nil
}

func singleEcuJobFromXML(raw *xmlSingleEcuJob, frags []odxlink.DocFragment) (*SingleEcuJob, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("SINGLE-ECU-JOB %q without an ID", raw.ShortName)
	}
	if len(raw.ProgCodes) == 0 {
		return nil, structuralErrorf("job %s: missing PROG-CODES", raw.ShortName)
	}

	j := &SingleEcuJob{
		diagCommBase: diagCommBase{
			IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
			semantic:            raw.Semantic,
			audience:            audienceFromXML(raw.Audience, frags),
		},
	}
	for i := range raw.FunctClassRefs {
		j.functClassRefs = append(j.functClassRefs, raw.FunctClassRefs[i].toRef(frags))
	}
	for _, rawCode := range raw.ProgCodes {
		if rawCode.CodeFile == "" || rawCode.Syntax == "" {
			return nil, structuralErrorf("job %s: PROG-CODE requires CODE-FILE and SYNTAX", j.ShortName)
		}
		j.ProgCodes = append(j.ProgCodes, ProgCode{
			CodeFile:   rawCode.CodeFile,
			Syntax:     rawCode.Syntax,
			Revision:   rawCode.Revision,
			Entrypoint: rawCode.Entrypoint,
		})
	}

	var err error
	if j.InputParams, err = jobParametersFromXML(raw.InputParams, frags); err != nil {
		return nil, structuralErrorf("job %s: %s", j.ShortName, err)
	}
	if j.OutputParams, err = jobParametersFromXML(raw.OutputParams, frags); err != nil {
		return nil, structuralErrorf("job %s: %s", j.ShortName, err)
	}
	if j.NegOutputParams, err = jobParametersFromXML(raw.NegOutputParam, frags); err != nil {
		return nil, structuralErrorf("job %s: %s", j.ShortName, err)
	}
	return j, nil
}
