package odx

import "github.com/gavinwade12/odx/odxlink"

// FunctionalClass groups diagnostic communications by purpose, e.g.
// all services dealing with flashing.
type FunctionalClass struct {
	IdentifiableElement
}

func functionalClassFromXML(raw *xmlFunctionalClass, frags []odxlink.DocFragment) (*FunctionalClass, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("FUNCT-CLASS %q without an ID", raw.ShortName)
	}
	return &FunctionalClass{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
	}, nil
}

// State is one state of a state chart, e.g. a diagnostic session.
type State struct {
	IdentifiableElement
}

// StateTransition connects two states of a state chart.
type StateTransition struct {
	IdentifiableElement

	SourceState string
	TargetState string
}

// StateChart models the sessions or security levels an ECU moves
// through and the transitions between them.
type StateChart struct {
	IdentifiableElement

	Semantic    string
	StartState  string
	States      NamedItemList[*State]
	Transitions []*StateTransition
}

func stateChartFromXML(raw *xmlStateChart, frags []odxlink.DocFragment) (*StateChart, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("STATE-CHART %q without an ID", raw.ShortName)
	}
	sc := &StateChart{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
		Semantic:            raw.Semantic,
	}
	if raw.StartStateSNRef != nil {
		sc.StartState = raw.StartStateSNRef.ShortName
	}
	for i := range raw.States {
		rawState := &raw.States[i]
		if rawState.ID == "" {
			return nil, structuralErrorf("state chart %s: STATE %q without an ID",
				sc.ShortName, rawState.ShortName)
		}
		sc.States.append(&State{
			IdentifiableElement: identifiableFromXML(rawState.xmlNamedElement, frags),
		})
	}
	for i := range raw.StateTransitions {
		rawTransition := &raw.StateTransitions[i]
		transition := &StateTransition{
			IdentifiableElement: identifiableFromXML(rawTransition.xmlNamedElement, frags),
		}
		if rawTransition.SourceSNRef != nil {
			transition.SourceState = rawTransition.SourceSNRef.ShortName
		}
		if rawTransition.TargetSNRef != nil {
			transition.TargetState = rawTransition.TargetSNRef.ShortName
		}
		if !sc.States.Contains(transition.SourceState) || !sc.States.Contains(transition.TargetState) {
			return nil, structuralErrorf("state chart %s: transition %s connects unknown states",
				sc.ShortName, transition.ShortName)
		}
		sc.Transitions = append(sc.Transitions, transition)
	}
	return sc, nil
}

func (sc *StateChart) buildLinks(b *odxlink.Builder) error {
	if err := b.Register(sc.OdxID, sc); err != nil {
		return err
	}
	for _, state := range sc.States.Items() {
		if err := b.Register(state.OdxID, state); err != nil {
			return err
		}
	}
	for _, transition := range sc.Transitions {
		if err := registerIfIdentified(b, transition.OdxID, transition); err != nil {
			return err
		}
	}
	return nil
}
