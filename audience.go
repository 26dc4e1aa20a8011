package odx

import "github.com/gavinwade12/odx/odxlink"

// AdditionalAudience names a group of users beyond the five standard
// ones, e.g. a specific workshop chain.
type AdditionalAudience struct {
	IdentifiableElement
}

// Audience restricts who may execute a diagnostic communication. The
// five standard audience flags default to enabled; an unset flag only
// becomes false when another one is explicitly enabled.
type Audience struct {
	enabledAudienceRefs  []odxlink.Ref
	disabledAudienceRefs []odxlink.Ref

	enabledAudiences  []*AdditionalAudience
	disabledAudiences []*AdditionalAudience

	isSupplierRaw      *bool
	isDevelopmentRaw   *bool
	isManufacturingRaw *bool
	isAftersalesRaw    *bool
	isAftermarketRaw   *bool
}

// EnabledAudiences returns the additional audiences the communication
// is enabled for.
func (a *Audience) EnabledAudiences() []*AdditionalAudience { return a.enabledAudiences }

// DisabledAudiences returns the additional audiences the communication
// is disabled for.
func (a *Audience) DisabledAudiences() []*AdditionalAudience { return a.disabledAudiences }

func audienceFlag(raw *bool) bool {
	if raw == nil {
		return true
	}
	return *raw
}

// IsSupplier reports whether the supplier audience may execute the
// communication.
func (a *Audience) IsSupplier() bool { return audienceFlag(a.isSupplierRaw) }

// IsDevelopment reports whether the development audience may execute
// the communication.
func (a *Audience) IsDevelopment() bool { return audienceFlag(a.isDevelopmentRaw) }

// IsManufacturing reports whether the manufacturing audience may
// execute the communication.
func (a *Audience) IsManufacturing() bool { return audienceFlag(a.isManufacturingRaw) }

// IsAftersales reports whether the aftersales audience may execute the
// communication.
func (a *Audience) IsAftersales() bool { return audienceFlag(a.isAftersalesRaw) }

// IsAftermarket reports whether the aftermarket audience may execute
// the communication.
func (a *Audience) IsAftermarket() bool { return audienceFlag(a.isAftermarketRaw) }

func (a *Audience) resolveLinks(r *resolver) error {
	for _, ref := range a.enabledAudienceRefs {
		audience, err := resolveLink[*AdditionalAudience](r, ref)
		if err != nil {
			return err
		}
		if audience != nil {
			a.enabledAudiences = append(a.enabledAudiences, audience)
		}
	}
	for _, ref := range a.disabledAudienceRefs {
		audience, err := resolveLink[*AdditionalAudience](r, ref)
		if err != nil {
			return err
		}
		if audience != nil {
			a.disabledAudiences = append(a.disabledAudiences, audience)
		}
	}
	return nil
}

func parseAudienceFlag(s string) *bool {
	switch s {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

func audienceFromXML(raw *xmlAudience, frags []odxlink.DocFragment) *Audience {
	if raw == nil {
		return nil
	}
	a := &Audience{
		isSupplierRaw:      parseAudienceFlag(raw.IsSupplier),
		isDevelopmentRaw:   parseAudienceFlag(raw.IsDevelopment),
		isManufacturingRaw: parseAudienceFlag(raw.IsManufacturing),
		isAftersalesRaw:    parseAudienceFlag(raw.IsAftersales),
		isAftermarketRaw:   parseAudienceFlag(raw.IsAftermarket),
	}
	for i := range raw.EnabledAudienceRefs {
		a.enabledAudienceRefs = append(a.enabledAudienceRefs, raw.EnabledAudienceRefs[i].toRef(frags))
	}
	for i := range raw.DisabledAudienceRefs {
		a.disabledAudienceRefs = append(a.disabledAudienceRefs, raw.DisabledAudienceRefs[i].toRef(frags))
	}
	return a
}

func additionalAudienceFromXML(raw *xmlAdditionalAudience, frags []odxlink.DocFragment) (*AdditionalAudience, error) {
	if raw.ID == "" {
		return nil, structuralErrorf("ADDITIONAL-AUDIENCE %q without an ID", raw.ShortName)
	}
	return &AdditionalAudience{
		IdentifiableElement: identifiableFromXML(raw.xmlNamedElement, frags),
	}, nil
}
