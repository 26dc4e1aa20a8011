package odx

import (
	"strings"

	"github.com/gavinwade12/odx/odxlink"
)

// The xml* types mirror the subset of the ODX document schema the
// toolkit understands. They only exist during loading; the model types
// are built from them and hold no XML details.

type xmlDescription struct {
	Raw string `xml:",innerxml"`
}

// text returns the description with the markup stripped and the
// whitespace collapsed.
func (d xmlDescription) text() string {
	var sb strings.Builder
	inTag := false
	for _, r := range d.Raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

type xmlNamedElement struct {
	ID          string         `xml:"ID,attr"`
	ShortName   string         `xml:"SHORT-NAME"`
	LongName    string         `xml:"LONG-NAME"`
	Description xmlDescription `xml:"DESC"`
}

type xmlRef struct {
	IDRef   string `xml:"ID-REF,attr"`
	DocRef  string `xml:"DOCREF,attr"`
	DocType string `xml:"DOCTYPE,attr"`
}

// toRef builds the link reference for a reference element declared in a
// document with the given fragments. The DOCREF attribute redirects the
// lookup into another document.
func (r *xmlRef) toRef(frags []odxlink.DocFragment) odxlink.Ref {
	if r.DocRef != "" {
		return odxlink.NewRef(r.IDRef, odxlink.NewDocFragment(r.DocRef, odxlink.DocType(r.DocType)))
	}
	return odxlink.NewRef(r.IDRef, frags...)
}

type xmlSNRef struct {
	ShortName string `xml:"SHORT-NAME,attr"`
}

type xmlDiagCodedType struct {
	XSIType            string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	BaseDataType       string `xml:"BASE-DATA-TYPE,attr"`
	IsHighLowByteOrder string `xml:"IS-HIGHLOW-BYTE-ORDER,attr"`
	Condensed          bool   `xml:"CONDENSED,attr"`
	Termination        string `xml:"TERMINATION,attr"`

	BitLength    *uint   `xml:"BIT-LENGTH"`
	BitMask      string  `xml:"BIT-MASK"`
	MinLength    *uint   `xml:"MIN-LENGTH"`
	MaxLength    *uint   `xml:"MAX-LENGTH"`
	LengthKeyRef *xmlRef `xml:"LENGTH-KEY-REF"`
}

// highLowByteOrder returns the byte order flag, defaulting to most
// significant byte first.
func (t *xmlDiagCodedType) highLowByteOrder() bool {
	switch t.IsHighLowByteOrder {
	case "false", "0":
		return false
	}
	return true
}

type xmlPhysicalType struct {
	BaseDataType string `xml:"BASE-DATA-TYPE,attr"`
	DisplayRadix string `xml:"DISPLAY-RADIX,attr"`
	Precision    *uint  `xml:"PRECISION"`
}

type xmlCompuMethod struct {
	Category       string                  `xml:"CATEGORY"`
	InternalToPhys *xmlCompuInternalToPhys `xml:"COMPU-INTERNAL-TO-PHYS"`
}

type xmlCompuInternalToPhys struct {
	Scales []xmlCompuScale `xml:"COMPU-SCALES>COMPU-SCALE"`
}

type xmlCompuScale struct {
	LowerLimit     *xmlLimit          `xml:"LOWER-LIMIT"`
	UpperLimit     *xmlLimit          `xml:"UPPER-LIMIT"`
	InverseValue   *float64           `xml:"COMPU-INVERSE-VALUE>V"`
	CompuConst     *xmlCompuConst     `xml:"COMPU-CONST"`
	RationalCoeffs *xmlRationalCoeffs `xml:"COMPU-RATIONAL-COEFFS"`
}

type xmlCompuConst struct {
	VT string `xml:"VT"`
}

type xmlRationalCoeffs struct {
	Numerators   []float64 `xml:"COMPU-NUMERATOR>V"`
	Denominators []float64 `xml:"COMPU-DENOMINATOR>V"`
}

type xmlLimit struct {
	Value        string `xml:",chardata"`
	IntervalType string `xml:"INTERVAL-TYPE,attr"`
}

type xmlDOP struct {
	xmlNamedElement

	DiagCodedType *xmlDiagCodedType `xml:"DIAG-CODED-TYPE"`
	PhysicalType  *xmlPhysicalType  `xml:"PHYSICAL-TYPE"`
	CompuMethod   *xmlCompuMethod   `xml:"COMPU-METHOD"`
	UnitRef       *xmlRef           `xml:"UNIT-REF"`
}

type xmlUnitSpec struct {
	Units []xmlUnit `xml:"UNITS>UNIT"`
}

type xmlUnit struct {
	xmlNamedElement

	DisplayName    string   `xml:"DISPLAY-NAME"`
	FactorSIToUnit *float64 `xml:"FACTOR-SI-TO-UNIT"`
	OffsetSIToUnit *float64 `xml:"OFFSET-SI-TO-UNIT"`
}

type xmlParameter struct {
	xmlNamedElement

	XSIType  string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	Semantic string `xml:"SEMANTIC,attr"`

	BytePosition *uint `xml:"BYTE-POSITION"`
	BitPosition  *uint `xml:"BIT-POSITION"`

	DiagCodedType        *xmlDiagCodedType `xml:"DIAG-CODED-TYPE"`
	CodedValue           string            `xml:"CODED-VALUE"`
	CodedValues          []string          `xml:"CODED-VALUES>CODED-VALUE"`
	PhysConstantValue    *string           `xml:"PHYS-CONSTANT-VALUE"`
	PhysicalDefaultValue string            `xml:"PHYSICAL-DEFAULT-VALUE"`
	BitLength            *uint             `xml:"BIT-LENGTH"`
	RequestBytePos       *uint             `xml:"REQUEST-BYTE-POS"`
	ByteLength           *uint             `xml:"BYTE-LENGTH"`

	DopRef        *xmlRef   `xml:"DOP-REF"`
	DopSNRef      *xmlSNRef `xml:"DOP-SNREF"`
	TableRef      *xmlRef   `xml:"TABLE-REF"`
	TableSNRef    *xmlSNRef `xml:"TABLE-SNREF"`
	TableKeyRef   *xmlRef   `xml:"TABLE-KEY-REF"`
	TableKeySNRef *xmlSNRef `xml:"TABLE-KEY-SNREF"`
}

type xmlStructure struct {
	xmlNamedElement

	ByteSize *uint          `xml:"BYTE-SIZE"`
	Params   []xmlParameter `xml:"PARAMS>PARAM"`
}

type xmlTable struct {
	xmlNamedElement

	Semantic  string        `xml:"SEMANTIC,attr"`
	KeyDopRef *xmlRef       `xml:"KEY-DOP-REF"`
	Rows      []xmlTableRow `xml:"TABLE-ROW"`
}

type xmlTableRow struct {
	xmlNamedElement

	Key          string  `xml:"KEY"`
	StructureRef *xmlRef `xml:"STRUCTURE-REF"`
	DopRef       *xmlRef `xml:"DOP-REF"`
}

type xmlAudience struct {
	IsSupplier      string `xml:"IS-SUPPLIER,attr"`
	IsDevelopment   string `xml:"IS-DEVELOPMENT,attr"`
	IsManufacturing string `xml:"IS-MANUFACTURING,attr"`
	IsAftersales    string `xml:"IS-AFTERSALES,attr"`
	IsAftermarket   string `xml:"IS-AFTERMARKET,attr"`

	EnabledAudienceRefs  []xmlRef `xml:"ENABLED-AUDIENCE-REFS>ENABLED-AUDIENCE-REF"`
	DisabledAudienceRefs []xmlRef `xml:"DISABLED-AUDIENCE-REFS>DISABLED-AUDIENCE-REF"`
}

type xmlDiagService struct {
	xmlNamedElement

	Semantic string `xml:"SEMANTIC,attr"`

	Audience        *xmlAudience `xml:"AUDIENCE"`
	FunctClassRefs  []xmlRef     `xml:"FUNCT-CLASS-REFS>FUNCT-CLASS-REF"`
	RequestRef      *xmlRef      `xml:"REQUEST-REF"`
	PosResponseRefs []xmlRef     `xml:"POS-RESPONSE-REFS>POS-RESPONSE-REF"`
	NegResponseRefs []xmlRef     `xml:"NEG-RESPONSE-REFS>NEG-RESPONSE-REF"`
}

type xmlProgCode struct {
	CodeFile   string `xml:"CODE-FILE"`
	Syntax     string `xml:"SYNTAX"`
	Revision   string `xml:"REVISION"`
	Entrypoint string `xml:"ENTRYPOINT"`
}

type xmlJobParam struct {
	xmlNamedElement

	Semantic             string  `xml:"SEMANTIC,attr"`
	PhysicalDefaultValue string  `xml:"PHYSICAL-DEFAULT-VALUE"`
	DopBaseRef           *xmlRef `xml:"DOP-BASE-REF"`
}

type xmlSingleEcuJob struct {
	xmlNamedElement

	Semantic string `xml:"SEMANTIC,attr"`

	Audience       *xmlAudience  `xml:"AUDIENCE"`
	FunctClassRefs []xmlRef      `xml:"FUNCT-CLASS-REFS>FUNCT-CLASS-REF"`
	ProgCodes      []xmlProgCode `xml:"PROG-CODES>PROG-CODE"`
	InputParams    []xmlJobParam `xml:"INPUT-PARAMS>INPUT-PARAM"`
	OutputParams   []xmlJobParam `xml:"OUTPUT-PARAMS>OUTPUT-PARAM"`
	NegOutputParam []xmlJobParam `xml:"NEG-OUTPUT-PARAMS>NEG-OUTPUT-PARAM"`
}

type xmlFunctionalClass struct {
	xmlNamedElement
}

type xmlAdditionalAudience struct {
	xmlNamedElement
}

type xmlState struct {
	xmlNamedElement
}

type xmlStateTransition struct {
	xmlNamedElement

	SourceSNRef *xmlSNRef `xml:"SOURCE-SNREF"`
	TargetSNRef *xmlSNRef `xml:"TARGET-SNREF"`
}

type xmlStateChart struct {
	xmlNamedElement

	Semantic         string               `xml:"SEMANTIC"`
	StartStateSNRef  *xmlSNRef            `xml:"START-STATE-SNREF"`
	States           []xmlState           `xml:"STATES>STATE"`
	StateTransitions []xmlStateTransition `xml:"STATE-TRANSITIONS>STATE-TRANSITION"`
}

type xmlNotInheritedDiagComm struct {
	DiagCommSNRef *xmlSNRef `xml:"DIAG-COMM-SNREF"`
}

type xmlNotInheritedDOP struct {
	DopBaseSNRef *xmlSNRef `xml:"DOP-BASE-SNREF"`
}

type xmlParentRef struct {
	XSIType string `xml:"http://www.w3.org/2001/XMLSchema-instance type,attr"`
	IDRef   string `xml:"ID-REF,attr"`
	DocRef  string `xml:"DOCREF,attr"`
	DocType string `xml:"DOCTYPE,attr"`

	NotInheritedDiagComms []xmlNotInheritedDiagComm `xml:"NOT-INHERITED-DIAG-COMMS>NOT-INHERITED-DIAG-COMM"`
	NotInheritedDOPs      []xmlNotInheritedDOP      `xml:"NOT-INHERITED-DOPS>NOT-INHERITED-DOP"`
}

type xmlDiagComms struct {
	Services []xmlDiagService  `xml:"DIAG-SERVICE"`
	Jobs     []xmlSingleEcuJob `xml:"SINGLE-ECU-JOB"`
}

type xmlDiagDataDictionarySpec struct {
	Dops       []xmlDOP       `xml:"DATA-OBJECT-PROPS>DATA-OBJECT-PROP"`
	Structures []xmlStructure `xml:"STRUCTURES>STRUCTURE"`
	Tables     []xmlTable     `xml:"TABLES>TABLE"`
	UnitSpec   *xmlUnitSpec   `xml:"UNIT-SPEC"`
}

type xmlDiagLayer struct {
	xmlNamedElement

	FunctClasses           []xmlFunctionalClass       `xml:"FUNCT-CLASSS>FUNCT-CLASS"`
	DiagDataDictionarySpec *xmlDiagDataDictionarySpec `xml:"DIAG-DATA-DICTIONARY-SPEC"`
	DiagComms              *xmlDiagComms              `xml:"DIAG-COMMS"`
	Requests               []xmlStructure             `xml:"REQUESTS>REQUEST"`
	PosResponses           []xmlStructure             `xml:"POS-RESPONSES>POS-RESPONSE"`
	NegResponses           []xmlStructure             `xml:"NEG-RESPONSES>NEG-RESPONSE"`
	GlobalNegResponses     []xmlStructure             `xml:"GLOBAL-NEG-RESPONSES>GLOBAL-NEG-RESPONSE"`
	StateCharts            []xmlStateChart            `xml:"STATE-CHARTS>STATE-CHART"`
	AdditionalAudiences    []xmlAdditionalAudience    `xml:"ADDITIONAL-AUDIENCES>ADDITIONAL-AUDIENCE"`
	ParentRefs             []xmlParentRef             `xml:"PARENT-REFS>PARENT-REF"`

	// Protocol layers only.
	ComparamSpecRef *xmlRef   `xml:"COMPARAM-SPEC-REF"`
	ProtStackSNRef  *xmlSNRef `xml:"PROT-STACK-SNREF"`
}

type xmlDiagLayerContainer struct {
	xmlNamedElement

	Protocols        []xmlDiagLayer `xml:"PROTOCOLS>PROTOCOL"`
	FunctionalGroups []xmlDiagLayer `xml:"FUNCTIONAL-GROUPS>FUNCTIONAL-GROUP"`
	EcuSharedDatas   []xmlDiagLayer `xml:"ECU-SHARED-DATAS>ECU-SHARED-DATA"`
	BaseVariants     []xmlDiagLayer `xml:"BASE-VARIANTS>BASE-VARIANT"`
	EcuVariants      []xmlDiagLayer `xml:"ECU-VARIANTS>ECU-VARIANT"`
}

type xmlComparam struct {
	xmlNamedElement

	ParamClass string `xml:"PARAM-CLASS,attr"`
	CpType     string `xml:"CPTYPE,attr"`
	CpUsage    string `xml:"CPUSAGE,attr"`

	PhysicalDefaultValue string  `xml:"PHYSICAL-DEFAULT-VALUE"`
	DopRef               *xmlRef `xml:"DATA-OBJECT-PROP-REF"`
}

type xmlProtStack struct {
	xmlNamedElement

	PduProtocolType    string   `xml:"PDU-PROTOCOL-TYPE"`
	PhysicalLinkType   string   `xml:"PHYSICAL-LINK-TYPE"`
	ComparamSubsetRefs []xmlRef `xml:"COMPARAM-SUBSET-REFS>COMPARAM-SUBSET-REF"`
}

type xmlComparamSpec struct {
	xmlNamedElement

	ProtStacks []xmlProtStack `xml:"PROT-STACKS>PROT-STACK"`

	// Comparams is the pre-2.2 container shape where the spec document
	// holds the parameters itself.
	Comparams []xmlComparam `xml:"COMPARAMS>COMPARAM"`
}

type xmlComparamSubset struct {
	xmlNamedElement

	Category        string        `xml:"CATEGORY,attr"`
	Comparams       []xmlComparam `xml:"COMPARAMS>COMPARAM"`
	DataObjectProps []xmlDOP      `xml:"DATA-OBJECT-PROPS>DATA-OBJECT-PROP"`
	UnitSpec        *xmlUnitSpec  `xml:"UNIT-SPEC"`
}

// xmlODX is the root element of every ODX document.
type xmlODX struct {
	ModelVersion string `xml:"MODEL-VERSION,attr"`

	DiagLayerContainer *xmlDiagLayerContainer `xml:"DIAG-LAYER-CONTAINER"`
	ComparamSpec       *xmlComparamSpec       `xml:"COMPARAM-SPEC"`
	ComparamSubset     *xmlComparamSubset     `xml:"COMPARAM-SUBSET"`
}
