package odx

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gavinwade12/odx/odxlink"
)

// modelVersion is the MODEL-VERSION attribute of an ODX document,
// parsed into its dotted integer components.
type modelVersion struct {
	major, minor int
}

func parseModelVersion(s string) (modelVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return modelVersion{}, structuralErrorf("malformed model version %q", s)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return modelVersion{}, structuralErrorf("malformed model version %q", s)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return modelVersion{}, structuralErrorf("malformed model version %q", s)
	}
	return modelVersion{major: major, minor: minor}, nil
}

// splitComparams reports whether the version uses the split
// communication parameter shape, i.e. subset documents referenced by
// protocol stacks instead of parameters inlined into the spec.
func (v modelVersion) splitComparams() bool {
	return v.major > 2 || (v.major == 2 && v.minor >= 2)
}

// Document is one ODX document to load, already read into memory.
type Document struct {
	// Name is the file name the document was read from. It only serves
	// error messages; the fragments used for resolution come from the
	// document content.
	Name string

	Data []byte
}

// LoadOptions configures NewDatabase. Exactly one of PDXFile, ODXFiles
// and Documents must be set.
type LoadOptions struct {
	// PDXFile names a PDX container, a zip archive holding ODX
	// documents. Members are loaded in lexical name order; every member
	// whose extension starts with ".odx" is parsed.
	PDXFile string

	// ODXFiles names individual ODX documents on disk.
	ODXFiles []string

	// Documents supplies in-memory documents.
	Documents []Document

	// Strict makes dangling references a load error. Without it they
	// are logged and recorded as warnings, and the referencing entity
	// treats the target as absent.
	Strict bool

	// Logger receives load warnings. The global zerolog logger is used
	// when nil.
	Logger *zerolog.Logger
}

// Database is a fully resolved diagnostic database. It is immutable
// after construction and safe for concurrent readers; to pick up
// changed documents, construct a new Database and swap the pointer.
type Database struct {
	links *odxlink.Database

	protocols        NamedItemList[*DiagLayer]
	functionalGroups NamedItemList[*DiagLayer]
	baseVariants     NamedItemList[*DiagLayer]
	ecuVariants      NamedItemList[*DiagLayer]
	ecuSharedDatas   NamedItemList[*DiagLayer]

	comparamSpecs   NamedItemList[*ComparamSpec]
	comparamSubsets NamedItemList[*ComparamSubset]

	warnings []string
}

// Protocols returns the protocol layers of the database.
func (db *Database) Protocols() NamedItemList[*DiagLayer] { return db.protocols }

// FunctionalGroups returns the functional group layers.
func (db *Database) FunctionalGroups() NamedItemList[*DiagLayer] { return db.functionalGroups }

// BaseVariants returns the base variant layers.
func (db *Database) BaseVariants() NamedItemList[*DiagLayer] { return db.baseVariants }

// EcuVariants returns the ECU variant layers.
func (db *Database) EcuVariants() NamedItemList[*DiagLayer] { return db.ecuVariants }

// EcuSharedDatas returns the shared data layers.
func (db *Database) EcuSharedDatas() NamedItemList[*DiagLayer] { return db.ecuSharedDatas }

// ComparamSpecs returns the communication parameter specs.
func (db *Database) ComparamSpecs() NamedItemList[*ComparamSpec] { return db.comparamSpecs }

// ComparamSubsets returns the communication parameter subsets.
func (db *Database) ComparamSubsets() NamedItemList[*ComparamSubset] { return db.comparamSubsets }

// DiagLayers returns all diagnostic layers, protocols first, variants
// last.
func (db *Database) DiagLayers() []*DiagLayer {
	var layers []*DiagLayer
	for _, list := range []NamedItemList[*DiagLayer]{
		db.protocols, db.functionalGroups, db.ecuSharedDatas, db.baseVariants, db.ecuVariants,
	} {
		layers = append(layers, list.Items()...)
	}
	return layers
}

// LayerByName returns the layer with the given short name, searching
// all layer kinds.
func (db *Database) LayerByName(name string) (*DiagLayer, bool) {
	for _, layer := range db.DiagLayers() {
		if layer.ShortName == name {
			return layer, true
		}
	}
	return nil, false
}

// Variants returns the base and ECU variant layers, the layers a tester
// typically talks to.
func (db *Database) Variants() []*DiagLayer {
	var layers []*DiagLayer
	layers = append(layers, db.baseVariants.Items()...)
	layers = append(layers, db.ecuVariants.Items()...)
	return layers
}

// Resolve looks up an entity by reference.
func (db *Database) Resolve(ref odxlink.Ref) (any, error) {
	return db.links.Resolve(ref)
}

// Warnings returns the non-fatal problems encountered while loading,
// e.g. dangling references in lenient mode.
func (db *Database) Warnings() []string { return db.warnings }

// NewDatabase loads and resolves a diagnostic database. The load is all
// or nothing: any structural error, and in strict mode any dangling
// reference, fails the whole load and no database is returned.
func NewDatabase(opts LoadOptions) (*Database, error) {
	docs, err := readDocuments(opts)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("no documents to load")
	}

	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger
	}

	db := &Database{}
	for _, doc := range docs {
		if err := db.addDocument(doc); err != nil {
			return nil, errors.Wrapf(err, "loading %s", doc.Name)
		}
	}

	builder := odxlink.NewBuilder()
	for _, layer := range db.DiagLayers() {
		if err := layer.buildLinks(builder); err != nil {
			return nil, err
		}
	}
	for _, spec := range db.comparamSpecs.Items() {
		if err := spec.buildLinks(builder); err != nil {
			return nil, err
		}
	}
	for _, subset := range db.comparamSubsets.Items() {
		if err := subset.buildLinks(builder); err != nil {
			return nil, err
		}
	}
	db.links = builder.Freeze()

	r := &resolver{links: db.links, strict: opts.Strict, logger: logger}
	for _, layer := range db.DiagLayers() {
		if err := layer.resolveLinks(r); err != nil {
			return nil, err
		}
	}
	for _, spec := range db.comparamSpecs.Items() {
		if err := spec.resolveLinks(r); err != nil {
			return nil, err
		}
	}
	for _, subset := range db.comparamSubsets.Items() {
		if err := subset.resolveLinks(r); err != nil {
			return nil, err
		}
	}

	// Inheritance runs before short name resolution so that names
	// inherited from parent layers can be referenced.
	for _, layer := range db.DiagLayers() {
		if err := layer.finalize(nil); err != nil {
			return nil, err
		}
	}
	for _, layer := range db.DiagLayers() {
		if err := layer.resolveSNRefs(r); err != nil {
			return nil, err
		}
	}

	for _, layer := range db.DiagLayers() {
		for _, structure := range layer.Structures().Items() {
			if err := structure.checkNesting(nil); err != nil {
				return nil, err
			}
		}
		for _, request := range layer.requests {
			if err := request.checkNesting(nil); err != nil {
				return nil, err
			}
		}
		for _, response := range layer.responses {
			if err := response.checkNesting(nil); err != nil {
				return nil, err
			}
		}
	}

	db.warnings = r.warnings
	return db, nil
}

func (db *Database) addDocument(doc Document) error {
	var root xmlODX
	if err := xml.Unmarshal(doc.Data, &root); err != nil {
		return structuralErrorf("malformed XML: %s", err)
	}
	version, err := parseModelVersion(root.ModelVersion)
	if err != nil {
		return err
	}

	switch {
	case root.DiagLayerContainer != nil:
		return db.addLayerContainer(root.DiagLayerContainer)
	case root.ComparamSpec != nil:
		frag := odxlink.NewDocFragment(root.ComparamSpec.ShortName, odxlink.DocTypeComparamSpec)
		spec, err := comparamSpecFromXML(root.ComparamSpec, []odxlink.DocFragment{frag}, version.splitComparams())
		if err != nil {
			return err
		}
		db.comparamSpecs.append(spec)
		return nil
	case root.ComparamSubset != nil:
		if !version.splitComparams() {
			return structuralErrorf("communication parameter subset document with model version %s, subsets exist from 2.2 on", root.ModelVersion)
		}
		frag := odxlink.NewDocFragment(root.ComparamSubset.ShortName, odxlink.DocTypeComparamSubset)
		subset, err := comparamSubsetFromXML(root.ComparamSubset, []odxlink.DocFragment{frag})
		if err != nil {
			return err
		}
		db.comparamSubsets.append(subset)
		return nil
	}
	return structuralErrorf("document holds neither a layer container nor communication parameters")
}

func (db *Database) addLayerContainer(raw *xmlDiagLayerContainer) error {
	frags := []odxlink.DocFragment{odxlink.NewDocFragment(raw.ShortName, odxlink.DocTypeContainer)}

	add := func(rawLayers []xmlDiagLayer, layerType DiagLayerType, list *NamedItemList[*DiagLayer]) error {
		for i := range rawLayers {
			layer, err := diagLayerFromXML(&rawLayers[i], layerType, frags)
			if err != nil {
				return err
			}
			list.append(layer)
		}
		return nil
	}

	if err := add(raw.Protocols, DiagLayerTypeProtocol, &db.protocols); err != nil {
		return err
	}
	if err := add(raw.FunctionalGroups, DiagLayerTypeFunctionalGroup, &db.functionalGroups); err != nil {
		return err
	}
	if err := add(raw.EcuSharedDatas, DiagLayerTypeEcuSharedData, &db.ecuSharedDatas); err != nil {
		return err
	}
	if err := add(raw.BaseVariants, DiagLayerTypeBaseVariant, &db.baseVariants); err != nil {
		return err
	}
	if err := add(raw.EcuVariants, DiagLayerTypeEcuVariant, &db.ecuVariants); err != nil {
		return err
	}
	return nil
}

func readDocuments(opts LoadOptions) ([]Document, error) {
	set := 0
	if opts.PDXFile != "" {
		set++
	}
	if len(opts.ODXFiles) > 0 {
		set++
	}
	if len(opts.Documents) > 0 {
		set++
	}
	if set != 1 {
		return nil, errors.New("exactly one of PDXFile, ODXFiles and Documents must be set")
	}

	switch {
	case opts.PDXFile != "":
		return readPDX(opts.PDXFile)
	case len(opts.ODXFiles) > 0:
		var docs []Document
		for _, name := range opts.ODXFiles {
			data, err := os.ReadFile(name)
			if err != nil {
				return nil, errors.Wrap(err, "reading document")
			}
			docs = append(docs, Document{Name: name, Data: data})
		}
		return docs, nil
	default:
		return opts.Documents, nil
	}
}

// isODXName reports whether a container member holds an ODX document.
// The extension varies by content kind (.odx, .odx-d, .odx-c, ...), so
// any extension starting with ".odx" qualifies.
func isODXName(name string) bool {
	return strings.HasPrefix(strings.ToLower(path.Ext(name)), ".odx")
}

func readPDX(name string) ([]Document, error) {
	archive, err := zip.OpenReader(name)
	if err != nil {
		return nil, errors.Wrap(err, "opening PDX container")
	}
	defer archive.Close()

	archive.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	members := make([]*zip.File, 0, len(archive.File))
	for _, f := range archive.File {
		if isODXName(f.Name) {
			members = append(members, f)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	var docs []Document
	for _, f := range members {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "opening container member %s", f.Name)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading container member %s", f.Name)
		}
		docs = append(docs, Document{Name: f.Name, Data: data})
	}
	return docs, nil
}
