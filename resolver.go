package odx

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/gavinwade12/odx/odxlink"
)

// resolver threads the link database, the strictness mode and the
// warning sink through the reference resolution passes.
type resolver struct {
	links    *odxlink.Database
	strict   bool
	logger   *zerolog.Logger
	warnings []string
}

func (r *resolver) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	r.logger.Warn().Msg(msg)
}

// resolveLink resolves a reference to an entity of type T. In lenient
// mode a dangling reference is recorded as a warning and the zero value
// is returned; the caller must treat it as absent. A reference to an
// entity of the wrong type is an error in both modes.
func resolveLink[T any](r *resolver, ref odxlink.Ref) (T, error) {
	entity, err := odxlink.ResolveAs[T](r.links, ref)
	if err != nil {
		var zero T
		var unresolved *odxlink.UnresolvedError
		if errors.As(err, &unresolved) && !r.strict {
			r.warnf("%s", err)
			return zero, nil
		}
		return zero, err
	}
	return entity, nil
}

// unresolvedSNRef handles a short name reference without a target. In
// strict mode it returns an error, otherwise it records a warning and
// returns nil.
func (r *resolver) unresolvedSNRef(kind, name string, layer *DiagLayer) error {
	msg := fmt.Sprintf("cannot resolve %s short name reference %q in layer %q", kind, name, layer.Name())
	if !r.strict {
		r.warnf("%s", msg)
		return nil
	}
	return errors.New(msg)
}
