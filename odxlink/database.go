package odxlink

import (
	"fmt"

	"github.com/pkg/errors"
)

// DuplicateIDError is returned by Builder.Register when two entities
// claim the same ID.
type DuplicateIDError struct {
	ID ID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate ODX ID %s", e.ID)
}

// UnresolvedError is returned when a reference does not name any
// registered entity.
type UnresolvedError struct {
	Ref Ref
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("reference %s cannot be resolved", e.Ref)
}

// Builder collects the identifiable entities of a document forest and
// freezes them into a Database. Registering happens single-threaded
// while loading; the frozen Database is safe for concurrent use.
type Builder struct {
	fragments map[DocFragment]map[string]any
	ids       map[string]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		fragments: make(map[DocFragment]map[string]any),
		ids:       make(map[string]struct{}),
	}
}

// Register adds an entity under the given ID. The entity becomes
// resolvable through every document fragment of the ID. Registering two
// entities with equal IDs is an error.
func (b *Builder) Register(id ID, entity any) error {
	if id.IsZero() {
		return errors.New("registering entity without an ID")
	}
	key := id.key()
	if _, exists := b.ids[key]; exists {
		return &DuplicateIDError{ID: id}
	}
	b.ids[key] = struct{}{}

	for _, frag := range id.DocFragments {
		byLocalID := b.fragments[frag]
		if byLocalID == nil {
			byLocalID = make(map[string]any)
			b.fragments[frag] = byLocalID
		}
		byLocalID[id.LocalID] = entity
	}
	return nil
}

// Freeze turns the builder's content into an immutable Database. The
// builder must not be used afterwards.
func (b *Builder) Freeze() *Database {
	db := &Database{fragments: b.fragments}
	b.fragments = nil
	b.ids = nil
	return db
}

// Database resolves references to the entities registered while
// building it. It is immutable: reloading a document forest produces a
// new Database rather than mutating an existing one, so resolved
// references stay valid for the lifetime of the objects holding them.
type Database struct {
	fragments map[DocFragment]map[string]any
}

// Resolve returns the entity the reference points at. The reference's
// document fragments are searched most specific first. If no fragment
// contains the referenced ID, an UnresolvedError is returned.
func (d *Database) Resolve(ref Ref) (any, error) {
	if ref.IsZero() {
		return nil, errors.New("resolving empty reference")
	}
	for i := len(ref.DocFragments) - 1; i >= 0; i-- {
		if byLocalID, ok := d.fragments[ref.DocFragments[i]]; ok {
			if entity, ok := byLocalID[ref.RefID]; ok {
				return entity, nil
			}
		}
	}
	return nil, &UnresolvedError{Ref: ref}
}

// ResolveLenient is like Resolve but returns nil for dangling
// references instead of an error.
func (d *Database) ResolveLenient(ref Ref) any {
	entity, err := d.Resolve(ref)
	if err != nil {
		return nil
	}
	return entity
}

// ResolveAs resolves a reference and asserts the type of the target
// entity. A reference to an entity of a different type is an error even
// in lenient mode since it always indicates a malformed database.
func ResolveAs[T any](d *Database, ref Ref) (T, error) {
	var zero T
	entity, err := d.Resolve(ref)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, errors.Errorf("reference %s resolves to %T, expected %T", ref, entity, zero)
	}
	return typed, nil
}
