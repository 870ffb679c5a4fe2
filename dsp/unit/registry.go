package unit

import (
	"errors"
	"fmt"
	"sort"
)

// Factory builds one Unit instance.
type Factory func(ctx Context, p Params) (Unit, error)

// Registry maps unit type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	// ErrDuplicateType is returned when a type name is registered twice.
	ErrDuplicateType = errors.New("unit: duplicate unit type")
	// ErrEmptyType is returned for an empty type name.
	ErrEmptyType = errors.New("unit: empty unit type")
	// ErrNilFactory is returned when registering a nil factory.
	ErrNilFactory = errors.New("unit: nil factory")
	// ErrUnknownType is returned when a patch references an unregistered type.
	ErrUnknownType = errors.New("unit: unknown unit type")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given unit type.
func (r *Registry) Register(unitType string, factory Factory) error {
	if unitType == "" {
		return ErrEmptyType
	}

	if factory == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, unitType)
	}

	if _, exists := r.factories[unitType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateType, unitType)
	}

	r.factories[unitType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(unitType string, factory Factory) {
	if err := r.Register(unitType, factory); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for the given unit type, or nil.
func (r *Registry) Lookup(unitType string) Factory {
	return r.factories[unitType]
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}

	sort.Strings(types)

	return types
}

// New builds a unit of the type named in p.
func (r *Registry) New(ctx Context, p Params) (Unit, error) {
	factory := r.Lookup(p.Type)
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}

	u, err := factory(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("unit: create %q (%s): %w", p.ID, p.Type, err)
	}

	return u, nil
}
