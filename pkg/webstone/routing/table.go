package routing

import (
	"strings"

	"emperror.dev/errors"
)

// Table is the ordered route table. Built once at startup, read-only after.
type Table struct {
	routes []*Route
}

// Builder assembles a Table, validating registration invariants.
type Builder struct {
	routes []*Route
	errs   []error
}

// NewBuilder creates a route table builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add registers a route. Registration order is resolution order.
func (b *Builder) Add(route *Route) *Builder {
	// Validate path shape
	if route.Path == "" || !strings.HasPrefix(route.Path, "/") {
		b.errs = append(b.errs, errors.Errorf("route path %q must start with /", route.Path))

		return b
	}

	// Validate a handler is bound
	if route.Get == nil && route.Post == nil && route.Ws == nil {
		b.errs = append(b.errs, errors.Errorf("route %s declares no handler", route.Path))

		return b
	}

	// Validate path uniqueness and prefix isolation against already
	// registered routes. The root path is exempt from the prefix rule
	// since it trivially prefixes everything.
	for _, existing := range b.routes {
		if existing.Path == route.Path {
			b.errs = append(b.errs, errors.Errorf("route path %s is already registered", route.Path))

			continue
		}

		if existing.Path == "/" || route.Path == "/" {
			continue
		}

		if strings.HasPrefix(route.Path, existing.Path+"/") ||
			strings.HasPrefix(existing.Path, route.Path+"/") {
			b.errs = append(b.errs, errors.Errorf("route paths %s and %s overlap", existing.Path, route.Path))
		}
	}

	b.routes = append(b.routes, route)

	return b
}

// Build finalizes the table. Any registration error aborts the build.
func (b *Builder) Build() (*Table, error) {
	if len(b.errs) != 0 {
		return nil, errors.Combine(b.errs...)
	}

	return &Table{routes: b.routes}, nil
}

// Routes exposes the registered routes in order.
func (t *Table) Routes() []*Route {
	return t.routes
}
