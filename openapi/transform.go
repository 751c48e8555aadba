package openapi

import (
	"errors"

	"github.com/vitalvas/oasdocs/mux"
)

// ErrDerivedExists is returned by Spec.Derive when the name has already been
// claimed on the root spec.
var ErrDerivedExists = errors.New("openapi: derived spec already exists")

// RouteSchema is the part of a route's operation that a TransformFunc can
// inspect and rewrite before the operation is added to a document.
// Values are copies; changing them never touches the OperationBuilder.
type RouteSchema struct {
	// Hide drops the route from the document being built.
	Hide bool

	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
}

// HasTag reports whether the schema carries the given tag.
func (rs RouteSchema) HasTag(tag string) bool {
	for _, t := range rs.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// TransformFunc is called once per documented route while a document is
// built. It receives the route, its schema and its path template and returns
// the schema and path to use. A returned path is converted to OpenAPI form
// the same way route templates are, so "/users/{id:uuid}" stays valid.
//
// Routes whose operation was marked with Hide are dropped before the
// transform runs. Webhooks are not routes and never pass through it.
type TransformFunc func(route *mux.Route, schema RouteSchema, url string) (RouteSchema, string)

// ChainTransforms composes transforms left to right: the schema and URL
// returned by one are the input of the next. Nil entries are skipped.
func ChainTransforms(fns ...TransformFunc) TransformFunc {
	return func(route *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			schema, url = fn(route, schema, url)
		}
		return schema, url
	}
}

// applyTo copies the rewritable fields onto a built operation.
func (rs RouteSchema) applyTo(op *Operation) {
	op.OperationID = rs.OperationID
	op.Summary = rs.Summary
	op.Description = rs.Description
	op.Tags = rs.Tags
	op.Deprecated = rs.Deprecated
}
