package multidoc

import (
	"slices"
	"strings"

	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
)

// RouteInfo describes a documented route to a MatchFunc.
type RouteInfo struct {
	Route *mux.Route

	// Schema is the route's schema after the document's own transform.
	Schema openapi.RouteSchema
}

// MatchFunc decides whether a route belongs to a document. url is the route
// path template after the document's transform, e.g. "/users/{id:uuid}".
type MatchFunc func(route RouteInfo, url string) bool

type documentRefKey struct{}

// Assign associates route with the documents named by refs. It replaces any
// earlier assignment. Assigning the route that owns a subrouter covers every
// route of that subrouter without an assignment of its own:
//
//	admin := multidoc.Assign(r.PathPrefix("/admin"), "internal").Subrouter()
//	admin.HandleFunc("/users", listUsers) // documented in "internal"
//
// Calling Assign without refs leaves the route to the registry's default ref.
func Assign(route *mux.Route, refs ...string) *mux.Route {
	return route.Metadata(documentRefKey{}, slices.Clone(refs))
}

// RouteRefs returns the document refs assigned to route or to its nearest
// assigned ancestor.
func RouteRefs(route *mux.Route) []string {
	if route == nil {
		return nil
	}
	v, ok := route.GetMetadata(documentRefKey{})
	if !ok {
		return nil
	}
	refs, _ := v.([]string)
	return slices.Clone(refs)
}

// classifier decides route membership for one document. It holds only
// values fixed at registration, so it is safe to call concurrently.
type classifier struct {
	ref        string
	selector   Selector
	prefixes   []string
	match      MatchFunc
	defaultRef string
}

func newClassifier(d Document, sel Selector, defaultRef string) classifier {
	return classifier{
		ref:        d.Ref,
		selector:   sel,
		prefixes:   slices.Clone(d.URLPrefixes),
		match:      d.Match,
		defaultRef: defaultRef,
	}
}

// includes reports whether the route belongs to the document. A schema that
// is already hidden stays hidden.
func (c classifier) includes(route *mux.Route, schema openapi.RouteSchema, url string) bool {
	if schema.Hide {
		return false
	}

	switch c.selector {
	case SelectByPrefix:
		for _, p := range c.prefixes {
			if strings.HasPrefix(url, p) {
				return true
			}
		}
		return false

	case SelectCustom:
		return c.match(RouteInfo{Route: route, Schema: schema}, url)

	default:
		refs := RouteRefs(route)
		if len(refs) == 0 {
			return c.defaultRef != "" && c.defaultRef == c.ref
		}
		return slices.Contains(refs, c.ref)
	}
}

// transform is the classifier as an openapi.TransformFunc. It only ever
// sets Hide.
func (c classifier) transform(route *mux.Route, schema openapi.RouteSchema, url string) (openapi.RouteSchema, string) {
	schema.Hide = !c.includes(route, schema, url)
	return schema, url
}
