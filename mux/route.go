package mux

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Route is a path template with optional method restrictions and either a
// handler or a subrouter.
type Route struct {
	router    *Router
	handler   http.Handler
	subrouter *Router

	name     string
	methods  []string
	pattern  *pathPattern
	metadata map[any]any

	// err records the first configuration error; the route never matches.
	err error
}

// Path sets the route template. Variables are written as {name},
// {name:regexp} or {name:macro}. Inside a subrouter the template is
// appended to the template of the owning route.
func (r *Route) Path(tpl string) *Route {
	return r.setPattern(tpl, false)
}

// PathPrefix is like Path but matches any request path starting with the
// template.
func (r *Route) PathPrefix(tpl string) *Route {
	return r.setPattern(tpl, true)
}

func (r *Route) setPattern(tpl string, prefix bool) *Route {
	if r.err != nil {
		return r
	}
	if r.pattern != nil {
		r.err = fmt.Errorf("mux: route already has path %q", r.pattern.template)
		return r
	}
	if !strings.HasPrefix(tpl, "/") {
		r.err = fmt.Errorf("mux: path must start with a slash, got %q", tpl)
		return r
	}

	if parent := r.router.parent; parent != nil && parent.pattern != nil {
		tpl = strings.TrimRight(parent.pattern.template, "/") + tpl
	}

	p, err := compilePattern(tpl, prefix)
	if err != nil {
		r.err = err
		return r
	}
	r.pattern = p
	return r
}

// Methods restricts the route to the given HTTP methods.
func (r *Route) Methods(methods ...string) *Route {
	for _, m := range methods {
		r.methods = append(r.methods, strings.ToUpper(m))
	}
	return r
}

// Name sets a name used by Router.Get and by openapi operation lookups.
func (r *Route) Name(name string) *Route {
	if r.err != nil {
		return r
	}
	if r.name != "" {
		r.err = fmt.Errorf("mux: route already has name %q, can't set %q", r.name, name)
		return r
	}
	r.name = name
	r.router.namedRoutes[name] = r
	return r
}

// Handler sets the handler for the route.
func (r *Route) Handler(handler http.Handler) *Route {
	if r.err == nil {
		r.handler = handler
	}
	return r
}

// HandlerFunc sets a handler function for the route.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handler(http.HandlerFunc(f))
}

// Subrouter creates a router whose routes are tried when this route
// matches. Their templates extend this route's template and they see this
// route's metadata.
func (r *Route) Subrouter() *Router {
	sub := &Router{
		parent:      r,
		namedRoutes: r.router.namedRoutes,
	}
	r.subrouter = sub
	return sub
}

// Metadata stores an application value on the route. Use an unexported key
// type so packages do not collide.
func (r *Route) Metadata(key, value any) *Route {
	if r.metadata == nil {
		r.metadata = make(map[any]any)
	}
	r.metadata[key] = value
	return r
}

// GetMetadata returns the value stored under key on the route or, failing
// that, on the nearest route owning one of its enclosing subrouters.
func (r *Route) GetMetadata(key any) (any, bool) {
	for route := r; route != nil; route = route.router.parent {
		if v, ok := route.metadata[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (r *Route) GetHandler() http.Handler {
	return r.handler
}

func (r *Route) GetName() string {
	return r.name
}

// GetError returns the first error met while configuring the route.
func (r *Route) GetError() error {
	return r.err
}

// GetPathTemplate returns the full template, including subrouter prefixes.
func (r *Route) GetPathTemplate() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.pattern == nil {
		return "", errors.New("mux: route doesn't have a path")
	}
	return r.pattern.template, nil
}

// GetMethods returns the methods the route is restricted to.
func (r *Route) GetMethods() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.methods) == 0 {
		return nil, errors.New("mux: route doesn't have methods")
	}
	return slices.Clone(r.methods), nil
}

// matchPath matches the request path only. A route without a path matches
// every path.
func (r *Route) matchPath(path string) (map[string]string, bool) {
	if r.pattern == nil {
		return map[string]string{}, true
	}
	return r.pattern.match(path)
}

func (r *Route) allowsMethod(method string) bool {
	return len(r.methods) == 0 || slices.Contains(r.methods, method)
}
