package mux

import (
	"errors"
	"net/http"
	"slices"
	"strings"
)

// MiddlewareFunc wraps a handler. Router.Use applies it to matched routes.
type MiddlewareFunc func(http.Handler) http.Handler

// Router matches requests against its routes in registration order.
//
//	r := mux.NewRouter()
//	r.HandleFunc("/", handler)
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler answers requests no route matches. Defaults to
	// http.NotFoundHandler.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler answers requests whose path matched a route
	// restricted to other methods. The Allow header is set before it runs.
	MethodNotAllowedHandler http.Handler

	// parent owns this router when it is a subrouter.
	parent      *Route
	routes      []*Route
	namedRoutes map[string]*Route
	middlewares []MiddlewareFunc
}

// NewRouter returns a new router instance.
func NewRouter() *Router {
	return &Router{namedRoutes: make(map[string]*Route)}
}

// NewRoute registers an empty route.
func (r *Router) NewRoute() *Route {
	route := &Route{router: r}
	r.routes = append(r.routes, route)
	return route
}

// Handle registers a route for the path template.
func (r *Router) Handle(path string, handler http.Handler) *Route {
	return r.NewRoute().Path(path).Handler(handler)
}

// HandleFunc registers a route for the path template.
func (r *Router) HandleFunc(path string, f func(http.ResponseWriter, *http.Request)) *Route {
	return r.NewRoute().Path(path).HandlerFunc(f)
}

func (r *Router) Path(tpl string) *Route {
	return r.NewRoute().Path(tpl)
}

func (r *Router) PathPrefix(tpl string) *Route {
	return r.NewRoute().PathPrefix(tpl)
}

func (r *Router) Methods(methods ...string) *Route {
	return r.NewRoute().Methods(methods...)
}

// Get returns the route registered with name, searching every router that
// shares this one's root.
func (r *Router) Get(name string) *Route {
	return r.namedRoutes[name]
}

// Use appends middleware. Middleware of a parent router runs before that of
// its subrouters; within a router the first added runs first.
func (r *Router) Use(mwf ...MiddlewareFunc) {
	r.middlewares = append(r.middlewares, mwf...)
}

// SkipRouter returned by a WalkFunc skips the subrouter of the route it was
// called for.
var SkipRouter = errors.New("skip this router")

// WalkFunc is called for every route visited by Walk. ancestors holds the
// routes owning the enclosing subrouters, outermost first.
type WalkFunc func(route *Route, router *Router, ancestors []*Route) error

// Walk visits routes in registration order, descending into subrouters
// after the route that owns them.
func (r *Router) Walk(walkFn WalkFunc) error {
	return r.walk(walkFn, nil)
}

func (r *Router) walk(walkFn WalkFunc, ancestors []*Route) error {
	for _, route := range r.routes {
		err := walkFn(route, r, ancestors)
		if errors.Is(err, SkipRouter) {
			continue
		}
		if err != nil {
			return err
		}
		if route.subrouter != nil {
			nested := append(ancestors[:len(ancestors):len(ancestors)], route)
			if err := route.subrouter.walk(walkFn, nested); err != nil {
				return err
			}
		}
	}
	return nil
}

type routeMatch struct {
	route   *Route
	handler http.Handler
	vars    map[string]string

	// allowed collects the methods of routes whose path matched but whose
	// method did not.
	allowed []string
}

func (r *Router) match(req *http.Request, path string, m *routeMatch) bool {
	for _, route := range r.routes {
		if route.err != nil {
			continue
		}
		vars, ok := route.matchPath(path)
		if !ok {
			continue
		}

		if route.subrouter != nil {
			if route.allowsMethod(req.Method) && route.subrouter.match(req, path, m) {
				m.handler = r.applyMiddleware(m.handler)
				return true
			}
			continue
		}
		if route.handler == nil {
			continue
		}
		if !route.allowsMethod(req.Method) {
			m.allowed = append(m.allowed, route.methods...)
			continue
		}

		m.route = route
		m.vars = vars
		m.handler = r.applyMiddleware(route.handler)
		return true
	}
	return false
}

func (r *Router) applyMiddleware(handler http.Handler) http.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}

// ServeHTTP dispatches to the first matching route. Unclean paths are
// redirected to their clean form.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	if clean := cleanPath(path); clean != path {
		u := *req.URL
		u.Path = clean
		http.Redirect(w, req, u.String(), http.StatusMovedPermanently)
		return
	}

	var m routeMatch
	if r.match(req, path, &m) {
		m.handler.ServeHTTP(w, withRoute(req, m.route, m.vars))
		return
	}

	if len(m.allowed) > 0 {
		w.Header().Set("Allow", strings.Join(dedupe(m.allowed), ", "))
		handler := r.MethodNotAllowedHandler
		if handler == nil {
			handler = http.HandlerFunc(methodNotAllowed)
		}
		handler.ServeHTTP(w, req)
		return
	}

	handler := r.NotFoundHandler
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	handler.ServeHTTP(w, req)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
