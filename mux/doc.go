// Package mux is the route registry the OpenAPI documents are generated
// from. Routes are path templates with variables, optional method
// restrictions and either a handler or a subrouter. Routes carry metadata
// and can be walked, which is how the openapi package finds them.
//
//	r := mux.NewRouter()
//	r.HandleFunc("/articles/{category}/{id:[0-9]+}", articleHandler).Methods(http.MethodGet)
//	http.Handle("/", r)
//
// Variables are read with Vars or VarGet:
//
//	id, _ := mux.VarGet(req, "id")
//
// # Pattern Macros
//
// {name:macro} expands a named pattern instead of a raw regexp:
//
//	uuid     - RFC 4122 UUID
//	int      - unsigned integer
//	float    - decimal number
//	slug     - URL-safe slug
//	alpha    - letters
//	alphanum - letters and digits
//	date     - ISO 8601 date (YYYY-MM-DD)
//	hex      - hexadecimal string
//	domain   - hostname
//
// The openapi package maps macros to parameter types, e.g. {id:uuid} becomes
// a string parameter with format uuid.
//
// # Route Metadata
//
// Metadata attaches application values to a route. Routes of a subrouter
// see the values of the route owning the subrouter:
//
//	api := r.PathPrefix("/api").Metadata(audienceKey{}, "public").Subrouter()
//	route := api.HandleFunc("/users", listUsers)
//	v, _ := route.GetMetadata(audienceKey{}) // "public"
//
// Use an unexported key type to avoid collisions between packages.
//
// # Walking Routes
//
// Walk visits every route, descending into subrouters. Returning SkipRouter
// skips the rest of the current router:
//
//	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
//	    tpl, _ := route.GetPathTemplate()
//	    methods, _ := route.GetMethods()
//	    fmt.Println(tpl, methods)
//	    return nil
//	})
//
// # Middleware
//
// Router.Use adds middleware that runs after a route matched, in the order
// added:
//
//	r.Use(loggingMiddleware)
//
// A path that matches with a different method answers 405 with an Allow
// header; unmatched paths answer 404. Paths with dot segments or repeated
// slashes are redirected to their clean form.
//
// # JSON Helpers
//
// BindJSON decodes a request body strictly and ResponseJSON writes a value
// with a status code.
package mux
