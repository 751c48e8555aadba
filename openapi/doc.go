// Package openapi builds OpenAPI 3.1 documents from annotated mux routes.
// Schemas follow JSON Schema 2020-12 and are generated from Go types by
// reflection.
//
// See: https://spec.openapis.org/oas/v3.1.0
//
// # Annotating routes
//
// An operation is attached to a route either directly or by route name:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Shop", Version: "1.0.0"})
//
//	spec.Route(r.HandleFunc("/orders", createOrder).Methods(http.MethodPost)).
//	    Summary("Create an order").
//	    Tags("orders").
//	    Request(CreateOrder{}).
//	    Response(http.StatusCreated, Order{})
//
//	r.HandleFunc("/orders", listOrders).Methods(http.MethodGet).Name("listOrders")
//	spec.Op("listOrders").Response(http.StatusOK, []Order{})
//
// Routes without an operation are not documented. Hide removes an annotated
// route from every document.
//
// # Several documents
//
// Derive returns a spec that writes to the same catalog of operations,
// webhooks, tags and security schemes but builds its own document, with its
// own info, servers, security and transform:
//
//	public, err := spec.Derive("public", openapi.Info{Title: "Public Shop", Version: "1.0.0"})
//	if err != nil {
//	    return err
//	}
//	public.SetTransform(func(route *mux.Route, schema openapi.RouteSchema, url string) (openapi.RouteSchema, string) {
//	    schema.Hide = !strings.HasPrefix(url, "/api/")
//	    return schema, url
//	})
//
// A transform may also rewrite the summary, tags and path of a route for
// one document. ChainTransforms runs several in order.
//
// # Building and serving
//
// Build walks the router on each call:
//
//	data, err := openapi.EncodeJSON(public.Build(r))
//
// JSONHandler and YAMLHandler build and encode the document per request.
//
// # Schemas
//
// Named struct types become components referenced with $ref. Types that
// implement encoding.TextMarshaler, such as uuid.UUID, are strings; pointers
// are nullable. The "openapi" struct tag adds keywords:
//
//	type CreateOrder struct {
//	    Item  string `json:"item" openapi:"minLength=1,maxLength=64"`
//	    Count int    `json:"count" openapi:"minimum=1,example=2"`
//	    State string `json:"state,omitempty" openapi:"enum=new|paid"`
//	}
//
// Path variables declared with a mux macro are typed: {id:uuid} is a string
// with format uuid, {n:int} an integer, {d:date} a date string.
package openapi
