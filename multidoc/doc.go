// Package multidoc publishes several OpenAPI documents from one router and
// one set of route annotations.
//
// Each Document derives its own generator from a shared openapi.Spec and
// picks its routes with a selector:
//
//	spec := openapi.NewSpec(openapi.Info{Title: "Shop", Version: "1.0.0"})
//
//	multidoc.Assign(r.HandleFunc("/orders", listOrders).Methods(http.MethodGet), "public")
//	multidoc.Assign(r.HandleFunc("/admin/users", listUsers).Methods(http.MethodGet), "internal")
//
//	reg, err := multidoc.Register(multidoc.Config{
//	    Router:      r,
//	    Spec:        spec,
//	    RoutePrefix: "/docs",
//	    Documents: []multidoc.Document{
//	        multidoc.Ref("public"),
//	        {Ref: "internal", Hooks: multidoc.Hooks{OnRequest: []mux.MiddlewareFunc{requireStaff}}},
//	    },
//	})
//
// The documents above are served at /docs/doc-0/json, /docs/doc-0/yaml,
// /docs/doc-1/json and /docs/doc-1/yaml. Serving routes are hidden from every
// document, and each fetch builds the document again from the current routes.
//
// # Selectors
//
// SelectByRef includes routes whose Assign refs contain the document ref.
// Unassigned routes go to Config.DefaultRef. SelectByPrefix includes routes
// whose path starts with one of URLPrefixes. SelectCustom asks Match. When
// Selector is left unset it is inferred from Match and URLPrefixes.
//
// A route hidden with OperationBuilder.Hide, or by the document's own
// transform, stays hidden whatever the selector decides.
//
// # Sources
//
// Sources lists the served URLs of every document. ScalarSources and
// SwaggerUISources render them for the Scalar and Swagger UI multi-document
// pickers, and HandleUI serves a ready page:
//
//	if _, err := reg.HandleUI("/docs", multidoc.UIScalar, "Shop API"); err != nil {
//	    return err
//	}
package multidoc
