package multidoc

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/vitalvas/oasdocs/mux"
)

// UI selects the interactive documentation page served by HandleUI.
type UI int

const (
	UIScalar UI = iota
	UISwaggerUI
)

// ScalarHandler serves a Scalar API Reference page listing every document.
// Documents served only as YAML point at their YAML URL; documents not
// served at all are left out.
//
// See: https://github.com/scalar/scalar
func (r *Registry) ScalarHandler(title string) http.Handler {
	return pageHandler(scalarTemplate(title, r.pageSources("title")))
}

// SwaggerUIHandler serves a Swagger UI page with a document picker listing
// every served document.
//
// See: https://swagger.io/docs/open-source-tools/swagger-ui/usage/configuration/
func (r *Registry) SwaggerUIHandler(title string) http.Handler {
	return pageHandler(swaggerUITemplate(title, r.pageSources("name")))
}

// HandleUI registers the selected UI page at path with GET. The route is
// hidden from every document. path follows the rules of document serving
// paths and fails with ErrConfiguration otherwise.
func (r *Registry) HandleUI(path string, ui UI, title string) (*mux.Route, error) {
	if err := checkServingPath("ui path", path); err != nil {
		return nil, err
	}

	var handler http.Handler
	switch ui {
	case UISwaggerUI:
		handler = r.SwaggerUIHandler(title)
	default:
		handler = r.ScalarHandler(title)
	}
	route := r.router.Handle(path, handler).Methods(http.MethodGet)
	if err := route.GetError(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	r.spec.Route(route).Hide()
	return route, nil
}

// pageSources is the provider shape with url falling back to the YAML URL.
func (r *Registry) pageSources(nameKey string) []map[string]any {
	out := make([]map[string]any, 0, len(r.entries))
	for _, e := range r.entries {
		src := e.source
		if src.JSON == "" && src.YAML == "" {
			continue
		}
		if src.JSON == "" {
			src.JSON = src.YAML
		}
		out = append(out, src.providerSource(nameKey))
	}
	return out
}

func pageHandler(page string) http.Handler {
	data := []byte(page)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// sourcesJSON encodes sources for a script block. json.Marshal escapes <, >
// and &, so the output cannot close the script element.
func sourcesJSON(sources []map[string]any) string {
	data, err := json.Marshal(sources)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func scalarTemplate(title string, sources []map[string]any) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
<div id="app"></div>
<script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
<script>
Scalar.createApiReference("#app", {sources: %s});
</script>
</body>
</html>`, html.EscapeString(title), sourcesJSON(sources))
}

func swaggerUITemplate(title string, sources []map[string]any) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-standalone-preset.js"></script>
<script>
SwaggerUIBundle({urls: %s, dom_id: "#swagger-ui", presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset], layout: "StandaloneLayout"});
</script>
</body>
</html>`, html.EscapeString(title), sourcesJSON(sources))
}
