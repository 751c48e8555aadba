package multidoc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
)

// Default serving paths, formatted with the document's declaration index.
const (
	defaultJSONPath = "/doc-%d/json"
	defaultYAMLPath = "/doc-%d/yaml"
)

// publication holds the serving paths of one document with the route prefix
// applied. An empty path means the format is disabled.
type publication struct {
	json string
	yaml string
}

func planPublication(index int, e Exposition, prefix string) publication {
	return publication{
		json: endpointURL(e.JSON, defaultJSONPath, index, prefix),
		yaml: endpointURL(e.YAML, defaultYAMLPath, index, prefix),
	}
}

func endpointURL(e Endpoint, def string, index int, prefix string) string {
	if e.Disabled {
		return ""
	}
	path := e.Path
	if path == "" {
		path = fmt.Sprintf(def, index)
	}
	return joinPrefix(prefix, path)
}

// joinPrefix strips trailing slashes from prefix before prepending it, so
// "/docs/" and "/doc-0/json" give "/docs/doc-0/json".
func joinPrefix(prefix, path string) string {
	return strings.TrimRight(prefix, "/") + path
}

func (p publication) paths() []string {
	var out []string
	if p.json != "" {
		out = append(out, p.json)
	}
	if p.yaml != "" {
		out = append(out, p.yaml)
	}
	return out
}

// checkServingPath rejects paths the router would read as a template.
// Serving paths are published verbatim as document URLs.
func checkServingPath(what, path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %s %q must start with \"/\"", ErrConfiguration, what, path)
	}
	if strings.ContainsAny(path, "{}") {
		return fmt.Errorf("%w: %s %q must not contain route variables", ErrConfiguration, what, path)
	}
	return nil
}

// servedPaths collects the path templates of GET routes already on the
// router.
func servedPaths(r *mux.Router) map[string]bool {
	paths := make(map[string]bool)
	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// No method matcher: the route answers GET too.
			paths[tpl] = true
			return nil
		}
		for _, m := range methods {
			if m == http.MethodGet {
				paths[tpl] = true
			}
		}
		return nil
	})
	return paths
}

// publish registers the serving routes of a document and hides them from
// every document built from spec.
func publish(r *mux.Router, spec *openapi.Spec, p publication, hooks Hooks, build openapi.BuildFunc) {
	if p.json != "" {
		route := r.Handle(p.json, hooks.wrap(openapi.JSONHandler(build))).Methods(http.MethodGet)
		spec.Route(route).Hide()
	}
	if p.yaml != "" {
		route := r.Handle(p.yaml, hooks.wrap(openapi.YAMLHandler(build))).Methods(http.MethodGet)
		spec.Route(route).Hide()
	}
}
