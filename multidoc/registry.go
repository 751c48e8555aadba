package multidoc

import (
	"fmt"

	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
)

// Config describes the documents published from one router and spec.
type Config struct {
	// Router holds the documented routes. Serving routes are added to it.
	Router *mux.Router

	// Spec is the shared annotation catalog. Each document derives its
	// generator from it.
	Spec *openapi.Spec

	Documents []Document

	// DefaultRef is the document that receives routes without an
	// assignment. It only affects documents using SelectByRef.
	DefaultRef string

	// RoutePrefix is prepended to every serving path, e.g. "/docs". Serving
	// paths only conflict with existing routes of the exact same template;
	// a pattern or prefix route registered earlier may still shadow them.
	RoutePrefix string
}

// Registry holds the registered documents. It is read-only once Register
// returns and safe for concurrent use.
type Registry struct {
	router *mux.Router
	spec   *openapi.Spec

	entries []*entry
	byRef   map[string]*entry
}

type entry struct {
	doc    Document
	gen    *openapi.Spec
	source Source
}

// pending is a validated document waiting for registration.
type pending struct {
	doc        Document
	classifier classifier
	pub        publication
}

// Register validates every document and then, in declaration order, derives
// its generator from cfg.Spec and registers its serving routes on
// cfg.Router. Nothing is registered unless the whole configuration is valid.
func Register(cfg Config) (*Registry, error) {
	plan, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		router:  cfg.Router,
		spec:    cfg.Spec,
		entries: make([]*entry, 0, len(plan)),
		byRef:   make(map[string]*entry, len(plan)),
	}

	for _, p := range plan {
		gen, err := derive(cfg.Spec, p.doc, p.classifier)
		if err != nil {
			return nil, err
		}

		build := func() (*openapi.Document, error) {
			return gen.Build(cfg.Router), nil
		}
		publish(cfg.Router, cfg.Spec, p.pub, p.doc.Hooks, build)

		e := &entry{
			doc: p.doc,
			gen: gen,
			source: Source{
				Ref:         p.doc.Ref,
				JSON:        p.pub.json,
				YAML:        p.pub.yaml,
				DisplayName: p.doc.DisplayName,
				Meta:        p.doc.Meta,
			},
		}
		reg.entries = append(reg.entries, e)
		reg.byRef[p.doc.Ref] = e
	}

	return reg, nil
}

func validateConfig(cfg Config) ([]pending, error) {
	if cfg.Router == nil {
		return nil, fmt.Errorf("%w: router is required", ErrConfiguration)
	}
	if cfg.Spec == nil {
		return nil, fmt.Errorf("%w: spec is required", ErrConfiguration)
	}
	if cfg.RoutePrefix != "" {
		if err := checkServingPath("route prefix", cfg.RoutePrefix); err != nil {
			return nil, err
		}
	}

	served := servedPaths(cfg.Router)
	owners := make(map[string]string)
	seen := make(map[string]bool, len(cfg.Documents))
	plan := make([]pending, 0, len(cfg.Documents))

	for i, d := range cfg.Documents {
		sel, err := d.validate()
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if seen[d.Ref] {
			return nil, fmt.Errorf("%w: duplicate document ref %q", ErrConflict, d.Ref)
		}
		seen[d.Ref] = true
		if _, ok := cfg.Spec.Derived(d.Ref); ok {
			return nil, fmt.Errorf("%w: document %q is already registered on the spec", ErrConflict, d.Ref)
		}

		pub := planPublication(i, d.Exposition, cfg.RoutePrefix)
		for _, path := range pub.paths() {
			if owner, ok := owners[path]; ok {
				return nil, fmt.Errorf("%w: documents %q and %q are both served at %s", ErrConflict, owner, d.Ref, path)
			}
			if served[path] {
				return nil, fmt.Errorf("%w: document %q: path %s is already routed", ErrConflict, d.Ref, path)
			}
			owners[path] = d.Ref
		}

		plan = append(plan, pending{
			doc:        d,
			classifier: newClassifier(d, sel, cfg.DefaultRef),
			pub:        pub,
		})
	}

	return plan, nil
}

// Refs returns the document refs in declaration order.
func (r *Registry) Refs() []string {
	refs := make([]string, len(r.entries))
	for i, e := range r.entries {
		refs[i] = e.doc.Ref
	}
	return refs
}

// Sources returns one source per document in declaration order.
func (r *Registry) Sources() []Source {
	out := make([]Source, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.source.clone()
	}
	return out
}

// ScalarSources returns the sources in the shape Scalar API Reference
// expects: {url, title, ...meta}.
func (r *Registry) ScalarSources() []map[string]any {
	return r.providerSources("title")
}

// SwaggerUISources returns the sources in the shape of Swagger UI's urls
// option: {url, name, ...meta}.
func (r *Registry) SwaggerUISources() []map[string]any {
	return r.providerSources("name")
}

func (r *Registry) providerSources(nameKey string) []map[string]any {
	out := make([]map[string]any, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.source.providerSource(nameKey)
	}
	return out
}

// Generator returns the spec that builds the document named by ref.
func (r *Registry) Generator(ref string) (*openapi.Spec, error) {
	e, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}
	return e.gen, nil
}

// Document builds the document named by ref from the current routes.
func (r *Registry) Document(ref string) (*openapi.Document, error) {
	e, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}
	return e.gen.Build(r.router), nil
}

// DocumentJSON builds the document named by ref and encodes it as JSON.
func (r *Registry) DocumentJSON(ref string) ([]byte, error) {
	doc, err := r.Document(ref)
	if err != nil {
		return nil, err
	}
	return openapi.EncodeJSON(doc)
}

// DocumentYAML builds the document named by ref and encodes it as YAML.
func (r *Registry) DocumentYAML(ref string) ([]byte, error) {
	doc, err := r.Document(ref)
	if err != nil {
		return nil, err
	}
	return openapi.EncodeYAML(doc)
}

func (r *Registry) lookup(ref string) (*entry, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: document ref is required", ErrConfiguration)
	}
	e, ok := r.byRef[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return e, nil
}
