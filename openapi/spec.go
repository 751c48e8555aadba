package openapi

import (
	"cmp"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/vitalvas/oasdocs/mux"
)

// macroTypes gives the schema of a path parameter declared with a mux
// macro, e.g. {id:uuid}.
var macroTypes = map[string]Schema{
	"uuid":     {Type: TypeString("string"), Format: "uuid"},
	"int":      {Type: TypeString("integer")},
	"float":    {Type: TypeString("number")},
	"slug":     {Type: TypeString("string")},
	"alpha":    {Type: TypeString("string")},
	"alphanum": {Type: TypeString("string")},
	"date":     {Type: TypeString("string"), Format: "date"},
	"hex":      {Type: TypeString("string")},
	"domain":   {Type: TypeString("string"), Format: "hostname"},
}

// Spec annotates mux routes and builds OpenAPI documents from them.
//
// The spec returned by NewSpec is the root. It owns the catalog: operations,
// webhooks, tags and security schemes. Specs made with Derive write into
// the same catalog and keep only their own info, servers, security,
// external docs and transform.
type Spec struct {
	info         Info
	servers      []Server
	externalDocs *ExternalDocs
	security     []SecurityRequirement
	transform    TransformFunc

	parent  *Spec
	derived map[string]*Spec

	named    map[string]*OperationBuilder
	routes   map[*mux.Route]*OperationBuilder
	webhooks map[string]map[string]*OperationBuilder

	tags            []Tag
	securitySchemes map[string]*SecurityScheme
}

func NewSpec(info Info) *Spec {
	return &Spec{
		info:   info,
		named:  make(map[string]*OperationBuilder),
		routes: make(map[*mux.Route]*OperationBuilder),
	}
}

// Derive creates a spec sharing the catalog of s. Names are claimed on the
// root; a taken name returns ErrDerivedExists. A zero info copies the root
// info. Servers, security and external docs fall back to the root values
// until set.
func (s *Spec) Derive(name string, info Info) (*Spec, error) {
	root := s.root()
	if _, ok := root.derived[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDerivedExists, name)
	}
	if info == (Info{}) {
		info = root.info
	}

	d := &Spec{info: info, parent: root}
	if root.derived == nil {
		root.derived = make(map[string]*Spec)
	}
	root.derived[name] = d
	return d, nil
}

func (s *Spec) Derived(name string) (*Spec, bool) {
	d, ok := s.root().derived[name]
	return d, ok
}

// SetTransform sets the transform run on every route while s builds.
func (s *Spec) SetTransform(fn TransformFunc) *Spec {
	s.transform = fn
	return s
}

func (s *Spec) Info() Info {
	return s.info
}

func (s *Spec) root() *Spec {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

func (s *Spec) AddServer(server Server) *Spec {
	s.servers = append(s.servers, server)
	return s
}

func (s *Spec) SetExternalDocs(url, description string) *Spec {
	s.externalDocs = &ExternalDocs{URL: url, Description: description}
	return s
}

// SetSecurity sets the document-level security requirements.
func (s *Spec) SetSecurity(reqs ...SecurityRequirement) *Spec {
	s.security = reqs
	return s
}

// AddTag declares a tag. Declared tags keep their description in every
// document and are listed even when no operation uses them.
func (s *Spec) AddTag(tag Tag) *Spec {
	root := s.root()
	root.tags = append(root.tags, tag)
	return s
}

func (s *Spec) AddSecurityScheme(name string, scheme *SecurityScheme) *Spec {
	root := s.root()
	if root.securitySchemes == nil {
		root.securitySchemes = make(map[string]*SecurityScheme)
	}
	root.securitySchemes[name] = scheme
	return s
}

// Webhook describes a request the API sends rather than serves. Webhooks
// are not routes: transforms never see them and every document lists them
// unless hidden.
func (s *Spec) Webhook(name, method string) *OperationBuilder {
	root := s.root()
	if root.webhooks == nil {
		root.webhooks = make(map[string]map[string]*OperationBuilder)
	}
	if root.webhooks[name] == nil {
		root.webhooks[name] = make(map[string]*OperationBuilder)
	}
	b := newOperationBuilder()
	root.webhooks[name][strings.ToUpper(method)] = b
	return b
}

// Op returns the builder of the route with the given name, creating it on
// first use. The route may be registered before or after.
func (s *Spec) Op(routeName string) *OperationBuilder {
	root := s.root()
	b, ok := root.named[routeName]
	if !ok {
		b = newOperationBuilder()
		root.named[routeName] = b
	}
	return b
}

// Route attaches a new builder to route.
func (s *Spec) Route(route *mux.Route) *OperationBuilder {
	b := newOperationBuilder()
	s.root().routes[route] = b
	return b
}

// lookup prefers a builder attached to the route over one registered by
// name.
func (s *Spec) lookup(route *mux.Route) (*OperationBuilder, bool) {
	if b, ok := s.routes[route]; ok {
		return b, true
	}
	b, ok := s.named[route.GetName()]
	return b, ok
}

// Build walks r and returns the document of s. Routes without a path,
// without methods or without an operation are left out. Every call walks
// the router again and generates schemas afresh.
func (s *Spec) Build(r *mux.Router) *Document {
	root := s.root()
	gen := NewSchemaGenerator()

	doc := &Document{
		OpenAPI:      "3.1.0",
		Info:         s.info,
		Servers:      s.servers,
		Security:     s.security,
		ExternalDocs: s.externalDocs,
		Paths:        make(map[string]*PathItem),
	}
	if s != root {
		if doc.Servers == nil {
			doc.Servers = root.servers
		}
		if doc.Security == nil {
			doc.Security = root.security
		}
		doc.ExternalDocs = cmp.Or(doc.ExternalDocs, root.externalDocs)
	}

	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		s.addRoute(doc, gen, route)
		return nil
	})
	doc.Webhooks = root.buildWebhooks(gen)

	schemas := gen.Schemas()
	if len(schemas) > 0 || len(root.securitySchemes) > 0 {
		doc.Components = &Components{SecuritySchemes: root.securitySchemes}
		if len(schemas) > 0 {
			doc.Components.Schemas = schemas
		}
	}
	doc.Tags = root.collectTags(doc.Paths, doc.Webhooks)

	return doc
}

func (s *Spec) addRoute(doc *Document, gen *SchemaGenerator, route *mux.Route) {
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return
	}
	methods, err := route.GetMethods()
	if err != nil {
		return
	}
	b, ok := s.root().lookup(route)
	if !ok || b.hidden {
		return
	}

	schema, url := b.routeSchema(route.GetName()), tpl
	if s.transform != nil {
		schema, url = s.transform(route, schema, url)
	}
	if schema.Hide {
		return
	}

	path, params := parsePath(url)
	item, ok := doc.Paths[path]
	if !ok {
		item = &PathItem{}
		doc.Paths[path] = item
	}

	op := b.build(gen, params)
	schema.applyTo(op)
	for _, method := range methods {
		assignOperation(item, method, op)
	}
}

// buildWebhooks returns nil when no webhook is left after hiding.
func (s *Spec) buildWebhooks(gen *SchemaGenerator) map[string]*PathItem {
	var out map[string]*PathItem
	for _, name := range slices.Sorted(maps.Keys(s.webhooks)) {
		methods := s.webhooks[name]
		item := &PathItem{}
		for _, method := range slices.Sorted(maps.Keys(methods)) {
			if b := methods[method]; !b.hidden {
				assignOperation(item, method, b.build(gen, nil))
			}
		}
		if len(item.operations()) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]*PathItem)
		}
		out[name] = item
	}
	return out
}

// collectTags lists the tags used by operations plus the declared ones,
// sorted by name. A declared tag replaces the bare tag an operation implies.
func (s *Spec) collectTags(pathMaps ...map[string]*PathItem) []Tag {
	byName := make(map[string]Tag)
	for _, paths := range pathMaps {
		for _, item := range paths {
			for _, op := range item.operations() {
				for _, name := range op.Tags {
					byName[name] = Tag{Name: name}
				}
			}
		}
	}
	for _, tag := range s.tags {
		byName[tag.Name] = tag
	}
	if len(byName) == 0 {
		return nil
	}

	return slices.SortedFunc(maps.Values(byName), func(a, b Tag) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func assignOperation(item *PathItem, method string, op *Operation) {
	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPost:
		item.Post = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodOptions:
		item.Options = op
	case http.MethodHead:
		item.Head = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodTrace:
		item.Trace = op
	}
}

// parsePath turns a mux template into an OpenAPI path and returns one
// required path parameter per variable. "/items/{id:uuid}" becomes
// "/items/{id}" with a uuid-formatted string parameter. Variables with a
// custom regexp are plain strings.
func parsePath(tpl string) (string, []*Parameter) {
	var (
		out    strings.Builder
		params []*Parameter
	)

	for {
		start := strings.IndexByte(tpl, '{')
		if start < 0 {
			break
		}
		end := varEnd(tpl, start)
		if end < 0 {
			break
		}

		name, pattern, _ := strings.Cut(tpl[start+1:end], ":")
		schema, ok := macroTypes[pattern]
		if !ok {
			schema = Schema{Type: TypeString("string")}
		}
		params = append(params, &Parameter{Name: name, In: "path", Required: true, Schema: &schema})

		out.WriteString(tpl[:start])
		out.WriteString("{" + name + "}")
		tpl = tpl[end+1:]
	}
	out.WriteString(tpl)

	return out.String(), params
}

// varEnd returns the index of the brace closing the variable at start, or
// -1. Patterns may hold braces of their own, as in {code:[a-z]{2}}.
func varEnd(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
