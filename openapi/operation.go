package openapi

import (
	"maps"
	"net/http"
	"slices"
	"strconv"
)

const contentTypeJSON = "application/json"

// responseSpec collects one response of an operation until it is built.
type responseSpec struct {
	description string
	content     map[string]any // content type -> Go value or *Schema
	headers     map[string]*Header
}

// OperationBuilder describes one operation. Values are collected as given
// and turned into schemas only when a document is built, so every document
// gets its own components.
//
// See: https://spec.openapis.org/oas/v3.1.0#operation-object
type OperationBuilder struct {
	operationID  string
	summary      string
	description  string
	tags         []string
	deprecated   bool
	hidden       bool
	parameters   []*Parameter
	security     []SecurityRequirement
	externalDocs *ExternalDocs
	servers      []Server

	request   map[string]any
	responses map[string]*responseSpec
}

func newOperationBuilder() *OperationBuilder {
	return &OperationBuilder{}
}

// OperationID overrides the route name used as operation ID.
func (b *OperationBuilder) OperationID(id string) *OperationBuilder {
	b.operationID = id
	return b
}

func (b *OperationBuilder) Summary(s string) *OperationBuilder {
	b.summary = s
	return b
}

func (b *OperationBuilder) Description(d string) *OperationBuilder {
	b.description = d
	return b
}

func (b *OperationBuilder) Tags(tags ...string) *OperationBuilder {
	b.tags = append(b.tags, tags...)
	return b
}

func (b *OperationBuilder) Deprecated() *OperationBuilder {
	b.deprecated = true
	return b
}

// Hide keeps the operation out of every document, whatever the transform
// of a document decides.
func (b *OperationBuilder) Hide() *OperationBuilder {
	b.hidden = true
	return b
}

// Request sets a JSON request body. body is a Go value whose type is
// reflected, or a *Schema.
func (b *OperationBuilder) Request(body any) *OperationBuilder {
	return b.RequestContent(contentTypeJSON, body)
}

// RequestContent sets the request body for one content type. A nil body
// documents the content type without a schema.
func (b *OperationBuilder) RequestContent(contentType string, body any) *OperationBuilder {
	if b.request == nil {
		b.request = make(map[string]any)
	}
	b.request[contentType] = body
	return b
}

// Response documents a JSON response. A nil body documents a response
// without content, e.g. 204.
func (b *OperationBuilder) Response(status int, body any) *OperationBuilder {
	r := b.response(status)
	if body != nil {
		r.content[contentTypeJSON] = body
	}
	return b
}

// ResponseContent documents a response body for one content type.
func (b *OperationBuilder) ResponseContent(status int, contentType string, body any) *OperationBuilder {
	b.response(status).content[contentType] = body
	return b
}

// ResponseDescription replaces the status text used as description.
func (b *OperationBuilder) ResponseDescription(status int, desc string) *OperationBuilder {
	b.response(status).description = desc
	return b
}

func (b *OperationBuilder) ResponseHeader(status int, name string, h *Header) *OperationBuilder {
	r := b.response(status)
	if r.headers == nil {
		r.headers = make(map[string]*Header)
	}
	r.headers[name] = h
	return b
}

func (b *OperationBuilder) response(status int) *responseSpec {
	key := strconv.Itoa(status)
	if b.responses == nil {
		b.responses = make(map[string]*responseSpec)
	}
	r, ok := b.responses[key]
	if !ok {
		r = &responseSpec{description: http.StatusText(status), content: make(map[string]any)}
		if r.description == "" {
			r.description = key
		}
		b.responses[key] = r
	}
	return r
}

// Parameter adds a parameter. A parameter with the name and location of a
// path variable replaces the generated one.
func (b *OperationBuilder) Parameter(p *Parameter) *OperationBuilder {
	b.parameters = append(b.parameters, p)
	return b
}

// Security sets the requirements of the operation. Without arguments the
// operation is marked as public, overriding document security.
func (b *OperationBuilder) Security(reqs ...SecurityRequirement) *OperationBuilder {
	b.security = append([]SecurityRequirement{}, reqs...)
	return b
}

func (b *OperationBuilder) ExternalDocs(url, description string) *OperationBuilder {
	b.externalDocs = &ExternalDocs{URL: url, Description: description}
	return b
}

func (b *OperationBuilder) Server(server Server) *OperationBuilder {
	b.servers = append(b.servers, server)
	return b
}

// routeSchema returns a detached copy of the fields a TransformFunc may
// rewrite. operationID is used when none was set on the builder.
func (b *OperationBuilder) routeSchema(operationID string) RouteSchema {
	if b.operationID != "" {
		operationID = b.operationID
	}
	return RouteSchema{
		Hide:        b.hidden,
		OperationID: operationID,
		Summary:     b.summary,
		Description: b.description,
		Tags:        slices.Clone(b.tags),
		Deprecated:  b.deprecated,
	}
}

// build turns the builder into an operation, generating body schemas with
// gen. pathParams are the parameters derived from the path template.
func (b *OperationBuilder) build(gen *SchemaGenerator, pathParams []*Parameter) *Operation {
	op := &Operation{
		OperationID:  b.operationID,
		Summary:      b.summary,
		Description:  b.description,
		Tags:         slices.Clone(b.tags),
		Deprecated:   b.deprecated,
		Security:     b.security,
		ExternalDocs: b.externalDocs,
		Servers:      b.servers,
		Parameters:   mergeParameters(pathParams, b.parameters),
	}

	if len(b.request) > 0 {
		op.RequestBody = &RequestBody{Required: true, Content: mediaTypes(gen, b.request)}
	}

	if len(b.responses) > 0 {
		op.Responses = make(map[string]*Response, len(b.responses))
		for key, r := range b.responses {
			resp := &Response{Description: r.description, Headers: r.headers}
			if len(r.content) > 0 {
				resp.Content = mediaTypes(gen, r.content)
			}
			op.Responses[key] = resp
		}
	}
	return op
}

// mediaTypes builds a content map. Content types are visited in sorted
// order so component naming does not depend on map iteration.
func mediaTypes(gen *SchemaGenerator, content map[string]any) map[string]*MediaType {
	out := make(map[string]*MediaType, len(content))
	for _, ct := range slices.Sorted(maps.Keys(content)) {
		out[ct] = &MediaType{Schema: resolveSchema(gen, content[ct])}
	}
	return out
}

// mergeParameters appends custom to auto, dropping auto entries that a
// custom parameter with the same name and location replaces. In OpenAPI,
// parameter uniqueness is defined by name and location.
func mergeParameters(auto, custom []*Parameter) []*Parameter {
	type key struct{ name, in string }

	replaced := make(map[key]bool, len(custom))
	for _, p := range custom {
		replaced[key{p.Name, p.In}] = true
	}

	var merged []*Parameter
	for _, p := range auto {
		if !replaced[key{p.Name, p.In}] {
			merged = append(merged, p)
		}
	}
	return append(merged, custom...)
}

// resolveSchema uses body as is when it is a *Schema and reflects it
// otherwise.
func resolveSchema(gen *SchemaGenerator, body any) *Schema {
	switch v := body.(type) {
	case nil:
		return nil
	case *Schema:
		return v
	default:
		return gen.Generate(v)
	}
}
