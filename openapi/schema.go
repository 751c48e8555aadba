package openapi

import (
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SchemaType is a JSON Schema "type": one name or a list such as
// ["string", "null"].
//
// See: https://json-schema.org/draft/2020-12/json-schema-validation#section-6.1.1
type SchemaType struct {
	value []string
}

func TypeString(t string) SchemaType {
	return SchemaType{value: []string{t}}
}

// TypeArray builds a multi-type, e.g. TypeArray("integer", "null").
func TypeArray(types ...string) SchemaType {
	return SchemaType{value: types}
}

func (st SchemaType) Values() []string {
	return st.value
}

// IsZero lets omitzero drop an unset type.
func (st SchemaType) IsZero() bool {
	return len(st.value) == 0
}

func (st SchemaType) MarshalJSON() ([]byte, error) {
	if len(st.value) == 1 {
		return json.Marshal(st.value[0])
	}
	return json.Marshal(st.value)
}

// withNull adds "null" unless the type is unset or already nullable.
func (st SchemaType) withNull() SchemaType {
	if len(st.value) == 0 || slices.Contains(st.value, "null") {
		return st
	}
	return TypeArray(append(slices.Clone(st.value), "null")...)
}

// Schema is the subset of JSON Schema 2020-12 the generator and the
// "openapi" struct tag produce. Hand-built schemas may be passed wherever a
// body type is accepted.
//
// See: https://spec.openapis.org/oas/v3.1.0#schema-object
type Schema struct {
	Ref string `json:"$ref,omitempty"`

	Type   SchemaType `json:"type,omitzero"`
	Format string     `json:"format,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Example     any    `json:"example,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
	WriteOnly   bool   `json:"writeOnly,omitempty"`

	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	Items       *Schema `json:"items,omitempty"`
	MinItems    *int    `json:"minItems,omitempty"`
	MaxItems    *int    `json:"maxItems,omitempty"`
	UniqueItems bool    `json:"uniqueItems,omitempty"`

	Properties           map[string]*Schema `json:"properties,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	MinProperties        *int               `json:"minProperties,omitempty"`
	MaxProperties        *int               `json:"maxProperties,omitempty"`

	Enum  []any     `json:"enum,omitempty"`
	Const any       `json:"const,omitzero"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// Exampler lets a type supply the example of its component schema.
//
//	func (u User) OpenAPIExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
type Exampler interface {
	OpenAPIExample() any
}

var (
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// isTextType reports whether values of t encode as JSON strings through
// encoding.TextMarshaler (uuid.UUID, netip.Addr, ...).
func isTextType(t reflect.Type) bool {
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

// SchemaGenerator turns Go types into schemas. Named struct types become
// components under #/components/schemas and are referenced with $ref.
type SchemaGenerator struct {
	schemas map[string]*Schema
	names   map[reflect.Type]string
	owners  map[string]reflect.Type
}

func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		schemas: make(map[string]*Schema),
		names:   make(map[reflect.Type]string),
		owners:  make(map[string]reflect.Type),
	}
}

// Schemas returns the components collected so far.
func (g *SchemaGenerator) Schemas() map[string]*Schema {
	return g.schemas
}

// Generate returns the schema for the type of v, or nil for a nil v.
func (g *SchemaGenerator) Generate(v any) *Schema {
	if v == nil {
		return nil
	}
	return g.schemaFor(reflect.TypeOf(v))
}

func (g *SchemaGenerator) schemaFor(t reflect.Type) *Schema {
	nullable := t.Kind() == reflect.Pointer
	if nullable {
		t = t.Elem()
	}

	if name := componentName(t); name != "" {
		ref := g.component(t, name)
		if nullable {
			return &Schema{AnyOf: []*Schema{ref, {Type: TypeString("null")}}}
		}
		return ref
	}

	s := g.inline(t)
	if s != nil && nullable {
		s.Type = s.Type.withNull()
	}
	return s
}

// componentName returns the base component name of t, or "" when t is
// rendered inline.
func componentName(t reflect.Type) string {
	if t.Kind() != reflect.Struct || t == timeType || isTextType(t) || t.PkgPath() == "" {
		return ""
	}
	return sanitizeSchemaName(t.Name())
}

func (g *SchemaGenerator) component(t reflect.Type, base string) *Schema {
	name, ok := g.names[t]
	if !ok {
		name = g.claimName(t, base)
		// Registered before the fields are walked so recursive types end
		// in a $ref.
		g.names[t] = name

		s := g.object(t)
		if ex, ok := reflect.New(t).Interface().(Exampler); ok {
			s.Example = ex.OpenAPIExample()
		}
		g.schemas[name] = s
	}
	return &Schema{Ref: "#/components/schemas/" + name}
}

// claimName picks a free component name. A name already used by another
// type gets the package name as prefix, then a numeric suffix.
func (g *SchemaGenerator) claimName(t reflect.Type, base string) string {
	name := base
	if g.owners[name] != nil {
		qualified := packageName(t.PkgPath()) + base
		name = qualified
		for i := 2; g.owners[name] != nil; i++ {
			name = qualified + strconv.Itoa(i)
		}
	}
	g.owners[name] = t
	return name
}

func (g *SchemaGenerator) inline(t reflect.Type) *Schema {
	switch {
	case t == timeType:
		return &Schema{Type: TypeString("string"), Format: "date-time"}
	case isTextType(t):
		return &Schema{Type: TypeString("string")}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: TypeString("boolean")}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: TypeString("integer")}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: TypeString("number")}
	case reflect.String:
		return &Schema{Type: TypeString("string")}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: TypeString("string"), Format: "byte"}
		}
		return &Schema{Type: TypeString("array"), Items: g.schemaFor(t.Elem())}
	case reflect.Array:
		return &Schema{Type: TypeString("array"), Items: g.schemaFor(t.Elem())}
	case reflect.Map:
		return &Schema{Type: TypeString("object"), AdditionalProperties: g.schemaFor(t.Elem())}
	case reflect.Struct:
		return g.object(t)
	case reflect.Interface:
		return &Schema{}
	default:
		// chan, func and complex values have no JSON form.
		return nil
	}
}

func (g *SchemaGenerator) object(t reflect.Type) *Schema {
	s := &Schema{Type: TypeString("object")}
	g.addFields(s, t, false)
	return s
}

// addFields follows encoding/json field rules. Fields promoted through an
// embedded pointer are optional since the pointer may be nil.
func (g *SchemaGenerator) addFields(s *Schema, t reflect.Type, optional bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		name, opts := parseJSONTag(f.Tag.Get("json"))
		if name == "-" && opts == "" {
			continue
		}

		if f.Anonymous && name == "" {
			ft := f.Type
			isPtr := ft.Kind() == reflect.Pointer
			if isPtr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				g.addFields(s, ft, optional || isPtr)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}

		fs := g.schemaFor(f.Type)
		if fs == nil {
			continue
		}
		applyTag(fs, f.Tag.Get("openapi"))
		if opts.has("string") && fs.Ref == "" && len(fs.AnyOf) == 0 {
			encodeAsString(fs)
		}

		if s.Properties == nil {
			s.Properties = make(map[string]*Schema)
		}
		s.Properties[name] = fs
		if !optional && !opts.has("omitempty") && !opts.has("omitzero") {
			s.Required = append(s.Required, name)
		}
	}
}

// tagOptions is the part of a json tag after the name.
type tagOptions string

func parseJSONTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (o tagOptions) has(option string) bool {
	return slices.Contains(strings.Split(string(o), ","), option)
}

// encodeAsString matches the json ",string" option, keeping null.
func encodeAsString(s *Schema) {
	if s.Type.IsZero() {
		return
	}
	if slices.Contains(s.Type.Values(), "null") {
		s.Type = TypeArray("string", "null")
		return
	}
	s.Type = TypeString("string")
}

// tagKeys are the keys of the "openapi" struct tag, written as
// `openapi:"minLength=1,maxLength=64,format=email"`.
var tagKeys = map[string]func(s *Schema, v string){
	"title":       func(s *Schema, v string) { s.Title = v },
	"description": func(s *Schema, v string) { s.Description = v },
	"format":      func(s *Schema, v string) { s.Format = v },
	"pattern":     func(s *Schema, v string) { s.Pattern = v },
	"example":     func(s *Schema, v string) { s.Example = typedValue(s, v) },
	"const":       func(s *Schema, v string) { s.Const = typedValue(s, v) },
	"enum": func(s *Schema, v string) {
		s.Enum = nil
		for e := range strings.SplitSeq(v, "|") {
			s.Enum = append(s.Enum, typedValue(s, e))
		}
	},

	"deprecated":  func(s *Schema, _ string) { s.Deprecated = true },
	"readOnly":    func(s *Schema, _ string) { s.ReadOnly = true },
	"writeOnly":   func(s *Schema, _ string) { s.WriteOnly = true },
	"uniqueItems": func(s *Schema, _ string) { s.UniqueItems = true },

	"multipleOf":       func(s *Schema, v string) { setFloat(&s.MultipleOf, v) },
	"minimum":          func(s *Schema, v string) { setFloat(&s.Minimum, v) },
	"maximum":          func(s *Schema, v string) { setFloat(&s.Maximum, v) },
	"exclusiveMinimum": func(s *Schema, v string) { setFloat(&s.ExclusiveMinimum, v) },
	"exclusiveMaximum": func(s *Schema, v string) { setFloat(&s.ExclusiveMaximum, v) },

	"minLength":     func(s *Schema, v string) { setInt(&s.MinLength, v) },
	"maxLength":     func(s *Schema, v string) { setInt(&s.MaxLength, v) },
	"minItems":      func(s *Schema, v string) { setInt(&s.MinItems, v) },
	"maxItems":      func(s *Schema, v string) { setInt(&s.MaxItems, v) },
	"minProperties": func(s *Schema, v string) { setInt(&s.MinProperties, v) },
	"maxProperties": func(s *Schema, v string) { setInt(&s.MaxProperties, v) },
}

// applyTag applies an "openapi" struct tag. Unknown keys and unparsable
// numbers are ignored.
func applyTag(s *Schema, tag string) {
	if tag == "" {
		return
	}
	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		if set, ok := tagKeys[strings.TrimSpace(key)]; ok {
			set(s, strings.TrimSpace(value))
		}
	}
}

func setFloat(dst **float64, v string) {
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = &f
	}
}

func setInt(dst **int, v string) {
	if n, err := strconv.Atoi(v); err == nil {
		*dst = &n
	}
}

// typedValue parses a tag value according to the schema type so examples
// of integer fields are numbers, not strings.
func typedValue(s *Schema, v string) any {
	types := s.Type.Values()
	if len(types) == 0 {
		return v
	}
	switch types[0] {
	case "integer":
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return v
}

// packageName turns the last package path element into a name prefix,
// e.g. "example.com/billing-api" -> "Billing_api".
func packageName(pkgPath string) string {
	if i := strings.LastIndexByte(pkgPath, '/'); i >= 0 {
		pkgPath = pkgPath[i+1:]
	}
	if pkgPath == "" {
		return ""
	}
	pkgPath = strings.NewReplacer("-", "_", ".", "_").Replace(pkgPath)
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName flattens generic instantiations:
// "Page[example.com/models.User]" -> "PageUser" and
// "Page[[]example.com/models.User]" -> "PageUserList".
func sanitizeSchemaName(name string) string {
	base, inner, ok := strings.Cut(name, "[")
	if !ok {
		return name
	}
	inner = strings.TrimSuffix(inner, "]")

	list := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")
	if i := strings.LastIndexByte(inner, '.'); i >= 0 {
		inner = inner[i+1:]
	}

	if list {
		return base + inner + "List"
	}
	return base + inner
}
