package multidoc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
)

// Selector is the strategy deciding which routes belong to a document.
type Selector int

const (
	// SelectAuto infers the strategy from the document: Match set selects
	// SelectCustom, URLPrefixes set selects SelectByPrefix, anything else
	// selects SelectByRef.
	SelectAuto Selector = iota

	// SelectByRef includes routes assigned to the document with Assign, or
	// unassigned routes when the document is the registry's default ref.
	SelectByRef

	// SelectByPrefix includes routes whose path starts with one of the
	// document's URL prefixes.
	SelectByPrefix

	// SelectCustom includes routes accepted by the document's Match function.
	SelectCustom
)

const validSelectors = `"ref", "prefix", "custom"`

var selectorNames = map[Selector]string{
	SelectAuto:     "auto",
	SelectByRef:    "ref",
	SelectByPrefix: "prefix",
	SelectCustom:   "custom",
}

func (s Selector) String() string {
	if name, ok := selectorNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Selector(%d)", int(s))
}

// ParseSelector returns the selector named by name. An empty name is
// SelectAuto.
func ParseSelector(name string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return SelectAuto, nil
	case "ref":
		return SelectByRef, nil
	case "prefix":
		return SelectByPrefix, nil
	case "custom":
		return SelectCustom, nil
	}
	return SelectAuto, fmt.Errorf("%w: unknown selector %q, must be one of %s", ErrConfiguration, name, validSelectors)
}

// Endpoint configures one serialization format of a document. The zero value
// serves the format at its default path.
type Endpoint struct {
	// Disabled turns the format off: no route is registered and the source
	// URL is empty.
	Disabled bool

	// Path overrides the default serving path. It must start with "/" and
	// is served literally, so it may not hold {variables}.
	Path string
}

// Exposition controls where a document is served as JSON and YAML.
type Exposition struct {
	JSON Endpoint
	YAML Endpoint
}

// ExposeNone disables both formats. The document can still be built through
// the registry queries.
func ExposeNone() Exposition {
	return Exposition{
		JSON: Endpoint{Disabled: true},
		YAML: Endpoint{Disabled: true},
	}
}

// ExposeJSON serves only JSON, at path or at the default path when path is
// empty.
func ExposeJSON(path string) Exposition {
	return Exposition{
		JSON: Endpoint{Path: path},
		YAML: Endpoint{Disabled: true},
	}
}

// ExposeYAML serves only YAML, at path or at the default path when path is
// empty.
func ExposeYAML(path string) Exposition {
	return Exposition{
		JSON: Endpoint{Disabled: true},
		YAML: Endpoint{Path: path},
	}
}

func (e Endpoint) validate(ref, format string) error {
	if e.Disabled && e.Path != "" {
		return fmt.Errorf("%w: document %q: %s endpoint is disabled but has path %q", ErrConfiguration, ref, format, e.Path)
	}
	if e.Path == "" {
		return nil
	}
	return checkServingPath(fmt.Sprintf("document %q: %s path", ref, format), e.Path)
}

// Hooks wrap the serving handlers of a single document. OnRequest runs first
// and is meant for authentication or rate limiting; PreHandler runs right
// before the document is built.
type Hooks struct {
	OnRequest  []mux.MiddlewareFunc
	PreHandler []mux.MiddlewareFunc
}

// wrap applies the hooks to next, OnRequest outermost. Within each list the
// first middleware is the outermost one, matching Router.Use.
func (h Hooks) wrap(next http.Handler) http.Handler {
	chain := make([]mux.MiddlewareFunc, 0, len(h.OnRequest)+len(h.PreHandler))
	chain = append(chain, h.OnRequest...)
	chain = append(chain, h.PreHandler...)
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i] != nil {
			next = chain[i](next)
		}
	}
	return next
}

// GeneratorOptions are the document-level settings passed to the document's
// generator. Zero fields fall back to the shared spec.
type GeneratorOptions struct {
	Info         openapi.Info
	Servers      []openapi.Server
	Security     []openapi.SecurityRequirement
	ExternalDocs *openapi.ExternalDocs

	// Transform runs before route classification. Its schema and URL are
	// what the selector sees, and setting Hide excludes the route whatever
	// the selector decides.
	Transform openapi.TransformFunc
}

// Document declares one OpenAPI document published from the shared spec.
type Document struct {
	// Ref identifies the document. It must be unique within a registry.
	Ref string

	Selector Selector

	// URLPrefixes lists the path prefixes matched by SelectByPrefix.
	URLPrefixes []string

	// Match decides membership for SelectCustom.
	Match MatchFunc

	Exposition Exposition
	Generator  GeneratorOptions

	// DisplayName and Meta are copied into the document's sources for UI
	// providers.
	DisplayName string
	Meta        map[string]any

	Hooks Hooks
}

// Ref declares a document identified only by ref, selected by route
// assignment and served at the default paths.
func Ref(ref string) Document {
	return Document{Ref: ref}
}

// selector resolves SelectAuto and checks that the fields match the chosen
// strategy.
func (d Document) selector() (Selector, error) {
	if d.Match != nil && len(d.URLPrefixes) > 0 {
		return SelectAuto, fmt.Errorf("%w: document %q: match and urlPrefixes are mutually exclusive", ErrConfiguration, d.Ref)
	}

	sel := d.Selector
	if sel == SelectAuto {
		switch {
		case d.Match != nil:
			sel = SelectCustom
		case len(d.URLPrefixes) > 0:
			sel = SelectByPrefix
		default:
			sel = SelectByRef
		}
	}

	switch sel {
	case SelectByRef:
		if d.Match != nil || len(d.URLPrefixes) > 0 {
			return SelectAuto, fmt.Errorf("%w: document %q: ref selector takes neither match nor urlPrefixes", ErrConfiguration, d.Ref)
		}
	case SelectByPrefix:
		if len(d.URLPrefixes) == 0 {
			return SelectAuto, fmt.Errorf("%w: document %q: prefix selector requires urlPrefixes", ErrConfiguration, d.Ref)
		}
		if d.Match != nil {
			return SelectAuto, fmt.Errorf("%w: document %q: prefix selector does not take match", ErrConfiguration, d.Ref)
		}
		for _, p := range d.URLPrefixes {
			if p == "" {
				return SelectAuto, fmt.Errorf("%w: document %q: urlPrefixes must not contain empty strings", ErrConfiguration, d.Ref)
			}
		}
	case SelectCustom:
		if d.Match == nil {
			return SelectAuto, fmt.Errorf("%w: document %q: custom selector requires match", ErrConfiguration, d.Ref)
		}
	default:
		return SelectAuto, fmt.Errorf("%w: document %q: invalid selector %s, must be one of %s", ErrConfiguration, d.Ref, sel, validSelectors)
	}

	return sel, nil
}

func (d Document) validate() (Selector, error) {
	if d.Ref == "" {
		return SelectAuto, fmt.Errorf("%w: document ref is required", ErrConfiguration)
	}

	sel, err := d.selector()
	if err != nil {
		return SelectAuto, err
	}

	if err := d.Exposition.JSON.validate(d.Ref, "json"); err != nil {
		return SelectAuto, err
	}
	if err := d.Exposition.YAML.validate(d.Ref, "yaml"); err != nil {
		return SelectAuto, err
	}

	return sel, nil
}
