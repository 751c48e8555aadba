package multidoc

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
	"gopkg.in/yaml.v3"
)

// FileConfig is a document configuration read from YAML:
//
//	routePrefix: /docs
//	defaultRef: public
//	documents:
//	  - public
//	  - ref: internal
//	    displayName: Internal API
//	    urlPrefixes: [/internal]
//	    exposition:
//	      json: /internal.json
//	    meta:
//	      slug: internal
//	    info:
//	      title: Internal API
//	      version: 1.0.0
//	    servers:
//	      - url: https://internal.example.com
//
// An exposition of false disables both formats. A mapping sets each format
// to true, false or a path; a format missing from the mapping is disabled.
// Custom selectors need a Go predicate and are rejected.
type FileConfig struct {
	Documents   []Document
	DefaultRef  string
	RoutePrefix string
}

// Config returns the registration config for r and spec.
func (c *FileConfig) Config(r *mux.Router, spec *openapi.Spec) Config {
	return Config{
		Router:      r,
		Spec:        spec,
		Documents:   c.Documents,
		DefaultRef:  c.DefaultRef,
		RoutePrefix: c.RoutePrefix,
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration.
func ParseConfig(data []byte) (*FileConfig, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if errors.Is(err, ErrConfiguration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	applyDefaults(&cfg)
	if err := validateFile(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *FileConfig) {
	cfg.DefaultRef = strings.TrimSpace(cfg.DefaultRef)
	cfg.RoutePrefix = strings.TrimSpace(cfg.RoutePrefix)
}

func validateFile(cfg *FileConfig) error {
	if cfg.Documents == nil {
		return fmt.Errorf("%w: documents must be a sequence", ErrConfiguration)
	}
	if cfg.RoutePrefix != "" {
		if err := checkServingPath("routePrefix", cfg.RoutePrefix); err != nil {
			return err
		}
	}
	seen := make(map[string]bool, len(cfg.Documents))
	for i, d := range cfg.Documents {
		if d.Selector == SelectCustom {
			return fmt.Errorf("document %d: %w: custom selector is not available in configuration files", i, ErrConfiguration)
		}
		if _, err := d.validate(); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if seen[d.Ref] {
			return fmt.Errorf("%w: duplicate document ref %q", ErrConflict, d.Ref)
		}
		seen[d.Ref] = true
	}
	return nil
}

// UnmarshalYAML decodes the top-level mapping.
func (c *FileConfig) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: configuration must be a mapping", ErrConfiguration)
	}

	var raw struct {
		Documents   yaml.Node `yaml:"documents"`
		DefaultRef  yaml.Node `yaml:"defaultRef"`
		RoutePrefix yaml.Node `yaml:"routePrefix"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}

	if raw.Documents.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: documents must be a sequence", ErrConfiguration)
	}
	c.Documents = make([]Document, 0, len(raw.Documents.Content))
	for i, item := range raw.Documents.Content {
		d, err := decodeDocument(item)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		c.Documents = append(c.Documents, d)
	}

	var err error
	if c.DefaultRef, err = optionalString(&raw.DefaultRef, "defaultRef"); err != nil {
		return err
	}
	if c.RoutePrefix, err = optionalString(&raw.RoutePrefix, "routePrefix"); err != nil {
		return err
	}
	return nil
}

func decodeDocument(n *yaml.Node) (Document, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		ref, err := stringValue(n, "document")
		if err != nil {
			return Document{}, err
		}
		return Ref(ref), nil
	case yaml.MappingNode:
	default:
		return Document{}, fmt.Errorf("%w: document must be a string or a mapping", ErrConfiguration)
	}

	var raw struct {
		Ref         yaml.Node      `yaml:"ref"`
		Selector    yaml.Node      `yaml:"selector"`
		URLPrefixes yaml.Node      `yaml:"urlPrefixes"`
		Exposition  yaml.Node      `yaml:"exposition"`
		DisplayName yaml.Node      `yaml:"displayName"`
		Meta        map[string]any `yaml:"meta"`
		Info        struct {
			Title       string `yaml:"title"`
			Summary     string `yaml:"summary"`
			Description string `yaml:"description"`
			Version     string `yaml:"version"`
		} `yaml:"info"`
		Servers []struct {
			URL         string `yaml:"url"`
			Description string `yaml:"description"`
		} `yaml:"servers"`
	}
	if err := n.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	var (
		d   Document
		err error
	)
	if raw.Ref.Kind == 0 {
		return Document{}, fmt.Errorf("%w: document ref is required", ErrConfiguration)
	}
	if d.Ref, err = stringValue(&raw.Ref, "ref"); err != nil {
		return Document{}, err
	}

	selector, err := optionalString(&raw.Selector, "selector")
	if err != nil {
		return Document{}, err
	}
	if d.Selector, err = ParseSelector(selector); err != nil {
		return Document{}, err
	}

	if d.URLPrefixes, err = decodePrefixes(&raw.URLPrefixes); err != nil {
		return Document{}, err
	}
	if d.Exposition, err = decodeExposition(&raw.Exposition); err != nil {
		return Document{}, err
	}
	if d.DisplayName, err = optionalString(&raw.DisplayName, "displayName"); err != nil {
		return Document{}, err
	}
	d.Meta = raw.Meta

	d.Generator.Info = openapi.Info{
		Title:       raw.Info.Title,
		Summary:     raw.Info.Summary,
		Description: raw.Info.Description,
		Version:     raw.Info.Version,
	}
	for _, srv := range raw.Servers {
		d.Generator.Servers = append(d.Generator.Servers, openapi.Server{URL: srv.URL, Description: srv.Description})
	}

	return d, nil
}

// decodePrefixes accepts a single string or a sequence of strings.
func decodePrefixes(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		s, err := stringValue(n, "urlPrefixes")
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			s, err := stringValue(item, "urlPrefixes")
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: urlPrefixes must be a string or a sequence of strings", ErrConfiguration)
}

func decodeExposition(n *yaml.Node) (Exposition, error) {
	switch n.Kind {
	case 0:
		return Exposition{}, nil
	case yaml.ScalarNode:
		on, err := boolValue(n, "exposition")
		if err != nil {
			return Exposition{}, err
		}
		if !on {
			return ExposeNone(), nil
		}
		return Exposition{}, nil
	case yaml.MappingNode:
	default:
		return Exposition{}, fmt.Errorf("%w: exposition must be a boolean or a mapping", ErrConfiguration)
	}

	e := ExposeNone()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		ep, err := decodeEndpoint(value, "exposition."+key)
		if err != nil {
			return Exposition{}, err
		}
		switch key {
		case "json":
			e.JSON = ep
		case "yaml":
			e.YAML = ep
		default:
			return Exposition{}, fmt.Errorf("%w: unknown exposition format %q", ErrConfiguration, key)
		}
	}
	return e, nil
}

// decodeEndpoint accepts true, false or a serving path.
func decodeEndpoint(n *yaml.Node, field string) (Endpoint, error) {
	if n.Kind == yaml.ScalarNode {
		switch n.ShortTag() {
		case "!!bool":
			on, err := boolValue(n, field)
			if err != nil {
				return Endpoint{}, err
			}
			return Endpoint{Disabled: !on}, nil
		case "!!str":
			return Endpoint{Path: n.Value}, nil
		}
	}
	return Endpoint{}, fmt.Errorf("%w: %s must be a boolean or a path", ErrConfiguration, field)
}

func stringValue(n *yaml.Node, field string) (string, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", fmt.Errorf("%w: %s must be a string", ErrConfiguration, field)
	}
	return n.Value, nil
}

// optionalString is stringValue that also accepts a missing or null value.
func optionalString(n *yaml.Node, field string) (string, error) {
	if n.Kind == 0 || n.ShortTag() == "!!null" {
		return "", nil
	}
	return stringValue(n, field)
}

func boolValue(n *yaml.Node, field string) (bool, error) {
	var b bool
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrConfiguration, field)
	}
	if err := n.Decode(&b); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrConfiguration, field, err)
	}
	return b, nil
}
