package multidoc

import (
	"encoding/json"
	"maps"
)

// Source points a documentation UI at a served document.
type Source struct {
	Ref string

	// JSON and YAML are the externally visible URLs of the document. Empty
	// means the format is not served; it is encoded as null.
	JSON string
	YAML string

	DisplayName string
	Meta        map[string]any
}

type sourceWire struct {
	Ref         string         `json:"ref" yaml:"ref"`
	JSON        *string        `json:"json" yaml:"json"`
	YAML        *string        `json:"yaml" yaml:"yaml"`
	DisplayName string         `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Meta        map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

func (s Source) wire() sourceWire {
	return sourceWire{
		Ref:         s.Ref,
		JSON:        nullable(s.JSON),
		YAML:        nullable(s.YAML),
		DisplayName: s.DisplayName,
		Meta:        s.Meta,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalJSON encodes disabled formats as null.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// MarshalYAML encodes disabled formats as null.
func (s Source) MarshalYAML() (any, error) {
	return s.wire(), nil
}

// providerSource renders a source for a UI provider: url is the JSON URL
// (nil when JSON is disabled), nameKey carries the display name when one is
// set, and meta entries are copied last so they may override either.
func (s Source) providerSource(nameKey string) map[string]any {
	out := make(map[string]any, len(s.Meta)+2)
	if s.JSON != "" {
		out["url"] = s.JSON
	} else {
		out["url"] = nil
	}
	if s.DisplayName != "" {
		out[nameKey] = s.DisplayName
	}
	maps.Copy(out, s.Meta)
	return out
}

func (s Source) clone() Source {
	s.Meta = maps.Clone(s.Meta)
	return s
}
