package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
)

// Content types used when serving documents.
const (
	ContentTypeJSON = "application/json"
	ContentTypeYAML = "application/x-yaml"
)

// BuildFunc produces the document to serve.
type BuildFunc func() (*Document, error)

// EncodeJSON serializes the document as indented JSON.
//
// See: https://spec.openapis.org/oas/v3.1.0#format
func EncodeJSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// EncodeYAML serializes the document as YAML. The document is encoded to
// JSON first and the result re-emitted as block-style YAML, so field names
// and key order match the JSON form and the YAML parses back to an equal
// structure.
//
// See: https://spec.openapis.org/oas/v3.1.0#format
func EncodeYAML(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("openapi: convert document to yaml: %w", err)
	}
	resetStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// resetStyle drops the flow and quoting styles picked up from the JSON
// input. The encoder still quotes strings whose plain form would resolve
// to another type.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}

// JSONHandler serves the document returned by build as JSON. The document is
// built on every request. A failing or panicking build answers 500.
func JSONHandler(build BuildFunc) http.Handler {
	return documentHandler(build, EncodeJSON, ContentTypeJSON, "failed to serialize OpenAPI spec as JSON")
}

// YAMLHandler serves the document returned by build as YAML. The document is
// built on every request. A failing or panicking build answers 500.
func YAMLHandler(build BuildFunc) http.Handler {
	return documentHandler(build, EncodeYAML, ContentTypeYAML, "failed to serialize OpenAPI spec as YAML")
}

func documentHandler(build BuildFunc, encode func(*Document) ([]byte, error), contentType, failure string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data, err := safeEncode(build, encode)
		if err != nil {
			http.Error(w, failure, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// safeEncode runs build and encode, converting a panic into an error.
func safeEncode(build BuildFunc, encode func(*Document) ([]byte, error)) (data []byte, err error) {
	defer func() {
		if rv := recover(); rv != nil {
			err = fmt.Errorf("%v", rv)
		}
	}()
	doc, err := build()
	if err != nil {
		return nil, err
	}
	return encode(doc)
}
