package multidoc

import (
	"errors"
	"fmt"

	"github.com/vitalvas/oasdocs/openapi"
)

// derive creates the document's generator on the shared spec. The user
// transform runs first and the classifier decides visibility on its output.
func derive(spec *openapi.Spec, d Document, c classifier) (*openapi.Spec, error) {
	gen, err := spec.Derive(d.Ref, d.Generator.Info)
	if err != nil {
		if errors.Is(err, openapi.ErrDerivedExists) {
			return nil, fmt.Errorf("%w: document %q is already registered on the spec", ErrConflict, d.Ref)
		}
		return nil, err
	}

	opts := d.Generator
	for _, srv := range opts.Servers {
		gen.AddServer(srv)
	}
	if len(opts.Security) > 0 {
		gen.SetSecurity(opts.Security...)
	}
	if opts.ExternalDocs != nil {
		gen.SetExternalDocs(opts.ExternalDocs.URL, opts.ExternalDocs.Description)
	}

	gen.SetTransform(openapi.ChainTransforms(opts.Transform, c.transform))

	return gen, nil
}
