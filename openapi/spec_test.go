package openapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/oasdocs/mux"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name" openapi:"minLength=1"`
}

func dummyHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func setupTestRouter() (*mux.Router, *Spec) {
	r := mux.NewRouter()
	spec := NewSpec(Info{Title: "Test API", Version: "1.0.0"})

	spec.Route(r.HandleFunc("/items", dummyHandler).Methods(http.MethodGet)).
		Summary("List items").
		Tags("items").
		Response(http.StatusOK, []item{})

	spec.Route(r.HandleFunc("/items/{id:uuid}", dummyHandler).Methods(http.MethodGet)).
		Summary("Get item").
		Tags("items").
		Response(http.StatusOK, item{})

	r.HandleFunc("/admin/items", dummyHandler).Methods(http.MethodPost).Name("createItem")
	spec.Op("createItem").
		Summary("Create item").
		Tags("admin").
		Request(item{}).
		Response(http.StatusCreated, item{})

	return r, spec
}

func TestBuild(t *testing.T) {
	t.Run("documents annotated routes", func(t *testing.T) {
		r, spec := setupTestRouter()
		r.HandleFunc("/undocumented", dummyHandler).Methods(http.MethodGet)

		doc := spec.Build(r)

		assert.Equal(t, "3.1.0", doc.OpenAPI)
		assert.Equal(t, "Test API", doc.Info.Title)
		assert.Len(t, doc.Paths, 3)
		require.Contains(t, doc.Paths, "/items/{id}")
		assert.NotContains(t, doc.Paths, "/undocumented")

		get := doc.Paths["/items/{id}"].Get
		require.NotNil(t, get)
		require.Len(t, get.Parameters, 1)
		assert.Equal(t, "id", get.Parameters[0].Name)
		assert.Equal(t, "uuid", get.Parameters[0].Schema.Format)

		post := doc.Paths["/admin/items"].Post
		require.NotNil(t, post)
		assert.Equal(t, "createItem", post.OperationID)
		assert.Contains(t, doc.Components.Schemas, "item")
	})

	t.Run("hidden routes are skipped", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.Route(r.HandleFunc("/internal", dummyHandler).Methods(http.MethodGet)).
			Summary("Internal").
			Hide()

		doc := spec.Build(r)
		assert.NotContains(t, doc.Paths, "/internal")
	})

	t.Run("routes registered after a build", func(t *testing.T) {
		r, spec := setupTestRouter()
		first := spec.Build(r)

		spec.Route(r.HandleFunc("/late", dummyHandler).Methods(http.MethodGet)).Summary("Late")
		second := spec.Build(r)

		assert.NotContains(t, first.Paths, "/late")
		assert.Contains(t, second.Paths, "/late")
	})

	t.Run("hidden webhooks are skipped", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.Webhook("itemCreated", http.MethodPost).Summary("Item created").Request(item{})
		spec.Webhook("itemPurged", http.MethodPost).Summary("Item purged").Hide()

		doc := spec.Build(r)
		assert.Contains(t, doc.Webhooks, "itemCreated")
		assert.NotContains(t, doc.Webhooks, "itemPurged")
	})

	t.Run("no webhooks when all are hidden", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.Webhook("itemPurged", http.MethodPost).Hide()

		assert.Nil(t, spec.Build(r).Webhooks)
	})
}

func TestTransform(t *testing.T) {
	t.Run("hide by tag", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.SetTransform(func(_ *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			schema.Hide = schema.HasTag("admin")
			return schema, url
		})

		doc := spec.Build(r)
		assert.Contains(t, doc.Paths, "/items")
		assert.NotContains(t, doc.Paths, "/admin/items")
	})

	t.Run("rewrite schema and url", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.SetTransform(func(_ *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			schema.Summary = strings.ToUpper(schema.Summary)
			schema.Deprecated = true
			return schema, "/v1" + url
		})

		doc := spec.Build(r)
		require.Contains(t, doc.Paths, "/v1/items/{id}")
		op := doc.Paths["/v1/items/{id}"].Get
		assert.Equal(t, "GET ITEM", op.Summary)
		assert.True(t, op.Deprecated)
		require.Len(t, op.Parameters, 1)
		assert.Equal(t, "uuid", op.Parameters[0].Schema.Format)
	})

	t.Run("receives route and template", func(t *testing.T) {
		r, spec := setupTestRouter()
		seen := map[string]string{}
		spec.SetTransform(func(route *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			tpl, err := route.GetPathTemplate()
			require.NoError(t, err)
			assert.Equal(t, tpl, url)
			seen[url] = schema.OperationID
			return schema, url
		})

		spec.Build(r)
		assert.Equal(t, "createItem", seen["/admin/items"])
		assert.Len(t, seen, 3)
	})

	t.Run("schema changes do not leak into the builder", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.SetTransform(func(_ *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			if len(schema.Tags) > 0 {
				schema.Tags[0] = "mutated"
			}
			return schema, url
		})
		spec.Build(r)

		spec.SetTransform(nil)
		doc := spec.Build(r)
		assert.Equal(t, []string{"items"}, doc.Paths["/items"].Get.Tags)
	})

	t.Run("hidden routes never reach the transform", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.Route(r.HandleFunc("/internal", dummyHandler).Methods(http.MethodGet)).Hide()

		spec.SetTransform(func(_ *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			assert.NotEqual(t, "/internal", url)
			return schema, url
		})
		spec.Build(r)
	})
}

func TestChainTransforms(t *testing.T) {
	appendTag := func(tag string) TransformFunc {
		return func(_ *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			schema.Tags = append(schema.Tags, tag)
			return schema, url + "/" + tag
		}
	}

	fn := ChainTransforms(appendTag("a"), nil, appendTag("b"))
	schema, url := fn(nil, RouteSchema{}, "")

	assert.Equal(t, []string{"a", "b"}, schema.Tags)
	assert.Equal(t, "/a/b", url)

	schema, url = ChainTransforms()(nil, RouteSchema{Summary: "s"}, "/x")
	assert.Equal(t, RouteSchema{Summary: "s"}, schema)
	assert.Equal(t, "/x", url)
}

func TestDerive(t *testing.T) {
	t.Run("shares operations", func(t *testing.T) {
		r, spec := setupTestRouter()
		public, err := spec.Derive("public", Info{Title: "Public API", Version: "2.0.0"})
		require.NoError(t, err)

		doc := public.Build(r)
		assert.Equal(t, "Public API", doc.Info.Title)
		assert.Len(t, doc.Paths, 3)

		got, ok := spec.Derived("public")
		require.True(t, ok)
		assert.Same(t, public, got)
	})

	t.Run("annotations through a derived spec land in the catalog", func(t *testing.T) {
		r, spec := setupTestRouter()
		public, err := spec.Derive("public", Info{})
		require.NoError(t, err)

		public.Route(r.HandleFunc("/extra", dummyHandler).Methods(http.MethodGet)).Summary("Extra")
		public.AddTag(Tag{Name: "items", Description: "Item operations"})

		doc := spec.Build(r)
		assert.Contains(t, doc.Paths, "/extra")
		assert.Contains(t, doc.Tags, Tag{Name: "items", Description: "Item operations"})
	})

	t.Run("zero info inherits the root", func(t *testing.T) {
		_, spec := setupTestRouter()
		d, err := spec.Derive("copy", Info{})
		require.NoError(t, err)
		assert.Equal(t, spec.Info(), d.Info())
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, spec := setupTestRouter()
		d, err := spec.Derive("public", Info{})
		require.NoError(t, err)

		_, err = spec.Derive("public", Info{})
		require.ErrorIs(t, err, ErrDerivedExists)
		assert.Contains(t, err.Error(), `"public"`)

		// Names are claimed on the root, whichever spec derives.
		_, err = d.Derive("public", Info{})
		assert.ErrorIs(t, err, ErrDerivedExists)
	})

	t.Run("document fields fall back to the root", func(t *testing.T) {
		r, spec := setupTestRouter()
		spec.AddServer(Server{URL: "https://api.example.com"})
		spec.SetSecurity(SecurityRequirement{"bearer": {}})
		spec.SetExternalDocs("https://docs.example.com", "")

		plain, err := spec.Derive("plain", Info{})
		require.NoError(t, err)
		own, err := spec.Derive("own", Info{})
		require.NoError(t, err)
		own.AddServer(Server{URL: "https://own.example.com"})

		doc := plain.Build(r)
		assert.Equal(t, []Server{{URL: "https://api.example.com"}}, doc.Servers)
		assert.Equal(t, []SecurityRequirement{{"bearer": {}}}, doc.Security)
		require.NotNil(t, doc.ExternalDocs)

		assert.Equal(t, []Server{{URL: "https://own.example.com"}}, own.Build(r).Servers)
	})

	t.Run("transforms are per spec", func(t *testing.T) {
		r, spec := setupTestRouter()
		admin, err := spec.Derive("admin", Info{})
		require.NoError(t, err)
		admin.SetTransform(func(_ *mux.Route, schema RouteSchema, url string) (RouteSchema, string) {
			schema.Hide = !schema.HasTag("admin")
			return schema, url
		})

		assert.Len(t, spec.Build(r).Paths, 3)
		assert.Len(t, admin.Build(r).Paths, 1)
	})
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		tpl    string
		path   string
		params []string
	}{
		{"/items", "/items", nil},
		{"/items/{id}", "/items/{id}", []string{"id"}},
		{"/items/{id:uuid}/parts/{n:int}", "/items/{id}/parts/{n}", []string{"id", "n"}},
	}
	for _, tt := range tests {
		t.Run(tt.tpl, func(t *testing.T) {
			path, params := parsePath(tt.tpl)
			assert.Equal(t, tt.path, path)

			var names []string
			for _, p := range params {
				names = append(names, p.Name)
				assert.Equal(t, "path", p.In)
				assert.True(t, p.Required)
			}
			assert.Equal(t, tt.params, names)
		})
	}
}

func TestParsePathTyping(t *testing.T) {
	path, params := parsePath("/countries/{code:[a-z]{2}}/days/{d:date}")
	assert.Equal(t, "/countries/{code}/days/{d}", path)
	require.Len(t, params, 2)
	assert.Equal(t, []string{"string"}, params[0].Schema.Type.Values())
	assert.Empty(t, params[0].Schema.Format)
	assert.Equal(t, "date", params[1].Schema.Format)

	_, params = parsePath("/n/{n:int}")
	assert.Equal(t, []string{"integer"}, params[0].Schema.Type.Values())
}

func TestOperationBuilder(t *testing.T) {
	r := mux.NewRouter()
	spec := NewSpec(Info{Title: "Test API", Version: "1.0.0"})
	spec.AddSecurityScheme("basicAuth", &SecurityScheme{Type: "http", Scheme: "basic"})

	spec.Route(r.HandleFunc("/items/{id:uuid}", dummyHandler).Methods(http.MethodPut, http.MethodPatch)).
		Parameter(&Parameter{Name: "id", In: "path", Required: true, Description: "Item ID"}).
		Parameter(&Parameter{Name: "dry", In: "query"}).
		RequestContent("text/plain", nil).
		Response(http.StatusNoContent, nil).
		ResponseHeader(http.StatusNoContent, "ETag", &Header{Schema: &Schema{Type: TypeString("string")}}).
		ResponseDescription(http.StatusNoContent, "Stored").
		Response(499, nil).
		Security()

	doc := spec.Build(r)
	item := doc.Paths["/items/{id}"]
	require.NotNil(t, item)
	assert.Same(t, item.Put, item.Patch)

	op := item.Put
	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "Item ID", op.Parameters[0].Description)
	assert.Equal(t, "dry", op.Parameters[1].Name)

	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Required)
	require.Contains(t, op.RequestBody.Content, "text/plain")
	assert.Nil(t, op.RequestBody.Content["text/plain"].Schema)

	resp := op.Responses["204"]
	require.NotNil(t, resp)
	assert.Equal(t, "Stored", resp.Description)
	assert.Nil(t, resp.Content)
	assert.Contains(t, resp.Headers, "ETag")
	assert.Equal(t, "499", op.Responses["499"].Description)

	assert.NotNil(t, op.Security)
	assert.Empty(t, op.Security)

	require.NotNil(t, doc.Components)
	assert.Contains(t, doc.Components.SecuritySchemes, "basicAuth")
	assert.Nil(t, doc.Components.Schemas)
}
