package multidoc

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/oasdocs/mux"
	"github.com/vitalvas/oasdocs/openapi"
)

func TestAssign(t *testing.T) {
	t.Run("unassigned route", func(t *testing.T) {
		r := mux.NewRouter()
		assert.Nil(t, RouteRefs(r.HandleFunc("/a", noop)))
		assert.Nil(t, RouteRefs(nil))
	})

	t.Run("single and multiple refs", func(t *testing.T) {
		r := mux.NewRouter()
		assert.Equal(t, []string{"foo"}, RouteRefs(Assign(r.HandleFunc("/a", noop), "foo")))
		assert.Equal(t, []string{"foo", "bar"}, RouteRefs(Assign(r.HandleFunc("/b", noop), "foo", "bar")))
	})

	t.Run("later assignment replaces earlier", func(t *testing.T) {
		r := mux.NewRouter()
		route := Assign(r.HandleFunc("/a", noop), "foo")
		Assign(route, "bar")
		assert.Equal(t, []string{"bar"}, RouteRefs(route))
	})

	t.Run("inherited from subrouter parent", func(t *testing.T) {
		r := mux.NewRouter()
		admin := Assign(r.PathPrefix("/admin"), "internal").Subrouter()

		inherited := admin.HandleFunc("/users", noop)
		own := Assign(admin.HandleFunc("/public", noop), "public")

		assert.Equal(t, []string{"internal"}, RouteRefs(inherited))
		assert.Equal(t, []string{"public"}, RouteRefs(own))
	})

	t.Run("refs are copied", func(t *testing.T) {
		r := mux.NewRouter()
		refs := []string{"foo"}
		route := Assign(r.HandleFunc("/a", noop), refs...)
		refs[0] = "changed"

		got := RouteRefs(route)
		got[0] = "changed again"
		assert.Equal(t, []string{"foo"}, RouteRefs(route))
	})
}

func TestClassification(t *testing.T) {
	t.Run("by ref separates tagged routes", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{Router: r, Spec: spec, Documents: []Document{Ref("foo"), Ref("bar")}})
		require.NoError(t, err)

		assert.Equal(t, []string{"/api/v1/hello"}, documentPaths(t, reg, "foo"))
		assert.Equal(t, []string{"/api/v2/hello"}, documentPaths(t, reg, "bar"))
	})

	t.Run("untagged routes go to the default ref", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{
			Router:     r,
			Spec:       spec,
			DefaultRef: "foo",
			Documents:  []Document{Ref("foo"), Ref("bar")},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/api/v1/hello", "/health"}, documentPaths(t, reg, "foo"))
		assert.Equal(t, []string{"/api/v2/hello"}, documentPaths(t, reg, "bar"))
	})

	t.Run("route in several documents", func(t *testing.T) {
		r, spec := setupRouter()
		spec.Route(Assign(r.HandleFunc("/shared", noop).Methods(http.MethodGet), "foo", "bar")).
			Summary("Shared")

		reg, err := Register(Config{Router: r, Spec: spec, Documents: []Document{Ref("foo"), Ref("bar")}})
		require.NoError(t, err)

		assert.Contains(t, documentPaths(t, reg, "foo"), "/shared")
		assert.Contains(t, documentPaths(t, reg, "bar"), "/shared")
	})

	t.Run("subrouter assignment", func(t *testing.T) {
		r, spec := setupRouter()
		admin := Assign(r.PathPrefix("/admin"), "bar").Subrouter()
		spec.Route(admin.HandleFunc("/users", noop).Methods(http.MethodGet)).Summary("List users")

		reg, err := Register(Config{Router: r, Spec: spec, Documents: []Document{Ref("foo"), Ref("bar")}})
		require.NoError(t, err)

		assert.Equal(t, []string{"/admin/users", "/api/v2/hello"}, documentPaths(t, reg, "bar"))
		assert.NotContains(t, documentPaths(t, reg, "foo"), "/admin/users")
	})

	t.Run("by prefix", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{
			Router:    r,
			Spec:      spec,
			Documents: []Document{{Ref: "v1", URLPrefixes: []string{"/api/v1"}}},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/api/v1/hello"}, documentPaths(t, reg, "v1"))
	})

	t.Run("by prefix matches any listed prefix", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{
			Router: r,
			Spec:   spec,
			Documents: []Document{{
				Ref:         "ops",
				Selector:    SelectByPrefix,
				URLPrefixes: []string{"/health", "/api/v2"},
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/api/v2/hello", "/health"}, documentPaths(t, reg, "ops"))
	})

	t.Run("custom", func(t *testing.T) {
		r, spec := setupRouter()

		var seen []string
		reg, err := Register(Config{
			Router: r,
			Spec:   spec,
			Documents: []Document{{
				Ref: "public",
				Match: func(route RouteInfo, url string) bool {
					seen = append(seen, url)
					return route.Route != nil && route.Schema.HasTag("public")
				},
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/api/v1/hello"}, documentPaths(t, reg, "public"))
		assert.ElementsMatch(t, []string{"/api/v1/hello", "/api/v2/hello", "/health"}, seen)
	})

	t.Run("explicit hide wins for every selector", func(t *testing.T) {
		r, spec := setupRouter()
		spec.Route(Assign(r.HandleFunc("/api/v1/secret", noop).Methods(http.MethodGet), "foo")).
			Summary("Secret").
			Tags("public").
			Hide()

		reg, err := Register(Config{
			Router: r,
			Spec:   spec,
			Documents: []Document{
				Ref("foo"),
				{Ref: "v1", URLPrefixes: []string{"/api/v1"}},
				{Ref: "all", Match: func(RouteInfo, string) bool { return true }},
			},
		})
		require.NoError(t, err)

		for _, ref := range reg.Refs() {
			assert.NotContains(t, documentPaths(t, reg, ref), "/api/v1/secret", ref)
		}
	})

	t.Run("hide from the document transform wins", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{
			Router: r,
			Spec:   spec,
			Documents: []Document{{
				Ref:         "v1",
				URLPrefixes: []string{"/api"},
				Generator: GeneratorOptions{
					Transform: func(_ *mux.Route, schema openapi.RouteSchema, url string) (openapi.RouteSchema, string) {
						schema.Hide = strings.Contains(url, "/v2/")
						return schema, url
					},
				},
			}},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/api/v1/hello"}, documentPaths(t, reg, "v1"))
	})

	t.Run("selector sees the transformed url", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{
			Router: r,
			Spec:   spec,
			Documents: []Document{{
				Ref:         "public",
				URLPrefixes: []string{"/public"},
				Generator: GeneratorOptions{
					Transform: func(_ *mux.Route, schema openapi.RouteSchema, url string) (openapi.RouteSchema, string) {
						schema.Summary = "Public: " + schema.Summary
						return schema, strings.Replace(url, "/api/v1", "/public", 1)
					},
				},
			}},
		})
		require.NoError(t, err)

		doc, err := reg.Document("public")
		require.NoError(t, err)
		require.Contains(t, doc.Paths, "/public/hello")
		assert.Len(t, doc.Paths, 1)
		assert.Equal(t, "Public: Hello v1", doc.Paths["/public/hello"].Get.Summary)
	})

	t.Run("transform does not leak into other documents", func(t *testing.T) {
		r, spec := setupRouter()
		reg, err := Register(Config{
			Router:     r,
			Spec:       spec,
			DefaultRef: "foo",
			Documents: []Document{
				{
					Ref: "foo",
					Generator: GeneratorOptions{
						Transform: func(_ *mux.Route, schema openapi.RouteSchema, url string) (openapi.RouteSchema, string) {
							schema.Tags = append(schema.Tags, "rewritten")
							return schema, url
						},
					},
				},
				{Ref: "all", Match: func(RouteInfo, string) bool { return true }},
			},
		})
		require.NoError(t, err)

		foo, err := reg.Document("foo")
		require.NoError(t, err)
		assert.Equal(t, []string{"public", "rewritten"}, foo.Paths["/api/v1/hello"].Get.Tags)

		all, err := reg.Document("all")
		require.NoError(t, err)
		assert.Equal(t, []string{"public"}, all.Paths["/api/v1/hello"].Get.Tags)
	})
}

func TestClassifier(t *testing.T) {
	r := mux.NewRouter()
	tagged := Assign(r.HandleFunc("/a", noop), "foo")
	untagged := r.HandleFunc("/b", noop)

	tests := []struct {
		name  string
		c     classifier
		route *mux.Route
		url   string
		want  bool
	}{
		{"ref match", classifier{ref: "foo", selector: SelectByRef}, tagged, "/a", true},
		{"ref mismatch", classifier{ref: "bar", selector: SelectByRef}, tagged, "/a", false},
		{"untagged without default", classifier{ref: "foo", selector: SelectByRef}, untagged, "/b", false},
		{"untagged with own default", classifier{ref: "foo", selector: SelectByRef, defaultRef: "foo"}, untagged, "/b", true},
		{"untagged with other default", classifier{ref: "bar", selector: SelectByRef, defaultRef: "foo"}, untagged, "/b", false},
		{"tagged ignores default", classifier{ref: "bar", selector: SelectByRef, defaultRef: "bar"}, tagged, "/a", false},
		{"prefix match", classifier{ref: "x", selector: SelectByPrefix, prefixes: []string{"/a"}}, untagged, "/api/v1/hello", true},
		{"prefix mismatch", classifier{ref: "x", selector: SelectByPrefix, prefixes: []string{"/api/v1"}}, untagged, "/api/v2/hello", false},
		{"custom", classifier{ref: "x", selector: SelectCustom, match: func(_ RouteInfo, url string) bool { return url == "/b" }}, untagged, "/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.includes(tt.route, openapi.RouteSchema{}, tt.url))

			schema, url := tt.c.transform(tt.route, openapi.RouteSchema{Summary: "s"}, tt.url)
			assert.Equal(t, !tt.want, schema.Hide)
			assert.Equal(t, "s", schema.Summary)
			assert.Equal(t, tt.url, url)
		})
	}

	t.Run("hidden input stays hidden", func(t *testing.T) {
		c := classifier{ref: "foo", selector: SelectByRef}
		schema, _ := c.transform(tagged, openapi.RouteSchema{Hide: true}, "/a")
		assert.True(t, schema.Hide)
	})
}
