package multidoc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/oasdocs/mux"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		name string
		want Selector
	}{
		{"", SelectAuto},
		{"auto", SelectAuto},
		{"ref", SelectByRef},
		{"prefix", SelectByPrefix},
		{"custom", SelectCustom},
		{" Prefix ", SelectByPrefix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelector(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseSelector("tag")
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), `"ref", "prefix", "custom"`)
	})
}

func TestSelectorString(t *testing.T) {
	assert.Equal(t, "ref", SelectByRef.String())
	assert.Equal(t, "prefix", SelectByPrefix.String())
	assert.Equal(t, "custom", SelectCustom.String())
	assert.Equal(t, "auto", SelectAuto.String())
	assert.Equal(t, "Selector(42)", Selector(42).String())
}

func TestDocumentValidate(t *testing.T) {
	match := func(RouteInfo, string) bool { return true }

	t.Run("inferred selector", func(t *testing.T) {
		tests := []struct {
			name string
			doc  Document
			want Selector
		}{
			{"bare ref", Ref("foo"), SelectByRef},
			{"prefixes", Document{Ref: "foo", URLPrefixes: []string{"/api"}}, SelectByPrefix},
			{"match", Document{Ref: "foo", Match: match}, SelectCustom},
			{"explicit", Document{Ref: "foo", Selector: SelectByPrefix, URLPrefixes: []string{"/api"}}, SelectByPrefix},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := tt.doc.validate()
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			doc  Document
		}{
			{"empty ref", Document{}},
			{"unknown selector", Document{Ref: "foo", Selector: Selector(42)}},
			{"prefix without prefixes", Document{Ref: "foo", Selector: SelectByPrefix}},
			{"prefix with empty prefix", Document{Ref: "foo", URLPrefixes: []string{"/api", ""}}},
			{"prefix with match", Document{Ref: "foo", Selector: SelectByPrefix, URLPrefixes: []string{"/api"}, Match: match}},
			{"custom without match", Document{Ref: "foo", Selector: SelectCustom}},
			{"match and prefixes", Document{Ref: "foo", URLPrefixes: []string{"/api"}, Match: match}},
			{"ref with prefixes", Document{Ref: "foo", Selector: SelectByRef, URLPrefixes: []string{"/api"}}},
			{"ref with match", Document{Ref: "foo", Selector: SelectByRef, Match: match}},
			{"disabled with path", Document{Ref: "foo", Exposition: Exposition{JSON: Endpoint{Disabled: true, Path: "/a.json"}}}},
			{"relative path", Document{Ref: "foo", Exposition: Exposition{YAML: Endpoint{Path: "a.yaml"}}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.doc.validate()
				assert.ErrorIs(t, err, ErrConfiguration)
			})
		}
	})

	t.Run("unknown selector lists valid names", func(t *testing.T) {
		_, err := Document{Ref: "foo", Selector: Selector(42)}.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"ref", "prefix", "custom"`)
	})
}

func TestExposition(t *testing.T) {
	assert.Equal(t, Exposition{JSON: Endpoint{Disabled: true}, YAML: Endpoint{Disabled: true}}, ExposeNone())
	assert.Equal(t, Exposition{JSON: Endpoint{Path: "/a.json"}, YAML: Endpoint{Disabled: true}}, ExposeJSON("/a.json"))
	assert.Equal(t, Exposition{JSON: Endpoint{Disabled: true}, YAML: Endpoint{}}, ExposeYAML(""))
}

func TestPlanPublication(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		exp    Exposition
		prefix string
		want   publication
	}{
		{"defaults", 0, Exposition{}, "", publication{json: "/doc-0/json", yaml: "/doc-0/yaml"}},
		{"index", 3, Exposition{}, "", publication{json: "/doc-3/json", yaml: "/doc-3/yaml"}},
		{"prefix", 0, Exposition{}, "/docs", publication{json: "/docs/doc-0/json", yaml: "/docs/doc-0/yaml"}},
		{"prefix trailing slash", 0, Exposition{}, "/docs/", publication{json: "/docs/doc-0/json", yaml: "/docs/doc-0/yaml"}},
		{"root prefix", 0, Exposition{}, "/", publication{json: "/doc-0/json", yaml: "/doc-0/yaml"}},
		{"none", 1, ExposeNone(), "/docs", publication{}},
		{"custom path", 0, ExposeJSON("/openapi.json"), "/docs", publication{json: "/docs/openapi.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planPublication(tt.index, tt.exp, tt.prefix))
		})
	}
}

func TestHooksWrap(t *testing.T) {
	t.Run("no hooks", func(t *testing.T) {
		h := Hooks{}.wrap(http.HandlerFunc(noop))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header set by each hook", func(t *testing.T) {
		set := func(key string) mux.MiddlewareFunc {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					w.Header().Add("X-Order", key)
					next.ServeHTTP(w, req)
				})
			}
		}

		h := Hooks{
			OnRequest:  []mux.MiddlewareFunc{set("on-request")},
			PreHandler: []mux.MiddlewareFunc{set("pre-handler")},
		}.wrap(http.HandlerFunc(noop))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"on-request", "pre-handler"}, w.Header().Values("X-Order"))
	})
}
