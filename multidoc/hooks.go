package multidoc

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/vitalvas/oasdocs/mux"
)

// BasicAuth returns an OnRequest hook that requires HTTP Basic credentials
// from the given username -> password map. Failed requests get 401 with a
// WWW-Authenticate challenge for realm ("Restricted" when empty).
//
// See: https://www.rfc-editor.org/rfc/rfc7617
func BasicAuth(realm string, credentials map[string]string) (mux.MiddlewareFunc, error) {
	if len(credentials) == 0 {
		return nil, fmt.Errorf("%w: basic auth requires at least one credential", ErrConfiguration)
	}
	if realm == "" {
		realm = "Restricted"
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if ok {
				expected, exists := credentials[username]
				// Compare even for unknown users so timing does not reveal them.
				match := constantTimeEqual(password, expected)
				if exists && match {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("WWW-Authenticate", challenge)
			w.WriteHeader(http.StatusUnauthorized)
		})
	}, nil
}

// constantTimeEqual hashes both sides first so differing lengths take the
// same time.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}

// AllowOrigins returns a hook that lets documentation UIs hosted on other
// origins fetch the document. Origins are compared case-insensitively and
// "*" allows any origin. Document endpoints only answer GET, which browsers
// send without a preflight.
//
// See: https://fetch.spec.whatwg.org/#http-cors-protocol
func AllowOrigins(origins ...string) mux.MiddlewareFunc {
	allowed := make([]string, len(origins))
	for i, o := range origins {
		allowed[i] = strings.ToLower(o)
	}
	wildcard := slices.Contains(allowed, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case origin == "":
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(allowed, strings.ToLower(origin)):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			next.ServeHTTP(w, r)
		})
	}
}
