package mux

import (
	"context"
	"net/http"
)

type contextKey int

const (
	varsKey contextKey = iota
	routeKey
)

// Vars returns the route variables of the request, if any.
func Vars(r *http.Request) map[string]string {
	if v, ok := r.Context().Value(varsKey).(map[string]string); ok {
		return v
	}
	return nil
}

// VarGet returns a single route variable.
func VarGet(r *http.Request, name string) (string, bool) {
	v, ok := Vars(r)[name]
	return v, ok
}

// CurrentRoute returns the route that matched the request. It is only set
// inside handlers and middleware dispatched by a Router.
func CurrentRoute(r *http.Request) *Route {
	if rt, ok := r.Context().Value(routeKey).(*Route); ok {
		return rt
	}
	return nil
}

func withRoute(r *http.Request, route *Route, vars map[string]string) *http.Request {
	ctx := context.WithValue(r.Context(), routeKey, route)
	ctx = context.WithValue(ctx, varsKey, vars)
	return r.WithContext(ctx)
}
