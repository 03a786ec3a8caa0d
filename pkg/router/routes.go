package router

import (
	"fmt"
	"net/http"
	"strings"
)

// Route maps one method and path to a fixed response body.
type Route struct {
	Method string `json:"method" yaml:"method"`
	Path   string `json:"path" yaml:"path"`
	Body   string `json:"body" yaml:"body"`
}

// DefaultRoutes returns the home and about pages.
func DefaultRoutes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/", Body: "Hello World"},
		{Method: http.MethodGet, Path: "/about", Body: "This is about page"},
	}
}

// RouteTable is an immutable set of routes. Each (method, path) pair
// appears at most once.
type RouteTable struct {
	routes []Route
	index  map[string]int
}

func routeKey(method, path string) string {
	return method + " " + path
}

// NewRouteTable validates routes and copies them into a table. Methods are
// upper-cased; paths must start with "/".
func NewRouteTable(routes ...Route) (*RouteTable, error) {
	t := &RouteTable{
		routes: make([]Route, 0, len(routes)),
		index:  make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
		if r.Method == "" {
			return nil, fmt.Errorf("route %q: method is required", r.Path)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %s %q: path must start with /", r.Method, r.Path)
		}

		key := routeKey(r.Method, r.Path)
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("duplicate route %s", key)
		}
		t.index[key] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// MustNewRouteTable is NewRouteTable that panics on error.
func MustNewRouteTable(routes ...Route) *RouteTable {
	t, err := NewRouteTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the route registered for method and path.
func (t *RouteTable) Lookup(method, path string) (Route, bool) {
	i, ok := t.index[routeKey(method, path)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Routes returns a copy of the routes in registration order.
func (t *RouteTable) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Len returns the number of routes.
func (t *RouteTable) Len() int {
	return len(t.routes)
}
