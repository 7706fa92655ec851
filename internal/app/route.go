package app

import "strings"

// Route is a view address.
type Route string

const (
	RouteLogin     Route = "/"
	RouteDashboard Route = "/dashboard"
)

// Routes returns every known route.
func Routes() []Route {
	return []Route{RouteLogin, RouteDashboard}
}

// Resolve maps a request path to a route. Unknown paths resolve to [RouteLogin].
func Resolve(path string) Route {
	p := strings.TrimRight(path, "/")
	if p == "" {
		return RouteLogin
	}
	for _, r := range Routes() {
		if string(r) == p {
			return r
		}
	}
	return RouteLogin
}

func (r Route) String() string { return string(r) }
