package app

import "strings"

// Route is a view the navigation shell can show.
type Route string

const (
	RouteDashboard Route = "/dashboard"
	RouteLog       Route = "/log"
)

// ResolveRoute maps a path alias to a Route. "/" and unknown paths land on
// the dashboard.
func ResolveRoute(path string) Route {
	p := strings.TrimSpace(path)
	if p != "/" {
		p = strings.TrimRight(p, "/")
	}
	switch p {
	case string(RouteLog), "log":
		return RouteLog
	default:
		return RouteDashboard
	}
}

// Title is the navigation label for r.
func (r Route) Title() string {
	if r == RouteLog {
		return "Log Entry"
	}
	return "Dashboard"
}
