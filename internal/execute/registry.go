package execute

import (
	"fmt"
	"sort"
	"strings"
)

// Backend names used in routes.
const (
	BackendRust    = "rust"
	BackendGeneric = "generic"
)

// Route tells the dispatcher which backend handles an alias and what
// language parameter to send it.
type Route struct {
	Backend  string
	Language string
}

// builtinRoutes is the default alias table.
var builtinRoutes = map[string]Route{
	"rust":       {Backend: BackendRust},
	"c":          {Backend: BackendGeneric, Language: "c"},
	"go":         {Backend: BackendGeneric, Language: "go"},
	"cpp":        {Backend: BackendGeneric, Language: "cpp"},
	"java":       {Backend: BackendGeneric, Language: "java"},
	"cs":         {Backend: BackendGeneric, Language: "cs"},
	"r":          {Backend: BackendGeneric, Language: "r"},
	"js":         {Backend: BackendGeneric, Language: "node"},
	"javascript": {Backend: BackendGeneric, Language: "node"},
	"ts":         {Backend: BackendGeneric, Language: "ts"},
	"typescript": {Backend: BackendGeneric, Language: "ts"},
	"py":         {Backend: BackendGeneric, Language: "py"},
	"python":     {Backend: BackendGeneric, Language: "py"},
}

// Registry maps normalized language aliases to routes. It is read-only
// after construction.
type Registry struct {
	routes map[string]Route
}

// NewRegistry builds a registry from the built-in table plus extra aliases.
// Extra entries override built-ins with the same alias.
func NewRegistry(extra map[string]Route) *Registry {
	routes := make(map[string]Route, len(builtinRoutes)+len(extra))
	for alias, route := range builtinRoutes {
		routes[alias] = route
	}
	for alias, route := range extra {
		routes[Normalize(alias)] = route
	}
	return &Registry{routes: routes}
}

// Normalize lower-cases a language tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Resolve finds the route for a tag.
func (r *Registry) Resolve(tag string) (Route, error) {
	alias := Normalize(tag)
	if alias == "" {
		return Route{}, &DispatchError{Kind: NoLanguageSpecified}
	}
	route, ok := r.routes[alias]
	if !ok {
		return Route{}, &DispatchError{Kind: UnsupportedLanguage, Language: alias}
	}
	return route, nil
}

// Aliases returns all known aliases, sorted.
func (r *Registry) Aliases() []string {
	out := make([]string, 0, len(r.routes))
	for alias := range r.routes {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Backends returns the distinct backend names referenced by routes, sorted.
func (r *Registry) Backends() []string {
	seen := make(map[string]struct{})
	for _, route := range r.routes {
		seen[route.Backend] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// checkBackends ensures every route points at a known backend.
func (r *Registry) checkBackends(known map[string]Backend) error {
	for _, alias := range r.Aliases() {
		route := r.routes[alias]
		if _, ok := known[route.Backend]; !ok {
			return fmt.Errorf("language %q routes to unknown backend %q", alias, route.Backend)
		}
	}
	return nil
}
