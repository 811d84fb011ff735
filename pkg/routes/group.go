package routes

import "net/http"

// Group organizes routes under a common prefix with shared tags.
// A child group without tags inherits its parent's.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	walk("", nil, groups, func(pattern string, _ []string, r Route) {
		mux.HandleFunc(pattern, r.Handler)
	})
}

// Patterns returns the ServeMux pattern of every route in groups, in registration order.
func Patterns(groups ...Group) []string {
	var patterns []string
	walk("", nil, groups, func(pattern string, _ []string, _ Route) {
		patterns = append(patterns, pattern)
	})
	return patterns
}

func walk(parentPrefix string, parentTags []string, groups []Group, fn func(pattern string, tags []string, r Route)) {
	for _, group := range groups {
		fullPrefix := parentPrefix + group.Prefix
		tags := group.Tags
		if len(tags) == 0 {
			tags = parentTags
		}
		for _, route := range group.Routes {
			fn(route.Method+" "+fullPrefix+route.Pattern, tags, route)
		}
		walk(fullPrefix, tags, group.Children, fn)
	}
}
