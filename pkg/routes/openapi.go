package routes

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/verum/pkg/openapi"
)

var wildcard = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)(?:\.\.\.)?\}`)

// Document adds an operation to spec for every route in groups.
// Path wildcards become required path parameters, and every operation
// carries the shared error responses.
func Document(spec *openapi.Spec, groups ...Group) {
	walk("", nil, groups, func(pattern string, tags []string, r Route) {
		method, path, _ := strings.Cut(pattern, " ")
		if path == "" {
			path = "/"
		}

		op := &openapi.Operation{
			Summary:   r.Summary,
			Tags:      tags,
			Responses: openapi.DefaultResponses(method),
		}
		for _, m := range wildcard.FindAllStringSubmatch(path, -1) {
			op.Parameters = append(op.Parameters, openapi.PathParam(m[1], ""))
		}

		spec.AddOperation(method, wildcard.ReplaceAllString(path, "{$1}"), op)
	})
}
