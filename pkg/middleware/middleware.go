// Package middleware provides the HTTP middleware shared by service modules.
package middleware

import "net/http"

// Chain is an ordered middleware stack. The first entry is the outermost wrapper.
type Chain []func(http.Handler) http.Handler

// Then wraps handler with every middleware in the chain.
func (c Chain) Then(handler http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		handler = c[i](handler)
	}
	return handler
}
