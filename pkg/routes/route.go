package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
// Summary describes the operation in the generated API document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Summary string
}
