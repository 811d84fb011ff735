package openapi

import "net/http"

var errorBody = map[string]*MediaType{
	"application/json": {
		Schema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"error": {Type: "string", Description: "Error message"},
			},
		},
	},
}

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: Name,-CreatedAt"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":      {Description: "Invalid request", Content: errorBody},
			"Unauthorized":    {Description: "Missing or invalid bearer token", Content: errorBody},
			"NotFound":        {Description: "Resource not found", Content: errorBody},
			"Conflict":        {Description: "Duplicate resource, sealed record, or invalid case transition", Content: errorBody},
			"PayloadTooLarge": {Description: "Upload exceeds the configured size limit", Content: errorBody},
		},
	}
}

// DefaultResponses returns the success and shared error responses for an operation.
func DefaultResponses(method string) map[int]*Response {
	responses := map[int]*Response{
		http.StatusOK:           {Description: "Success"},
		http.StatusBadRequest:   ResponseRef("BadRequest"),
		http.StatusUnauthorized: ResponseRef("Unauthorized"),
		http.StatusNotFound:     ResponseRef("NotFound"),
	}
	if method == http.MethodPost {
		responses[http.StatusCreated] = &Response{Description: "Created"}
		responses[http.StatusConflict] = ResponseRef("Conflict")
		responses[http.StatusRequestEntityTooLarge] = ResponseRef("PayloadTooLarge")
	}
	return responses
}
