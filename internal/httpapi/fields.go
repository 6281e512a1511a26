package httpapi

import (
	"net/http"
	"strings"
)

// Field-shape checks evaluated against the loose request body before any
// handler logic. Each mirrors a transport-level rule of the API contract:
// the first failing check terminates the request.

// requireFields rejects when any named field is absent from the body.
func requireFields(w http.ResponseWriter, body map[string]any, fields ...string) bool {
	for _, field := range fields {
		if _, ok := body[field]; !ok {
			writeProblem(w, http.StatusBadRequest, "Validation Error",
				"Missing field '"+field+"' in your request body")
			return false
		}
	}
	return true
}

// forbidFields rejects when a private field appears in the body. Role is
// the canonical case: clients never choose their own role.
func forbidFields(w http.ResponseWriter, body map[string]any, fields ...string) bool {
	for _, field := range fields {
		if _, ok := body[field]; ok {
			writeProblem(w, http.StatusBadRequest, "Validation Error",
				"Field not allowed '"+field+"' in your request body")
			return false
		}
	}
	return true
}

// stringFields rejects with 422 when a field is present but not a JSON
// string.
func stringFields(w http.ResponseWriter, body map[string]any, fields ...string) bool {
	for _, field := range fields {
		if _, ok := body[field].(string); !ok {
			writeProblem(w, http.StatusUnprocessableEntity, "Incorrect field type: expected String",
				"There is an incorrect field type for "+field+" in your request body")
			return false
		}
	}
	return true
}

// trimmedFields rejects when a string field carries surrounding
// whitespace. Username and password are never auto-trimmed; silently
// altering a credential would change what the user typed.
func trimmedFields(w http.ResponseWriter, body map[string]any, fields ...string) bool {
	for _, field := range fields {
		value, ok := body[field].(string)
		if !ok {
			continue
		}
		if value != strings.TrimSpace(value) {
			writeProblem(w, http.StatusBadRequest, "Incorrect Field Entry",
				"Some fields cannot start or end with whitespace. Check '"+field+"' for spaces.")
			return false
		}
	}
	return true
}

// matchBody rejects when the body's value for a field differs from the
// route's path value of the same name.
func matchBody(w http.ResponseWriter, r *http.Request, body map[string]any, fields ...string) bool {
	for _, field := range fields {
		value, _ := body[field].(string)
		if value != r.PathValue(field) {
			writeProblem(w, http.StatusBadRequest, "Validation Error",
				"Body does not match params for '"+field+"'")
			return false
		}
	}
	return true
}

func stringField(body map[string]any, field string) string {
	value, _ := body[field].(string)
	return value
}
