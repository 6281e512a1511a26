package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"timetrack.org/internal/tracker"
)

// problem is the error body every client-facing rejection uses. The
// generalMessage/messages split is part of the frontend contract.
type problem struct {
	GeneralMessage string   `json:"generalMessage"`
	Messages       []string `json:"messages,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, general string, messages ...string) {
	writeJSON(w, code, problem{GeneralMessage: general, Messages: messages})
}

// decodeBody reads the request body into a loose map so field-shape
// middleware checks (required, string-typed, private, trimmed) can run
// before any struct binding.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is required")
		}
		return nil, errors.New("unable to parse request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON body")
	}
	return body, nil
}

// handleTrackerError maps domain errors onto the wire contract.
// Validation problems carry their field messages; store failures stay
// generic.
func handleTrackerError(w http.ResponseWriter, err error) {
	var verr *tracker.ValidationError
	var dup *tracker.DuplicateError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, http.StatusBadRequest, "Validation Error", verr.Messages...)
	case errors.As(err, &dup):
		writeProblem(w, http.StatusBadRequest, "Validation Error", dup.Error())
	case errors.Is(err, tracker.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "No account with that id exists")
	case errors.Is(err, tracker.ErrActivityNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "No activity with that id exists")
	default:
		writeProblem(w, http.StatusInternalServerError, "Server Error")
	}
}
