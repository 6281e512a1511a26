package httpapi

import (
	"errors"
	"net/http"

	"timetrack.org/internal/audit"
	"timetrack.org/internal/auth"
	"timetrack.org/internal/obs"
)

// Login rejection texts are shown verbatim by clients. They deliberately
// distinguish an unknown account from a wrong password; the account
// enumeration this permits is a recorded tradeoff of the contract.
const (
	msgMissingAccount = "Oops, we couldn't find that account."
	msgBadPassword    = "Oops, your password was incorrect."
)

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}
	if !requireFields(w, body, "username", "password") {
		return
	}
	if !stringFields(w, body, "username", "password") {
		return
	}

	username := stringField(body, "username")
	token, _, err := a.auth.Login(r.Context(), username, stringField(body, "password"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingAccount):
			obs.ObserveLogin("missing_account")
			writeProblem(w, http.StatusBadRequest, msgMissingAccount)
		case errors.Is(err, auth.ErrBadPassword):
			obs.ObserveLogin("bad_password")
			_ = audit.LogEvent(r.Context(), "auth.login.rejected", map[string]any{"username": username})
			writeProblem(w, http.StatusBadRequest, msgBadPassword)
		default:
			writeProblem(w, http.StatusInternalServerError, "Server Error")
		}
		return
	}

	obs.ObserveLogin("success")
	_ = audit.LogEvent(r.Context(), "auth.login.ok", map[string]any{"username": username})
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// handleLoginValidate echoes the principal resolved from the presented
// token; clients use it to check a stored token without side effects.
func (a *API) handleLoginValidate(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return
	}
	writeJSON(w, http.StatusOK, principal)
}
