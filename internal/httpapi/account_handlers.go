package httpapi

import (
	"net/http"

	"timetrack.org/internal/audit"
	"timetrack.org/internal/tracker"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}
	if !requireFields(w, body, "username", "password", "firstName", "lastName", "email") {
		return
	}
	if !forbidFields(w, body, "role") {
		return
	}
	if !stringFields(w, body, "username", "password", "firstName", "lastName", "email") {
		return
	}
	if !trimmedFields(w, body, "username", "password") {
		return
	}

	account, err := a.tracker.Register(r.Context(), tracker.NewAccountInput{
		Username:  stringField(body, "username"),
		Password:  stringField(body, "password"),
		FirstName: stringField(body, "firstName"),
		LastName:  stringField(body, "lastName"),
		Email:     stringField(body, "email"),
	})
	if err != nil {
		handleTrackerError(w, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "account.created", map[string]any{"id": account.ID, "username": account.Username})
	writeJSON(w, http.StatusCreated, account.View())
}

func (a *API) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := a.tracker.ListAccounts(r.Context())
	if err != nil {
		handleTrackerError(w, err)
		return
	}
	views := make([]tracker.AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, account.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *API) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := a.tracker.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		handleTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account.View())
}
