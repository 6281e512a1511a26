package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"timetrack.org/internal/audit"
	"timetrack.org/internal/tracker"
)

func (a *API) handleAddActivity(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}
	if !requireFields(w, body, "id", "activity", "activityDuration", "activityDate") {
		return
	}
	if !stringFields(w, body, "activity", "activityDate") {
		return
	}
	if !matchBody(w, r, body, "id") {
		return
	}

	account, err := a.tracker.AddActivity(r.Context(), r.PathValue("id"), tracker.NewActivityInput{
		Activity:         stringField(body, "activity"),
		ActivityDuration: scalarField(body, "activityDuration"),
		ActivityDate:     stringField(body, "activityDate"),
	})
	if err != nil {
		handleTrackerError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "activity.added", map[string]any{"account_id": account.ID})
	writeJSON(w, http.StatusOK, account.View())
}

func (a *API) handleRemoveActivity(w http.ResponseWriter, r *http.Request) {
	err := a.tracker.RemoveActivity(r.Context(), r.PathValue("id"), r.PathValue("activityId"))
	if err != nil {
		handleTrackerError(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "activity.removed", map[string]any{
		"account_id":  r.PathValue("id"),
		"activity_id": r.PathValue("activityId"),
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}
	if !requireFields(w, body, "id") {
		return
	}
	if !stringFields(w, body, "id") {
		return
	}
	if !matchBody(w, r, body, "id") {
		return
	}

	var patch tracker.ActivityPatch
	if _, ok := body["activity"]; ok {
		if !stringFields(w, body, "activity") {
			return
		}
		patch.Activity = ptr(stringField(body, "activity"))
	}
	if _, ok := body["activityDuration"]; ok {
		patch.ActivityDuration = ptr(scalarField(body, "activityDuration"))
	}
	if _, ok := body["activityDate"]; ok {
		if !stringFields(w, body, "activityDate") {
			return
		}
		patch.ActivityDate = ptr(stringField(body, "activityDate"))
	}

	err = a.tracker.UpdateActivity(r.Context(), r.PathValue("id"), r.PathValue("activityId"), patch)
	if err != nil {
		if errors.Is(err, tracker.ErrActivityNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found",
				"There was an error updating your activity.")
			return
		}
		handleTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "OK")
}

// scalarField reads a field that clients send as either a JSON string or
// a number. Durations arrive both ways in practice.
func scalarField(body map[string]any, field string) string {
	switch v := body[field].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func ptr(s string) *string { return &s }
