// Package tracker holds the account and activity domain model for the
// time-tracker API.
package tracker

import (
	"time"

	"timetrack.org/internal/auth"
)

// Account is a registered user together with the ordered list of
// activities it owns. The password digest lives here for persistence
// only; it is stripped from every outbound view.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	Role         string
	Activities   []Activity
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the account onto the slice the auth subsystem needs.
func (a *Account) Identity() auth.Identity {
	return auth.Identity{
		ID:           a.ID,
		Username:     a.Username,
		Email:        a.Email,
		Role:         a.Role,
		PasswordHash: a.PasswordHash,
	}
}

// Activity is one logged time entry. Duration and date are free-form
// strings by contract; the server validates presence, not format.
type Activity struct {
	ID        string
	Name      string
	Duration  string
	Date      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountView is the client-facing account representation. The password
// digest is deliberately absent and must never be added.
type AccountView struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Email      string         `json:"email"`
	Role       string         `json:"role"`
	Activities []ActivityView `json:"activities"`
}

// ActivityView is the client-facing activity representation. Field names
// match the wire contract the frontend already speaks.
type ActivityView struct {
	ID               string `json:"id"`
	Activity         string `json:"activity"`
	ActivityDuration string `json:"activityDuration"`
	ActivityDate     string `json:"activityDate"`
}

// View serializes the account for clients.
func (a *Account) View() AccountView {
	activities := make([]ActivityView, 0, len(a.Activities))
	for _, act := range a.Activities {
		activities = append(activities, ActivityView{
			ID:               act.ID,
			Activity:         act.Name,
			ActivityDuration: act.Duration,
			ActivityDate:     act.Date,
		})
	}
	return AccountView{
		ID:         a.ID,
		Username:   a.Username,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Email:      a.Email,
		Role:       a.Role,
		Activities: activities,
	}
}
