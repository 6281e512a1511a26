package tracker

import "strings"

// Validation message texts are part of the client contract; the frontend
// displays them verbatim.
const (
	msgUsernameLength    = "The username should be at least 6 characters."
	msgPasswordLength    = "The password should be at least 8 characters."
	msgPasswordMaxLength = "Whoa there cowboy, limit the password to 72 characters"
	msgFirstNameLength   = "First name should be at least 2 characters"
	msgLastNameLength    = "Last name should be at least 2 characters"
	msgEmailRequired     = "Email is required"
)

// NewAccountInput is the registration payload after transport-level
// checks (required fields, string types, no surrounding whitespace on
// username/password) have already passed.
type NewAccountInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// Normalize lowercases username and email and trims the free-text fields,
// mirroring the store's case-normalization rule so lookups and uniqueness
// agree.
func (in *NewAccountInput) Normalize() {
	in.Username = strings.ToLower(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// Validate collects every field-shape violation rather than stopping at
// the first, so the client can show them all at once.
func (in *NewAccountInput) Validate() error {
	var messages []string
	if len(in.Username) < 6 {
		messages = append(messages, msgUsernameLength)
	}
	if len(in.Password) < 8 {
		messages = append(messages, msgPasswordLength)
	}
	if len(in.Password) > 72 {
		messages = append(messages, msgPasswordMaxLength)
	}
	if len(in.FirstName) < 2 {
		messages = append(messages, msgFirstNameLength)
	}
	if len(in.LastName) < 2 {
		messages = append(messages, msgLastNameLength)
	}
	if in.Email == "" {
		messages = append(messages, msgEmailRequired)
	}
	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// NewActivityInput is the payload for logging a time entry. All three
// fields are required non-empty strings.
type NewActivityInput struct {
	Activity         string
	ActivityDuration string
	ActivityDate     string
}

// Validate reports the missing fields by name.
func (in *NewActivityInput) Validate() error {
	var messages []string
	for _, f := range []struct{ name, value string }{
		{"activity", in.Activity},
		{"activityDuration", in.ActivityDuration},
		{"activityDate", in.ActivityDate},
	} {
		if strings.TrimSpace(f.value) == "" {
			messages = append(messages, "Missing field '"+f.name+"' in your request body")
		}
	}
	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// ActivityPatch carries the updateable activity fields; nil means "leave
// unchanged".
type ActivityPatch struct {
	Activity         *string
	ActivityDuration *string
	ActivityDate     *string
}

// Empty reports whether the patch changes nothing.
func (p ActivityPatch) Empty() bool {
	return p.Activity == nil && p.ActivityDuration == nil && p.ActivityDate == nil
}
