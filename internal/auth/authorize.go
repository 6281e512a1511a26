package auth

// Authorization rules are route-declared and evaluated after
// authentication, before any handler logic runs. Both rules read only
// the principal and the route's target id; denial is terminal for the
// request.

// AuthorizeSelfOrAdmin permits a principal to act on its own account, or
// on any account when it holds the admin role.
func AuthorizeSelfOrAdmin(p Principal, targetAccountID string) error {
	if p.ID == targetAccountID || p.IsAdmin() {
		return nil
	}
	return ErrDenied
}

// AuthorizeAdmin permits only principals holding the admin role.
func AuthorizeAdmin(p Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return ErrDenied
}
