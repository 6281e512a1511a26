package auth

// Role values an account can carry. Anything else is rejected at the
// store boundary; a missing role defaults to RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the slice of an account record the auth subsystem needs:
// enough to verify a password and to mint or refresh a principal. The
// tracker package owns the full account shape.
type Identity struct {
	ID           string
	Username     string
	Email        string
	Role         string
	PasswordHash string
}

// Principal is the authenticated identity attached to a request after
// token verification. Role and email come from the token claims, which
// are a cache of the account state at issuance: a role change after
// issuance is not visible until the user logs in again.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
