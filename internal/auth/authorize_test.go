package auth

import "testing"

func TestSelfOrAdminRule(t *testing.T) {
	user := Principal{ID: "u1", Role: RoleUser}
	admin := Principal{ID: "a1", Role: RoleAdmin}

	if err := AuthorizeSelfOrAdmin(user, "u1"); err != nil {
		t.Fatalf("owner must reach their own resource: %v", err)
	}
	if err := AuthorizeSelfOrAdmin(user, "u2"); err != ErrDenied {
		t.Fatalf("expected ErrDenied for foreign resource, got %v", err)
	}
	if err := AuthorizeSelfOrAdmin(admin, "u2"); err != nil {
		t.Fatalf("admin must reach any resource: %v", err)
	}
}

func TestAdminOnlyRule(t *testing.T) {
	if err := AuthorizeAdmin(Principal{ID: "u1", Role: RoleUser}); err != ErrDenied {
		t.Fatalf("expected ErrDenied for non-admin, got %v", err)
	}
	if err := AuthorizeAdmin(Principal{ID: "a1", Role: RoleAdmin}); err != nil {
		t.Fatalf("admin must pass: %v", err)
	}
	// A forged or unknown role never grants anything.
	if err := AuthorizeAdmin(Principal{ID: "x", Role: "superadmin"}); err != ErrDenied {
		t.Fatalf("unknown role must be denied, got %v", err)
	}
}
