package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/api/login":                "/api/login",
		"/api/users":                "/api/users",
		"/api/users/abc":            "/api/users/:id",
		"/api/users/abc/addActivity":            "/api/users/:id/addActivity",
		"/api/users/abc/removeActivity/def":     "/api/users/:id/removeActivity/:activityId",
		"/api/users/abc/activities/def":         "/api/users/:id/activities/:activityId",
		"/api/users/abc/activities/def?dry=1":   "/api/users/:id/activities/:activityId",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
