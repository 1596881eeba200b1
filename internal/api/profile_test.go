package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/nextlevel/nl-console-go/internal/domain"
)

func TestChangePasswordFallsBackToLegacyPath(t *testing.T) {
	var paths []string

	client := newTestClient(t,
		fakeSession{token: "tok"},
		DefaultPolicy(),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/api/user/password" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"success": true}`))
		}),
	)

	err := client.ChangePassword(context.Background(), domain.PasswordChange{
		CurrentPassword: "old",
		NewPassword:     "new",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/api/user/password" || paths[1] != "/api/user/change-password" {
		t.Errorf("paths = %v, want current then legacy", paths)
	}
}

func TestChangePasswordStopsAfterSuccess(t *testing.T) {
	var hits int

	client := newTestClient(t,
		fakeSession{token: "tok"},
		DefaultPolicy(),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.Write([]byte(`{}`))
		}),
	)

	err := client.ChangePassword(context.Background(), domain.PasswordChange{
		CurrentPassword: "old",
		NewPassword:     "new",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestChangePasswordRejectsEmptyNewPassword(t *testing.T) {
	client := newTestClient(t,
		fakeSession{token: "tok"},
		DefaultPolicy(),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("local validation must not reach the server")
		}),
	)

	if err := client.ChangePassword(context.Background(), domain.PasswordChange{}); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestGetProfile(t *testing.T) {
	client := newTestClient(t,
		fakeSession{token: "tok"},
		DefaultPolicy(),
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/user/profile" {
				t.Errorf("path = %q, want /api/user/profile", r.URL.Path)
			}
			w.Write([]byte(`{"name":"Ana","email":"ana@example.com","detailLevel":"high"}`))
		}),
	)

	p, err := client.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Ana" || p.Email != "ana@example.com" || p.DetailLevel != "high" {
		t.Errorf("unexpected profile: %+v", p)
	}
}
