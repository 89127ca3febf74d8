package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/session"
)

func execute(t *testing.T, store session.Store, apiURL string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MODCTL_SESSION_FILE", t.TempDir()+"/unused.json")
	root := NewRootCommand(store)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--api-url", apiURL}, args...))
	err := root.Execute()
	return out.String(), err
}

func seeded(t *testing.T, user *session.User) session.Store {
	t.Helper()
	store := &session.MemoryStore{}
	if err := store.Save(&session.Session{Token: "tok", User: user}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func TestGuardedCommandsRequireLogin(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	for _, args := range [][]string{
		{"reports", "pending"},
		{"reports", "resolve", "r1", "--action", "dismiss"},
		{"users", "restricted"},
		{"stats"},
		{"notifications"},
	} {
		_, err := execute(t, &session.MemoryStore{}, srv.URL, args...)
		if !errors.Is(err, ErrAccessDenied) || !strings.Contains(err.Error(), "modctl login") {
			t.Fatalf("%v: expected login prompt, got %v", args, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("gate must reject before any request, saw %d", hits.Load())
	}
}

func TestRestrictedSessionSeesNotice(t *testing.T) {
	reason := "Fake Profile"
	store := seeded(t, &session.User{ID: "A9", Role: domain.RoleAdmin, Restricted: true, RestrictionReason: &reason})

	_, err := execute(t, store, "http://127.0.0.1:1", "stats")
	if err == nil || !strings.Contains(err.Error(), `until further notice for "Fake Profile"`) {
		t.Fatalf("expected restriction notice, got %v", err)
	}
}

func TestRoleMismatch(t *testing.T) {
	store := seeded(t, &session.User{ID: "U1", Role: domain.RoleUser})
	_, err := execute(t, store, "http://127.0.0.1:1", "reports", "pending")
	if err == nil || !strings.Contains(err.Error(), "requires role admin") {
		t.Fatalf("expected role error, got %v", err)
	}
}

func TestStatsPrintsServerData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/stats" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dto.Envelope[dto.StatsResponse]{Data: dto.StatsResponse{PendingReports: 3}})
	}))
	defer srv.Close()

	store := seeded(t, &session.User{ID: "A1", Role: domain.RoleAdmin})
	out, err := execute(t, store, srv.URL, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats dto.StatsResponse
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if stats.PendingReports != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
