package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/config"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/gate"
	"github.com/lenslink/moderation-service/internal/session"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// fakeAPI serves canned responses and counts requests per path.
type fakeAPI struct {
	mu       sync.Mutex
	hits     map[string]int
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{hits: map[string]int{}, handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		api.mu.Lock()
		api.hits[key]++
		h, ok := api.handlers[key]
		api.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, dto.ErrorEnvelope{Error: dto.ErrorBody{Code: apperrors.CodeNotFound, Message: "route not found"}})
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return api, srv
}

func (a *fakeAPI) handle(key string, h http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[key] = h
}

func (a *fakeAPI) count(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits[key]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newClient(t *testing.T, srv *httptest.Server, sess *session.Session) *Client {
	t.Helper()
	manager := session.NewManager(&session.MemoryStore{})
	if sess != nil {
		if err := manager.Set(sess.Token, sess.User); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	return New(config.ClientConfig{BaseURL: srv.URL + "/"}, manager)
}

func TestNoSessionFailsBeforeRequest(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newClient(t, srv, nil)

	_, err := c.ListPendingReports(context.Background())
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if api.count("GET /api/admin/reports/pending") != 0 {
		t.Fatalf("request must not be sent without a session")
	}
}

func TestRestrictedSnapshotBlocksLocally(t *testing.T) {
	api, srv := newFakeAPI(t)
	reason := "Spam or Scam"
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "u1", Role: domain.RoleUser, Restricted: true, RestrictionReason: &reason}})

	_, err := c.SubmitReport(context.Background(), "P1", domain.ReasonOther, nil)
	if !errors.Is(err, apperrors.ErrAccountRestricted) {
		t.Fatalf("expected account restricted, got %v", err)
	}
	if api.count("POST /api/reports") != 0 {
		t.Fatalf("restricted snapshot must block before the request")
	}
}

func TestSubmitReportValidatesLocally(t *testing.T) {
	api, srv := newFakeAPI(t)
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "u1", Role: domain.RoleUser}})

	for _, reason := range []domain.ReportReason{"", "Bad Vibes"} {
		if _, err := c.SubmitReport(context.Background(), "P1", reason, nil); !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("reason %q: expected validation error, got %v", reason, err)
		}
	}
	if api.count("POST /api/reports") != 0 {
		t.Fatalf("invalid input must not reach the server")
	}
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, dto.ErrorEnvelope{Error: dto.ErrorBody{Code: apperrors.CodeUnauthorized, Message: "invalid token"}})
	})
	c := newClient(t, srv, &session.Session{Token: "stale", User: &session.User{ID: "a1", Role: domain.RoleAdmin}})

	if _, err := c.Stats(context.Background()); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if c.Sessions().Current() != nil {
		t.Fatalf("session should be cleared after 401")
	}
}

func TestRestrictedResponseClearsSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("GET /api/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, dto.ErrorEnvelope{Error: dto.ErrorBody{
			Code:    apperrors.CodeAccountRestricted,
			Message: "Account restricted by admin: Fake Profile",
			Details: map[string]any{"restriction_reason": "Fake Profile"},
		}})
	})
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "p1", Role: domain.RolePhotographer}})

	_, err := c.Notifications(context.Background())
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != apperrors.CodeAccountRestricted || domainErr.HTTPStatus != http.StatusForbidden {
		t.Fatalf("unexpected error %v", err)
	}
	if c.Sessions().Current() != nil {
		t.Fatalf("session should be cleared after restriction rejection")
	}
	if decision := gate.CheckAccess(c.Sessions().Current(), gate.Route{Name: "notifications"}); decision.Target != gate.TargetLogin {
		t.Fatalf("gate should send cleared session to login, got %+v", decision)
	}
}

func TestForbiddenRoleKeepsSession(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, dto.ErrorEnvelope{Error: dto.ErrorBody{Code: apperrors.CodeForbidden, Message: "insufficient role"}})
	})
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "u1", Role: domain.RoleUser}})

	if _, err := c.Stats(context.Background()); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if c.Sessions().Current() == nil {
		t.Fatalf("role rejection must not clear the session")
	}
}

func TestServerErrorsAreTransportErrors(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("GET /api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "a1", Role: domain.RoleAdmin}})

	if _, err := c.Stats(context.Background()); !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if api.count("GET /api/admin/stats") != 1 {
		t.Fatalf("failed requests must not be retried")
	}

	srv.Close()
	if _, err := c.Stats(context.Background()); !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected transport error for closed server, got %v", err)
	}
}

func TestResolveReportConflict(t *testing.T) {
	api, srv := newFakeAPI(t)
	var gotAction string
	api.handle("PUT /api/admin/reports/r 1/moderate", func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer header")
		}
		writeJSON(w, http.StatusConflict, dto.ErrorEnvelope{Error: dto.ErrorBody{Code: apperrors.CodeInvalidState, Message: "report already resolved"}})
	})
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "a1", Role: domain.RoleAdmin}})

	_, err := c.ResolveReport(context.Background(), "r 1", domain.ActionDismiss)
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if gotAction != "dismiss" {
		t.Fatalf("action query = %q", gotAction)
	}
	if c.Sessions().Current() == nil {
		t.Fatalf("conflict must not clear the session")
	}
}

// Unrestricting a photographer and refreshing their session lets them back in.
func TestRefreshAfterUnrestrictAllowsAccess(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.Envelope[dto.UserResponse]{Data: dto.UserResponse{ID: "P1", Role: domain.RolePhotographer}})
	})
	reason := "Fake Profile"
	c := newClient(t, srv, &session.Session{Token: "tok", User: &session.User{ID: "P1", Role: domain.RolePhotographer, Restricted: true, RestrictionReason: &reason}})

	route := gate.Route{Name: "notifications"}
	if decision := gate.CheckAccess(c.Sessions().Current(), route); decision.Target != gate.TargetRestrictedNotice {
		t.Fatalf("expected restricted notice before refresh, got %+v", decision)
	}
	if _, err := c.RefreshSession(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if decision := gate.CheckAccess(c.Sessions().Current(), route); !decision.Allowed() {
		t.Fatalf("expected allow after refresh, got %+v", decision)
	}
}

func TestLoginStoresSnapshot(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.handle("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorEnvelope{Error: dto.ErrorBody{Code: apperrors.CodeUnauthorized}})
			return
		}
		writeJSON(w, http.StatusOK, dto.Envelope[dto.UserResponse]{Data: dto.UserResponse{ID: "A1", Role: domain.RoleAdmin}})
	})
	c := newClient(t, srv, nil)

	if _, err := c.Login(context.Background(), "wrong"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	user, err := c.Login(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	current := c.Sessions().Current()
	if user.ID != "A1" || current == nil || current.Token != "fresh" || current.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session %+v", current)
	}
}
