package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/session"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// Login stores token after confirming it with the server.
func (c *Client) Login(ctx context.Context, token string) (*dto.UserResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.NewValidationError("token required", nil)
	}
	var env dto.Envelope[dto.UserResponse]
	if err := c.send(ctx, token, http.MethodGet, "/api/me", nil, &env); err != nil {
		return nil, err
	}
	if err := c.sessions.Set(token, snapshot(&env.Data)); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Logout clears the local session.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

// RefreshSession re-reads the account and updates the cached snapshot.
func (c *Client) RefreshSession(ctx context.Context) (*dto.UserResponse, error) {
	var env dto.Envelope[dto.UserResponse]
	if err := c.do(ctx, authSession, http.MethodGet, "/api/me", nil, &env); err != nil {
		return nil, err
	}
	current := c.sessions.Current()
	if current == nil {
		return nil, apperrors.NewUnauthorized("session cleared during refresh")
	}
	if err := c.sessions.Set(current.Token, snapshot(&env.Data)); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListReasons returns the selectable report reasons.
func (c *Client) ListReasons(ctx context.Context) ([]domain.ReportReason, error) {
	var env dto.Envelope[dto.ReasonsResponse]
	if err := c.do(ctx, authNone, http.MethodGet, "/api/reports/reasons", nil, &env); err != nil {
		return nil, err
	}
	return env.Data.Reasons, nil
}

// SubmitReport files a report as the logged-in user. The reason is checked
// locally before any request.
func (c *Client) SubmitReport(ctx context.Context, photographerID string, reason domain.ReportReason, description *string) (*dto.ReportResponse, error) {
	if reason == "" {
		return nil, apperrors.NewValidationError("reason required", nil)
	}
	if !reason.Valid() {
		return nil, apperrors.NewValidationError("invalid reason", map[string]any{"reason": reason})
	}
	if strings.TrimSpace(photographerID) == "" {
		return nil, apperrors.NewValidationError("photographer id required", nil)
	}
	req := dto.SubmitReportRequest{PhotographerID: photographerID, Reason: reason, Description: description}
	var env dto.Envelope[dto.ReportResponse]
	if err := c.do(ctx, authActive, http.MethodPost, "/api/reports", req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListPendingReports returns the admin queue, oldest first.
func (c *Client) ListPendingReports(ctx context.Context) ([]dto.PendingReportResponse, error) {
	var env dto.Envelope[[]dto.PendingReportResponse]
	if err := c.do(ctx, authActive, http.MethodGet, "/api/admin/reports/pending", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// PhotographerFullView returns content and report history for one photographer.
func (c *Client) PhotographerFullView(ctx context.Context, photographerID string) (*dto.PhotographerFullViewResponse, error) {
	var env dto.Envelope[dto.PhotographerFullViewResponse]
	path := "/api/admin/photographers/" + escape(photographerID) + "/full"
	if err := c.do(ctx, authActive, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ResolveReport applies an admin decision to a pending report.
func (c *Client) ResolveReport(ctx context.Context, reportID string, action domain.ModerationAction) (*dto.ResolutionResponse, error) {
	var env dto.Envelope[dto.ResolutionResponse]
	path := "/api/admin/reports/" + escape(reportID) + "/moderate?action=" + url.QueryEscape(string(action))
	if err := c.do(ctx, authActive, http.MethodPut, path, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListRestrictedUsers returns restricted accounts.
func (c *Client) ListRestrictedUsers(ctx context.Context) ([]dto.UserResponse, error) {
	var env dto.Envelope[[]dto.UserResponse]
	if err := c.do(ctx, authActive, http.MethodGet, "/api/admin/restricted-users", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Unrestrict clears an account's restriction.
func (c *Client) Unrestrict(ctx context.Context, userID string) (*dto.UserResponse, error) {
	var env dto.Envelope[dto.UserResponse]
	if err := c.do(ctx, authActive, http.MethodPut, "/api/admin/unrestrict/"+escape(userID), nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Stats returns the moderation dashboard counters.
func (c *Client) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	var env dto.Envelope[dto.StatsResponse]
	if err := c.do(ctx, authActive, http.MethodGet, "/api/admin/stats", nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Notifications lists moderation outcomes addressed to the caller.
func (c *Client) Notifications(ctx context.Context) ([]dto.NotificationResponse, error) {
	var env dto.Envelope[[]dto.NotificationResponse]
	if err := c.do(ctx, authActive, http.MethodGet, "/api/notifications", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func snapshot(user *dto.UserResponse) *session.User {
	return &session.User{
		ID:                user.ID,
		FullName:          user.FullName,
		Email:             user.Email,
		Role:              user.Role,
		Restricted:        user.Restricted,
		RestrictionReason: user.RestrictionReason,
	}
}
