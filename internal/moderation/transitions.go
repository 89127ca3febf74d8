// Package moderation holds the report lifecycle: which admin action moves a
// report into which terminal state.
package moderation

import (
	"github.com/lenslink/moderation-service/internal/domain"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

var allowedTransitions = map[domain.ReportStatus]map[domain.ModerationAction]domain.ReportStatus{
	domain.ReportStatusPending: {
		domain.ActionDismiss:  domain.ReportStatusResolvedDismissed,
		domain.ActionRestrict: domain.ReportStatusResolvedRestricted,
		domain.ActionDelete:   domain.ReportStatusResolvedDeleted,
	},
	domain.ReportStatusResolvedDismissed:  {},
	domain.ReportStatusResolvedRestricted: {},
	domain.ReportStatusResolvedDeleted:    {},
}

// ParseAction validates an action supplied by a caller.
func ParseAction(raw string) (domain.ModerationAction, error) {
	action := domain.ModerationAction(raw)
	switch action {
	case domain.ActionDismiss, domain.ActionRestrict, domain.ActionDelete:
		return action, nil
	}
	return "", apperrors.NewValidationError("invalid action", map[string]any{
		"action":  raw,
		"allowed": []domain.ModerationAction{domain.ActionRestrict, domain.ActionDelete, domain.ActionDismiss},
	})
}

// Next returns the state reached by applying action to current.
func Next(current domain.ReportStatus, action domain.ModerationAction) (domain.ReportStatus, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return "", err
	}
	edges, known := allowedTransitions[current]
	if !known {
		return "", apperrors.NewInvalidState("unknown report status", map[string]any{"status": current})
	}
	next, ok := edges[action]
	if !ok {
		return "", apperrors.NewInvalidState("report already resolved", map[string]any{
			"status": current,
			"action": action,
		})
	}
	return next, nil
}

// TouchesAccount reports whether action mutates the target photographer account.
func TouchesAccount(action domain.ModerationAction) bool {
	return action == domain.ActionRestrict || action == domain.ActionDelete
}

// OutcomeMessage is the human-readable result recorded in notifications.
func OutcomeMessage(action domain.ModerationAction, reason domain.ReportReason) string {
	switch action {
	case domain.ActionDelete:
		return "Photographer permanently deleted from the platform."
	case domain.ActionRestrict:
		return "Photographer temporarily restricted due to: " + string(reason)
	default:
		return "Report dismissed with no action taken."
	}
}
