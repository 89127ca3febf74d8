package domain

import "time"

// ReportStatus enumerates lifecycle states for reports.
type ReportStatus string

const (
	ReportStatusPending            ReportStatus = "pending"
	ReportStatusResolvedDismissed  ReportStatus = "resolved-dismissed"
	ReportStatusResolvedRestricted ReportStatus = "resolved-restricted"
	ReportStatusResolvedDeleted    ReportStatus = "resolved-deleted"
)

// Terminal reports whether no further transition is possible.
func (s ReportStatus) Terminal() bool {
	return s != ReportStatusPending
}

// ModerationAction is an admin decision on a pending report.
type ModerationAction string

const (
	ActionDismiss  ModerationAction = "dismiss"
	ActionRestrict ModerationAction = "restrict"
	ActionDelete   ModerationAction = "delete"
)

// ReportReason is one of the fixed complaint categories.
type ReportReason string

const (
	ReasonHateSpeech      ReportReason = "Hate Speech"
	ReasonNudity          ReportReason = "Nudity or Pornographic Content"
	ReasonSpamOrScam      ReportReason = "Spam or Scam"
	ReasonFakeProfile     ReportReason = "Fake Profile"
	ReasonAbusiveLanguage ReportReason = "Abusive Language"
	ReasonCopyright       ReportReason = "Copyright Violation"
	ReasonHarassment      ReportReason = "Harassment or Bullying"
	ReasonViolence        ReportReason = "Violence or Threats"
	ReasonDiscrimination  ReportReason = "Discrimination"
	ReasonMisleading      ReportReason = "Misleading Information"
	ReasonInappropriate   ReportReason = "Inappropriate Behavior"
	ReasonIllegalContent  ReportReason = "Illegal Content"
	ReasonSelfHarm        ReportReason = "Self-harm or Suicide Content"
	ReasonAnimalCruelty   ReportReason = "Animal Cruelty"
	ReasonOther           ReportReason = "Other"
)

var reportReasons = []ReportReason{
	ReasonHateSpeech,
	ReasonNudity,
	ReasonSpamOrScam,
	ReasonFakeProfile,
	ReasonAbusiveLanguage,
	ReasonCopyright,
	ReasonHarassment,
	ReasonViolence,
	ReasonDiscrimination,
	ReasonMisleading,
	ReasonInappropriate,
	ReasonIllegalContent,
	ReasonSelfHarm,
	ReasonAnimalCruelty,
	ReasonOther,
}

// ReportReasons returns the selectable reasons in display order.
func ReportReasons() []ReportReason {
	return append([]ReportReason(nil), reportReasons...)
}

// Valid reports whether r is one of the fixed categories.
func (r ReportReason) Valid() bool {
	for _, candidate := range reportReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// Report is a complaint filed by a client against a photographer.
type Report struct {
	ID             string
	ReporterID     string
	PhotographerID string
	Reason         ReportReason
	Description    *string
	Status         ReportStatus
	ResolvedBy     *string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}

// EnrichedReport joins a report with display context for the admin queue.
type EnrichedReport struct {
	Report
	Reporter            *UserSummary
	Photographer        *UserSummary
	PhotographerProfile *PhotographerProfile
}

// ReportWithReporter is a history entry in the photographer full view.
type ReportWithReporter struct {
	Report
	Reporter *UserSummary
}
