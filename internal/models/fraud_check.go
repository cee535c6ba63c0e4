package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FraudSeverity classifies one anomaly check result. SeverityNone is
// never persisted; it only signals "nothing to record" to the scanner.
type FraudSeverity string

const (
	SeverityNone   FraudSeverity = "none"
	SeverityLow    FraudSeverity = "low"
	SeverityMedium FraudSeverity = "medium"
	SeverityHigh   FraudSeverity = "high"
)

// Rank orders severities for escalation comparisons.
func (s FraudSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// SanctionAction is the account-status downgrade chosen for a flagged
// user.
type SanctionAction string

const (
	SanctionNone       SanctionAction = ""
	SanctionReview     SanctionAction = "review"
	SanctionSuspension SanctionAction = "suspension"
	SanctionBan        SanctionAction = "ban"
)

// Status maps a sanction to the account status it imposes.
func (a SanctionAction) Status() AccountStatus {
	switch a {
	case SanctionReview:
		return AccountUnderReview
	case SanctionSuspension:
		return AccountSuspended
	case SanctionBan:
		return AccountBanned
	default:
		return AccountActive
	}
}

// FraudCheck is one persisted anomaly result. Insert-only.
type FraudCheck struct {
	bun.BaseModel `bun:"table:fraud_check"`
	ID            string                 `bun:"id,pk" json:"id"`
	UserID        string                 `bun:"user_id" json:"user_id"`
	Severity      FraudSeverity          `bun:"severity" json:"severity"`
	Signals       map[string]interface{} `bun:"signals,type:jsonb" json:"signals"`
	CreatedAt     time.Time              `bun:"created_at,default:current_timestamp" json:"created_at"`
}
