package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TransactionType string

const (
	TxEarn    TransactionType = "earn"
	TxSpend   TransactionType = "spend"
	TxGift    TransactionType = "gift"
	TxReceive TransactionType = "receive"
)

type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "approved"
	ReviewFlagged  ReviewStatus = "flagged"
)

// RewardTransaction is one append-only ledger row. Rows record the
// deltas actually applied (after level-up bonuses are folded in), are
// written exactly once per successful ApplyTransaction call, and are the
// sole audit source for the fraud scanner. Never updated or deleted;
// only ReviewStatus may be revised, and only by the fraud engine.
type RewardTransaction struct {
	bun.BaseModel `bun:"table:reward_transaction"`
	ID            string                 `bun:"id,pk" json:"id"`
	UserID        string                 `bun:"user_id" json:"user_id"`
	Type          TransactionType        `bun:"type" json:"type"`
	Action        string                 `bun:"action" json:"action"`
	XPChange      int64                  `bun:"xp_change" json:"xp_change"`
	CoinsChange   int64                  `bun:"coins_change" json:"coins_change"`
	GemsChange    int64                  `bun:"gems_change" json:"gems_change"`
	Metadata      map[string]interface{} `bun:"metadata,type:jsonb" json:"metadata"`
	ReviewStatus  ReviewStatus           `bun:"review_status" json:"review_status"`
	CreatedAt     time.Time              `bun:"created_at,default:current_timestamp" json:"created_at"`
}

// DailyTotal aggregates one user's earnings for a single day; produced
// by the cohort queries the fraud scanner runs.
type DailyTotal struct {
	UserID string `bun:"user_id" json:"user_id"`
	Coins  int64  `bun:"coins" json:"coins"`
	XP     int64  `bun:"xp" json:"xp"`
}
