package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reward is a claimable grant created by missions, challenges and
// campaigns. The Claimed flag is the idempotency guard: the transaction
// engine only applies the deltas when it can flip an unclaimed row, so
// a retried claim call never pays twice.
type Reward struct {
	bun.BaseModel `bun:"table:reward"`
	ID            int                    `bun:"id,pk,autoincrement" json:"id"`
	Campaign      string                 `bun:"campaign" json:"campaign"`
	UserID        string                 `bun:"user_id" json:"user_id"`
	XP            int64                  `bun:"xp" json:"xp"`
	Coins         int64                  `bun:"coins" json:"coins"`
	Gems          int64                  `bun:"gems" json:"gems"`
	Claimed       bool                   `bun:"claimed" json:"claimed"`
	Metadata      map[string]interface{} `bun:"metadata,type:jsonb" json:"metadata"`
	CreatedAt     time.Time              `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time              `bun:"updated_at" json:"updated_at"`
}
