package models

import (
	"github.com/uptrace/bun"
)

// Config is a key/value row for runtime tunables: fraud thresholds,
// scan page size, cron expressions, leaderboard limits. Reward policy
// defaults live in code; rows here override them.
type Config struct {
	bun.BaseModel `bun:"table:config"`
	Key           string `bun:"key,pk" json:"key"`
	Value         string `bun:"value" json:"value"`
}
