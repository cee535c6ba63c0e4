package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AccountStatus string

const (
	AccountActive      AccountStatus = "active"
	AccountUnderReview AccountStatus = "under_review"
	AccountSuspended   AccountStatus = "suspended"
	AccountBanned      AccountStatus = "banned"
)

// Frozen reports whether reward-bearing operations are refused for this
// status. Accounts under review keep earning; the review only gates
// escalation.
func (s AccountStatus) Frozen() bool {
	return s == AccountSuspended || s == AccountBanned
}

// Rank orders statuses by severity. Sanctions only move rank upward;
// downgrades go through manual review, not the scanner.
func (s AccountStatus) Rank() int {
	switch s {
	case AccountUnderReview:
		return 1
	case AccountSuspended:
		return 2
	case AccountBanned:
		return 3
	default:
		return 0
	}
}

// PostingStreak is stored as jsonb on the profile row.
type PostingStreak struct {
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastVibeDate  *time.Time `json:"last_vibe_date"`
}

// EmotionExplorer tracks how many distinct moods a user has posted.
type EmotionExplorer struct {
	EmotionsExplored    []EmotionCategory `json:"emotions_explored"`
	TotalUniqueEmotions int               `json:"total_unique_emotions"`
	ExplorerLevel       int               `json:"explorer_level"`
}

// Has reports whether emotion is already in the explored set.
func (e *EmotionExplorer) Has(emotion EmotionCategory) bool {
	for _, seen := range e.EmotionsExplored {
		if seen == emotion {
			return true
		}
	}
	return false
}

type Badge struct {
	ID       string                 `json:"id"`
	EarnedAt time.Time              `json:"earned_at"`
	Category string                 `json:"category"`
	Rarity   string                 `json:"rarity"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
}

// UserProfile is the single reward-bearing record per user. Balances are
// only ever mutated through ServiceReward; Version is the optimistic
// concurrency token checked on every write.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profile"`
	ID            string          `bun:"id,pk" json:"id"`
	XP            int64           `bun:"xp" json:"xp"`
	Coins         int64           `bun:"coins" json:"coins"`
	Gems          int64           `bun:"gems" json:"gems"`
	Karma         int64           `bun:"karma" json:"karma"`
	Level         int             `bun:"level" json:"level"`
	PostingStreak PostingStreak   `bun:"posting_streak,type:jsonb" json:"posting_streak"`
	Explorer      EmotionExplorer `bun:"emotion_explorer,type:jsonb" json:"emotion_explorer"`
	Badges        []Badge         `bun:"badges,type:jsonb" json:"badges"`
	FraudFlags    int             `bun:"fraud_flags" json:"-"`
	AccountStatus AccountStatus   `bun:"account_status" json:"account_status"`
	Version       int64           `bun:"version" json:"-"`
	CreatedAt     time.Time       `bun:"created_at,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time       `bun:"updated_at" json:"updated_at"`
}

// NewUserProfile returns the defaults a profile carries at account
// creation: empty balances, karma 100, level 1, active.
func NewUserProfile(userID string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		ID:            userID,
		Karma:         100,
		Level:         1,
		AccountStatus: AccountActive,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// HasBadge reports whether the badge id was already earned. Badge ids are
// unique per user; AddBadge relies on this check.
func (p *UserProfile) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}

// AddBadge appends the badge unless the id is already present.
func (p *UserProfile) AddBadge(badge Badge) bool {
	if p.HasBadge(badge.ID) {
		return false
	}
	p.Badges = append(p.Badges, badge)
	return true
}
