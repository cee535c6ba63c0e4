package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrInvalidDelta = errors.New("invalid delta for action")
var ErrAccountFrozen = errors.New("account is suspended or banned")
var ErrAlreadyClaimed = errors.New("reward already claimed")
var ErrSelfGift = errors.New("cannot gift yourself")
var ErrRewardLock = errors.New("reward transaction locked")
var ErrInterestLock = errors.New("interest profile locked")
var ErrConflictRetry = errors.New("transaction conflict, retries exhausted")

const (
	CONFIG_SERVER_MODE               = "SERVER_MODE"
	CONFIG_LEADERBOARD_LIMIT         = "LEADERBOARD_LIMIT"
	CONFIG_FRAUD_SCAN_PAGE_SIZE      = "FRAUD_SCAN_PAGE_SIZE"
	CONFIG_FRAUD_VELOCITY_WINDOW_MIN = "FRAUD_VELOCITY_WINDOW_MIN"
	CONFIG_FRAUD_RATIO_LOW           = "FRAUD_RATIO_LOW"
	CONFIG_FRAUD_RATIO_MEDIUM        = "FRAUD_RATIO_MEDIUM"
	CONFIG_FRAUD_RATIO_HIGH          = "FRAUD_RATIO_HIGH"
	CONFIG_CRONJOB_TIME_FRAUD_SCAN   = "CRONJOB_TIME_FRAUD_SCAN"
	CONFIG_CRONJOB_TIME_LEADERBOARD  = "CRONJOB_TIME_LEADERBOARD"

	SERVER_MODE_DEVELOPMENT = "development"
	SERVER_MODE_STAGING     = "staging"
	SERVER_MODE_PRODUCTION  = "production"

	LEADERBOARD_DEFAULT_LIMIT = 20

	FRAUD_SCAN_DEFAULT_PAGE_SIZE      = 100
	FRAUD_VELOCITY_DEFAULT_WINDOW_MIN = 60

	TRANSACTION_RETRY_BUDGET = 3

	ENGAGEMENT_TRACK_RATE_LIMIT_PER_MINUTE = 120

	CACHE_TTL_5_SECONDS  = 5 * time.Second
	CACHE_TTL_15_SECONDS = 15 * time.Second
	CACHE_TTL_1_MIN      = 1 * time.Minute
	CACHE_TTL_5_MINS     = 5 * time.Minute
	CACHE_TTL_15_MINS    = 15 * time.Minute
	CACHE_TTL_1_HOUR     = 1 * time.Hour
)

// locks
func LockKeyUserReward(userID string) string {
	return fmt.Sprintf("lock:user-reward:%s", userID)
}

func LockKeyUserInterest(userID string) string {
	return fmt.Sprintf("lock:user-interest:%s", userID)
}

func LockKeyUserSanction(userID string) string {
	return fmt.Sprintf("lock:user-sanction:%s", userID)
}

// cache keys
func DBKeyUserProfile(userID string) string {
	return fmt.Sprintf("user_profile:%s", userID)
}

func DBKeyInterestProfile(userID string) string {
	return fmt.Sprintf("interest_profile:%s", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", strings.ToLower(key))
}

func DBKeyUserAvailableRewards(userID string) string {
	return fmt.Sprintf("user:available_rewards:%s", userID)
}

func DBKeyUserTransactions(userID string, page, limit int) string {
	return fmt.Sprintf("user_transactions:%s:%d:%d", userID, page, limit)
}

func DBKeyLeaderboardTop(name string, limit int) string {
	return fmt.Sprintf("leaderboard_top:%s:%d", strings.ToLower(name), limit)
}

// limits
func LimitKeyEngagementTrack(userID string) string {
	return fmt.Sprintf("limit:engagement:%s", userID)
}
