package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vibeos/internal/datastore"
	"vibeos/internal/datastore/redis_store"
	"vibeos/internal/models"
	"vibeos/internal/pkg/caching"
	"vibeos/internal/pkg/progression"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ProfileView is what GET /user/me returns: the stored profile plus the
// values derived from it on read.
type ProfileView struct {
	Profile   *models.UserProfile     `json:"profile"`
	Progress  progression.Progress    `json:"progress"`
	Karma     progression.KarmaImpact `json:"karma"`
	FeedBoost float64                 `json:"feed_boost"`
}

// VibePostResult reports what one post changed.
type VibePostResult struct {
	Profile     *models.UserProfile       `json:"profile"`
	Transaction *models.RewardTransaction `json:"transaction"`
	NewBadges   []models.Badge            `json:"new_badges"`
}

type ServiceProfile struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	policy             progression.Policy
}

func NewServiceProfile(container *do.Injector) (*ServiceProfile, error) {
	dbRedis, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceProfile{container, dbRedis, postgresDB, readonlyPostgresDB, cache, readonlyCache, progression.DefaultPolicy()}, nil
}

// GetOrCreateProfile loads the reward profile, creating the defaults on
// first sight of the user.
func (service *ServiceProfile) GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	callback := func() (*models.UserProfile, error) {
		return datastore.FindUserProfileByID(ctx, service.readonlyPostgresDB, userID)
	}

	profile, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserProfile(userID), CACHE_TTL_5_MINS, callback)
	if errors.Is(err, sql.ErrNoRows) {
		profile = models.NewUserProfile(userID)
		if err := datastore.InsertUserProfile(ctx, service.postgresDB, profile); err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// Me assembles the profile view with derived level progress and karma
// tier.
func (service *ServiceProfile) Me(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := service.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	impact := progression.KarmaImpactFor(profile.Karma)
	return &ProfileView{
		Profile:   profile,
		Progress:  progression.ProgressToNextLevel(profile.XP),
		Karma:     impact,
		FeedBoost: impact.Tier.FeedBoost,
	}, nil
}

// RecordVibePost advances the posting streak and the emotion explorer
// and grants the post XP, all inside one reward transaction. Badge
// milestones crossed by this post ride along in the same commit.
func (service *ServiceProfile) RecordVibePost(ctx context.Context, userID string, emotion models.EmotionCategory, textLength int) (*VibePostResult, error) {
	if _, err := service.GetOrCreateProfile(ctx, userID); err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	serviceReward, err := do.Invoke[*ServiceReward](service.container)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	var newBadges []models.Badge
	now := time.Now()

	mutate := func(profile *models.UserProfile) error {
		profile.PostingStreak = progression.CalculateVibeStreak(profile.PostingStreak, now, time.UTC)
		profile.Explorer = progression.UpdateEmotionExplorer(profile.Explorer, emotion, service.policy.ExplorerStep)
		newBadges = awardMilestoneBadges(profile, now)
		return nil
	}

	result, err := serviceReward.ApplyTransactionWithMutation(ctx, userID, TransactionRequest{
		Type:    models.TxEarn,
		Action:  "vibe:post",
		XPDelta: service.policy.PostXP,
		Metadata: map[string]interface{}{
			"emotion":     emotion,
			"text_length": textLength,
		},
	}, mutate)
	if err != nil {
		return nil, err
	}

	return &VibePostResult{
		Profile:     result.Profile,
		Transaction: result.Transaction,
		NewBadges:   newBadges,
	}, nil
}

// awardMilestoneBadges appends the badges this profile state newly
// qualifies for. Badge ids are stable so the per-user uniqueness check
// in AddBadge keeps this idempotent.
func awardMilestoneBadges(profile *models.UserProfile, now time.Time) []models.Badge {
	var earned []models.Badge

	add := func(badge models.Badge) {
		badge.EarnedAt = now
		if profile.AddBadge(badge) {
			earned = append(earned, badge)
		}
	}

	add(models.Badge{ID: "first_vibe", Category: "posting", Rarity: "common"})

	for _, days := range []int{7, 30, 100} {
		if profile.PostingStreak.CurrentStreak >= days {
			rarity := "rare"
			if days >= 100 {
				rarity = "legendary"
			}
			add(models.Badge{
				ID:       fmt.Sprintf("streak_%d", days),
				Category: "streaks",
				Rarity:   rarity,
				Meta:     map[string]interface{}{"days": days},
			})
		}
	}

	if profile.Explorer.TotalUniqueEmotions >= 5 {
		add(models.Badge{ID: "emotion_explorer", Category: "exploration", Rarity: "rare"})
	}

	return earned
}

// GetLeaderboard reads the top of an XP board, cache-aside with a short
// TTL since the underlying ZSET moves constantly.
func (service *ServiceProfile) GetLeaderboard(ctx context.Context, name string, limit int) ([]*redis_store.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = LEADERBOARD_DEFAULT_LIMIT
	}

	callback := func() ([]*redis_store.LeaderboardEntry, error) {
		return redis_store.GetLeaderboardTop(ctx, service.redisDB, name, limit)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLeaderboardTop(name, limit), CACHE_TTL_15_SECONDS, callback)
}

// ClearProfileCache drops the cached profile after out-of-band writes
// (sanctions, migrations).
func (service *ServiceProfile) ClearProfileCache(ctx context.Context, userID string) error {
	return service.cache.Delete(ctx, DBKeyUserProfile(userID))
}
