package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"vibeos/internal/datastore"
	"vibeos/internal/interfaces"
	"vibeos/internal/models"
	"vibeos/internal/pkg/caching"
	"vibeos/internal/pkg/progression"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceInterest maintains the per-user personalization profile fed by
// engagement events. Writes here are soft signals: the feed ranker
// reads them, nothing financial depends on them.
type ServiceInterest struct {
	container          *do.Injector
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	limiter            interfaces.Limiter
	policy             progression.Policy
}

func NewServiceInterest(container *do.Injector) (*ServiceInterest, error) {
	rs, err := do.Invoke[*redsync.Redsync](container)
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

	rateLimiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	return &ServiceInterest{container, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, rateLimiter, progression.DefaultPolicy()}, nil
}

// GetInterestProfile loads the profile, cache-aside.
func (service *ServiceInterest) GetInterestProfile(ctx context.Context, userID string) (*models.InterestProfile, error) {
	callback := func() (*models.InterestProfile, error) {
		return datastore.FindInterestProfileByUserID(ctx, service.readonlyPostgresDB, userID)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyInterestProfile(userID), CACHE_TTL_5_MINS, callback)
}

// TrackEngagement folds one engagement event into the interest
// profile. At-most-once: a failed write is logged and the event is
// dropped, the caller always gets a success. Only the rate limit is
// surfaced, so a runaway client backs off.
func (service *ServiceInterest) TrackEngagement(ctx context.Context, userID string, event models.EngagementEvent) error {
	err := service.limiter.Allow(ctx, LimitKeyEngagementTrack(userID), redis_rate.PerMinute(ENGAGEMENT_TRACK_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		return errorx.Wrap(err, errorx.RateLimiting)
	}

	if err := service.applyProfileUpdate(ctx, userID, func(profile *models.InterestProfile, now time.Time) {
		profile.ApplyEngagement(event, service.policy.Affinity, now)
	}); err != nil {
		log.Println("interest: engagement dropped:", userID, err)
	}
	return nil
}

// RecordInteraction applies the per-type interaction weight for the
// emotion (post and comments count more than reacts, reacts more than
// views) and tags the active time slot.
func (service *ServiceInterest) RecordInteraction(ctx context.Context, userID string, emotion models.EmotionCategory, kind models.InteractionType) error {
	if emotion == "" {
		return errorx.Wrap(errors.New("missing emotion"), errorx.Validation)
	}

	err := service.applyProfileUpdate(ctx, userID, func(profile *models.InterestProfile, now time.Time) {
		profile.EmotionAffinity = progression.UpdateEmotionWeights(profile.EmotionAffinity, emotion, kind, service.policy)
		profile.AddTimeSlot(models.TimeSlotForHour(now.Hour()))
		profile.UpdatedAt = now
	})
	if err != nil {
		return errorx.Wrap(err, errorx.Service)
	}
	return nil
}

// applyProfileUpdate serializes the read-modify-write of one user's
// interest profile: redsync mutex, versioned CAS, small retry budget.
func (service *ServiceInterest) applyProfileUpdate(ctx context.Context, userID string, apply func(*models.InterestProfile, time.Time)) error {
	mutex := service.rs.NewMutex(LockKeyUserInterest(userID))
	if err := mutex.Lock(); err != nil {
		return ErrInterestLock
	}
	// nolint:errcheck
	defer mutex.Unlock()

	for attempt := 0; attempt < TRANSACTION_RETRY_BUDGET; attempt++ {
		profile, err := datastore.FindInterestProfileByUserID(ctx, service.postgresDB, userID)
		if errors.Is(err, sql.ErrNoRows) {
			profile = models.NewInterestProfile(userID)
			apply(profile, time.Now())
			profile.AddTimeSlot(models.TimeSlotForHour(time.Now().Hour()))
			if err := datastore.InsertInterestProfile(ctx, service.postgresDB, profile); err != nil {
				return err
			}
			return service.cache.Delete(ctx, DBKeyInterestProfile(userID))
		}
		if err != nil {
			return err
		}

		readVersion := profile.Version
		now := time.Now()
		apply(profile, now)
		profile.AddTimeSlot(models.TimeSlotForHour(now.Hour()))

		err = datastore.UpdateInterestProfileVersioned(ctx, service.postgresDB, profile, readVersion)
		if errors.Is(err, datastore.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return err
		}
		return service.cache.Delete(ctx, DBKeyInterestProfile(userID))
	}

	return ErrConflictRetry
}
