package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"vibeos/internal/datastore"
	"vibeos/internal/datastore/redis_store"
	"vibeos/internal/models"
	"vibeos/internal/pkg/caching"
	"vibeos/internal/pkg/fraud"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ScanReport summarizes one full fraud sweep for the cron log.
type ScanReport struct {
	UsersScanned int `json:"users_scanned"`
	UsersFlagged int `json:"users_flagged"`
	Sanctions    int `json:"sanctions"`
}

// ServiceFraud runs the periodic anomaly sweep: classify every user's
// recent earn activity against the cohort, persist flags, and escalate
// account status when the matrix says so. Already-earned rewards are
// never clawed back, only marked for review.
type ServiceFraud struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	thresholds         fraud.Thresholds
}

func NewServiceFraud(container *do.Injector) (*ServiceFraud, error) {
	dbRedis, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

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

	return &ServiceFraud{container, dbRedis, rs, postgresDB, readonlyPostgresDB, cache, fraud.DefaultThresholds()}, nil
}

// RunScan sweeps the whole user base in pages. Per-user failures are
// logged and skipped so one bad row cannot stall the sweep.
func (service *ServiceFraud) RunScan(ctx context.Context) (*ScanReport, error) {
	serviceConfig, err := do.Invoke[*ServiceConfig](service.container)
	if err != nil {
		return nil, err
	}

	pageSize, err := serviceConfig.GetIntConfig(ctx, CONFIG_FRAUD_SCAN_PAGE_SIZE, FRAUD_SCAN_DEFAULT_PAGE_SIZE)
	if err != nil {
		return nil, err
	}

	windowMin, err := serviceConfig.GetIntConfig(ctx, CONFIG_FRAUD_VELOCITY_WINDOW_MIN, FRAUD_VELOCITY_DEFAULT_WINDOW_MIN)
	if err != nil {
		return nil, err
	}

	thresholds := service.thresholds
	thresholds.RatioLow, err = serviceConfig.GetFloatConfig(ctx, CONFIG_FRAUD_RATIO_LOW, thresholds.RatioLow)
	if err != nil {
		return nil, err
	}
	thresholds.RatioMedium, err = serviceConfig.GetFloatConfig(ctx, CONFIG_FRAUD_RATIO_MEDIUM, thresholds.RatioMedium)
	if err != nil {
		return nil, err
	}
	thresholds.RatioHigh, err = serviceConfig.GetFloatConfig(ctx, CONFIG_FRAUD_RATIO_HIGH, thresholds.RatioHigh)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := now.Add(-24 * time.Hour)
	velocityStart := now.Add(-time.Duration(windowMin) * time.Minute)

	cohort, err := datastore.GetCohortDailyEarnTotals(ctx, service.readonlyPostgresDB, dayStart, now)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(cohort))
	values := make([]int64, 0, len(cohort))
	for _, t := range cohort {
		totals[t.UserID] = t.Coins + t.XP
		values = append(values, t.Coins+t.XP)
	}
	median := fraud.Median(values)

	report := &ScanReport{}
	for offset := 0; ; offset += pageSize {
		page, err := datastore.GetUserProfilePage(ctx, service.readonlyPostgresDB, pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, profile := range page {
			report.UsersScanned++
			flagged, sanctioned, err := service.scanUser(ctx, profile.ID, totals[profile.ID], median, thresholds, velocityStart, dayStart)
			if err != nil {
				log.Println("fraud: scan skipped user:", profile.ID, err)
				continue
			}
			if flagged {
				report.UsersFlagged++
			}
			if sanctioned {
				report.Sanctions++
			}
		}

		if len(page) < pageSize {
			break
		}
	}

	return report, nil
}

// scanUser classifies one user and, when any signal fires, records the
// flag and applies the sanction in one transaction.
func (service *ServiceFraud) scanUser(ctx context.Context, userID string, dailyTotal int64, cohortMedian float64, thresholds fraud.Thresholds, velocityStart, dayStart time.Time) (bool, bool, error) {
	earnCount, err := datastore.CountRecentEarnTransactions(ctx, service.readonlyPostgresDB, userID, velocityStart)
	if err != nil {
		return false, false, err
	}

	deviceAccounts := 0
	devices, err := datastore.GetRecentDeviceIDs(ctx, service.readonlyPostgresDB, userID, dayStart)
	if err != nil {
		return false, false, err
	}
	for _, device := range devices {
		count, err := datastore.CountAccountsByDevice(ctx, service.readonlyPostgresDB, device, dayStart)
		if err != nil {
			return false, false, err
		}
		if count > deviceAccounts {
			deviceAccounts = count
		}
	}

	outlier := thresholds.ClassifyDailyOutlier(dailyTotal, cohortMedian)
	velocity := thresholds.ClassifyVelocity(earnCount)
	overlap := thresholds.ClassifyDeviceOverlap(deviceAccounts)
	worst := fraud.Worst(outlier, velocity, overlap)
	if worst == models.SeverityNone {
		return false, false, nil
	}

	signals := map[string]interface{}{
		"daily_total":     dailyTotal,
		"cohort_median":   cohortMedian,
		"daily_outlier":   outlier,
		"earn_count":      earnCount,
		"velocity":        velocity,
		"device_accounts": deviceAccounts,
		"device_overlap":  overlap,
	}

	mutex := service.rs.NewMutex(LockKeyUserSanction(userID))
	if err := mutex.Lock(); err != nil {
		return false, false, err
	}
	// nolint:errcheck
	defer mutex.Unlock()

	sanctioned := false
	finalStatus := models.AccountActive
	for attempt := 0; attempt < TRANSACTION_RETRY_BUDGET; attempt++ {
		sanctioned = false
		err = service.postgresDB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			profile, err := datastore.FindUserProfileByID(ctx, tx, userID)
			if err != nil {
				return err
			}

			readVersion := profile.Version
			profile.FraudFlags++

			action := fraud.DecideSanction(profile.FraudFlags, worst)
			if action != models.SanctionNone && action.Status().Rank() > profile.AccountStatus.Rank() {
				profile.AccountStatus = action.Status()
				sanctioned = true

				if err := datastore.MarkTransactionsFlagged(ctx, tx, userID, dayStart); err != nil {
					return err
				}
			}

			check := &models.FraudCheck{
				ID:        uuid.NewString(),
				UserID:    userID,
				Severity:  worst,
				Signals:   signals,
				CreatedAt: time.Now(),
			}
			if err := datastore.InsertFraudCheck(ctx, tx, check); err != nil {
				return err
			}

			finalStatus = profile.AccountStatus
			return datastore.UpdateUserProfileVersioned(ctx, tx, profile, readVersion)
		})
		if errors.Is(err, datastore.ErrVersionConflict) {
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, datastore.ErrVersionConflict) {
			return false, false, ErrConflictRetry
		}
		return false, false, err
	}

	if err := service.cache.Delete(ctx, DBKeyUserProfile(userID)); err != nil {
		log.Println("fraud: cache invalidation failed:", userID, err)
	}

	if sanctioned && finalStatus == models.AccountBanned {
		if err := redis_store.RemoveLeaderboardMember(ctx, service.redisDB, redis_store.LEADERBOARD_XP, userID); err != nil {
			log.Println("fraud: leaderboard removal failed:", userID, err)
		}
		if err := redis_store.RemoveLeaderboardMember(ctx, service.redisDB, redis_store.LEADERBOARD_XP_WEEKLY, userID); err != nil {
			log.Println("fraud: leaderboard removal failed:", userID, err)
		}
	}

	return true, sanctioned, nil
}

// GetFraudHistory lists a user's recorded anomaly checks, newest first.
func (service *ServiceFraud) GetFraudHistory(ctx context.Context, userID string, limit int) ([]*models.FraudCheck, error) {
	return datastore.GetFraudChecksByUser(ctx, service.readonlyPostgresDB, userID, limit)
}
