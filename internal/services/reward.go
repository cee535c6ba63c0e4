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
	"vibeos/internal/pkg/progression"

	"github.com/go-redsync/redsync/v4"
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// TransactionRequest carries the deltas one logical grant or spend wants
// to apply. Deltas are signed; the type decides which signs are legal.
type TransactionRequest struct {
	Type       models.TransactionType `json:"type"`
	Action     string                 `json:"action"`
	XPDelta    int64                  `json:"xp_delta"`
	CoinsDelta int64                  `json:"coins_delta"`
	GemsDelta  int64                  `json:"gems_delta"`
	KarmaDelta int64                  `json:"karma_delta"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// TransactionResult reports what actually happened: the ledger row holds
// applied deltas including any folded level-up bonus.
type TransactionResult struct {
	Transaction  *models.RewardTransaction `json:"transaction"`
	Profile      *models.UserProfile       `json:"profile"`
	LevelsGained int                       `json:"levels_gained"`
}

// ServiceReward is the only path that mutates xp/coins/gems. Writes are
// serialized per user by a redsync mutex and guarded by the profile's
// version column inside a single database transaction.
type ServiceReward struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	rs                 *redsync.Redsync
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	policy             progression.Policy
}

func NewServiceReward(container *do.Injector) (*ServiceReward, error) {
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

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReward{container, dbRedis, rs, postgresDB, readonlyPostgresDB, cache, readonlyCache, progression.DefaultPolicy()}, nil
}

// ensureTransactable refuses reward-bearing operations for suspended
// and banned accounts, on either side of a transfer. Accounts under
// review keep transacting.
func ensureTransactable(profile *models.UserProfile) error {
	if profile.AccountStatus.Frozen() {
		return errorx.Wrap(ErrAccountFrozen, errorx.Invalid)
	}
	return nil
}

// applyRewardDeltas validates the request against the profile and
// mutates the profile in memory, returning the ledger row describing the
// applied deltas. Level recomputation happens here so a level-up bonus
// lands in the same row. No storage is touched.
func applyRewardDeltas(profile *models.UserProfile, req TransactionRequest, policy progression.Policy, now time.Time) (*models.RewardTransaction, int, error) {
	switch req.Type {
	case models.TxEarn, models.TxReceive:
		if req.XPDelta < 0 || req.CoinsDelta < 0 || req.GemsDelta < 0 {
			return nil, 0, ErrInvalidDelta
		}
	case models.TxSpend, models.TxGift:
		if req.XPDelta != 0 {
			return nil, 0, ErrInvalidDelta
		}
		if req.CoinsDelta > 0 || req.GemsDelta > 0 {
			return nil, 0, ErrInvalidDelta
		}
	default:
		return nil, 0, ErrInvalidDelta
	}

	newCoins := profile.Coins + req.CoinsDelta
	newGems := profile.Gems + req.GemsDelta
	if newCoins < 0 || newGems < 0 {
		return nil, 0, ErrInsufficientFunds
	}

	newXP := profile.XP + req.XPDelta
	newLevel := progression.CalculateLevel(newXP)
	levelsGained := newLevel - profile.Level

	coinsChange := req.CoinsDelta
	if levelsGained > 0 {
		coinsChange += int64(levelsGained) * policy.LevelUpCoinBonus
		newCoins += int64(levelsGained) * policy.LevelUpCoinBonus
	}

	profile.XP = newXP
	profile.Coins = newCoins
	profile.Gems = newGems
	profile.Level = newLevel
	profile.Karma += req.KarmaDelta
	if profile.Karma < 0 {
		profile.Karma = 0
	}

	row := &models.RewardTransaction{
		ID:           uuid.NewString(),
		UserID:       profile.ID,
		Type:         req.Type,
		Action:       req.Action,
		XPChange:     req.XPDelta,
		CoinsChange:  coinsChange,
		GemsChange:   req.GemsDelta,
		Metadata:     req.Metadata,
		ReviewStatus: models.ReviewApproved,
		CreatedAt:    now,
	}
	if levelsGained > 0 {
		levels := levelsGained
		if row.Metadata == nil {
			row.Metadata = map[string]interface{}{}
		}
		row.Metadata["levels_gained"] = levels
	}

	return row, levelsGained, nil
}

// ApplyTransaction atomically applies the deltas to the user's profile
// and appends exactly one ledger row. Either everything commits or
// nothing does. Frozen accounts are refused.
func (service *ServiceReward) ApplyTransaction(ctx context.Context, userID string, req TransactionRequest) (*TransactionResult, error) {
	return service.ApplyTransactionWithMutation(ctx, userID, req, nil)
}

// ApplyTransactionWithMutation additionally runs mutate on the freshly
// read profile inside the same atomic commit. ServiceProfile uses this
// to fold streak and badge updates into the post-XP transaction.
func (service *ServiceReward) ApplyTransactionWithMutation(ctx context.Context, userID string, req TransactionRequest, mutate func(*models.UserProfile) error) (*TransactionResult, error) {
	mutex := service.rs.NewMutex(LockKeyUserReward(userID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrRewardLock, errorx.Service)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	result, err := service.applyTransactionLocked(ctx, userID, req, mutate)
	if err != nil {
		return nil, err
	}

	service.afterCommit(ctx, result)
	return result, nil
}

// applyTransactionLocked runs the versioned read-modify-write with a
// small retry budget; the caller holds the per-user mutex.
func (service *ServiceReward) applyTransactionLocked(ctx context.Context, userID string, req TransactionRequest, mutate func(*models.UserProfile) error) (*TransactionResult, error) {
	var result *TransactionResult

	for attempt := 0; attempt < TRANSACTION_RETRY_BUDGET; attempt++ {
		err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			profile, err := datastore.FindUserProfileByID(ctx, tx, userID)
			if errors.Is(err, sql.ErrNoRows) {
				return errorx.Wrap(ErrUserNotFound, errorx.NotExist)
			}
			if err != nil {
				return err
			}

			if err := ensureTransactable(profile); err != nil {
				return err
			}

			readVersion := profile.Version
			if mutate != nil {
				if err := mutate(profile); err != nil {
					return err
				}
			}

			row, levelsGained, err := applyRewardDeltas(profile, req, service.policy, time.Now())
			if err != nil {
				return errorx.Wrap(err, errorx.Invalid)
			}

			if err := datastore.UpdateUserProfileVersioned(ctx, tx, profile, readVersion); err != nil {
				return err
			}

			if err := datastore.InsertRewardTransaction(ctx, tx, row); err != nil {
				return err
			}

			result = &TransactionResult{Transaction: row, Profile: profile, LevelsGained: levelsGained}
			return nil
		})
		if errors.Is(err, datastore.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, errorx.Wrap(ErrConflictRetry, errorx.Service)
}

// afterCommit handles the soft side effects of a successful
// transaction: cache invalidation and the XP leaderboards. Failures here
// are logged, never surfaced; the ledger already committed.
func (service *ServiceReward) afterCommit(ctx context.Context, result *TransactionResult) {
	if err := service.cache.Delete(ctx, DBKeyUserProfile(result.Profile.ID)); err != nil {
		log.Println("reward: cache invalidation failed:", err)
	}

	if result.Transaction.XPChange > 0 {
		err := redis_store.IncrLeaderboardScore(ctx, service.redisDB, result.Profile.ID, result.Transaction.XPChange)
		if err != nil {
			log.Println("reward: leaderboard update failed:", err)
		}
	}
}

// Gift moves coins between exactly two users in one database
// transaction: a gift row for the sender and a receive row for the
// recipient, both applied or neither.
func (service *ServiceReward) Gift(ctx context.Context, fromID, toID string, coins int64, metadata map[string]interface{}) (*TransactionResult, error) {
	if fromID == toID {
		return nil, errorx.Wrap(ErrSelfGift, errorx.Invalid)
	}
	if coins <= 0 {
		return nil, errorx.Wrap(ErrInvalidDelta, errorx.Invalid)
	}

	// lock both users in a stable order so concurrent opposite gifts
	// cannot deadlock
	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}

	firstMutex := service.rs.NewMutex(LockKeyUserReward(first))
	if err := firstMutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrRewardLock, errorx.Service)
	}
	// nolint:errcheck
	defer firstMutex.Unlock()

	secondMutex := service.rs.NewMutex(LockKeyUserReward(second))
	if err := secondMutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrRewardLock, errorx.Service)
	}
	// nolint:errcheck
	defer secondMutex.Unlock()

	var senderResult, receiverResult *TransactionResult

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		sender, err := datastore.FindUserProfileByID(ctx, tx, fromID)
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(ErrUserNotFound, errorx.NotExist)
		}
		if err != nil {
			return err
		}
		if err := ensureTransactable(sender); err != nil {
			return err
		}

		receiver, err := datastore.FindUserProfileByID(ctx, tx, toID)
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(ErrUserNotFound, errorx.NotExist)
		}
		if err != nil {
			return err
		}
		if err := ensureTransactable(receiver); err != nil {
			return err
		}

		now := time.Now()

		senderVersion := sender.Version
		giftRow, _, err := applyRewardDeltas(sender, TransactionRequest{
			Type:       models.TxGift,
			Action:     "gift:send",
			CoinsDelta: -coins,
			Metadata:   metadata,
		}, service.policy, now)
		if err != nil {
			return errorx.Wrap(err, errorx.Invalid)
		}

		receiverVersion := receiver.Version
		receiveRow, _, err := applyRewardDeltas(receiver, TransactionRequest{
			Type:       models.TxReceive,
			Action:     "gift:receive",
			CoinsDelta: coins,
			Metadata:   metadata,
		}, service.policy, now)
		if err != nil {
			return errorx.Wrap(err, errorx.Invalid)
		}

		if err := datastore.UpdateUserProfileVersioned(ctx, tx, sender, senderVersion); err != nil {
			return err
		}
		if err := datastore.UpdateUserProfileVersioned(ctx, tx, receiver, receiverVersion); err != nil {
			return err
		}
		if err := datastore.InsertRewardTransaction(ctx, tx, giftRow); err != nil {
			return err
		}
		if err := datastore.InsertRewardTransaction(ctx, tx, receiveRow); err != nil {
			return err
		}

		senderResult = &TransactionResult{Transaction: giftRow, Profile: sender}
		receiverResult = &TransactionResult{Transaction: receiveRow, Profile: receiver}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.afterCommit(ctx, senderResult)
	service.afterCommit(ctx, receiverResult)
	return senderResult, nil
}

// ClaimReward applies a claimable grant exactly once. The conditional
// claimed-flag flip and the balance update share one database
// transaction, so a retried claim either reports AlreadyClaimed or the
// original commit.
func (service *ServiceReward) ClaimReward(ctx context.Context, userID string, rewardID int) (*TransactionResult, error) {
	mutex := service.rs.NewMutex(LockKeyUserReward(userID))
	if err := mutex.Lock(); err != nil {
		return nil, errorx.Wrap(ErrRewardLock, errorx.Service)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	var result *TransactionResult

	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		reward, err := datastore.GetRewardByID(ctx, tx, rewardID)
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(errors.New("reward not found"), errorx.NotExist)
		}
		if err != nil {
			return err
		}
		if reward.UserID != userID {
			return errorx.Wrap(errors.New("reward belongs to another user"), errorx.Invalid)
		}

		won, err := datastore.MarkRewardClaimed(ctx, tx, rewardID)
		if err != nil {
			return err
		}
		if !won {
			return errorx.Wrap(ErrAlreadyClaimed, errorx.Invalid)
		}

		profile, err := datastore.FindUserProfileByID(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return errorx.Wrap(ErrUserNotFound, errorx.NotExist)
		}
		if err != nil {
			return err
		}
		if err := ensureTransactable(profile); err != nil {
			return err
		}

		readVersion := profile.Version
		row, levelsGained, err := applyRewardDeltas(profile, TransactionRequest{
			Type:       models.TxEarn,
			Action:     "reward:claim:" + reward.Campaign,
			XPDelta:    reward.XP,
			CoinsDelta: reward.Coins,
			GemsDelta:  reward.Gems,
			Metadata:   map[string]interface{}{"reward_id": reward.ID},
		}, service.policy, time.Now())
		if err != nil {
			return errorx.Wrap(err, errorx.Invalid)
		}

		if err := datastore.UpdateUserProfileVersioned(ctx, tx, profile, readVersion); err != nil {
			return err
		}
		if err := datastore.InsertRewardTransaction(ctx, tx, row); err != nil {
			return err
		}

		result = &TransactionResult{Transaction: row, Profile: profile, LevelsGained: levelsGained}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.afterCommit(ctx, result)
	return result, nil
}

// GetAvailableRewards lists a user's unclaimed grants, cache-aside.
func (service *ServiceReward) GetAvailableRewards(ctx context.Context, userID string) ([]models.Reward, error) {
	callback := func() ([]models.Reward, error) {
		rewards, err := datastore.GetAvailableRewardsByUserID(ctx, service.readonlyPostgresDB, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return rewards, err
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserAvailableRewards(userID), CACHE_TTL_1_MIN, callback)
}

// GetUserTransactions pages the ledger for display.
func (service *ServiceReward) GetUserTransactions(ctx context.Context, userID string, page, limit int) ([]*models.RewardTransaction, error) {
	callback := func() ([]*models.RewardTransaction, error) {
		return datastore.GetUserTransactions(ctx, service.readonlyPostgresDB, userID, limit, page*limit)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyUserTransactions(userID, page, limit), CACHE_TTL_15_SECONDS, callback)
}
