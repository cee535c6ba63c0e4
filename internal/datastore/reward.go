package datastore

import (
	"context"
	"time"

	"vibeos/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReward(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Reward)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Reward)(nil)).Index("index_reward_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertReward(ctx context.Context, db bun.IDB, reward *models.Reward) error {
	_, err := db.NewInsert().Model(reward).Exec(ctx)
	return err
}

func GetAvailableRewardsByUserID(ctx context.Context, db bun.IDB, userID string) ([]models.Reward, error) {
	var rewards []models.Reward
	err := db.NewSelect().Model(&rewards).
		Where("user_id = ?", userID).
		Where("claimed = ?", false).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return rewards, nil
}

func GetRewardByID(ctx context.Context, db bun.IDB, rewardID int) (*models.Reward, error) {
	var reward models.Reward
	err := db.NewSelect().Model(&reward).Where("id = ?", rewardID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reward, nil
}

// MarkRewardClaimed flips the claimed flag only when it is still unset
// and reports whether this call won the flip. The conditional update is
// what makes claim retries idempotent.
func MarkRewardClaimed(ctx context.Context, db bun.IDB, rewardID int) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Reward)(nil)).
		Set("claimed = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", rewardID).
		Where("claimed = ?", false).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
