package datastore

import (
	"context"
	"time"

	"vibeos/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableRewardTransaction(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.RewardTransaction)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardTransaction)(nil)).Index("index_reward_transaction_user_created").IfNotExists().Column("user_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardTransaction)(nil)).Index("index_reward_transaction_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.RewardTransaction)(nil)).Index("index_reward_transaction_type").IfNotExists().Column("type").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertRewardTransaction appends one ledger row. Rows are immutable;
// there is intentionally no update or delete counterpart.
func InsertRewardTransaction(ctx context.Context, db bun.IDB, tx *models.RewardTransaction) error {
	_, err := db.NewInsert().Model(tx).Exec(ctx)
	return err
}

// GetUserDailyEarnTotal sums one user's earn rows between from and to.
func GetUserDailyEarnTotal(ctx context.Context, db bun.IDB, userID string, from, to time.Time) (*models.DailyTotal, error) {
	total := models.DailyTotal{UserID: userID}
	err := db.NewSelect().
		ColumnExpr("COALESCE(SUM(coins_change), 0) AS coins").
		ColumnExpr("COALESCE(SUM(xp_change), 0) AS xp").
		TableExpr("reward_transaction").
		Where("user_id = ?", userID).
		Where("type = ?", models.TxEarn).
		Where("created_at >= ?", from).
		Where("created_at < ?", to).
		Scan(ctx, &total.Coins, &total.XP)
	if err != nil {
		return nil, err
	}
	return &total, nil
}

// GetCohortDailyEarnTotals returns the per-user earn totals across the
// whole cohort for the window; the fraud scanner takes the median.
func GetCohortDailyEarnTotals(ctx context.Context, db bun.IDB, from, to time.Time) ([]*models.DailyTotal, error) {
	var totals []*models.DailyTotal
	err := db.NewSelect().
		ColumnExpr("user_id").
		ColumnExpr("SUM(coins_change) AS coins").
		ColumnExpr("SUM(xp_change) AS xp").
		TableExpr("reward_transaction").
		Where("type = ?", models.TxEarn).
		Where("created_at >= ?", from).
		Where("created_at < ?", to).
		GroupExpr("user_id").
		Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// CountRecentEarnTransactions counts a user's earn rows inside the
// rolling velocity window.
func CountRecentEarnTransactions(ctx context.Context, db bun.IDB, userID string, since time.Time) (int, error) {
	return db.NewSelect().Model((*models.RewardTransaction)(nil)).
		Where("user_id = ?", userID).
		Where("type = ?", models.TxEarn).
		Where("created_at >= ?", since).
		Count(ctx)
}

// CountAccountsByDevice counts distinct users whose ledger metadata
// carried the device fingerprint inside the window.
func CountAccountsByDevice(ctx context.Context, db bun.IDB, deviceID string, since time.Time) (int, error) {
	var count int
	err := db.NewSelect().
		ColumnExpr("COUNT(DISTINCT user_id)").
		TableExpr("reward_transaction").
		Where("metadata->>'device_id' = ?", deviceID).
		Where("created_at >= ?", since).
		Scan(ctx, &count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetRecentDeviceIDs lists the distinct device fingerprints a user
// transacted with inside the window. Rows without a fingerprint are
// skipped.
func GetRecentDeviceIDs(ctx context.Context, db bun.IDB, userID string, since time.Time) ([]string, error) {
	var devices []string
	err := db.NewSelect().
		ColumnExpr("DISTINCT metadata->>'device_id'").
		TableExpr("reward_transaction").
		Where("user_id = ?", userID).
		Where("metadata->>'device_id' IS NOT NULL").
		Where("created_at >= ?", since).
		Scan(ctx, &devices)
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// MarkTransactionsFlagged revises the review status of a user's rows in
// the window. Only the fraud engine calls this.
func MarkTransactionsFlagged(ctx context.Context, db bun.IDB, userID string, since time.Time) error {
	_, err := db.NewUpdate().Model((*models.RewardTransaction)(nil)).
		Set("review_status = ?", models.ReviewFlagged).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Exec(ctx)
	return err
}

// GetUserTransactions pages a user's ledger, newest first.
func GetUserTransactions(ctx context.Context, db bun.IDB, userID string, limit, offset int) ([]*models.RewardTransaction, error) {
	var rows []*models.RewardTransaction
	err := db.NewSelect().Model(&rows).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
