package datastore

import (
	"context"
	"time"

	"vibeos/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableFraudCheck(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.FraudCheck)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.FraudCheck)(nil)).Index("index_fraud_check_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.FraudCheck)(nil)).Index("index_fraud_check_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertFraudCheck(ctx context.Context, db bun.IDB, check *models.FraudCheck) error {
	_, err := db.NewInsert().Model(check).Exec(ctx)
	return err
}

func GetFraudChecksByUser(ctx context.Context, db bun.IDB, userID string, limit int) ([]*models.FraudCheck, error) {
	var checks []*models.FraudCheck
	err := db.NewSelect().Model(&checks).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return checks, nil
}

func CountFraudChecksSince(ctx context.Context, db bun.IDB, userID string, since time.Time) (int, error) {
	return db.NewSelect().Model((*models.FraudCheck)(nil)).
		Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Count(ctx)
}
