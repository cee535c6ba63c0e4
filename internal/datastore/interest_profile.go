package datastore

import (
	"context"
	"time"

	"vibeos/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableInterestProfile(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.InterestProfile)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.InterestProfile)(nil)).Index("index_interest_profile_focus_emotion").IfNotExists().Column("focus_emotion").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindInterestProfileByUserID(ctx context.Context, db bun.IDB, userID string) (*models.InterestProfile, error) {
	var profile models.InterestProfile
	err := db.NewSelect().Model(&profile).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func InsertInterestProfile(ctx context.Context, db bun.IDB, profile *models.InterestProfile) error {
	_, err := db.NewInsert().Model(profile).On("CONFLICT (user_id) DO NOTHING").Exec(ctx)
	return err
}

// UpdateInterestProfileVersioned mirrors the user-profile CAS write:
// conditional on the read version, bumping it on success.
func UpdateInterestProfileVersioned(ctx context.Context, db bun.IDB, profile *models.InterestProfile, readVersion int64) error {
	profile.Version = readVersion + 1
	profile.UpdatedAt = time.Now()

	res, err := db.NewUpdate().Model(profile).
		WherePK().
		Where("version = ?", readVersion).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		profile.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}
