package datastore

import (
	"context"
	"errors"
	"time"

	"vibeos/internal/models"

	"github.com/uptrace/bun"
)

// ErrVersionConflict is returned when a versioned profile write raced a
// concurrent update; callers re-read and retry.
var ErrVersionConflict = errors.New("profile version conflict")

func CreateTableUserProfile(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.UserProfile)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserProfile)(nil)).Index("index_user_profile_account_status").IfNotExists().Column("account_status").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.UserProfile)(nil)).Index("index_user_profile_created_at").IfNotExists().Column("created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindUserProfileByID(ctx context.Context, db bun.IDB, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := db.NewSelect().Model(&profile).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func InsertUserProfile(ctx context.Context, db bun.IDB, profile *models.UserProfile) error {
	_, err := db.NewInsert().Model(profile).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	return err
}

// UpdateUserProfileVersioned writes the full profile conditionally on
// the version it was read at; the write bumps version by one. Zero rows
// affected means an intervening writer won and the caller must retry.
func UpdateUserProfileVersioned(ctx context.Context, db bun.IDB, profile *models.UserProfile, readVersion int64) error {
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

// GetUserProfilePage walks profiles in creation order for batch scans.
func GetUserProfilePage(ctx context.Context, db bun.IDB, limit, offset int) ([]*models.UserProfile, error) {
	var profiles []*models.UserProfile
	err := db.NewSelect().Model(&profiles).
		Where("account_status != ?", models.AccountBanned).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func CountUserProfiles(ctx context.Context, db bun.IDB) (int, error) {
	return db.NewSelect().Model((*models.UserProfile)(nil)).Count(ctx)
}
