package dbmysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MediaRefRepository owns the usedBy lifecycle of media assets.
type MediaRefRepository interface {
	Attach(ctx context.Context, assetHash, entryID, collection string) error
	Detach(ctx context.Context, assetHash, entryID string) error
	ListByAsset(ctx context.Context, assetHash string) ([]MediaRef, error)
	CountByAsset(ctx context.Context, assetHash string) (int64, error)
}

type mediaRefRepository struct {
	db *gorm.DB
}

func NewMediaRefRepository(db *gorm.DB) MediaRefRepository {
	return &mediaRefRepository{db: db}
}

func (r *mediaRefRepository) Attach(ctx context.Context, assetHash, entryID, collection string) error {
	if assetHash == "" || entryID == "" {
		return errors.New("asset hash and entry id are required")
	}
	ref := MediaRef{AssetHash: assetHash, EntryID: entryID, Collection: collection}
	// attaching the same entry twice is a no-op
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ref).Error
}

func (r *mediaRefRepository) Detach(ctx context.Context, assetHash, entryID string) error {
	return r.db.WithContext(ctx).
		Where("asset_hash = ? AND entry_id = ?", assetHash, entryID).
		Delete(&MediaRef{}).Error
}

func (r *mediaRefRepository) ListByAsset(ctx context.Context, assetHash string) ([]MediaRef, error) {
	var refs []MediaRef
	err := r.db.WithContext(ctx).Where("asset_hash = ?", assetHash).Find(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *mediaRefRepository) CountByAsset(ctx context.Context, assetHash string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MediaRef{}).Where("asset_hash = ?", assetHash).Count(&count).Error
	return count, err
}
