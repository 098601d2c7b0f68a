package repository

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/shinyyama/kidtokid/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

// PublicationRepository journals publish attempts so a listing left without
// its images can be surfaced later.
type PublicationRepository interface {
	Save(ctx context.Context, p *model.Publication) error
	ListIncomplete(ctx context.Context, limit int) ([]model.Publication, error)
	SetDB(db *gorm.DB)
}

// publicationRepository may receive its connection after handlers start
// serving, so the handle is swapped atomically.
type publicationRepository struct {
	db atomic.Pointer[gorm.DB]
}

func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	r := &publicationRepository{}
	r.db.Store(db)
	return r
}

func (r *publicationRepository) Save(ctx context.Context, p *model.Publication) error {
	db := r.db.Load()
	if db == nil {
		return ErrDBNotReady
	}
	return db.WithContext(ctx).Save(p).Error
}

func (r *publicationRepository) ListIncomplete(ctx context.Context, limit int) ([]model.Publication, error) {
	db := r.db.Load()
	if db == nil {
		return nil, ErrDBNotReady
	}
	var items []model.Publication
	if err := db.WithContext(ctx).
		Where("failed = ? AND listing_id <> ?", true, "").
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *publicationRepository) SetDB(db *gorm.DB) {
	r.db.Store(db)
}
