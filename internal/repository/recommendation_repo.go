package repository

import (
	"InstaGraph/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type RecommendationRepo interface {
	CreateBatch(ctx context.Context, recs []*model.Recommendation) error
	GetByAccount(ctx context.Context, accountID uint64, status model.RecommendationStatus) ([]*model.Recommendation, error)
	GetById(ctx context.Context, id uint64) (*model.Recommendation, error)
	UpdateStatus(ctx context.Context, id uint64, status model.RecommendationStatus) (int64, error)
}

type recommendationRepoImpl struct {
	db *gorm.DB
}

func NewRecommendationRepo(db *gorm.DB) RecommendationRepo {
	return &recommendationRepoImpl{db: db}
}

func (r *recommendationRepoImpl) CreateBatch(ctx context.Context, recs []*model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
}

// GetByAccount 按优先级升序、创建时间倒序
func (r *recommendationRepoImpl) GetByAccount(ctx context.Context, accountID uint64, status model.RecommendationStatus) ([]*model.Recommendation, error) {
	recs := make([]*model.Recommendation, 0)
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.
		Order("priority ASC").
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *recommendationRepoImpl) GetById(ctx context.Context, id uint64) (*model.Recommendation, error) {
	rec := &model.Recommendation{}
	err := r.db.WithContext(ctx).First(rec, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// UpdateStatus 只写 status 一列，不更新 updated_at
func (r *recommendationRepoImpl) UpdateStatus(ctx context.Context, id uint64, status model.RecommendationStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Recommendation{}).
		Where("id = ?", id).
		UpdateColumn("status", status)
	return result.RowsAffected, result.Error
}
