package repository

import (
	"InstaGraph/internal/model"
	"context"

	"gorm.io/gorm"
)

type InsightRepo interface {
	CreateInsight(ctx context.Context, insight *model.Insight) error
}

type insightRepoImpl struct {
	db *gorm.DB
}

func NewInsightRepo(db *gorm.DB) InsightRepo {
	return &insightRepoImpl{db: db}
}

// CreateInsight 每次抓取都插入一条新快照
func (r *insightRepoImpl) CreateInsight(ctx context.Context, insight *model.Insight) error {
	return r.db.WithContext(ctx).Create(insight).Error
}
