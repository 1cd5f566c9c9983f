package repository

import (
	"InstaGraph/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountInsightRepo interface {
	SaveOrUpdate(ctx context.Context, insight *model.AccountInsight) error
	GetRecentSnapshots(ctx context.Context, accountID uint64, since time.Time, limit int) ([]*model.AccountInsight, error)
}

type accountInsightRepoImpl struct {
	db *gorm.DB
}

func NewAccountInsightRepo(db *gorm.DB) AccountInsightRepo {
	return &accountInsightRepoImpl{db: db}
}

// SaveOrUpdate account_id + date 已存在时更新各项数值
func (r *accountInsightRepoImpl) SaveOrUpdate(ctx context.Context, insight *model.AccountInsight) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"reach",
			"impressions",
			"profile_visits",
			"website_clicks",
			"followers_count",
			"follows_count",
			"media_count",
			"updated_at",
		}),
	}).Create(insight).Error
}

// GetRecentSnapshots since 之后的快照，按日期倒序
func (r *accountInsightRepoImpl) GetRecentSnapshots(ctx context.Context, accountID uint64, since time.Time, limit int) ([]*model.AccountInsight, error) {
	insights := make([]*model.AccountInsight, 0)
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("date >= ?", since).
		Order("date DESC").
		Limit(limit).
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}
