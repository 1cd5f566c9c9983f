package repository

import (
	"InstaGraph/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepo interface {
	UpsertPost(ctx context.Context, post *model.Post) (uint64, error)
	GetRecentPostsWithLatestInsight(ctx context.Context, accountID uint64, limit int) ([]model.PostWithInsight, error)
	GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	UpdateStoredThumbnail(ctx context.Context, postID uint64, key string) error
}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepoImpl{db: db}
}

// UpsertPost 以 ig_media_id 为唯一键，返回帖子主键
func (r *postRepoImpl) UpsertPost(ctx context.Context, post *model.Post) (uint64, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ig_media_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"media_type",
			"media_url",
			"thumbnail_url",
			"permalink",
			"caption",
			"hashtags",
			"mentions",
			"timestamp",
			"updated_at",
		}),
	}).Create(post).Error
	if err != nil {
		return 0, err
	}

	var id uint64
	err = r.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("id").
		Where("ig_media_id = ?", post.IgMediaID).
		Scan(&id).Error
	if err != nil {
		return 0, err
	}
	post.ID = id
	return id, nil
}

// GetRecentPostsWithLatestInsight 最近 limit 条有快照的帖子（按发布时间倒序），附带各自最新的快照
func (r *postRepoImpl) GetRecentPostsWithLatestInsight(ctx context.Context, accountID uint64, limit int) ([]model.PostWithInsight, error) {
	posts := make([]*model.Post, 0)
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("EXISTS (SELECT 1 FROM insights WHERE insights.post_id = posts.id)").
		Order("timestamp DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []model.PostWithInsight{}, nil
	}

	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	latest := r.db.Model(&model.Insight{}).
		Select("post_id, MAX(recorded_at) AS recorded_at").
		Where("post_id IN ?", ids).
		Group("post_id")

	insights := make([]*model.Insight, 0, len(ids))
	err = r.db.WithContext(ctx).
		Table("insights AS i").
		Select("i.*").
		Joins("JOIN (?) AS l ON i.post_id = l.post_id AND i.recorded_at = l.recorded_at", latest).
		Order("i.id ASC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}

	// 同一时间点有多条时取 id 最大的
	byPost := make(map[uint64]*model.Insight, len(insights))
	for _, in := range insights {
		byPost[in.PostID] = in
	}

	out := make([]model.PostWithInsight, 0, len(posts))
	for _, p := range posts {
		out = append(out, model.PostWithInsight{
			Post:    *p,
			Insight: byPost[p.ID],
		})
	}
	return out, nil
}

func (r *postRepoImpl) GetPostsByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	posts := make([]*model.Post, 0)
	if len(ids) == 0 {
		return posts, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepoImpl) UpdateStoredThumbnail(ctx context.Context, postID uint64, key string) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn("stored_thumbnail_key", key).Error
}
