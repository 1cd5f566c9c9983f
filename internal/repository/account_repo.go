package repository

import (
	"InstaGraph/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepo interface {
	GetAccountById(ctx context.Context, id uint64) (*model.Account, error)
	GetAccountByIgId(ctx context.Context, igID string) (*model.Account, error)
	GetAccountsByUserId(ctx context.Context, userID uint64) ([]*model.Account, error)
	GetActiveAccounts(ctx context.Context) ([]*model.Account, error)
	SaveAccount(ctx context.Context, account *model.Account) (*model.Account, error)
	UpdateProfile(ctx context.Context, account *model.Account) error
	SetActive(ctx context.Context, id uint64, active bool) error
}

type accountRepoImpl struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &accountRepoImpl{db: db}
}

func (r *accountRepoImpl) GetAccountById(ctx context.Context, id uint64) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.WithContext(ctx).First(account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepoImpl) GetAccountByIgId(ctx context.Context, igID string) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.WithContext(ctx).Where("ig_id = ?", igID).First(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

func (r *accountRepoImpl) GetAccountsByUserId(ctx context.Context, userID uint64) ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepoImpl) GetActiveAccounts(ctx context.Context) ([]*model.Account, error) {
	accounts := make([]*model.Account, 0)
	err := r.db.WithContext(ctx).
		Select("id", "ig_id", "username", "user_id").
		Where("is_active = ?", true).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveAccount 以 ig_id 为唯一键 Upsert，重新连接时所有者转移给当前用户
func (r *accountRepoImpl) SaveAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ig_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"username",
			"name",
			"profile_picture_url",
			"website",
			"biography",
			"followers_count",
			"follows_count",
			"media_count",
			"access_token",
			"token_expires_at",
			"is_active",
			"updated_at",
		}),
	}).Create(account).Error
	if err != nil {
		return nil, err
	}
	// MySQL 的 ON DUPLICATE KEY UPDATE 不保证回填主键
	return r.GetAccountByIgId(ctx, account.IgID)
}

// UpdateProfile 只刷新资料字段，不触碰令牌与所有者
func (r *accountRepoImpl) UpdateProfile(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"username":            account.Username,
			"name":                account.Name,
			"profile_picture_url": account.ProfilePictureURL,
			"website":             account.Website,
			"biography":           account.Biography,
			"followers_count":     account.FollowersCount,
			"follows_count":       account.FollowsCount,
			"media_count":         account.MediaCount,
		}).Error
}

func (r *accountRepoImpl) SetActive(ctx context.Context, id uint64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}
