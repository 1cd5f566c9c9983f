package service

import (
	"InstaGraph/internal/model"
	"InstaGraph/internal/repository"
	"context"
)

// ownedAccount 账号不存在或不属于该用户时统一返回 ErrAccountNotFound
func ownedAccount(ctx context.Context, repo repository.AccountRepo, userID, accountID uint64) (*model.Account, error) {
	account, err := repo.GetAccountById(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.UserID != userID {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
