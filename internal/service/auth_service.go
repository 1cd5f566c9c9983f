package service

import (
	"InstaGraph/internal/api/dto"
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/graph"
	"InstaGraph/internal/pkg/redis"
	"InstaGraph/internal/pkg/security"
	"InstaGraph/internal/pkg/util"
	"InstaGraph/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"golang.org/x/oauth2"
)

const oauthStateTTL = 10 * time.Minute

// OAuthProvider Facebook 授权码流程，由 security.FacebookOAuth 实现
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// ProfileAPI 读取登录用户的 Facebook 资料，由 graph.Client 实现
type ProfileAPI interface {
	GetMe(ctx context.Context, token string) (*graph.User, error)
}

// TokenIssuer 会话 Token 的签发与校验，由 security.JWTManager 实现
type TokenIssuer interface {
	GenerateToken(userID uint64, email, name string) (string, error)
	ValidateToken(tokenString string) (*security.UserClaims, error)
}

type AuthService interface {
	FacebookLoginURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, state, code string) (*dto.LoginResultDTO, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID uint64) (*dto.UserDTO, error)
}

type AuthServiceImpl struct {
	oauth    OAuthProvider
	profiles ProfileAPI
	tokens   TokenIssuer
	userRepo repository.UserRepo
	now      func() time.Time
}

func NewAuthService(oauth OAuthProvider, profiles ProfileAPI, tokens TokenIssuer, userRepo repository.UserRepo) AuthService {
	return &AuthServiceImpl{
		oauth:    oauth,
		profiles: profiles,
		tokens:   tokens,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// FacebookLoginURL 生成一次性 state 并返回授权地址
func (s *AuthServiceImpl) FacebookLoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := redis.SetWithExpiration(ctx, consts.OAuthStateKey+state, 1, oauthStateTTL); err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

func (s *AuthServiceImpl) HandleCallback(ctx context.Context, state, code string) (*dto.LoginResultDTO, error) {
	if state == "" || code == "" {
		return nil, ErrOAuthState
	}
	stored, err := redis.GetDel(ctx, consts.OAuthStateKey+state)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, ErrOAuthState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		log.ErrorContext(ctx, "Facebook 授权码换取失败", "err", err)
		return nil, ErrOAuthState
	}

	me, err := s.profiles.GetMe(ctx, token.AccessToken)
	if err != nil {
		log.ErrorContext(ctx, "获取 Facebook 用户信息失败", "err", err)
		return nil, ErrGraphUnavailable
	}
	if me.Email == "" {
		return nil, ErrMissingEmail
	}

	user, err := s.findOrCreateUser(ctx, me)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	out := &dto.LoginResultDTO{AccessToken: accessToken}
	if err = copier.Copy(&out.User, user); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "用户登录", "user_id", user.ID)
	return out, nil
}

// findOrCreateUser 先按 Facebook ID 查找，其次按邮箱关联已有用户，都没有时新建
func (s *AuthServiceImpl) findOrCreateUser(ctx context.Context, me *graph.User) (*model.User, error) {
	user, err := s.userRepo.GetUserByFacebookId(ctx, me.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.GetUserByEmail(ctx, me.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.FacebookID = util.PtrString(me.ID)
		if user.AvatarURL == "" {
			user.AvatarURL = me.Picture.Data.URL
		}
		if err = s.userRepo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	name := me.Name
	if name == "" {
		name = me.Email
	}
	user = &model.User{
		Email:      me.Email,
		Name:       name,
		FacebookID: util.PtrString(me.ID),
		AvatarURL:  me.Picture.Data.URL,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if !isDuplicateError(err) {
			return nil, err
		}
		// 并发回调已抢先建好用户
		existing, findErr := s.userRepo.GetUserByFacebookId(ctx, me.ID)
		if findErr != nil || existing == nil {
			return nil, err
		}
		return existing, nil
	}
	return user, nil
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// Logout 签名加入黑名单，直到 Token 自然过期
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return UnauthorizedError
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}
	remaining := claims.Remaining(s.now())
	if remaining <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, 1, remaining)
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserWithAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	out := &dto.UserDTO{}
	if err = copier.Copy(out, user); err != nil {
		return nil, err
	}
	return out, nil
}
