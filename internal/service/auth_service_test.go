package service

import (
	"InstaGraph/internal/api/config"
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/consts"
	"InstaGraph/internal/pkg/graph"
	"InstaGraph/internal/pkg/security"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeOAuth struct {
	exchangeErr error
}

func (f *fakeOAuth) AuthCodeURL(state string) string {
	return "https://www.facebook.com/dialog/oauth?state=" + url.QueryEscape(state)
}

func (f *fakeOAuth) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "at-" + code}, nil
}

type fakeProfiles struct {
	user *graph.User
	seen string
}

func (f *fakeProfiles) GetMe(_ context.Context, token string) (*graph.User, error) {
	f.seen = token
	return f.user, nil
}

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
	// raced 不为空时，CreateUser 先写入它再返回唯一键冲突
	raced *model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uint64]*model.User{}, nextID: 10}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByFacebookId(_ context.Context, facebookID string) (*model.User, error) {
	for _, u := range f.users {
		if u.FacebookID != nil && *u.FacebookID == facebookID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserWithAccounts(ctx context.Context, id uint64) (*model.User, error) {
	return f.GetUserById(ctx, id)
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if f.raced != nil {
		f.users[f.raced.ID] = f.raced
		return fmt.Errorf("create user: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func newAuthFixture(t *testing.T, me *graph.User, users ...*model.User) (*AuthServiceImpl, *fakeUserRepo, *security.JWTManager) {
	t.Helper()
	jwtManager, err := security.NewJWTManager(config.JWTConfig{Secret: "test-secret", Issuer: "instagraph", ExpireHours: 1})
	require.NoError(t, err)
	userRepo := newFakeUserRepo(users...)
	svc := NewAuthService(&fakeOAuth{}, &fakeProfiles{user: me}, jwtManager, userRepo).(*AuthServiceImpl)
	return svc, userRepo, jwtManager
}

func stateFrom(t *testing.T, loginURL string) string {
	t.Helper()
	u, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestHandleCallback_CreatesUser(t *testing.T) {
	mr := setupRedis(t)
	me := &graph.User{ID: "fb-1", Name: "Nino", Email: "nino@example.com"}
	svc, userRepo, jwtManager := newAuthFixture(t, me)
	ctx := context.Background()

	loginURL, err := svc.FacebookLoginURL(ctx)
	require.NoError(t, err)
	state := stateFrom(t, loginURL)
	assert.True(t, mr.Exists(consts.OAuthStateKey+state))

	out, err := svc.HandleCallback(ctx, state, "code")
	require.NoError(t, err)
	assert.Equal(t, "nino@example.com", out.User.Email)
	require.Len(t, userRepo.users, 1)

	claims, err := jwtManager.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)

	// state 只能使用一次
	_, err = svc.HandleCallback(ctx, state, "code")
	assert.ErrorIs(t, err, ErrOAuthState)
}

func TestHandleCallback_LinksExistingEmail(t *testing.T) {
	setupRedis(t)
	existing := &model.User{ID: 3, Email: "nino@example.com", Name: "Nino"}
	me := &graph.User{ID: "fb-1", Email: "nino@example.com"}
	me.Picture.Data.URL = "https://fb/pic.jpg"
	svc, userRepo, _ := newAuthFixture(t, me, existing)
	ctx := context.Background()

	state := stateFrom(t, mustLoginURL(t, svc))
	out, err := svc.HandleCallback(ctx, state, "code")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), out.User.ID)
	require.Len(t, userRepo.users, 1)
	require.NotNil(t, existing.FacebookID)
	assert.Equal(t, "fb-1", *existing.FacebookID)
	assert.Equal(t, "https://fb/pic.jpg", existing.AvatarURL)
}

func TestHandleCallback_ConcurrentCreate(t *testing.T) {
	setupRedis(t)
	me := &graph.User{ID: "fb-1", Email: "nino@example.com"}
	svc, userRepo, _ := newAuthFixture(t, me)
	userRepo.raced = &model.User{ID: 42, Email: "nino@example.com", FacebookID: &me.ID}

	out, err := svc.HandleCallback(context.Background(), stateFrom(t, mustLoginURL(t, svc)), "code")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), out.User.ID)
}

func TestHandleCallback_Failures(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	svc, _, _ := newAuthFixture(t, &graph.User{ID: "fb-1"})
	_, err := svc.HandleCallback(ctx, "unknown", "code")
	assert.ErrorIs(t, err, ErrOAuthState)

	_, err = svc.HandleCallback(ctx, stateFrom(t, mustLoginURL(t, svc)), "code")
	assert.ErrorIs(t, err, ErrMissingEmail)

	svc.oauth = &fakeOAuth{exchangeErr: errors.New("bad code")}
	_, err = svc.HandleCallback(ctx, stateFrom(t, mustLoginURL(t, svc)), "code")
	assert.ErrorIs(t, err, ErrOAuthState)
}

func TestLogout_BlacklistsUntilExpiry(t *testing.T) {
	mr := setupRedis(t)
	svc, _, jwtManager := newAuthFixture(t, nil)
	ctx := context.Background()

	token, err := jwtManager.GenerateToken(5, "a@b.c", "A")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, token))

	signature := token[strings.LastIndex(token, ".")+1:]
	key := consts.TokenBlacklistKey + signature
	assert.True(t, mr.Exists(key))
	ttl := mr.TTL(key)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	assert.ErrorIs(t, svc.Logout(ctx, "garbage"), UnauthorizedError)
}

func TestMe(t *testing.T) {
	user := &model.User{ID: 4, Email: "x@y.z", Name: "X", Accounts: []model.Account{{ID: 1, Username: "acc"}}}
	svc, _, _ := newAuthFixture(t, nil, user)

	out, err := svc.Me(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "x@y.z", out.Email)
	require.Len(t, out.Accounts, 1)
	assert.Equal(t, "acc", out.Accounts[0].Username)

	_, err = svc.Me(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func mustLoginURL(t *testing.T, svc AuthService) string {
	t.Helper()
	u, err := svc.FacebookLoginURL(context.Background())
	require.NoError(t, err)
	return u
}
