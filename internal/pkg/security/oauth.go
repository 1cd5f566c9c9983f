package security

import (
	"InstaGraph/internal/api/config"
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// FacebookOAuth Facebook 登录的授权码流程
type FacebookOAuth struct {
	cfg *oauth2.Config
}

func NewFacebookOAuth(oc config.OAuthConfig, gc config.GraphConfig) *FacebookOAuth {
	version := strings.Trim(gc.Version, "/")
	graphBase := strings.TrimRight(gc.BaseURL, "/")
	return &FacebookOAuth{
		cfg: &oauth2.Config{
			ClientID:     oc.AppID,
			ClientSecret: oc.AppSecret,
			RedirectURL:  oc.CallbackURL,
			Scopes:       oc.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   fmt.Sprintf("https://www.facebook.com/%s/dialog/oauth", version),
				TokenURL:  fmt.Sprintf("%s/%s/oauth/access_token", graphBase, version),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// AuthCodeURL 跳转到 Facebook 的授权页
func (f *FacebookOAuth) AuthCodeURL(state string) string {
	return f.cfg.AuthCodeURL(state)
}

// Exchange 用授权码换取用户访问令牌
func (f *FacebookOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := f.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}
	return token, nil
}
