package handler

import (
	"InstaGraph/internal/api/middleware"
	"InstaGraph/internal/pkg/response"
	"InstaGraph/internal/service"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const loginErrorMessage = "ავტორიზაციის შეცდომა"

type AuthHandler struct {
	authSvc     service.AuthService
	frontendURL string
}

func NewAuthHandler(authSvc service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authSvc:     authSvc,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// FacebookLogin 跳转到 Facebook 授权页
func (s *AuthHandler) FacebookLogin(c *gin.Context) {
	loginURL, err := s.authSvc.FacebookLoginURL(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusFound, loginURL)
}

// FacebookCallback 登录结果通过重定向交给前端
func (s *AuthHandler) FacebookCallback(c *gin.Context) {
	result, err := s.authSvc.HandleCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		log.WarnContext(c.Request.Context(), "Facebook 登录失败", "err", err)
		c.Redirect(http.StatusFound, s.frontendURL+"/auth/error?message="+url.QueryEscape(loginErrorMessage))
		return
	}

	user, err := json.Marshal(result.User)
	if err != nil {
		response.Error(c, err)
		return
	}
	query := url.Values{}
	query.Set("token", result.AccessToken)
	query.Set("user", string(user))
	c.Redirect(http.StatusFound, s.frontendURL+"/auth/callback?"+query.Encode())
}

func (s *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint64("user_id")
	user, err := s.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *AuthHandler) Logout(c *gin.Context) {
	token, _ := middleware.BearerToken(c)
	if err := s.authSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
