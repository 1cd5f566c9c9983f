package api

import (
	"InstaGraph/internal/api/config"
	"InstaGraph/internal/api/middleware"
	"InstaGraph/internal/pkg/logger"
	"InstaGraph/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter auth 为鉴权中间件，frontendURL 用于 CORS
func SetupRouter(group *HandlersGroup, auth gin.HandlerFunc, frontendURL string, logCfg config.LogConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware(frontendURL))
	logger.SetupGin(r, logCfg)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Success(c, "pong")
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.GET("/facebook", group.AuthHandler.FacebookLogin)
			authGroup.GET("/facebook/callback", group.AuthHandler.FacebookCallback)

			loggedIn := authGroup.Group("")
			loggedIn.Use(auth)
			{
				loggedIn.GET("/me", group.AuthHandler.Me)
				loggedIn.POST("/logout", group.AuthHandler.Logout)
			}
		}

		instagramGroup := apiGroup.Group("/instagram")
		instagramGroup.Use(auth)
		{
			instagramGroup.POST("/connect", group.InstagramHandler.Connect)
			instagramGroup.GET("/accounts", group.InstagramHandler.ListAccounts)
			instagramGroup.GET("/accounts/:id/analytics", group.InstagramHandler.GetAccountAnalytics)
			instagramGroup.POST("/accounts/:id/refresh-insights", group.InstagramHandler.RefreshInsights)
			instagramGroup.GET("/accounts/:id/posts/search", group.InstagramHandler.SearchPosts)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(auth)
		{
			analyticsGroup.GET("/accounts/:id/overview", group.AnalyticsHandler.Overview)
			analyticsGroup.GET("/accounts/:id/content", group.AnalyticsHandler.Content)
			analyticsGroup.GET("/accounts/:id/engagement", group.AnalyticsHandler.Engagement)
		}

		recommendationGroup := apiGroup.Group("/recommendations")
		recommendationGroup.Use(auth)
		{
			recommendationGroup.POST("/accounts/:id/generate", group.RecommendationHandler.Generate)
			recommendationGroup.GET("/accounts/:id", group.RecommendationHandler.List)
			recommendationGroup.PUT("/:id/status", group.RecommendationHandler.UpdateStatus)
		}
	}

	return r
}
