package api

import "InstaGraph/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler           *handler.AuthHandler
	InstagramHandler      *handler.InstagramHandler
	AnalyticsHandler      *handler.AnalyticsHandler
	RecommendationHandler *handler.RecommendationHandler
}
