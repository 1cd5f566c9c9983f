package handler

import (
	"InstaGraph/internal/pkg/response"
	"InstaGraph/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
	}
}

func (s *AnalyticsHandler) Overview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.analyticsSvc.Overview(c.Request.Context(), userID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *AnalyticsHandler) Content(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.analyticsSvc.Content(c.Request.Context(), userID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *AnalyticsHandler) Engagement(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.analyticsSvc.Engagement(c.Request.Context(), userID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
