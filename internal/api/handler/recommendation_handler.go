package handler

import (
	"InstaGraph/internal/api/dto"
	"InstaGraph/internal/pkg/response"
	"InstaGraph/internal/pkg/util"
	"InstaGraph/internal/service"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	recommendationSvc service.RecommendationService
}

func NewRecommendationHandler(recommendationSvc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationSvc: recommendationSvc,
	}
}

func (s *RecommendationHandler) Generate(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	recs, err := s.recommendationSvc.Generate(c.Request.Context(), userID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recs)
}

// List ?status= 缺省为 active
func (s *RecommendationHandler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	recs, err := s.recommendationSvc.List(c.Request.Context(), userID, accountID, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, recs)
}

func (s *RecommendationHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetUint64("user_id")
	recommendationID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.StatusDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err = s.recommendationSvc.UpdateStatus(c.Request.Context(), userID, recommendationID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
