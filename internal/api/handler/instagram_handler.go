package handler

import (
	"InstaGraph/internal/api/dto"
	"InstaGraph/internal/pkg/response"
	"InstaGraph/internal/pkg/util"
	"InstaGraph/internal/service"

	"github.com/gin-gonic/gin"
)

type InstagramHandler struct {
	instagramSvc service.InstagramService
}

func NewInstagramHandler(instagramSvc service.InstagramService) *InstagramHandler {
	return &InstagramHandler{
		instagramSvc: instagramSvc,
	}
}

func (s *InstagramHandler) Connect(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ConnectDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	account, err := s.instagramSvc.ConnectAccount(c.Request.Context(), userID, req.AccessToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, account)
}

func (s *InstagramHandler) ListAccounts(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accounts, err := s.instagramSvc.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, accounts)
}

func (s *InstagramHandler) GetAccountAnalytics(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := s.instagramSvc.GetAccountAnalytics(c.Request.Context(), userID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func (s *InstagramHandler) RefreshInsights(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.instagramSvc.RefreshInsights(c.Request.Context(), userID, accountID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *InstagramHandler) SearchPosts(c *gin.Context) {
	userID := c.GetUint64("user_id")
	accountID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var query dto.PostSearchDTO
	if err = c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = util.ValidateDTO(&query); err != nil {
		response.Error(c, err)
		return
	}

	out, err := s.instagramSvc.SearchPosts(c.Request.Context(), userID, accountID, &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
