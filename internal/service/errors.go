package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
	ServiceUnavailable  = 503
)

var (
	ErrParamInvalid             = errors.New("参数错误")
	ErrUserNotFound             = errors.New("用户不存在")
	ErrAccountNotFound          = errors.New("账号不存在")
	ErrInstagramAccountNotFound = errors.New("未找到 Instagram 商业账号")
	ErrRecommendationNotFound   = errors.New("推荐不存在")
	ErrInvalidStatusTransition  = errors.New("推荐状态不允许此变更")
	ErrIngestionInProgress      = errors.New("数据正在同步中，请稍后重试")
	ErrGraphUnavailable         = errors.New("Instagram 接口暂不可用")
	ErrSearchDisabled           = errors.New("帖子搜索未启用")
	ErrOAuthState               = errors.New("登录状态已失效，请重新登录")
	ErrMissingEmail             = errors.New("Facebook 账号未授权邮箱")
	UnauthorizedError           = errors.New("权限不足")
	UnExpectedError             = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:             BadRequest,
	ErrUserNotFound:             NotFound,
	ErrAccountNotFound:          NotFound,
	ErrInstagramAccountNotFound: NotFound,
	ErrRecommendationNotFound:   NotFound,
	ErrInvalidStatusTransition:  BadRequest,
	ErrIngestionInProgress:      Conflict,
	ErrGraphUnavailable:         BadGateway,
	ErrSearchDisabled:           ServiceUnavailable,
	ErrOAuthState:               Unauthorized,
	ErrMissingEmail:             BadRequest,
	UnauthorizedError:           Unauthorized,
	UnExpectedError:             InternalServerError,
}
