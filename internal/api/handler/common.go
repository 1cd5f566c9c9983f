package handler

import (
	"InstaGraph/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径中的数字 ID，非法时返回参数错误
func pathID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}
