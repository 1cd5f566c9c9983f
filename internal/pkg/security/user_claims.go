package security

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims Token 中携带的用户信息，Subject 为用户 ID
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
