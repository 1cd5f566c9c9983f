package dto

import "time"

// Response 统一响应结构
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// UserDTO 当前登录用户
type UserDTO struct {
	ID        uint64       `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	Accounts  []AccountDTO `json:"accounts,omitempty"`
}

// LoginResultDTO Facebook 登录结果
type LoginResultDTO struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}
