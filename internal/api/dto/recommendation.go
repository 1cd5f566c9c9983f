package dto

import (
	"time"

	"github.com/goccy/go-json"
)

// StatusDTO 更新推荐状态
type StatusDTO struct {
	Status string `json:"status" validate:"required,oneof=active dismissed completed"`
}

type RecommendationDTO struct {
	ID         uint64          `json:"id"`
	AccountID  uint64          `json:"account_id"`
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	Priority   int             `json:"priority"`
	Status     string          `json:"status"`
	ValidUntil time.Time       `json:"valid_until"`
	CreatedAt  time.Time       `json:"created_at"`
}
