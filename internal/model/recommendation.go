package model

import (
	"time"
)

type RecommendationType string

const (
	RecommendationContentIdea RecommendationType = "CONTENT_IDEA"
	RecommendationCaption     RecommendationType = "CAPTION"
	RecommendationHashtags    RecommendationType = "HASHTAGS"
	RecommendationTiming      RecommendationType = "TIMING"
)

func (t RecommendationType) Valid() bool {
	switch t {
	case RecommendationContentIdea, RecommendationCaption, RecommendationHashtags, RecommendationTiming:
		return true
	}
	return false
}

type RecommendationStatus string

const (
	RecommendationActive    RecommendationStatus = "active"
	RecommendationDismissed RecommendationStatus = "dismissed"
	RecommendationCompleted RecommendationStatus = "completed"
)

func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationActive, RecommendationDismissed, RecommendationCompleted:
		return true
	}
	return false
}

// CanTransitionTo 只允许 active -> dismissed / completed
func (s RecommendationStatus) CanTransitionTo(next RecommendationStatus) bool {
	if s != RecommendationActive {
		return false
	}
	return next == RecommendationDismissed || next == RecommendationCompleted
}

type Recommendation struct {
	ID         uint64               `gorm:"primaryKey" json:"id"`
	AccountID  uint64               `gorm:"not null;index:idx_account_status,priority:1" json:"account_id"`
	Type       RecommendationType   `gorm:"type:varchar(32);not null" json:"type"`
	Title      string               `gorm:"type:varchar(255);not null" json:"title"`
	Content    string               `gorm:"type:json;not null" json:"content"`
	Priority   int                  `gorm:"not null;default:2" json:"priority"`
	Status     RecommendationStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_account_status,priority:2" json:"status"`
	ValidUntil time.Time            `gorm:"not null" json:"valid_until"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
