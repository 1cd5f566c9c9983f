package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenerationKindContentIdeas = "content_ideas"
	GenerationKindHashtags     = "hashtags"
)

// GenerationLog 一次 LLM 调用的记录
type GenerationLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID    uint64             `bson:"account_id" json:"account_id"`
	Kind         string             `bson:"kind" json:"kind"`
	Model        string             `bson:"model" json:"model"`
	Prompt       string             `bson:"prompt" json:"prompt"`
	Output       string             `bson:"output,omitempty" json:"output,omitempty"`
	Error        string             `bson:"error,omitempty" json:"error,omitempty"`
	UsedFallback bool               `bson:"used_fallback" json:"used_fallback"`
	DurationMs   int64              `bson:"duration_ms" json:"duration_ms"`
	TraceID      string             `bson:"trace_id,omitempty" json:"trace_id,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
