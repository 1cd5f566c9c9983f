package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const generationCollection = "llm_generations"

type GenerationLogRepo interface {
	Save(ctx context.Context, entry *GenerationLog) error
}

type generationLogRepoImpl struct {
	col *mongo.Collection
}

func NewGenerationLogRepo(db *mongo.Database) GenerationLogRepo {
	return &generationLogRepoImpl{
		col: db.Collection(generationCollection),
	}
}

func (s *generationLogRepoImpl) Save(ctx context.Context, entry *GenerationLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.col.InsertOne(ctx, entry)
	return err
}
