package service

import (
	"InstaGraph/internal/pkg/llm"
	"InstaGraph/internal/pkg/mongo"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentGenerator_PassesThroughIdeas(t *testing.T) {
	genLog := &fakeGenerationLog{}
	gen := NewContentGenerator(&fakeContentLLM{
		ideas: []llm.ContentIdea{{Title: "Behind the scenes"}},
	}, genLog)

	ideas := gen.GenerateContentIdeas(context.Background(), 3, llm.ContentIdeasRequest{Niche: "food"})
	require.Len(t, ideas, 1)
	assert.Equal(t, "Behind the scenes", ideas[0].Title)

	require.Len(t, genLog.entries, 1)
	entry := genLog.entries[0]
	assert.Equal(t, uint64(3), entry.AccountID)
	assert.Equal(t, mongo.GenerationKindContentIdeas, entry.Kind)
	assert.Equal(t, "fake-model", entry.Model)
	assert.Equal(t, "ideas", entry.Prompt)
	assert.False(t, entry.UsedFallback)
	assert.Empty(t, entry.Error)
}

func TestContentGenerator_EmptyIdeasFallBack(t *testing.T) {
	gen := NewContentGenerator(&fakeContentLLM{}, &fakeGenerationLog{})

	ideas := gen.GenerateContentIdeas(context.Background(), 1, llm.ContentIdeasRequest{Niche: "travel"})
	require.Len(t, ideas, 2)
	assert.Contains(t, ideas[0].Hashtags.Niche, "#travel")
}

func TestContentGenerator_HashtagFallbackByLanguage(t *testing.T) {
	gen := NewContentGenerator(&fakeContentLLM{err: errors.New("timeout")}, &fakeGenerationLog{})

	ka := gen.GenerateHashtags(context.Background(), 1, "Street Food", "general content", "ka")
	assert.Contains(t, ka.Core, "#ქართული")
	assert.Equal(t, "#streetfood", ka.Niche[0])

	en := gen.GenerateHashtags(context.Background(), 1, "Street Food", "general content", "en")
	assert.Contains(t, en.Core, "#business")
}

func TestContentGenerator_LogFailureIsIgnored(t *testing.T) {
	set := &llm.HashtagSet{Core: []string{"#a"}}
	gen := NewContentGenerator(&fakeContentLLM{hashtags: set}, &fakeGenerationLog{err: errors.New("mongo down")})

	got := gen.GenerateHashtags(context.Background(), 1, "food", "general content", "en")
	assert.Equal(t, *set, got)
}
