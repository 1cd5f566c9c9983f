package es

import (
	"context"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

const (
	DefaultSearchSize = 20
	MaxSearchSize     = 100
)

type PostRepo interface {
	IndexPost(ctx context.Context, post *PostDoc) error
	SearchPosts(ctx context.Context, q SearchQuery) ([]*PostDoc, error)
}

type PostRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

func NewPostRepo(client *elasticsearch.TypedClient, index string) PostRepo {
	return &PostRepoImpl{client: client, index: index}
}

// IndexPost 以数据库 id 作为文档 id，重复写入即覆盖
func (s *PostRepoImpl) IndexPost(ctx context.Context, post *PostDoc) error {
	if post.Hashtags == nil {
		post.Hashtags = make([]string, 0)
	}
	if post.Mentions == nil {
		post.Mentions = make([]string, 0)
	}
	_, err := s.client.Index(s.index).
		Id(strconv.FormatUint(post.ID, 10)).
		Document(post).
		Do(ctx)
	return err
}

// SearchPosts 按账号过滤，按发布时间倒序，通过 search_after 翻页
func (s *PostRepoImpl) SearchPosts(ctx context.Context, q SearchQuery) ([]*PostDoc, error) {
	size := q.Size
	if size <= 0 {
		size = DefaultSearchSize
	}
	if size > MaxSearchSize {
		size = MaxSearchSize
	}

	filters := []types.Query{{
		Term: map[string]types.TermQuery{
			"account_id": {Value: q.AccountID},
		},
	}}
	if q.MediaType != "" {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{
				"media_type": {Value: strings.ToUpper(q.MediaType)},
			},
		})
	}
	if q.Hashtag != "" {
		// 存储的话题标签不含 #
		tag := strings.TrimPrefix(strings.ToLower(q.Hashtag), "#")
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{
				"hashtags": {Value: tag},
			},
		})
	}

	boolQuery := &types.BoolQuery{Filter: filters}
	if text := strings.TrimSpace(q.Text); text != "" {
		boolQuery.Must = []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  text,
				Fields: []string{"caption^2", "hashtags", "mentions"},
			},
		}}
	}

	req := s.client.Search().
		Index(s.index).
		Query(&types.Query{Bool: boolQuery}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"timestamp": {Order: &sortorder.Desc},
			}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"id": {Order: &sortorder.Desc},
			}},
		).
		Size(size)

	if len(q.After) > 0 {
		searchAfterValues := make([]types.FieldValue, len(q.After))
		for i, v := range q.After {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return s.executeSearch(ctx, req)
}

func (s *PostRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PostDoc, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PostDoc, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var post PostDoc
		if err = json.Unmarshal(hit.Source_, &post); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			post.Sort = make([]any, len(hit.Sort))
			for i, v := range hit.Sort {
				post.Sort[i] = v
			}
		}
		results = append(results, &post)
	}
	return results, nil
}
