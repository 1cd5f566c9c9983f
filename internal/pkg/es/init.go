package es

import (
	"InstaGraph/internal/api/config"
	"InstaGraph/internal/pkg/logger"
	"context"
	"errors"
	log "log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// InitClient 初始化 Elasticsearch 客户端并确保帖子索引存在
func InitClient(cfg config.ElasticConfig) (*elasticsearch.TypedClient, error) {
	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{cfg.Address},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: logger.NewHTTPTransport("elasticsearch", true),
	})
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return nil, err
	}

	ctx := context.Background()
	info, err := client.Info().Do(ctx)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return nil, err
	}

	if err = ensurePostIndex(ctx, client, cfg.PostIndex); err != nil {
		log.Error("Create post index failed", "index", cfg.PostIndex, "err", err)
		return nil, err
	}

	log.Info("Connected to Elasticsearch", "version", info.Version.Int)
	return client, nil
}

func ensurePostIndex(ctx context.Context, client *elasticsearch.TypedClient, index string) error {
	exists, err := client.Indices.Exists(index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = client.Indices.Create(index).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":              types.NewLongNumberProperty(),
				"account_id":      types.NewLongNumberProperty(),
				"ig_media_id":     types.NewKeywordProperty(),
				"media_type":      types.NewKeywordProperty(),
				"caption":         types.NewTextProperty(),
				"hashtags":        types.NewKeywordProperty(),
				"mentions":        types.NewKeywordProperty(),
				"permalink":       types.NewKeywordProperty(),
				"thumbnail_url":   types.NewKeywordProperty(),
				"like_count":      types.NewIntegerNumberProperty(),
				"comments_count":  types.NewIntegerNumberProperty(),
				"engagement_rate": types.NewFloatNumberProperty(),
				"timestamp":       types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		// 并发启动时可能已被其他实例创建
		if errors.As(err, &e) && e.ErrorCause.Type == "resource_already_exists_exception" {
			return nil
		}
	}
	return err
}
