package service

import (
	"InstaGraph/internal/model"
	"InstaGraph/internal/pkg/util"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"
)

// ObjectStore 对象存储，由 minio.Storage 实现
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	PublicURL(objectName string) string
}

// ThumbnailMirror 把 Instagram CDN 上的缩略图转存到对象存储
type ThumbnailMirror interface {
	Mirror(ctx context.Context, post *model.Post) (string, error)
	PublicURL(key string) string
}

type ThumbnailMirrorImpl struct {
	store ObjectStore
	http  *resty.Client
	width int
}

func NewThumbnailMirror(store ObjectStore, client *resty.Client, width int) ThumbnailMirror {
	return &ThumbnailMirrorImpl{
		store: store,
		http:  client,
		width: width,
	}
}

// Mirror 返回对象 key，视频使用封面图，其他类型使用媒体地址
func (s *ThumbnailMirrorImpl) Mirror(ctx context.Context, post *model.Post) (string, error) {
	source := post.MediaURL
	if post.MediaType == model.MediaTypeVideo || source == "" {
		source = post.ThumbnailURL
	}
	if source == "" {
		return "", fmt.Errorf("post %s has no image url", post.IgMediaID)
	}

	img, err := util.DownloadImage(ctx, s.http, source)
	if err != nil {
		return "", err
	}
	data, err := util.MakeThumbnail(img, s.width)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("thumbnails/%d/%s.jpg", post.AccountID, post.IgMediaID)
	return s.store.UploadFile(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg")
}

func (s *ThumbnailMirrorImpl) PublicURL(key string) string {
	return s.store.PublicURL(key)
}
