package util

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
)

const maxThumbnailSourceBytes = 20 << 20

// DownloadImage 下载并解码图片
func DownloadImage(ctx context.Context, client *resty.Client, url string) (image.Image, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode())
	}

	img, err := imaging.Decode(io.LimitReader(body, maxThumbnailSourceBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// MakeThumbnail 等比缩放到指定宽度并编码为 JPEG，原图更窄时不放大
func MakeThumbnail(img image.Image, width int) ([]byte, error) {
	if width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
