package util

import (
	"encoding/base64"

	"github.com/goccy/go-json"
)

// EncodeCursor 将 ES 返回的 sort 值编码为 URL 安全的游标
func EncodeCursor(sortValues []any) string {
	if len(sortValues) == 0 {
		return ""
	}
	b, _ := json.Marshal(sortValues)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor 空游标返回 nil
func DecodeCursor(cursor string) ([]any, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var sortValues []any
	if err = json.Unmarshal(b, &sortValues); err != nil {
		return nil, err
	}
	return sortValues, nil
}
