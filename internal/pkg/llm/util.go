package llm

import (
	"InstaGraph/internal/pkg/util"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

var ErrInvalidJSON = errors.New("llm 返回的内容不是合法 JSON")

// DecodeList 接受 JSON 数组或单个对象，允许外层有代码块包裹
func DecodeList[T any](raw string) ([]T, error) {
	s := util.StripCodeFence(raw)
	if s == "" {
		return nil, ErrInvalidJSON
	}

	if strings.HasPrefix(s, "[") {
		var items []T
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return nil, errors.Join(ErrInvalidJSON, err)
		}
		return items, nil
	}

	var item T
	if err := json.Unmarshal([]byte(s), &item); err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return []T{item}, nil
}

// DecodeObject 解析单个对象，允许外层有代码块包裹
func DecodeObject[T any](raw string) (*T, error) {
	s := util.StripCodeFence(raw)
	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, errors.Join(ErrInvalidJSON, err)
	}
	return &out, nil
}
