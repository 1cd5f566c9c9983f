package util

import (
	"regexp"
	"strings"
)

var (
	hashtagRegex = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionRegex = regexp.MustCompile(`@([A-Za-z0-9._]+)`)
)

// ExtractHashtags 提取去重后的话题标签，统一小写，不含 #
func ExtractHashtags(caption string) []string {
	return extractUnique(hashtagRegex, caption, true)
}

// ExtractMentions 提取去重后的 @ 用户名，不含 @
func ExtractMentions(caption string) []string {
	return extractUnique(mentionRegex, caption, false)
}

func extractUnique(re *regexp.Regexp, text string, lower bool) []string {
	matches := re.FindAllStringSubmatch(text, -1)

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		v := strings.TrimRight(m[1], "._")
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// StripCodeFence 去掉 LLM 输出外层的 ```json ... ``` 包裹
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}
