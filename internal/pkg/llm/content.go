package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	ContentTypeReel        = "REEL"
	ContentTypeCarousel    = "CAROUSEL"
	ContentTypeSingleImage = "SINGLE_IMAGE"
)

type Caption struct {
	Georgian string `json:"georgian"`
	English  string `json:"english"`
	Tone     string `json:"tone"`
}

type HashtagSet struct {
	Core     []string `json:"core"`
	Niche    []string `json:"niche"`
	Rotating []string `json:"rotating"`
}

func (h HashtagSet) Empty() bool {
	return len(h.Core) == 0 && len(h.Niche) == 0 && len(h.Rotating) == 0
}

type ContentIdea struct {
	Title        string     `json:"title"`
	Hooks        []string   `json:"hooks"`
	Scenario     string     `json:"scenario"`
	ContentType  string     `json:"contentType"`
	Captions     []Caption  `json:"captions"`
	Hashtags     HashtagSet `json:"hashtags"`
	CallToAction string     `json:"callToAction"`
}

// PostPerformance 写入提示词的近期帖子表现
type PostPerformance struct {
	MediaType      string  `json:"media_type"`
	EngagementRate float64 `json:"engagement_rate"`
	Reach          int     `json:"reach"`
	Likes          int     `json:"likes"`
	Caption        string  `json:"caption"`
}

type ContentIdeasRequest struct {
	Niche     string
	Tone      string
	Languages []string
	Recent    []PostPerformance
	Count     int
}

// Generation 一次调用的提示词与原始输出，用于记录
type Generation struct {
	Prompt string
	Output string
}

// GenerateContentIdeas 请求模型生成内容创意
func (c *Client) GenerateContentIdeas(ctx context.Context, req ContentIdeasRequest) ([]ContentIdea, *Generation, error) {
	prompt, err := c.prompts.ContentIdeas.Format(map[string]any{
		"niche":       req.Niche,
		"tone":        req.Tone,
		"languages":   languageNames(req.Languages),
		"performance": performanceSummary(req.Recent),
		"count":       req.Count,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("format content prompt: %w", err)
	}

	gen := &Generation{Prompt: prompt}
	out, err := c.Generate(ctx, c.prompts.System, prompt)
	if err != nil {
		return nil, gen, err
	}
	gen.Output = out

	ideas, err := DecodeList[ContentIdea](out)
	if err != nil {
		return nil, gen, err
	}
	valid := ideas[:0]
	for _, idea := range ideas {
		if strings.TrimSpace(idea.Title) != "" {
			valid = append(valid, idea)
		}
	}
	if len(valid) == 0 {
		return nil, gen, ErrInvalidJSON
	}
	return valid, gen, nil
}

// GenerateHashtags 请求模型生成话题标签组合
func (c *Client) GenerateHashtags(ctx context.Context, niche, topic, language string) (*HashtagSet, *Generation, error) {
	prompt, err := c.prompts.Hashtags.Format(map[string]any{
		"niche":    niche,
		"topic":    topic,
		"language": languageName(language),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("format hashtag prompt: %w", err)
	}

	gen := &Generation{Prompt: prompt}
	out, err := c.Generate(ctx, c.prompts.System, prompt)
	if err != nil {
		return nil, gen, err
	}
	gen.Output = out

	set, err := DecodeObject[HashtagSet](out)
	if err != nil {
		return nil, gen, err
	}
	if set.Empty() {
		return nil, gen, ErrInvalidJSON
	}
	return set, gen, nil
}

func performanceSummary(recent []PostPerformance) string {
	if len(recent) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent posts:\n")
	for _, p := range recent {
		fmt.Fprintf(&b, "- %s: ER %.2f%%, Reach: %d, Likes: %d\n", p.MediaType, p.EngagementRate, p.Reach, p.Likes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func languageNames(codes []string) string {
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		names = append(names, languageName(c))
	}
	return strings.Join(names, ", ")
}

func languageName(code string) string {
	switch code {
	case "ka":
		return "Georgian"
	case "en":
		return "English"
	default:
		return code
	}
}
