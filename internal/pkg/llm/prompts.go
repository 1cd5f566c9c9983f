package llm

import (
	"InstaGraph/internal/api/config"
	log "log/slog"
	"os"
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

const defaultSystemPrompt = `You are an Instagram growth expert who knows the Georgian market and helps local businesses grow on Instagram. Always answer with valid JSON only, without any explanation.`

const defaultContentIdeasPrompt = `Niche: {{.niche}}
Brand tone: {{.tone}}
Audience languages: {{.languages}}

{{.performance}}

Create {{.count}} content ideas that fit this niche, take the recent results into account and are engaging and valuable.

Return a JSON array. Each item must have:
- "title": string
- "hooks": 3 hook variants (the first 3-5 words)
- "scenario": a short script for a Reel or Carousel
- "contentType": one of REEL, CAROUSEL, SINGLE_IMAGE
- "captions": 2 items {"georgian", "english", "tone"} where tone is informative or friendly
- "hashtags": {"core": 5 tags, "niche": 7 tags, "rotating": 3 tags}
- "callToAction": string`

const defaultHashtagsPrompt = `Generate Instagram hashtags.
Niche: {{.niche}}
Topic: {{.topic}}
Language: {{.language}}

Return a JSON object {"core": [...], "niche": [...], "rotating": [...]} with
5 core hashtags (always usable), 7 niche hashtags (specific to this niche) and 3 rotating hashtags (trending, temporary).`

// Prompts 系统提示词与两个用户提示词模板
type Prompts struct {
	System       string
	ContentIdeas prompts.PromptTemplate
	Hashtags     prompts.PromptTemplate
}

func DefaultPrompts() *Prompts {
	return &Prompts{
		System:       defaultSystemPrompt,
		ContentIdeas: newTemplate(defaultContentIdeasPrompt, "niche", "tone", "languages", "performance", "count"),
		Hashtags:     newTemplate(defaultHashtagsPrompt, "niche", "topic", "language"),
	}
}

// LoadPrompts 从文件读取提示词，文件缺失时使用内置模板
func LoadPrompts(cfg config.PromptPathConfig) *Prompts {
	p := DefaultPrompts()
	if s := readPrompt(cfg.System); s != "" {
		p.System = s
	}
	if s := readPrompt(cfg.ContentIdeas); s != "" {
		p.ContentIdeas = newTemplate(s, p.ContentIdeas.InputVariables...)
	}
	if s := readPrompt(cfg.Hashtags); s != "" {
		p.Hashtags = newTemplate(s, p.Hashtags.InputVariables...)
	}
	return p
}

func newTemplate(tpl string, vars ...string) prompts.PromptTemplate {
	return prompts.PromptTemplate{
		Template:       tpl,
		InputVariables: vars,
		TemplateFormat: prompts.TemplateFormatGoTemplate,
	}
}

func readPrompt(file string) string {
	if file == "" {
		return ""
	}
	data, err := os.ReadFile(file)
	if err != nil {
		log.Warn("读取prompt文件失败，使用内置模板", "file", file, "err", err)
		return ""
	}
	return strings.TrimSpace(string(data))
}
