package service

import (
	"InstaGraph/internal/pkg/llm"
	"InstaGraph/internal/pkg/logger"
	"InstaGraph/internal/pkg/mongo"
	"context"
	log "log/slog"
	"strings"
	"time"
)

// ContentLLM 大模型能力，由 llm.Client 实现
type ContentLLM interface {
	ModelName() string
	GenerateContentIdeas(ctx context.Context, req llm.ContentIdeasRequest) ([]llm.ContentIdea, *llm.Generation, error)
	GenerateHashtags(ctx context.Context, niche, topic, language string) (*llm.HashtagSet, *llm.Generation, error)
}

// ContentGenerator 调用大模型生成内容，失败时返回静态兜底结果，从不返回错误
type ContentGenerator interface {
	GenerateContentIdeas(ctx context.Context, accountID uint64, req llm.ContentIdeasRequest) []llm.ContentIdea
	GenerateHashtags(ctx context.Context, accountID uint64, niche, topic, language string) llm.HashtagSet
}

type ContentGeneratorImpl struct {
	model  ContentLLM
	genLog mongo.GenerationLogRepo
}

func NewContentGenerator(model ContentLLM, genLog mongo.GenerationLogRepo) ContentGenerator {
	return &ContentGeneratorImpl{
		model:  model,
		genLog: genLog,
	}
}

func (s *ContentGeneratorImpl) GenerateContentIdeas(ctx context.Context, accountID uint64, req llm.ContentIdeasRequest) []llm.ContentIdea {
	start := time.Now()
	ideas, gen, err := s.model.GenerateContentIdeas(ctx, req)
	fallback := err != nil || len(ideas) == 0
	if fallback {
		log.WarnContext(ctx, "生成内容创意失败，使用兜底内容", "account_id", accountID, "err", err)
		ideas = FallbackContentIdeas(req.Niche)
	}
	s.record(ctx, accountID, mongo.GenerationKindContentIdeas, gen, err, fallback, start)
	return ideas
}

func (s *ContentGeneratorImpl) GenerateHashtags(ctx context.Context, accountID uint64, niche, topic, language string) llm.HashtagSet {
	start := time.Now()
	set, gen, err := s.model.GenerateHashtags(ctx, niche, topic, language)
	fallback := err != nil || set == nil
	if fallback {
		log.WarnContext(ctx, "生成话题标签失败，使用兜底内容", "account_id", accountID, "err", err)
		set = FallbackHashtags(niche, language)
	}
	s.record(ctx, accountID, mongo.GenerationKindHashtags, gen, err, fallback, start)
	return *set
}

// record 写入生成日志，失败只记录日志
func (s *ContentGeneratorImpl) record(ctx context.Context, accountID uint64, kind string, gen *llm.Generation, genErr error, fallback bool, start time.Time) {
	entry := &mongo.GenerationLog{
		AccountID:    accountID,
		Kind:         kind,
		Model:        s.model.ModelName(),
		UsedFallback: fallback,
		DurationMs:   time.Since(start).Milliseconds(),
		TraceID:      logger.TraceID(ctx),
	}
	if gen != nil {
		entry.Prompt = gen.Prompt
		entry.Output = gen.Output
	}
	if genErr != nil {
		entry.Error = genErr.Error()
	}
	if err := s.genLog.Save(ctx, entry); err != nil {
		log.ErrorContext(ctx, "写入生成日志失败", "kind", kind, "err", err)
	}
}

// FallbackContentIdeas 固定的两条内容创意
func FallbackContentIdeas(niche string) []llm.ContentIdea {
	tag := "#" + strings.ReplaceAll(strings.TrimSpace(niche), " ", "")
	return []llm.ContentIdea{
		{
			Title:       "დღის რჩევა",
			Hooks:       []string{"გსურს იცოდე...", "ეს რჩევა შეცვლის...", "3 წუთში ისწავლე..."},
			Scenario:    "მოკლე ვიდეო სასარგებლო რჩევით",
			ContentType: llm.ContentTypeReel,
			Captions: []llm.Caption{
				{
					Georgian: "დღეს გაგიზიარებთ მნიშვნელოვან რჩევას რომელიც დაგეხმარებათ...",
					English:  "Today I'm sharing an important tip that will help you...",
					Tone:     "informative",
				},
				{
					Georgian: "ჰეი! 👋 რა ფიქრობთ ამ რჩევაზე? კომენტარებში მიწერეთ...",
					English:  "Hey! 👋 What do you think about this tip? Let me know in the comments...",
					Tone:     "friendly",
				},
			},
			Hashtags: llm.HashtagSet{
				Core:     []string{"#რჩევა", "#tip", "#ცოდნა", "#knowledge", "#გაზიარება"},
				Niche:    []string{tag, "#ბიზნესი", "#business", "#წარმატება", "#success", "#სწავლა", "#learning"},
				Rotating: []string{"#დღესდღეობით", "#today", "#ახალი"},
			},
			CallToAction: "შეინახე ეს პოსტი და გაუზიარე მეგობრებს!",
		},
		{
			Title:       "შეცდომები რომლებიც უნდა თავიდან იქნას აცილებული",
			Hooks:       []string{"ეს შეცდომები კლავს...", "არასოდეს გააკეთო ეს...", "TOP 5 შეცდომა..."},
			Scenario:    "Carousel პოსტი 5-7 სლაიდით",
			ContentType: llm.ContentTypeCarousel,
			Captions: []llm.Caption{
				{
					Georgian: "ყველაზე გავრცელებული შეცდომები რომლებიც ხშირად ვხედავ...",
					English:  "The most common mistakes I often see...",
					Tone:     "informative",
				},
				{
					Georgian: "ოუ არა! 🤦 ეს შეცდომები ნამდვილად მტკივნეულია... შენც ხომ არ აკეთებ ასეთ რამეს?",
					English:  "Oh no! 🤦 These mistakes are really painful... Are you making these too?",
					Tone:     "friendly",
				},
			},
			Hashtags: llm.HashtagSet{
				Core:     []string{"#შეცდომები", "#mistakes", "#რჩევები", "#tips", "#სწავლა"},
				Niche:    []string{tag, "#ბიზნესი", "#business", "#გამოცდილება", "#experience", "#წარმატება"},
				Rotating: []string{"#ყურადღება", "#attention", "#მნიშვნელოვანი"},
			},
			CallToAction: "რომელი შეცდომა იყო ყველაზე გასაკვირი? 👇",
		},
	}
}

// FallbackHashtags 按语言返回固定的话题标签组合
func FallbackHashtags(niche, language string) *llm.HashtagSet {
	tag := "#" + strings.ToLower(strings.ReplaceAll(strings.TrimSpace(niche), " ", ""))
	if language == "ka" {
		return &llm.HashtagSet{
			Core:     []string{"#ქართული", "#საქართველო", "#ბიზნესი", "#წარმატება", "#რჩევები"},
			Niche:    []string{tag, "#სწავლა", "#განვითარება", "#მოტივაცია", "#ცოდნა", "#გამოცდილება", "#ინოვაცია"},
			Rotating: []string{"#დღესდღეობით", "#ახალი", "#ტრენდი"},
		}
	}
	return &llm.HashtagSet{
		Core:     []string{"#business", "#success", "#tips", "#motivation", "#growth"},
		Niche:    []string{tag, "#entrepreneur", "#startup", "#innovation", "#strategy", "#leadership", "#development"},
		Rotating: []string{"#trending", "#new", "#today"},
	}
}
