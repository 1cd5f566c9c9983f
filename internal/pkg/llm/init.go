package llm

import (
	"InstaGraph/internal/api/config"
	"context"
	"errors"
	log "log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/sync/semaphore"
)

var ErrEmptyResponse = errors.New("llm 返回内容为空")

// Client 包装 langchaingo 模型，限制并发并统一模型参数
type Client struct {
	model       llms.Model
	modelName   string
	temperature float64
	maxTokens   int
	sem         *semaphore.Weighted
	prompts     *Prompts
}

func NewClient(cfg config.LLMConfig) (*Client, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.ApiKey),
	}
	if cfg.URL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.URL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		log.Error("AI大模型初始化失败", "err", err)
		return nil, err
	}

	return NewClientWithModel(model, cfg, LoadPrompts(cfg.PromptsPath)), nil
}

// NewClientWithModel 直接使用给定的模型实现
func NewClientWithModel(model llms.Model, cfg config.LLMConfig, prompts *Prompts) *Client {
	if prompts == nil {
		prompts = DefaultPrompts()
	}
	return &Client{
		model:       model,
		modelName:   cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		sem:         newSemaphore(cfg.Concurrency),
		prompts:     prompts,
	}
}

func (c *Client) ModelName() string {
	return c.modelName
}

func (c *Client) Prompts() *Prompts {
	return c.prompts
}

// Generate 单轮对话，返回第一个候选的文本
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	opts := []llms.CallOption{llms.WithTemperature(c.temperature)}
	if c.modelName != "" {
		opts = append(opts, llms.WithModel(c.modelName))
	}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	log.InfoContext(ctx, "正在请求AI大模型", "model", c.modelName)
	resp, err := c.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
