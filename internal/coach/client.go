// Package coach talks to an OpenAI compatible chat model for habit analysis
// and free-form coaching chat.
package coach

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/habitflow/habitflow/internal/config"
	"github.com/habitflow/habitflow/internal/logger"
)

// Options tune the two request modes
type Options struct {
	Timeout         time.Duration
	MaxTokens       int
	Temperature     float64
	ChatMaxTokens   int
	ChatTemperature float64
}

type Client struct {
	model llms.Model
	opts  Options
	now   func() time.Time
}

// New wraps any langchaingo model
func New(model llms.Model, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Client{model: model, opts: opts, now: time.Now}
}

// NewFromConfig builds a client on the OpenAI compatible endpoint of cfg
func NewFromConfig(cfg config.CoachConfig, apiKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, errors.Join(ErrNotConfigured, err)
	}
	return New(model, Options{
		Timeout:         time.Duration(cfg.TimeoutSec) * time.Second,
		MaxTokens:       cfg.MaxTokens,
		Temperature:     cfg.Temperature,
		ChatMaxTokens:   cfg.ChatMaxTokens,
		ChatTemperature: cfg.ChatTemperature,
	}), nil
}

// Analyze asks for the five-field habit analysis. Upstream failures are
// classified; a reply that is not JSON still yields an Analysis.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (Analysis, error) {
	if err := req.Validate(); err != nil {
		return Analysis{}, err
	}

	msgs := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, analysisSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, buildAnalysisPrompt(req)),
	}
	raw, err := c.generate(ctx, msgs,
		llms.WithMaxTokens(c.opts.MaxTokens),
		llms.WithTemperature(c.opts.Temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return Analysis{}, err
	}
	return ParseAnalysis(raw), nil
}

// Role of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "assistant"
)

type Turn struct {
	Role Role
	Text string
}

// ChatRequest is one chat turn with its preceding history
type ChatRequest struct {
	Message    string
	History    []Turn
	UserName   string
	AppContext string
}

// Chat returns the raw reply text. It may contain directive tags.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	msgs := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, chatSystemPrompt(req.UserName, c.now())),
	}
	for _, turn := range req.History {
		role := schema.ChatMessageTypeHuman
		if turn.Role == RoleCoach {
			role = schema.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, turn.Text))
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeHuman, chatUserPrompt(req.AppContext, req.Message)))

	return c.generate(ctx, msgs,
		llms.WithMaxTokens(c.opts.ChatMaxTokens),
		llms.WithTemperature(c.opts.ChatTemperature),
	)
}

func (c *Client) generate(ctx context.Context, msgs []llms.MessageContent, options ...llms.CallOption) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, msgs, options...)
	if err != nil {
		err = classify(ctx, err)
		logger.Warn("Coach request failed", "error", err, "elapsed", time.Since(start))
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrMalformedResponse
	}
	logger.Debug("Coach replied", "elapsed", time.Since(start), "chars", len(resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}
