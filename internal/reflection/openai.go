package reflection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/benvon/joyjar/internal/logger"
	"github.com/benvon/joyjar/internal/models"
	"github.com/benvon/joyjar/internal/telemetry"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 60 * time.Second
	// DefaultMaxRetries is how often the client retries transient failures
	DefaultMaxRetries = 2
)

// ErrEmptyResponse is returned when the service answers without any text
var ErrEmptyResponse = errors.New("no content in response")

// OpenAIConfig configures OpenAISummarizer
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// MaxRetries < 0 disables retries
	MaxRetries int
	Logger     *zap.Logger
	DebugMode  bool
}

// OpenAISummarizer calls an OpenAI-compatible chat completions endpoint
type OpenAISummarizer struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAISummarizer creates a summarizer from cfg, filling in defaults
func NewOpenAISummarizer(cfg OpenAIConfig) *OpenAISummarizer {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	retries := cfg.MaxRetries
	switch {
	case retries == 0:
		retries = DefaultMaxRetries
	case retries < 0:
		retries = 0
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(retries),
	)

	return &OpenAISummarizer{
		client:    client,
		model:     cfg.Model,
		logger:    logger.OrNop(cfg.Logger),
		debugMode: cfg.DebugMode,
	}
}

// promptWin is the subset of a win sent to the service
type promptWin struct {
	Title    string      `json:"title"`
	Date     models.Date `json:"date"`
	Category string      `json:"category"`
	Tags     []string    `json:"tags"`
	Mood     int         `json:"mood"`
	Effort   int         `json:"effort"`
	Cost     float64     `json:"cost"`
	Notes    string      `json:"notes,omitempty"`
}

// BuildPrompt renders the coaching prompt for wins over periodLabel
func BuildPrompt(wins []models.Win, periodLabel string) (string, error) {
	data := make([]promptWin, 0, len(wins))
	for _, w := range wins {
		tags := w.Tags
		if tags == nil {
			tags = []string{}
		}
		data = append(data, promptWin{
			Title:    w.Title,
			Date:     w.Date,
			Category: w.Category,
			Tags:     tags,
			Mood:     w.Mood,
			Effort:   w.Effort,
			Cost:     w.Cost,
			Notes:    w.Notes,
		})
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode wins for prompt: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a kind, practical reflection coach, acting as a private mirror for the user. ")
	b.WriteString("Your tone is always gentle, positive, and celebratory. Your goal is to provide actionable advice and positive reinforcement.\n")
	fmt.Fprintf(&b, "Summarize these wins for %s. Return EXACTLY 4 bullets, using markdown for bolding:\n\n", periodLabel)
	b.WriteString("1) **Highlights**: Celebrate 1-2 key achievements. Mention *why* they are significant based on mood, effort, or category. This is for positive reinforcement.\n")
	b.WriteString("2) **Repeat Next Week**: Suggest 3 specific, actionable behaviors to carry forward. Base these on high-mood wins. Frame them as encouraging experiments.\n")
	b.WriteString("3) **Watch-outs**: Gently point out a potential pattern related to money, effort, or mood (e.g., high spending, or low-mood streaks). Offer one supportive nudge or question for reflection.\n")
	b.WriteString("4) **One-Line Mantra**: A short, inspiring phrase for the week ahead (10 words max).\n\n")
	b.WriteString("Be specific to the provided data. Keep the total response under 110 words.\n\n")
	b.WriteString("DATA:\n")
	b.Write(encoded)
	b.WriteString("\n")
	return b.String(), nil
}

// Summarize asks the service for a reflection. Failures match models.ErrSummarizationFailed.
func (p *OpenAISummarizer) Summarize(ctx context.Context, wins []models.Win, periodLabel string) (string, error) {
	if len(wins) == 0 {
		return NoWinsMessage, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "reflection.summarize",
		attribute.String("model", p.model),
		attribute.Int("wins", len(wins)),
	)
	defer span.End()

	prompt, err := BuildPrompt(wins, periodLabel)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrSummarizationFailed, err)
	}

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	if p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "summarize_wins"),
			zap.String("model", p.model),
			zap.String("period", periodLabel),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", logger.SanitizeDebugContent(prompt)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if apiErr := ExtractAPIError(err); apiErr != nil {
			err = apiErr
		}
		err = fmt.Errorf("%w: %w", models.ErrSummarizationFailed, err)
		telemetry.RecordError(span, err)
		p.logger.Warn("llm_api_error",
			zap.String("operation", "summarize_wins"),
			zap.String("model", p.model),
			zap.String("error", logger.SanitizeError(err)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
		return "", err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		err := fmt.Errorf("%w: %w", models.ErrSummarizationFailed, ErrEmptyResponse)
		telemetry.RecordError(span, err)
		return "", err
	}
	content := resp.Choices[0].Message.Content

	if p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "summarize_wins"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", logger.SanitizeDebugContent(content)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return content, nil
}
