// Package reflection produces short coaching summaries of a set of wins using
// an external text-generation service, with an offline stand-in when no
// service is configured.
package reflection

import (
	"context"
	"time"

	"github.com/benvon/joyjar/internal/config"
	"github.com/benvon/joyjar/internal/models"
	"go.uber.org/zap"
)

// Summarizer turns wins into reflection text for the period named by periodLabel
type Summarizer interface {
	Summarize(ctx context.Context, wins []models.Win, periodLabel string) (string, error)
}

// SummarizerFunc adapts a function to Summarizer
type SummarizerFunc func(ctx context.Context, wins []models.Win, periodLabel string) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, wins []models.Win, periodLabel string) (string, error) {
	return f(ctx, wins, periodLabel)
}

// NoWinsMessage is returned instead of calling the service when there is nothing to summarize
const NoWinsMessage = "No wins to analyze for this period. What's one small thing you could celebrate today?"

// OfflineResponse is the canned reflection used when no service is configured
const OfflineResponse = `This is a sample analysis from your Reflection Coach!

*   **Highlights:** Notice how the AI can pinpoint your most impactful activities, like connecting with friends or completing a big project.
*   **Repeat next week:** The coach will suggest concrete actions based on your high-mood wins, helping you build positive momentum.
*   **Watch-outs:** Get gentle nudges on patterns related to spending or effort, helping you stay mindful and balanced.
*   **One-line mantra:** Your journey of reflection starts here.`

// OfflineSummarizer always answers with OfflineResponse
type OfflineSummarizer struct{}

func (OfflineSummarizer) Summarize(ctx context.Context, wins []models.Win, periodLabel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return OfflineResponse, nil
}

// New returns an OpenAI-compatible summarizer when an API key is configured,
// otherwise the offline one
func New(cfg *config.Config, log *zap.Logger) Summarizer {
	if cfg == nil || cfg.OpenAIKey == "" {
		return OfflineSummarizer{}
	}
	return NewOpenAISummarizer(OpenAIConfig{
		APIKey:    cfg.OpenAIKey,
		BaseURL:   cfg.AIBaseURL,
		Model:     cfg.AIModel,
		Timeout:   time.Duration(cfg.AITimeoutSecs) * time.Second,
		Logger:    log,
		DebugMode: cfg.DebugMode,
	})
}

var (
	_ Summarizer = OfflineSummarizer{}
	_ Summarizer = (*OpenAISummarizer)(nil)
	_ Summarizer = SummarizerFunc(nil)
)
