// Package anthropic adapts the Claude Messages API to the moderation,
// summarization and topic-extraction operations the services need.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hcmus-forum/forumus-backend/internal/config"
	"github.com/hcmus-forum/forumus-backend/internal/domain"
)

const maxResponseTokens = 1024

// Client calls Claude with a per-request timeout. A timeout surfaces as
// domain.ErrTimeout so callers can distinguish a slow model from a broken one.
type Client struct {
	api     anthropic.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Claude client from the AI configuration.
func New(log *slog.Logger, cfg config.AIConfig) *Client {
	return &Client{
		api:     anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		log:     log.With("adapter", "anthropic"),
	}
}

// Validate checks a post against the community guidelines and returns the
// moderation verdict.
func (c *Client) Validate(ctx context.Context, title, content string) (domain.ModerationResult, error) {
	prompt := buildModerationPrompt(title, content)

	text, err := c.ask(ctx, prompt)
	if err != nil {
		return domain.ModerationResult{}, fmt.Errorf("moderation call: %w", err)
	}

	verdict, err := parseModerationVerdict(text)
	if err != nil {
		return domain.ModerationResult{}, fmt.Errorf("parse moderation verdict: %w", err)
	}
	return verdict, nil
}

// Summarize returns a short summary of the given post text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	out, err := c.ask(ctx, buildSummaryPrompt(text))
	if err != nil {
		return "", fmt.Errorf("summary call: %w", err)
	}

	out = cleanSummary(out)
	if out == "" {
		return "", fmt.Errorf("summary call: empty summary")
	}
	return out, nil
}

// ExtractTopics asks the model to pick up to three topic names from
// candidates that fit the given post text. Returned names are raw; the
// caller matches them against the directory.
func (c *Client) ExtractTopics(ctx context.Context, text string, candidates []string) ([]string, error) {
	out, err := c.ask(ctx, buildTopicsPrompt(text, candidates))
	if err != nil {
		return nil, fmt.Errorf("topic extraction call: %w", err)
	}

	names, err := parseTopicList(out)
	if err != nil {
		return nil, fmt.Errorf("parse topic list: %w", err)
	}
	return names, nil
}

// ask sends one user message and returns the text of the first content block.
func (c *Client) ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxResponseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("model did not answer within %s: %w", c.timeout, domain.ErrTimeout)
		}
		return "", fmt.Errorf("messages api: %w", err)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	c.log.DebugContext(ctx, "model call finished",
		slog.String("model", c.model),
		slog.Duration("took", time.Since(started)))
	return msg.Content[0].Text, nil
}

func buildModerationPrompt(title, content string) string {
	return fmt.Sprintf(`You are a content moderator for a university student forum.

Review the following post against these community guidelines:
- No hate speech, harassment, or personal attacks
- No explicit, violent, or sexual content
- No spam, scams, or advertising
- No sharing of personal data of others
- Academic dishonesty (selling answers, impersonation) is not allowed

Post title: %s

Post content:
%s

Output ONLY a valid JSON object matching this exact schema:
{
  "valid": <true|false>,
  "reasons": "<empty when valid, otherwise a short human-readable list of violated guidelines>"
}

Output ONLY the JSON, no markdown, no explanations.`, title, content)
}

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(`Summarize the following forum post in 1-2 plain sentences for a preview card. Answer in the language of the post.

%s

Output ONLY the summary text, no quotes, no markdown, no explanations.`, text)
}

func buildTopicsPrompt(text string, candidates []string) string {
	return fmt.Sprintf(`You are filing a forum post under topics.

Known topics:
%s

Post:
%s

Pick at most 3 topics from the known list that fit the post. Never invent new topics.

Output ONLY a valid JSON array of topic names, for example: ["Academics", "Housing"]. Output ONLY the JSON, no markdown, no explanations.`, strings.Join(candidates, "\n"), text)
}
