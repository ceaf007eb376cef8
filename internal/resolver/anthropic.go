package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/MrSnakeDoc/blockpanel/internal/domain"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/metrics"
)

const (
	DefaultModel   = "claude-3-5-haiku-latest"
	DefaultTimeout = 10 * time.Second

	maxAnswerTokens = 64
)

const promptTemplate = `What is the primary website domain name for the application named %q?
Only return the domain string (e.g., "discord.com", "telegram.org").
Do not include https:// or www.
If unsure, return %q.`

// AnthropicOptions configures the model-backed resolver.
type AnthropicOptions struct {
	APIKey   string
	Model    string
	BaseURL  string        // optional, used by tests and proxies
	Timeout  time.Duration // per-request deadline
	Fallback string
}

// AnthropicResolver asks a text-generation model for the primary website of
// an application.
type AnthropicResolver struct {
	client   anthropic.Client
	model    string
	timeout  time.Duration
	fallback string
	log      logger.Logger
	metrics  *metrics.Metrics
}

func NewAnthropic(opts AnthropicOptions, log logger.Logger, m *metrics.Metrics) *AnthropicResolver {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &AnthropicResolver{
		client:   anthropic.NewClient(reqOpts...),
		model:    opts.Model,
		timeout:  opts.Timeout,
		fallback: opts.Fallback,
		log:      log,
		metrics:  m,
	}
}

func (r *AnthropicResolver) Resolve(ctx context.Context, name string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg, err := r.client.Messages.New(reqCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.model),
		MaxTokens: maxAnswerTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf(promptTemplate, name, r.fallback))),
		},
	})
	if err != nil {
		// The caller gave up: report it instead of inventing a hostname.
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.metrics.Resolved(metrics.OutcomeError)
			return "", ctxErr
		}
		r.log.Warn("domain resolution failed, using fallback",
			logger.String("name", name),
			logger.Error(err))
		r.metrics.Resolved(metrics.OutcomeFallback)
		return r.fallback, nil
	}

	var answer strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}

	host := domain.NormalizeDomain(answer.String())
	if host == "" {
		r.log.Debug("model answer is not a hostname, using fallback",
			logger.String("name", name),
			logger.String("answer", answer.String()))
		r.metrics.Resolved(metrics.OutcomeFallback)
		return r.fallback, nil
	}

	r.log.Debug("domain resolved",
		logger.String("name", name),
		logger.String("domain", host))
	r.metrics.Resolved(metrics.OutcomeModel)
	return host, nil
}
