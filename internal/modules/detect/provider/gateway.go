// Package provider sends prompts to one of several configured LLM
// backends. The gateway walks a priority-ordered fallback chain; a
// call fails only when every configured provider could not be reached.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/draftproof/core/internal/config"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	"go.uber.org/zap"
)

// ErrNoProviderConfigured is returned when no enabled provider carries
// a credential. This is a configuration error, never degraded output.
var ErrNoProviderConfigured = errors.New("no AI provider with a credential is configured")

// ChainError reports that every provider in the fallback chain failed.
type ChainError struct {
	errs []error
}

func (e *ChainError) Error() string {
	parts := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		parts = append(parts, err.Error())
	}
	return "all AI providers failed: " + strings.Join(parts, "; ")
}

func (e *ChainError) Unwrap() []error { return e.errs }

// Gateway calls LLM backends over a generic text-completion protocol.
type Gateway struct {
	chain      []appcfg.AIProvider
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGateway builds the fallback chain from config: the explicit
// default provider first when its credential is present, then the
// remaining enabled, credentialed providers in configuration order.
func NewGateway(cfg appcfg.AIConfig, callTimeout time.Duration, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if callTimeout <= 0 {
		callTimeout = 5 * time.Minute
	}

	var chain []appcfg.AIProvider
	seen := map[string]bool{}

	defaultID := strings.TrimSpace(cfg.DefaultProvider)
	if defaultID != "" {
		for _, p := range cfg.Providers {
			if p.Enabled && strings.TrimSpace(p.ID) == defaultID && strings.TrimSpace(p.APIKey) != "" {
				chain = append(chain, p)
				seen[p.ID] = true
				break
			}
		}
	}
	for _, p := range cfg.Providers {
		if !p.Enabled || seen[p.ID] || strings.TrimSpace(p.APIKey) == "" {
			continue
		}
		chain = append(chain, p)
		seen[p.ID] = true
	}

	return &Gateway{
		chain:      chain,
		httpClient: &http.Client{Timeout: callTimeout},
		logger:     logger,
	}
}

// Configured reports whether at least one provider is usable.
func (g *Gateway) Configured() bool { return len(g.chain) > 0 }

// Call sends the prompt to the first provider in the chain that
// answers. There is no per-provider retry; resilience here is
// cross-provider only.
func (g *Gateway) Call(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if len(g.chain) == 0 {
		return "", ErrNoProviderConfigured
	}

	var errs []error
	for _, p := range g.chain {
		text, err := g.callProvider(ctx, p, prompt, maxTokens, temperature)
		if err == nil {
			return text, nil
		}
		g.logger.Warn("provider call failed",
			zap.String("provider", p.ID),
			zap.String("type", p.Type),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", p.ID, err))
		if ctx.Err() != nil {
			break
		}
	}
	return "", &ChainError{errs: errs}
}

func (g *Gateway) callProvider(ctx context.Context, p appcfg.AIProvider, prompt string, maxTokens int, temperature float64) (string, error) {
	if isOpenAICompatibleType(p.Type) {
		return g.callChatCompletions(ctx, p, prompt, maxTokens, temperature)
	}

	model, err := buildLanguageModel(p)
	if err != nil {
		return "", err
	}
	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(model),
		jetai.WithMaxOutputTokens(maxTokens),
		jetai.WithTemperature(temperature),
	)
	if err != nil {
		return "", err
	}
	return extractResponseText(resp)
}

// callChatCompletions speaks the plain OpenAI-compatible
// chat-completions protocol for self-hosted or proxy endpoints.
func (g *Gateway) callChatCompletions(ctx context.Context, p appcfg.AIProvider, prompt string, maxTokens int, temperature float64) (string, error) {
	if strings.TrimSpace(p.APIKey) == "" {
		return "", errors.New("provider api key is empty")
	}

	endpoint := normalizeCompatibleEndpoint(p.Endpoint)
	model := strings.TrimSpace(p.DefaultModel)
	if model == "" {
		model = "gpt-4o-mini"
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(p.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("chat completions error: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("chat completions error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("empty response from AI")
	}
	return result.Choices[0].Message.Content, nil
}

func buildLanguageModel(p appcfg.AIProvider) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(p.APIKey)
	if apiKey == "" {
		return nil, errors.New("provider api key is empty")
	}

	modelID := strings.TrimSpace(p.DefaultModel)
	endpoint := strings.TrimSpace(p.Endpoint)

	if isAnthropicType(p.Type) {
		if modelID == "" {
			modelID = "claude-haiku-4-5-20251001"
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = "gpt-4o-mini"
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func extractResponseText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from AI")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from AI")
	}
	return text, nil
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

func isOpenAICompatibleType(raw string) bool {
	t := normalizeProviderType(raw)
	return t == "openai-compatible" || t == "openaicompatible"
}

func isAnthropicType(raw string) bool {
	return normalizeProviderType(raw) == "anthropic"
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeCompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
