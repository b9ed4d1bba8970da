// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/Q2x38b/indexio/internal/intent"
	"github.com/Q2x38b/indexio/pkg/types"
)

const remoteSystemPrompt = `You suggest search queries. Given a partial query, respond with a single JSON object:
{"suggestions": ["<full query suggestion>", ...]}
At most 8 suggestions, each a complete search query extending or refining the input. Respond with JSON only, no prose.`

type remoteReply struct {
	Suggestions []string `json:"suggestions"`
}

// Remote augments the rule-based engine with model-generated suggestions.
// Any failure falls back to the rule-based output alone; Suggest never
// surfaces an error.
type Remote struct {
	model   llms.Model
	local   *Engine
	timeout time.Duration
	logger  *slog.Logger
}

// NewRemote builds a Remote suggester against an OpenAI-compatible chat
// endpoint.
func NewRemote(cfg types.AIConfig, local *Engine) (*Remote, error) {
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	model, err := openai.New(
		openai.WithBaseURL(cfg.ClassifierHost),
		openai.WithToken(token),
		openai.WithModel(cfg.ClassifierModel),
	)
	if err != nil {
		return nil, fmt.Errorf("building remote suggester: %w", err)
	}
	if local == nil {
		local = NewEngine(intent.Local{}, nil, types.SuggestConfig{})
	}
	return &Remote{
		model:   model,
		local:   local,
		timeout: cfg.Timeout,
		logger:  slog.Default().With("component", "suggest-remote"),
	}, nil
}

// Suggest merges model-generated completions with the rule-based set, model
// suggestions first. An empty query skips the model; trending covers it.
func (r *Remote) Suggest(ctx context.Context, query string, limit int) []types.Suggestion {
	base := r.local.Suggest(ctx, query, limit)
	if strings.TrimSpace(query) == "" {
		return base
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{Role: schema.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(remoteSystemPrompt)}},
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(query)}},
	}
	resp, err := r.model.GenerateContent(callCtx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil || len(resp.Choices) == 0 {
		r.logger.Debug("remote suggestions failed, using rule-based set", "err", err)
		return base
	}

	reply, err := parseRemoteReply(resp.Choices[0].Content)
	if err != nil {
		r.logger.Debug("remote suggestions unparseable, using rule-based set", "err", err)
		return base
	}

	merged := make([]types.Suggestion, 0, len(reply.Suggestions)+len(base))
	for _, text := range reply.Suggestions {
		text = strings.TrimSpace(text)
		if text == "" || strings.EqualFold(text, query) {
			continue
		}
		merged = append(merged, types.Suggestion{Text: text, Kind: types.SuggestionCompletion, Confidence: confCompletion + 0.05})
	}
	merged = append(merged, base...)
	merged = dedupe(merged)
	if limit <= 0 {
		limit = 8
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func parseRemoteReply(text string) (remoteReply, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var reply remoteReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return remoteReply{}, fmt.Errorf("parsing suggester reply: %w", err)
	}
	return reply, nil
}
