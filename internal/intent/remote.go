// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

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

	"github.com/Q2x38b/indexio/pkg/types"
)

const remoteSystemPrompt = `You classify search queries. Respond with a single JSON object:
{"type": "<one of: general, person, company, domain, tech, security, research, ip, username, doi>",
 "confidence": <0.0-1.0>,
 "entities": ["<extracted entity strings>"]}
Respond with JSON only, no prose.`

// remoteReply matches the JSON object the model is instructed to emit.
type remoteReply struct {
	Type       string   `json:"type"`
	Confidence float64  `json:"confidence"`
	Entities   []string `json:"entities"`
}

// Remote wraps a chat model behind the Classifier interface. Every failure
// mode (timeout, transport error, malformed or out-of-vocabulary reply)
// falls back to the local classifier; Classify never surfaces an error.
type Remote struct {
	model    llms.Model
	fallback Classifier
	timeout  time.Duration
	logger   *slog.Logger
}

// NewRemote builds a Remote classifier against an OpenAI-compatible chat
// endpoint. Construction failure is returned so the caller can decide to run
// local-only; runtime failures are always swallowed.
func NewRemote(cfg types.AIConfig, fallback Classifier) (*Remote, error) {
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
		return nil, fmt.Errorf("building remote classifier: %w", err)
	}
	return &Remote{
		model:    model,
		fallback: fallback,
		timeout:  cfg.Timeout,
		logger:   slog.Default().With("component", "intent-remote"),
	}, nil
}

// Classify asks the chat model for an intent and falls back to the local
// classifier on any failure. The recommended source list is always taken
// from the static table, never from the model.
func (r *Remote) Classify(ctx context.Context, query string) types.QueryIntent {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	content := []llms.MessageContent{
		{Role: schema.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(remoteSystemPrompt)}},
		{Role: schema.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(query)}},
	}

	resp, err := r.model.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		r.logger.Debug("remote classification failed, using local path", "err", err)
		return r.fallback.Classify(ctx, query)
	}
	if len(resp.Choices) == 0 {
		return r.fallback.Classify(ctx, query)
	}

	reply, err := parseRemoteReply(resp.Choices[0].Content)
	if err != nil {
		r.logger.Debug("remote classification unparseable, using local path", "err", err)
		return r.fallback.Classify(ctx, query)
	}

	t := types.IntentType(reply.Type)
	if !types.ValidIntentType(t) {
		r.logger.Debug("remote classification returned unknown type, using local path", "type", reply.Type)
		return r.fallback.Classify(ctx, query)
	}

	conf := reply.Confidence
	if conf < 0 || conf > 1 {
		conf = confGeneral
	}
	return types.QueryIntent{
		Type:       t,
		Confidence: conf,
		Entities:   reply.Entities,
		Sources:    RecommendedSources(t),
	}
}

// parseRemoteReply decodes the model output, tolerating markdown code fences.
func parseRemoteReply(text string) (remoteReply, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var reply remoteReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return remoteReply{}, fmt.Errorf("parsing classifier reply: %w", err)
	}
	return reply, nil
}
