// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Embedder produces vector embeddings for semantic re-ranking.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Blend weights for the two re-ranking passes.
const (
	semanticPriorWeight = 0.4
	semanticSimWeight   = 0.6

	lexicalPriorWeight = 0.5
	lexicalSimWeight   = 0.5
)

// openAIEmbedder adapts a langchaingo embedder to the Embedder interface.
type openAIEmbedder struct {
	embedder embeddings.Embedder
}

// NewOpenAIEmbedder builds an Embedder against an OpenAI-compatible
// embeddings endpoint.
func NewOpenAIEmbedder(cfg types.AIConfig) (Embedder, error) {
	token := cfg.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(cfg.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}
	emb, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}
	return &openAIEmbedder{embedder: emb}, nil
}

func (e *openAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embedder.EmbedDocuments(ctx, texts)
}

// SemanticRerank rescores the top depth results by cosine similarity between
// the query embedding and each result's title+description embedding,
// blending 0.4*prior + 0.6*similarity and re-sorting only that head slice.
// The tail keeps its prior order. Any embedding failure skips the pass
// silently and returns the input order unchanged; the semantic path is an
// enhancement, never a dependency.
func SemanticRerank(ctx context.Context, emb Embedder, query string, results []types.Result, depth int, timeout time.Duration) []types.Result {
	if emb == nil || len(results) == 0 {
		return results
	}
	if depth <= 0 || depth > len(results) {
		depth = len(results)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	texts := make([]string, 0, depth+1)
	texts = append(texts, query)
	for i := 0; i < depth; i++ {
		texts = append(texts, results[i].Title+" "+results[i].Description)
	}

	vectors, err := emb.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != depth+1 {
		slog.Default().Debug("semantic rerank skipped", "err", err)
		return results
	}
	queryVec := vectors[0]

	out := make([]types.Result, len(results))
	copy(out, results)
	for i := 0; i < depth; i++ {
		sim := cosine(queryVec, vectors[i+1])
		blended := semanticPriorWeight*out[i].ScoreOrDefault(defaultSignal) + semanticSimWeight*sim
		if blended > 1.0 {
			blended = 1.0
		} else if blended < 0 {
			blended = 0
		}
		out[i].SetScore(blended)
	}
	head := out[:depth]
	sort.SliceStable(head, func(i, j int) bool {
		return *head[i].Score > *head[j].Score
	})
	return out
}

// LexicalRerank is the always-available fallback: it blends the prior score
// 0.5/0.5 with a lexical similarity between query and result text across the
// whole list and re-sorts.
func LexicalRerank(query string, results []types.Result) []types.Result {
	out := make([]types.Result, len(results))
	copy(out, results)
	for i := range out {
		sim := lexicalSimilarity(query, out[i].Title+" "+out[i].Description)
		blended := lexicalPriorWeight*out[i].ScoreOrDefault(defaultSignal) + lexicalSimWeight*sim
		if blended > 1.0 {
			blended = 1.0
		}
		out[i].SetScore(blended)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Score > *out[j].Score
	})
	return out
}

// lexicalSimilarity is the shared-token overlap ratio between query and
// text, granting half credit when a query token appears only as a substring
// of some text token.
func lexicalSimilarity(query, text string) float64 {
	queryTokens := strings.Fields(strings.ToLower(query))
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := tokenSet(text)

	credit := 0.0
	for _, qt := range queryTokens {
		if textTokens[qt] {
			credit++
			continue
		}
		for tt := range textTokens {
			if len(qt) >= 3 && strings.Contains(tt, qt) {
				credit += 0.5
				break
			}
		}
	}
	sim := credit / float64(len(queryTokens))
	if sim > 1 {
		sim = 1
	}
	return sim
}

// cosine computes cosine similarity, mapped from [-1,1] to [0,1] so it can
// be blended with scores.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return (sim + 1) / 2
}
