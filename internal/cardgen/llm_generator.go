package cardgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/prepdeck/internal/deck"
	"github.com/abhisek/prepdeck/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// cardBatchOutput is the raw LLM response before validation.
type cardBatchOutput struct {
	Cards []cardOutput `json:"cards"`
}

type cardOutput struct {
	ID          string   `json:"id"`
	Language    string   `json:"language"`
	Difficulty  string   `json:"difficulty"`
	Tags        []string `json:"tags"`
	Question    string   `json:"question"`
	ShortAnswer string   `json:"short_answer"`
	KeyPoints   []string `json:"key_points"`
	RedFlags    []string `json:"red_flags"`
}

// BuildRequest assembles the prompt for one batch. Exposed so callers
// can preview the exact prompt without spending tokens.
func (g *LLMGenerator) BuildRequest(input GenerateInput) llm.Request {
	return llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      CardBatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
}

// Generate produces a batch of cards for the given input.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) ([]deck.Question, error) {
	ctx = llm.WithPurpose(ctx, "card-generation")

	resp, err := g.provider.Generate(ctx, g.BuildRequest(input))
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw cardBatchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(raw.Cards) == 0 {
		return nil, fmt.Errorf("LLM returned an empty batch")
	}

	taken := make(map[string]bool, len(input.ExistingIDs))
	for _, id := range input.ExistingIDs {
		taken[id] = true
	}

	cards := make([]deck.Question, 0, len(raw.Cards))
	for i := range raw.Cards {
		q := raw.Cards[i].toQuestion(input.Topics)
		q.ID = uniqueID(q.ID, taken)
		taken[q.ID] = true

		for _, v := range g.config.Validators {
			if verr := v.Validate(&q, input); verr != nil {
				return nil, fmt.Errorf("card %d (%s): %w", i+1, q.ID, verr)
			}
		}
		cards = append(cards, q)
	}

	return cards, nil
}

func (c *cardOutput) toQuestion(requestedTopics []string) deck.Question {
	q := deck.Question{
		ID:          c.ID,
		Language:    strings.ToLower(c.Language),
		Difficulty:  deck.Difficulty(c.Difficulty),
		Tags:        c.Tags,
		Question:    c.Question,
		ShortAnswer: c.ShortAnswer,
		KeyPoints:   c.KeyPoints,
		RedFlags:    c.RedFlags,
	}
	// Requested topics always end up as tags so the new cards are
	// reachable through the same filters the user generated them with.
	for _, topic := range requestedTopics {
		if !q.HasTag(topic) {
			q.Tags = append(q.Tags, strings.ToLower(topic))
		}
	}
	return q
}

// uniqueID suffixes id with a counter until it no longer collides with
// an existing catalog ID.
func uniqueID(id string, taken map[string]bool) string {
	if !taken[id] {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if !taken[candidate] {
			return candidate
		}
	}
}
