package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LLMRequestData describes one LLM call for the request log.
type LLMRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	LatencyMs    int64
	Success      bool
	InputTokens  int
	OutputTokens int
	ErrorMessage string
}

// LLMModelUsage aggregates logged calls for one model.
type LLMModelUsage struct {
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	Failures     int    `db:"failures"`
	AvgLatencyMs int    `db:"avg_latency_ms"`
}

// LLMUsageByModel summarizes the request log per model, busiest first.
func (s *Store) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	var usage []LLMModelUsage
	err := s.db.SelectContext(ctx, &usage, `
SELECT model,
	COUNT(*)                         AS calls,
	COALESCE(SUM(input_tokens), 0)   AS input_tokens,
	COALESCE(SUM(output_tokens), 0)  AS output_tokens,
	COALESCE(SUM(1 - success), 0)    AS failures,
	COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0) AS avg_latency_ms
FROM llm_requests
GROUP BY model
ORDER BY calls DESC, model ASC`)
	if err != nil {
		return nil, fmt.Errorf("llm usage by model: %w", err)
	}
	return usage, nil
}

// AppendLLMRequest records an LLM call. Card generation traffic is logged
// here so cost and failure rates can be inspected later.
func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestData) error {
	success := 0
	if data.Success {
		success = 1
	}
	// Each row gets a stable id so calls can be referenced in bug reports.
	_, err := s.db.ExecContext(ctx, `
INSERT INTO llm_requests (request_id, provider, model, purpose, latency_ms, success,
	input_tokens, output_tokens, error_message, created_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), data.Provider, data.Model, data.Purpose, data.LatencyMs, success,
		data.InputTokens, data.OutputTokens, data.ErrorMessage, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}
