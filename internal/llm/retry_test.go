package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// cardBatch is the shape the generator asks providers for: a batch of
// front/back flashcards.
var cardBatch = json.RawMessage(`{"cards":[{"front":"What does context.Cause return?","back":"The error passed to the CancelCauseFunc, or ctx.Err()."}]}`)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func generateBatch(t *testing.T, p Provider) *Response {
	t.Helper()
	resp, err := p.Generate(context.Background(), Request{
		System:   "You write flashcards.",
		Messages: []Message{{Role: RoleUser, Content: "5 cards on Go context cancellation"}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return resp
}

func TestRetry_CleanFirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: cardBatch})
	p := WithRetry(mock, fastRetry())

	resp := generateBatch(t, p)
	if string(resp.Content) != string(cardBatch) {
		t.Fatalf("batch content mangled: %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("CallCount = %d, want 1", mock.CallCount())
	}
	// The wrapper must pass the request through untouched.
	if got := mock.Calls[0].Messages[0].Content; got != "5 cards on Go context cancellation" {
		t.Fatalf("forwarded prompt = %q", got)
	}
}

func TestRetry_RecoversFromOutage(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502 from upstream")}},
		MockResponse{Content: cardBatch},
	)
	p := WithRetry(mock, fastRetry())

	resp := generateBatch(t, p)
	if string(resp.Content) != string(cardBatch) {
		t.Fatalf("batch content mangled: %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("CallCount = %d, want 2", mock.CallCount())
	}
}

func TestRetry_GivesUpAfterBudget(t *testing.T) {
	outage := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502 from upstream")}}
	mock := NewMockProvider(outage, outage, outage)
	p := WithRetry(mock, fastRetry())

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "cards"}}})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("CallCount = %d, want all 3 attempts used", mock.CallCount())
	}
}

func TestRetry_TerminalErrorsFailFast(t *testing.T) {
	// Truncated output means the token budget is wrong, not that the
	// provider is flaky. Retrying would burn tokens on the same failure.
	tests := []struct {
		name  string
		err   error
		calls int
	}{
		{
			name:  "token budget exceeded",
			err:   &ErrMaxTokensExceeded{Content: json.RawMessage(`{"cards":[{"fro`)},
			calls: 1,
		},
		{
			name:  "malformed batch retried once",
			err:   &ErrInvalidResponse{Content: json.RawMessage(`not json`), Err: errors.New("invalid character")},
			calls: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider()
			for range tt.calls + 1 {
				mock.AddResponse(MockResponse{Err: tt.err})
			}
			p := WithRetry(mock, fastRetry())

			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "cards"}}})
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if mock.CallCount() != tt.calls {
				t.Fatalf("CallCount = %d, want %d", mock.CallCount(), tt.calls)
			}
		})
	}
}

func TestRetry_CanceledContextStopsBackoff(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("502 from upstream")}},
		MockResponse{Content: cardBatch},
	)
	p := WithRetry(mock, fastRetry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "cards"}}}); err == nil {
		t.Fatal("expected error from canceled context")
	}
	if mock.CallCount() > 1 {
		t.Fatalf("CallCount = %d, want no attempt after cancellation", mock.CallCount())
	}
}

func TestRetry_RateLimitHonorsServerHint(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 1 * time.Millisecond, Err: errors.New("429")}},
		MockResponse{Content: cardBatch},
	)
	p := WithRetry(mock, fastRetry())

	resp := generateBatch(t, p)
	if string(resp.Content) != string(cardBatch) {
		t.Fatalf("batch content mangled: %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("CallCount = %d, want 2", mock.CallCount())
	}
}

func TestRetry_ModelIDPassesThrough(t *testing.T) {
	p := WithRetry(NewMockProvider(), fastRetry())
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q, want mock", p.ModelID())
	}
}
