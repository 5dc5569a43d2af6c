package cardgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/prepdeck/internal/deck"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *deck.Question, input GenerateInput) *ValidationError {
	if !idPattern.MatchString(q.ID) {
		return v.fail(fmt.Sprintf("id %q is not lowercase kebab-case", q.ID))
	}
	if q.Question == "" {
		return v.fail("question is empty")
	}
	if len(q.Question) > 500 {
		return v.fail("question exceeds 500 characters")
	}
	if q.ShortAnswer == "" {
		return v.fail("short_answer is empty")
	}
	if len(q.ShortAnswer) > 1000 {
		return v.fail("short_answer exceeds 1000 characters")
	}
	if !deck.ValidDifficulty(string(q.Difficulty)) {
		return v.fail(fmt.Sprintf("unknown difficulty %q", q.Difficulty))
	}
	if input.Language != "" && !strings.EqualFold(q.Language, input.Language) {
		return v.fail(fmt.Sprintf("language %q does not match requested %q", q.Language, input.Language))
	}
	if len(q.KeyPoints) == 0 {
		return v.fail("key_points is empty")
	}
	for _, p := range q.KeyPoints {
		if strings.TrimSpace(p) == "" {
			return v.fail("key_points contains a blank entry")
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
}
