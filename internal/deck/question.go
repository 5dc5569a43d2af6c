package deck

import "strings"

// Difficulty buckets questions for filtering and analytics.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists all valid difficulty values.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ValidDifficulty reports whether d is a known difficulty value.
func ValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is an immutable catalog entry. Content is never mutated at
// runtime; learning state lives in a separate per-question record.
type Question struct {
	ID          string     `json:"id" db:"id"`
	Language    string     `json:"language" db:"language"`
	Difficulty  Difficulty `json:"difficulty" db:"difficulty"`
	Tags        []string   `json:"tags"`
	Question    string     `json:"question" db:"question"`
	ShortAnswer string     `json:"short_answer" db:"short_answer"`
	KeyPoints   []string   `json:"key_points"`
	RedFlags    []string   `json:"red_flags,omitempty"`
}

// HasTag reports whether the question carries the given tag.
// Tag comparison is case-insensitive; display order is preserved elsewhere.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
