package cardgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a senior engineer writing flashcards for technical interview preparation.

Rules:
- Generate the requested number of flashcards for the given language, difficulty, and topics.
- Each question should be phrased the way an interviewer would actually ask it, and be answerable out loud in under a minute.
- The short answer is the model answer in 1-3 sentences. It must be technically correct and current.
- Key points list what a strong answer must mention. Keep each point to one short phrase.
- Red flags list common wrong claims that reveal a misunderstanding. Leave the array empty if nothing fits naturally.
- IDs are lowercase kebab-case: language, topic, then a two-digit counter, e.g. "go-channels-03".
- Tags are lowercase single words or short hyphenated phrases.
- Do not duplicate or trivially rephrase any question from the "already in the catalog" list.`

// buildUserMessage constructs the user message from GenerateInput and
// Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Language: %s\n", input.Language)
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	if len(input.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(input.Topics, ", "))
	} else {
		b.WriteString("Topics: interviewer's choice, cover the core of the language\n")
	}
	fmt.Fprintf(&b, "Number of cards: %d\n", clampCount(input.Count))

	b.WriteString("\nAlready in the catalog:\n")
	b.WriteString(buildDedup(input.ExistingQuestions, cfg.MaxExistingQuestions))

	return b.String()
}

// buildDedup formats existing questions for the prompt, respecting the
// max limit. Returns "None" if the catalog is empty.
func buildDedup(existing []string, max int) string {
	if len(existing) == 0 {
		return "None"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(existing) > max {
		existing = existing[len(existing)-max:]
	}

	var b strings.Builder
	for i, q := range existing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
