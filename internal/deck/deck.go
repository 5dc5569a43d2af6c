// Package deck owns the immutable question catalog: the Question model,
// catalog filters, and the deck file format used for imports.
package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Deck is one importable deck file: a named collection of questions.
type Deck struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func compileDeckSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw bytes.
		b, err := json.Marshal(deckSchema)
		if err != nil {
			compileSchemaError = fmt.Errorf("marshal deck schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(b, &parsed); err != nil {
			compileSchemaError = fmt.Errorf("parse deck schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://deck.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compileSchemaError = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile(schemaURL)
	})
	return compiledSchema, compileSchemaError
}

// Parse validates raw deck JSON against the deck schema and decodes it.
func Parse(data []byte) (*Deck, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compileDeckSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("deck validation failed: %w", err)
	}

	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}

	if err := checkDuplicateIDs(d.Questions); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads and parses a deck file from disk.
func LoadFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// checkDuplicateIDs rejects decks that reuse a question ID. The schema
// cannot express cross-item uniqueness, so it is checked here.
func checkDuplicateIDs(questions []Question) error {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}
