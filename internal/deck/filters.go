package deck

import (
	"sort"
	"strings"
)

// Filters restricts catalog queries by language, difficulty, and tags.
// Zero values mean "no restriction". A question matches when it satisfies
// every set field; multiple tags require all of them.
type Filters struct {
	Language   string
	Difficulty Difficulty
	Tags       []string
}

// Match reports whether q satisfies the filters.
func (f Filters) Match(q *Question) bool {
	if f.Language != "" && !strings.EqualFold(f.Language, q.Language) {
		return false
	}
	if f.Difficulty != "" && f.Difficulty != q.Difficulty {
		return false
	}
	for _, tag := range f.Tags {
		if !q.HasTag(tag) {
			return false
		}
	}
	return true
}

// Canonical returns a deterministic string form of the filters. Session
// seeds are derived from it, so equal filters must always produce the same
// string regardless of tag order or letter case.
func (f Filters) Canonical() string {
	tags := make([]string, len(f.Tags))
	for i, t := range f.Tags {
		tags[i] = strings.ToLower(t)
	}
	sort.Strings(tags)

	var b strings.Builder
	b.WriteString("lang=")
	b.WriteString(strings.ToLower(f.Language))
	b.WriteString("|diff=")
	b.WriteString(string(f.Difficulty))
	b.WriteString("|tags=")
	b.WriteString(strings.Join(tags, ","))
	return b.String()
}
