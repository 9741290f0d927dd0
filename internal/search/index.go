// Package search provides the in-memory query index over a loaded export.
// Matching is a case-insensitive substring test over each conversation's
// title and message text: predictable and cheap, no stemming or ranking.
package search

import (
	"sort"
	"strings"

	"chatdig/internal/parse"
)

// Index maps conversations to their searchable text. It is an immutable
// snapshot of one conversation set; reloading an export means building a new
// Index, never mutating an old one.
type Index struct {
	convs      []*parse.Conversation
	searchable []string // lower-cased title + message text, same order as convs
}

// NewIndex builds an index over convs. Query results come back most
// recently updated first with ties broken by title, regardless of the order
// convs was supplied in.
func NewIndex(convs []*parse.Conversation) *Index {
	sorted := make([]*parse.Conversation, len(convs))
	copy(sorted, convs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})

	idx := &Index{
		convs:      sorted,
		searchable: make([]string, len(sorted)),
	}
	for i, c := range sorted {
		var b strings.Builder
		b.WriteString(c.Title)
		for _, m := range c.Messages {
			b.WriteByte('\n')
			b.WriteString(m.Text)
		}
		idx.searchable[i] = strings.ToLower(b.String())
	}
	return idx
}

// Query returns the conversations whose title or message text contains query
// as a case-insensitive substring, most recently updated first and ties
// broken by title. An empty query matches nothing.
func (idx *Index) Query(query string) []*parse.Conversation {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var hits []*parse.Conversation
	for i, text := range idx.searchable {
		if strings.Contains(text, query) {
			hits = append(hits, idx.convs[i])
		}
	}
	return hits
}

// Len returns the number of indexed conversations.
func (idx *Index) Len() int { return len(idx.convs) }
