package store

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"
)

type Result struct {
	ConversationID string
	Seq            int
	Title          string
	ProjectName    string
	UpdatedAt      string
	Preview        string
	Snippet        string
	Role           string
	Rank           float64
}

type Options struct {
	Query   string
	Project string // "" = all
	Role    string // "" = all, "user", "assistant"
	Since   string // "" = no filter, e.g. "2024-01-01"
	Limit   int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
// FTS5's unicode61 tokenizer cannot split CJK text, so those queries go
// through a LIKE substring scan instead.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 {
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// Search runs a full-text query over the indexed messages and returns at
// most one result per conversation, best hit first.
func (d *DB) Search(opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = d.searchLike(opts)
	} else {
		results, err = d.searchFTS(opts)
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the best-ranked hit per conversation
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.ConversationID] {
			continue
		}
		seen[r.ConversationID] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func (d *DB) searchFTS(opts Options) ([]Result, error) {
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{opts.Query}

	if opts.Project != "" {
		conditions = append(conditions, "c.project_name = ?")
		args = append(args, opts.Project)
	}
	if opts.Role != "" {
		conditions = append(conditions, "m.role = ?")
		args = append(args, opts.Role)
	}
	if opts.Since != "" {
		conditions = append(conditions, "c.updated_at >= ?")
		args = append(args, opts.Since)
	}

	query := fmt.Sprintf(`
		SELECT
			m.conversation_id,
			m.seq,
			c.title,
			c.project_name,
			c.updated_at,
			c.preview,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 40) as snip,
			m.role,
			bm25(messages_fts, 1.0) as rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.rowid
		JOIN conversations c ON m.conversation_id = c.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func (d *DB) searchLike(opts Options) ([]Result, error) {
	conditions := []string{"m.text LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	if opts.Project != "" {
		conditions = append(conditions, "c.project_name = ?")
		args = append(args, opts.Project)
	}
	if opts.Role != "" {
		conditions = append(conditions, "m.role = ?")
		args = append(args, opts.Role)
	}
	if opts.Since != "" {
		conditions = append(conditions, "c.updated_at >= ?")
		args = append(args, opts.Since)
	}

	query := fmt.Sprintf(`
		SELECT
			m.conversation_id,
			m.seq,
			c.title,
			c.project_name,
			c.updated_at,
			c.preview,
			m.text,
			m.role
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE %s
		ORDER BY c.updated_at DESC, c.title
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(
			&r.ConversationID, &r.Seq, &r.Title, &r.ProjectName,
			&r.UpdatedAt, &r.Preview, &fullText, &r.Role,
		); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns every conversation as a Result, newest first, for the
// browse view. The snippet carries the conversation preview.
func (d *DB) ListAll(opts Options) ([]Result, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if opts.Project != "" {
		conditions = append(conditions, "project_name = ?")
		args = append(args, opts.Project)
	}
	if opts.Since != "" {
		conditions = append(conditions, "updated_at >= ?")
		args = append(args, opts.Since)
	}

	query := fmt.Sprintf(`
		SELECT id, title, project_name, updated_at, preview
		FROM conversations
		WHERE %s
		ORDER BY updated_at DESC, title
	`, strings.Join(conditions, " AND "))

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r := Result{Seq: -1}
		if err := rows.Scan(&r.ConversationID, &r.Title, &r.ProjectName, &r.UpdatedAt, &r.Preview); err != nil {
			return nil, err
		}
		r.Snippet = r.Preview
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.ConversationID, &r.Seq, &r.Title, &r.ProjectName,
			&r.UpdatedAt, &r.Preview, &r.Snippet, &r.Role, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
