// Package store persists parsed conversations in a local SQLite database so
// search and browsing do not re-parse the export on every run. The FTS5
// virtual table over message text powers full-text search.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"chatdig/internal/parse"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS conversations (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    project_id    TEXT NOT NULL DEFAULT '',
    project_name  TEXT NOT NULL DEFAULT '',
    model         TEXT NOT NULL DEFAULT '',
    preview       TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL DEFAULT '',
    updated_at    TEXT NOT NULL DEFAULT '',
    message_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS messages (
    conversation_id TEXT NOT NULL,
    seq             INTEGER NOT NULL,
    role            TEXT NOT NULL,
    ts              TEXT NOT NULL DEFAULT '',
    text            TEXT NOT NULL,
    PRIMARY KEY (conversation_id, seq)
);

CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
    text,
    content=messages,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
    INSERT INTO messages_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS messages_au AFTER UPDATE ON messages BEGIN
    INSERT INTO messages_fts(messages_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO messages_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion should be bumped whenever the parsing or indexing logic
// changes in a way that requires re-indexing an export.
const schemaVersion = "1"

// timeLayout is how timestamps are stored; lexicographic order matches
// chronological order so SQL can sort and filter on the text column.
const timeLayout = "2006-01-02T15:04:05Z"

type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	d.migrateSchemaVersion()
	return d, nil
}

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		d.db.Exec("DELETE FROM messages")
		d.db.Exec("DELETE FROM conversations")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Raw() *sql.DB { return d.db }

// ReplaceAll swaps the stored conversation set for convs in one transaction.
// A reload replaces everything; there is no partial-update visibility.
func (d *DB) ReplaceAll(convs []*parse.Conversation) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM conversations"); err != nil {
		return err
	}

	convStmt, err := tx.Prepare(
		`INSERT INTO conversations (id, title, project_id, project_name, model, preview, created_at, updated_at, message_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer convStmt.Close()

	msgStmt, err := tx.Prepare(
		`INSERT INTO messages (conversation_id, seq, role, ts, text)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer msgStmt.Close()

	for _, c := range convs {
		_, err := convStmt.Exec(
			c.ID, c.Title, c.ProjectID, c.ProjectName, c.Model, c.Preview,
			formatTime(c.CreatedAt), formatTime(c.UpdatedAt), len(c.Messages))
		if err != nil {
			return fmt.Errorf("insert conversation %s: %w", c.ID, err)
		}
		for _, m := range c.Messages {
			if _, err := msgStmt.Exec(c.ID, m.Index, m.Role, formatTime(m.Timestamp), m.Text); err != nil {
				return fmt.Errorf("insert message %s/%d: %w", c.ID, m.Index, err)
			}
		}
	}

	return tx.Commit()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

type ConversationRow struct {
	ID           string
	Title        string
	ProjectID    string
	ProjectName  string
	Model        string
	Preview      string
	CreatedAt    string
	UpdatedAt    string
	MessageCount int
}

type MessageRow struct {
	ConversationID string
	Seq            int
	Role           string
	Ts             string
	Text           string
}

const conversationCols = "id, title, project_id, project_name, model, preview, created_at, updated_at, message_count"

func (d *DB) GetConversation(id string) (*ConversationRow, error) {
	var c ConversationRow
	err := d.db.QueryRow(
		"SELECT "+conversationCols+" FROM conversations WHERE id = ?", id,
	).Scan(&c.ID, &c.Title, &c.ProjectID, &c.ProjectName, &c.Model, &c.Preview,
		&c.CreatedAt, &c.UpdatedAt, &c.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) GetMessages(conversationID string) ([]MessageRow, error) {
	rows, err := d.db.Query(
		"SELECT conversation_id, seq, role, ts, text FROM messages WHERE conversation_id = ? ORDER BY seq",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []MessageRow
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.ConversationID, &m.Seq, &m.Role, &m.Ts, &m.Text); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessagesWindow returns a window of messages around a hit message,
// loading only the needed rows. startPos is the number of messages before
// the window; totalCount is the conversation's total.
func (d *DB) GetMessagesWindow(conversationID string, hitSeq, context int) (msgs []MessageRow, hitIdx int, startPos int, totalCount int, err error) {
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM messages WHERE conversation_id = ?", conversationID,
	).Scan(&totalCount)
	if err != nil {
		return nil, -1, 0, 0, err
	}

	hitPos := -1
	if hitSeq >= 0 {
		err = d.db.QueryRow(`
			SELECT pos FROM (
				SELECT seq, ROW_NUMBER() OVER (ORDER BY seq) - 1 AS pos
				FROM messages WHERE conversation_id = ?
			) WHERE seq = ?`,
			conversationID, hitSeq,
		).Scan(&hitPos)
		if err == sql.ErrNoRows {
			hitPos = -1
			err = nil
		} else if err != nil {
			return nil, -1, 0, 0, err
		}
	}

	startPos = 0
	limit := totalCount
	if hitPos >= 0 {
		startPos = hitPos - context
		if startPos < 0 {
			startPos = 0
		}
		endPos := hitPos + context + 1
		if endPos > totalCount {
			endPos = totalCount
		}
		limit = endPos - startPos
	}

	rows, err := d.db.Query(
		"SELECT conversation_id, seq, role, ts, text FROM messages WHERE conversation_id = ? ORDER BY seq LIMIT ? OFFSET ?",
		conversationID, limit, startPos)
	if err != nil {
		return nil, -1, 0, 0, err
	}
	defer rows.Close()

	var result []MessageRow
	localHitIdx := -1
	for rows.Next() {
		var m MessageRow
		if err := rows.Scan(&m.ConversationID, &m.Seq, &m.Role, &m.Ts, &m.Text); err != nil {
			return nil, -1, 0, 0, err
		}
		if m.Seq == hitSeq {
			localHitIdx = len(result)
		}
		result = append(result, m)
	}
	return result, localHitIdx, startPos, totalCount, rows.Err()
}

func (d *DB) ConversationCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&n)
	return n, err
}

func (d *DB) MessageCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n)
	return n, err
}

func (d *DB) ProjectCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(DISTINCT project_id) FROM conversations WHERE project_id != ''").Scan(&n)
	return n, err
}
