package store

import (
	"fmt"
	"time"

	"chatdig/internal/parse"
)

// LoadConversation rebuilds a parse.Conversation from its stored rows, for
// consumers that want the full value (markdown rendering, export). Returns
// nil when the id is unknown.
func (d *DB) LoadConversation(id string) (*parse.Conversation, error) {
	row, err := d.GetConversation(id)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	msgs, err := d.GetMessages(id)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}

	conv := &parse.Conversation{
		ID:          row.ID,
		Title:       row.Title,
		ProjectID:   row.ProjectID,
		ProjectName: row.ProjectName,
		Model:       row.Model,
		Preview:     row.Preview,
		CreatedAt:   parseTime(row.CreatedAt),
		UpdatedAt:   parseTime(row.UpdatedAt),
	}
	for _, m := range msgs {
		conv.Messages = append(conv.Messages, parse.Message{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: parseTime(m.Ts),
			Index:     m.Seq,
		})
	}
	return conv, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
