package parse

import (
	"strings"
	"time"
)

// Message is one entry of a conversation's linear thread. Built once by the
// linearization pipeline and never mutated afterward.
type Message struct {
	NodeID    string
	Role      string
	Text      string
	Timestamp time.Time // zero when the export carried no create_time
	Index     int       // 0-based position in the thread
}

// Conversation is a fully built conversation: metadata plus the linear
// message sequence selected from its node graph.
type Conversation struct {
	ID          string
	Title       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ProjectID   string
	ProjectName string
	Model       string
	Preview     string
	Messages    []Message
}

// WordCount returns the total whitespace-separated words across messages.
func (c *Conversation) WordCount() int {
	n := 0
	for _, m := range c.Messages {
		n += len(strings.Fields(m.Text))
	}
	return n
}

// Project is a named conversation bucket. Conversations are referenced, not
// owned; the same slice ordering contract as GroupByProject applies.
type Project struct {
	ID            string
	Name          string
	Conversations []*Conversation
}

// MessageCount returns the total messages across the project's conversations.
func (p *Project) MessageCount() int {
	n := 0
	for _, c := range p.Conversations {
		n += len(c.Messages)
	}
	return n
}
