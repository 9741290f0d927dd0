package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chatdig/internal/parse"
)

func TestMarkdown(t *testing.T) {
	conv := &parse.Conversation{
		Title:       "Trip planning",
		ProjectName: "Travel",
		Model:       "gpt-4o",
		CreatedAt:   time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
		Messages: []parse.Message{
			{Role: "user", Text: "Where to in May?", Timestamp: time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)},
			{Role: "assistant", Text: "Lisbon is lovely.\n\nMild and cheap.", Timestamp: time.Date(2024, 1, 2, 15, 5, 0, 0, time.UTC)},
		},
	}

	want := `# Trip planning

**Project:** Travel
**Created:** January 02, 2024
**Last Updated:** January 03, 2024
**Model:** gpt-4o

---

### 👤 User – Jan 02, 2024 03:04 PM

Where to in May?

### 🤖 Assistant – Jan 02, 2024 03:05 PM

Lisbon is lovely.

Mild and cheap.
`
	assert.Equal(t, want, Markdown(conv))

	// rendering is byte-stable
	assert.Equal(t, Markdown(conv), Markdown(conv))
}

func TestMarkdown_Fallbacks(t *testing.T) {
	conv := &parse.Conversation{
		Title: "Bare",
		Messages: []parse.Message{
			{Role: "tool", Text: "output"},
		},
	}

	want := `# Bare

**Project:** None
**Created:** time unknown
**Last Updated:** time unknown
**Model:** unknown

---

### 💬 Tool – time unknown

output
`
	assert.Equal(t, want, Markdown(conv))
}

func TestMarkdown_EmptyConversation(t *testing.T) {
	conv := &parse.Conversation{
		Title:     "Empty",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	out := Markdown(conv)
	assert.Contains(t, out, "# Empty\n")
	assert.Contains(t, out, "**Model:** unknown")
	// header only, no message sections
	assert.NotContains(t, out, "###")
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "User", roleLabel("user"))
	assert.Equal(t, "Assistant", roleLabel("assistant"))
	assert.Equal(t, "System", roleLabel("system"))
	assert.Equal(t, "Unknown", roleLabel(""))
}
