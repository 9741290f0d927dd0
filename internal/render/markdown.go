// Package render serializes conversations: canonical markdown transcripts
// for the export bundle, and ANSI-colored text for the terminal preview.
package render

import (
	"strings"
	"time"

	"chatdig/internal/parse"
)

const (
	headerDateFormat  = "January 02, 2006"
	messageTimeFormat = "Jan 02, 2006 03:04 PM"

	// timeUnknown is the explicit marker for a missing timestamp. A missing
	// value is never replaced with a fabricated default.
	timeUnknown = "time unknown"
)

// Markdown renders a conversation as its canonical markdown transcript.
// The format is the external contract with downstream tools; rendering the
// same conversation twice yields byte-identical output.
func Markdown(conv *parse.Conversation) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(conv.Title)
	b.WriteString("\n\n")

	project := conv.ProjectName
	if project == "" {
		project = "None"
	}
	model := conv.Model
	if model == "" {
		model = "unknown"
	}

	b.WriteString("**Project:** ")
	b.WriteString(project)
	b.WriteString("\n**Created:** ")
	b.WriteString(headerDate(conv.CreatedAt))
	b.WriteString("\n**Last Updated:** ")
	b.WriteString(headerDate(conv.UpdatedAt))
	b.WriteString("\n**Model:** ")
	b.WriteString(model)
	b.WriteString("\n\n---\n")

	for _, msg := range conv.Messages {
		b.WriteString("\n### ")
		b.WriteString(roleIcon(msg.Role))
		b.WriteString(" ")
		b.WriteString(roleLabel(msg.Role))
		b.WriteString(" – ")
		b.WriteString(messageTime(msg.Timestamp))
		b.WriteString("\n\n")
		b.WriteString(msg.Text)
		b.WriteString("\n")
	}

	return b.String()
}

func headerDate(t time.Time) string {
	if t.IsZero() {
		return timeUnknown
	}
	return t.Format(headerDateFormat)
}

func messageTime(t time.Time) string {
	if t.IsZero() {
		return timeUnknown
	}
	return t.Format(messageTimeFormat)
}

func roleIcon(role string) string {
	switch role {
	case "user":
		return "👤"
	case "assistant":
		return "🤖"
	}
	return "💬"
}

func roleLabel(role string) string {
	switch role {
	case "user":
		return "User"
	case "assistant":
		return "Assistant"
	}
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
