package parse

import (
	"strings"
	"unicode/utf8"

	"chatdig/internal/export"
)

// JoinParts collapses a node's content parts into one display string: parts
// are joined with a single newline, empty parts are skipped. An empty result
// after trimming classifies the node as filterable.
func JoinParts(parts []string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// displayText normalizes a node's message for the rendered thread. ok is
// false for nodes the thread never shows: structural placeholders, hidden
// scaffolding, tool output, system instructions, and messages whose content
// normalizes to nothing.
//
// Tool and system nodes stay in the graph (the caller still traverses
// through them); they are only excluded from the emitted sequence.
func displayText(msg *export.RawMessage) (text string, ok bool) {
	if msg == nil || msg.Hidden() {
		return "", false
	}
	switch strings.ToLower(msg.Author.Role) {
	case "user", "assistant":
	default:
		return "", false
	}
	text = JoinParts(msg.Content.Texts())
	if text == "" {
		return "", false
	}
	return text, true
}

// truncate cuts text to at most limit bytes on a rune boundary and appends
// an ellipsis marker when anything was cut.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	// back off a rune the cut split in half
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r == utf8.RuneError && size == 1 {
			cut = cut[:len(cut)-1]
			continue
		}
		break
	}
	cut = strings.TrimSpace(cut)
	if !strings.HasSuffix(cut, "...") {
		cut += "..."
	}
	return cut
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
