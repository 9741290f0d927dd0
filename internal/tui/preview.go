package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chatdig/internal/render"
	"chatdig/internal/store"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	conversationID string
	seq            int
	content        string
	hitLine        int
	err            error
}

// loadPreviewCmd returns a tea.Cmd that renders the conversation preview async.
func loadPreviewCmd(db *store.DB, r store.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.Terminal(db, r.ConversationID, render.TerminalOptions{
			HitSeq:  r.Seq,
			Context: -1,
			Width:   width,
			Query:   query,
		})
		return previewRenderedMsg{
			conversationID: r.ConversationID,
			seq:            r.Seq,
			content:        content,
			hitLine:        hitLine,
			err:            err,
		}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
