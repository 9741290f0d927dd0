package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"chatdig/internal/render"
	"chatdig/internal/store"
)

// OpenConversation renders a stored conversation to markdown in a temp file
// and opens it in $EDITOR, jumping to the hit message when hitSeq >= 0.
func OpenConversation(db *store.DB, conversationID string, hitSeq int) error {
	conv, err := db.LoadConversation(conversationID)
	if err != nil {
		return fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return fmt.Errorf("conversation not found: %s", conversationID)
	}

	md := render.Markdown(conv)

	path := filepath.Join(os.TempDir(), render.Slugify(conv.Title)+".md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	lineNum := 1
	if hitSeq >= 0 {
		lineNum = messageHeaderLine(md, hitSeq)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, path, lineNum)
}

// messageHeaderLine finds the 1-based line of the (seq+1)-th message header
// in the rendered markdown.
func messageHeaderLine(md string, seq int) int {
	headers := 0
	for i, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "### ") {
			if headers == seq {
				return i + 1
			}
			headers++
		}
	}
	return 1
}

func openInEditor(editor, filePath string, lineNum int) error {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		cmd = exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		cmd = exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
