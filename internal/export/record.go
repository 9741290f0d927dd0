package export

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// RawConversation is one entry of conversations.json, decoded once at the
// boundary. Field shapes follow the ChatGPT export format; everything the
// export may omit is modeled as an optional field here instead of being
// re-checked downstream.
type RawConversation struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversation_id"`
	Title          string             `json:"title"`
	CreateTime     *float64           `json:"create_time"`
	UpdateTime     *float64           `json:"update_time"`
	CurrentNode    string             `json:"current_node"`
	Mapping        map[string]RawNode `json:"mapping"`
	ModelSlug      string             `json:"default_model_slug"`

	// Project association. The export has used several names for the
	// grouping concept over time; Key()/ProjectID resolve the cascade.
	FolderID     string `json:"folder_id"`
	FolderName   string `json:"folder_name"`
	GizmoID      string `json:"gizmo_id"`
	GizmoName    string `json:"gizmo_name"`
	TemplateID   string `json:"conversation_template_id"`
	TemplateName string `json:"conversation_template_name"`
}

// Key returns the conversation's stable identifier, preferring
// conversation_id over id.
func (c *RawConversation) Key() string {
	if id := strings.TrimSpace(c.ConversationID); id != "" {
		return id
	}
	return strings.TrimSpace(c.ID)
}

// Project resolves the project association cascade: folders first, then
// gizmos (custom GPTs), then conversation templates. Returns empty strings
// when the conversation is unassigned.
func (c *RawConversation) Project() (id, name string) {
	switch {
	case c.FolderID != "":
		name = c.FolderName
		if name == "" {
			name = "Project " + shortID(c.FolderID)
		}
		return c.FolderID, name
	case c.GizmoID != "":
		name = c.GizmoName
		if name == "" {
			name = "GPT " + shortID(c.GizmoID)
		}
		return c.GizmoID, name
	case c.TemplateID != "":
		name = c.TemplateName
		if name == "" {
			name = "Custom GPT"
		}
		return c.TemplateID, name
	}
	return "", ""
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RawNode is one node of a conversation's mapping table. Parent/Children
// encode the message DAG; Message is nil on synthetic root placeholders.
type RawNode struct {
	ID       string      `json:"id"`
	Parent   string      `json:"parent"`
	Children []string    `json:"children"`
	Message  *RawMessage `json:"message"`
}

// RawMessage is the message payload of a node.
type RawMessage struct {
	ID         string      `json:"id"`
	Author     RawAuthor   `json:"author"`
	CreateTime *float64    `json:"create_time"`
	Content    RawContent  `json:"content"`
	Metadata   RawMetadata `json:"metadata"`
	Recipient  string      `json:"recipient"`
}

type RawAuthor struct {
	Role string `json:"role"`
}

// RawContent carries the multi-part message body. Parts stay raw because a
// part may be a plain string or an object (multimodal attachments, code
// execution results); Texts filters down to the text fragments.
type RawContent struct {
	ContentType string            `json:"content_type"`
	Parts       []json.RawMessage `json:"parts"`
	Text        string            `json:"text"`
}

type RawMetadata struct {
	ModelSlug      string `json:"model_slug"`
	VisuallyHidden bool   `json:"is_visually_hidden_from_conversation"`
}

// Texts returns the textual content parts in order. Object parts contribute
// their "text" field when present; anything else (images, binaries) is
// dropped. A content_type without parts falls back to the flat text field.
func (c RawContent) Texts() []string {
	if len(c.Parts) == 0 {
		if c.Text != "" {
			return []string{c.Text}
		}
		return nil
	}
	var out []string
	for _, part := range c.Parts {
		var s string
		if err := json.Unmarshal(part, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(part, &obj); err == nil && obj.Text != "" {
			out = append(out, obj.Text)
		}
	}
	return out
}

// Hidden reports whether the node is scaffolding the UI never shows:
// tool-call channels (recipient other than "all") or nodes flagged hidden
// in metadata.
func (m *RawMessage) Hidden() bool {
	if m == nil {
		return true
	}
	if m.Metadata.VisuallyHidden {
		return true
	}
	if m.Recipient != "" && m.Recipient != "all" {
		return true
	}
	return false
}

// Time converts an epoch-seconds value (possibly fractional) to a time.Time.
// The zero pointer and the zero epoch both report ok=false.
func Time(value *float64) (time.Time, bool) {
	if value == nil || *value == 0 {
		return time.Time{}, false
	}
	seconds, frac := math.Modf(*value)
	return time.Unix(int64(seconds), int64(frac*1e9)), true
}
