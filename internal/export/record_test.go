package export

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_Texts(t *testing.T) {
	c := RawContent{
		ContentType: "multimodal_text",
		Parts: []json.RawMessage{
			json.RawMessage(`"first part"`),
			json.RawMessage(`{"content_type":"image_asset_pointer","asset_pointer":"file-abc"}`),
			json.RawMessage(`{"text":"from object"}`),
			json.RawMessage(`"last part"`),
		},
	}
	assert.Equal(t, []string{"first part", "from object", "last part"}, c.Texts())
}

func TestContent_Texts_FlatText(t *testing.T) {
	c := RawContent{ContentType: "text", Text: "flat"}
	assert.Equal(t, []string{"flat"}, c.Texts())

	assert.Nil(t, RawContent{}.Texts())
}

func TestMessage_Hidden(t *testing.T) {
	cases := []struct {
		name string
		msg  *RawMessage
		want bool
	}{
		{"nil message", nil, true},
		{"visible", &RawMessage{Recipient: "all"}, false},
		{"empty recipient", &RawMessage{}, false},
		{"tool recipient", &RawMessage{Recipient: "browser"}, true},
		{"metadata hidden", &RawMessage{Metadata: RawMetadata{VisuallyHidden: true}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.msg.Hidden())
		})
	}
}

func TestTime(t *testing.T) {
	_, ok := Time(nil)
	assert.False(t, ok)

	zero := 0.0
	_, ok = Time(&zero)
	assert.False(t, ok)

	epoch := 1704196800.5 // 2024-01-02T12:00:00.5Z
	ts, ok := Time(&epoch)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 12, 0, 0, 500000000, time.UTC), ts.UTC())
}

func TestConversation_Project(t *testing.T) {
	c := RawConversation{FolderID: "f-1", FolderName: "Research"}
	id, name := c.Project()
	assert.Equal(t, "f-1", id)
	assert.Equal(t, "Research", name)

	c = RawConversation{GizmoID: "g-12345678abc"}
	id, name = c.Project()
	assert.Equal(t, "g-12345678abc", id)
	assert.Equal(t, "GPT g-123456", name)

	c = RawConversation{TemplateID: "t-1"}
	id, name = c.Project()
	assert.Equal(t, "t-1", id)
	assert.Equal(t, "Custom GPT", name)

	id, name = (&RawConversation{}).Project()
	assert.Empty(t, id)
	assert.Empty(t, name)
}

func TestConversation_Key(t *testing.T) {
	c := RawConversation{ID: "fallback", ConversationID: "primary"}
	assert.Equal(t, "primary", c.Key())

	c = RawConversation{ID: "fallback"}
	assert.Equal(t, "fallback", c.Key())
}
