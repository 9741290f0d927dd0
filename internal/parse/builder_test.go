package parse

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdig/internal/export"
)

// 2024-01-02T12:00:00Z
const baseEpoch = 1704196800.0

func fptr(v float64) *float64 { return &v }

func msgNode(id, parent, role, text string, ts float64, children ...string) export.RawNode {
	n := export.RawNode{ID: id, Parent: parent, Children: children}
	if role != "" {
		n.Message = &export.RawMessage{
			Author:  export.RawAuthor{Role: role},
			Content: export.RawContent{ContentType: "text", Parts: []json.RawMessage{json.RawMessage(strconv.Quote(text))}},
		}
		if ts != 0 {
			n.Message.CreateTime = fptr(ts)
		}
	}
	return n
}

func simpleRecord(id, title string) export.RawConversation {
	return export.RawConversation{
		ConversationID: id,
		Title:          title,
		CreateTime:     fptr(baseEpoch),
		UpdateTime:     fptr(baseEpoch + 3600),
		CurrentNode:    "a2",
		ModelSlug:      "gpt-4o",
		Mapping: map[string]export.RawNode{
			"root": msgNode("root", "", "", "", 0, "u1"),
			"u1":   msgNode("u1", "root", "user", "hello there", baseEpoch, "a2"),
			"a2":   msgNode("a2", "u1", "assistant", "hi, how can I help?", baseEpoch+60),
		},
	}
}

func TestParse_Batch(t *testing.T) {
	records := []export.RawConversation{
		simpleRecord("conv-old", "Old"),
		{ConversationID: "conv-broken", Mapping: map[string]export.RawNode{
			"r1": msgNode("r1", "", "", "", 0),
			"r2": msgNode("r2", "", "", "", 0),
		}},
		func() export.RawConversation {
			r := simpleRecord("conv-new", "New")
			r.UpdateTime = fptr(baseEpoch + 7200)
			return r
		}(),
	}

	result := Parse(records, nil)
	require.Len(t, result.Conversations, 2)
	require.Len(t, result.Skipped, 1)

	// most recently updated first
	assert.Equal(t, "conv-new", result.Conversations[0].ID)
	assert.Equal(t, "conv-old", result.Conversations[1].ID)

	assert.Equal(t, "conv-broken", result.Skipped[0].ConversationID)
	assert.Contains(t, result.Skipped[0].Reason, "root")
}

func TestParse_Deterministic(t *testing.T) {
	records := []export.RawConversation{
		simpleRecord("conv-a", "Same title"),
		simpleRecord("conv-b", "Same title"),
		simpleRecord("conv-c", "Another"),
	}

	first := Parse(records, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Parse(records, nil))
	}
	// equal update times tie-break on title then id
	assert.Equal(t, "conv-c", first.Conversations[0].ID)
	assert.Equal(t, "conv-a", first.Conversations[1].ID)
	assert.Equal(t, "conv-b", first.Conversations[2].ID)
}

func TestParse_EmptyInput(t *testing.T) {
	result := Parse(nil, nil)
	assert.Empty(t, result.Conversations)
	assert.Empty(t, result.Skipped)
}

func TestBuildConversation_Fields(t *testing.T) {
	result := Parse([]export.RawConversation{simpleRecord("conv-1", "Greetings")}, nil)
	require.Len(t, result.Conversations, 1)
	c := result.Conversations[0]

	assert.Equal(t, "conv-1", c.ID)
	assert.Equal(t, "Greetings", c.Title)
	assert.Equal(t, "gpt-4o", c.Model)
	assert.Equal(t, "hello there", c.Preview)
	assert.True(t, c.CreatedAt.Equal(time.Unix(int64(baseEpoch), 0)))
	assert.True(t, c.UpdatedAt.Equal(time.Unix(int64(baseEpoch)+3600, 0)))

	require.Len(t, c.Messages, 2)
	assert.Equal(t, "user", c.Messages[0].Role)
	assert.Equal(t, "hello there", c.Messages[0].Text)
	assert.Equal(t, 0, c.Messages[0].Index)
	assert.Equal(t, "assistant", c.Messages[1].Role)
	assert.Equal(t, 1, c.Messages[1].Index)
}

func TestBuildConversation_FiltersNonDisplayNodes(t *testing.T) {
	raw := export.RawConversation{
		ConversationID: "conv-f",
		CurrentNode:    "a4",
		Mapping: map[string]export.RawNode{
			"root": msgNode("root", "", "", "", 0, "s1"),
			"s1":   msgNode("s1", "root", "system", "system prompt", 0, "u2"),
			"u2":   msgNode("u2", "s1", "user", "question", baseEpoch, "t3"),
			"t3":   msgNode("t3", "u2", "tool", "tool output", 0, "a4"),
			"a4":   msgNode("a4", "t3", "assistant", "answer", baseEpoch+10),
		},
	}
	hidden := raw.Mapping["a4"]
	hidden.Children = []string{"h5"}
	raw.Mapping["a4"] = hidden
	raw.Mapping["h5"] = func() export.RawNode {
		n := msgNode("h5", "a4", "assistant", "scratch", 0)
		n.Message.Metadata.VisuallyHidden = true
		return n
	}()
	raw.CurrentNode = "h5"

	result := Parse([]export.RawConversation{raw}, nil)
	require.Len(t, result.Conversations, 1)
	c := result.Conversations[0]

	require.Len(t, c.Messages, 2)
	assert.Equal(t, []string{"question", "answer"}, []string{c.Messages[0].Text, c.Messages[1].Text})
}

func TestBuildConversation_RegenerationFork(t *testing.T) {
	raw := export.RawConversation{
		ConversationID: "conv-fork",
		CurrentNode:    "regen",
		Mapping: map[string]export.RawNode{
			"root":  msgNode("root", "", "", "", 0, "u1"),
			"u1":    msgNode("u1", "root", "user", "prompt", baseEpoch, "old", "regen"),
			"old":   msgNode("old", "u1", "assistant", "first answer", baseEpoch+5),
			"regen": msgNode("regen", "u1", "assistant", "better answer", baseEpoch+90),
		},
	}

	result := Parse([]export.RawConversation{raw}, nil)
	require.Len(t, result.Conversations, 1)
	msgs := result.Conversations[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "better answer", msgs[1].Text)

	// without current_node the newest sibling wins anyway
	raw.CurrentNode = ""
	result = Parse([]export.RawConversation{raw}, nil)
	require.Len(t, result.Conversations, 1)
	assert.Equal(t, "better answer", result.Conversations[0].Messages[1].Text)
}

func TestBuildConversation_TitleFallbacks(t *testing.T) {
	raw := simpleRecord("conv-t", "")
	raw.Mapping["u1"] = msgNode("u1", "root", "user", "what is\nthe capital of France?", baseEpoch, "a2")

	result := Parse([]export.RawConversation{raw}, nil)
	require.Len(t, result.Conversations, 1)
	assert.Equal(t, "what is the capital of France?", result.Conversations[0].Title)

	// no messages at all
	empty := export.RawConversation{
		ConversationID: "conv-e",
		Mapping:        map[string]export.RawNode{"root": msgNode("root", "", "", "", 0)},
	}
	result = Parse([]export.RawConversation{empty}, nil)
	require.Len(t, result.Conversations, 1)
	assert.Equal(t, "Untitled conversation", result.Conversations[0].Title)
	assert.Equal(t, "No preview available", result.Conversations[0].Preview)
	assert.Empty(t, result.Conversations[0].Messages)
}

func TestBuildConversation_TimesFallBackToMessages(t *testing.T) {
	raw := simpleRecord("conv-times", "Times")
	raw.CreateTime = nil
	raw.UpdateTime = nil

	result := Parse([]export.RawConversation{raw}, nil)
	require.Len(t, result.Conversations, 1)
	c := result.Conversations[0]
	assert.True(t, c.CreatedAt.Equal(time.Unix(int64(baseEpoch), 0)))
	assert.True(t, c.UpdatedAt.Equal(time.Unix(int64(baseEpoch)+60, 0)))
}

func TestBuildConversation_ModelFromMessageMetadata(t *testing.T) {
	raw := simpleRecord("conv-m", "Model")
	raw.ModelSlug = ""
	withSlug := raw.Mapping["a2"]
	withSlug.Message.Metadata.ModelSlug = "gpt-4-turbo"
	raw.Mapping["a2"] = withSlug

	result := Parse([]export.RawConversation{raw}, nil)
	require.Len(t, result.Conversations, 1)
	assert.Equal(t, "gpt-4-turbo", result.Conversations[0].Model)
}
