package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdig/internal/parse"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "chatdig.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fixtureConversations() []*parse.Conversation {
	day := func(d, h int) time.Time { return time.Date(2024, 2, d, h, 0, 0, 0, time.UTC) }
	return []*parse.Conversation{
		{
			ID: "conv-1", Title: "Gardening", ProjectID: "p1", ProjectName: "Hobbies",
			Model: "gpt-4o", Preview: "how do I prune roses",
			CreatedAt: day(1, 9), UpdatedAt: day(3, 9),
			Messages: []parse.Message{
				{Role: "user", Text: "how do I prune roses", Timestamp: day(1, 9), Index: 0},
				{Role: "assistant", Text: "Cut above an outward-facing bud.", Timestamp: day(1, 9), Index: 1},
				{Role: "user", Text: "when is the best season", Timestamp: day(1, 10), Index: 2},
				{Role: "assistant", Text: "Late winter, before new growth.", Timestamp: day(1, 10), Index: 3},
			},
		},
		{
			ID: "conv-2", Title: "Sorting algorithms", Preview: "explain quicksort",
			CreatedAt: day(2, 9), UpdatedAt: day(2, 9),
			Messages: []parse.Message{
				{Role: "user", Text: "explain quicksort", Timestamp: day(2, 9), Index: 0},
				{Role: "assistant", Text: "Quicksort partitions around a pivot.", Timestamp: day(2, 9), Index: 1},
			},
		},
		{ID: "conv-3", Title: "Empty one", CreatedAt: day(2, 12), UpdatedAt: day(2, 12)},
	}
}

func TestReplaceAllAndCounts(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	n, err := db.ConversationCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = db.MessageCount()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = db.ProjectCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// a reload replaces, never appends
	require.NoError(t, db.ReplaceAll(fixtureConversations()[:1]))
	n, err = db.ConversationCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetConversation(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	row, err := db.GetConversation("conv-1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Gardening", row.Title)
	assert.Equal(t, "Hobbies", row.ProjectName)
	assert.Equal(t, 4, row.MessageCount)
	assert.Equal(t, "2024-02-01T09:00:00Z", row.CreatedAt)

	row, err = db.GetConversation("nope")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGetMessages(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	msgs, err := db.GetMessages("conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	for i, m := range msgs {
		assert.Equal(t, i, m.Seq)
	}
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "Late winter, before new growth.", msgs[3].Text)
}

func TestGetMessagesWindow(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	msgs, hitIdx, startPos, total, err := db.GetMessagesWindow("conv-1", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 1, startPos)
	require.Len(t, msgs, 3)
	assert.Equal(t, 1, hitIdx)
	assert.Equal(t, 2, msgs[hitIdx].Seq)

	// no hit seq: whole conversation
	msgs, hitIdx, startPos, total, err = db.GetMessagesWindow("conv-1", -1, 1)
	require.NoError(t, err)
	assert.Equal(t, -1, hitIdx)
	assert.Equal(t, 0, startPos)
	assert.Equal(t, 4, total)
	assert.Len(t, msgs, 4)
}

func TestLoadConversation_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	orig := fixtureConversations()
	require.NoError(t, db.ReplaceAll(orig))

	conv, err := db.LoadConversation("conv-1")
	require.NoError(t, err)
	require.NotNil(t, conv)
	assert.Equal(t, orig[0].Title, conv.Title)
	assert.Equal(t, orig[0].Preview, conv.Preview)
	assert.True(t, conv.CreatedAt.Equal(orig[0].CreatedAt))
	require.Len(t, conv.Messages, 4)
	assert.Equal(t, orig[0].Messages[1].Text, conv.Messages[1].Text)
	assert.Equal(t, 1, conv.Messages[1].Index)

	conv, err = db.LoadConversation("nope")
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "", formatTime(time.Time{}))
	assert.Equal(t, "2024-02-01T09:00:00Z",
		formatTime(time.Date(2024, 2, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))))
}
