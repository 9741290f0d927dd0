package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdig/internal/parse"
)

func TestSearch_FTS(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	results, err := db.Search(Options{Query: "quicksort"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "conv-2", results[0].ConversationID)
	assert.Equal(t, "Sorting algorithms", results[0].Title)
	assert.Contains(t, results[0].Snippet, ">>>")

	// one result per conversation even with multiple hits
	results, err = db.Search(Options{Query: "roses OR winter"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "conv-1", results[0].ConversationID)
}

func TestSearch_Filters(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	results, err := db.Search(Options{Query: "roses", Role: "assistant"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = db.Search(Options{Query: "roses", Role: "user"})
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = db.Search(Options{Query: "quicksort", Project: "Hobbies"})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = db.Search(Options{Query: "quicksort", Since: "2024-02-03"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_CJKFallsBackToLike(t *testing.T) {
	db := openTestDB(t)
	convs := []*parse.Conversation{{
		ID: "conv-zh", Title: "翻译", Preview: "帮我翻译",
		UpdatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Messages: []parse.Message{
			{Role: "user", Text: "帮我把这段话翻译成英文", Index: 0},
		},
	}}
	require.NoError(t, db.ReplaceAll(convs))

	results, err := db.Search(Options{Query: "翻译"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "conv-zh", results[0].ConversationID)
	assert.Contains(t, results[0].Snippet, ">>>翻译<<<")
}

func TestListAll(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ReplaceAll(fixtureConversations()))

	results, err := db.ListAll(Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	// newest first
	assert.Equal(t, "conv-1", results[0].ConversationID)
	assert.Equal(t, "conv-3", results[1].ConversationID)
	assert.Equal(t, "conv-2", results[2].ConversationID)
	assert.Equal(t, -1, results[0].Seq)
	assert.Equal(t, results[0].Preview, results[0].Snippet)

	results, err = db.ListAll(Options{Project: "Hobbies"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "conv-1", results[0].ConversationID)

	results, err = db.ListAll(Options{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestContainsCJK(t *testing.T) {
	assert.True(t, containsCJK("搜索"))
	assert.True(t, containsCJK("mixed 中文 query"))
	assert.False(t, containsCJK("plain english"))
}

func TestMakeSnippet(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog near the river bank every single morning"

	snip := makeSnippet(text, "lazy", 10)
	assert.Contains(t, snip, ">>>lazy<<<")
	assert.True(t, len(snip) < len(text)+12)

	// query at the start: no leading ellipsis
	snip = makeSnippet("hello world", "hello", 20)
	assert.Equal(t, ">>>hello<<< world", snip)

	// no occurrence: leading slice of the text
	snip = makeSnippet(text, "zebra", 10)
	assert.NotContains(t, snip, ">>>")
}
