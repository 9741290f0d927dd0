// Package parse turns raw export records into Conversation values: it walks
// each conversation's node graph, selects the active branch, normalizes the
// message content, and reports conversations it had to skip.
package parse

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"chatdig/internal/export"
	"chatdig/internal/graph"
)

const (
	titleMaxLen   = 80
	previewMaxLen = 200
)

// Skip records one conversation the parse could not produce.
type Skip struct {
	ConversationID string
	Reason         string
}

// Result is the outcome of parsing a full export: the conversations that
// built, most recently updated first, plus the skip report. Per-conversation
// failures never abort the batch.
type Result struct {
	Conversations []*Conversation
	Skipped       []Skip
}

// Parse builds every conversation in records. Conversations are independent
// of each other, so the work fans out over a small worker pool; results are
// assembled by record index, keeping the output deterministic.
func Parse(records []export.RawConversation, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	type outcome struct {
		conv *Conversation
		skip *Skip
	}
	outcomes := make([]outcome, len(records))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(records) {
		workers = len(records)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				raw := records[i]
				conv, err := buildConversation(raw, logger)
				if err != nil {
					id := raw.Key()
					if id == "" {
						id = fmt.Sprintf("record-%d", i)
					}
					logger.Warn("skipping conversation",
						zap.String("conversation", id),
						zap.Error(err))
					outcomes[i] = outcome{skip: &Skip{ConversationID: id, Reason: err.Error()}}
					continue
				}
				outcomes[i] = outcome{conv: conv}
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &Result{}
	for _, o := range outcomes {
		switch {
		case o.conv != nil:
			result.Conversations = append(result.Conversations, o.conv)
		case o.skip != nil:
			result.Skipped = append(result.Skipped, *o.skip)
		}
	}

	sortConversations(result.Conversations)

	logger.Info("parsed export",
		zap.Int("conversations", len(result.Conversations)),
		zap.Int("skipped", len(result.Skipped)))
	return result
}

// sortConversations orders by update time descending, ties broken by title
// then id so identical inputs always produce identical output.
func sortConversations(convs []*Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		a, b := convs[i], convs[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

func buildConversation(raw export.RawConversation, logger *zap.Logger) (*Conversation, error) {
	if len(raw.Mapping) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", graph.ErrMalformedGraph)
	}

	convLog := logger.With(zap.String("conversation", raw.Key()))

	g, err := graph.Parse(raw.Mapping, convLog)
	if err != nil {
		return nil, err
	}
	thread, err := g.Thread(raw.CurrentNode, convLog)
	if err != nil {
		return nil, err
	}

	var (
		messages  []Message
		firstUser string
		earliest  time.Time
		latest    time.Time
		msgModel  string
	)
	for _, node := range thread {
		if node.Message != nil {
			if ts, ok := export.Time(node.Message.CreateTime); ok {
				if earliest.IsZero() || ts.Before(earliest) {
					earliest = ts
				}
				if latest.IsZero() || ts.After(latest) {
					latest = ts
				}
			}
			if msgModel == "" {
				msgModel = node.Message.Metadata.ModelSlug
			}
		}

		text, ok := displayText(node.Message)
		if !ok {
			continue // structural or filtered node, traversal continues past it
		}

		role := strings.ToLower(node.Message.Author.Role)
		if role == "user" && firstUser == "" {
			firstUser = text
		}

		var ts time.Time
		if t, ok := export.Time(node.Message.CreateTime); ok {
			ts = t
		}
		messages = append(messages, Message{
			NodeID:    node.ID,
			Role:      role,
			Text:      text,
			Timestamp: ts,
			Index:     len(messages),
		})
	}

	createdAt, updatedAt := conversationTimes(raw, earliest, latest)
	title := deriveTitle(raw.Title, firstUser)
	projectID, projectName := raw.Project()

	id := raw.Key()
	if id == "" {
		id = deterministicID(title, createdAt)
	}

	model := raw.ModelSlug
	if model == "" {
		model = msgModel
	}

	preview := "No preview available"
	if firstUser != "" {
		preview = truncate(firstUser, previewMaxLen)
	}

	return &Conversation{
		ID:          id,
		Title:       title,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		ProjectID:   projectID,
		ProjectName: projectName,
		Model:       model,
		Preview:     preview,
		Messages:    messages,
	}, nil
}

// conversationTimes prefers the record's own timestamps and falls back to
// the earliest/latest message times seen on the thread.
func conversationTimes(raw export.RawConversation, earliest, latest time.Time) (createdAt, updatedAt time.Time) {
	if ts, ok := export.Time(raw.CreateTime); ok {
		createdAt = ts
	} else {
		createdAt = earliest
	}
	if ts, ok := export.Time(raw.UpdateTime); ok {
		updatedAt = ts
	} else {
		updatedAt = latest
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return createdAt, updatedAt
}

// deriveTitle uses the export's title when present, otherwise a truncated
// form of the first user message. Deterministic given identical input.
func deriveTitle(rawTitle, firstUser string) string {
	if t := strings.TrimSpace(rawTitle); t != "" {
		return t
	}
	if firstUser != "" {
		return truncate(strings.ReplaceAll(firstUser, "\n", " "), titleMaxLen)
	}
	return "Untitled conversation"
}

func deterministicID(title string, createdAt time.Time) string {
	base := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	if base == "" {
		base = "conversation"
	}
	return base + "-" + createdAt.UTC().Format("20060102150405")
}
