package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"github.com/campushub/campushub/internal/domain/feedback"
	"github.com/campushub/campushub/internal/domain/shared/events"
	"github.com/campushub/campushub/internal/shared/logger"
)

// DefaultIndex holds one document per live thread.
const DefaultIndex = "feedback_threads"

type threadDoc struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	CreatedByRole string `json:"created_by_role"`
	LastMessageAt int64  `json:"last_message_at"`
}

// ThreadIndex keeps a Meilisearch index of thread titles in sync with thread
// events and answers title searches with candidate ids. Visibility is applied
// afterwards by the database query.
type ThreadIndex struct {
	client    meilisearch.ServiceManager
	indexName string
	logger    logger.Interface
}

var _ events.EventHandler = (*ThreadIndex)(nil)

func NewThreadIndex(client meilisearch.ServiceManager, indexName string, logger logger.Interface) *ThreadIndex {
	if indexName == "" {
		indexName = DefaultIndex
	}
	return &ThreadIndex{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}
}

// Init configures index settings. Failures are logged; search keeps working
// with defaults.
func (x *ThreadIndex) Init() {
	searchable := []string{"title"}
	if _, err := x.client.Index(x.indexName).UpdateSearchableAttributes(&searchable); err != nil {
		x.logger.Warnw("failed to update searchable attributes", "index", x.indexName, "error", err)
	}

	filterable := []interface{}{"status", "priority", "type", "created_by_role"}
	if _, err := x.client.Index(x.indexName).UpdateFilterableAttributes(&filterable); err != nil {
		x.logger.Warnw("failed to update filterable attributes", "index", x.indexName, "error", err)
	}

	sortable := []string{"last_message_at"}
	if _, err := x.client.Index(x.indexName).UpdateSortableAttributes(&sortable); err != nil {
		x.logger.Warnw("failed to update sortable attributes", "index", x.indexName, "error", err)
	}

	x.logger.Infow("search index initialized", "index", x.indexName)
}

func (x *ThreadIndex) CanHandle(eventType string) bool {
	switch eventType {
	case feedback.EventThreadCreated,
		feedback.EventThreadReplied,
		feedback.EventThreadStatusChanged,
		feedback.EventThreadPriorityChanged,
		feedback.EventThreadDeleted,
		feedback.EventThreadRestored,
		feedback.EventThreadMigrated:
		return true
	}
	return false
}

func (x *ThreadIndex) Handle(_ context.Context, event events.DomainEvent) error {
	te, ok := event.(feedback.ThreadEvent)
	if !ok {
		return nil
	}
	if te.Thread.Deleted {
		return x.Remove(te.Thread.ID)
	}
	return x.Upsert(te.Thread)
}

func (x *ThreadIndex) Upsert(t feedback.ThreadSnapshot) error {
	doc := threadDoc{
		ID:            t.ID,
		Title:         t.Title,
		Type:          t.Type,
		Status:        t.Status,
		Priority:      t.Priority,
		CreatedByRole: t.CreatedByRole,
		LastMessageAt: t.LastMessageAt.UnixMilli(),
	}

	task, err := x.client.Index(x.indexName).AddDocuments([]threadDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index thread %s: %w", t.ID, err)
	}

	x.logger.Debugw("thread indexed", "thread_id", t.ID, "task_uid", task.TaskUID)
	return nil
}

func (x *ThreadIndex) Remove(threadID string) error {
	if _, err := x.client.Index(x.indexName).DeleteDocument(threadID); err != nil {
		return fmt.Errorf("failed to remove thread %s from index: %w", threadID, err)
	}

	x.logger.Debugw("thread removed from index", "thread_id", threadID)
	return nil
}

type searchHits struct {
	Hits []struct {
		ID string `json:"id"`
	} `json:"hits"`
}

// SearchThreadIDs returns ids of threads whose indexed title matches query,
// best match first.
func (x *ThreadIndex) SearchThreadIDs(_ context.Context, query string, limit int) ([]string, error) {
	raw, err := x.client.Index(x.indexName).SearchRaw(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
		AttributesToSearchOn: []string{"title"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search threads: %w", err)
	}
	if raw == nil {
		return []string{}, nil
	}

	var resp searchHits
	if err := json.Unmarshal(*raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]string, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		if h.ID != "" {
			ids = append(ids, h.ID)
		}
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
