// Package search maintains an optional Elasticsearch index of task titles
// and descriptions. The SQL list endpoint stays authoritative; this backs
// the fuzzy /tasks/search endpoint only. A nil *Index disables everything.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/task_manager/internal/models"
)

const TaskIndex = "tasks"

type Index struct {
	es *elasticsearch.Client
}

func NewIndex(url, user, password string) (*Index, error) {
	if url == "" {
		return nil, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("search: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: info: %s", res.Status())
	}

	return &Index{es: client}, nil
}

func (i *Index) Enabled() bool { return i != nil }

type taskDoc struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
}

func (i *Index) IndexTask(ctx context.Context, task *models.Task) error {
	if i == nil {
		return nil
	}

	doc := taskDoc{
		ID:       task.ID,
		UserID:   task.UserID,
		Title:    task.Title,
		Status:   string(task.Status),
		Priority: string(task.Priority),
	}
	if task.Description != nil {
		doc.Description = *task.Description
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("search: encode: %w", err)
	}

	res, err := i.es.Index(TaskIndex, &buf,
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(task.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("search: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index: %s", res.Status())
	}
	return nil
}

func (i *Index) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if i == nil {
		return nil
	}

	res, err := i.es.Delete(TaskIndex, id.String(), i.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search: delete: %w", err)
	}
	defer res.Body.Close()
	// 404 is fine, the doc may never have been indexed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: delete: %s", res.Status())
	}
	return nil
}

type Hit struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// SearchTasks runs a fuzzy multi_match over title/description, hard-filtered
// to the caller's user id.
func (i *Index) SearchTasks(ctx context.Context, userID uuid.UUID, query string, from, size int) (int64, []Hit, error) {
	if i == nil {
		return 0, nil, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID.String()},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(TaskIndex),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Hit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	hits := make([]Hit, len(r.Hits.Hits))
	for n, h := range r.Hits.Hits {
		hits[n] = h.Source
	}
	return r.Hits.Total.Value, hits, nil
}
