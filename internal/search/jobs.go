package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/jobdeck/jobboard/internal/models"
)

const JobIndex = "jobs"

// JobIndexer mirrors job writes into the search index. Index failures are
// reported to the caller, which logs them without failing the request.
type JobIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewJobIndexer(es *elasticsearch.Client) *JobIndexer {
	return &JobIndexer{ES: es, Index: JobIndex}
}

func (i *JobIndexer) IndexJob(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}

	res, err := i.ES.Index(
		i.Index,
		bytes.NewReader(data),
		i.ES.Index.WithDocumentID(job.UID.String()),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index job: %s", res.Status())
	}
	return nil
}

func (i *JobIndexer) DeleteJob(ctx context.Context, uid string) error {
	res, err := i.ES.Delete(i.Index, uid, i.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete job from index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete job from index: %s", res.Status())
	}
	return nil
}

func (i *JobIndexer) SearchJobs(ctx context.Context, query string, from, size int) (int64, []models.Job, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description", "location"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search jobs: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search jobs: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search jobs: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Job `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search jobs: decode: %w", err)
	}

	jobs := make([]models.Job, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		jobs[i] = hit.Source
	}
	return r.Hits.Total.Value, jobs, nil
}
