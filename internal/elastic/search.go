package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
)

// IndexFor maps an entity kind to its index; empty kind searches all three.
func IndexFor(kind string) []string {
	switch kind {
	case "user":
		return []string{IdxUsers}
	case "project":
		return []string{IdxProjects}
	case "hackathon":
		return []string{IdxHackathons}
	default:
		return []string{IdxUsers, IdxProjects, IdxHackathons}
	}
}

type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// Search runs a multi_match query over the given kind's index.
func Search(ctx context.Context, c *es.Client, kind, query string, size int) ([]Hit, error) {
	if size <= 0 {
		size = 20
	}
	body := map[string]any{
		"size": size,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"title^2", "name^2", "username", "description", "bio", "tech_stack", "skills"},
			},
		},
	}
	buf, _ := json.Marshal(body)

	res, err := c.Search(
		c.Search.WithContext(ctx),
		c.Search.WithIndex(IndexFor(kind)...),
		c.Search.WithBody(bytes.NewReader(buf)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var out struct {
		Hits struct {
			Hits []Hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Hits.Hits, nil
}
