// Package qdrant implements vectorstore.VectorStore against a Qdrant
// collection holding the knowledge base.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/admin-ga/iasted/vectorstore"
)

// Config holds Qdrant connection configuration.
type Config struct {
	// URL is the Qdrant server address (e.g., "https://example.qdrant.io:6334").
	URL string

	// CollectionName is the knowledge collection to query.
	CollectionName string

	// APIKey is the optional API key for authentication.
	APIKey string
}

// Client implements vectorstore.VectorStore for Qdrant.
type Client struct {
	client         *qdrant.Client
	collectionName string
}

// New creates a Qdrant-backed knowledge store.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant url is required")
	}
	if cfg.CollectionName == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}

	raw := cfg.URL
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse qdrant url: %w", err)
	}

	host := u.Hostname()
	port := 6334
	if u.Port() != "" {
		p, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		port = p
	}

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: u.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Client{
		client:         qdrantClient,
		collectionName: cfg.CollectionName,
	}, nil
}

// Search implements vectorstore.VectorStore.
func (c *Client) Search(ctx context.Context, vector []float32, filter vectorstore.SearchFilter, limit int) ([]vectorstore.Entry, error) {
	limitUint64 := uint64(limit)
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitUint64,
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	entries := make([]vectorstore.Entry, 0, len(points))
	for _, point := range points {
		if filter.MinScore > 0 && point.Score < filter.MinScore {
			continue
		}

		entry := vectorstore.Entry{Score: point.Score}

		if point.Id != nil {
			if uuid := point.Id.GetUuid(); uuid != "" {
				entry.ID = uuid
			} else if num := point.Id.GetNum(); num != 0 {
				entry.ID = fmt.Sprintf("%d", num)
			}
		}

		for k, v := range point.Payload {
			switch k {
			case "content":
				entry.Content = v.GetStringValue()
			case "title":
				entry.Title = v.GetStringValue()
			case "category":
				entry.Category = v.GetStringValue()
			case "space":
				entry.Space = v.GetStringValue()
			case "access_level":
				entry.AccessLevel = int(v.GetIntegerValue())
			}
		}

		// The access-level cut happens client-side: Qdrant range filters
		// would exclude legacy points that never set the field.
		if filter.MaxAccessLevel > 0 && entry.AccessLevel > filter.MaxAccessLevel {
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Close implements vectorstore.VectorStore.
func (c *Client) Close() error {
	return c.client.Close()
}

func buildFilter(filter vectorstore.SearchFilter) *qdrant.Filter {
	var conditions []*qdrant.Condition

	if len(filter.Spaces) == 1 {
		conditions = append(conditions, keywordCondition("space", filter.Spaces[0]))
	} else if len(filter.Spaces) > 1 {
		keywords := make([]string, len(filter.Spaces))
		copy(keywords, filter.Spaces)
		conditions = append(conditions, &qdrant.Condition{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: "space",
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keywords{
							Keywords: &qdrant.RepeatedStrings{Strings: keywords},
						},
					},
				},
			},
		})
	}

	if filter.Category != "" {
		conditions = append(conditions, keywordCondition("category", filter.Category))
	}

	if len(conditions) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: conditions}
}

func keywordCondition(key, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key:   key,
				Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: value}},
			},
		},
	}
}

// Compile-time check that Client implements VectorStore.
var _ vectorstore.VectorStore = (*Client)(nil)
