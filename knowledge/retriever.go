// Package knowledge retrieves knowledge-base passages that the system prompt
// builder injects as documentary context.
package knowledge

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/admin-ga/iasted/vectorstore"
)

// EmbedFunc turns a query into an embedding vector. The embedding provider
// is external; callers plug in whatever they use.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// DefaultLimit is the number of passages retrieved when the caller passes 0.
const DefaultLimit = 5

// Retriever runs similarity search over the knowledge base.
type Retriever struct {
	store vectorstore.VectorStore
	embed EmbedFunc
	log   *logrus.Entry

	// Space scopes retrieval to one workspace plus the global entries.
	Space string

	// AccessLevel is the caller's clearance, forwarded to the store.
	AccessLevel int

	// MinScore drops weak matches. Zero keeps everything.
	MinScore float32
}

// NewRetriever builds a retriever over a vector store and an embedder.
func NewRetriever(store vectorstore.VectorStore, embed EmbedFunc, space string, logger *logrus.Logger) *Retriever {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Retriever{
		store: store,
		embed: embed,
		log:   logger.WithField("component", "knowledge"),
		Space: space,
	}
}

// Context returns the best-matching passages for the query, formatted for
// prompt injection.
func (r *Retriever) Context(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	vector, err := r.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	filter := vectorstore.SearchFilter{
		MaxAccessLevel: r.AccessLevel,
		MinScore:       r.MinScore,
	}
	if r.Space != "" {
		// Global entries have an empty space and always qualify.
		filter.Spaces = []string{r.Space, ""}
	}

	entries, err := r.store.Search(ctx, vector, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("knowledge search: %w", err)
	}

	passages := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Content == "" {
			continue
		}
		if entry.Title != "" {
			passages = append(passages, entry.Title+" : "+entry.Content)
			continue
		}
		passages = append(passages, entry.Content)
	}

	r.log.WithFields(logrus.Fields{"hits": len(passages), "space": r.Space}).Debug("knowledge retrieved")
	return passages, nil
}
