package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admin-ga/iasted/vectorstore"
)

type fakeStore struct {
	entries    []vectorstore.Entry
	err        error
	lastFilter vectorstore.SearchFilter
	lastLimit  int
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, filter vectorstore.SearchFilter, limit int) ([]vectorstore.Entry, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	return f.entries, f.err
}

func (f *fakeStore) Close() error { return nil }

func staticEmbed(vec []float32) EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return vec, nil
	}
}

func TestContextFormatsPassages(t *testing.T) {
	fs := &fakeStore{entries: []vectorstore.Entry{
		{Title: "Protocole", Content: "Les courriers officiels partent sous 48h.", Score: 0.9},
		{Content: "Le conseil des ministres siège le jeudi.", Score: 0.8},
		{Title: "Vide", Content: "", Score: 0.7},
	}}
	r := NewRetriever(fs, staticEmbed([]float32{0.1, 0.2}), "president", nil)

	passages, err := r.Context(context.Background(), "protocole courrier", 0)
	require.NoError(t, err)

	require.Len(t, passages, 2)
	assert.Equal(t, "Protocole : Les courriers officiels partent sous 48h.", passages[0])
	assert.Equal(t, "Le conseil des ministres siège le jeudi.", passages[1])

	// Default limit applies and the space filter includes global entries.
	assert.Equal(t, DefaultLimit, fs.lastLimit)
	assert.Equal(t, []string{"president", ""}, fs.lastFilter.Spaces)
}

func TestContextForwardsAccessLevel(t *testing.T) {
	fs := &fakeStore{}
	r := NewRetriever(fs, staticEmbed(nil), "dgss", nil)
	r.AccessLevel = 3
	r.MinScore = 0.5

	_, err := r.Context(context.Background(), "menaces", 2)
	require.NoError(t, err)

	assert.Equal(t, 3, fs.lastFilter.MaxAccessLevel)
	assert.Equal(t, float32(0.5), fs.lastFilter.MinScore)
	assert.Equal(t, 2, fs.lastLimit)
}

func TestContextEmbedFailure(t *testing.T) {
	fs := &fakeStore{}
	r := NewRetriever(fs, func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedder offline")
	}, "", nil)

	_, err := r.Context(context.Background(), "question", 3)
	assert.ErrorContains(t, err, "embedder offline")
}

func TestContextSearchFailure(t *testing.T) {
	fs := &fakeStore{err: errors.New("collection missing")}
	r := NewRetriever(fs, staticEmbed(nil), "", nil)

	_, err := r.Context(context.Background(), "question", 3)
	assert.ErrorContains(t, err, "collection missing")
}
