package docgen

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/store"
)

func newGenerator(t *testing.T) (*Generator, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	gen := NewGenerator(mem, "user-1", nil)
	gen.Now = func() time.Time { return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) }
	return gen, mem
}

func TestGeneratePDF(t *testing.T) {
	gen, mem := newGenerator(t)

	doc, err := gen.Generate(context.Background(), Request{
		Type:          "decret",
		Recipient:     "Ministre de la Défense",
		Subject:       "Réorganisation des forces armées",
		ContentPoints: []string{"Les forces armées sont réorganisées.", "Le présent décret prend effet immédiatement."},
	})
	require.NoError(t, err)

	assert.Equal(t, MIMEPDF, doc.MIMEType)
	assert.Equal(t, "memory://"+doc.FilePath, doc.SignedURL)
	assert.Greater(t, doc.FileSize, 0)

	data, ok := mem.Object(doc.FilePath)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, "%PDF", string(data[:4]))

	records, err := mem.ListDocuments(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "decret", records[0].DocumentType)
	assert.Equal(t, "Le Solennel Prestige", records[0].TemplateUsed)
	assert.Equal(t, len(data), records[0].FileSize)
}

func TestGenerateDOCX(t *testing.T) {
	gen, mem := newGenerator(t)

	doc, err := gen.Generate(context.Background(), Request{
		Type:      "rapport",
		Format:    FormatDOCX,
		Recipient: "Secrétariat Général",
		Subject:   "Bilan trimestriel",
	})
	require.NoError(t, err)

	assert.Equal(t, MIMEDOCX, doc.MIMEType)

	data, ok := mem.Object(doc.FilePath)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(data), 2)
	// DOCX files are zip archives.
	assert.Equal(t, "PK", string(data[:2]))
}

func TestGenerateUnknownType(t *testing.T) {
	gen, _ := newGenerator(t)

	_, err := gen.Generate(context.Background(), Request{Type: "ordonnance", Recipient: "X", Subject: "Y"})
	assert.Error(t, err)
}

func TestFileNamePattern(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	name := FileName("decret", "Ministre de la Défense", FormatPDF, now)
	assert.Equal(t, fmt.Sprintf("decret_ministre_de_la_défense_%d.pdf", now.UnixMilli()), name)
}

type insertFailingDocs struct {
	*store.Memory
	err error
}

func (d insertFailingDocs) InsertDocument(ctx context.Context, rec *store.DocumentRecord) error {
	return d.err
}

func TestGenerateNoPartialStateOnMetadataFailure(t *testing.T) {
	mem := store.NewMemory()
	gen := NewGenerator(insertFailingDocs{Memory: mem, err: errors.New("db down")}, "user-1", nil)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	gen.Now = func() time.Time { return now }

	_, err := gen.Generate(context.Background(), Request{
		Type: "note", Recipient: "Cabinet", Subject: "Consignes",
	})
	require.Error(t, err)

	// The uploaded artifact was cleaned up again.
	path := "user-1/" + FileName("note", "Cabinet", FormatPDF, now)
	_, ok := mem.Object(path)
	assert.False(t, ok)

	records, listErr := mem.ListDocuments(context.Background(), "user-1")
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestGenerateUploadFailure(t *testing.T) {
	mem := store.NewMemory()
	mem.FailWrites = errors.New("bucket unavailable")
	gen := NewGenerator(mem, "user-1", nil)

	_, err := gen.Generate(context.Background(), Request{
		Type: "lettre", Recipient: "Ambassade", Subject: "Invitation",
	})
	assert.ErrorContains(t, err, "bucket unavailable")
}

func TestRequestFromCall(t *testing.T) {
	req, err := RequestFromCall(iasted.ToolCall{Name: "generate_document", Args: map[string]any{
		"type":           "decret",
		"recipient":      "DGR",
		"subject":        "Nomination",
		"format":         "docx",
		"content_points": []any{"Premier point", "Second point"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "decret", req.Type)
	assert.Equal(t, FormatDOCX, req.Format)
	assert.Equal(t, []string{"Premier point", "Second point"}, req.ContentPoints)
}

func TestRequestFromCallValidation(t *testing.T) {
	_, err := RequestFromCall(iasted.ToolCall{Name: "generate_document", Args: map[string]any{
		"recipient": "DGR", "subject": "Nomination",
	}})
	assert.Error(t, err)

	_, err = RequestFromCall(iasted.ToolCall{Name: "generate_document", Args: map[string]any{
		"type": "decret", "subject": "Nomination",
	}})
	assert.Error(t, err)

	_, err = RequestFromCall(iasted.ToolCall{Name: "generate_document", Args: map[string]any{
		"type": "decret", "recipient": "DGR", "subject": "Nomination", "format": "odt",
	}})
	assert.Error(t, err)

	req, err := RequestFromCall(iasted.ToolCall{Name: "generate_document", Args: map[string]any{
		"type": "note", "recipient": "Cabinet", "subject": "Consignes",
	}})
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, req.Format)
}
