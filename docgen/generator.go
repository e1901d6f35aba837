package docgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/admin-ga/iasted/store"
)

const signedURLTTL = time.Hour

// Generator renders documents, uploads the artifact and records metadata.
// Either the whole chain succeeds or nothing is kept: an upload that cannot
// be recorded is removed again.
type Generator struct {
	docs store.Documents
	log  *logrus.Entry

	// UserID attributes generated documents; set per space.
	UserID string

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// NewGenerator builds a generator writing through the given document store.
func NewGenerator(docs store.Documents, userID string, logger *logrus.Logger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{
		docs:   docs,
		log:    logger.WithField("component", "docgen"),
		UserID: userID,
		Now:    time.Now,
	}
}

// Generate renders, stores and records one document.
func (g *Generator) Generate(ctx context.Context, req Request) (*Document, error) {
	tpl, ok := DocumentTemplates[req.Type]
	if !ok {
		return nil, fmt.Errorf("type de document inconnu: %s", req.Type)
	}
	if req.Date.IsZero() {
		req.Date = g.Now()
	}
	if req.Format == "" {
		req.Format = FormatPDF
	}

	var (
		data []byte
		err  error
	)
	switch req.Format {
	case FormatPDF:
		data, err = renderPDF(req, tpl)
	case FormatDOCX:
		data, err = renderDOCX(req, tpl)
	default:
		return nil, fmt.Errorf("format inconnu: %s", req.Format)
	}
	if err != nil {
		return nil, err
	}

	fileName := FileName(req.Type, req.Recipient, req.Format, g.Now())
	path := g.UserID + "/" + fileName

	storedPath, err := g.docs.Upload(ctx, path, req.MIMEType(), data)
	if err != nil {
		return nil, fmt.Errorf("document upload: %w", err)
	}

	rec := &store.DocumentRecord{
		ID:           uuid.NewString(),
		UserID:       g.UserID,
		DocumentName: fileName,
		DocumentType: req.Type,
		TemplateUsed: tpl.Name,
		FilePath:     storedPath,
		FileSize:     len(data),
		Metadata: map[string]any{
			"format":    req.Format,
			"recipient": req.Recipient,
			"subject":   req.Subject,
		},
	}
	if err := g.docs.InsertDocument(ctx, rec); err != nil {
		// Keep storage and metadata consistent.
		if cleanupErr := g.docs.DeleteDocument(ctx, rec.ID, storedPath); cleanupErr != nil {
			g.log.WithError(cleanupErr).WithField("path", storedPath).Warn("orphaned artifact cleanup failed")
		}
		return nil, fmt.Errorf("document metadata: %w", err)
	}

	url, err := g.docs.SignedURL(ctx, storedPath, signedURLTTL)
	if err != nil {
		g.log.WithError(err).WithField("path", storedPath).Warn("signed url unavailable")
	}

	g.log.WithFields(logrus.Fields{
		"type": req.Type, "format": req.Format, "file": fileName, "bytes": len(data),
	}).Info("document generated")

	return &Document{
		ID:        rec.ID,
		FileName:  fileName,
		FilePath:  storedPath,
		FileSize:  len(data),
		MIMEType:  req.MIMEType(),
		SignedURL: url,
		CreatedAt: req.Date,
	}, nil
}

// FileName builds the storage file name: type, underscored recipient and a
// millisecond timestamp keep names unique and sortable.
func FileName(docType, recipient, format string, now time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(recipient), "_"))
	return fmt.Sprintf("%s_%s_%d.%s", docType, slug, now.UnixMilli(), format)
}
