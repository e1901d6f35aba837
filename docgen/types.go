// Package docgen produces official documents (décrets, rapports, notes,
// lettres, nominations) as PDF or DOCX files, uploads them to storage and
// records their metadata.
package docgen

import (
	"fmt"
	"time"

	iasted "github.com/admin-ga/iasted"
)

// Output formats.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// MIME types of the produced files.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Request describes one document to generate.
type Request struct {
	// Type is the document kind: decret, nomination, lettre, note, rapport.
	Type string

	// Recipient is the addressee or subject person of the document.
	Recipient string

	// Subject is the document's object line.
	Subject string

	// ContentPoints are the body paragraphs, in order.
	ContentPoints []string

	// Format selects pdf or docx; defaults to pdf.
	Format string

	// Reference is an optional registry reference printed under the title.
	Reference string

	// SignatureAuthority overrides the template's default signatory.
	SignatureAuthority string

	// Date defaults to the generation time.
	Date time.Time
}

// RequestFromCall builds a Request from a generate_document tool call.
func RequestFromCall(call iasted.ToolCall) (Request, error) {
	docType, ok := call.StringArg("type")
	if !ok || docType == "" {
		return Request{}, fmt.Errorf("type de document manquant")
	}
	if _, known := DocumentTemplates[docType]; !known {
		return Request{}, fmt.Errorf("type de document inconnu: %s", docType)
	}

	recipient, ok := call.StringArg("recipient")
	if !ok || recipient == "" {
		return Request{}, fmt.Errorf("destinataire manquant")
	}
	subject, ok := call.StringArg("subject")
	if !ok || subject == "" {
		return Request{}, fmt.Errorf("objet manquant")
	}

	req := Request{
		Type:      docType,
		Recipient: recipient,
		Subject:   subject,
		Format:    FormatPDF,
	}
	if format, ok := call.StringArg("format"); ok && format != "" {
		if format != FormatPDF && format != FormatDOCX {
			return Request{}, fmt.Errorf("format inconnu: %s", format)
		}
		req.Format = format
	}
	if points, ok := call.StringsArg("content_points"); ok {
		req.ContentPoints = points
	}
	if ref, ok := call.StringArg("reference"); ok {
		req.Reference = ref
	}
	if auth, ok := call.StringArg("signature_authority"); ok {
		req.SignatureAuthority = auth
	}
	return req, nil
}

// MIMEType returns the MIME type for the request's format.
func (r Request) MIMEType() string {
	if r.Format == FormatDOCX {
		return MIMEDOCX
	}
	return MIMEPDF
}

// Document is a generated, stored document.
type Document struct {
	ID        string
	FileName  string
	FilePath  string
	FileSize  int
	MIMEType  string
	SignedURL string
	CreatedAt time.Time
}
