package docgen

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// renderDOCX lays out the request as a Word document mirroring the PDF
// structure. Watermarks are not supported by the writer, so confidential
// documents carry the marking as a header line instead.
func renderDOCX(req Request, tpl Template) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	if tpl.Watermark != "" {
		p := w.AddParagraph()
		p.Justification("center")
		p.AddText(tpl.Watermark).Size("24").Bold().Color("C0C0C0")
	}

	if tpl.Letterhead {
		country := w.AddParagraph()
		country.Justification("center")
		country.AddText(letterheadCountry).Size("26").Bold()

		motto := w.AddParagraph()
		motto.Justification("center")
		motto.AddText(letterheadMotto).Size("20").Italic()

		office := w.AddParagraph()
		office.Justification("center")
		office.AddText(letterheadOffice).Size("22").Bold()

		w.AddParagraph()
	}

	title := tpl.Title
	if req.Type == "nomination" {
		title = fmt.Sprintf("%s DE %s", tpl.Title, req.Recipient)
	}
	tp := w.AddParagraph()
	tp.Justification("center")
	tp.AddText(title).Size("32").Bold()

	if req.Reference != "" {
		rp := w.AddParagraph()
		rp.Justification("center")
		rp.AddText("Réf. : " + req.Reference).Size("20")
	}
	w.AddParagraph()

	w.AddParagraph().AddText("Objet : " + req.Subject).Size("24").Bold()
	w.AddParagraph().AddText("Destinataire : " + req.Recipient).Size("24")
	w.AddParagraph()

	if len(req.ContentPoints) == 0 {
		w.AddParagraph().AddText("Le présent document est établi pour valoir ce que de droit.").Size("24")
	}
	for i, point := range req.ContentPoints {
		if req.Type == "decret" || req.Type == "nomination" {
			w.AddParagraph().AddText(fmt.Sprintf("Article %d", i+1)).Size("24").Bold()
		}
		w.AddParagraph().AddText(point).Size("24")
	}
	w.AddParagraph()

	if tpl.Seal != "" {
		sp := w.AddParagraph()
		sp.Justification("right")
		sp.AddText(fmt.Sprintf("%s, le %s", tpl.Seal, req.Date.Format("02/01/2006"))).Size("22").Italic()
	} else {
		dp := w.AddParagraph()
		dp.Justification("right")
		dp.AddText("Libreville, le " + req.Date.Format("02/01/2006")).Size("22")
	}

	signatory := tpl.Signatory
	if req.SignatureAuthority != "" {
		signatory = req.SignatureAuthority
	}
	sig := w.AddParagraph()
	sig.Justification("right")
	sig.AddText(signatory).Size("24").Bold()

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx render: %w", err)
	}
	return buf.Bytes(), nil
}
