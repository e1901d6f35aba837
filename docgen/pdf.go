package docgen

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// renderPDF lays out the request as an A4 portrait document with the
// republican letterhead, optional watermark and numbered pages.
func renderPDF(req Request, tpl Template) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; French accents need translation.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetMargins(25, 20, 25)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Times", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	if tpl.Watermark != "" {
		drawWatermark(pdf, tr(tpl.Watermark))
	}

	if tpl.Letterhead {
		pdf.SetFont("Times", "B", 13)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 7, tr(letterheadCountry), "", 1, "C", false, 0, "")
		pdf.SetFont("Times", "I", 10)
		pdf.CellFormat(0, 6, tr(letterheadMotto), "", 1, "C", false, 0, "")
		pdf.Ln(4)
		pdf.SetFont("Times", "B", 11)
		pdf.CellFormat(0, 6, tr(letterheadOffice), "", 1, "C", false, 0, "")
		pdf.SetLineWidth(0.5)
		pdf.Line(25, pdf.GetY()+3, 185, pdf.GetY()+3)
		pdf.Ln(10)
	}

	title := tpl.Title
	if req.Type == "nomination" {
		title = fmt.Sprintf("%s DE %s", tpl.Title, req.Recipient)
	}
	pdf.SetFont("Times", "B", 16)
	pdf.MultiCell(0, 9, tr(title), "", "C", false)
	if req.Reference != "" {
		pdf.SetFont("Times", "", 10)
		pdf.CellFormat(0, 6, tr("Réf. : "+req.Reference), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Times", "B", 12)
	pdf.MultiCell(0, 7, tr("Objet : "+req.Subject), "", "L", false)
	pdf.SetFont("Times", "", 12)
	pdf.MultiCell(0, 7, tr("Destinataire : "+req.Recipient), "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Times", "", 12)
	if len(req.ContentPoints) == 0 {
		pdf.MultiCell(0, 7, tr("Le présent document est établi pour valoir ce que de droit."), "", "J", false)
	}
	for i, point := range req.ContentPoints {
		if req.Type == "decret" || req.Type == "nomination" {
			pdf.SetFont("Times", "B", 12)
			pdf.CellFormat(0, 7, tr(fmt.Sprintf("Article %d", i+1)), "", 1, "L", false, 0, "")
			pdf.SetFont("Times", "", 12)
		}
		pdf.MultiCell(0, 7, tr(point), "", "J", false)
		pdf.Ln(3)
	}

	pdf.Ln(10)
	if tpl.Seal != "" {
		pdf.SetFont("Times", "I", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s, le %s", tpl.Seal, req.Date.Format("02/01/2006"))), "", "R", false)
		pdf.Ln(4)
	} else {
		pdf.SetFont("Times", "", 11)
		pdf.CellFormat(0, 6, tr("Libreville, le "+req.Date.Format("02/01/2006")), "", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	signatory := tpl.Signatory
	if req.SignatureAuthority != "" {
		signatory = req.SignatureAuthority
	}
	pdf.SetFont("Times", "B", 12)
	pdf.MultiCell(0, 7, tr(signatory), "", "R", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return buf.Bytes(), nil
}

func drawWatermark(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Times", "B", 60)
	pdf.SetTextColor(230, 230, 230)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 148)
	pdf.Text(40, 160, text)
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}
