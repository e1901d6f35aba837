package docgen

// Template fixes the layout of one document kind: its title line, letterhead
// variant and signature block.
type Template struct {
	// Name is the display name of the template style.
	Name string

	// Title is the heading printed under the letterhead. The recipient is
	// appended for nomination documents.
	Title string

	// Letterhead enables the full republican letterhead block.
	Letterhead bool

	// Watermark, when non-empty, is printed diagonally across each page.
	Watermark string

	// Signatory is the default signature authority.
	Signatory string

	// Seal prints the closing formula above the signature.
	Seal string
}

// Republican letterhead lines shared by every template.
const (
	letterheadCountry = "RÉPUBLIQUE GABONAISE"
	letterheadMotto   = "Unité - Travail - Justice"
	letterheadOffice  = "PRÉSIDENCE DE LA RÉPUBLIQUE"
)

// DocumentTemplates maps a document type to its layout.
var DocumentTemplates = map[string]Template{
	"decret": {
		Name:       "Le Solennel Prestige",
		Title:      "DÉCRET",
		Letterhead: true,
		Watermark:  "CONFIDENTIEL",
		Signatory:  "Le Président de la République, Chef de l'État",
		Seal:       "Fait à Libreville, au Palais de la Présidence",
	},
	"nomination": {
		Name:       "Le Solennel Prestige",
		Title:      "DÉCRET PORTANT NOMINATION",
		Letterhead: true,
		Signatory:  "Le Président de la République, Chef de l'État",
		Seal:       "Fait à Libreville, au Palais de la Présidence",
	},
	"rapport": {
		Name:       "Le Républicain Moderne",
		Title:      "RAPPORT",
		Letterhead: true,
		Signatory:  "Le Secrétaire Général de la Présidence",
	},
	"note": {
		Name:       "L'Exécutif Dynamique",
		Title:      "NOTE DE SERVICE",
		Letterhead: true,
		Signatory:  "Le Directeur de Cabinet",
	},
	"lettre": {
		Name:       "Le Républicain Moderne",
		Title:      "LETTRE OFFICIELLE",
		Letterhead: true,
		Signatory:  "Le Président de la République",
		Seal:       "Veuillez agréer l'expression de ma haute considération.",
	},
}
