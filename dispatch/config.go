package dispatch

import (
	"strings"

	iasted "github.com/admin-ga/iasted"
)

// SpaceConfig parameterizes the dispatcher for one workspace. Every space
// runs the same dispatch logic; only the navigation shape differs.
type SpaceConfig struct {
	// Space names the workspace, e.g. "president" or "dgss".
	Space string

	// Sections are the navigable sections of the space.
	Sections []iasted.Section

	// Aliases maps spoken section names onto canonical section IDs,
	// e.g. "rapports" onto "reports".
	Aliases map[string]string

	// AccordionSections lists section IDs rendered as collapsible groups:
	// navigating to one toggles it instead of activating a page.
	AccordionSections []string

	// ParentSections maps a page section to the accordion group that must
	// be expanded for the page to be visible.
	ParentSections map[string]string
}

// Canonical resolves a spoken name to a canonical section ID: explicit
// aliases first, then exact IDs, then the section keyword lists.
func (sc SpaceConfig) Canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := sc.Aliases[name]; ok {
		return canonical
	}
	if sc.knownSection(name) || sc.isAccordion(name) {
		return name
	}
	for _, section := range sc.Sections {
		for _, keyword := range section.Keywords {
			if keyword == name {
				return section.ID
			}
		}
	}
	return name
}

func (sc SpaceConfig) knownSection(id string) bool {
	for _, section := range sc.Sections {
		if section.ID == id {
			return true
		}
	}
	return false
}

func (sc SpaceConfig) isAccordion(id string) bool {
	for _, accordion := range sc.AccordionSections {
		if accordion == id {
			return true
		}
	}
	return false
}

// DgssConfig is the navigation shape of the intelligence workspace, where
// report and operations pages live under collapsible groups.
func DgssConfig() SpaceConfig {
	return SpaceConfig{
		Space:    "dgss",
		Sections: iasted.SectionsForRole("dgss"),
		Aliases: map[string]string{
			"rapports":      "reports",
			"rapport":       "reports",
			"menaces":       "threats",
			"menace":        "threats",
			"cibles":        "targets",
			"cible":         "targets",
			"carte":         "heatmap",
			"cartographie":  "heatmap",
			"tendances":     "trends",
			"tendance":      "trends",
			"accueil":       "dashboard",
			"renseignement": "intelligence",
		},
		AccordionSections: []string{"intelligence", "operations"},
		ParentSections: map[string]string{
			"reports": "intelligence",
			"threats": "intelligence",
			"trends":  "intelligence",
			"targets": "operations",
			"heatmap": "operations",
		},
	}
}

// PresidentConfig is the navigation shape of the presidential workspace:
// flat pages, no accordion groups.
func PresidentConfig() SpaceConfig {
	return SpaceConfig{
		Space:    "president",
		Sections: iasted.SectionsForRole("president"),
		Aliases: map[string]string{
			"accueil":   "dashboard",
			"courrier":  "courriers",
			"document":  "documents",
			"décret":    "decrets",
			"décrets":   "decrets",
			"conseil":   "conseil-ministres",
			"ministère": "ministeres",
		},
	}
}

// AdminConfig is the navigation shape of the administration workspace.
func AdminConfig() SpaceConfig {
	return SpaceConfig{
		Space:    "admin",
		Sections: iasted.SectionsForRole("admin"),
		Aliases: map[string]string{
			"utilisateurs":  "users",
			"retours":       "feedbacks",
			"connaissances": "knowledge",
			"configuration": "config",
		},
	}
}
