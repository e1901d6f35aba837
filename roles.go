package iasted

// Tone selects the register the assistant uses with a given role.
type Tone string

const (
	ToneFormal       Tone = "formal"
	ToneProfessional Tone = "professional"
)

// RoleContext describes how the assistant behaves for one role-specific space.
type RoleContext struct {
	Role        string
	TitleMale   string
	TitleFemale string
	Tone        Tone
	AccessLevel string
	Tools       []string
	Description string
}

// AuthorizedRoles lists the roles allowed to open an assistant session.
var AuthorizedRoles = []string{
	"president",
	"admin",
	"dgr",             // Directeur de Cabinet
	"cabinet_private", // Directeur de Cabinet Privé
	"sec_gen",         // Secrétariat Général
	"dgss",            // Renseignement
	"protocol",        // Directeur de Protocole
}

// RoleContexts maps each authorized role to its assistant context.
var RoleContexts = map[string]RoleContext{
	"president": {
		Role:        "president",
		TitleMale:   "Excellence Monsieur le Président",
		TitleFemale: "Excellence Madame la Présidente",
		Tone:        ToneFormal,
		AccessLevel: "full",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "control_document", "manage_system_settings", "change_voice"},
		Description: "Vous assistez le Président de la République Gabonaise",
	},
	"admin": {
		Role:        "admin",
		TitleMale:   "Monsieur l'Administrateur",
		TitleFemale: "Madame l'Administratrice",
		Tone:        ToneProfessional,
		AccessLevel: "full",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "manage_system_settings", "change_voice"},
		Description: "Vous assistez l'administrateur de la plateforme présidentielle",
	},
	"dgr": {
		Role:        "dgr",
		TitleMale:   "Monsieur le Directeur",
		TitleFemale: "Madame la Directrice",
		Tone:        ToneProfessional,
		AccessLevel: "high",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "change_voice"},
		Description: "Vous assistez le Directeur de Cabinet pour la coordination gouvernementale",
	},
	"cabinet_private": {
		Role:        "cabinet_private",
		TitleMale:   "Monsieur le Directeur",
		TitleFemale: "Madame la Directrice",
		Tone:        ToneFormal,
		AccessLevel: "high",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "change_voice"},
		Description: "Vous assistez le Directeur de Cabinet Privé pour les affaires réservées",
	},
	"sec_gen": {
		Role:        "sec_gen",
		TitleMale:   "Monsieur le Secrétaire Général",
		TitleFemale: "Madame la Secrétaire Générale",
		Tone:        ToneFormal,
		AccessLevel: "high",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "change_voice"},
		Description: "Vous assistez le Secrétariat Général pour la validation des actes",
	},
	"dgss": {
		Role:        "dgss",
		TitleMale:   "Monsieur le Directeur",
		TitleFemale: "Madame la Directrice",
		Tone:        ToneProfessional,
		AccessLevel: "high",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "change_voice"},
		Description: "Vous assistez la Direction Générale des Services Spéciaux",
	},
	"protocol": {
		Role:        "protocol",
		TitleMale:   "Monsieur le Directeur du Protocole",
		TitleFemale: "Madame la Directrice du Protocole",
		Tone:        ToneFormal,
		AccessLevel: "medium",
		Tools:       []string{"control_ui", "navigate_to_section", "generate_document", "change_voice"},
		Description: "Vous assistez la Direction du Protocole d'État",
	},
}

// ContextForRole returns the role context for a role, falling back to a
// generic professional context for roles without a registered one.
func ContextForRole(role string) RoleContext {
	if ctx, ok := RoleContexts[role]; ok {
		return ctx
	}
	return RoleContext{
		Role:        role,
		TitleMale:   "Monsieur",
		TitleFemale: "Madame",
		Tone:        ToneProfessional,
		AccessLevel: "limited",
		Tools:       []string{"control_ui", "navigate_to_section"},
		Description: "Vous assistez un responsable de la Présidence de la République Gabonaise",
	}
}
