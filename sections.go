package iasted

// Section describes one navigable section of a role-specific space.
// Keywords are the spoken aliases a voice command may use for it.
type Section struct {
	ID          string
	Label       string
	Keywords    []string
	Description string
}

// NavigationSections registers the per-role section catalogs. The dispatcher
// derives its alias tables from these, and the system prompt lists them so the
// model knows where it can navigate.
var NavigationSections = map[string][]Section{
	"president": {
		{ID: "dashboard", Label: "Tableau de Bord", Keywords: []string{"tableau de bord", "accueil", "résumé", "vue d'ensemble", "dashboard"}, Description: "Vue principale avec les indicateurs clés, graphiques et résumé des activités."},
		{ID: "documents", Label: "Documents", Keywords: []string{"documents", "ged", "fichiers", "dossiers", "archives"}, Description: "Gestion électronique des documents, courriers numérisés, et archives."},
		{ID: "courriers", Label: "Courriers", Keywords: []string{"courriers", "messages", "boîte de réception", "mails", "correspondance"}, Description: "Boîte de réception des courriers et messages officiels."},
		{ID: "iasted", Label: "iAsted", Keywords: []string{"iasted", "assistant", "ia", "intelligence artificielle", "aide"}, Description: "Interface de l'assistant intelligent iAsted."},
		{ID: "conseil-ministres", Label: "Conseil des Ministres", Keywords: []string{"conseil des ministres", "conseil", "ministres", "réunion"}, Description: "Gestion des ordres du jour et comptes rendus des conseils des ministres."},
		{ID: "ministeres", Label: "Ministères", Keywords: []string{"ministères", "gouvernement", "départements"}, Description: "Suivi des activités et performances des différents ministères."},
		{ID: "decrets", Label: "Décrets & Lois", Keywords: []string{"décrets", "lois", "législation", "juridique", "textes"}, Description: "Consultation et signature des décrets et textes de loi."},
		{ID: "nominations", Label: "Nominations", Keywords: []string{"nominations", "nommer", "postes"}, Description: "Gestion des nominations aux postes officiels."},
		{ID: "budget", Label: "Budget de l'État", Keywords: []string{"budget", "finances", "économie", "dépenses"}, Description: "Suivi du budget de l'État et des indicateurs économiques."},
		{ID: "indicateurs", Label: "Indicateurs Nationaux", Keywords: []string{"indicateurs", "kpi", "statistiques", "données"}, Description: "Tableau de bord des indicateurs de performance nationale."},
		{ID: "chantiers", Label: "Chantiers", Keywords: []string{"chantiers", "travaux", "infrastructures", "construction"}, Description: "Suivi des chantiers et infrastructures en cours."},
	},
	"admin": {
		{ID: "dashboard", Label: "Tableau de Bord", Keywords: []string{"tableau de bord", "accueil", "résumé", "vue d'ensemble", "dashboard", "statistiques"}, Description: "Vue d'ensemble du système avec statistiques globales."},
		{ID: "feedbacks", Label: "Feedbacks", Keywords: []string{"feedbacks", "retours", "avis", "suggestions"}, Description: "Gestion des feedbacks des responsables de services."},
		{ID: "users", Label: "Utilisateurs", Keywords: []string{"utilisateurs", "comptes", "gestion utilisateurs", "users"}, Description: "Gestion complète des utilisateurs et de leurs rôles."},
		{ID: "ai", Label: "IA & Voix", Keywords: []string{"ia", "intelligence artificielle", "voix", "iasted", "configuration ia"}, Description: "Configuration de l'IA et des paramètres vocaux."},
		{ID: "knowledge", Label: "Connaissances", Keywords: []string{"connaissances", "base de connaissances", "knowledge base", "données"}, Description: "Gestion de la base de connaissances système."},
		{ID: "audit", Label: "Audit & Logs", Keywords: []string{"audit", "logs", "journaux", "historique", "traçabilité"}, Description: "Consultation des logs d'audit et de l'historique système."},
		{ID: "config", Label: "Configuration", Keywords: []string{"configuration", "paramètres", "settings", "config système"}, Description: "Configuration globale du système."},
	},
	"dgss": {
		{ID: "dashboard", Label: "Tableau de Bord", Keywords: []string{"tableau de bord", "accueil", "résumé"}, Description: "Vue principale du renseignement."},
		{ID: "reports", Label: "Rapports", Keywords: []string{"rapports", "reports", "synthèses"}, Description: "Rapports d'analyse et de synthèse."},
		{ID: "threats", Label: "Menaces", Keywords: []string{"menaces", "threats", "alertes"}, Description: "Suivi des menaces identifiées."},
		{ID: "targets", Label: "Cibles", Keywords: []string{"cibles", "targets", "surveillance"}, Description: "Suivi des cibles sous surveillance."},
		{ID: "heatmap", Label: "Carte", Keywords: []string{"carte", "heatmap"}, Description: "Carte de chaleur des incidents."},
		{ID: "trends", Label: "Tendances", Keywords: []string{"tendances", "trends"}, Description: "Tendances des menaces sur la durée."},
	},
}

// SectionsForRole returns the section catalog for a role, defaulting to the
// president catalog when the role has none registered.
func SectionsForRole(role string) []Section {
	if sections, ok := NavigationSections[role]; ok {
		return sections
	}
	return NavigationSections["president"]
}
