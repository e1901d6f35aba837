package iasted

import (
	"fmt"
	"strings"
	"time"
)

// PromptContext carries the user-specific inputs for system-prompt assembly.
type PromptContext struct {
	Role           string
	Gender         string // "male" or "female"
	PreferredTitle string
	TonePreference Tone
	SpaceName      string
	SpaceDesc      string
}

// Title resolves how the assistant addresses the user.
func (p PromptContext) Title() string {
	if p.PreferredTitle != "" {
		return p.PreferredTitle
	}
	rc := ContextForRole(p.Role)
	if p.Gender == "female" {
		return rc.TitleFemale
	}
	return rc.TitleMale
}

func (p PromptContext) tone() Tone {
	if p.TonePreference != "" {
		return p.TonePreference
	}
	return ContextForRole(p.Role).Tone
}

// BuildSystemPrompt assembles the personalized system prompt sent to the voice
// provider on connect. Sections lists where the model can navigate; knowledge
// carries optional retrieved context lines appended at the end.
func BuildSystemPrompt(pc PromptContext, sections []Section, knowledge []string) string {
	rc := ContextForRole(pc.Role)
	title := pc.Title()

	toneDesc := "professionnel et efficace"
	if pc.tone() == ToneFormal {
		toneDesc = "extrêmement respectueux et formel"
	}

	spaceDesc := ""
	if pc.SpaceDesc != "" {
		spaceDesc = fmt.Sprintf(" Vous êtes actuellement dans %s.", pc.SpaceDesc)
	}

	var b strings.Builder
	b.WriteString("Tu es iAsted, l'assistant vocal intelligent de la Présidence de la République Gabonaise.\n\n")

	b.WriteString("**CONTEXTE ET RÔLE**\n")
	fmt.Fprintf(&b, "%s.%s\n\n", rc.Description, spaceDesc)

	b.WriteString("**UTILISATEUR**\n")
	fmt.Fprintf(&b, "Tu t'adresses à %s. Tu dois être %s dans toutes tes interactions.\n\n", title, toneDesc)

	b.WriteString("**CAPACITÉS ET OUTILS**\n")
	b.WriteString("Tu as accès aux outils suivants pour assister l'utilisateur :\n")
	for _, tool := range rc.Tools {
		fmt.Fprintf(&b, "- %s\n", tool)
	}
	fmt.Fprintf(&b, "\nNiveau d'accès : %s\n\n", rc.AccessLevel)

	if len(sections) > 0 {
		b.WriteString("**SECTIONS DE L'ESPACE**\n")
		b.WriteString("Pour naviguer, utilise l'outil 'navigate_to_section' avec l'un de ces identifiants :\n")
		for _, s := range sections {
			fmt.Fprintf(&b, "- %s (%s) : %s\n", s.ID, s.Label, s.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("**INSTRUCTIONS GÉNÉRALES**\n")
	b.WriteString("1. Réponds toujours en français\n")
	b.WriteString("2. Sois concis et précis\n")
	b.WriteString("3. Pour contrôler l'interface (thème, volume, vitesse), utilise 'control_ui'\n")
	b.WriteString("4. Pour naviguer, utilise 'navigate_to_section'\n")
	b.WriteString("5. Pour générer des documents, utilise 'generate_document'\n")
	b.WriteString("6. Exécute l'outil immédiatement, puis confirme brièvement vocalement\n")

	if pc.tone() == ToneFormal {
		b.WriteString("7. Utilise \"vous\" exclusivement et des formules comme \"Excellence\", \"À votre disposition\"\n")
	} else {
		b.WriteString("7. Utilise \"vous\", sois direct et privilégie l'action sur la forme\n")
	}

	if len(knowledge) > 0 {
		b.WriteString("\n**CONTEXTE DOCUMENTAIRE**\n")
		for _, line := range knowledge {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	return b.String()
}

// Greeting builds the assistant's opening message for a new conversation
// session, varying with the time of day and the user's tone.
func Greeting(pc PromptContext, now time.Time) string {
	timeOfDay := "Bonsoir"
	switch hour := now.Hour(); {
	case hour >= 5 && hour < 12:
		timeOfDay = "Bonjour"
	case hour >= 12 && hour < 18:
		timeOfDay = "Bon après-midi"
	}

	if pc.tone() == ToneFormal {
		return fmt.Sprintf("%s %s. Je suis à votre entière disposition.", timeOfDay, pc.Title())
	}
	return fmt.Sprintf("%s %s. Comment puis-je vous assister ?", timeOfDay, pc.Title())
}
