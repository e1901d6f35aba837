package voice

// Wire types for the realtime voice provider's event protocol. Only the
// events this client reacts to are modeled; everything else passes through
// as an unknown event type.

// Server event types.
const (
	evSessionCreated       = "session.created"
	evSpeechStarted        = "input_audio_buffer.speech_started"
	evSpeechStopped        = "input_audio_buffer.speech_stopped"
	evUserTranscript       = "conversation.item.input_audio_transcription.completed"
	evAssistantDelta       = "response.audio_transcript.delta"
	evAssistantDone        = "response.audio_transcript.done"
	evAudioDelta           = "response.audio.delta"
	evResponseDone         = "response.done"
	evFunctionCallComplete = "response.function_call_arguments.done"
	evError                = "error"
)

// serverEvent is the envelope for everything the provider sends.
type serverEvent struct {
	Type       string         `json:"type"`
	Transcript string         `json:"transcript,omitempty"`
	Delta      string         `json:"delta,omitempty"`
	Name       string         `json:"name,omitempty"`
	Arguments  string         `json:"arguments,omitempty"`
	CallID     string         `json:"call_id,omitempty"`
	Error      *providerError `json:"error,omitempty"`
}

type providerError struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToolDef declares a function tool in the session configuration.
type ToolDef struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// sessionUpdate configures the remote session after connect.
type sessionUpdate struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	Voice        string    `json:"voice"`
	Instructions string    `json:"instructions"`
	ToolChoice   string    `json:"tool_choice"`
	Tools        []ToolDef `json:"tools"`
}

// itemCreate returns a tool-call output to the provider so the model can
// continue the turn.
type itemCreate struct {
	Type string         `json:"type"`
	Item functionOutput `json:"item"`
}

type functionOutput struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// responseCreate asks the model to produce a response, optionally with
// one-off instructions (used for the initial greeting).
type responseCreate struct {
	Type     string           `json:"type"`
	Response *responseOptions `json:"response,omitempty"`
}

type responseOptions struct {
	Modalities   []string `json:"modalities,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// DefaultTools is the session tool catalog shared by every space. The
// dispatcher interprets the calls; this declaration only teaches the model
// what it may request.
var DefaultTools = []ToolDef{
	{
		Type: "function", Name: "open_chat",
		Description: "Ouvre la fenêtre de chat pour afficher la transcription et l'historique.",
	},
	{
		Type: "function", Name: "close_chat",
		Description: "Ferme la fenêtre de chat pour revenir au mode vocal pur.",
	},
	{
		Type: "function", Name: "stop_conversation",
		Description: "Arrête la conversation vocale et ferme l'interface.",
	},
	{
		Type: "function", Name: "navigate_to_section",
		Description: "Navigue vers une section accordéon (pour déplier/replier) ou une page de l'espace courant.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"section_id": map[string]any{
					"type":        "string",
					"description": "Identifiant ou alias de la section (ex: \"tableau-de-bord\", \"rapports\")",
				},
			},
			"required": []string{"section_id"},
		},
	},
	{
		Type: "function", Name: "control_ui",
		Description: "Contrôle les éléments de l'interface utilisateur (thème, barre latérale, volume, vitesse) sans naviguer.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"type": "string",
					"enum": []string{"toggle_theme", "set_theme_dark", "set_theme_light", "toggle_sidebar", "set_volume", "set_speech_rate"},
				},
				"value": map[string]any{
					"type":        "string",
					"description": "Valeur pour set_volume (0-100) ou set_speech_rate (0.5-2.0)",
				},
			},
			"required": []string{"action"},
		},
	},
	{
		Type: "function", Name: "change_voice",
		Description: "Change la voix de l'assistant. Sans voice_id, alterne entre voix masculine et féminine.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"voice_id": map[string]any{
					"type": "string",
					"enum": []string{"echo", "ash", "shimmer"},
				},
			},
		},
	},
	{
		Type: "function", Name: "generate_document",
		Description: "Génère un document officiel (PDF ou Docx).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":           map[string]any{"type": "string", "enum": []string{"decret", "nomination", "lettre", "note", "rapport"}},
				"format":         map[string]any{"type": "string", "enum": []string{"pdf", "docx"}},
				"recipient":      map[string]any{"type": "string"},
				"subject":        map[string]any{"type": "string"},
				"content_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []string{"type", "recipient", "subject"},
		},
	},
	{
		Type: "function", Name: "control_document",
		Description: "Agit sur le dernier document généré (téléchargement, aperçu).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"type": "string",
					"enum": []string{"download", "preview", "close_preview"},
				},
			},
			"required": []string{"action"},
		},
	},
	{
		Type: "function", Name: "manage_system_settings",
		Description: "Lit ou modifie un paramètre système (admin uniquement).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"setting": map[string]any{"type": "string"},
				"value":   map[string]any{"type": "string"},
			},
			"required": []string{"setting"},
		},
	},
}
