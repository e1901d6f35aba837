// Package dispatch routes tool calls from the voice model onto the surfaces
// of a workspace. One dispatcher handles every space; the space hands it a
// SpaceConfig and the callbacks it may drive.
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/docgen"
	"github.com/admin-ga/iasted/session"
	"github.com/admin-ga/iasted/store"
)

// Surface is the UI the dispatcher drives. Implementations push the change
// to whatever renders the workspace.
type Surface interface {
	// ActivateSection makes a page section the active one.
	ActivateSection(id string)

	// SetAccordionOpen expands or collapses a collapsible section group.
	SetAccordionOpen(id string, open bool)

	// SetTheme applies "dark" or "light".
	SetTheme(theme string)

	// ToggleSidebar shows or hides the navigation sidebar.
	ToggleSidebar()

	// SetVolume applies an output volume between 0 and 100.
	SetVolume(level int)

	// DownloadDocument triggers a download of a generated document.
	DownloadDocument(doc iasted.DocumentRef)

	// PreviewDocument opens an inline preview of a generated document.
	PreviewDocument(doc iasted.DocumentRef)

	// ClosePreview dismisses the document preview.
	ClosePreview()
}

// VoiceControl is the slice of the voice client the dispatcher may drive.
type VoiceControl interface {
	Voice() session.Voice
	ChangeVoice(ctx context.Context, voice session.Voice) error
	SetSpeechRate(rate float64)
	Stop()
	IsConnected() bool
}

// ChatControl is the slice of the chat modal the dispatcher may drive.
type ChatControl interface {
	Open()
	Close()
	Append(msg iasted.Message)
	SetPendingDocument(req docgen.Request)
}

// Notifier surfaces short user-facing notices.
type Notifier interface {
	Notify(level, message string)
}

// Generator produces official documents.
type Generator interface {
	Generate(ctx context.Context, req docgen.Request) (*docgen.Document, error)
}

// Dispatcher interprets tool calls for one space. It never panics outward:
// a handler failure becomes a failed ToolResult so the model can recover.
type Dispatcher struct {
	cfg      SpaceConfig
	surface  Surface
	voice    VoiceControl
	chat     ChatControl
	notify   Notifier
	docs     Generator
	settings store.Settings
	log      *logrus.Entry

	mu             sync.Mutex
	theme          string
	openAccordions map[string]bool
	lastDocument   *iasted.DocumentRef
}

// Options bundles the dispatcher's collaborators. Surface and Notifier are
// required; the rest degrade the matching tools into failed results.
type Options struct {
	Surface  Surface
	Voice    VoiceControl
	Chat     ChatControl
	Notifier Notifier
	Docs     Generator
	Settings store.Settings
	Logger   *logrus.Logger
}

// New builds a dispatcher for one space.
func New(cfg SpaceConfig, opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Dispatcher{
		cfg:            cfg,
		surface:        opts.Surface,
		voice:          opts.Voice,
		chat:           opts.Chat,
		notify:         opts.Notifier,
		docs:           opts.Docs,
		settings:       opts.Settings,
		log:            logger.WithField("component", "dispatch").WithField("space", cfg.Space),
		theme:          "light",
		openAccordions: map[string]bool{},
	}
}

// LastDocument returns the most recently generated document, if any.
func (d *Dispatcher) LastDocument() *iasted.DocumentRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastDocument == nil {
		return nil
	}
	ref := *d.lastDocument
	return &ref
}

// AccordionOpen reports whether a collapsible group is currently expanded.
func (d *Dispatcher) AccordionOpen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openAccordions[id]
}

// Dispatch executes one tool call and returns the result narrated back to
// the model. Unknown tools are logged and refused without side effects.
func (d *Dispatcher) Dispatch(ctx context.Context, call iasted.ToolCall) (result iasted.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("tool", call.Name).Errorf("tool handler panicked: %v", r)
			result = iasted.ToolErr("erreur interne lors de l'exécution de l'outil")
		}
	}()

	d.log.WithFields(logrus.Fields{"tool": call.Name, "args": call.Args}).Debug("dispatching tool call")

	switch call.Name {
	case "open_chat":
		if d.chat == nil {
			return iasted.ToolErr("fenêtre de chat indisponible")
		}
		d.chat.Open()
		return iasted.ToolOK("fenêtre de chat ouverte")

	case "close_chat":
		if d.chat == nil {
			return iasted.ToolErr("fenêtre de chat indisponible")
		}
		d.chat.Close()
		return iasted.ToolOK("fenêtre de chat fermée")

	case "stop_conversation":
		if d.voice != nil {
			d.voice.Stop()
		}
		if d.chat != nil {
			d.chat.Close()
		}
		return iasted.ToolOK("conversation arrêtée")

	case "navigate_to_section":
		return d.navigate(call)

	case "control_ui":
		return d.controlUI(call)

	case "change_voice":
		return d.changeVoice(ctx, call)

	case "generate_document":
		return d.generateDocument(ctx, call)

	case "control_document":
		return d.controlDocument(call)

	case "manage_system_settings":
		return d.manageSettings(ctx, call)

	default:
		d.log.WithField("tool", call.Name).Warn("unknown tool call")
		return iasted.ToolErr(fmt.Sprintf("outil inconnu: %s", call.Name))
	}
}

func (d *Dispatcher) navigate(call iasted.ToolCall) iasted.ToolResult {
	raw, ok := call.StringArg("section_id")
	if !ok || raw == "" {
		return iasted.ToolErr("section_id manquant")
	}
	id := d.cfg.Canonical(raw)

	if d.cfg.isAccordion(id) {
		d.mu.Lock()
		open := !d.openAccordions[id]
		d.openAccordions[id] = open
		d.mu.Unlock()
		d.surface.SetAccordionOpen(id, open)
		if open {
			return iasted.ToolOK(fmt.Sprintf("section %s dépliée", id))
		}
		return iasted.ToolOK(fmt.Sprintf("section %s repliée", id))
	}

	if !d.cfg.knownSection(id) {
		return iasted.ToolErr(fmt.Sprintf("section inconnue: %s", raw))
	}

	// Pages under a collapsed group are invisible; force the parent open.
	if parent, hasParent := d.cfg.ParentSections[id]; hasParent {
		d.mu.Lock()
		wasOpen := d.openAccordions[parent]
		d.openAccordions[parent] = true
		d.mu.Unlock()
		if !wasOpen {
			d.surface.SetAccordionOpen(parent, true)
		}
	}

	d.surface.ActivateSection(id)
	return iasted.ToolOK(fmt.Sprintf("navigation vers %s", id))
}

func (d *Dispatcher) controlUI(call iasted.ToolCall) iasted.ToolResult {
	action, _ := call.StringArg("action")
	switch action {
	case "toggle_theme":
		d.mu.Lock()
		if d.theme == "dark" {
			d.theme = "light"
		} else {
			d.theme = "dark"
		}
		theme := d.theme
		d.mu.Unlock()
		d.surface.SetTheme(theme)
		if d.notify != nil {
			d.notify.Notify("info", "Thème "+theme+" activé")
		}
		return iasted.ToolOK("thème " + theme + " activé")

	case "set_theme_dark", "set_theme_light":
		theme := "light"
		if action == "set_theme_dark" {
			theme = "dark"
		}
		d.mu.Lock()
		d.theme = theme
		d.mu.Unlock()
		d.surface.SetTheme(theme)
		return iasted.ToolOK("thème " + theme + " activé")

	case "toggle_sidebar":
		d.surface.ToggleSidebar()
		return iasted.ToolOK("barre latérale basculée")

	case "set_volume":
		raw, _ := call.StringArg("value")
		level, err := strconv.Atoi(raw)
		if err != nil || level < 0 || level > 100 {
			return iasted.ToolErr("volume invalide, attendu 0-100")
		}
		d.surface.SetVolume(level)
		return iasted.ToolOK(fmt.Sprintf("volume réglé à %d", level))

	case "set_speech_rate":
		if d.voice == nil {
			return iasted.ToolErr("contrôle vocal indisponible")
		}
		raw, _ := call.StringArg("value")
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return iasted.ToolErr("vitesse invalide, attendu 0.5-2.0")
		}
		d.voice.SetSpeechRate(rate)
		return iasted.ToolOK("vitesse de parole ajustée")

	default:
		return iasted.ToolErr(fmt.Sprintf("action inconnue: %s", action))
	}
}

func (d *Dispatcher) changeVoice(ctx context.Context, call iasted.ToolCall) iasted.ToolResult {
	if d.voice == nil {
		return iasted.ToolErr("contrôle vocal indisponible")
	}

	var target session.Voice
	if raw, ok := call.StringArg("voice_id"); ok && raw != "" {
		target = session.Voice(raw)
		if !session.KnownVoice(target) {
			return iasted.ToolErr(fmt.Sprintf("voix inconnue: %s", raw))
		}
	} else {
		target = session.AlternateVoice(d.voice.Voice())
	}

	if err := d.voice.ChangeVoice(ctx, target); err != nil {
		d.log.WithError(err).Warn("voice change failed")
		return iasted.ToolErr("le changement de voix a échoué")
	}
	return iasted.ToolOK(fmt.Sprintf("voix changée vers %s", target))
}

func (d *Dispatcher) generateDocument(ctx context.Context, call iasted.ToolCall) iasted.ToolResult {
	req, err := docgen.RequestFromCall(call)
	if err != nil {
		return iasted.ToolErr(err.Error())
	}

	// A space without its own generator parks the request on the chat
	// modal, which picks it up when it opens.
	if d.docs == nil {
		if d.chat == nil {
			return iasted.ToolErr("génération de documents indisponible")
		}
		d.chat.SetPendingDocument(req)
		d.chat.Open()
		return iasted.ToolOK("demande de document transmise à la fenêtre de chat")
	}

	doc, err := d.docs.Generate(ctx, req)
	if err != nil {
		d.log.WithError(err).WithField("type", req.Type).Error("document generation failed")
		if d.notify != nil {
			d.notify.Notify("error", "La génération du document a échoué")
		}
		return iasted.ToolErr("la génération du document a échoué")
	}

	ref := iasted.DocumentRef{
		ID:       doc.ID,
		Name:     doc.FileName,
		URL:      doc.SignedURL,
		MIMEType: doc.MIMEType,
	}
	d.mu.Lock()
	d.lastDocument = &ref
	d.mu.Unlock()

	if d.chat != nil {
		msg := iasted.NewMessage(iasted.RoleAssistant,
			fmt.Sprintf("Document généré : %s", doc.FileName))
		msg.Metadata = &iasted.MessageMetadata{Documents: []iasted.DocumentRef{ref}}
		d.chat.Append(msg)
	}

	// A live voice session means the user is present: hand the file over
	// right away instead of waiting for an explicit download request.
	if d.voice != nil && d.voice.IsConnected() {
		d.surface.DownloadDocument(ref)
	}

	if d.notify != nil {
		d.notify.Notify("success", "Document généré : "+doc.FileName)
	}
	return iasted.ToolOK(fmt.Sprintf("document %s généré avec succès", doc.FileName))
}

func (d *Dispatcher) controlDocument(call iasted.ToolCall) iasted.ToolResult {
	action, _ := call.StringArg("action")

	if action == "close_preview" {
		d.surface.ClosePreview()
		return iasted.ToolOK("aperçu fermé")
	}

	d.mu.Lock()
	doc := d.lastDocument
	d.mu.Unlock()
	if doc == nil {
		return iasted.ToolErr("aucun document généré dans cette session")
	}

	switch action {
	case "download":
		d.surface.DownloadDocument(*doc)
		return iasted.ToolOK("téléchargement de " + doc.Name)
	case "preview":
		d.surface.PreviewDocument(*doc)
		return iasted.ToolOK("aperçu de " + doc.Name)
	default:
		return iasted.ToolErr(fmt.Sprintf("action inconnue: %s", action))
	}
}

func (d *Dispatcher) manageSettings(ctx context.Context, call iasted.ToolCall) iasted.ToolResult {
	if d.settings == nil {
		return iasted.ToolErr("paramètres système indisponibles")
	}

	key, ok := call.StringArg("setting")
	if !ok || key == "" {
		return iasted.ToolErr("paramètre manquant")
	}

	if value, hasValue := call.StringArg("value"); hasValue && value != "" {
		if err := d.settings.SetSetting(ctx, key, value); err != nil {
			d.log.WithError(err).WithField("setting", key).Error("setting update failed")
			return iasted.ToolErr("la mise à jour du paramètre a échoué")
		}
		return iasted.ToolOK(fmt.Sprintf("paramètre %s mis à jour", key))
	}

	value, err := d.settings.GetSetting(ctx, key)
	if err != nil {
		return iasted.ToolErr(fmt.Sprintf("paramètre %s introuvable", key))
	}
	return iasted.ToolOK(fmt.Sprintf("%s = %s", key, value))
}
