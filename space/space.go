// Package space wires a workspace together: the voice client, the tool-call
// dispatcher, the chat modal, document generation, knowledge retrieval and
// session snapshot persistence.
package space

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/chat"
	"github.com/admin-ga/iasted/dispatch"
	"github.com/admin-ga/iasted/knowledge"
	"github.com/admin-ga/iasted/session"
	"github.com/admin-ga/iasted/store"
	"github.com/admin-ga/iasted/voice"
)

const knowledgeLimit = 5

// Options bundles a space's collaborators.
type Options struct {
	// Config is the space's navigation shape.
	Config dispatch.SpaceConfig

	// User identifies and describes the signed-in user.
	User   iasted.PromptContext
	UserID string

	// VoiceConfig configures the realtime voice client. The tool handler
	// is installed by the space.
	VoiceConfig voice.Config

	// Chat is the chat modal manager. Required.
	Chat *chat.Manager

	// Sessions persists voice-session snapshots. Required.
	Sessions session.Store

	// Surface renders the workspace. Required.
	Surface dispatch.Surface

	// Notifier surfaces user-facing notices. Optional.
	Notifier dispatch.Notifier

	// Docs generates official documents. Optional.
	Docs dispatch.Generator

	// Settings backs the manage_system_settings tool. Optional.
	Settings store.Settings

	// Knowledge retrieves documentary context for the prompt. Optional.
	Knowledge *knowledge.Retriever

	Logger *logrus.Logger
}

// Space is one user's workspace runtime.
type Space struct {
	cfg        dispatch.SpaceConfig
	user       iasted.PromptContext
	userID     string
	voice      *voice.Client
	dispatcher *dispatch.Dispatcher
	chat       *chat.Manager
	sessions   session.Store
	retriever  *knowledge.Retriever
	log        *logrus.Entry

	mu           sync.Mutex
	sessionID    string
	currentVoice session.Voice
	systemPrompt string
}

// New assembles a space. The voice client's tool calls flow through the
// space's dispatcher; the dispatcher drives the voice client back through
// the space itself.
func New(opts Options) (*Space, error) {
	if opts.Surface == nil {
		return nil, fmt.Errorf("space: %w: surface is required", iasted.ErrInvalidConfig)
	}
	if opts.Chat == nil {
		return nil, fmt.Errorf("space: %w: chat manager is required", iasted.ErrInvalidConfig)
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("space: %w: session store is required", iasted.ErrInvalidConfig)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Space{
		cfg:          opts.Config,
		user:         opts.User,
		userID:       opts.UserID,
		chat:         opts.Chat,
		sessions:     opts.Sessions,
		retriever:    opts.Knowledge,
		log:          logger.WithField("component", "space").WithField("space", opts.Config.Space),
		currentVoice: session.VoiceAsh,
	}

	s.voice = voice.New(opts.VoiceConfig, func(call iasted.ToolCall) iasted.ToolResult {
		return s.dispatcher.Dispatch(context.Background(), call)
	})

	s.dispatcher = dispatch.New(opts.Config, dispatch.Options{
		Surface:  opts.Surface,
		Voice:    s,
		Chat:     opts.Chat,
		Notifier: opts.Notifier,
		Docs:     opts.Docs,
		Settings: opts.Settings,
		Logger:   logger,
	})

	return s, nil
}

// Dispatcher exposes the space's tool dispatcher.
func (s *Space) Dispatcher() *dispatch.Dispatcher { return s.dispatcher }

// Chat exposes the space's chat manager.
func (s *Space) Chat() *chat.Manager { return s.chat }

// StartConversation builds the system prompt, connects the voice session and
// persists the initial snapshot.
func (s *Space) StartConversation(ctx context.Context) error {
	prompt := s.buildPrompt(ctx)

	s.mu.Lock()
	v := s.currentVoice
	s.mu.Unlock()

	if err := s.voice.Connect(ctx, v, prompt); err != nil {
		return err
	}

	s.mu.Lock()
	s.systemPrompt = prompt
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	id := s.sessionID
	s.mu.Unlock()

	snapshot := s.voice.Snapshot(id, s.userID, prompt)
	if err := s.sessions.Create(ctx, snapshot); err != nil && !errors.Is(err, iasted.ErrVersionConflict) {
		s.log.WithError(err).Warn("session snapshot create failed")
	}
	return nil
}

// StopConversation disconnects, folds the voice transcript into the chat
// modal and persists the final snapshot.
func (s *Space) StopConversation(ctx context.Context) {
	transcript := s.voice.Messages()
	s.voice.Disconnect()
	s.chat.SyncTranscript(transcript)
	s.persistSnapshot(ctx)
}

// ToggleConversation starts or stops the voice session.
func (s *Space) ToggleConversation(ctx context.Context) error {
	if s.voice.IsConnected() {
		s.StopConversation(ctx)
		return nil
	}
	return s.StartConversation(ctx)
}

// Voice implements dispatch.VoiceControl.
func (s *Space) Voice() session.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentVoice
}

// ChangeVoice implements dispatch.VoiceControl. The provider pins the voice
// at connect time, so a change is a full reconnect with the same prompt.
func (s *Space) ChangeVoice(ctx context.Context, v session.Voice) error {
	if !session.KnownVoice(v) {
		return fmt.Errorf("space: unknown voice %q", v)
	}

	s.mu.Lock()
	s.currentVoice = v
	prompt := s.systemPrompt
	s.mu.Unlock()

	if !s.voice.IsConnected() {
		return nil
	}

	transcript := s.voice.Messages()
	s.voice.Disconnect()
	s.chat.SyncTranscript(transcript)

	if err := s.voice.Connect(ctx, v, prompt); err != nil {
		return fmt.Errorf("voice change reconnect: %w", err)
	}
	s.persistSnapshot(ctx)
	return nil
}

// SetSpeechRate implements dispatch.VoiceControl.
func (s *Space) SetSpeechRate(rate float64) {
	s.voice.SetSpeechRate(rate)
	s.persistSnapshot(context.Background())
}

// Stop implements dispatch.VoiceControl.
func (s *Space) Stop() {
	s.StopConversation(context.Background())
}

// IsConnected implements dispatch.VoiceControl.
func (s *Space) IsConnected() bool {
	return s.voice.IsConnected()
}

// ObserveAudioLevel forwards a capture-level sample to the voice client.
func (s *Space) ObserveAudioLevel(sample float64) {
	s.voice.ObserveAudioLevel(sample)
}

// Close shuts the space down, ending the session snapshot.
func (s *Space) Close(ctx context.Context) error {
	s.StopConversation(ctx)

	s.mu.Lock()
	id := s.sessionID
	s.sessionID = ""
	s.mu.Unlock()

	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil && !errors.Is(err, iasted.ErrNotFound) {
		return fmt.Errorf("session snapshot delete: %w", err)
	}
	return nil
}

func (s *Space) buildPrompt(ctx context.Context) string {
	sections := s.cfg.Sections

	var passages []string
	if s.retriever != nil {
		query := s.user.SpaceName + " " + s.user.SpaceDesc
		retrieveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var err error
		passages, err = s.retriever.Context(retrieveCtx, query, knowledgeLimit)
		if err != nil {
			// A missing knowledge base degrades the prompt, not the call.
			s.log.WithError(err).Warn("knowledge retrieval failed")
		}
	}

	return iasted.BuildSystemPrompt(s.user, sections, passages)
}

// persistSnapshot writes the current runtime state through the session
// store's optimistic lock, retrying on version conflicts.
func (s *Space) persistSnapshot(ctx context.Context) {
	s.mu.Lock()
	id := s.sessionID
	prompt := s.systemPrompt
	s.mu.Unlock()
	if id == "" {
		return
	}

	for attempt := 0; attempt < 3; attempt++ {
		stored, err := s.sessions.Get(ctx, id)
		if err != nil {
			s.log.WithError(err).Warn("session snapshot load failed")
			return
		}

		snapshot := s.voice.Snapshot(id, s.userID, prompt)
		if stored == nil {
			if err := s.sessions.Create(ctx, snapshot); err == nil {
				return
			}
			continue
		}

		snapshot.CreatedAt = stored.CreatedAt
		snapshot.Version = stored.Version
		err = s.sessions.Update(ctx, snapshot)
		if err == nil {
			return
		}
		if errors.Is(err, iasted.ErrVersionConflict) {
			continue
		}
		s.log.WithError(err).Warn("session snapshot update failed")
		return
	}
	s.log.Warn("session snapshot update abandoned after conflicts")
}

// Compile-time check that Space drives the dispatcher's voice surface.
var _ dispatch.VoiceControl = (*Space)(nil)
