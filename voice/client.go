// Package voice is the client for the realtime voice provider. It owns the
// WebSocket connection, decodes transcript and tool-call events, and keeps the
// session's runtime state (voice state, speech rate, smoothed audio level).
//
// The provider itself is an opaque external dependency: this client only
// speaks its event protocol and never retries a failed connect on its own.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/session"
)

const (
	defaultConnectTimeout = 15 * time.Second
	defaultGreetingDelay  = time.Second
)

// ToolHandler consumes a tool call emitted by the model and returns the
// result the model narrates back. Exactly one handler is registered, at
// construction.
type ToolHandler func(call iasted.ToolCall) iasted.ToolResult

// Config configures a voice client.
type Config struct {
	// URL is the provider's realtime WebSocket endpoint.
	URL string

	// Model selects the realtime speech model.
	Model string

	// Token returns the ephemeral credential for one connection attempt.
	Token func(ctx context.Context) (string, error)

	// Tools is the session tool catalog; defaults to DefaultTools.
	Tools []ToolDef

	// GreetingDelay is how long after connect the greeting is requested,
	// leaving the session configuration time to apply. Defaults to 1s.
	GreetingDelay time.Duration

	// OnSpeechRate is invoked when the speech rate changes, so the playback
	// side can adjust. Optional.
	OnSpeechRate func(rate float64)

	Logger *logrus.Logger
}

// Client manages one connection to the realtime voice provider. It is owned
// by a single space; the chat modal borrows it by reference.
type Client struct {
	cfg     Config
	handler ToolHandler
	log     *logrus.Entry

	mu         sync.Mutex
	conn       *websocket.Conn
	writeMu    sync.Mutex
	connected  bool
	state      session.VoiceState
	voice      session.Voice
	speechRate float64
	audioLevel float64
	messages   []iasted.Message
	transcript string
	done       chan struct{}
	greetTimer *time.Timer
}

// New creates a voice client with its single tool-call handler.
func New(cfg Config, handler ToolHandler) *Client {
	if cfg.URL == "" {
		cfg.URL = "wss://api.openai.com/v1/realtime"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-realtime-preview-2024-12-17"
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = DefaultTools
	}
	if cfg.GreetingDelay == 0 {
		cfg.GreetingDelay = defaultGreetingDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	return &Client{
		cfg:        cfg,
		handler:    handler,
		log:        cfg.Logger.WithField("component", "voice"),
		state:      session.StateIdle,
		speechRate: 1.0,
	}
}

// Connect opens the provider connection with the given voice and system
// prompt. A connect while another connect/disconnect is in flight is refused
// with iasted.ErrAlreadyConnected; reconnection on a voice change is an
// explicit Disconnect followed by Connect.
func (c *Client) Connect(ctx context.Context, voice session.Voice, systemPrompt string) error {
	c.mu.Lock()
	if c.conn != nil || c.state == session.StateConnecting {
		c.mu.Unlock()
		return iasted.ErrAlreadyConnected
	}
	c.state = session.StateConnecting
	c.voice = voice
	c.mu.Unlock()

	conn, err := c.dial(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = session.StateError
		c.mu.Unlock()
		return fmt.Errorf("voice connect: %w", err)
	}

	update := sessionUpdate{
		Type: "session.update",
		Session: sessionConfig{
			Voice:        string(voice),
			Instructions: systemPrompt,
			ToolChoice:   "auto",
			Tools:        c.cfg.Tools,
		},
	}
	if err := conn.WriteJSON(update); err != nil {
		_ = conn.Close()
		c.mu.Lock()
		c.state = session.StateError
		c.mu.Unlock()
		return fmt.Errorf("voice session update: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.state = session.StateConnected
	c.done = make(chan struct{})
	// The model greets first; give the session update time to apply.
	c.greetTimer = time.AfterFunc(c.cfg.GreetingDelay, c.requestGreeting)
	done := c.done
	c.mu.Unlock()

	go c.readLoop(conn, done)

	c.log.WithFields(logrus.Fields{"voice": voice, "model": c.cfg.Model}).Info("voice session connected")
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if c.cfg.Token != nil {
		token, err := c.cfg.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("ephemeral token: %w", err)
		}
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: defaultConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL+"?model="+c.cfg.Model, header)
	return conn, err
}

// Disconnect tears the connection down. It is idempotent: disconnecting an
// idle client is a no-op.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	if c.greetTimer != nil {
		c.greetTimer.Stop()
		c.greetTimer = nil
	}
	c.conn = nil
	c.connected = false
	c.state = session.StateIdle
	c.transcript = ""
	c.audioLevel = 0
	c.mu.Unlock()

	if conn == nil {
		return
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(2*time.Second))
	c.writeMu.Unlock()
	_ = conn.Close()
	if done != nil {
		<-done
	}

	c.log.Info("voice session disconnected")
}

// ToggleConversation connects when disconnected and disconnects otherwise.
func (c *Client) ToggleConversation(ctx context.Context, voice session.Voice, systemPrompt string) error {
	if c.IsConnected() {
		c.Disconnect()
		return nil
	}
	return c.Connect(ctx, voice, systemPrompt)
}

// IsConnected reports whether the session is live.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// State returns the current voice state.
func (c *Client) State() session.VoiceState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Voice returns the currently selected voice.
func (c *Client) Voice() session.Voice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voice
}

// Messages returns a copy of the transcript synced from the provider.
func (c *Client) Messages() []iasted.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]iasted.Message(nil), c.messages...)
}

// ClearSession drops the accumulated transcript.
func (c *Client) ClearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.transcript = ""
}

// SpeechRate returns the current speech rate.
func (c *Client) SpeechRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speechRate
}

// SetSpeechRate clamps and applies a new speech rate.
func (c *Client) SetSpeechRate(rate float64) {
	clamped := session.ClampSpeechRate(rate)
	c.mu.Lock()
	c.speechRate = clamped
	c.mu.Unlock()
	if c.cfg.OnSpeechRate != nil {
		c.cfg.OnSpeechRate(clamped)
	}
	c.log.WithField("rate", clamped).Debug("speech rate updated")
}

// AudioLevel returns the smoothed input level, 0-100.
func (c *Client) AudioLevel() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audioLevel
}

// ObserveAudioLevel feeds one raw level sample (0-100) from the capture side.
// Samples are exponentially smoothed to avoid meter flicker.
func (c *Client) ObserveAudioLevel(sample float64) {
	if sample < 0 {
		sample = 0
	}
	if sample > 100 {
		sample = 100
	}
	c.mu.Lock()
	c.audioLevel = c.audioLevel*0.8 + sample*0.2
	c.mu.Unlock()
}

func (c *Client) requestGreeting() {
	err := c.send(responseCreate{
		Type: "response.create",
		Response: &responseOptions{
			Modalities:   []string{"text", "audio"},
			Instructions: "Saluez immédiatement l'utilisateur de manière brève et professionnelle.",
		},
	})
	if err != nil {
		c.log.WithError(err).Warn("greeting request failed")
	}
}

func (c *Client) send(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return iasted.ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			c.mu.Lock()
			stillOurs := c.conn == conn
			c.mu.Unlock()
			if stillOurs {
				c.log.WithError(err).Warn("voice session read failed")
				c.setState(session.StateError)
			}
			return
		}

		var ev serverEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.WithError(err).Debug("unparseable provider event")
			continue
		}
		c.handleEvent(ev)
	}
}

func (c *Client) handleEvent(ev serverEvent) {
	switch ev.Type {
	case evSessionCreated, evSpeechStarted:
		c.setState(session.StateListening)

	case evSpeechStopped:
		c.setState(session.StateThinking)

	case evUserTranscript:
		c.appendMessage(iasted.RoleUser, ev.Transcript)

	case evAssistantDelta:
		c.mu.Lock()
		c.transcript += ev.Delta
		c.mu.Unlock()

	case evAssistantDone:
		c.mu.Lock()
		text := ev.Transcript
		if text == "" {
			text = c.transcript
		}
		c.transcript = ""
		c.mu.Unlock()
		if text != "" {
			c.appendMessage(iasted.RoleAssistant, text)
		}

	case evAudioDelta:
		c.setState(session.StateSpeaking)

	case evResponseDone:
		c.setState(session.StateListening)

	case evFunctionCallComplete:
		// Handlers can tear the session down (stop_conversation, a voice
		// change), and Disconnect waits for the read loop to exit. Running
		// the handler on the read loop would deadlock that wait.
		go c.dispatchToolCall(ev)

	case evError:
		msg := "provider error"
		if ev.Error != nil && ev.Error.Message != "" {
			msg = ev.Error.Message
		}
		c.log.WithField("error", msg).Error("voice session error event")

	default:
		// Audio payloads and bookkeeping events the client does not act on.
	}
}

func (c *Client) dispatchToolCall(ev serverEvent) {
	args := map[string]any{}
	if ev.Arguments != "" {
		if err := json.Unmarshal([]byte(ev.Arguments), &args); err != nil {
			c.log.WithError(err).WithField("tool", ev.Name).Warn("malformed tool arguments")
		}
	}

	result := iasted.ToolErr("aucun gestionnaire d'outils enregistré")
	if c.handler != nil {
		result = c.handler(iasted.ToolCall{Name: ev.Name, Args: args})
	}

	output, err := json.Marshal(result)
	if err != nil {
		output = []byte(`{"success":false}`)
	}

	// The model needs the call output before it will continue the turn.
	if err := c.send(itemCreate{
		Type: "conversation.item.create",
		Item: functionOutput{
			Type:   "function_call_output",
			CallID: ev.CallID,
			Output: string(output),
		},
	}); err != nil {
		c.log.WithError(err).Warn("tool output send failed")
		return
	}
	if err := c.send(responseCreate{Type: "response.create"}); err != nil {
		c.log.WithError(err).Warn("response request failed")
	}
}

func (c *Client) appendMessage(role iasted.Role, content string) {
	if content == "" {
		return
	}
	c.mu.Lock()
	c.messages = append(c.messages, iasted.NewMessage(role, content))
	c.mu.Unlock()
}

func (c *Client) setState(s session.VoiceState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Snapshot captures the session's persistable state for the session store.
func (c *Client) Snapshot(id, userID, systemPrompt string) *session.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &session.State{
		ID:           id,
		UserID:       userID,
		Voice:        c.voice,
		SpeechRate:   c.speechRate,
		SystemPrompt: systemPrompt,
		VoiceState:   c.state,
		AudioLevel:   c.audioLevel,
	}
}
