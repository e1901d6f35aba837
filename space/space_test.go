package space

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/chat"
	"github.com/admin-ga/iasted/dispatch"
	"github.com/admin-ga/iasted/session"
	"github.com/admin-ga/iasted/store"
	"github.com/admin-ga/iasted/voice"
)

type fakeSurface struct {
	active     string
	accordions map[string]bool
	theme      string
	downloads  []iasted.DocumentRef
}

func newFakeSurface() *fakeSurface { return &fakeSurface{accordions: map[string]bool{}} }

func (f *fakeSurface) ActivateSection(id string) { f.active = id }
func (f *fakeSurface) SetAccordionOpen(id string, open bool) { f.accordions[id] = open }
func (f *fakeSurface) SetTheme(theme string) { f.theme = theme }
func (f *fakeSurface) ToggleSidebar() {}
func (f *fakeSurface) SetVolume(level int) {}
func (f *fakeSurface) DownloadDocument(doc iasted.DocumentRef) {
	f.downloads = append(f.downloads, doc)
}
func (f *fakeSurface) PreviewDocument(doc iasted.DocumentRef) {}
func (f *fakeSurface) ClosePreview() {}

// provider keeps accepting connections so voice reconnects work. Each
// accepted connection surfaces on the returned channel so tests can push
// events back down.
func startProvider(t *testing.T) (string, chan *websocket.Conn) {
	t.Helper()
	conns := make(chan *websocket.Conn, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http"), conns
}

func newTestSpace(t *testing.T) (*Space, *fakeSurface, session.Store) {
	t.Helper()
	url, _ := startProvider(t)
	return newTestSpaceAt(t, url)
}

func newTestSpaceAt(t *testing.T, providerURL string) (*Space, *fakeSurface, session.Store) {
	t.Helper()

	sessions, err := session.NewStore(session.StoreTypeMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	manager := chat.NewManager(store.NewMemory(), chat.Config{
		UserID:   "user-1",
		Greeting: func(time.Time) string { return "Bonjour Excellence." },
	})

	surface := newFakeSurface()
	s, err := New(Options{
		Config: dispatch.PresidentConfig(),
		User:   iasted.PromptContext{Role: "president", SpaceName: "Espace Présidentiel"},
		UserID: "user-1",
		VoiceConfig: voice.Config{
			URL:           providerURL,
			Model:         "test-model",
			GreetingDelay: time.Hour,
		},
		Chat:     manager,
		Sessions: sessions,
		Surface:  surface,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, surface, sessions
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, iasted.ErrInvalidConfig)
}

func TestStartConversationPersistsSnapshot(t *testing.T) {
	s, _, sessions := newTestSpace(t)
	ctx := context.Background()

	require.NoError(t, s.StartConversation(ctx))
	require.True(t, s.IsConnected())

	s.mu.Lock()
	id := s.sessionID
	s.mu.Unlock()
	require.NotEmpty(t, id)

	snap, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "user-1", snap.UserID)
	assert.Equal(t, session.VoiceAsh, snap.Voice)
	assert.Contains(t, snap.SystemPrompt, "iAsted")
}

func TestToggleConversation(t *testing.T) {
	s, _, _ := newTestSpace(t)
	ctx := context.Background()

	require.NoError(t, s.ToggleConversation(ctx))
	assert.True(t, s.IsConnected())

	require.NoError(t, s.ToggleConversation(ctx))
	assert.False(t, s.IsConnected())
}

func TestChangeVoiceReconnects(t *testing.T) {
	s, _, sessions := newTestSpace(t)
	ctx := context.Background()

	require.NoError(t, s.StartConversation(ctx))
	require.NoError(t, s.ChangeVoice(ctx, session.VoiceShimmer))

	assert.True(t, s.IsConnected())
	assert.Equal(t, session.VoiceShimmer, s.Voice())

	s.mu.Lock()
	id := s.sessionID
	s.mu.Unlock()
	snap, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, session.VoiceShimmer, snap.Voice)
}

func TestChangeVoiceWhileIdleOnlySelects(t *testing.T) {
	s, _, _ := newTestSpace(t)

	require.NoError(t, s.ChangeVoice(context.Background(), session.VoiceEcho))
	assert.Equal(t, session.VoiceEcho, s.Voice())
	assert.False(t, s.IsConnected())
}

func TestChangeVoiceRejectsUnknown(t *testing.T) {
	s, _, _ := newTestSpace(t)

	err := s.ChangeVoice(context.Background(), session.Voice("alloy"))
	assert.Error(t, err)
	assert.Equal(t, session.VoiceAsh, s.Voice())
}

func TestDispatcherDrivesSurfaceThroughSpace(t *testing.T) {
	s, surface, _ := newTestSpace(t)

	result := s.Dispatcher().Dispatch(context.Background(), iasted.ToolCall{
		Name: "navigate_to_section",
		Args: map[string]any{"section_id": "budget"},
	})

	assert.True(t, result.Success)
	assert.Equal(t, "budget", surface.active)
}

func TestDispatchChangeVoiceAlternatesThroughSpace(t *testing.T) {
	s, _, _ := newTestSpace(t)
	require.NoError(t, s.StartConversation(context.Background()))

	result := s.Dispatcher().Dispatch(context.Background(), iasted.ToolCall{Name: "change_voice"})

	assert.True(t, result.Success)
	assert.Equal(t, session.VoiceShimmer, s.Voice())
	assert.True(t, s.IsConnected())
}

func TestCloseDeletesSnapshot(t *testing.T) {
	s, _, sessions := newTestSpace(t)
	ctx := context.Background()

	require.NoError(t, s.StartConversation(ctx))
	s.mu.Lock()
	id := s.sessionID
	s.mu.Unlock()

	require.NoError(t, s.Close(ctx))

	snap, err := sessions.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestStopToolCallFromProviderDisconnects(t *testing.T) {
	url, conns := startProvider(t)
	s, _, _ := newTestSpaceAt(t, url)
	ctx := context.Background()

	require.NoError(t, s.StartConversation(ctx))
	conn := <-conns

	// The model ends the conversation itself; the dispatch runs while the
	// provider connection is still live and must tear it down cleanly.
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      "response.function_call_arguments.done",
		"name":      "stop_conversation",
		"call_id":   "call-1",
		"arguments": `{}`,
	}))

	require.Eventually(t, func() bool { return !s.IsConnected() }, 3*time.Second, 10*time.Millisecond)
}

func TestChangeVoiceToolCallFromProviderReconnects(t *testing.T) {
	url, conns := startProvider(t)
	s, _, _ := newTestSpaceAt(t, url)
	ctx := context.Background()

	require.NoError(t, s.StartConversation(ctx))
	conn := <-conns

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      "response.function_call_arguments.done",
		"name":      "change_voice",
		"call_id":   "call-2",
		"arguments": `{"voice_id":"shimmer"}`,
	}))

	require.Eventually(t, func() bool {
		return s.Voice() == session.VoiceShimmer && s.IsConnected()
	}, 3*time.Second, 10*time.Millisecond)
}

func TestStopConversationFoldsTranscriptIntoChat(t *testing.T) {
	s, _, _ := newTestSpace(t)
	ctx := context.Background()

	s.Chat().Open()
	base := len(s.Chat().Messages())

	require.NoError(t, s.StartConversation(ctx))
	s.StopConversation(ctx)

	// No transcript accumulated against the silent fake provider.
	assert.Len(t, s.Chat().Messages(), base)
	assert.False(t, s.IsConnected())
}
