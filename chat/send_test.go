package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/store"
)

func TestSendMessageRoundTrip(t *testing.T) {
	var gotAuth string
	var gotBody sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(sendResponse{Reply: "Le budget est à l'équilibre."})
	}))
	defer srv.Close()

	mem := store.NewMemory()
	m := NewManager(mem, Config{
		UserID:       "user-1",
		Greeting:     func(time.Time) string { return "Bonjour." },
		SendEndpoint: srv.URL,
		SendAuth:     "anon-key",
		Now:          func() time.Time { return testNow },
	})
	m.Open()

	reply, err := m.SendMessage(context.Background(), "Où en est le budget ?")
	require.NoError(t, err)

	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Equal(t, "Où en est le budget ?", gotBody.Message)
	assert.Equal(t, iasted.RoleAssistant, reply.Role)
	assert.Equal(t, "Le budget est à l'équilibre.", reply.Content)

	// Greeting, question and reply are all in the transcript and the store.
	msgs := m.Messages()
	require.Len(t, msgs, 3)

	stored, err := mem.ListMessages(context.Background(), m.Session().ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestSendMessageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewManager(store.NewMemory(), Config{
		UserID:       "user-1",
		Greeting:     func(time.Time) string { return "Bonjour." },
		SendEndpoint: srv.URL,
		Now:          func() time.Time { return testNow },
	})
	m.Open()

	_, err := m.SendMessage(context.Background(), "Question")
	assert.ErrorContains(t, err, "status 502")
}

func TestSendMessageWithoutEndpoint(t *testing.T) {
	m := NewManager(store.NewMemory(), Config{UserID: "user-1"})

	_, err := m.SendMessage(context.Background(), "Question")
	assert.Error(t, err)
}
