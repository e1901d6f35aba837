// Package audio gates playback contexts behind the first user gesture.
// Platforms refuse to start audio output until the user interacts; contexts
// created before that sit suspended and are resumed in one batch when the
// gesture arrives.
package audio

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Context states mirrored from the playback backend.
const (
	StateSuspended = "suspended"
	StateRunning   = "running"
	StateClosed    = "closed"
)

// Context is a playback context created by the embedding platform.
type Context interface {
	// State returns suspended, running or closed.
	State() string

	// Resume starts a suspended context.
	Resume() error
}

// Gate tracks playback contexts and unlocks them on the first user gesture.
// Contexts registered after the unlock are resumed immediately.
type Gate struct {
	log *logrus.Entry

	mu       sync.Mutex
	unlocked bool
	pending  []Context
}

// NewGate creates a locked gate.
func NewGate(logger *logrus.Logger) *Gate {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Gate{log: logger.WithField("component", "audio")}
}

// Register hands a context to the gate. Before the first gesture it is
// parked; afterwards a suspended context is resumed on the spot.
func (g *Gate) Register(ctx Context) {
	g.mu.Lock()
	unlocked := g.unlocked
	if !unlocked {
		g.pending = append(g.pending, ctx)
	}
	g.mu.Unlock()

	if unlocked {
		g.resume(ctx)
	}
}

// UserGesture unlocks the gate and resumes every parked suspended context.
// Repeated gestures are no-ops.
func (g *Gate) UserGesture() {
	g.mu.Lock()
	if g.unlocked {
		g.mu.Unlock()
		return
	}
	g.unlocked = true
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	for _, ctx := range pending {
		g.resume(ctx)
	}
	g.log.WithField("contexts", len(pending)).Debug("audio unlocked")
}

// Unlocked reports whether the first gesture has arrived.
func (g *Gate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}

func (g *Gate) resume(ctx Context) {
	if ctx.State() != StateSuspended {
		return
	}
	if err := ctx.Resume(); err != nil {
		g.log.WithError(err).Warn("audio context resume failed")
	}
}
