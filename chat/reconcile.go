package chat

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/store"
)

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opDelete
)

// pendingOp is one store write that failed and awaits retry. Order is
// preserved so an edit queued after an insert replays against the row.
type pendingOp struct {
	kind      opKind
	sessionID string
	messageID string
	content   string
	message   iasted.Message
}

type reconcileQueue struct {
	mu  sync.Mutex
	ops []pendingOp
}

func newReconcileQueue() *reconcileQueue {
	return &reconcileQueue{}
}

func (q *reconcileQueue) push(op pendingOp) {
	q.mu.Lock()
	q.ops = append(q.ops, op)
	q.mu.Unlock()
}

func (q *reconcileQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// drain retries every queued op in order and returns how many succeeded.
// Ops that fail again are kept for the next drain.
func (q *reconcileQueue) drain(ctx context.Context, conv store.Conversations, log *logrus.Entry) int {
	q.mu.Lock()
	ops := q.ops
	q.ops = nil
	q.mu.Unlock()

	applied := 0
	var remaining []pendingOp
	for _, op := range ops {
		var err error
		switch op.kind {
		case opInsert:
			err = conv.InsertMessage(ctx, op.sessionID, op.message)
		case opUpdate:
			err = conv.UpdateMessage(ctx, op.messageID, op.content)
		case opDelete:
			err = conv.DeleteMessage(ctx, op.messageID)
		}
		if err != nil {
			remaining = append(remaining, op)
			continue
		}
		applied++
	}

	if len(remaining) > 0 {
		log.WithField("pending", len(remaining)).Warn("reconciliation incomplete")
		q.mu.Lock()
		// Failed ops go back in front of anything queued meanwhile.
		q.ops = append(remaining, q.ops...)
		q.mu.Unlock()
	}
	return applied
}
