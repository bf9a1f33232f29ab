package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/pkg/llm"
	"github.com/papercomputeco/mentor/pkg/mentor"
	"github.com/papercomputeco/mentor/pkg/merkle"
)

// archive records mentoring exchanges in a Merkle DAG. Chat exchanges of a session
// are chained onto the session's previous head; single-shot exchanges start at a root,
// so repeating the same problem and reply deduplicates.
type archive struct {
	storer merkle.Storer
	logger *zap.Logger
	stored prometheus.Counter

	mu    sync.Mutex
	heads map[string]*merkle.Node
}

var _ mentor.Recorder = (*archive)(nil)

func newArchive(storer merkle.Storer, logger *zap.Logger, stored prometheus.Counter) *archive {
	return &archive{
		storer: storer,
		logger: logger,
		stored: stored,
		heads:  make(map[string]*merkle.Node),
	}
}

// Record stores the user input and the mentor reply as two linked nodes.
func (a *archive) Record(ctx context.Context, ex mentor.Exchange) error {
	parent := a.head(ex.SessionID)

	user := merkle.NewNode(merkle.Bucket{
		Type:    "message",
		Role:    llm.RoleUser,
		Mode:    ex.Mode.String(),
		Content: ex.Input,
	}, parent)
	if err := a.put(ctx, user); err != nil {
		return fmt.Errorf("storing user node: %w", err)
	}

	reply := merkle.NewNode(merkle.Bucket{
		Type:    "message",
		Role:    llm.RoleMentor,
		Mode:    ex.Mode.String(),
		Content: ex.Reply,
	}, user)
	if err := a.put(ctx, reply); err != nil {
		return fmt.Errorf("storing mentor node: %w", err)
	}

	a.logger.Debug("exchange archived",
		zap.String("session", ex.SessionID),
		zap.String("head_hash", truncate(reply.Hash, 16)),
	)

	if ex.SessionID != "" {
		a.mu.Lock()
		a.heads[ex.SessionID] = reply
		a.mu.Unlock()
	}
	return nil
}

func (a *archive) put(ctx context.Context, node *merkle.Node) error {
	isNew, err := a.storer.Put(ctx, node)
	if err != nil {
		return err
	}
	if isNew {
		a.stored.Inc()
	}
	return nil
}

// head returns the last archived node of a session, or nil.
func (a *archive) head(sessionID string) *merkle.Node {
	if sessionID == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.heads[sessionID]
}

// forget drops the session head so the next exchange starts a new root.
func (a *archive) forget(sessionID string) {
	a.mu.Lock()
	delete(a.heads, sessionID)
	a.mu.Unlock()
}
