// internal/domain/cart/sync.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// RemoteCart is the server-side cart the synchronizer reconciles against
type RemoteCart interface {
	Snapshot(ctx context.Context, token string) (*Cart, error)
	PushLine(ctx context.Context, token string, line Line) error
}

// SyncError wraps a cart push or pull failure. Sync failures are non-fatal:
// they are surfaced to the user without rolling back the local mutation.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("cart sync %s failed: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Synchronizer reconciles the local cart store with the server cart.
// The local copy is authoritative between pulls; the server wins wholesale
// at session start.
type Synchronizer struct {
	remote RemoteCart
	store  *Store
	logger *logrus.Entry
}

// NewSynchronizer creates a cart synchronizer
func NewSynchronizer(remote RemoteCart, store *Store, logger *logrus.Logger) *Synchronizer {
	return &Synchronizer{
		remote: remote,
		store:  store,
		logger: logger.WithField("component", "cart_sync"),
	}
}

// PullAuthoritative replaces the identity's local cart wholesale with the
// server snapshot. Any local-only lines accumulated while logged out are
// intentionally discarded: the server is authoritative at session start.
func (s *Synchronizer) PullAuthoritative(ctx context.Context, id Identity) (*Cart, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}

	snapshot, err := s.remote.Snapshot(ctx, id.Token)
	if err != nil {
		return nil, &SyncError{Op: "pull", Err: err}
	}

	if err := s.store.Save(ctx, id.Key(), snapshot); err != nil {
		return nil, &SyncError{Op: "pull", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"key":   id.Key(),
		"lines": len(snapshot.Lines()),
	}).Info("local cart replaced with server snapshot")

	return snapshot, nil
}

// PushLine sends a single changed line to the server. No batching, no
// automatic retry: a failure is recorded for the user and the next
// successful pull reconciles.
func (s *Synchronizer) PushLine(ctx context.Context, id Identity, line Line) error {
	if !id.Authenticated() {
		return nil // guest mode is local-only
	}

	if err := s.remote.PushLine(ctx, id.Token, line); err != nil {
		syncErr := &SyncError{Op: "push", Err: err}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"key":     id.Key(),
			"item_id": line.ItemID,
		}).Warn("cart push failed, local state kept")

		if saveErr := s.store.SaveSyncError(ctx, id.Key(), syncErr.Error()); saveErr != nil {
			s.logger.WithError(saveErr).Warn("failed to record sync error")
		}
		return syncErr
	}

	if err := s.store.ClearSyncError(ctx, id.Key()); err != nil {
		s.logger.WithError(err).Debug("failed to clear sync error")
	}
	return nil
}
