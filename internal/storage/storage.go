// Package storage mirrors in-memory collections to a key-value backend as
// JSON documents.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a flat key-value store holding opaque values.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Session is the persisted login pointer.
type Session struct {
	UserID int64 `json:"userId"`
}

type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

func NewAdapter(backend Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{backend: backend, logger: logger}
}

func (a *Adapter) Backend() Backend {
	return a.backend
}

// Load decodes the document under key. Only a key that was never written
// falls back to def; read and decode failures are returned.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) (T, error) {
	out, found, err := Lookup[T](ctx, a, key)
	if err != nil || !found {
		return def, err
	}
	return out, nil
}

// Lookup decodes the document under key and reports whether it exists.
func Lookup[T any](ctx context.Context, a *Adapter, key string) (T, bool, error) {
	var out T
	raw, err := a.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return out, false, nil
	}
	if err != nil {
		a.logger.Error("failed to read key", "key", key, "error", err)
		return out, false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		a.logger.Error("failed to decode key", "key", key, "error", err)
		return out, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, true, nil
}

// Save encodes value as JSON and writes it under key.
func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.backend.Set(ctx, key, raw); err != nil {
		a.logger.Error("failed to save key", "key", key, "error", err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete removes key; removing an absent key is not an error.
func (a *Adapter) Delete(ctx context.Context, key string) error {
	if err := a.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// GetSession returns the persisted session, or nil when nobody is logged in.
func (a *Adapter) GetSession(ctx context.Context) (*Session, error) {
	return Load[*Session](ctx, a, KeySession, nil)
}

func (a *Adapter) SaveSession(ctx context.Context, userID int64) error {
	return a.Save(ctx, KeySession, Session{UserID: userID})
}

func (a *Adapter) ClearSession(ctx context.Context) error {
	return a.Delete(ctx, KeySession)
}

// Clear wipes every key the store owns.
func (a *Adapter) Clear(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := a.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks the backend when it supports liveness checks.
func (a *Adapter) Ping(ctx context.Context) error {
	if p, ok := a.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
