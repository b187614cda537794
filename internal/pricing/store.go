// Listwise - Real Estate Price Estimation and Recommendations
// Copyright 2026 Listwise Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/listwise/listwise

package pricing

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/listwise/listwise/internal/metrics"
)

// Store is the process-wide holder of the current model snapshot.
//
// The snapshot is kept behind an atomic pointer: readers never lock and
// never observe a partially-updated snapshot, and prediction latency is
// unaffected by a concurrent training run. A nil pointer is the explicit
// "untrained" state.
type Store struct {
	current atomic.Pointer[Snapshot]
	path    string
	logger  zerolog.Logger
}

// NewStore creates a store persisting to the given path. The store starts
// untrained; call Load to attempt restoring a persisted snapshot.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With().Str("component", "model-store").Logger(),
	}
}

// Current returns the current snapshot, or (nil, false) when untrained.
// Non-blocking; safe for concurrent use.
func (s *Store) Current() (*Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// Replace atomically swaps in a new snapshot. Concurrent readers keep
// whichever snapshot they already loaded; the swap itself is a single
// pointer store.
func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
	metrics.ModelTrained.Set(1)
	metrics.TrainingSampleCount.Set(float64(snap.SampleCount))
	s.logger.Info().
		Int("samples", snap.SampleCount).
		Time("trained_at", snap.TrainedAt).
		Msg("model snapshot replaced")
}

// Load attempts to restore a persisted snapshot from disk. Absence or
// corruption of the artifact is non-fatal: the store simply remains
// untrained and the service stays usable.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info().Str("path", s.path).Msg("no persisted model snapshot, starting untrained")
			return nil
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("failed to read model snapshot, starting untrained")
		return nil
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("corrupt model snapshot, starting untrained")
		return nil
	}
	if err := snap.validate(); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("invalid model snapshot, starting untrained")
		return nil
	}

	s.Replace(snap)
	s.logger.Info().
		Str("path", s.path).
		Int("samples", snap.SampleCount).
		Msg("model snapshot loaded from disk")
	return nil
}

// Persist writes a snapshot durably using write-temporary-then-rename so a
// crash mid-write never corrupts the artifact. Invoked after a successful
// Replace; failures here do not affect the in-memory snapshot.
func (s *Store) Persist(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename snapshot into place: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("model snapshot persisted")
	return nil
}

// Path returns the configured persistence path.
func (s *Store) Path() string { return s.path }
