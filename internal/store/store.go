package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	coreerrors "warden/internal/core/errors"
	"warden/internal/logging"
	"warden/internal/metrics"
)

// Store owns the in-memory whitelist and keeps it synchronized with a
// flat text file, one identifier per line. All mutating operations
// persist the full set back to disk before returning; a failed write is
// logged and counted but does not roll back the in-memory change.
type Store struct {
	path    string
	logger  *logging.Logger
	metrics *metrics.Collector

	mu          sync.RWMutex
	order       []string
	index       map[string]struct{}
	lastPersist time.Time
}

// selfWriteWindow is how long after a persist file events are treated
// as our own. One persist can emit several events (Create then Write
// when the file is new), so a window is used rather than a one-shot
// marker.
const selfWriteWindow = 500 * time.Millisecond

// Dependencies contains everything required to create a Store
type Dependencies struct {
	Path    string
	Logger  *logging.Logger
	Metrics *metrics.Collector
}

// New creates a Store. The store is empty until Init is called.
func New(deps Dependencies) (*Store, error) {
	if deps.Path == "" {
		return nil, coreerrors.NewConfigError("whitelist path is required", nil)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	return &Store{
		path:    deps.Path,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		index:   make(map[string]struct{}),
	}, nil
}

// Normalize trims surrounding whitespace and folds case. Add and Remove
// apply it to their input; load applies it to every line read from disk.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Init loads the backing file into memory. A missing or unreadable file
// is never an error: the store resets to empty and writes a fresh empty
// file so disk and memory agree again.
func (s *Store) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := loadLines(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Whitelist file missing, starting empty",
				logging.String("path", s.path))
		} else {
			s.logger.Error("Whitelist file unreadable, resetting to empty", err,
				logging.String("path", s.path))
		}
		s.replaceLocked(nil)
		s.persistLocked()
		return
	}

	s.replaceLocked(entries)
	s.logger.Info("Whitelist loaded",
		logging.String("path", s.path),
		logging.Int("entries", len(s.order)))
}

// Add inserts a normalized identifier and persists the set.
// Returns ErrEmptyIdentifier or ErrAlreadyExists without mutating.
func (s *Store) Add(id string) error {
	norm := Normalize(id)
	if norm == "" {
		return coreerrors.ErrEmptyIdentifier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[norm]; exists {
		return coreerrors.ErrAlreadyExists
	}

	s.index[norm] = struct{}{}
	s.order = append(s.order, norm)
	s.metrics.SetEntries(len(s.order))
	s.persistLocked()
	return nil
}

// Remove deletes a normalized identifier and persists the set.
// Returns ErrEmptyIdentifier or ErrNotFound without mutating.
func (s *Store) Remove(id string) error {
	norm := Normalize(id)
	if norm == "" {
		return coreerrors.ErrEmptyIdentifier
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[norm]; !exists {
		return coreerrors.ErrNotFound
	}

	delete(s.index, norm)
	for i, entry := range s.order {
		if entry == norm {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.metrics.SetEntries(len(s.order))
	s.persistLocked()
	return nil
}

// List returns a snapshot of all entries in insertion order
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the current number of entries
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// IsAuthorized reports whether an identifier is whitelisted. Only case
// is folded here; surrounding whitespace is not stripped. Identifiers
// on the connection path arrive as issued by the platform, already
// free of padding.
func (s *Store) IsAuthorized(id string) bool {
	norm := strings.ToLower(id)

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[norm]
	return ok
}

// Reload replaces the in-memory set with the current file contents.
// On read failure the current set is kept.
func (s *Store) Reload() error {
	entries, err := loadLines(s.path)
	if err != nil {
		s.logger.Error("Failed to reload whitelist, keeping current entries", err,
			logging.String("path", s.path))
		return coreerrors.ErrIO.WithError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(entries)
	s.metrics.RecordReload()
	s.logger.Info("Whitelist reloaded",
		logging.String("path", s.path),
		logging.Int("entries", len(s.order)))
	return nil
}

// replaceLocked swaps the set contents. Duplicate lines collapse to the
// first occurrence so the uniqueness invariant holds for hand-edited files.
func (s *Store) replaceLocked(entries []string) {
	s.order = s.order[:0]
	s.index = make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, seen := s.index[entry]; seen {
			continue
		}
		s.index[entry] = struct{}{}
		s.order = append(s.order, entry)
	}
	s.metrics.SetEntries(len(s.order))
}

// persistLocked rewrites the backing file with the full entry set. The
// mutation that triggered it stands even if the write fails; the
// failure is logged and counted so operators can reconcile.
func (s *Store) persistLocked() {
	if err := writeLines(s.path, s.order); err != nil {
		s.logger.LogPersistFailure(s.path, err)
		s.metrics.RecordPersistFailure()
		return
	}
	s.lastPersist = time.Now()
}

// recentSelfWrite reports whether a file event falls inside the
// suppression window of our own last persist.
func (s *Store) recentSelfWrite() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return time.Since(s.lastPersist) < selfWriteWindow
}

// loadLines reads the whole file and returns one normalized identifier
// per non-blank line. Both \n and \r\n endings are handled.
func loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		norm := Normalize(line)
		if norm == "" {
			continue
		}
		out = append(out, norm)
	}
	return out, nil
}

// writeLines overwrites the file with one identifier per line. The file
// is created, fully written, flushed and closed on every call.
func writeLines(path string, entries []string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create whitelist directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create whitelist file %s: %w", path, err)
	}

	writer := bufio.NewWriter(file)
	for _, entry := range entries {
		if _, err := writer.WriteString(entry + "\n"); err != nil {
			file.Close()
			return fmt.Errorf("failed to write whitelist entry: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush whitelist file: %w", err)
	}

	// Close errors still mean the data may not have hit disk, so they
	// count as persist failures too.
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close whitelist file: %w", err)
	}
	return nil
}
