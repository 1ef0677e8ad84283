// Package checkpoint persists per-URL batch progress so an interrupted run
// can resume without retrying completed or failed dealerships.
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultDir is the checkpoint directory created next to the working dir.
const DefaultDir = ".checkpoints"

// CompletedEntry records a successfully processed URL.
type CompletedEntry struct {
	URL            string    `json:"url"`
	LocationsFound int       `json:"locations_found"`
	CompletedAt    time.Time `json:"completed_at"`
}

// FailedEntry records a URL that failed after retries.
type FailedEntry struct {
	URL         string    `json:"url"`
	Error       string    `json:"error"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// Checkpoint is the persisted session state. A URL appears in exactly one of
// the three lists at any time.
type Checkpoint struct {
	SessionID string           `json:"session_id"`
	Started   time.Time        `json:"started"`
	Completed []CompletedEntry `json:"completed"`
	Failed    []FailedEntry    `json:"failed"`
	Pending   []string         `json:"pending"`
}

// Stats summarizes a checkpoint.
type Stats struct {
	SessionID string
	Started   time.Time
	Completed int
	Failed    int
	Pending   int
}

// Manager owns one checkpoint session and its file. Mutating calls persist
// synchronously before returning, so a crash loses at most the in-flight
// URL's progress. Callers must not share a Manager across goroutines without
// the internal serialization it already provides.
type Manager struct {
	mu    sync.Mutex
	dir   string
	log   *zap.Logger
	state Checkpoint
}

// NewManager starts a fresh session. An empty sessionID derives one from the
// current timestamp.
func NewManager(dir, sessionID string, log *zap.Logger) *Manager {
	if dir == "" {
		dir = DefaultDir
	}
	if sessionID == "" {
		sessionID = time.Now().Format("20060102_150405")
	}
	return &Manager{
		dir: dir,
		log: log,
		state: Checkpoint{
			SessionID: sessionID,
			Started:   time.Now(),
		},
	}
}

// SessionID returns the active session identifier.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.SessionID
}

// AddPending queues URLs for processing. Idempotent: a URL already present in
// any of the three lists is not re-added.
func (m *Manager) AddPending(urls []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := m.knownURLsLocked()
	for _, u := range urls {
		if seen[u] {
			continue
		}
		m.state.Pending = append(m.state.Pending, u)
		seen[u] = true
	}
	return m.persistLocked()
}

// MarkCompleted moves a URL from pending to completed and persists.
func (m *Manager) MarkCompleted(url string, locationsFound int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removePendingLocked(url)
	m.state.Completed = append(m.state.Completed, CompletedEntry{
		URL:            url,
		LocationsFound: locationsFound,
		CompletedAt:    time.Now(),
	})
	return m.persistLocked()
}

// MarkFailed moves a URL from pending to failed and persists.
func (m *Manager) MarkFailed(url, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removePendingLocked(url)
	m.state.Failed = append(m.state.Failed, FailedEntry{
		URL:         url,
		Error:       errMsg,
		AttemptedAt: time.Now(),
	})
	return m.persistLocked()
}

// Pending returns a copy of the pending list in order.
func (m *Manager) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.state.Pending...)
}

// Stats returns a summary of the current session.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		SessionID: m.state.SessionID,
		Started:   m.state.Started,
		Completed: len(m.state.Completed),
		Failed:    len(m.state.Failed),
		Pending:   len(m.state.Pending),
	}
}

// Resume replaces the in-memory state wholesale with the most recently
// modified session file in the checkpoint directory. Only the loaded pending
// list is reprocessed; prior completed and failed URLs are not retried.
func (m *Manager) Resume() error {
	path, err := latestSessionFile(m.dir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "checkpoint: read %s", path)
	}
	var loaded Checkpoint
	if err := json.Unmarshal(data, &loaded); err != nil {
		return eris.Wrapf(err, "checkpoint: parse %s", path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = loaded
	m.log.Info("resumed checkpoint session",
		zap.String("session_id", loaded.SessionID),
		zap.Int("pending", len(loaded.Pending)),
		zap.Int("completed", len(loaded.Completed)),
		zap.Int("failed", len(loaded.Failed)),
	)
	return nil
}

// CleanupOld deletes session files beyond the retention count, newest kept.
func (m *Manager) CleanupOld(keep int) error {
	if keep < 1 {
		keep = 1
	}
	files, err := sessionFiles(m.dir)
	if err != nil {
		return err
	}
	if len(files) <= keep {
		return nil
	}
	for _, f := range files[keep:] {
		if err := os.Remove(f.path); err != nil {
			m.log.Warn("failed to remove old checkpoint", zap.String("path", f.path), zap.Error(err))
			continue
		}
		m.log.Debug("removed old checkpoint", zap.String("path", f.path))
	}
	return nil
}

// ListSessions returns summaries of every session file, newest first.
func ListSessions(dir string) ([]Stats, error) {
	if dir == "" {
		dir = DefaultDir
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return nil, err
	}

	out := make([]Stats, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			continue
		}
		var cp Checkpoint
		if err := json.Unmarshal(data, &cp); err != nil {
			continue
		}
		out = append(out, Stats{
			SessionID: cp.SessionID,
			Started:   cp.Started,
			Completed: len(cp.Completed),
			Failed:    len(cp.Failed),
			Pending:   len(cp.Pending),
		})
	}
	return out, nil
}

func (m *Manager) knownURLsLocked() map[string]bool {
	seen := make(map[string]bool)
	for _, e := range m.state.Completed {
		seen[e.URL] = true
	}
	for _, e := range m.state.Failed {
		seen[e.URL] = true
	}
	for _, u := range m.state.Pending {
		seen[u] = true
	}
	return seen
}

func (m *Manager) removePendingLocked(url string) {
	for i, u := range m.state.Pending {
		if u == url {
			m.state.Pending = append(m.state.Pending[:i], m.state.Pending[i+1:]...)
			return
		}
	}
}

// persistLocked writes the whole checkpoint via temp file + rename so the
// on-disk file is never partially written.
func (m *Manager) persistLocked() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return eris.Wrapf(err, "checkpoint: create dir %s", m.dir)
	}

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return eris.Wrap(err, "checkpoint: marshal state")
	}

	path := m.filePathLocked()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "checkpoint: write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "checkpoint: rename %s", tmp)
	}
	return nil
}

func (m *Manager) filePathLocked() string {
	return filepath.Join(m.dir, "session_"+m.state.SessionID+".json")
}

type sessionFile struct {
	path    string
	modTime time.Time
}

// sessionFiles lists session_*.json files, newest first by mtime.
func sessionFiles(dir string) ([]sessionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "checkpoint: read dir %s", dir)
	}

	var files []sessionFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "session_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, sessionFile{
			path:    filepath.Join(dir, name),
			modTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	return files, nil
}

func latestSessionFile(dir string) (string, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", eris.Errorf("checkpoint: no session files in %s", dir)
	}
	return files[0].path, nil
}
