package timerlib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const openFlags = os.O_RDWR | os.O_CREATE

// SessionStore is the durable record of in-progress timers. It persists a
// SessionsMap to a single gob-encoded file and rewrites it synchronously on
// every mutation: a session that is not on disk before the process dies is
// unrecoverable, which is the one failure this store exists to prevent.
type SessionStore struct {
	sessions SessionsMap
	fs       afero.Fs
	f        afero.File
	mu       *sync.RWMutex
}

// OpenSessionStore opens the session store at the default location inside
// the habitd config directory.
func OpenSessionStore() (*SessionStore, error) {
	return OpenSessionStoreFs(afero.NewOsFs(), __SESSIONS_FILE_NAME)
}

// OpenSessionStoreFs opens a session store backed by the given filesystem.
// Tests pass an afero.MemMapFs. If the existing file is empty or corrupt the
// store starts fresh; a corrupt record is treated as absent, never as fatal.
func OpenSessionStoreFs(fs afero.Fs, path string) (*SessionStore, error) {
	st := &SessionStore{
		sessions: make(SessionsMap),
		fs:       fs,
		mu:       new(sync.RWMutex),
	}
	f, err := fs.OpenFile(path, openFlags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	st.f = f
	if decErr := gob.NewDecoder(f).Decode(&st.sessions); decErr != nil {
		if decErr != io.EOF {
			log.Printf("timerlib: warning: failed to decode sessions, starting fresh: %v", decErr)
		}
		st.sessions = make(SessionsMap)
	}
	for _, s := range st.sessions {
		s.mu = st.mu
	}
	return st, nil
}

// NewSession creates a running session bound to this store's lock.
// The caller is responsible for calling Put to persist it.
func (st *SessionStore) NewSession(entityId, label string, mode TimerMode, plannedSeconds int64, now time.Time) *TimerSession {
	return newSession(st.mu, entityId, label, mode, plannedSeconds, now)
}

// persistSessions writes sessions to disk using a buffer-first approach and
// syncs. Caller must hold st.mu.
func (st *SessionStore) persistSessions() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st.sessions); err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := st.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := st.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if _, err := st.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	// Writes are rare (start/pause/resume/complete), so durability wins
	// over throughput: sync on every persist.
	if err := st.f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Put stores or replaces the session for its entity and persists the store.
func (st *SessionStore) Put(s *TimerSession) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s.mu == nil {
		s.mu = st.mu
	}
	st.sessions[s.EntityId] = s
	return st.persistSessions()
}

// Get returns the session for the given entity, or nil if none exists.
// Every session in the map already carries the store lock: decode binds it
// in OpenSessionStoreFs and Put binds it under the write lock, so no
// mutation happens here.
func (st *SessionStore) Get(entityId string) *TimerSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[entityId]
}

// Delete removes the session for the given entity and persists the store.
// Deleting an absent entity is a no-op.
func (st *SessionStore) Delete(entityId string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[entityId]; !ok {
		return nil
	}
	delete(st.sessions, entityId)
	return st.persistSessions()
}

// Sessions returns all persisted sessions.
func (st *SessionStore) Sessions() []*TimerSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sessions := make([]*TimerSession, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// Close persists any pending state and closes the underlying file.
func (st *SessionStore) Close() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.persistSessions(); err != nil {
		log.Printf("timerlib: warning: failed to persist on close: %v", err)
	}
	return st.f.Close()
}
