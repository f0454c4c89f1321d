package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
)

var (
	// errors
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrInvalidCredential = errors.New("invalid credential")

	// user-visible transient messages carried in State.Err
	invalidLoginMsg  = "Invalid username or password"
	wrongPasswordMsg = "Current password is incorrect"
)

type (
	// Directory is the slice of the entity store the session manager needs.
	// school.Service satisfies it.
	Directory interface {
		Authenticate(username, password string) (school.User, error)
		UserByID(id string) (school.User, error)
		UpdatePassword(id, newPassword string) (school.User, error)
	}

	// State is the full session snapshot delivered to subscribers on every
	// transition, successful or failed.
	State struct {
		User            *school.User `json:"user"`
		IsAuthenticated bool         `json:"is_authenticated"`
		Err             string       `json:"error,omitempty"`
	}

	Subscriber func(State)

	// record is the persisted session identity, key core.KeyAuthState.
	record struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	}

	// Manager owns the single current session. It is the sole writer of
	// session state; all transitions are atomic and notify subscribers
	// synchronously, in subscription order.
	Manager struct {
		dir Directory
		kv  core.KVStore
		log core.Logger

		mu    sync.Mutex
		state State
		subs  []*subscription
	}

	subscription struct {
		fn Subscriber
	}
)

var _ Directory = (*school.Service)(nil)

// NewManager builds the manager and restores any persisted session identity.
// The restore runs exactly once, here; a missing, malformed or stale record
// leaves the session anonymous and clears the slot.
func NewManager(dir Directory, kv core.KVStore, log core.Logger) *Manager {
	m := &Manager{dir: dir, kv: kv, log: log}
	m.restore()
	return m
}

// State returns a copy of the current session snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn for session-state changes and returns its release
// handle. Releasing removes exactly that subscriber; releasing twice is a
// no-op. Callbacks run synchronously under the manager's lock and must not
// call back into the Manager.
func (m *Manager) Subscribe(fn Subscriber) (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &subscription{fn: fn}
	m.subs = append(m.subs, sub)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s == sub {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Login checks the credentials against the entity store. On match the
// session transitions to authenticated and its identity is persisted; on
// mismatch the current state is kept and a transient error message is set.
// Subscribers are notified either way.
func (m *Manager) Login(username, password string) error {
	usr, err := m.dir.Authenticate(username, password)

	m.mu.Lock()
	if err != nil {
		m.state.Err = invalidLoginMsg
		m.notifyLocked()
		m.mu.Unlock()
		return ErrInvalidCredential
	}

	m.state = State{User: &usr, IsAuthenticated: true}
	m.persistLocked()
	m.notifyLocked()
	m.mu.Unlock()
	return nil
}

// Logout unconditionally transitions to anonymous and clears the persisted
// session identity.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.state = State{}
	if err := m.kv.Delete(context.Background(), core.KeyAuthState); err != nil {
		m.log.Warn("session: clearing persisted state", err)
	}
	m.notifyLocked()
	m.mu.Unlock()
}

// ChangePassword updates the session user's password. It fails with
// ErrUnauthenticated from an anonymous session (without touching the store)
// and with ErrInvalidCredential when oldPassword does not match. On success
// the in-session user is refreshed and the session re-persisted; there is no
// state transition. A store-level failure is returned as-is, leaving the
// session error state untouched.
func (m *Manager) ChangePassword(oldPassword, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsAuthenticated || m.state.User == nil {
		return ErrUnauthenticated
	}

	if err := m.state.User.CheckPassword(oldPassword); err != nil {
		m.state.Err = wrongPasswordMsg
		m.notifyLocked()
		return ErrInvalidCredential
	}

	usr, err := m.dir.UpdatePassword(m.state.User.ID, newPassword)
	if err != nil {
		return err
	}

	m.state.User = &usr
	m.state.Err = ""
	m.persistLocked()
	m.notifyLocked()
	return nil
}

func (m *Manager) restore() {
	ctx := context.Background()

	data, err := m.kv.Get(ctx, core.KeyAuthState)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			m.log.Warn("session: reading persisted state", err)
		}
		return
	}

	var rec record
	if err = json.Unmarshal(data, &rec); err != nil || rec.UserID == "" {
		m.clearPersisted(ctx)
		return
	}

	usr, err := m.dir.UserByID(rec.UserID)
	if err != nil {
		m.clearPersisted(ctx)
		return
	}
	m.state = State{User: &usr, IsAuthenticated: true}
}

func (m *Manager) clearPersisted(ctx context.Context) {
	if err := m.kv.Delete(ctx, core.KeyAuthState); err != nil {
		m.log.Warn("session: clearing invalid persisted state", err)
	}
}

func (m *Manager) persistLocked() {
	if m.state.User == nil {
		return
	}
	data, err := json.Marshal(record{UserID: m.state.User.ID, Username: m.state.User.Username})
	if err != nil {
		m.log.Error("session: marshalling state", err)
		return
	}
	if err = m.kv.Set(context.Background(), core.KeyAuthState, data); err != nil {
		m.log.Warn("session: persisting state", err)
	}
}

func (m *Manager) notifyLocked() {
	st := m.snapshotLocked()
	for _, sub := range m.subs {
		sub.fn(st)
	}
}

func (m *Manager) snapshotLocked() State {
	st := m.state
	if m.state.User != nil {
		usr := *m.state.User
		st.User = &usr
	}
	return st
}
