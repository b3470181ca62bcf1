package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/store"
)

// TokenKey is the durable storage key of the bearer token.
const TokenKey = "token"

// Role is the account role reported by the backend.
type Role string

const (
	RoleUnknown Role = ""
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Promotion returns the role an account of role r may be promoted to:
// student to teacher, teacher to admin.
func Promotion(r Role) (Role, bool) {
	switch r {
	case RoleStudent:
		return RoleTeacher, true
	case RoleTeacher:
		return RoleAdmin, true
	default:
		return RoleUnknown, false
	}
}

// ParseRole maps a backend role string onto a Role. Unrecognised values
// become RoleUnknown.
func ParseRole(s string) Role {
	switch r := Role(s); r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return r
	default:
		return RoleUnknown
	}
}

// State is a point-in-time view of the session.
type State struct {
	Token string
	Role  Role
}

// Authenticated reports whether a token is present.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// Store holds the authentication token and role. The token is persisted to
// durable storage; the role is not and must be re-derived after a restart.
// Store is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	state  State
	kv     store.KV
	log    *zap.Logger
	nextID int
	subs   map[int]func(State)
}

// New creates a Store persisting its token to kv.
func New(kv store.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		kv:   kv,
		log:  log.Named("session"),
		subs: make(map[int]func(State)),
	}
}

// Restore loads a persisted token. The role stays unknown.
func (s *Store) Restore(ctx context.Context) error {
	tok, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return fmt.Errorf("restore token: %w", err)
	}
	if !ok || tok == "" {
		return nil
	}
	s.update(func(st *State) { st.Token = tok })
	return nil
}

// Login stores a new token (durably) and role.
func (s *Store) Login(ctx context.Context, token string, role Role) error {
	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.update(func(st *State) {
		st.Token = token
		st.Role = role
	})
	s.log.Info("logged in", zap.String("role", string(role)))
	return nil
}

// SetRole records the role once it is known. It is ignored while no token is
// present, since a role without a token means nothing.
func (s *Store) SetRole(role Role) {
	s.update(func(st *State) {
		if st.Token != "" {
			st.Role = role
		}
	})
}

// Logout removes the persisted token, then clears token and role together.
// The in-memory state is cleared even if the storage delete fails, and
// subscribers only see the cleared state once storage no longer holds it.
func (s *Store) Logout(ctx context.Context) error {
	err := s.kv.Delete(ctx, TokenKey)
	s.update(func(st *State) { *st = State{} })
	s.log.Info("logged out")
	if err != nil {
		return fmt.Errorf("remove persisted token: %w", err)
	}
	return nil
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Role returns the current role.
func (s *Store) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Role
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies subscribers outside it when
// the state actually changed.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	before := s.state
	fn(&s.state)
	after := s.state
	var subs []func(State)
	if before != after {
		subs = make([]func(State), 0, len(s.subs))
		for _, sub := range s.subs {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(after)
	}
}
