package session

import (
	"sync"

	"github.com/dmitrijs2005/sportclub/internal/client/models"
)

// Store serializes every session mutation.
//
// Listeners run synchronously, in transition order, after the record has
// been updated. They may read Snapshot but must not call transitions.
type Store struct {
	dispatch sync.Mutex

	mu        sync.Mutex
	state     State
	pending   uint64
	login     uint64
	attempts  uint64
	listeners map[int]func(State)
	nextID    int
}

func NewStore() *Store {
	return &Store{
		state:     State{Phase: PhaseIdle},
		listeners: make(map[int]func(State)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.User = cloneUser(st.User)
	return st
}

// Subscribe registers fn for every subsequent change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// apply runs mutate under the lock; when it reports a change the version is
// bumped and listeners see the result.
func (s *Store) apply(mutate func(st *State) bool) bool {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	changed := mutate(&s.state)
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.state.Version++
	snap := s.state
	snap.User = cloneUser(snap.User)
	ls := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(snap)
	}
	return true
}

// BeginAuthentication starts fetching the current user. While an attempt is
// pending it is returned again with started=false.
func (s *Store) BeginAuthentication() (a Attempt, started bool) {
	s.apply(func(st *State) bool {
		if s.pending != 0 {
			a = Attempt{id: s.pending}
			return false
		}
		s.attempts++
		s.pending = s.attempts
		a, started = Attempt{id: s.pending}, true

		st.Phase = PhaseAuthenticating
		st.IsAuthenticating = true
		st.Loading = true
		st.Error = nil
		return true
	})
	return a, started
}

// Pending reports whether a is still the fetch or login in flight.
func (s *Store) Pending(a Attempt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return a.id != 0 && (a.id == s.pending || a.id == s.login)
}

// ResolveAuthentication records the fetched user. It returns false when the
// attempt was superseded by a logout, login or expiry.
func (s *Store) ResolveAuthentication(a Attempt, user *models.User) bool {
	return s.apply(func(st *State) bool {
		if a.id == 0 || a.id != s.pending {
			return false
		}
		s.pending = 0
		*st = State{Phase: PhaseAuthenticated, User: cloneUser(user), Version: st.Version}
		return true
	})
}

// FailAuthentication moves through Failed and settles in Unauthenticated,
// keeping the error for display.
func (s *Store) FailAuthentication(a Attempt, rec models.ErrorRecord) bool {
	ok := s.apply(func(st *State) bool {
		if a.id == 0 || a.id != s.pending {
			return false
		}
		s.pending = 0
		*st = State{Phase: PhaseFailed, Error: &rec, Version: st.Version}
		return true
	})
	if !ok {
		return false
	}
	s.apply(func(st *State) bool {
		if st.Phase != PhaseFailed {
			return false
		}
		st.Phase = PhaseUnauthenticated
		return true
	})
	return true
}

// MarkUnauthenticated settles a session that has nothing to restore.
func (s *Store) MarkUnauthenticated() bool {
	return s.apply(func(st *State) bool {
		if s.pending != 0 || st.Phase == PhaseUnauthenticated || st.Phase == PhaseAuthenticated {
			return false
		}
		st.Phase = PhaseUnauthenticated
		st.User = nil
		return true
	})
}

// BeginLogin flags a credentials submission. The returned attempt replaces
// any earlier submission still in flight.
func (s *Store) BeginLogin() (a Attempt) {
	s.apply(func(st *State) bool {
		s.attempts++
		s.login = s.attempts
		a = Attempt{id: s.login}

		if st.Loading && st.Error == nil {
			return false
		}
		st.Loading = true
		st.Error = nil
		return true
	})
	return a
}

// LoginSucceeded signs user in and supersedes any pending fetch. It returns
// false when a logout or a newer submission replaced a.
func (s *Store) LoginSucceeded(a Attempt, user *models.User) bool {
	return s.apply(func(st *State) bool {
		if a.id == 0 || a.id != s.login {
			return false
		}
		s.login = 0
		s.pending = 0
		*st = State{Phase: PhaseAuthenticated, User: cloneUser(user), Version: st.Version}
		return true
	})
}

// LoginFailed records rec. A signed-in user stays signed in; otherwise the
// session is Failed until the next attempt. Superseded attempts are dropped.
func (s *Store) LoginFailed(a Attempt, rec models.ErrorRecord) bool {
	return s.apply(func(st *State) bool {
		if a.id == 0 || a.id != s.login {
			return false
		}
		s.login = 0
		st.Loading = st.IsAuthenticating
		st.Error = &rec
		switch st.Phase {
		case PhaseIdle, PhaseUnauthenticated, PhaseFailed:
			st.Phase = PhaseFailed
		}
		return true
	})
}

// Logout always wins: it ends any pending fetch or login, whose late result
// is then ignored.
func (s *Store) Logout() {
	s.apply(func(st *State) bool {
		s.pending = 0
		s.login = 0
		*st = State{Phase: PhaseUnauthenticated, Version: st.Version}
		return true
	})
}

// Desync drops a signed-in user whose credential vanished from storage.
func (s *Store) Desync() bool {
	return s.apply(func(st *State) bool {
		if !st.Authenticated() {
			return false
		}
		s.pending = 0
		*st = State{Phase: PhaseUnauthenticated, Version: st.Version}
		return true
	})
}

// Expire handles a credential the backend refused mid-session.
func (s *Store) Expire(rec models.ErrorRecord) bool {
	return s.apply(func(st *State) bool {
		if !st.Authenticated() && s.pending == 0 {
			return false
		}
		s.pending = 0
		*st = State{Phase: PhaseUnauthenticated, Error: &rec, Version: st.Version}
		return true
	})
}

// ClearError dismisses the current error.
func (s *Store) ClearError() {
	s.apply(func(st *State) bool {
		if st.Error == nil {
			return false
		}
		st.Error = nil
		if st.Phase == PhaseFailed {
			st.Phase = PhaseUnauthenticated
		}
		return true
	})
}
