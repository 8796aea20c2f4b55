// Package session holds the process-wide user session record.
//
// The record is only ever changed through the named transitions on Store;
// each transition that changes something bumps State.Version and notifies
// subscribers with the new snapshot.
package session

import (
	"github.com/dmitrijs2005/sportclub/internal/client/models"
)

type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseAuthenticating  Phase = "authenticating"
	PhaseAuthenticated   Phase = "authenticated"
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseFailed          Phase = "failed"
)

// State is an immutable snapshot of the session.
type State struct {
	Phase            Phase
	User             *models.User
	Loading          bool
	Error            *models.ErrorRecord
	IsAuthenticating bool
	Version          uint64
}

// Authenticated reports whether a user is signed in.
func (s State) Authenticated() bool {
	return s.Phase == PhaseAuthenticated && s.User != nil
}

// Attempt identifies one fetch of the current user or one login. Results
// carrying an attempt that is no longer pending are dropped.
type Attempt struct {
	id uint64
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
