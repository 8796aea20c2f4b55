// Package orchestrator keeps the user session, the stored credential and the
// current route consistent with each other.
//
// It reconciles once on Start, guards every route change, polls the
// credential store for changes made behind its back and reacts to 401
// responses seen by the shared api.Transport. Every path is safe to fire
// repeatedly: notifications are only repeated when the session, the
// credential or the navigation actually changed in between.
package orchestrator
