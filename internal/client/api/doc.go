// Package api is the client's gateway to the REST backend.
//
// # Overview
//
// Client wraps a single *http.Client whose Transport is an interceptor chain
// (see Transport). The chain starts with BearerInterceptor, which attaches the
// stored credential; further interceptors, such as the session orchestrator's
// 401 handler, are installed and removed at runtime with Transport.Use.
//
// Every backend reply is an envelope:
//
//	{"success": true, "data": {...}}
//	{"success": false, "status": "fail", "message": "Invalid credentials"}
//
// # Error Handling
//
// All failures are returned as *AuthError whose Kind is one of
// ErrNoCredential, ErrRemoteRejected or ErrRemoteUnreachable, so callers can
// use errors.Is. Normalize maps any error to models.ErrorRecord. The gateway
// never retries and never persists the token it receives.
package api
