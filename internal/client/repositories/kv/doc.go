// Package kv implements the local key/value storage repository on top of
// the SQLite `storage` table.
//
// The table mirrors what a browser keeps in localStorage: the bearer token
// under "token" and the interface language under "language". Values are
// plain strings.
//
// Errors are wrapped with the operation and key, e.g.
// "failed to get storage[token]: ...".
package kv
