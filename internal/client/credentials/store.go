// Package credentials owns the single persisted bearer token.
//
// Nothing else in the client reads or writes the "token" storage key; the
// token is opaque here and its validity is only ever decided by the backend.
package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sportclub/internal/client/repositories/kv"
	"github.com/dmitrijs2005/sportclub/internal/client/storage"
)

// Credential is an opaque bearer token.
type Credential string

// Source is the read side of the store, used by the transport and gateway.
type Source interface {
	Get(ctx context.Context) (Credential, bool, error)
}

// Store is the Credential Store contract.
type Store interface {
	Source
	Set(ctx context.Context, c Credential) error
	Clear(ctx context.Context) error
}

type repoStore struct {
	repo kv.Repository
	key  string
}

// NewStore keeps the credential in repo under storage.KeyToken.
func NewStore(repo kv.Repository) Store {
	return &repoStore{repo: repo, key: storage.KeyToken}
}

// NewMemoryStore returns a store that forgets everything on exit.
func NewMemoryStore() Store {
	return NewStore(kv.NewMemoryRepository())
}

func (s *repoStore) Get(ctx context.Context) (Credential, bool, error) {
	v, ok, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return "", false, fmt.Errorf("read credential: %w", err)
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return Credential(v), true, nil
}

func (s *repoStore) Set(ctx context.Context, c Credential) error {
	if c == "" {
		return s.Clear(ctx)
	}
	if err := s.repo.Set(ctx, s.key, string(c)); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

func (s *repoStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Present reports whether src currently holds a credential. Read errors
// count as absent.
func Present(ctx context.Context, src Source) bool {
	_, ok, err := src.Get(ctx)
	return err == nil && ok
}
