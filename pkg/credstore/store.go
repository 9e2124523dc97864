// Package credstore provides secure persistence for the client's
// credential pair. The token manager is the only intended consumer; no
// other component reads or writes credentials directly.
package credstore

import (
	"context"
	"errors"

	"github.com/kypgh/fitbook-client/internal/domain"
)

// ErrNotFound is returned by Load when no credential pair is stored
var ErrNotFound = errors.New("credentials not found")

// Store persists a single token pair under a fixed storage identifier
type Store interface {
	// Load returns the stored pair, or ErrNotFound when absent
	Load(ctx context.Context) (*domain.TokenPair, error)

	// Save persists the pair, overwriting any existing one
	Save(ctx context.Context, pair *domain.TokenPair) error

	// Delete removes the stored pair. Deleting an absent pair is a no-op.
	Delete(ctx context.Context) error
}
