package ports

import (
	"context"

	"github.com/shorterhq/shorter/pkg/core/domain"
)

// KV namespaces used by the stores. The adapter treats them as opaque.
const (
	NamespaceLinks    = "links"
	NamespaceIndex    = "linkindex"
	NamespaceAccounts = "accounts"
)

// KVStore is the flat key-value abstraction every persistent component sits
// on. Only single-key read/write atomicity is assumed; there is no CAS and
// no cross-key transaction.
type KVStore interface {
	// Get returns the value for key, or domain.ErrNotFound.
	Get(ctx context.Context, ns, key string) ([]byte, error)
	// Put writes the value for key, overwriting any previous value.
	Put(ctx context.Context, ns, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, ns, key string) error
	// List returns the keys in a namespace, optionally filtered by prefix.
	List(ctx context.Context, ns, prefix string) ([]string, error)
	// Close releases the underlying connection.
	Close() error
}

// LinkStore is typed access to link records.
type LinkStore interface {
	// Create fails with domain.ErrConflict if the code is already taken.
	// The existence check and the write are not atomic.
	Create(ctx context.Context, rec *domain.LinkRecord) error
	Get(ctx context.Context, code string) (*domain.LinkRecord, error)
	Delete(ctx context.Context, code string) error
	// IncrementClicks is a read-modify-write; concurrent callers can lose
	// updates. Intentionally not idempotent: each call is one observed click.
	IncrementClicks(ctx context.Context, code string) error
	// Codes lists every stored code (stats scan).
	Codes(ctx context.Context) ([]string, error)
}

// UserIndex is the derived ownership index (email -> owned codes). The
// source of truth stays LinkRecord.OwnerID; readers must tolerate dangling
// entries.
type UserIndex interface {
	Append(ctx context.Context, ownerID, code string, createdAt int64) error
	Entries(ctx context.Context, ownerID string) ([]domain.UserIndexEntry, error)
	Remove(ctx context.Context, ownerID, code string) error
}

// AccountStore persists registered users.
type AccountStore interface {
	Create(ctx context.Context, acc *domain.Account) error
	Get(ctx context.Context, email string) (*domain.Account, error)
}

// PasswordHasher produces and verifies salt$digest password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches stored; legacy is true when
	// the stored value had no salt delimiter and the plaintext-equality
	// fallback was used.
	Verify(plaintext, stored string) (ok bool, legacy bool)
}

// SessionTokens issues and verifies signed identity tokens for management
// operations.
type SessionTokens interface {
	Issue(email string) (string, error)
	// Verify returns the asserted email, or domain.ErrUnauthenticated.
	Verify(token string) (string, error)
}

// AccessGrants derives and checks per-link access tokens proving a prior
// successful password submission.
type AccessGrants interface {
	Issue(code, passwordHash string) string
	Verify(code, passwordHash, token string) bool
}

// LinkService is the management surface consumed by the HTTP boundary.
type LinkService interface {
	Create(ctx context.Context, owner *string, in domain.CreateLinkInput) (*domain.LinkSummary, error)
	ListOwned(ctx context.Context, owner string) ([]domain.LinkSummary, error)
	Delete(ctx context.Context, owner, code string) error
	Stats(ctx context.Context) (*domain.Stats, error)
}

// Resolver decides redirect outcomes and accepts password submissions.
type Resolver interface {
	Resolve(ctx context.Context, code, grantToken string) domain.Resolution
	// SubmitPassword returns the grant to set as the auth_<code> cookie when
	// the submission succeeds. A record with no password resolves with an
	// empty grant.
	SubmitPassword(ctx context.Context, code, plaintext string) (grant string, res domain.Resolution)
}

// UserService handles registration and login.
type UserService interface {
	Register(ctx context.Context, email, password string) (token string, err error)
	Login(ctx context.Context, email, password string) (token string, err error)
}
