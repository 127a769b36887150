package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shorterhq/shorter/pkg/adapters/repository/memory"
	"github.com/shorterhq/shorter/pkg/auth"
	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/shortid"
)

func newTestLinkService(t *testing.T) (*LinkService, *LinkStore, *UserIndex) {
	t.Helper()
	kv := memory.New()
	store := NewLinkStore(kv)
	index := NewUserIndex(kv)
	svc := NewLinkService(store, index, auth.NewPasswordHasher(), logging.Nop(), "http://sho.rt")
	return svc, store, index
}

func strptr(s string) *string { return &s }

func TestCreateWithCustomCode(t *testing.T) {
	svc, store, _ := newTestLinkService(t)
	ctx := context.Background()

	sum, err := svc.Create(ctx, nil, domain.CreateLinkInput{Code: "abc123", URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", sum.Code)
	assert.Equal(t, "http://sho.rt/abc123", sum.ShortURL)
	assert.False(t, sum.HasPassword)

	rec, err := store.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", rec.URL)
	assert.Zero(t, rec.Clicks)
	assert.Nil(t, rec.OwnerID)
}

func TestCreateGeneratesCode(t *testing.T) {
	svc, _, _ := newTestLinkService(t)

	sum, err := svc.Create(context.Background(), nil, domain.CreateLinkInput{URL: "example.com"})
	require.NoError(t, err)
	assert.Len(t, sum.Code, shortid.DefaultLength)
	// Scheme is filled in when missing.
	assert.Equal(t, "https://example.com", sum.OriginalURL)
}

func TestCreateConflict(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, domain.CreateLinkInput{Code: "abc123", URL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, nil, domain.CreateLinkInput{Code: "abc123", URL: "https://other.com"})
	assert.True(t, domain.IsConflict(err))
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   domain.CreateLinkInput
		want error
	}{
		{"bad url", domain.CreateLinkInput{URL: "not a url"}, domain.ErrInvalidURL},
		{"bad scheme", domain.CreateLinkInput{URL: "ftp://example.com"}, domain.ErrInvalidURL},
		{"short code", domain.CreateLinkInput{Code: "ab", URL: "https://example.com"}, domain.ErrInvalidCode},
		{"reserved code", domain.CreateLinkInput{Code: "admin", URL: "https://example.com"}, domain.ErrReservedCode},
		{"zero quota", domain.CreateLinkInput{Code: "abc123", URL: "https://example.com", MaxClicks: int64ptr(0)}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, nil, tt.in)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCreateReservedCodeIgnoresStoreState(t *testing.T) {
	svc, _, _ := newTestLinkService(t)

	// Reserved wins no matter what; the store is never consulted.
	_, err := svc.Create(context.Background(), strptr("alice@example.com"),
		domain.CreateLinkInput{Code: "admin", URL: "https://example.com"})
	assert.True(t, errors.Is(err, domain.ErrReservedCode))
}

func TestCreateRejectsPastExpiry(t *testing.T) {
	svc, _, _ := newTestLinkService(t)

	past := svc.nowFunc().UnixMilli() - 1000
	_, err := svc.Create(context.Background(), nil,
		domain.CreateLinkInput{Code: "abc123", URL: "https://example.com", ExpiresAt: &past})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreateHashesLinkPassword(t *testing.T) {
	svc, store, _ := newTestLinkService(t)
	ctx := context.Background()

	sum, err := svc.Create(ctx, nil, domain.CreateLinkInput{
		Code:     "secret1",
		URL:      "https://example.com",
		Password: strptr("hunter2"),
	})
	require.NoError(t, err)
	assert.True(t, sum.HasPassword)

	rec, err := store.Get(ctx, "secret1")
	require.NoError(t, err)
	require.NotNil(t, rec.PasswordHash)
	assert.NotContains(t, *rec.PasswordHash, "hunter2")

	ok, legacy := auth.NewPasswordHasher().Verify("hunter2", *rec.PasswordHash)
	assert.True(t, ok)
	assert.False(t, legacy)
}

func TestListOwnedNewestFirst(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()
	owner := strptr("alice@example.com")

	ts := int64(1_700_000_000_000)
	for _, code := range []string{"first1", "second", "third1"} {
		ts += 1000
		svc.nowFunc = timeAt(ts)
		_, err := svc.Create(ctx, owner, domain.CreateLinkInput{Code: code, URL: "https://example.com"})
		require.NoError(t, err)
	}

	links, err := svc.ListOwned(ctx, *owner)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "third1", links[0].Code)
	assert.Equal(t, "second", links[1].Code)
	assert.Equal(t, "first1", links[2].Code)
}

func TestListOwnedDropsDanglingEntries(t *testing.T) {
	svc, store, _ := newTestLinkService(t)
	ctx := context.Background()
	owner := strptr("alice@example.com")

	_, err := svc.Create(ctx, owner, domain.CreateLinkInput{Code: "keep01", URL: "https://example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, domain.CreateLinkInput{Code: "gone01", URL: "https://example.com"})
	require.NoError(t, err)

	// External deletion that bypassed the index.
	require.NoError(t, store.Delete(ctx, "gone01"))

	links, err := svc.ListOwned(ctx, *owner)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "keep01", links[0].Code)
}

func TestListOwnedExcludesForeignRecords(t *testing.T) {
	svc, store, index := newTestLinkService(t)
	ctx := context.Background()

	// An index entry pointing at a record now owned by someone else must be
	// skipped, not surfaced.
	other := "bob@example.com"
	require.NoError(t, store.Create(ctx, &domain.LinkRecord{Code: "stolen", URL: "https://example.com", OwnerID: &other}))
	require.NoError(t, index.Append(ctx, "alice@example.com", "stolen", 1))

	links, err := svc.ListOwned(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestListOwnedNeverLeaksPasswordHash(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()
	owner := strptr("alice@example.com")

	_, err := svc.Create(ctx, owner, domain.CreateLinkInput{
		Code: "secret1", URL: "https://example.com", Password: strptr("hunter2"),
	})
	require.NoError(t, err)

	links, err := svc.ListOwned(ctx, *owner)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.True(t, links[0].HasPassword)
}

func TestDeleteOwnership(t *testing.T) {
	svc, _, index := newTestLinkService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, strptr("alice@example.com"), domain.CreateLinkInput{Code: "mine01", URL: "https://example.com"})
	require.NoError(t, err)

	// Not the owner.
	err = svc.Delete(ctx, "bob@example.com", "mine01")
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	// Owner succeeds, and the index entry goes too.
	require.NoError(t, svc.Delete(ctx, "alice@example.com", "mine01"))
	entries, err := index.Entries(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteUnknownCodeIdempotent(t *testing.T) {
	svc, _, _ := newTestLinkService(t)
	ctx := context.Background()

	err := svc.Delete(ctx, "alice@example.com", "nosuch")
	assert.True(t, domain.IsNotFound(err))
	// Repeating changes nothing.
	err = svc.Delete(ctx, "alice@example.com", "nosuch")
	assert.True(t, domain.IsNotFound(err))
}

func TestStats(t *testing.T) {
	svc, store, _ := newTestLinkService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, domain.CreateLinkInput{Code: "aaa111", URL: "https://example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, nil, domain.CreateLinkInput{Code: "bbb222", URL: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, store.IncrementClicks(ctx, "aaa111"))
	require.NoError(t, store.IncrementClicks(ctx, "aaa111"))
	require.NoError(t, store.IncrementClicks(ctx, "bbb222"))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalLinks)
	assert.Equal(t, int64(3), stats.TotalClicks)
	assert.Equal(t, int64(2), stats.TodayLinks)
}

func int64ptr(v int64) *int64 { return &v }

func timeAt(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}
