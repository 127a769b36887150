package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
	"github.com/shorterhq/shorter/pkg/shortid"
	"github.com/shorterhq/shorter/pkg/validate"
)

const generateRetries = 10

// LinkService implements link management: creation, owner-scoped listing
// and deletion, and the aggregate stats scan.
type LinkService struct {
	store   ports.LinkStore
	index   ports.UserIndex
	hasher  ports.PasswordHasher
	log     logging.Logger
	baseURL string
	nowFunc func() time.Time
}

func NewLinkService(store ports.LinkStore, index ports.UserIndex, hasher ports.PasswordHasher, log logging.Logger, baseURL string) *LinkService {
	return &LinkService{
		store:   store,
		index:   index,
		hasher:  hasher,
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		nowFunc: time.Now,
	}
}

// Create validates input, fills in a generated code when none was given,
// hashes any link password, writes the record, and appends to the owner's
// index. A store failure between record write and index append is not
// rolled back; listing tolerates the resulting inconsistency.
func (s *LinkService) Create(ctx context.Context, owner *string, in domain.CreateLinkInput) (*domain.LinkSummary, error) {
	targetURL := validate.FormatURL(in.URL)
	if !validate.ValidURL(targetURL) {
		return nil, domain.ErrInvalidURL
	}

	now := s.nowFunc().UnixMilli()
	if in.ExpiresAt != nil && *in.ExpiresAt <= now {
		return nil, fmt.Errorf("%w: expiry in the past", domain.ErrInvalidInput)
	}
	if in.MaxClicks != nil && *in.MaxClicks <= 0 {
		return nil, fmt.Errorf("%w: maxClicks must be positive", domain.ErrInvalidInput)
	}

	code := strings.TrimSpace(in.Code)
	if code != "" {
		if !validate.ValidCode(code) {
			return nil, domain.ErrInvalidCode
		}
		if validate.ReservedCode(code) {
			return nil, domain.ErrReservedCode
		}
	} else {
		var err error
		code, err = s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
	}

	rec := &domain.LinkRecord{
		Code:      code,
		URL:       targetURL,
		CreatedAt: now,
		ExpiresAt: in.ExpiresAt,
		MaxClicks: in.MaxClicks,
		Note:      in.Note,
		OwnerID:   owner,
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing link password: %w", err)
		}
		rec.PasswordHash = &hash
	}

	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	if owner != nil {
		if err := s.index.Append(ctx, *owner, code, now); err != nil {
			// The record exists either way; the index is a cache.
			s.log.Error(ctx, "index append failed", "code", code, "owner", *owner, "err", err)
		}
	}

	summary := s.summarize(rec)
	return &summary, nil
}

// ListOwned resolves the owner's index entries in parallel, drops entries
// whose record is missing or no longer owned by this user, and returns the
// survivors newest first.
func (s *LinkService) ListOwned(ctx context.Context, owner string) ([]domain.LinkSummary, error) {
	entries, err := s.index.Entries(ctx, owner)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	summaries := make([]domain.LinkSummary, 0, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		g.Go(func() error {
			rec, err := s.store.Get(gctx, e.Code)
			if domain.IsNotFound(err) {
				return nil // dangling entry, skip silently
			}
			if err != nil {
				return err
			}
			if rec.OwnerID == nil || *rec.OwnerID != owner {
				return nil
			}
			mu.Lock()
			summaries = append(summaries, s.summarize(rec))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	return summaries, nil
}

// Delete removes an owned link and its index entry. ErrNotFound for unknown
// codes (idempotently), ErrForbidden when the caller isn't the owner.
func (s *LinkService) Delete(ctx context.Context, owner, code string) error {
	rec, err := s.store.Get(ctx, code)
	if err != nil {
		return err
	}
	if rec.OwnerID == nil || *rec.OwnerID != owner {
		return domain.ErrForbidden
	}
	if err := s.store.Delete(ctx, code); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, owner, code); err != nil {
		s.log.Error(ctx, "index remove failed", "code", code, "owner", owner, "err", err)
	}
	return nil
}

// Stats scans the links namespace and aggregates totals. Today starts at
// local midnight.
func (s *LinkService) Stats(ctx context.Context) (*domain.Stats, error) {
	codes, err := s.store.Codes(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()

	stats := &domain.Stats{}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, code := range codes {
		g.Go(func() error {
			rec, err := s.store.Get(gctx, code)
			if domain.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			stats.TotalLinks++
			stats.TotalClicks += rec.Clicks
			if rec.CreatedAt >= midnight {
				stats.TodayLinks++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *LinkService) generateCode(ctx context.Context) (string, error) {
	for range generateRetries {
		code, err := shortid.New(shortid.DefaultLength)
		if err != nil {
			return "", err
		}
		if _, err := s.store.Get(ctx, code); domain.IsNotFound(err) {
			return code, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: could not find a free code", domain.ErrStoreUnavailable)
}

func (s *LinkService) summarize(rec *domain.LinkRecord) domain.LinkSummary {
	sum := domain.LinkSummary{
		Code:        rec.Code,
		ShortURL:    s.baseURL + "/" + rec.Code,
		OriginalURL: rec.URL,
		Clicks:      rec.Clicks,
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
		MaxClicks:   rec.MaxClicks,
		HasPassword: rec.HasPassword(),
	}
	if rec.Note != nil {
		sum.Note = *rec.Note
	}
	return sum
}
