package services

import (
	"context"
	"time"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
	"github.com/shorterhq/shorter/pkg/validate"
)

// Resolver runs the redirect state machine. Checks are evaluated in a fixed
// order and the first one that holds is terminal:
//
//	reserved -> not-found -> expired -> quota -> password -> allow
//
// An allow schedules the click increment without blocking the caller.
type Resolver struct {
	store   ports.LinkStore
	hasher  ports.PasswordHasher
	grants  ports.AccessGrants
	log     logging.Logger
	nowFunc func() time.Time

	// onClick is invoked after the deferred click increment finishes.
	// Production wiring leaves it nil; tests use it to synchronize.
	onClick func(code string, err error)
}

func NewResolver(store ports.LinkStore, hasher ports.PasswordHasher, grants ports.AccessGrants, log logging.Logger) *Resolver {
	return &Resolver{
		store:   store,
		hasher:  hasher,
		grants:  grants,
		log:     log,
		nowFunc: time.Now,
	}
}

// Resolve decides the outcome for one GET of /{code}. grantToken is the
// value of the auth_<code> cookie, empty when absent.
func (r *Resolver) Resolve(ctx context.Context, code, grantToken string) domain.Resolution {
	if validate.ReservedCode(code) {
		return domain.Resolution{Outcome: domain.OutcomeReserved}
	}

	rec, err := r.store.Get(ctx, code)
	if domain.IsNotFound(err) {
		return domain.Resolution{Outcome: domain.OutcomeNotFound}
	}
	if err != nil {
		r.log.Error(ctx, "link lookup failed", "code", code, "err", err)
		return domain.Resolution{Outcome: domain.OutcomeError}
	}

	now := r.nowFunc().UnixMilli()
	if rec.ExpiresAt != nil && now > *rec.ExpiresAt {
		return domain.Resolution{Outcome: domain.OutcomeExpired}
	}
	if rec.MaxClicks != nil && rec.Clicks >= *rec.MaxClicks {
		return domain.Resolution{Outcome: domain.OutcomeQuotaExceeded}
	}
	if rec.HasPassword() && !r.grants.Verify(code, *rec.PasswordHash, grantToken) {
		return domain.Resolution{Outcome: domain.OutcomePasswordRequired}
	}

	r.scheduleClick(code)
	return domain.Resolution{Outcome: domain.OutcomeAllow, URL: rec.URL}
}

// SubmitPassword handles a POSTed password for a protected code. On success
// (or when the link has no password to begin with, or no record exists) it
// redirects the caller back to the resolution path, which re-runs the state
// machine; the returned grant, when non-empty, is set as the one-hour
// auth_<code> cookie. A wrong password yields password-required with a
// reason and never discloses whether a password is set.
func (r *Resolver) SubmitPassword(ctx context.Context, code, plaintext string) (string, domain.Resolution) {
	back := domain.Resolution{Outcome: domain.OutcomeAllow, URL: "/" + code}

	rec, err := r.store.Get(ctx, code)
	if domain.IsNotFound(err) {
		// Nothing to unlock; the follow-up GET reports not_found.
		return "", back
	}
	if err != nil {
		r.log.Error(ctx, "link lookup failed", "code", code, "err", err)
		return "", domain.Resolution{Outcome: domain.OutcomeError}
	}

	if !rec.HasPassword() {
		return "", back
	}

	ok, legacy := r.hasher.Verify(plaintext, *rec.PasswordHash)
	if legacy {
		r.log.Warn(ctx, "legacy plaintext password record", "code", code)
	}
	if !ok {
		return "", domain.Resolution{
			Outcome: domain.OutcomePasswordRequired,
			Reason:  "incorrect password",
		}
	}

	return r.grants.Issue(code, *rec.PasswordHash), back
}

// OnClick registers a callback invoked after each deferred click update
// with the result of the increment. Wire-up for tests and metrics; not
// called on the request path.
func (r *Resolver) OnClick(fn func(code string, err error)) {
	r.onClick = fn
}

// scheduleClick runs the counter update in the background. The redirect
// must not wait for it, and a caller disconnect must not cancel it, so the
// goroutine gets a detached context. Failures are logged and never retried.
func (r *Resolver) scheduleClick(code string) {
	go func() {
		err := r.store.IncrementClicks(context.Background(), code)
		if err != nil {
			r.log.Error(context.Background(), "click update failed", "code", code, "err", err)
		}
		if r.onClick != nil {
			r.onClick(code, err)
		}
	}()
}
