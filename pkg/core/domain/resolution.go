package domain

// Outcome is the terminal state of resolving a short code.
type Outcome string

const (
	OutcomeReserved         Outcome = "reserved"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeExpired          Outcome = "expired"
	OutcomeQuotaExceeded    Outcome = "quota_exceeded"
	OutcomePasswordRequired Outcome = "password_required"
	OutcomeAllow            Outcome = "allow"
	// OutcomeError means the store could not answer; the link may well
	// exist. Must never surface as not_found, which edges can cache.
	OutcomeError Outcome = "error"
)

// Resolution is the machine-checkable decision for one resolve attempt.
// URL is set only for OutcomeAllow; Reason carries the user-facing error
// for OutcomePasswordRequired after a failed submission.
type Resolution struct {
	Outcome Outcome
	URL     string
	Reason  string
}
