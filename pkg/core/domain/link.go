package domain

// LinkRecord is the persisted entity behind one short code. Timestamps are
// epoch milliseconds; optional policy fields use pointers so "absent" and
// "zero" stay distinguishable in the stored JSON.
type LinkRecord struct {
	Code         string  `json:"code"`
	URL          string  `json:"url"`
	Clicks       int64   `json:"clicks"`
	CreatedAt    int64   `json:"createdAt"`
	ExpiresAt    *int64  `json:"expiresAt,omitempty"`
	MaxClicks    *int64  `json:"maxClicks,omitempty"`
	PasswordHash *string `json:"passwordHash,omitempty"`
	Note         *string `json:"note,omitempty"`
	OwnerID      *string `json:"ownerId,omitempty"`
}

// HasPassword reports whether resolution requires a password.
func (r *LinkRecord) HasPassword() bool {
	return r.PasswordHash != nil && *r.PasswordHash != ""
}

// UserIndexEntry is one element of a user's ownership index: the code plus
// its creation time, kept in insertion order.
type UserIndexEntry struct {
	Code      string `json:"code"`
	CreatedAt int64  `json:"createdAt"`
}

// LinkSummary is the owner-facing view of a link. The password hash is
// reduced to a boolean before it ever leaves the service layer.
type LinkSummary struct {
	Code        string `json:"code"`
	ShortURL    string `json:"shortUrl"`
	OriginalURL string `json:"originalUrl"`
	Clicks      int64  `json:"clicks"`
	CreatedAt   int64  `json:"createdAt"`
	ExpiresAt   *int64 `json:"expiresAt,omitempty"`
	MaxClicks   *int64 `json:"maxClicks,omitempty"`
	HasPassword bool   `json:"hasPassword"`
	Note        string `json:"note,omitempty"`
}

// CreateLinkInput is the input to link creation. Code is optional; when
// empty a random one is generated.
type CreateLinkInput struct {
	Code      string  `json:"code,omitempty"`
	URL       string  `json:"url"`
	ExpiresAt *int64  `json:"expiresAt,omitempty"`
	Password  *string `json:"password,omitempty"`
	MaxClicks *int64  `json:"maxClicks,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// Stats is the aggregate view over all stored links.
type Stats struct {
	TotalLinks  int64 `json:"totalLinks"`
	TotalClicks int64 `json:"totalClicks"`
	TodayLinks  int64 `json:"todayLinks"`
}
