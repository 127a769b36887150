package domain

// Account is a registered dashboard user, keyed by email.
type Account struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}
