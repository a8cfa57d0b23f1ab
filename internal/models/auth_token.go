package models

import "time"

// AuthToken is an issued bearer credential. Only the SHA-256 digest of the
// token is persisted, the raw token is returned to the client once.
type AuthToken struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Digest    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// IsExpired reports whether the token is past its expiry at the reference time.
func (t *AuthToken) IsExpired(reference time.Time) bool {
	if t == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !t.ExpiresAt.After(reference)
}
