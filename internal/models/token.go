package models

import "time"

// Token is an opaque bearer credential bound 1:1 to a user. The key is
// 40 hex characters generated from a CSPRNG. A user has at most one
// active token; register/login reuse the existing row and logout
// deletes it. Token rows are never serialized to API clients directly;
// the JSON tags exist so the token cache can round-trip the row
// through Redis.
type Token struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:40;uniqueIndex;not null" json:"key"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
