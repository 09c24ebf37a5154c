package domain

import "time"

// User is an account record. IDs are plain strings so the same shape
// works against both the document store and the local fallback; guest
// accounts get a generated UUID and no credentials.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"` // Unique among registered users
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`        // Never expose this via JSON
	Guest        bool      `bson:"guest" json:"guest"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsGuest() bool {
	return u.Guest
}
