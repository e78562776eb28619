package models

import "time"

// UserSecret is the persisted form of a secret record. Data holds the
// encrypted envelope; Type duplicates the envelope's discriminant tag as
// queryable metadata. OrgID is the encryption key scope and, together with
// UserID, the ownership scope. Both are immutable after creation.
type UserSecret struct {
	ID        string
	Name      string
	Type      string
	OrgID     string
	UserID    string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}
