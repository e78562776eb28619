package models

import "time"

// DataKey is a per-organization data encryption key as stored at rest.
// WrappedKey is the key material sealed under the root wrapping key; the
// raw key never leaves the kms service.
type DataKey struct {
	OrgID      string
	WrappedKey []byte
	CreatedAt  time.Time
}
