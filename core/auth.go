package core

import "time"

// NonceRecord is a single-use authentication challenge issued for an address.
// At most one record exists per address; a new request overwrites the old one.
type NonceRecord struct {
	Address   string    // Account address the nonce was issued for
	Nonce     string    // Hex-encoded random challenge (32 bytes of entropy)
	IssuedAt  time.Time // When the nonce was created
	ExpiresAt time.Time // When the nonce becomes unredeemable
}

// Expired reports whether the record is past its TTL at the given instant.
func (r NonceRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Session represents an authenticated wallet session. It is only ever
// constructed after a successful signature check against a live nonce.
type Session struct {
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its lifetime.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ServiceIdentity is the identity assigned to callers authenticating with
// the service bearer token rather than a wallet signature. The raw token is
// never used as an identity so it cannot be reflected back in responses.
const ServiceIdentity = "service"
