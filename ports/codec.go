package ports

import "github.com/remitwise/authgate/core"

// SessionCodec seals a session into an opaque encrypted string and reverses
// the operation. Unseal failures are indistinguishable from "no session":
// every failure mode maps to core.ErrInvalidSession.
type SessionCodec interface {
	Seal(session *core.Session) (string, error)
	Unseal(sealed string) (*core.Session, error)
}
