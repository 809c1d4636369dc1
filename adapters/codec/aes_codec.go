package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/remitwise/authgate/core"
	"github.com/remitwise/authgate/ports"
)

// MinPasswordLength is the minimum length of the session password. A
// shorter password is a startup error, never a silent downgrade.
const MinPasswordLength = 32

// ErrWeakPassword is returned by NewAESCodec when the session password is
// shorter than MinPasswordLength.
var ErrWeakPassword = errors.New("session password must be at least 32 characters")

// AESCodec seals sessions with AES-256-GCM. The key is derived from the
// configured password with SHA-256; the sealed form is
// base64url(gcmNonce || ciphertext). GCM's auth tag makes the token
// tamper-evident: any bit flip fails the open and unseals as no session.
type AESCodec struct {
	aead cipher.AEAD
}

// NewAESCodec derives the sealing key from password and returns the codec.
func NewAESCodec(password string) (*AESCodec, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	key := sha256.Sum256([]byte(password))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESCodec{aead: aead}, nil
}

// Seal encrypts a session into an opaque cookie-safe string.
func (c *AESCodec) Seal(session *core.Session) (string, error) {
	plaintext, err := json.Marshal(session)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Unseal decrypts a sealed session. Malformed input, a failed integrity
// check and an expired session all return core.ErrInvalidSession: callers
// cannot distinguish why unsealing failed, only that there is no session.
func (c *AESCodec) Unseal(sealed string) (*core.Session, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < c.aead.NonceSize() {
		return nil, core.ErrInvalidSession
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, core.ErrInvalidSession
	}

	var session core.Session
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return nil, core.ErrInvalidSession
	}
	if session.Address == "" || session.Expired(time.Now()) {
		return nil, core.ErrInvalidSession
	}
	return &session, nil
}

var _ ports.SessionCodec = (*AESCodec)(nil)
