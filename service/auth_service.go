package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/remitwise/authgate/core"
	"github.com/remitwise/authgate/ports"
)

// AuthService orchestrates the wallet-signature login flow: nonce issuance,
// challenge redemption, signature verification and session minting.
type AuthService struct {
	nonces   ports.NonceStore
	codec    ports.SessionCodec
	verifier ports.SignatureVerifier
	eventPub ports.EventPublisher
	log      zerolog.Logger

	nonceTTL   time.Duration
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	nonces ports.NonceStore,
	codec ports.SessionCodec,
	verifier ports.SignatureVerifier,
	eventPub ports.EventPublisher,
	log zerolog.Logger,
	nonceTTL, sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		nonces:     nonces,
		codec:      codec,
		verifier:   verifier,
		eventPub:   eventPub,
		log:        log,
		nonceTTL:   nonceTTL,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// IssueNonce generates a fresh challenge for an address and stores it,
// replacing any outstanding one. The nonce is 32 random bytes, hex encoded.
func (s *AuthService) IssueNonce(ctx context.Context, address string) (string, time.Time, error) {
	if !common.IsHexAddress(address) {
		return "", time.Time{}, core.ErrInvalidAddress
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(buf)

	expiresAt := time.Now().Add(s.nonceTTL)
	if err := s.nonces.Store(ctx, address, nonce, s.nonceTTL); err != nil {
		return "", time.Time{}, err
	}

	s.log.Debug().Str("address", address).Time("expires_at", expiresAt).Msg("nonce issued")
	return nonce, expiresAt, nil
}

// Login redeems the outstanding nonce for an address, checks that the
// submitted message matches it and that the signature verifies, then mints
// a sealed session. The nonce is consumed on the redeem whether or not the
// signature checks out, so a failed attempt cannot be retried with the same
// challenge.
func (s *AuthService) Login(ctx context.Context, address, message, signature string) (string, *core.Session, error) {
	if !common.IsHexAddress(address) {
		return "", nil, core.ErrInvalidAddress
	}

	nonce, ok := s.nonces.Redeem(ctx, address)
	if !ok {
		return "", nil, core.ErrInvalidNonce
	}
	if subtle.ConstantTimeCompare([]byte(message), []byte(nonce)) != 1 {
		return "", nil, core.ErrInvalidNonce
	}

	if !s.verifier.Verify(address, nonce, signature) {
		s.log.Debug().Str("address", address).Msg("signature verification failed")
		return "", nil, core.ErrInvalidSignature
	}

	now := time.Now()
	session := &core.Session{
		Address:   address,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	sealed, err := s.codec.Seal(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to seal session: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, address); err != nil {
			// The session is already minted; event delivery is best effort.
			s.log.Warn().Err(err).Str("address", address).Msg("failed to publish login event")
		}
	}

	s.log.Info().Str("address", address).Msg("wallet authenticated")
	return sealed, session, nil
}

// Logout is idempotent: it never fails regardless of whether the presented
// token unseals. A valid token additionally yields a logout event.
func (s *AuthService) Logout(ctx context.Context, sealed string) {
	if sealed == "" || s.eventPub == nil {
		return
	}

	session, err := s.codec.Unseal(sealed)
	if err != nil {
		return
	}

	if err := s.eventPub.PublishLogout(ctx, session.Address); err != nil {
		s.log.Warn().Err(err).Str("address", session.Address).Msg("failed to publish logout event")
	}
}

// SessionFromToken unseals a session cookie value. Every failure mode is
// core.ErrInvalidSession.
func (s *AuthService) SessionFromToken(sealed string) (*core.Session, error) {
	return s.codec.Unseal(sealed)
}
