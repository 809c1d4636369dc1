package verifier

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/remitwise/authgate/ports"
)

// EthVerifier verifies wallet signatures by recovering the signing key from
// a 65-byte recoverable signature and comparing the derived address.
//
// Canonical message format: the message is the issued hex nonce, and the
// signed bytes are its raw hex-decoded form wrapped in the standard
// personal-message prefix. Sign and verify paths must agree bit-for-bit;
// any other encoding fails verification even for a legitimately signed
// message.
type EthVerifier struct{}

// NewEthVerifier returns a stateless signature verifier.
func NewEthVerifier() *EthVerifier {
	return &EthVerifier{}
}

// Verify reports whether signatureBase64 is a valid signature over message
// by the key behind address. All failure modes return false; nothing panics.
func (v *EthVerifier) Verify(address, message, signatureBase64 string) bool {
	if !common.IsHexAddress(address) {
		return false
	}

	messageBytes, err := hex.DecodeString(message)
	if err != nil {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(signatureBase64)
	if err != nil || len(sig) != crypto.SignatureLength {
		return false
	}

	// Wallets emit V as 27/28; crypto.SigToPub expects 0/1.
	if sig[crypto.SignatureLength-1] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.SignatureLength-1] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(messageBytes), sig)
	if err != nil {
		return false
	}

	return crypto.PubkeyToAddress(*pub) == common.HexToAddress(address)
}

var _ ports.SignatureVerifier = (*EthVerifier)(nil)
