package ports

// SignatureVerifier checks that a base64 signature over a message was
// produced by the key behind the given address. The result is a strict
// boolean: parse failures, malformed addresses and bad signatures all
// verify false, nothing panics past the boundary.
type SignatureVerifier interface {
	Verify(address, message, signatureBase64 string) bool
}
