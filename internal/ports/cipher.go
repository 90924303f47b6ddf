package ports

// CredentialCipher is the symmetric authenticated-encryption primitive used
// for integration credentials. Keys are generated per record and handled in
// their base64 encoding everywhere outside the cipher itself.
type CredentialCipher interface {
	// GenerateKey returns a fresh envelope key, base64 encoded.
	GenerateKey() (string, error)

	// Encrypt encrypts plaintext under the base64-encoded key.
	Encrypt(encodedKey, plaintext string) (string, error)

	// Decrypt reverses Encrypt. It fails on a wrong key or tampered input.
	Decrypt(encodedKey, ciphertext string) (string, error)
}
