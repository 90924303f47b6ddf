package encryption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc := NewService()

	key, err := svc.GenerateKey()
	require.NoError(t, err)

	for _, plaintext := range []string{"secret123", "", "päss wörd with unicode ✓", "{\"json\":true}"} {
		ciphertext, err := svc.Encrypt(key, plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := svc.Decrypt(key, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestDistinctKeysYieldDistinctCiphertexts(t *testing.T) {
	svc := NewService()

	key1, err := svc.GenerateKey()
	require.NoError(t, err)
	key2, err := svc.GenerateKey()
	require.NoError(t, err)
	require.NotEqual(t, key1, key2)

	ct1, err := svc.Encrypt(key1, "secret123")
	require.NoError(t, err)
	ct2, err := svc.Encrypt(key2, "secret123")
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct2)

	// Ciphertext under one key must not open under another.
	_, err = svc.Decrypt(key2, ct1)
	assert.Error(t, err)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	svc := NewService()

	key, err := svc.GenerateKey()
	require.NoError(t, err)
	ciphertext, err := svc.Encrypt(key, "secret123")
	require.NoError(t, err)

	tampered := "A" + ciphertext[1:]
	if tampered == ciphertext {
		tampered = "B" + ciphertext[1:]
	}
	_, err = svc.Decrypt(key, tampered)
	assert.Error(t, err)
}

func TestRejectsMalformedKeys(t *testing.T) {
	svc := NewService()

	_, err := svc.Encrypt("not-base64!!!", "v")
	assert.Error(t, err)

	// Valid base64 but wrong length.
	_, err = svc.Encrypt("c2hvcnQ=", "v")
	assert.Error(t, err)
}
