package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		plain string
	}{
		{name: "simple password", plain: "hunter2"},
		{name: "empty password", plain: ""},
		{name: "unicode and symbols", plain: `p@ss wörd "quoted" $1!`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encrypt(tt.plain, "my-passphrase")
			require.NoError(t, err)
			require.NotEmpty(t, enc)
			assert.NotContains(t, enc, tt.plain)

			dec, err := Decrypt(enc, "my-passphrase")
			require.NoError(t, err)
			assert.Equal(t, tt.plain, dec)
		})
	}
}

func TestEncryptIsSalted(t *testing.T) {
	a, err := Encrypt("secret", "pass")
	require.NoError(t, err)
	b, err := Encrypt("secret", "pass")
	require.NoError(t, err)

	// Fresh salt and nonce per call: identical inputs never produce
	// identical ciphertext.
	assert.NotEqual(t, a, b)
}

func TestDecryptErrors(t *testing.T) {
	enc, err := Encrypt("secret", "right")
	require.NoError(t, err)

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := Decrypt(enc, "wrong")
		require.Error(t, err)
	})

	t.Run("empty passphrase", func(t *testing.T) {
		_, err := Decrypt(enc, "")
		require.Error(t, err)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := Decrypt("%%%not-base64%%%", "right")
		require.Error(t, err)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, err := Decrypt("AAAA", "right")
		require.Error(t, err)
	})
}
