package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahjs01/kylo/pkg/secret"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encryptPassphrase = "s3cret"
	decryptPassphrase = "s3cret"
	defer func() {
		encryptPassphrase = ""
		decryptPassphrase = ""
	}()

	var out bytes.Buffer
	encryptCmd.SetOut(&out)
	defer encryptCmd.SetOut(nil)

	require.NoError(t, runEncrypt(encryptCmd, []string{"hunter2"}))
	encrypted := strings.TrimSpace(out.String())
	require.NotEmpty(t, encrypted)
	assert.NotContains(t, encrypted, "hunter2")

	var plainOut bytes.Buffer
	decryptCmd.SetOut(&plainOut)
	defer decryptCmd.SetOut(nil)

	require.NoError(t, runDecrypt(decryptCmd, []string{encrypted}))
	assert.Equal(t, "hunter2", strings.TrimSpace(plainOut.String()))
}

func TestEncryptReadsStdin(t *testing.T) {
	encryptPassphrase = "s3cret"
	defer func() { encryptPassphrase = "" }()

	var out bytes.Buffer
	encryptCmd.SetOut(&out)
	encryptCmd.SetIn(strings.NewReader("from-stdin\n"))
	defer func() {
		encryptCmd.SetOut(nil)
		encryptCmd.SetIn(nil)
	}()

	require.NoError(t, runEncrypt(encryptCmd, nil))

	plain, err := secret.Decrypt(strings.TrimSpace(out.String()), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", plain)
}

func TestEncryptRequiresPassphrase(t *testing.T) {
	encryptPassphrase = ""
	t.Setenv("KYLO_PASSPHRASE", "")

	err := runEncrypt(encryptCmd, []string{"hunter2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passphrase")
}

func TestEncryptPassphraseFromEnv(t *testing.T) {
	encryptPassphrase = ""
	t.Setenv("KYLO_PASSPHRASE", "env-pass")

	var out bytes.Buffer
	encryptCmd.SetOut(&out)
	defer encryptCmd.SetOut(nil)

	require.NoError(t, runEncrypt(encryptCmd, []string{"v"}))

	plain, err := secret.Decrypt(strings.TrimSpace(out.String()), "env-pass")
	require.NoError(t, err)
	assert.Equal(t, "v", plain)
}

func TestDecryptWrongPassphraseFails(t *testing.T) {
	encrypted, err := secret.Encrypt("v", "right")
	require.NoError(t, err)

	decryptPassphrase = "wrong"
	defer func() { decryptPassphrase = "" }()

	err = runDecrypt(decryptCmd, []string{encrypted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Decryption failed")
}

func TestResolveValueRejectsEmptyStdin(t *testing.T) {
	_, err := resolveValue(strings.NewReader(""), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing value")
}
