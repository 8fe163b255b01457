package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentf9/sftpcheck/internal/sshtest"
	"golang.org/x/crypto/ssh"
)

func TestKeyAuth_Signer_UnencryptedRSA(t *testing.T) {
	key := sshtest.GenerateRSAKey(t)
	path := sshtest.WriteKey(t, key, "")

	signer, err := (&KeyAuth{Path: path}).Signer()
	require.NoError(t, err)
	assert.Equal(t, ssh.KeyAlgoRSA, signer.PublicKey().Type())
	assert.Equal(t, sshtest.PublicKey(t, key).Marshal(), signer.PublicKey().Marshal())
}

func TestKeyAuth_Signer_IgnoresPassphraseForUnencryptedKey(t *testing.T) {
	path := sshtest.WriteKey(t, sshtest.GenerateRSAKey(t), "")

	_, err := (&KeyAuth{Path: path, Passphrase: "unused"}).Signer()
	require.NoError(t, err)
}

func TestKeyAuth_Signer_EncryptedKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	path := sshtest.WriteKey(t, priv, "s3cret")

	t.Run("correct passphrase", func(t *testing.T) {
		signer, err := (&KeyAuth{Path: path, Passphrase: "s3cret"}).Signer()
		require.NoError(t, err)
		assert.Equal(t, ssh.KeyAlgoED25519, signer.PublicKey().Type())
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := (&KeyAuth{Path: path, Passphrase: "nope"}).Signer()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse private key")
	})

	t.Run("missing passphrase", func(t *testing.T) {
		_, err := (&KeyAuth{Path: path}).Signer()
		require.Error(t, err)
		var missing *ssh.PassphraseMissingError
		assert.ErrorAs(t, err, &missing)
		assert.Contains(t, err.Error(), "no passphrase was provided")
	})
}

func TestKeyAuth_Signer_Errors(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0o600))

	_, err := (&KeyAuth{Path: "/nokey"}).Signer()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = (&KeyAuth{Path: garbage}).Signer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse private key")
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home+"/.ssh/id_rsa", expandHomeDir("~/.ssh/id_rsa"))
	assert.Equal(t, "/etc/key", expandHomeDir("/etc/key"))
	assert.Equal(t, "", expandHomeDir(""))
}
