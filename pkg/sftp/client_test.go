package sftp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wentf9/sftpcheck/internal/sshtest"
	"github.com/wentf9/sftpcheck/pkg/models"
	"github.com/wentf9/sftpcheck/pkg/ssh"
	cryptossh "golang.org/x/crypto/ssh"
)

func connect(t *testing.T, opts ...sshtest.Option) *ssh.Client {
	t.Helper()
	key := sshtest.GenerateRSAKey(t)
	signer, err := cryptossh.NewSignerFromKey(key)
	require.NoError(t, err)

	srv := sshtest.NewServer(t, append(opts, sshtest.WithAuthorizedKeys(signer.PublicKey()))...)
	c, err := ssh.NewConnector(ssh.Options{})
	require.NoError(t, err)

	ep := models.Endpoint{Alias: "sftp", Host: "127.0.0.1", Port: srv.Port(), Username: "tester"}
	client, err := c.Connect(context.Background(), ep, signer)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClient_ListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.txt", "c.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	client, err := NewClient(connect(t))
	require.NoError(t, err)
	defer client.Close()

	names, err := client.ListDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "archive", "b.csv", "c.log"}, names)

	again, err := client.ListDir(dir)
	require.NoError(t, err)
	assert.Equal(t, names, again)
}

func TestClient_ListDir_Missing(t *testing.T) {
	client, err := NewClient(connect(t))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ListDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewClient_SubsystemRejected(t *testing.T) {
	_, err := NewClient(connect(t, sshtest.WithoutSFTP()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create sftp subsystem")
}
