package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_ApplyDefaults(t *testing.T) {
	e := Endpoint{Host: "h", Port: 22, Username: "u", PrivateKeyPath: "/k"}
	e.ApplyDefaults()

	assert.Equal(t, DefaultAlias, e.Alias)
	assert.Equal(t, DefaultPassphraseEnv, e.PassphraseEnv)
	assert.Equal(t, DefaultListDir, e.ListDir)
}

func TestEndpoint_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	e := Endpoint{Alias: "prod", PassphraseEnv: "PROD_PASS", ListDir: "/upload"}
	e.ApplyDefaults()

	assert.Equal(t, "prod", e.Alias)
	assert.Equal(t, "PROD_PASS", e.PassphraseEnv)
	assert.Equal(t, "/upload", e.ListDir)
}

func TestEndpoint_Validate(t *testing.T) {
	valid := Endpoint{Host: "h", Port: 22, Username: "u", PrivateKeyPath: "/k"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Endpoint)
		wantMsg string
	}{
		{"missing host", func(e *Endpoint) { e.Host = "" }, "host is required"},
		{"missing port", func(e *Endpoint) { e.Port = 0 }, "port is required"},
		{"port out of range", func(e *Endpoint) { e.Port = 70000 }, "port 70000 out of range"},
		{"missing username", func(e *Endpoint) { e.Username = "" }, "username is required"},
		{"missing key", func(e *Endpoint) { e.PrivateKeyPath = "" }, "private_key_path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestEndpoint_Validate_ReportsEveryMissingField(t *testing.T) {
	err := Endpoint{}.Validate()
	require.Error(t, err)
	for _, msg := range []string{"host", "port", "username", "private_key_path"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestEndpoint_Addr(t *testing.T) {
	assert.Equal(t, "sftp.example.com:22", Endpoint{Host: "sftp.example.com", Port: 22}.Addr())
	assert.Equal(t, "[::1]:2222", Endpoint{Host: "::1", Port: 2222}.Addr())
}
