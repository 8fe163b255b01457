package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/wentf9/sftpcheck/pkg/checker"
	"github.com/wentf9/sftpcheck/pkg/models"
)

func noColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

var ep = models.Endpoint{
	Alias:    "partner",
	Host:     "sftp.example.com",
	Port:     2222,
	Username: "acme",
	ListDir:  "/outbound",
}

func TestPrinter_Attempt(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	NewPrinter(&buf).Attempt(ep)
	assert.Equal(t, "Connecting to partner (sftp.example.com:2222) as acme...\n", buf.String())
}

func TestPrinter_Result(t *testing.T) {
	noColor(t)

	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).Result(checker.Result{Endpoint: ep, Files: []string{"a.csv", "b c.txt"}})
		assert.Equal(t, "OK Files in '/outbound' on partner: [\"a.csv\", \"b c.txt\"]\n", buf.String())
	})

	t.Run("empty directory", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).Result(checker.Result{Endpoint: ep, Files: []string{}})
		assert.Equal(t, "OK Files in '/outbound' on partner: []\n", buf.String())
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		err := &checker.Error{Kind: checker.KindAuth, Op: "connect", Err: errors.New("unable to authenticate")}
		NewPrinter(&buf).Result(checker.Result{Endpoint: ep, Err: err})
		assert.Equal(t,
			"An error occurred while connecting to partner: [auth] connect: unable to authenticate\n",
			buf.String())
	})
}

func TestPrinter_Summary(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	NewPrinter(&buf).Summary([]checker.Result{
		{Endpoint: ep},
		{Endpoint: ep, Err: errors.New("boom")},
		{Endpoint: ep},
	})
	assert.Equal(t, "Checked 3 endpoint(s): 2 succeeded, 1 failed\n", buf.String())
}

func TestPrinter_ConfigMessages(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.ConfigError(errors.New("open c.json: no such file or directory"))
	p.NothingToDo()
	assert.Equal(t,
		"Error reading configuration file: open c.json: no such file or directory\n"+
			"No valid configurations found. Exiting.\n",
		buf.String())
}
