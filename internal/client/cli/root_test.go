package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imgdrop/internal/buildinfo"
	"github.com/dmitrijs2005/imgdrop/internal/client/config"
	"github.com/dmitrijs2005/imgdrop/internal/common"
)

func execute(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Upload(t *testing.T) {
	b := newFakeBackend(t)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	dataDir := filepath.Join(t.TempDir(), "data")

	path := writePNG(t, t.TempDir(), "cat.png", 2, 2)
	out, err := execute(t, cfg, "",
		"upload", path,
		"--issuer", b.issuer.URL,
		"--store-base", "https://cdn.example/bucket",
		"--data-dir", dataDir,
		"--log-level", "error",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Upload complete!")
	assert.Contains(t, out, "https://cdn.example/bucket/uploads/cat.png")
	assert.Equal(t, b.issuer.URL, cfg.IssuerEndpoint)
	assert.FileExists(t, filepath.Join(dataDir, "history.db"))

	out, err = execute(t, cfg, "", "history", "-n", "1", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "cat.png")

	out, err = execute(t, cfg, "", "history", "no-such-attempt", "--data-dir", dataDir)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, out, "no upload attempt no-such-attempt")
}

func TestRootCommand_CheckRejectsLargeFile(t *testing.T) {
	b := newFakeBackend(t)
	cfg := testConfig(t, b)

	path := writeLarge(t, t.TempDir(), "huge.png", 6*1024*1024)
	_, err := execute(t, cfg, "", "check", path)
	require.ErrorIs(t, err, common.ErrTooLarge)

	issuerCalls, _ := b.counts()
	assert.Zero(t, issuerCalls)
}

func TestRootCommand_CheckAcceptsImage(t *testing.T) {
	b := newFakeBackend(t)
	cfg := testConfig(t, b)

	path := writePNG(t, t.TempDir(), "ok.png", 2, 2)
	out, err := execute(t, cfg, "", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok.png can be uploaded")
}

func TestRootCommand_ArgsValidation(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, err := execute(t, cfg, "", "upload")
	require.Error(t, err)

	_, err = execute(t, cfg, "", "nope")
	require.Error(t, err)
}

func TestRootCommand_Version(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	out, err := execute(t, cfg, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Build version: "+buildinfo.Version())
}

func TestRootCommand_Shell(t *testing.T) {
	b := newFakeBackend(t)
	cfg := testConfig(t, b)

	path := writePNG(t, t.TempDir(), "cat.png", 2, 2)
	out, err := execute(t, cfg, "select "+path+"\nupload\nexit\n", "shell")
	require.NoError(t, err)

	assert.Contains(t, out, "imgdrop shell")
	assert.Contains(t, out, "imgdrop (idle)> ")
	assert.Contains(t, out, "Bye!")
	assert.Contains(t, out, "Upload complete!")
	assert.Contains(t, out, "https://bucket.example/uploads/cat.png")
}
