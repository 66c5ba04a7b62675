package models

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectedFileFromBytes_OpenIsRepeatable(t *testing.T) {
	f := NewSelectedFileFromBytes("cat.png", "image/png", []byte("meow"))

	assert.Equal(t, int64(4), f.Size)

	for i := 0; i < 2; i++ {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, "meow", string(b))
	}
}

func TestSelectedFile_OpenWithoutSource(t *testing.T) {
	f := &SelectedFile{Name: "empty"}
	rc, err := f.Open()
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Empty(t, b)
}

func TestUploadState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "ready", StateReadyToUpload.String())
	assert.Equal(t, "awaiting-credential", StateAwaitingCredential.String())
	assert.Equal(t, "unknown", UploadState(42).String())
}

func TestUploadState_InFlight(t *testing.T) {
	assert.True(t, StateAwaitingCredential.InFlight())
	assert.True(t, StateUploading.InFlight())
	assert.False(t, StateReadyToUpload.InFlight())
	assert.False(t, StateSucceeded.InFlight())
	assert.False(t, StateFailed.InFlight())
}
