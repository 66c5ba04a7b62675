package netx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressLog struct {
	mu     sync.Mutex
	events []models.Progress
}

func (p *progressLog) observe(ev models.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *progressLog) percents() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Percent)
	}
	return out
}

func TestPut(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789"), 100*1024)
	file := models.NewSelectedFileFromBytes("big.png", "image/png", payload)
	cred := models.UploadCredential{ObjectKey: "uploads/big.png"}

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod string
		var gotLen int64

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotLen = r.ContentLength
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		var log progressLog
		cred := cred
		cred.UploadURL = ts.URL + "/bucket/uploads/big.png?X-Amz-Signature=abc"

		err := NewUploader(nil, nil).Put(context.Background(), file, cred, log.observe)
		require.NoError(t, err)

		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "image/png", gotCT)
		assert.Equal(t, int64(len(payload)), gotLen)
		assert.True(t, bytes.Equal(payload, gotBody), "body mismatch")

		pcts := log.percents()
		require.NotEmpty(t, pcts)
		for i := 1; i < len(pcts); i++ {
			assert.GreaterOrEqual(t, pcts[i], pcts[i-1], "progress went backwards: %v", pcts)
		}
		assert.Equal(t, 100, pcts[len(pcts)-1])
	})

	t.Run("non-200 is an upload error", func(t *testing.T) {
		for _, status := range []int{http.StatusCreated, http.StatusForbidden, http.StatusInternalServerError} {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(status)
				_, _ = w.Write([]byte("<Error><Code>AccessDenied</Code></Error>"))
			}))

			cred := cred
			cred.UploadURL = ts.URL
			err := NewUploader(nil, nil).Put(context.Background(), file, cred, nil)
			ts.Close()

			require.ErrorIs(t, err, common.ErrUploadStatus, "status %d", status)
			var ue *UploadError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, status, ue.Status)
			assert.Contains(t, err.Error(), "AccessDenied")
		}
	})

	t.Run("204 without body is an upload error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		cred := cred
		cred.UploadURL = ts.URL
		err := NewUploader(nil, nil).Put(context.Background(), file, cred, nil)

		require.ErrorIs(t, err, common.ErrUploadStatus)
		var ue *UploadError
		require.True(t, errors.As(err, &ue))
		assert.Equal(t, http.StatusNoContent, ue.Status)
		assert.Empty(t, ue.Body)
		assert.Equal(t, "upload failed: 204 No Content", err.Error())
	})

	t.Run("file grown since selection fails", func(t *testing.T) {
		var received int64
		var mu sync.Mutex
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n, _ := io.Copy(io.Discard, r.Body)
			mu.Lock()
			received = n
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		onDisk := bytes.Repeat([]byte("x"), 3000)
		grown := models.NewSelectedFile("grown.png", 1000, "image/png", func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(onDisk)), nil
		})

		cred := cred
		cred.UploadURL = ts.URL
		err := NewUploader(nil, nil).Put(context.Background(), grown, cred, nil)

		require.ErrorIs(t, err, common.ErrFileChanged)
		require.ErrorIs(t, err, common.ErrNetwork)
		var ue *UploadError
		require.True(t, errors.As(err, &ue))
		assert.Zero(t, ue.Status)

		mu.Lock()
		defer mu.Unlock()
		assert.LessOrEqual(t, received, int64(1000))
	})

	t.Run("empty file that gained content fails", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		grown := models.NewSelectedFile("empty.png", 0, "image/png", func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("late bytes")), nil
		})

		cred := cred
		cred.UploadURL = ts.URL
		err := NewUploader(nil, nil).Put(context.Background(), grown, cred, nil)
		require.ErrorIs(t, err, common.ErrFileChanged)
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		cred := cred
		cred.UploadURL = ts.URL
		err := NewUploader(nil, nil).Put(context.Background(), file, cred, nil)
		require.ErrorIs(t, err, common.ErrNetwork)
		assert.NotErrorIs(t, err, common.ErrUploadStatus)
		assert.True(t, strings.HasPrefix(err.Error(), "upload failed:"))
	})

	t.Run("empty file reports 100 on success", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		var log progressLog
		cred := cred
		cred.UploadURL = ts.URL
		empty := models.NewSelectedFileFromBytes("empty.gif", "image/gif", nil)
		require.NoError(t, NewUploader(nil, nil).Put(context.Background(), empty, cred, log.observe))
		assert.Equal(t, []int{100}, log.percents())
	})

	t.Run("open failure", func(t *testing.T) {
		broken := models.NewSelectedFile("gone.png", 10, "image/png", func() (io.ReadCloser, error) {
			return nil, errors.New("file vanished")
		})
		err := NewUploader(nil, nil).Put(context.Background(), broken, cred, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file vanished")
	})
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 100))
	assert.Equal(t, 1, Percent(1, 200))
	assert.Equal(t, 0, Percent(1, 201))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 100, Percent(3, 3))
	assert.Equal(t, 100, Percent(5, 3))
	assert.Equal(t, 0, Percent(5, 0))
}

func TestProgressReader_MonotonicAndStops(t *testing.T) {
	var log progressLog
	pr := newProgressReader(strings.NewReader(strings.Repeat("x", 1000)), 1000, log.observe)

	buf := make([]byte, 7)
	for {
		_, err := pr.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	pcts := log.percents()
	for i := 1; i < len(pcts); i++ {
		assert.Greater(t, pcts[i], pcts[i-1])
	}
	assert.Equal(t, 100, pcts[len(pcts)-1])

	pr.complete()
	assert.Equal(t, pcts, log.percents(), "complete must not repeat 100")
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://bucket.s3.amazonaws.com", "abc123", "https://bucket.s3.amazonaws.com/abc123"},
		{"https://bucket.s3.amazonaws.com/", "abc123", "https://bucket.s3.amazonaws.com/abc123"},
		{"http://127.0.0.1:9000/images", "uploads/1700000000-a1b2c3.png", "http://127.0.0.1:9000/images/uploads/1700000000-a1b2c3.png"},
		{"https://cdn.example", "/uploads//my cat.png", "https://cdn.example/uploads/my%20cat.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectURL(tt.base, tt.key))
	}
}

func TestExactReader(t *testing.T) {
	t.Run("exact size reaches EOF", func(t *testing.T) {
		r := newExactReader(strings.NewReader("abcd"), 4)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "abcd", string(got))
		assert.False(t, r.overrun())
	})

	t.Run("longer source fails after size bytes", func(t *testing.T) {
		r := newExactReader(strings.NewReader("abcdef"), 4)
		got, err := io.ReadAll(r)
		require.ErrorIs(t, err, common.ErrFileChanged)
		assert.Equal(t, "abcd", string(got))
		assert.True(t, r.overrun())
	})

	t.Run("overrun before everything was read", func(t *testing.T) {
		r := newExactReader(strings.NewReader("abcdef"), 4)
		assert.False(t, r.overrun())
	})
}
