package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
)

// UploadError reports a failed PUT. Status is set when the store answered
// with anything but 200; Err is set on transport failure.
type UploadError struct {
	Status int
	Body   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("upload failed: %d %s; body: %s", e.Status, http.StatusText(e.Status), e.Body)
	}
	return fmt.Sprintf("upload failed: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *UploadError) Unwrap() []error {
	if e.Err != nil {
		return []error{common.ErrNetwork, e.Err}
	}
	return []error{common.ErrUploadStatus}
}

const maxErrorBody = 4 << 10

type Uploader struct {
	client *http.Client
	logger logging.Logger
}

// NewUploader returns an Uploader. The HTTP client should carry no Timeout:
// a PUT runs until the transport or the caller's context ends it.
func NewUploader(client *http.Client, logger logging.Logger) *Uploader {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Uploader{client: client, logger: logger}
}

// Put sends the file bytes to cred.UploadURL in a single request. Only a 200
// response counts as success.
func (u *Uploader) Put(ctx context.Context, file *models.SelectedFile, cred models.UploadCredential, onProgress ProgressFunc) error {
	content, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer content.Close()

	exact := newExactReader(content, file.Size)
	body := newProgressReader(exact, file.Size, onProgress)
	defer body.stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, cred.UploadURL, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = file.Size
	if file.Size == 0 {
		req.Body = http.NoBody
	}
	req.Header.Set("Content-Type", file.MimeType)

	resp, err := u.client.Do(req)
	if exact.overrun() {
		if err == nil {
			resp.Body.Close()
		}
		u.logger.Warn(ctx, "file grew during upload", "file", file.Name, "size", file.Size)
		return &UploadError{Err: fmt.Errorf("%w: %s is larger than %d bytes", common.ErrFileChanged, file.Name, file.Size)}
	}
	if err != nil {
		return &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		u.logger.Warn(ctx, "object store rejected upload", "status", resp.StatusCode, "key", cred.ObjectKey)
		return &UploadError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	body.complete()
	return nil
}

// ObjectURL joins the store base (scheme, host and bucket path) with the
// object key. The result is where the object would be publicly readable if
// the bucket allowed it; nothing here checks that.
func ObjectURL(storeBase, key string) string {
	segments := strings.Split(strings.Trim(key, "/"), "/")
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.TrimRight(storeBase, "/") + "/" + strings.Join(escaped, "/")
}
