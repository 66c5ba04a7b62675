package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
)

const maxResponseBytes = 1 << 20

type credentialRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Client struct {
	endpoint string
	http     *http.Client
	logger   logging.Logger
}

// NewClient returns a Client posting to endpoint. A nil httpClient means a
// default client without a timeout; a nil logger discards output.
func NewClient(endpoint string, httpClient *http.Client, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{endpoint: endpoint, http: httpClient, logger: logger}
}

// RequestCredential asks the issuer for a pre-signed PUT URL for one file.
func (c *Client) RequestCredential(ctx context.Context, fileName, contentType string) (models.UploadCredential, error) {
	var zero models.UploadCredential

	payload, err := json.Marshal(credentialRequest{FileName: fileName, ContentType: contentType})
	if err != nil {
		return zero, fmt.Errorf("encode credential request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("build credential request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &IssuerError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, &IssuerError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn(ctx, "issuer rejected credential request", "status", resp.StatusCode)
		return zero, &IssuerError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrInvalidIssuerJSON, err)
	}

	// Arrays, strings, numbers and null carry no fields and fall through
	// as an unrecognised shape.
	fields, _ := decoded.(map[string]any)
	cred, ok := resolveCredential(fields)
	if !ok {
		c.logger.Warn(ctx, "issuer response has no recognised url/key pair", "fields", fieldNames(fields))
		return zero, common.ErrInvalidIssuerResponse
	}

	c.logger.Debug(ctx, "credential issued", "key", cred.ObjectKey)
	return cred, nil
}

func errorMessage(status int, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && strings.TrimSpace(e.Error) != "" {
		return e.Error
	}
	return fmt.Sprintf("issuer responded with status %d", status)
}

func fieldNames(m map[string]any) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return names
}
