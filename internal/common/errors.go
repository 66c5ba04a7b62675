// Package common defines sentinel errors shared by the imgdrop client layers.
// Typed errors in the individual packages wrap these values, so callers should
// match them with errors.Is.
package common

import "errors"

var (
	// Validation errors.
	ErrNoFile             = errors.New("no file selected")
	ErrTooLarge           = errors.New("file is too large")
	ErrInvalidType        = errors.New("file is not an image")
	ErrUnsupportedSubtype = errors.New("unsupported image type")

	// Credential issuer errors.
	ErrIssuerStatus          = errors.New("issuer returned an error status")
	ErrIssuerUnavailable     = errors.New("issuer unavailable")
	ErrInvalidIssuerJSON     = errors.New("issuer returned invalid json")
	ErrInvalidIssuerResponse = errors.New("issuer response has no upload url and key")

	// Object store errors.
	ErrUploadStatus   = errors.New("object store rejected the upload")
	ErrNetwork        = errors.New("network error")
	ErrObjectNotFound = errors.New("object not found in store")
	ErrFileChanged    = errors.New("file changed since it was selected")

	// Orchestrator misuse.
	ErrNothingSelected  = errors.New("no validated file to upload")
	ErrUploadInProgress = errors.New("upload already in progress")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
)
