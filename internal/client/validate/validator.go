// Package validate holds the client-side checks a file must pass before an
// upload credential is requested.
package validate

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
)

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize int64 = 5 * 1024 * 1024

const imagePrefix = "image/"

// AllowedTypes is the accepted subset of image MIME types.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ValidationError carries the rejection reason (one of the common.Err*
// validation sentinels) together with user-facing detail.
type ValidationError struct {
	Reason error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Reason.Error()
	}
	return e.Reason.Error() + ": " + e.Detail
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Validate runs the checks in order and stops at the first failure:
// presence, size, image/ prefix, allow-list. It returns nil when the file
// may be uploaded.
func Validate(f *models.SelectedFile) error {
	if f == nil {
		return &ValidationError{Reason: common.ErrNoFile}
	}

	if f.Size > MaxFileSize {
		return &ValidationError{
			Reason: common.ErrTooLarge,
			Detail: fmt.Sprintf("%d bytes exceeds the %d byte limit", f.Size, MaxFileSize),
		}
	}

	if !strings.HasPrefix(f.MimeType, imagePrefix) {
		return &ValidationError{
			Reason: common.ErrInvalidType,
			Detail: fmt.Sprintf("got %q", f.MimeType),
		}
	}

	if !isAllowed(f.MimeType) {
		return &ValidationError{
			Reason: common.ErrUnsupportedSubtype,
			Detail: fmt.Sprintf("%s, allowed: %s", f.MimeType, strings.Join(AllowedTypes, ", ")),
		}
	}

	return nil
}

func isAllowed(mimeType string) bool {
	for _, t := range AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
