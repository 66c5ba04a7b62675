package issuer

import (
	"fmt"

	"github.com/dmitrijs2005/imgdrop/internal/common"
)

// IssuerError reports a failed credential request. Exactly one of Status or
// Err is set.
type IssuerError struct {
	// Status is the HTTP status of a non-2xx response.
	Status int
	// Message is the issuer-provided "error" text, or a synthesized one.
	Message string
	// Err is the transport failure, if the request never got a response.
	Err error
}

func (e *IssuerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential request failed: %v", e.Err)
	}
	return e.Message
}

func (e *IssuerError) Unwrap() []error {
	if e.Err != nil {
		return []error{common.ErrIssuerUnavailable, e.Err}
	}
	return []error{common.ErrIssuerStatus}
}
