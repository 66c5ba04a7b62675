package models

import "time"

// Progress is one observation of an in-flight PUT.
type Progress struct {
	Sent    int64
	Total   int64
	Percent int
}

// UploadResult describes a finished attempt.
//
// Location is derived from the configured store base and the object key. It is
// a presentation convenience; only Verified says the store confirmed the object.
type UploadResult struct {
	AttemptID string
	ObjectKey string
	Location  string
	Verified  bool
}

// Upload statuses persisted in the history table.
const (
	UploadStatusSucceeded = "succeeded"
	UploadStatusFailed    = "failed"
)

// UploadRecord is a history row for one terminal upload attempt.
type UploadRecord struct {
	AttemptID string
	FileName  string
	Size      int64
	MimeType  string
	ObjectKey string
	Location  string
	Status    string
	Error     string
	CreatedAt time.Time
}
