package models

// UploadState is the orchestrator's single live state.
type UploadState int

const (
	StateIdle UploadState = iota
	StateValidating
	StateReadyToUpload
	StateAwaitingCredential
	StateUploading
	StateSucceeded
	StateFailed
)

var stateNames = map[UploadState]string{
	StateIdle:               "idle",
	StateValidating:         "validating",
	StateReadyToUpload:      "ready",
	StateAwaitingCredential: "awaiting-credential",
	StateUploading:          "uploading",
	StateSucceeded:          "succeeded",
	StateFailed:             "failed",
}

func (s UploadState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// InFlight reports whether an attempt is between start and a terminal state.
func (s UploadState) InFlight() bool {
	return s == StateAwaitingCredential || s == StateUploading
}
