// Package orchestrator drives one upload at a time through
// validate → request credential → PUT → report.
//
// The Orchestrator owns the single UploadState and the optional current
// SelectedFile. States move as follows:
//
//	Idle --Select--> Validating --ok--> ReadyToUpload
//	                 Validating --rejected--> Idle
//	ReadyToUpload --Start--> AwaitingCredential --> Uploading --> Succeeded
//	any in-flight state --error--> Failed --> ReadyToUpload
//
// Nothing is retried automatically; after a failure the caller may Start
// again. Selecting a new file at any time replaces the selection and the
// credential; an attempt already in flight finishes but no longer drives the
// state.
package orchestrator
