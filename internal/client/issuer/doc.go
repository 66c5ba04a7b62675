// Package issuer requests single-use upload credentials (a pre-signed PUT URL
// and the object key it writes to) from the remote issuing endpoint.
//
// The issuer's response format is not pinned down anywhere: deployments have
// returned {url,key}, {uploadUrl,key} and {presignedUrl,objectKey}. The client
// accepts all three, tried in that order (see shapes.go). Which one is
// authoritative is an open question for whoever owns the issuer API.
package issuer
