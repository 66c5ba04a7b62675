package models

// UploadCredential is a single-use write grant minted by the issuer. Its TTL
// is decided by the issuer and is not visible here.
type UploadCredential struct {
	UploadURL string
	ObjectKey string
}
