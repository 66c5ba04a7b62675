// Package netx moves file bytes to object storage through a pre-signed PUT
// URL and derives the presentation link for the stored object.
package netx
