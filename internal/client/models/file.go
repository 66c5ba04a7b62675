// Package models defines the data types shared by the imgdrop client layers.
package models

import (
	"bytes"
	"io"
)

// SelectedFile is the user-chosen blob awaiting upload. It is replaced, never
// mutated, when the user picks another file.
type SelectedFile struct {
	Name     string
	Size     int64
	MimeType string

	open func() (io.ReadCloser, error)
}

// NewSelectedFile builds a SelectedFile whose content is produced by open.
// Each call to open must return a fresh reader positioned at the start.
func NewSelectedFile(name string, size int64, mimeType string, open func() (io.ReadCloser, error)) *SelectedFile {
	return &SelectedFile{Name: name, Size: size, MimeType: mimeType, open: open}
}

// NewSelectedFileFromBytes wraps an in-memory payload.
func NewSelectedFileFromBytes(name, mimeType string, data []byte) *SelectedFile {
	return NewSelectedFile(name, int64(len(data)), mimeType, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Open returns a reader over the file content.
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return f.open()
}

// Preview is what the presentation surface shows after a file passes
// validation.
type Preview struct {
	Name      string
	MimeType  string
	Size      int64
	HumanSize string
	Width     int
	Height    int
}
