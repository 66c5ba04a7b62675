// Package filex turns paths on disk into selected files and renders the
// metadata preview shown before an upload.
package filex

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

const sniffLen = 3072

func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// Select stats path and returns it as a SelectedFile. The MIME type is
// sniffed from the content; the extension is only consulted when sniffing
// yields nothing specific.
func Select(path string) (*models.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	mimeType, err := DetectMimeType(path)
	if err != nil {
		return nil, err
	}

	size := info.Size()
	open := func() (io.ReadCloser, error) { return openUnchanged(path, size) }
	return models.NewSelectedFile(filepath.Base(path), size, mimeType, open), nil
}

// openUnchanged opens path and fails with common.ErrFileChanged when its size
// no longer matches the size recorded at selection.
func openUnchanged(path string, size int64) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() != size {
		f.Close()
		return nil, fmt.Errorf("%w: %s was %d bytes, now %d", common.ErrFileChanged, path, size, info.Size())
	}
	return f, nil
}

func DetectMimeType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if n > 0 {
		mt := mimetype.Detect(head[:n])
		if !mt.Is("application/octet-stream") && !mt.Is("text/plain") {
			return baseType(mt.String()), nil
		}
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return baseType(byExt), nil
	}

	if n > 0 {
		return baseType(mimetype.Detect(head[:n]).String()), nil
	}
	return "application/octet-stream", nil
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(t string) string {
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		return mt
	}
	return t
}

// Preview reads the image header (png, jpeg, gif) for its dimensions. Other
// formats, or undecodable content, leave Width and Height at zero.
func Preview(f *models.SelectedFile) models.Preview {
	p := models.Preview{
		Name:      f.Name,
		MimeType:  f.MimeType,
		Size:      f.Size,
		HumanSize: humanize.IBytes(uint64(max(f.Size, 0))),
	}

	rc, err := f.Open()
	if err != nil {
		return p
	}
	defer rc.Close()

	head, _ := io.ReadAll(io.LimitReader(rc, 64<<10))
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(head)); err == nil {
		p.Width, p.Height = cfg.Width, cfg.Height
	}
	return p
}
