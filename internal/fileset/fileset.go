// Package fileset provides the files a seller selected for a listing, with
// their name and declared content type.
package fileset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultExt = "jpg"

var ErrReleased = errors.New("file handle released")

// File is one selected file. Release drops the handle; Open fails afterwards.
type File interface {
	Name() string
	ContentType() string
	Open() (io.ReadCloser, error)
	Release() error
}

// Ext returns the lower-cased extension of name without the dot, or "jpg".
func Ext(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return DefaultExt
	}
	return strings.ToLower(base[i+1:])
}

// ReleaseAll releases every file and joins the errors.
func ReleaseAll(files []File) error {
	var errs []error
	for _, f := range files {
		if err := f.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", f.Name(), err))
		}
	}
	return errors.Join(errs...)
}

type handle struct {
	released atomic.Bool
}

func (h *handle) Release() error {
	h.released.Store(true)
	return nil
}

func (h *handle) check() error {
	if h.released.Load() {
		return ErrReleased
	}
	return nil
}

type diskFile struct {
	handle
	path        string
	contentType string
}

// FromPaths opens files on disk. The content type is sniffed from the file
// header.
func FromPaths(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}
		mt, err := mimetype.DetectFile(p)
		if err != nil {
			return nil, fmt.Errorf("detect %s: %w", p, err)
		}
		files = append(files, &diskFile{path: p, contentType: baseType(mt.String())})
	}
	return files, nil
}

func (f *diskFile) Name() string        { return filepath.Base(f.path) }
func (f *diskFile) ContentType() string { return f.contentType }

func (f *diskFile) Open() (io.ReadCloser, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return os.Open(f.path)
}

type multipartFile struct {
	handle
	hdr *multipart.FileHeader
}

// FromMultipart wraps files posted in a multipart form. The declared part
// content type is kept as is.
func FromMultipart(headers []*multipart.FileHeader) []File {
	files := make([]File, 0, len(headers))
	for _, h := range headers {
		files = append(files, &multipartFile{hdr: h})
	}
	return files
}

func (f *multipartFile) Name() string        { return f.hdr.Filename }
func (f *multipartFile) ContentType() string { return f.hdr.Header.Get("Content-Type") }

func (f *multipartFile) Open() (io.ReadCloser, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return f.hdr.Open()
}

type memFile struct {
	handle
	name        string
	contentType string
	data        []byte
}

// FromBytes returns an in-memory file.
func FromBytes(name, contentType string, data []byte) File {
	return &memFile{name: name, contentType: contentType, data: data}
}

func (f *memFile) Name() string        { return f.name }
func (f *memFile) ContentType() string { return f.contentType }

func (f *memFile) Open() (io.ReadCloser, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// ReadAll reads the full content of f.
func ReadAll(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func baseType(mt string) string {
	if i := strings.Index(mt, ";"); i >= 0 {
		return strings.TrimSpace(mt[:i])
	}
	return mt
}
