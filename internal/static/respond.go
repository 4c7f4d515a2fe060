package static

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Error is an open failure carrying the HTTP status it maps to.
type Error struct {
	Status int
	Path   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var errNotRegular = errors.New("not a regular file")

// File is an open regular file ready to be written as a response.
type File struct {
	f           *os.File
	info        fs.FileInfo
	ContentType string
}

// Open opens path for serving. Failures are returned as *Error.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, openError(path, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, openError(path, errNotRegular)
	}

	return &File{
		f:           f,
		info:        info,
		ContentType: ContentType(path),
	}, nil
}

// ModTime returns the file's mtime.
func (f *File) ModTime() time.Time {
	return f.info.ModTime()
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.info.Size()
}

// Close releases the underlying file.
func (f *File) Close() error {
	return f.f.Close()
}

// ServeHTTP writes the file with Content-Type and Last-Modified set.
// Conditional and range requests are handled by http.ServeContent.
func (f *File) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Setting the type up front stops ServeContent from sniffing the body.
	w.Header().Set("Content-Type", f.ContentType)
	http.ServeContent(w, r, f.info.Name(), f.info.ModTime(), f.f)
}

// ContentType infers the MIME type from the extension of path.
func ContentType(path string) string {
	if ctype := mime.TypeByExtension(filepath.Ext(path)); ctype != "" {
		return ctype
	}
	return "application/octet-stream"
}

func openError(path string, err error) *Error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, errNotRegular):
		status = http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		status = http.StatusForbidden
	}
	return &Error{Status: status, Path: path, Err: err}
}
