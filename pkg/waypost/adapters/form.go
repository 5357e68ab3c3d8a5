// Package adapters binds the discovery core to concrete HTTP frameworks.
// Each adapter implements waypost.Router for registration and waypost.Context
// for request handling.
package adapters

import (
	"io"
	"mime/multipart"

	"github.com/waypost/waypost/pkg/waypost"
)

// stdMultipartForm adapts mime/multipart.Form, the representation shared by
// every supported framework.
type stdMultipartForm struct {
	form *multipart.Form
}

func (f *stdMultipartForm) Value() map[string][]string {
	return f.form.Value
}

func (f *stdMultipartForm) File() map[string][]waypost.FileHeader {
	files := make(map[string][]waypost.FileHeader, len(f.form.File))
	for name, headers := range f.form.File {
		wrapped := make([]waypost.FileHeader, len(headers))
		for i, h := range headers {
			wrapped[i] = &stdFileHeader{header: h}
		}
		files[name] = wrapped
	}
	return files
}

type stdFileHeader struct {
	header *multipart.FileHeader
}

func (h *stdFileHeader) Filename() string { return h.header.Filename }
func (h *stdFileHeader) Size() int64      { return h.header.Size }

func (h *stdFileHeader) Open() (io.ReadCloser, error) {
	return h.header.Open()
}
