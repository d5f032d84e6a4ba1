package intake

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// MediaType of an accepted document
type MediaType string

const (
	MediaTypePDF  MediaType = "application/pdf"
	MediaTypeText MediaType = "text/plain"
)

// DefaultMaxBytes is the upload limit advertised to users ("up to 10MB").
const DefaultMaxBytes int64 = 10 << 20

// SelectedFile is the user's chosen document. Contents are only read on demand.
type SelectedFile struct {
	Name      string
	Size      int64
	MediaType string // as declared, may carry parameters
	open      func() (io.ReadCloser, error)
}

// Read returns the raw bytes of the file.
func (f *SelectedFile) Read() ([]byte, error) {
	if f == nil || f.open == nil {
		return nil, fmt.Errorf("no file")
	}
	rc, err := f.open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// BaseMediaType strips parameters and lowercases the declared type.
func (f *SelectedFile) BaseMediaType() MediaType {
	if f == nil {
		return ""
	}
	mt, _, err := mime.ParseMediaType(f.MediaType)
	if err != nil {
		return MediaType(strings.ToLower(strings.TrimSpace(f.MediaType)))
	}
	return MediaType(mt)
}

// FromBytes wraps in-memory content as a SelectedFile.
func FromBytes(name, mediaType string, data []byte) *SelectedFile {
	return &SelectedFile{
		Name:      name,
		Size:      int64(len(data)),
		MediaType: mediaType,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// accepted extensions resolve without the host MIME database, which minimal images lack
var knownExtensions = map[string]string{
	".pdf": string(MediaTypePDF),
	".txt": string(MediaTypeText) + "; charset=utf-8",
}

// TypeByExtension returns the declared media type for a file extension, or "" when unknown.
func TypeByExtension(ext string) string {
	ext = strings.ToLower(ext)
	if t, ok := knownExtensions[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// FromPath describes a file on disk. The declared media type comes from the extension.
func FromPath(path string) (*SelectedFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &SelectedFile{
		Name:      filepath.Base(path),
		Size:      st.Size(),
		MediaType: TypeByExtension(filepath.Ext(path)),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
