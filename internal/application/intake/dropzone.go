package intake

import (
	"fmt"
	"sync"

	domain "github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
)

// allowed declared media types
var allowed = map[domain.MediaType]bool{
	domain.MediaTypePDF:  true,
	domain.MediaTypeText: true,
}

// Dropzone accepts a document by drop or by browse and reports the selection
// through a single callback: a file when selected, nil when cleared.
// It never reads file contents.
type Dropzone struct {
	mu       sync.Mutex
	onSelect func(*domain.SelectedFile)
	maxBytes int64
	dragging bool
	selected *domain.SelectedFile
}

type Option func(*Dropzone)

// WithMaxBytes sets the size limit. n <= 0 disables it.
func WithMaxBytes(n int64) Option {
	return func(d *Dropzone) { d.maxBytes = n }
}

func NewDropzone(onSelect func(*domain.SelectedFile), opts ...Option) *Dropzone {
	d := &Dropzone{onSelect: onSelect, maxBytes: domain.DefaultMaxBytes}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dropzone) DragOver() {
	d.mu.Lock()
	d.dragging = true
	d.mu.Unlock()
}

func (d *Dropzone) DragLeave() {
	d.mu.Lock()
	d.dragging = false
	d.mu.Unlock()
}

// Drop handles files released over the zone. Only the first file is considered.
func (d *Dropzone) Drop(files []*domain.SelectedFile) error {
	d.mu.Lock()
	d.dragging = false
	d.mu.Unlock()
	return d.accept(files)
}

// Browse handles files picked manually. Same validation as Drop.
func (d *Dropzone) Browse(files []*domain.SelectedFile) error {
	return d.accept(files)
}

// Clear releases the selected file and emits the cleared signal.
func (d *Dropzone) Clear() {
	d.mu.Lock()
	d.selected = nil
	d.mu.Unlock()
	d.emit(nil)
}

func (d *Dropzone) Dragging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dragging
}

func (d *Dropzone) Selected() *domain.SelectedFile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

func (d *Dropzone) accept(files []*domain.SelectedFile) error {
	if len(files) == 0 || files[0] == nil {
		return nil
	}
	f := files[0]
	if err := d.validate(f); err != nil {
		return err
	}
	d.mu.Lock()
	d.selected = f
	d.mu.Unlock()
	d.emit(f)
	return nil
}

func (d *Dropzone) validate(f *domain.SelectedFile) error {
	if mt := f.BaseMediaType(); !allowed[mt] {
		detail := string(mt)
		if detail == "" {
			detail = "unknown"
		}
		return &domain.RejectedError{Name: f.Name, Reason: domain.ReasonUnsupportedType, Detail: detail}
	}
	if d.maxBytes > 0 && f.Size > d.maxBytes {
		return &domain.RejectedError{
			Name:   f.Name,
			Reason: domain.ReasonTooLarge,
			Detail: fmt.Sprintf("%d bytes, limit %d", f.Size, d.maxBytes),
		}
	}
	return nil
}

func (d *Dropzone) emit(f *domain.SelectedFile) {
	if d.onSelect != nil {
		d.onSelect(f)
	}
}
