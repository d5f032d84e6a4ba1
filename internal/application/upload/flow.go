package upload

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
)

var (
	ErrNoFileSelected     = errors.New("no file selected")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
)

// SourceUpload marks a Navigation produced by a fresh upload.
const SourceUpload = "upload"

// Client sends a selected file for analysis.
type Client interface {
	Analyze(ctx context.Context, f *intake.SelectedFile) (*analysis.Result, error)
}

// Variant of a notification, mirrors the dashboard tones
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a transient message for the user (a toast).
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier shows notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Navigation carries a fresh result to the dashboard.
type Navigation struct {
	Analysis *analysis.Result
	Source   string
}

// Flow is the upload screen: one selected file, one analysis at a time.
type Flow struct {
	Client   Client
	Store    analysis.ResultStore
	Notifier Notifier

	mu        sync.Mutex
	selected  *intake.SelectedFile
	analyzing bool
	inlineErr string
}

func NewFlow(client Client, store analysis.ResultStore, notifier Notifier) *Flow {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Flow{Client: client, Store: store, Notifier: notifier}
}

// SelectFile is the Dropzone callback. nil clears the selection.
func (f *Flow) SelectFile(file *intake.SelectedFile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = file
	if file == nil {
		f.inlineErr = ""
	}
}

func (f *Flow) Selected() *intake.SelectedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

// CanAnalyze is false while nothing is selected or a request is running.
func (f *Flow) CanAnalyze() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected != nil && !f.analyzing
}

func (f *Flow) Analyzing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analyzing
}

// InlineError is the message of the last failed attempt, empty otherwise.
func (f *Flow) InlineError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inlineErr
}

// Analyze runs the selected file through the client and caches the result.
// A cancelled ctx is an abort: the returned error wraps context.Canceled and nothing is surfaced.
func (f *Flow) Analyze(ctx context.Context) (*Navigation, error) {
	file, err := f.begin()
	if err != nil {
		return nil, err
	}
	defer f.finish()

	res, err := f.Client.Analyze(ctx, file)
	if err != nil {
		if analysis.IsAborted(err) {
			log.Printf("upload aborted file=%s", file.Name)
			return nil, err
		}
		msg := analysis.Message(err)
		f.setInlineError(msg)
		f.Notifier.Notify(Notification{Title: "Analysis failed", Description: msg, Variant: VariantDestructive})
		return nil, err
	}

	// cache failures never block navigation
	if err := f.Store.Save(ctx, res); err != nil {
		log.Printf("cache write failed file=%s err=%v", file.Name, err)
	}

	f.mu.Lock()
	if f.selected == file {
		f.selected = nil
	}
	f.mu.Unlock()

	return &Navigation{Analysis: res, Source: SourceUpload}, nil
}

func (f *Flow) begin() (*intake.SelectedFile, error) {
	f.mu.Lock()
	if f.analyzing {
		f.mu.Unlock()
		return nil, ErrAnalysisInProgress
	}
	file := f.selected
	if file != nil {
		f.inlineErr = ""
		f.analyzing = true
	}
	f.mu.Unlock()

	// notifiers may read Flow state, so they run without the lock held
	if file == nil {
		f.Notifier.Notify(Notification{
			Title:       "No file selected",
			Description: "Please upload a CV before analyzing.",
			Variant:     VariantDestructive,
		})
		return nil, ErrNoFileSelected
	}
	return file, nil
}

func (f *Flow) finish() {
	f.mu.Lock()
	f.analyzing = false
	f.mu.Unlock()
}

func (f *Flow) setInlineError(msg string) {
	f.mu.Lock()
	f.inlineErr = msg
	f.mu.Unlock()
}
