package analysis

import "context"

// ResultStore is the single-slot cache of the most recent Result.
// Load never fails outward: unreadable entries are dropped and reported as absent.
type ResultStore interface {
	Save(ctx context.Context, r *Result) error
	Load(ctx context.Context) (*Result, bool)
	Clear(ctx context.Context) error
}

// Analyzer turns CV text into a Result (service side).
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
	RewriteSummary(ctx context.Context, text string) (string, error)
}

// SummaryRewriter produces a better summary for the given CV text.
type SummaryRewriter interface {
	RewriteSummary(ctx context.Context, text string, skills []string, role string) (string, error)
}

// Repository port for persisting and querying analyses.
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Latest(ctx context.Context, limit int) ([]*Result, error)
}

// DocumentStore archives the submitted raw text.
type DocumentStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) (string, error)
}
