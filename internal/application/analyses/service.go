package analyses

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/cv-analyzer/internal/application"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ErrEmptyText is returned when the submitted CV text is blank.
var ErrEmptyText = errors.New("text is required")

// Service implements the analysis use-cases of the backend.
// Rewriter and Documents are optional.
type Service struct {
	Analyzer  analysis.Analyzer
	Rewriter  analysis.SummaryRewriter
	Repo      analysis.Repository
	Documents analysis.DocumentStore
	Clock     application.Clock
}

// AnalyzeAndStore runs the analysis, then persists it and archives the raw text in parallel.
func (s *Service) AnalyzeAndStore(ctx context.Context, text string) (*analysis.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	res, err := s.Analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if s.Rewriter != nil {
		summary := s.rewrite(ctx, text, res.SkillList(), firstRole(res))
		if summary != "" {
			res.SummaryRewrite = analysis.String(summary)
		}
	}

	now := s.now()
	id := uuid.New().String()
	res.ID = analysis.IDFrom(id)
	res.CreatedAt = analysis.NewTimestamp(now)

	rec := &analysis.Record{Result: *res, Text: text}
	if s.Documents != nil {
		rec.DocumentKey = DocumentKey(id, now.Year(), int(now.Month()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Repo.Save(gctx, rec); err != nil {
			return fmt.Errorf("save analysis: %w", err)
		}
		return nil
	})
	if s.Documents != nil {
		g.Go(func() error {
			url, err := s.Documents.Put(gctx, rec.DocumentKey, []byte(text), "text/plain; charset=utf-8")
			if err != nil {
				// the row is what matters; a missing archive is only logged
				log.Printf("archive failed id=%s key=%s err=%v", id, rec.DocumentKey, err)
				return nil
			}
			log.Printf("archived id=%s url=%s", id, url)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// RewriteSummary returns an improved profile summary for text.
func (s *Service) RewriteSummary(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	fallback, err := s.Analyzer.RewriteSummary(ctx, text)
	if err != nil {
		return "", fmt.Errorf("rewrite summary: %w", err)
	}
	if s.Rewriter == nil {
		return fallback, nil
	}
	res, err := s.Analyzer.Analyze(ctx, text)
	if err != nil {
		return fallback, nil
	}
	if out := s.rewrite(ctx, text, res.SkillList(), firstRole(res)); out != "" {
		return out, nil
	}
	return fallback, nil
}

// History returns the newest analyses first. limit is clamped to 1..MaxHistoryLimit.
func (s *Service) History(ctx context.Context, limit int) ([]*analysis.Result, error) {
	return s.Repo.Latest(ctx, ClampLimit(limit))
}

func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return min(limit, MaxHistoryLimit)
}

// DocumentKey is the archive object key: <yyyy>/<mm>/<id>.txt
func DocumentKey(id string, year, month int) string {
	return fmt.Sprintf("%04d/%02d/%s.txt", year, month, id)
}

// rewrite asks the LLM for a summary; any failure yields "" and is logged.
func (s *Service) rewrite(ctx context.Context, text string, skills []string, role string) string {
	out, err := s.Rewriter.RewriteSummary(ctx, text, skills, role)
	switch {
	case errors.Is(err, ai.ErrQuotaExceeded):
		log.Printf("summary rewrite skipped reason=quota err=%v", err)
		return ""
	case err != nil:
		log.Printf("summary rewrite failed, using heuristic summary err=%v", err)
		return ""
	}
	return out
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return application.SystemClock{}.Now()
	}
	return s.Clock.Now()
}

func firstRole(r *analysis.Result) string {
	if roles := r.RoleList(); len(roles) > 0 {
		return roles[0]
	}
	return ""
}
