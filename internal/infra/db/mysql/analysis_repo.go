package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/db"
)

type AnalysisRepository struct {
	db *sql.DB
}

var _ analysis.Repository = (*AnalysisRepository)(nil)

func NewAnalysisRepository(conn *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: conn}
}

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *analysis.Record) error {
	const q = `
INSERT INTO cv_analyses
  (id, text, ats_score, skills, strengths, gaps, recommended_roles, summary_rewrite, document_key, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  ats_score=VALUES(ats_score), skills=VALUES(skills), strengths=VALUES(strengths), gaps=VALUES(gaps),
  recommended_roles=VALUES(recommended_roles), summary_rewrite=VALUES(summary_rewrite), document_key=VALUES(document_key);
`
	row, err := db.FromRecord(rec)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, row.ID, row.Text, row.ATSScore, row.Skills, row.Strengths,
		row.Gaps, row.RecommendedRoles, row.SummaryRewrite, row.DocumentKey, row.CreatedAt)
	return err
}

// Latest returns the newest analyses first
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*analysis.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	q := fmt.Sprintf(`SELECT %s FROM cv_analyses ORDER BY created_at DESC, id DESC LIMIT ?`, db.SelectColumns)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*analysis.Result{}
	for rows.Next() {
		row, err := db.Scan(rows)
		if err != nil {
			return nil, err
		}
		res, err := row.Result()
		if err != nil {
			return nil, fmt.Errorf("analysis %s: %w", row.ID, err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
