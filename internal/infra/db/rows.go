// Package db holds the row encoding shared by the SQL repositories.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

// Table is the analyses table name for every driver.
const Table = "cv_analyses"

// Row is one cv_analyses row with list columns kept as JSON text.
type Row struct {
	ID               string
	Text             string
	ATSScore         int
	Skills           string
	Strengths        string
	Gaps             string
	RecommendedRoles string
	SummaryRewrite   string
	DocumentKey      sql.NullString
	CreatedAt        time.Time
}

// FromRecord flattens a record for INSERT.
func FromRecord(rec *analysis.Record) (Row, error) {
	r := rec.Result
	row := Row{
		ID:             r.Identifier(),
		Text:           rec.Text,
		ATSScore:       r.Score(),
		SummaryRewrite: r.Summary(),
		DocumentKey:    sql.NullString{String: rec.DocumentKey, Valid: rec.DocumentKey != ""},
		CreatedAt:      time.Now().UTC(),
	}
	if row.ID == "" {
		return Row{}, fmt.Errorf("analysis record has no id")
	}
	if r.CreatedAt != nil {
		row.CreatedAt = r.CreatedAt.UTC()
	}
	var err error
	if row.Skills, err = encodeList(r.SkillList()); err != nil {
		return Row{}, err
	}
	if row.Strengths, err = encodeList(r.StrengthList()); err != nil {
		return Row{}, err
	}
	if row.Gaps, err = encodeList(r.GapList()); err != nil {
		return Row{}, err
	}
	if row.RecommendedRoles, err = encodeList(r.RoleList()); err != nil {
		return Row{}, err
	}
	return row, nil
}

// Result rebuilds the wire shape from a row.
func (row Row) Result() (*analysis.Result, error) {
	res := &analysis.Result{
		ID:             analysis.IDFrom(row.ID),
		CreatedAt:      analysis.NewTimestamp(row.CreatedAt),
		ATSScore:       analysis.Int(row.ATSScore),
		SummaryRewrite: analysis.String(row.SummaryRewrite),
	}
	var err error
	if res.Skills, err = decodeList("skills", row.Skills); err != nil {
		return nil, err
	}
	if res.Strengths, err = decodeList("strengths", row.Strengths); err != nil {
		return nil, err
	}
	if res.Gaps, err = decodeList("gaps", row.Gaps); err != nil {
		return nil, err
	}
	if res.RecommendedRoles, err = decodeList("recommended_roles", row.RecommendedRoles); err != nil {
		return nil, err
	}
	return res, nil
}

// Scan reads the columns in SelectColumns order.
func Scan(rows interface{ Scan(dest ...any) error }) (Row, error) {
	var row Row
	err := rows.Scan(&row.ID, &row.Text, &row.ATSScore, &row.Skills, &row.Strengths,
		&row.Gaps, &row.RecommendedRoles, &row.SummaryRewrite, &row.DocumentKey, &row.CreatedAt)
	return row, err
}

// SelectColumns matches the Scan order.
const SelectColumns = "id, text, ats_score, skills, strengths, gaps, recommended_roles, summary_rewrite, document_key, created_at"

func encodeList(items []string) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(column, raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("column %s: %w", column, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
