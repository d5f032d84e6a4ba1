package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the analyses table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS cv_analyses (
  id                VARCHAR(36)  PRIMARY KEY,
  text              TEXT         NOT NULL,
  ats_score         INTEGER      NOT NULL,
  skills            TEXT         NOT NULL,
  strengths         TEXT         NOT NULL,
  gaps              TEXT         NOT NULL,
  recommended_roles TEXT         NOT NULL,
  summary_rewrite   TEXT         NOT NULL,
  document_key      VARCHAR(255),
  created_at        TIMESTAMPTZ  NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cv_analyses_created ON cv_analyses (created_at);
`
	_, err := db.ExecContext(ctx, q)
	return err
}
