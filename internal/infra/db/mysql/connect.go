package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  id                VARCHAR(36)  NOT NULL PRIMARY KEY,
  text              LONGTEXT     NOT NULL,
  ats_score         INT          NOT NULL,
  skills            TEXT         NOT NULL,
  strengths         TEXT         NOT NULL,
  gaps              TEXT         NOT NULL,
  recommended_roles TEXT         NOT NULL,
  summary_rewrite   TEXT         NOT NULL,
  document_key      VARCHAR(255) NULL,
  created_at        DATETIME(6)  NOT NULL,
  INDEX idx_cv_analyses_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
`
	_, err := db.ExecContext(ctx, q)
	return err
}
