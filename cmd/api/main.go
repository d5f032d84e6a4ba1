package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/cv-analyzer/internal/application"
	appanalyses "github.com/bryanwahyu/cv-analyzer/internal/application/analyses"
	"github.com/bryanwahyu/cv-analyzer/internal/config"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/ai/heuristic"
	aiopenai "github.com/bryanwahyu/cv-analyzer/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/cv-analyzer/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/cv-analyzer/internal/infra/db/postgres"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/cv-analyzer/internal/infra/storage"
	"github.com/bryanwahyu/cv-analyzer/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	db, repo, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
	}
	defer db.Close()

	svc := &appanalyses.Service{
		Analyzer: heuristic.Analyzer{},
		Repo:     repo,
		Clock:    application.SystemClock{},
	}

	// archive is optional
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Documents = store
	} else {
		log.Printf("minio endpoint not set, raw text archive disabled")
	}

	if cfg.OpenAI.APIKey != "" {
		oc := goopenai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			oc.BaseURL = cfg.OpenAI.BaseURL
		}
		svc.Rewriter = aiopenai.NewClientWithConfig(oc, cfg.OpenAI.Model)
		log.Printf("summary rewrite via openai model=%s", orDefault(cfg.OpenAI.Model, "default"))
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	go limiter.Run(ctx, 5*time.Minute, 10*time.Minute)

	handler := httpserver.NewRouter(svc, httpserver.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Limiter:        limiter,
		Metrics:        middleware.NewMetrics(),
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openRepository(ctx context.Context, cfg *config.Config) (*sql.DB, analysis.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := pgp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return db, pgp.NewAnalysisRepository(db), nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return db, mysqlp.NewAnalysisRepository(db), nil
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
