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

	"github.com/joho/godotenv"

	appresults "github.com/bonpiedlaroute/leaseboost/internal/application/results"
	apptracking "github.com/bonpiedlaroute/leaseboost/internal/application/tracking"
	appupload "github.com/bonpiedlaroute/leaseboost/internal/application/upload"
	"github.com/bonpiedlaroute/leaseboost/internal/config"
	"github.com/bonpiedlaroute/leaseboost/internal/domain/analysis"
	domtracking "github.com/bonpiedlaroute/leaseboost/internal/domain/tracking"
	"github.com/bonpiedlaroute/leaseboost/internal/infra/analytics"
	"github.com/bonpiedlaroute/leaseboost/internal/infra/analyzer"
	"github.com/bonpiedlaroute/leaseboost/internal/infra/httpserver"
	memsession "github.com/bonpiedlaroute/leaseboost/internal/infra/session/memory"
	mysqlsession "github.com/bonpiedlaroute/leaseboost/internal/infra/session/mysql"
	pgsession "github.com/bonpiedlaroute/leaseboost/internal/infra/session/postgres"
	"github.com/bonpiedlaroute/leaseboost/internal/middleware"
	"github.com/bonpiedlaroute/leaseboost/web"
)

func main() {
	// .env first, then config.yaml
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// session store
	sessions, db, err := openSessions(ctx, cfg)
	if err != nil {
		log.Fatalf("session store error: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	// analysis API client
	api := analyzer.New(cfg.AnalyzerBaseURL(), cfg.AnalyzerTimeout())
	log.Printf("analysis API: %s", cfg.AnalyzerBaseURL())

	// analytics sink: GA in production, local log otherwise
	var sink domtracking.Sink
	if cfg.IsLocal() || cfg.Analytics.MeasurementID == "" {
		log.Println("analytics disabled, events go to the local log")
		sink = analytics.DevSink{}
	} else {
		log.Println("analytics enabled")
		sink = analytics.NewGA(cfg.Analytics.MeasurementID, cfg.Analytics.APISecret)
	}
	tracker := apptracking.New(sink)

	// use-case services
	uploads := appupload.NewService(api, sessions, tracker)
	if d := cfg.StageDelay(); d > 0 {
		uploads.StageDelay = d
	}
	results := appresults.NewService(sessions, tracker)

	// templates
	render, err := httpserver.NewRenderer(web.FS)
	if err != nil {
		log.Fatalf("template error: %v", err)
	}

	// health checks
	checkers := map[string]middleware.HealthChecker{
		"analyzer": &middleware.AnalyzerHealthChecker{Probe: api.HealthCheck},
	}
	if db != nil {
		checkers["sessions"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	mux := httpserver.NewRouter(uploads, results, render, checkers, cfg.Metrics.APIKeys, cfg.Upload.GraceDelayMS)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // the analyze call may hold for up to 180s
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// openSessions builds the configured session store. The *sql.DB is non-nil
// only for the database-backed drivers, so main can close it and feed the
// health check.
func openSessions(ctx context.Context, cfg *config.Config) (analysis.SessionStore, *sql.DB, error) {
	switch cfg.Sessions.Driver {
	case "mysql":
		db, err := mysqlsession.Connect(ctx, cfg.Sessions.DSN)
		if err != nil {
			return nil, nil, err
		}
		return mysqlsession.NewStore(db, cfg.SessionTTL()), db, nil
	case "postgres":
		db, err := pgsession.Connect(ctx, cfg.Sessions.DSN)
		if err != nil {
			return nil, nil, err
		}
		return pgsession.NewStore(db, cfg.SessionTTL()), db, nil
	default:
		return memsession.New(cfg.SessionTTL()), nil, nil
	}
}
