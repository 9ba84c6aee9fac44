package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"webgwas/adapters/cohortstore"
	"webgwas/adapters/objectstore"
	"webgwas/app"
	"webgwas/internal/config"
	"webgwas/internal/executor"
	"webgwas/internal/logging"
	"webgwas/internal/packager"
	"webgwas/ports"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := logging.Default()

	registry, err := cohortstore.MountAll(context.Background(), cohortstore.New(cfg.Paths.RootDirectory))
	if err != nil {
		log.Fatalf("cohort mount error: %v", err)
	}
	if cohorts, err := registry.ListCohorts(context.Background()); err == nil {
		logger.Info("mounted %d cohorts from %s", len(cohorts), cfg.Paths.RootDirectory)
	}

	store, err := buildObjectStore(cfg)
	if err != nil {
		log.Fatalf("object store error: %v", err)
	}

	pkg := packager.New(store, cfg.Paths.RootDirectory+"/results", cfg.S3.ResultPath, cfg.S3.DryRun)

	queue := executor.NewQueue()
	results := executor.NewResultStore()

	pollInterval, err := time.ParseDuration(cfg.Queue.PollInterval)
	if err != nil {
		pollInterval = 10 * time.Millisecond
	}

	svc := app.NewService(registry, queue, results, pkg, cfg.Queue.WorkerTileCount, logger)
	exec := executor.New(queue, results, svc, pollInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go exec.Run(ctx)

	router := app.NewRouter(svc)
	server := &http.Server{Addr: ":" + cfg.Server.Port, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("gwasd listening on :%s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}

func buildObjectStore(cfg *config.Config) (ports.ObjectStore, error) {
	if cfg.S3.DryRun {
		return objectstore.NewNoopStore(), nil
	}
	sess, err := session.NewSession(&aws.Config{})
	if err != nil {
		return nil, err
	}
	return objectstore.New(sess, cfg.S3.Bucket), nil
}
