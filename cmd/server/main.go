// Package main runs the payoff calculator HTTP service: simulation and
// config endpoints, a websocket recompute session, health and metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cjllanwarne/payoff-calculator/internal/server"
	"github.com/cjllanwarne/payoff-calculator/internal/simulation"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
	chstore "github.com/cjllanwarne/payoff-calculator/internal/storage/clickhouse"
	"github.com/cjllanwarne/payoff-calculator/internal/storage/memory"
	"github.com/cjllanwarne/payoff-calculator/internal/storage/migrations"
	pgstore "github.com/cjllanwarne/payoff-calculator/internal/storage/postgres"
)

// stores holds the storage implementations the server needs.
type stores struct {
	configStore storage.ConfigStore
	runStore    storage.RunStore
	pointStore  storage.MonthlyPointStore
}

func main() {
	// Load .env file if exists (does not override existing env vars)
	godotenv.Load()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	runner := simulation.NewRunner(st.runStore, st.pointStore)

	srv := server.NewServer(server.Options{
		ConfigStore: st.configStore,
		RunStore:    st.runStore,
		PointStore:  st.pointStore,
		Runner:      runner,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: srv.Handler(),
	}

	// Channel to signal completion
	done := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Graceful shutdown failed: %v", err)
		}

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	logger.Printf("Listening on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}
	close(done)

	logger.Println("Shutdown complete")
}

// createStores creates the storage implementations and runs migrations
// when connecting to real databases.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		st := &stores{
			configStore: memory.NewConfigStore(),
			runStore:    memory.NewRunStore(),
			pointStore:  memory.NewMonthlyPointStore(),
		}
		return st, func() {}, nil
	}

	// PostgreSQL: named configs and run records
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	// ClickHouse: monthly point series
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	st := &stores{
		configStore: pgstore.NewConfigStore(pool),
		runStore:    pgstore.NewRunStore(pool),
		pointStore:  chstore.NewMonthlyPointStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return st, cleanup, nil
}

// envOr returns the env var value or a fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
