// Package main generates a summary report over recorded simulation runs:
// a Markdown overview plus a per-run CSV of the monthly series.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cjllanwarne/payoff-calculator/internal/reporting"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
	chstore "github.com/cjllanwarne/payoff-calculator/internal/storage/clickhouse"
	"github.com/cjllanwarne/payoff-calculator/internal/storage/migrations"
	pgstore "github.com/cjllanwarne/payoff-calculator/internal/storage/postgres"
)

func main() {
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	withSeries := flag.Bool("with-series", false, "Also write one CSV per run with its monthly series")
	flag.Parse()

	ctx := context.Background()

	if *postgresDSN == "" || *clickhouseDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn are required")
		os.Exit(1)
	}

	runStore, pointStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to databases: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	generator := reporting.NewGenerator(runStore, pointStore)
	report, err := generator.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, "REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)

	if *withSeries {
		for _, row := range report.Runs {
			points, err := pointStore.GetByRunID(ctx, row.RunID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading series for run %s: %v\n", row.RunID, err)
				os.Exit(1)
			}
			csvPath := filepath.Join(*outputDir, fmt.Sprintf("RUN_%s.csv", row.RunID))
			if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(points)), 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing series CSV: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("  - %s\n", csvPath)
		}
	}
}

// createStores connects to PostgreSQL and ClickHouse and creates the stores
// the report reads from.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string) (storage.RunStore, storage.MonthlyPointStore, func(), error) {
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewRunStore(pool), chstore.NewMonthlyPointStore(chConn), cleanup, nil
}
