// Package main runs a single payoff simulation from flags and prints a
// summary. With database DSNs the run and its monthly series are recorded;
// without them the run stays in memory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/reporting"
	"github.com/cjllanwarne/payoff-calculator/internal/simulation"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
	chstore "github.com/cjllanwarne/payoff-calculator/internal/storage/clickhouse"
	"github.com/cjllanwarne/payoff-calculator/internal/storage/memory"
	"github.com/cjllanwarne/payoff-calculator/internal/storage/migrations"
	pgstore "github.com/cjllanwarne/payoff-calculator/internal/storage/postgres"
)

func main() {
	// Run identity
	name := flag.String("name", "", "Run name (required)")
	lumpSum := flag.Float64("lump-sum", 0, "One-time payment from savings before month 1")

	// Loan parameters
	loanAmount := flag.Float64("loan-amount", 0, "Loan principal")
	loanRate := flag.Float64("loan-rate", 0, "Annual loan interest rate (e.g. 0.05)")
	termMonths := flag.Int("term-months", 0, "Loan term in months")
	targetPayment := flag.Float64("target-payment", 0, "Target monthly payment toward the loan")

	// Savings parameters
	initialSavings := flag.Float64("initial-savings", 0, "Starting savings balance")
	investmentRate := flag.Float64("investment-rate", 0, "Annual investment return rate")
	taxRate := flag.Float64("tax-rate", 0, "Tax rate on investment returns")
	investmentType := flag.String("investment-type", string(domain.RegimeCD), "Investment regime: CD or STOCK")
	monthlySavings := flag.Float64("monthly-savings-payment", 0, "Monthly cap on savings withdrawn toward the loan")
	excessToSavings := flag.Bool("excess-to-savings", false, "Route payment excess to savings instead of extra principal")

	// Persistence
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	csvPath := flag.String("csv", "", "Write the monthly series as CSV to this path")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "Error: --name is required")
		os.Exit(1)
	}
	if (*postgresDSN == "") != (*clickhouseDSN == "") {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn and --clickhouse-dsn must be given together")
		os.Exit(1)
	}

	cfg := domain.Config{
		LoanAmount:            *loanAmount,
		LoanRate:              *loanRate,
		LoanTermMonths:        *termMonths,
		TargetPayment:         *targetPayment,
		InitialSavings:        *initialSavings,
		MonthlySavingsPayment: *monthlySavings,
		InvestmentRate:        *investmentRate,
		TaxRate:               *taxRate,
		Regime:                domain.Regime(*investmentType),
		ExcessToSavings:       *excessToSavings,
	}

	ctx := context.Background()

	runStore, pointStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to databases: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	runner := simulation.NewRunner(runStore, pointStore)
	run, result, err := runner.Run(ctx, *name, cfg, *lumpSum)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			fmt.Fprintf(os.Stderr, "Error: run %q with these parameters is already recorded\n", *name)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		os.Exit(1)
	}

	printSummary(run, result)

	if *csvPath != "" {
		points, err := pointStore.GetByRunID(ctx, run.RunID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading monthly series: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*csvPath, []byte(reporting.RenderCSV(points)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Monthly series written to %s\n", *csvPath)
	}
}

// createStores returns database-backed stores when DSNs are given, in-memory
// stores otherwise.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string) (storage.RunStore, storage.MonthlyPointStore, func(), error) {
	if postgresDSN == "" {
		return memory.NewRunStore(), memory.NewMonthlyPointStore(), func() {}, nil
	}

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
		return nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewRunStore(pool), chstore.NewMonthlyPointStore(chConn), cleanup, nil
}

// printSummary writes the run outcome to stdout.
func printSummary(run *domain.SimulationRun, result *domain.SimulationResult) {
	fmt.Printf("Run %s (%s)\n", run.RunID, run.Name)
	fmt.Printf("  Minimum payment:      %.2f\n", run.Config.MinimumPayment)
	fmt.Printf("  Months simulated:     %d\n", run.Months)
	fmt.Printf("  Total interest paid:  %.2f\n", run.TotalInterestPaid)
	fmt.Printf("  Total principal paid: %.2f\n", run.TotalPrincipalPaid)
	fmt.Printf("  Total contributions:  %.2f\n", run.TotalContributions)
	fmt.Printf("  Total pocket money:   %.2f\n", run.TotalPocketMoney)
	fmt.Printf("  Final loan balance:   %.2f\n", run.FinalLoanBalance)
	fmt.Printf("  Final savings:        %.2f\n", run.FinalSavingsBalance)

	if payoff := payoffMonth(result); payoff >= 0 {
		fmt.Printf("  Loan paid off at month %d\n", payoff)
	} else {
		fmt.Println("  Loan not paid off within the simulated horizon")
	}
}

// payoffMonth returns the first month index with a zero loan balance,
// or -1 when the loan never reaches zero.
func payoffMonth(result *domain.SimulationResult) int {
	for i, balance := range result.LoanBalance {
		if balance == 0 {
			return i
		}
	}
	return -1
}
