package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjllanwarne/payoff-calculator/internal/domain"
	"github.com/cjllanwarne/payoff-calculator/internal/storage"
)

func testConfig() domain.Config {
	return domain.Config{
		LoanAmount:            100000,
		LoanRate:              0.05,
		LoanTermMonths:        360,
		TargetPayment:         600,
		MinimumPayment:        536.82,
		InitialSavings:        10000,
		MonthlySavingsPayment: 100,
		InvestmentRate:        0.07,
		TaxRate:               0.25,
		Regime:                domain.RegimeCD,
		ExcessToSavings:       false,
	}
}

func TestConfigStore_SaveAndGetLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConfigStore(pool)
	ctx := context.Background()

	cfg := &domain.NamedConfig{
		Name:    "baseline",
		SavedAt: 1700000000000,
		Config:  testConfig(),
	}

	err := store.Save(ctx, cfg)
	require.NoError(t, err)

	got, err := store.GetLatestByName(ctx, "baseline")
	require.NoError(t, err)

	assert.Equal(t, cfg.Name, got.Name)
	assert.Equal(t, cfg.SavedAt, got.SavedAt)
	assert.Equal(t, cfg.Config, got.Config)
}

func TestConfigStore_LatestRevisionWins(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConfigStore(pool)
	ctx := context.Background()

	for _, savedAt := range []int64{1000, 3000, 2000} {
		cfg := testConfig()
		cfg.TargetPayment = float64(savedAt)
		err := store.Save(ctx, &domain.NamedConfig{Name: "plan", SavedAt: savedAt, Config: cfg})
		require.NoError(t, err)
	}

	got, err := store.GetLatestByName(ctx, "plan")
	require.NoError(t, err)

	assert.Equal(t, int64(3000), got.SavedAt)
	assert.Equal(t, 3000.0, got.Config.TargetPayment)
}

func TestConfigStore_SaveDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConfigStore(pool)
	ctx := context.Background()

	cfg := &domain.NamedConfig{Name: "plan", SavedAt: 1000, Config: testConfig()}

	err := store.Save(ctx, cfg)
	require.NoError(t, err)

	err = store.Save(ctx, cfg)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestConfigStore_GetLatestNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConfigStore(pool)
	ctx := context.Background()

	_, err := store.GetLatestByName(ctx, "nonexistent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestConfigStore_ListOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewConfigStore(pool)
	ctx := context.Background()

	configs := []*domain.NamedConfig{
		{Name: "beta", SavedAt: 1000, Config: testConfig()},
		{Name: "alpha", SavedAt: 2000, Config: testConfig()},
		{Name: "alpha", SavedAt: 1000, Config: testConfig()},
	}
	for _, c := range configs {
		require.NoError(t, store.Save(ctx, c))
	}

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "alpha", all[0].Name)
	assert.Equal(t, int64(1000), all[0].SavedAt)
	assert.Equal(t, "alpha", all[1].Name)
	assert.Equal(t, int64(2000), all[1].SavedAt)
	assert.Equal(t, "beta", all[2].Name)
}
