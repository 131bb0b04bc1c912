package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyitsmejosh/stonks/internal/database"
	"github.com/heyitsmejosh/stonks/internal/domain"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "history.db"),
		Profile: database.ProfileCache,
		Name:    "history-test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := NewRepository(db, zerolog.Nop())
	require.NoError(t, err)
	return repo
}

func candles(base time.Time, closes ...float64) domain.PriceSeries {
	series := make(domain.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = domain.Candle{
			Time:  base.AddDate(0, 0, i),
			Open:  c - 0.5,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return series
}

func TestRepository_SaveAndLoadSeries(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.SaveSeries(ctx, "TD", candles(base, 80, 81, 82)))

	loaded, err := repo.LoadSeries(ctx, "TD", base.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	assert.True(t, base.Equal(loaded[0].Time))
	assert.Equal(t, 80.0, loaded[0].Close)
	assert.Equal(t, 82.0, loaded[2].Close)
	assert.True(t, loaded[0].Time.Before(loaded[1].Time))
}

func TestRepository_SaveSeries_UpsertsByDay(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.SaveSeries(ctx, "TD", candles(base, 80)))
	// Same day revised (e.g. adjusted close): overwrite, don't duplicate.
	require.NoError(t, repo.SaveSeries(ctx, "TD", candles(base, 85)))

	loaded, err := repo.LoadSeries(ctx, "TD", base.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 85.0, loaded[0].Close)
}

func TestRepository_LoadSeries_SinceFilters(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.SaveSeries(ctx, "TD", candles(base, 80, 81, 82, 83)))

	loaded, err := repo.LoadSeries(ctx, "TD", base.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 82.0, loaded[0].Close)
}

func TestRepository_SymbolsAreIsolated(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)

	require.NoError(t, repo.SaveSeries(ctx, "TD", candles(base, 80)))
	require.NoError(t, repo.SaveSeries(ctx, "RY", candles(base, 120)))

	loaded, err := repo.LoadSeries(ctx, "RY", base.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 120.0, loaded[0].Close)
}

func TestRepository_LastDay(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC)

	last, err := repo.LastDay(ctx, "TD")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, repo.SaveSeries(ctx, "TD", candles(base, 80, 81, 82)))

	last, err = repo.LastDay(ctx, "TD")
	require.NoError(t, err)
	assert.True(t, base.AddDate(0, 0, 2).Equal(last))
}
