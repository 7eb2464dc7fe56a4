package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("./migrations/sqlite"))
	return repo
}

func setupPostgresDB(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%d/storefront?sslmode=disable", host, port.Int())
	repo, err := NewRepository("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.RunMigrations("./migrations/postgres"))
	return repo
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	_, err := NewRepository("mysql", "")
	assert.ErrorContains(t, err, `unsupported catalog driver "mysql"`)
}

func TestRepository_EmptyTable(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRepository_MigrationsAreIdempotent(t *testing.T) {
	repo := setupTestDB(t)

	assert.NoError(t, repo.RunMigrations("./migrations/sqlite"))
}

func exerciseRepository(t *testing.T, repo *Repository) {
	ctx := context.Background()
	want := Fallback()

	require.NoError(t, repo.ImportProducts(ctx, want))

	got, err := repo.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	p, err := repo.ProductBySlug(ctx, "night-jasmine-candle")
	require.NoError(t, err)
	assert.Equal(t, want[3], *p)

	_, err = repo.ProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)

	// updates keep the position and replace the variants
	updated := want[0]
	updated.Name = "Vanilla Candle"
	updated.Variants = []domain.Variant{{ID: "v1-xl", Name: "500g", Price: 24000, Stock: 2}}
	require.NoError(t, repo.SaveProduct(ctx, updated))

	got, err = repo.Products(ctx)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Equal(t, updated, got[0])

	// new products go last
	extra := remoteProduct
	extra.Images = []string{}
	extra.Notes = []string{}
	require.NoError(t, repo.SaveProduct(ctx, extra))

	got, err = repo.Products(ctx)
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, extra, got[6])
}

func TestRepository_SQLite(t *testing.T) {
	exerciseRepository(t, setupTestDB(t))
}

func TestRepository_Postgres(t *testing.T) {
	exerciseRepository(t, setupPostgresDB(t))
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Products(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepository_SaveRejectsUnknownCategory(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SaveProduct(context.Background(), domain.Product{ID: "x", Slug: "x"})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestRepository_AsCatalogSource(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveProduct(ctx, remoteProduct))

	sut := New(repo, zap.NewNop())

	got := sut.Products(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "remote-candle", got[0].Slug)
	assert.NoError(t, sut.Ping(ctx))
}
