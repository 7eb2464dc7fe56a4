package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const migrationsTable = "catalog_schema_migrations"

// Repository reads the products table. It runs on PostgreSQL and on SQLite;
// both drivers accept $N placeholders.
type Repository struct {
	db     *sql.DB
	driver string
}

// NewRepository opens driverName ("postgres" or "sqlite") and pings it.
func NewRepository(driverName, dsn string) (*Repository, error) {
	switch driverName {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", driverName)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driverName == "sqlite" {
		// :memory: databases live on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db, driver: driverName}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	var (
		driver database.Driver
		err    error
	)
	switch r.driver {
	case "postgres":
		driver, err = postgres.WithInstance(r.db, &postgres.Config{MigrationsTable: migrationsTable})
	default:
		driver, err = sqlite.WithInstance(r.db, &sqlite.Config{MigrationsTable: migrationsTable})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		r.driver,
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `id, slug, name, short_description, description, price, category,
		images, tags, notes, is_featured, is_new`

// Products returns every product with its variants, in catalog position order.
func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY position, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	variants, err := r.variants(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Variants = variants[products[i].ID]
	}

	return products, nil
}

func (r *Repository) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE slug = $1
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	variants, err := r.variants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants[p.ID]

	return &p, nil
}

// variants groups variant rows by product id. An empty productID loads all of them.
func (r *Repository) variants(ctx context.Context, productID string) (map[string][]domain.Variant, error) {
	query := `
		SELECT product_id, id, name, price, stock
		FROM product_variants
	`
	var args []any
	if productID != "" {
		query += `WHERE product_id = $1 `
		args = append(args, productID)
	}
	query += `ORDER BY product_id, position`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	byProduct := make(map[string][]domain.Variant)
	for rows.Next() {
		var (
			pid string
			v   domain.Variant
		)
		if err := rows.Scan(&pid, &v.ID, &v.Name, &v.Price, &v.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		byProduct[pid] = append(byProduct[pid], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return byProduct, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p                   domain.Product
		category            string
		images, tags, notes string
	)
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.ShortDescription,
		&p.Description,
		&p.Price,
		&category,
		&images,
		&tags,
		&notes,
		&p.IsFeatured,
		&p.IsNew,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}

	if p.Category, err = domain.ParseCategory(category); err != nil {
		return p, fmt.Errorf("product %s: %w", p.ID, err)
	}
	for _, col := range []struct {
		raw string
		dst *[]string
	}{{images, &p.Images}, {tags, &p.Tags}, {notes, &p.Notes}} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return p, fmt.Errorf("product %s: decode list column: %w", p.ID, err)
		}
	}

	return p, nil
}

// SaveProduct upserts p and replaces its variants. New products are appended
// after the existing ones; updates keep their position.
func (r *Repository) SaveProduct(ctx context.Context, p domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveProduct(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product %s: %w", p.ID, err)
	}
	return nil
}

// ImportProducts saves products in order inside one transaction.
func (r *Repository) ImportProducts(ctx context.Context, products []domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		if err := saveProduct(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func saveProduct(ctx context.Context, tx *sql.Tx, p domain.Product) error {
	category, err := p.Category.MarshalText()
	if err != nil {
		return fmt.Errorf("product %s: %w", p.ID, err)
	}
	lists := make([]string, 0, 3)
	for _, l := range [][]string{p.Images, p.Tags, p.Notes} {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return fmt.Errorf("product %s: encode list column: %w", p.ID, err)
		}
		lists = append(lists, string(b))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM products))
		ON CONFLICT (id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			short_description = excluded.short_description,
			description = excluded.description,
			price = excluded.price,
			category = excluded.category,
			images = excluded.images,
			tags = excluded.tags,
			notes = excluded.notes,
			is_featured = excluded.is_featured,
			is_new = excluded.is_new
	`, p.ID, p.Slug, p.Name, p.ShortDescription, p.Description, p.Price, string(category),
		lists[0], lists[1], lists[2], p.IsFeatured, p.IsNew)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id = $1`, p.ID); err != nil {
		return fmt.Errorf("failed to clear variants of %s: %w", p.ID, err)
	}
	for i, v := range p.Variants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_variants (product_id, id, name, price, stock, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, v.ID, v.Name, v.Price, v.Stock, i)
		if err != nil {
			return fmt.Errorf("failed to insert variant %s/%s: %w", p.ID, v.ID, err)
		}
	}

	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}
