package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ManuC12/Raices-de-vida/internal/catalog"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCatalogList_BuiltIn(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "")

	out, err := run(t, "catalog", "list", "--category", "candles", "--tag", "Warm")
	require.NoError(t, err)

	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "vanilla-caramel-candle")
	assert.Contains(t, out, "sandalwood-candle")
	assert.NotContains(t, out, "night-jasmine-candle")
	assert.NotContains(t, out, "diffuser")
}

func TestCatalogList_InvalidInput(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "")

	_, err := run(t, "catalog", "list", "--category", "soaps")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)

	_, err = run(t, "catalog", "list", "--format", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestMigrate_RequiresDriver(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "")

	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "CATALOG_DRIVER is not set")
}

func TestCatalogImport_SQLite(t *testing.T) {
	t.Setenv("CATALOG_DRIVER", "sqlite")
	t.Setenv("CATALOG_DSN", filepath.Join(t.TempDir(), "catalog.db"))
	t.Setenv("CATALOG_MIGRATIONS_PATH", "../../internal/catalog/migrations")

	_, err := run(t, "migrate")
	require.NoError(t, err)

	out, err := run(t, "catalog", "import")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 6 products")

	out, err = run(t, "catalog", "list", "--format", "yaml")
	require.NoError(t, err)

	var doc struct {
		Products []domain.Product `yaml:"products"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, catalog.Fallback(), doc.Products)

	out, err = run(t, "catalog", "show", "night-jasmine-candle")
	require.NoError(t, err)
	var p domain.Product
	require.NoError(t, yaml.Unmarshal([]byte(out), &p))
	assert.Equal(t, "night-jasmine-candle", p.Slug)
	assert.NotEmpty(t, p.Variants)

	_, err = run(t, "catalog", "show", "sandalwood-soap")
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}
