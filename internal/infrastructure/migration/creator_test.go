package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add carriers table", "add_carriers_table"},
		{"Add-Carriers-Table", "add_carriers_table"},
		{"ADD__CARRIERS", "add_carriers"},
		{"index route stops 2", "index_route_stops_2"},
		{"   padded   ", "padded"},
		{"drop!@#$ column", "drop_column"},
		{"_edges_", "edges"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	first, err := Create(dir, "add carriers", "Carrier master data")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_carriers.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_carriers.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add carriers\n")
	assert.Contains(t, string(up), "-- Description: Carrier master data")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := Create(dir, "index carriers", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	body, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "Description")
}

func TestCreate_ContinuesExistingNumbering(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000001_init_schema.up.sql", "000001_init_schema.down.sql", "000007_late.up.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	p, err := Create(dir, "next", "")
	require.NoError(t, err)
	assert.Equal(t, uint(8), p.Version)
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	_, err := Create(t.TempDir(), "???", "")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		entries, err := List(filepath.Join(t.TempDir(), "absent"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("orders and pairs files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"000002_indexes.up.sql",
			"000001_init_schema.down.sql",
			"000001_init_schema.up.sql",
			"README.md",
			"embed.go",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

		entries, err := List(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, Entry{Version: 1, Name: "init_schema", HasDown: true}, entries[0])
		assert.Equal(t, Entry{Version: 2, Name: "indexes"}, entries[1])
		assert.Equal(t, "000002_indexes", entries[1].String())
	})
}
