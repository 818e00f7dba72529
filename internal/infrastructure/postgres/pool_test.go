package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Migraciones ──────────────────────────────────────────────────────────────

func TestMigrationFiles_SoloSQLEnOrden(t *testing.T) {
	files := fstest.MapFS{
		"0002_ventas.sql":  {Data: []byte("SELECT 2")},
		"0001_init.sql":    {Data: []byte("SELECT 1")},
		"README.md":        {Data: []byte("notas")},
		"migrations.go":    {Data: []byte("package migrations")},
		"0010_indices.sql": {Data: []byte("SELECT 10")},
	}
	names, err := migrationFiles(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_ventas.sql", "0010_indices.sql"}, names)
}

func TestPendingMigrations_OmiteLasRegistradas(t *testing.T) {
	names := []string{"0001_init.sql", "0002_ventas.sql", "0003_abonos.sql"}

	assert.Equal(t, names, pendingMigrations(names, nil), "base vacía: se aplican todas")
	assert.Equal(t, []string{"0003_abonos.sql"},
		pendingMigrations(names, map[string]bool{"0001_init.sql": true, "0002_ventas.sql": true}))
	assert.Empty(t, pendingMigrations(names, map[string]bool{
		"0001_init.sql": true, "0002_ventas.sql": true, "0003_abonos.sql": true,
	}), "una segunda ejecución no vuelve a aplicar nada")
}
