package migration

import (
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_Pares(t *testing.T) {
	source, err := iofs.New(FS, "sql")
	require.NoError(t, err)
	defer source.Close()

	version, err := source.First()
	require.NoError(t, err)

	versions := []uint{}
	for {
		versions = append(versions, version)

		up, _, err := source.ReadUp(version)
		require.NoError(t, err, "up da versão %d", version)
		upSQL, err := io.ReadAll(up)
		require.NoError(t, err)
		up.Close()
		assert.NotEmpty(t, strings.TrimSpace(string(upSQL)))

		down, _, err := source.ReadDown(version)
		require.NoError(t, err, "down da versão %d", version)
		down.Close()

		next, err := source.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		version = next
	}

	assert.Equal(t, []uint{1, 2, 3}, versions)
}

func TestEmbeddedMigrations_LogDeAjustesSoAceitaInsercao(t *testing.T) {
	content, err := fs.ReadFile(FS, "sql/000003_create_budget_adjustment_logs.up.sql")
	require.NoError(t, err)

	sql := string(content)
	assert.Contains(t, sql, "append-only")
	assert.Contains(t, sql, "WHERE status = 'applied'")
}
