package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrateCommand(t *testing.T) {
	for _, s := range []string{"up", "down", "status"} {
		c, err := ParseMigrateCommand(s)
		require.NoError(t, err)
		assert.Equal(t, MigrateCommand(s), c)
	}

	_, err := ParseMigrateCommand("redo")
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/00001_create_catalog.sql",
		"migrations/00002_create_users.sql",
		"migrations/00003_create_outbox_messages.sql",
	}, files)
}
