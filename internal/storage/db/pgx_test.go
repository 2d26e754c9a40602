package db

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
)

func TestConnectionString(t *testing.T) {
	cfg := config.Postgres{
		Host:     "db.internal",
		Port:     5433,
		User:     "ventas",
		Password: "p@ss:w/rd",
		DB:       "sales",
		SSLMode:  "require",
	}

	conn := connectionString(cfg)

	parsed, err := pgxpool.ParseConfig(conn)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", parsed.ConnConfig.Host)
	assert.Equal(t, uint16(5433), parsed.ConnConfig.Port)
	assert.Equal(t, "ventas", parsed.ConnConfig.User)
	assert.Equal(t, "p@ss:w/rd", parsed.ConnConfig.Password)
	assert.Equal(t, "sales", parsed.ConnConfig.Database)
}
