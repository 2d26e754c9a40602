package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/sales-analytics/internal/auth"
	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/correlationid"
)

func TestEnrichedHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}))

	ctx := correlationid.NewContext(context.Background(), "corr-123")
	logger.With(slog.String("service", "http")).InfoContext(ctx, "sale recorded")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "sale recorded", record["msg"])
	assert.Equal(t, "http", record["service"])
	assert.Equal(t, "corr-123", record["correlation_id"])
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "user")
}

func TestEnrichedHandlerUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}))

	ctx := auth.NewContext(context.Background(), auth.Principal{UserID: uuid.New(), Username: "ana"})
	logger.InfoContext(ctx, "product deleted")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ana", record["user"])
}

func TestNopLogger(t *testing.T) {
	assert.False(t, NewNopLogger().Enabled(context.Background(), slog.LevelError))
}
