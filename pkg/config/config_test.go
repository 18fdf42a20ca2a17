package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Jobs.AnalyticsWindowDays)
	assert.Equal(t, 90, cfg.Jobs.ChatRetentionDays)

	// У каждой фоновой задачи свой независимый интервал.
	assert.Positive(t, cfg.Jobs.AnalyticsInterval)
	assert.Positive(t, cfg.Jobs.MaintenanceInterval)
	assert.Positive(t, cfg.Jobs.BackfillInterval)
	assert.Positive(t, cfg.Jobs.CleanupInterval)
	assert.Positive(t, cfg.Jobs.OverdueInterval)
	assert.NotEqual(t, cfg.Jobs.MaintenanceInterval, cfg.Jobs.BackfillInterval)
}
