package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabclass/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "GIN_MODE", "SPLIT_SEED", "TEST_FRACTION",
		"HOLDOUT_FRACTION", "VALIDATION_SHARE", "MAX_BALANCED_ROWS", "TUNER_WORKERS", "MAX_UPLOAD_MB", "LOG_LEVEL", "SSL_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Database.Enabled())

	opts := cfg.Pipeline.SplitOptions()
	assert.Equal(t, 0.2, opts.TestFraction)
	assert.Equal(t, int64(42), opts.Seed)
	require.NoError(t, opts.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tabclass")
	t.Setenv("SPLIT_SEED", "7")
	t.Setenv("TUNER_WORKERS", "4")
	t.Setenv("TEST_FRACTION", "0.25")
	t.Setenv("MAX_BALANCED_ROWS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, int64(7), cfg.Pipeline.Seed)
	assert.Equal(t, 4, cfg.Pipeline.TunerWorkers)
	assert.Equal(t, 0.25, cfg.Pipeline.TestFraction)
	assert.Equal(t, 0, cfg.Pipeline.MaxBalancedRows)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"TEST_FRACTION":     "1.5",
		"HOLDOUT_FRACTION":  "0",
		"MAX_BALANCED_ROWS": "-1",
		"TUNER_WORKERS":     "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
