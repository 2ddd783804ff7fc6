package config_test

import (
	"testing"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SPREADSHEET_ID", "sheet-id")
	t.Setenv("SHEETS_API_KEY", "api-key")
	t.Setenv("PAYSTACK_SECRET_KEY", "sk_test")
	t.Setenv("SESSION_SECRET", "session-secret")

	t.Setenv("PORT", "")
	t.Setenv("BASE_URL", "")
	t.Setenv("FE_URL", "")
	t.Setenv("SHEETS_READ_RANGE", "")
	t.Setenv("GO_ENV", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "http://localhost:5173", cfg.FEURL)
	assert.Equal(t, "Sheet1!A2:H", cfg.SheetsReadRange)
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_BaseURLFollowsPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	cases := []string{
		"SPREADSHEET_ID",
		"SHEETS_API_KEY",
		"PAYSTACK_SECRET_KEY",
		"SESSION_SECRET",
	}

	for _, key := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
