package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, PolicyPermissive, cfg.Orders.StatusPolicy)
	assert.False(t, cfg.Orders.VerifyTotal)
	assert.True(t, cfg.Orders.DeliveryFee.Equal(decimal.RequireFromString("2.99")))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ORDER_STATUS_POLICY", "strict")
	t.Setenv("ORDER_VERIFY_TOTAL", "true")
	t.Setenv("DELIVERY_FEE", "4.50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, PolicyStrict, cfg.Orders.StatusPolicy)
	assert.True(t, cfg.Orders.VerifyTotal)
	assert.True(t, cfg.Orders.DeliveryFee.Equal(decimal.RequireFromString("4.50")))
	assert.Contains(t, cfg.DatabaseURL(), "db.internal")
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AUTH_SECRET", "test-secret")

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "mongodb")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown status policy", func(t *testing.T) {
		t.Setenv("ORDER_STATUS_POLICY", "lenient")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("negative delivery fee", func(t *testing.T) {
		t.Setenv("DELIVERY_FEE", "-1.00")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("missing auth secret", func(t *testing.T) {
		t.Setenv("AUTH_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})
}
