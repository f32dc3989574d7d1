package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweepIntervalDefaultsToOneHour(t *testing.T) {
	t.Setenv("LOW_STOCK_CHECK_INTERVAL_MS", "")
	assert.Equal(t, time.Hour, getMillisEnv("LOW_STOCK_CHECK_INTERVAL_MS", 3600000))
}

func TestSweepIntervalParsesMilliseconds(t *testing.T) {
	t.Setenv("LOW_STOCK_CHECK_INTERVAL_MS", "15000")
	assert.Equal(t, 15*time.Second, getMillisEnv("LOW_STOCK_CHECK_INTERVAL_MS", 3600000))
}

func TestSweepIntervalIgnoresGarbage(t *testing.T) {
	for _, value := range []string{"abc", "-5", "0"} {
		t.Setenv("LOW_STOCK_CHECK_INTERVAL_MS", value)
		assert.Equal(t, time.Hour, getMillisEnv("LOW_STOCK_CHECK_INTERVAL_MS", 3600000), "value %q", value)
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("STRICT_PAYMENT_SPLIT", "true")
	assert.True(t, getBoolEnv("STRICT_PAYMENT_SPLIT", false))

	t.Setenv("STRICT_PAYMENT_SPLIT", "yes")
	assert.False(t, getBoolEnv("STRICT_PAYMENT_SPLIT", false))

	t.Setenv("STRICT_PAYMENT_SPLIT", "")
	assert.True(t, getBoolEnv("STRICT_PAYMENT_SPLIT", true))
}
