package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.NotEmpty(t, cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.NotEmpty(t, cfg.RootKeySecret)
	assert.NotEmpty(t, cfg.RootKeySalt)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"test", "-a", ":9090", "-d", "postgres://x", "-t", "5", "-k", "rk", "-l", "salt"}

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, "rk", cfg.RootKeySecret)
	assert.Equal(t, "salt", cfg.RootKeySalt)
}
