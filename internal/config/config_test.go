package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	v := NewViper()
	v.Set("mysql.dsn", "user:pass@tcp(127.0.0.1:3306)/socialhub?parseTime=True")
	v.Set("jwt.access_secret", "a")
	v.Set("jwt.refresh_secret", "r")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./uploads", cfg.BlobRoot)
	assert.Equal(t, "social-events", cfg.KafkaTopic)
	assert.True(t, cfg.PostRequireMembership)
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	v := NewViper()

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql.dsn")

	v.Set("mysql.dsn", "dsn")
	_, err = Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.access_secret")
}

func TestMembershipGateCanBeDisabled(t *testing.T) {
	v := NewViper()
	v.Set("mysql.dsn", "dsn")
	v.Set("jwt.access_secret", "a")
	v.Set("jwt.refresh_secret", "r")
	v.Set("post.require_membership", false)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.False(t, cfg.PostRequireMembership)
}
