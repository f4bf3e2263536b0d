package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "JWT_LEEWAY", "BCRYPT_COST", "ELASTICSEARCH_ADDRS"} {
		t.Setenv(k, "")
	}
	c := Load()
	require.Equal(t, 15*time.Minute, c.AccessTTL)
	require.Equal(t, 7*24*time.Hour, c.RefreshTTL)
	require.Zero(t, c.JWTLeeway)
	require.Equal(t, 12, c.BcryptCost)
	require.Empty(t, c.ESAddrs())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("JWT_LEEWAY", "2s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("BCRYPT_COST", "nope")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	c := Load()
	require.Equal(t, 5*time.Minute, c.AccessTTL)
	require.Equal(t, 2*time.Second, c.JWTLeeway)
	require.True(t, c.CookieSecure)
	require.Equal(t, 12, c.BcryptCost)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins())
}

func TestPostgresDSNEscapesPassword(t *testing.T) {
	c := &Config{DBUser: "app", DBPassword: "p@ss/word", DBHost: "db", DBPort: "5432", DBName: "booking", DBSSLMode: "disable"}
	require.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/booking?sslmode=disable", c.PostgresDSN())
}
