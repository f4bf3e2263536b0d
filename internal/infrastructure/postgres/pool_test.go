package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolConfigDefaults(t *testing.T) {
	pc := PoolConfig{MinConns: 50}.withDefaults()
	require.Equal(t, int32(10), pc.MaxConns)
	require.Equal(t, int32(10), pc.MinConns)
	require.Equal(t, time.Hour, pc.MaxConnLife)
	require.Equal(t, 5*time.Second, pc.PingTimeout)

	pc = PoolConfig{MaxConns: 4, MinConns: 1, MaxConnLife: time.Minute, PingTimeout: time.Second}.withDefaults()
	require.Equal(t, PoolConfig{MaxConns: 4, MinConns: 1, MaxConnLife: time.Minute, PingTimeout: time.Second}, pc)
}
