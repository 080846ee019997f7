package redis

import (
	game_constants "Kkutmal/constants/game"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientAppliesTimeouts(t *testing.T) {
	remote := NewRedisClient("redis://some-host:6379/2", 0)
	opts := remote.client.Options()
	assert.Equal(t, game_constants.RedisOpTimeout, opts.DialTimeout)
	assert.Equal(t, game_constants.RedisOpTimeout, opts.ReadTimeout)
	assert.Equal(t, game_constants.RedisOpTimeout, opts.WriteTimeout)
	assert.Equal(t, 2, opts.DB)

	local := NewRedisClient("localhost:6379", 1)
	opts = local.client.Options()
	assert.Equal(t, game_constants.RedisOpTimeout, opts.DialTimeout)
	assert.Equal(t, 1, opts.DB)
}

func TestNewRedisClientBadURL(t *testing.T) {
	// A malformed URL must not take the process down; the address is used
	// as-is and the connection ping surfaces the problem later
	rc := NewRedisClient("not a url", 3)
	require.NotNil(t, rc)
	assert.Equal(t, "not a url", rc.client.Options().Addr)
	assert.Equal(t, 3, rc.client.Options().DB)
}
