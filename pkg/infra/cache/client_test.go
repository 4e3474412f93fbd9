package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewClientFromRedis(rdb, time.Minute)

	mock.ExpectGet("analysis:abc").RedisNil()

	_, err := c.Get(context.Background(), "analysis:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_GetHitThenLocal(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewClientFromRedis(rdb, time.Minute)

	mock.ExpectGet("analysis:abc").SetVal(`{"response":"ok"}`)

	v, err := c.Get(context.Background(), "analysis:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"response":"ok"}`, v)

	// Served from the local map, redis is not asked again.
	v, err = c.Get(context.Background(), "analysis:abc")
	require.NoError(t, err)
	assert.Equal(t, `{"response":"ok"}`, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_GetError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewClientFromRedis(rdb, time.Minute)

	mock.ExpectGet("analysis:abc").SetErr(errors.New("connection refused"))

	_, err := c.Get(context.Background(), "analysis:abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestClient_SetAndDelete(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewClientFromRedis(rdb, time.Minute)
	ctx := context.Background()

	mock.ExpectSet("analysis:abc", "value", time.Hour).SetVal("OK")
	require.NoError(t, c.Set(ctx, "analysis:abc", "value", time.Hour))

	v, err := c.Get(ctx, "analysis:abc")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	mock.ExpectDel("analysis:abc").SetVal(1)
	require.NoError(t, c.Delete(ctx, "analysis:abc"))

	mock.ExpectGet("analysis:abc").RedisNil()
	_, err = c.Get(ctx, "analysis:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_SetError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	c := NewClientFromRedis(rdb, time.Minute)

	mock.ExpectSet("k", "v", time.Minute).SetErr(errors.New("READONLY"))
	assert.Error(t, c.Set(context.Background(), "k", "v", time.Minute))

	mock.ExpectGet("k").RedisNil()
	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestAnalysisKey(t *testing.T) {
	assert.Equal(t, "analysis:deadbeef", AnalysisKey("deadbeef"))
}
