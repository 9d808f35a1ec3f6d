package infra

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"carrier-gateway/carrier/registry/domain"
)

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	assert.NoError(t, s.Record(context.Background(), domain.LookupEvent{Outcome: domain.OutcomeSuccess}))

	assert.NoError(t, NewRedisStatsStore(nil).Record(context.Background(), domain.LookupEvent{}))
}

func TestRedisStatsStore_Options(t *testing.T) {
	s := NewRedisStatsStore(nil,
		WithStatsPrefix(":gw:stats:"),
		WithStatsTTL(time.Hour),
		WithStatsBucket(" NONE "),
		WithStatsTrackIDs(true),
	)

	assert.Equal(t, "gw:stats", s.prefix)
	assert.Equal(t, time.Hour, s.ttl)
	assert.Equal(t, "none", s.bucket)
	assert.True(t, s.trackIDs)
}

func TestRedisStatsStore_ReportsUnavailableServer(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = rdb.Close() }()

	s := NewRedisStatsStore(rdb)
	err := s.Record(context.Background(), domain.LookupEvent{
		Kind: domain.KindPrimary, Outcome: domain.OutcomeFailure, ErrorKind: domain.KindTransient,
	})
	assert.Error(t, err)
}
