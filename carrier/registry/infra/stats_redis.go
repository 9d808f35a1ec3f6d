package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carrier-gateway/carrier/registry/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore exporta o desfecho das consultas para hashes no Redis.
//
// Chaves (prefixo padrão "carrier:stats"):
//
//	<prefix>:total                 success/failure/cache_hit
//	<prefix>:minute:200601021504   mesmos campos, por minuto (expira)
//	<prefix>:kind                  dot:success, mc:failure, ...
//	<prefix>:error                 RATE_LIMITED, TRANSIENT, ...
//	<prefix>:id:<kind>:<id>        só com trackIDs (expira)
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl aplica apenas em chaves de série temporal / por identificador.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackIDs bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackIDs(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackIDs = track }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "carrier:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.LookupEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if ev.Kind != "" {
		pipe.HIncrBy(ctx, s.prefix+":kind", string(ev.Kind)+":"+field, 1)
	}
	if ev.ErrorKind != "" {
		pipe.HIncrBy(ctx, s.prefix+":error", string(ev.ErrorKind), 1)
	}

	if s.trackIDs {
		id := strings.TrimSpace(ev.Identifier)
		if id != "" {
			idKey := fmt.Sprintf("%s:id:%s:%s", s.prefix, ev.Kind, id)
			pipe.HIncrBy(ctx, idKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, idKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
