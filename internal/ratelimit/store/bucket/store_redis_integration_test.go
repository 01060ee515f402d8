//go:build integration

package bucket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"greenforge/pkg/testutil/containers"
)

type RedisBucketStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisBucketStore
	ctx   context.Context
}

func TestRedisBucketStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBucketStoreSuite))
}

func (s *RedisBucketStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = NewRedisBucketStore(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisBucketStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisBucketStoreSuite) TestAllowUntilLimit() {
	for i := 0; i < 3; i++ {
		result, err := s.store.Allow(s.ctx, "ip:10.0.0.1", 3, time.Minute)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(2-i, result.Remaining)
	}

	result, err := s.store.Allow(s.ctx, "ip:10.0.0.1", 3, time.Minute)
	s.Require().NoError(err)
	s.False(result.Allowed)
	s.Positive(result.RetryAfter)

	count, err := s.redis.Client.ZCard(s.ctx, defaultKeyPrefix+"ip:10.0.0.1").Result()
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}

func (s *RedisBucketStoreSuite) TestWindowExpires() {
	_, err := s.store.Allow(s.ctx, "ip:10.0.0.2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	time.Sleep(300 * time.Millisecond)

	result, err := s.store.Allow(s.ctx, "ip:10.0.0.2", 1, 200*time.Millisecond)
	s.Require().NoError(err)
	s.True(result.Allowed)
}

func (s *RedisBucketStoreSuite) TestIdleKeysExpire() {
	_, err := s.store.Allow(s.ctx, "ip:10.0.0.3", 1, time.Minute)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.PTTL(s.ctx, defaultKeyPrefix+"ip:10.0.0.3").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
	s.LessOrEqual(ttl, time.Minute)

	n, err := s.redis.KeyCount(s.ctx, defaultKeyPrefix+"*")
	s.Require().NoError(err)
	s.Equal(1, n)
}
