package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	testLimit  = 10
	testWindow = time.Minute
)

type InMemoryBucketStoreSuite struct {
	suite.Suite
	store *InMemoryBucketStore
	clock time.Time
	ctx   context.Context
}

func TestInMemoryBucketStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryBucketStoreSuite))
}

func (s *InMemoryBucketStoreSuite) SetupTest() {
	s.store = NewInMemoryBucketStore()
	s.clock = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return s.clock }
	s.ctx = context.Background()
}

func (s *InMemoryBucketStoreSuite) TestAllow() {
	s.Run("first request allowed", func() {
		result, err := s.store.Allow(s.ctx, "allow:first", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit, result.Limit)
		s.Equal(testLimit-1, result.Remaining)
		s.Equal(s.clock.Add(testWindow), result.ResetAt)
	})

	s.Run("request over limit denied with retry hint", func() {
		for i := 0; i < testLimit; i++ {
			result, err := s.store.Allow(s.ctx, "allow:over", testLimit, testWindow)
			s.Require().NoError(err)
			s.True(result.Allowed)
		}
		s.clock = s.clock.Add(20 * time.Second)

		result, err := s.store.Allow(s.ctx, "allow:over", testLimit, testWindow)
		s.Require().NoError(err)
		s.False(result.Allowed)
		s.Equal(0, result.Remaining)
		s.Equal(40, result.RetryAfter)
	})

	s.Run("window slides", func() {
		for i := 0; i < testLimit; i++ {
			_, err := s.store.Allow(s.ctx, "allow:slide", testLimit, testWindow)
			s.Require().NoError(err)
		}
		s.clock = s.clock.Add(testWindow + time.Second)

		result, err := s.store.Allow(s.ctx, "allow:slide", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
		s.Equal(testLimit-1, result.Remaining)
	})

	s.Run("keys are independent", func() {
		for i := 0; i < testLimit; i++ {
			_, _ = s.store.Allow(s.ctx, "allow:a", testLimit, testWindow)
		}
		result, err := s.store.Allow(s.ctx, "allow:b", testLimit, testWindow)
		s.Require().NoError(err)
		s.True(result.Allowed)
	})
}

func (s *InMemoryBucketStoreSuite) TestIdleClientsAreEvicted() {
	for _, ip := range []string{"ip:192.0.2.1", "ip:192.0.2.2", "ip:192.0.2.3"} {
		_, err := s.store.Allow(s.ctx, ip, testLimit, testWindow)
		s.Require().NoError(err)
	}
	s.Len(s.store.buckets, 3)

	s.clock = s.clock.Add(30 * time.Second)
	_, err := s.store.Allow(s.ctx, "ip:192.0.2.1", testLimit, testWindow)
	s.Require().NoError(err)
	s.Len(s.store.buckets, 3, "windows still hold requests")

	s.clock = s.clock.Add(testWindow + time.Second)
	_, err = s.store.Allow(s.ctx, "ip:192.0.2.9", testLimit, testWindow)
	s.Require().NoError(err)
	s.Len(s.store.buckets, 1, "only the new caller is left")
	s.Contains(s.store.buckets, "ip:192.0.2.9")
}

func (s *InMemoryBucketStoreSuite) TestEvictedClientStartsFresh() {
	for i := 0; i < testLimit; i++ {
		_, _ = s.store.Allow(s.ctx, "ip:198.51.100.7", testLimit, testWindow)
	}
	s.clock = s.clock.Add(testWindow + sweepInterval)

	result, err := s.store.Allow(s.ctx, "ip:198.51.100.7", testLimit, testWindow)
	s.Require().NoError(err)
	s.True(result.Allowed)
	s.Equal(testLimit-1, result.Remaining)
}

func (s *InMemoryBucketStoreSuite) TestConcurrentCallersNeverExceedLimit() {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.store.Allow(s.ctx, "concurrent", testLimit, testWindow)
			if err == nil && result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(testLimit, allowed)
}
