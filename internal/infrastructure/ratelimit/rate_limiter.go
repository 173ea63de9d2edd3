package ratelimit

import (
	"sync"
	"time"
)

const (
	ActionSendMessage = "send_message"
	ActionAPI         = "api"
)

// Policy sizes one token bucket: Burst tokens, one token back every Refill.
type Policy struct {
	Burst  int
	Refill time.Duration
}

// TokenBucket is a single user's allowance for one action.
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

// RateLimiter keeps one bucket per user and action.
type RateLimiter struct {
	buckets  map[string]*TokenBucket
	policies map[string]Policy
	fallback Policy
	now      func() time.Time
	mutex    sync.RWMutex
}

// DefaultPolicies allows ten messages in a burst then one every six seconds,
// and apiPerMinute general requests per minute.
func DefaultPolicies(apiPerMinute int) map[string]Policy {
	if apiPerMinute <= 0 {
		apiPerMinute = 60
	}
	return map[string]Policy{
		ActionSendMessage: {Burst: 10, Refill: 6 * time.Second},
		ActionAPI:         {Burst: apiPerMinute, Refill: time.Minute / time.Duration(apiPerMinute)},
	}
}

func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	return &RateLimiter{
		buckets:  make(map[string]*TokenBucket),
		policies: policies,
		fallback: Policy{Burst: 20, Refill: 3 * time.Second},
		now:      time.Now,
	}
}

func newTokenBucket(p Policy, now time.Time) *TokenBucket {
	return &TokenBucket{
		tokens:     p.Burst,
		maxTokens:  p.Burst,
		refillTime: p.Refill,
		lastRefill: now,
		lastUsed:   now,
	}
}

// take consumes a token if one is available, otherwise reports the wait
// until the next refill.
func (tb *TokenBucket) take(now time.Time) (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.lastUsed = now
	elapsed := now.Sub(tb.lastRefill)
	if refills := int(elapsed / tb.refillTime); refills > 0 {
		tb.tokens += refills
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) Tokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

func (rl *RateLimiter) policyFor(action string) Policy {
	if p, ok := rl.policies[action]; ok {
		return p
	}
	return rl.fallback
}

// Allow checks if a user action is allowed and consumes a token if so.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if bucket, exists = rl.buckets[key]; !exists {
			bucket = newTokenBucket(rl.policyFor(action), now)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.take(now)
}

// Status returns the remaining and maximum tokens for a user action.
func (rl *RateLimiter) Status(userID, action string) (tokens int, maxTokens int) {
	rl.mutex.RLock()
	bucket, exists := rl.buckets[userID+":"+action]
	rl.mutex.RUnlock()

	if !exists {
		p := rl.policyFor(action)
		return p.Burst, p.Burst
	}
	return bucket.Tokens(), bucket.maxTokens
}

// Cleanup removes buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, bucket := range rl.buckets {
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastUsed)
		bucket.mutex.Unlock()
		if idle > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine prunes idle buckets every interval until done is closed.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration, done <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-done:
				return
			}
		}
	}()
}
