package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/oemcatalog/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyTokenIssue = "auth:token:%s:%s"

// TokenLimiter throttles token issuance per endpoint and client address.
// A nil limiter allows everything.
type TokenLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

func NewTokenLimiter(p Params) (*TokenLimiter, error) {
	limitCfg := p.Cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.TokenRate <= 0 || limitCfg.TokenBurst <= 0 {
		return nil, errors.New("token rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Log.Warn("rate limit redis unreachable", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return NewTokenLimiterWithBucket(NewTokenBucket(client), limitCfg.TokenRate, limitCfg.TokenBurst), nil
}

func NewTokenLimiterWithBucket(bucket *TokenBucket, rate float64, burst int) *TokenLimiter {
	return &TokenLimiter{bucket: bucket, rate: rate, burst: burst}
}

func (l *TokenLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *TokenLimiter) Allow(ctx context.Context, endpoint, client string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyTokenIssue, strings.TrimSpace(endpoint), strings.TrimSpace(client))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
