// Package ratelimit throttles requests per client with a Redis-backed GCRA
// limiter.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/pension-verification/pkg/logger"
	"github.com/segyhp/pension-verification/pkg/response"
)

// Limiter decides whether the request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit defines the rate limit rule
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// PerMinute allows rate requests per minute with an equal burst.
func PerMinute(rate int) Limit {
	return Limit{Rate: rate, Period: time.Minute, Burst: rate}
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisLimiter implements Limiter using Redis
type RedisLimiter struct {
	limiter *redis_rate.Limiter
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(rdb),
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}

// Middleware limits requests per client IP under scope. Forwarding headers
// are honoured only for peers in proxies; a nil proxies trusts none. A
// limiter error lets the request through.
func Middleware(limiter Limiter, scope string, limit Limit, proxies *TrustedProxies) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := Key(scope, proxies.ClientIP(r))

			res, err := limiter.Allow(r.Context(), key, limit)
			if err != nil {
				logger.Warn(r.Context(), "rate limiter unavailable, allowing request", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(res.ResetAfter)))

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(ceilSeconds(res.RetryAfter)))
				response.TooManyRequests(w, "Too many requests, please retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Key builds the Redis key for a scope and client.
func Key(scope, client string) string {
	return "ratelimit:" + scope + ":" + client
}

// TrustedProxies is the set of networks allowed to report the client address
// through X-Forwarded-For or X-Real-IP.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies accepts CIDRs and bare IPs.
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	proxies := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				bits = 32
			}
			entry = fmt.Sprintf("%s/%d", ip.String(), bits)
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		proxies.nets = append(proxies.nets, network)
	}
	return proxies, nil
}

func (t *TrustedProxies) trusts(ip string) bool {
	if t == nil {
		return false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range t.nets {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

// ClientIP returns the connection's remote address unless that peer is a
// trusted proxy. Behind a trusted proxy it walks X-Forwarded-For from the
// right and returns the first hop that is not itself trusted, falling back to
// X-Real-IP.
func (t *TrustedProxies) ClientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !t.trusts(peer) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" || net.ParseIP(hop) == nil {
				break
			}
			if !t.trusts(hop) || i == 0 {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
