package middleware

import (
	"context"
	"net/netip"
	"strings"
	"time"

	"github.com/mailrelay/mailrelay/internal/config"
	"github.com/mailrelay/mailrelay/internal/database"
	"github.com/mailrelay/mailrelay/internal/logger"
)

// Counter is the fixed-window counter store used by RateLimit.
// *database.Redis satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Middleware holds all HTTP middleware
type Middleware struct {
	counter Counter
	proxies []netip.Prefix
	log     *logger.Logger
	cfg     *config.Config
}

// New creates a new Middleware instance. rdb may be nil, in which case
// rate limiting is skipped.
func New(rdb *database.Redis, log *logger.Logger, cfg *config.Config) *Middleware {
	var counter Counter
	if rdb != nil {
		counter = rdb
	}
	return NewWithCounter(counter, log, cfg)
}

// NewWithCounter creates a Middleware that counts requests in counter.
// Unparseable trusted proxy entries are logged and skipped.
func NewWithCounter(counter Counter, log *logger.Logger, cfg *config.Config) *Middleware {
	m := &Middleware{
		counter: counter,
		log:     log,
		cfg:     cfg,
	}

	for _, entry := range cfg.Security.TrustedProxies {
		prefix, err := parseProxy(entry)
		if err != nil {
			log.Warn().Err(err).Str("proxy", entry).Msg("ignoring trusted proxy")
			continue
		}
		m.proxies = append(m.proxies, prefix)
	}

	return m
}

func parseProxy(entry string) (netip.Prefix, error) {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		prefix, err := netip.ParsePrefix(entry)
		return prefix.Masked(), err
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}
