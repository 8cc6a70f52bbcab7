package utility

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// ErrRateLimited is returned once an IP exhausts its attempts in the window.
var ErrRateLimited = errors.New("too many attempts, please try again later")

// NewIPExtractor decides how c.RealIP() finds the client address. Without
// trusted proxies the peer address is used and forwarding headers are
// ignored. With them, X-Forwarded-For is honoured only for hops inside the
// given CIDRs (or bare IPs).
func NewIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, p := range trustedProxies {
		p = strings.TrimSpace(p)
		if !strings.Contains(p, "/") {
			if ip := net.ParseIP(p); ip != nil && ip.To4() != nil {
				p += "/32"
			} else {
				p += "/128"
			}
		}
		_, ipNet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}

// IPRateLimiter allows at most max attempts per IP in a sliding window.
// IPs with no attempt left in the window are swept at most once per window.
type IPRateLimiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	window    time.Duration
	max       int
	now       func() time.Time
	lastSweep time.Time
}

func NewIPRateLimiter(window time.Duration, maxAttempts int) *IPRateLimiter {
	return &IPRateLimiter{
		attempts: make(map[string][]time.Time),
		window:   window,
		max:      maxAttempts,
		now:      time.Now,
	}
}

// Check records an attempt for ip, or returns ErrRateLimited without
// recording it when the window is already full. A non-positive max disables
// limiting.
func (l *IPRateLimiter) Check(ip string) error {
	if l.max <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	recent := l.recent(ip, now)
	if len(recent) >= l.max {
		l.attempts[ip] = recent
		return ErrRateLimited
	}

	l.attempts[ip] = append(recent, now)
	return nil
}

// Tracked reports how many IPs currently hold attempt history.
func (l *IPRateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

func (l *IPRateLimiter) recent(ip string, now time.Time) []time.Time {
	var recent []time.Time
	for _, t := range l.attempts[ip] {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}
	return recent
}

func (l *IPRateLimiter) sweep(now time.Time) {
	for ip := range l.attempts {
		if len(l.recent(ip, now)) == 0 {
			delete(l.attempts, ip)
		}
	}
	l.lastSweep = now
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
