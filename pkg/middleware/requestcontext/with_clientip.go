package requestcontext

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gaze-network/distributor-network/pkg/logger"
	"github.com/gaze-network/distributor-network/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedProxiesIP lists every proxy CIDR between the server and the client. When set, the client IP
	// is the last X-Forwarded-For entry outside these ranges.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// TrustedHeader (e.g. X-Real-IP, CF-Connecting-IP) wins over every other source when it holds a valid IP.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// EnableRejectMalformedRequest rejects proxied requests whose client IP cannot be resolved with 403.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// WithClientIP resolves the caller IP with X-Forwarded-For spoofing prevention.
func WithClientIP(config WithClientIPConfig) Option {
	trustedProxies, err := parsePrefixes(config.TrustedProxiesIP)
	if err != nil {
		logger.Panic("Failed to parse trusted proxies", slogx.Error(err))
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		if config.TrustedHeader != "" {
			if ip, err := netip.ParseAddr(c.Get(config.TrustedHeader)); err == nil {
				return context.WithValue(ctx, clientIPKey{}, ip.String()), nil
			}
		}

		rawIPs := c.IPs()
		if len(rawIPs) == 0 {
			return context.WithValue(ctx, clientIPKey{}, c.IP()), nil
		}

		if len(trustedProxies) > 0 {
			if ip, ok := untrustedClientIP(rawIPs, trustedProxies); ok {
				return context.WithValue(ctx, clientIPKey{}, ip), nil
			}
			return context.WithValue(ctx, clientIPKey{}, rawIPs[0]), nil
		}

		if config.EnableRejectMalformedRequest {
			logger.WarnContext(ctx, "IP Spoofing detected, returning 403 Forbidden",
				slog.String("event", "requestcontext/ip_spoofing_detected"),
				slog.String("module", "requestcontext/with_clientip"),
				slog.String("ip", c.IP()),
				slog.Any("ips", rawIPs),
			)
			return nil, errs.NewPublicError(errs.Forbidden, "not allowed to access")
		}
		return context.WithValue(ctx, clientIPKey{}, rawIPs[0]), nil
	}
}

// GetClientIP returns the resolved client IP, or "" when the request context was not set up.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// untrustedClientIP walks X-Forwarded-For from the right and returns the first valid IP outside trusted ranges.
func untrustedClientIP(ips []string, trusted []netip.Prefix) (string, bool) {
	for i := len(ips) - 1; i >= 0; i-- {
		ip, err := netip.ParseAddr(ips[i])
		if err != nil {
			continue
		}
		ip = ip.Unmap()
		if !lo.ContainsBy(trusted, func(p netip.Prefix) bool { return p.Contains(ip) }) {
			return ip.String(), true
		}
	}
	return "", false
}

func parsePrefixes(ranges []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(ranges))
	for _, r := range ranges {
		prefix, err := netip.ParsePrefix(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse CIDR for %q", r)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}
