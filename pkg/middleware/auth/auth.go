// Package auth verifies bearer tokens issued by the wallet sign-in service and exposes the
// verified (distributorId, role) pair to handlers. Token issuance is not handled here.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/distributor-network/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
)

const (
	RoleDistributor = "distributor"
	RoleAdmin       = "admin"
)

type Config struct {
	HMACSecret string        `mapstructure:"hmac_secret"`
	Issuer     string        `mapstructure:"issuer"`
	ClockSkew  time.Duration `mapstructure:"clock_skew"`
}

// Identity is the verified caller.
type Identity struct {
	DistributorID string
	Role          string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Claims is the token payload. Subject holds the distributor id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type identityKey struct{}

// FromContext returns the verified identity attached by [Authenticator.New].
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// NewContext attaches identity to ctx.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

type Authenticator struct {
	secret    []byte
	issuer    string
	clockSkew time.Duration
}

func NewAuthenticator(conf Config) (*Authenticator, error) {
	secret := strings.TrimSpace(conf.HMACSecret)
	if secret == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "auth hmac secret is required")
	}
	skew := conf.ClockSkew
	if skew <= 0 {
		skew = 2 * time.Minute
	}
	return &Authenticator{
		secret:    []byte(secret),
		issuer:    conf.Issuer,
		clockSkew: skew,
	}, nil
}

// New returns a fiber middleware that rejects requests without a valid bearer token.
// When roles are given, the caller's role must be one of them.
func (a *Authenticator) New(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return errs.NewPublicError(errs.Unauthorized, "missing bearer token")
		}
		id, err := a.Verify(token)
		if err != nil {
			return errs.WithPublicMessage(errors.Mark(err, errs.Unauthorized), "invalid token")
		}
		if len(roles) > 0 && !lo.Contains(roles, id.Role) {
			return errs.NewPublicError(errs.Forbidden, "insufficient role")
		}
		c.SetUserContext(NewContext(c.UserContext(), id))
		return c.Next()
	}
}

// Verify parses and validates a signed token.
func (a *Authenticator) Verify(token string) (Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(a.clockSkew),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...); err != nil {
		return Identity{}, errors.WithStack(err)
	}
	if claims.Subject == "" {
		return Identity{}, errors.New("token has no subject")
	}
	switch claims.Role {
	case RoleDistributor, RoleAdmin:
	default:
		return Identity{}, errors.Newf("unknown role %q", claims.Role)
	}
	return Identity{DistributorID: claims.Subject, Role: claims.Role}, nil
}

// Sign issues a token for id. Used by tooling and tests; production tokens come from the sign-in service.
func (a *Authenticator) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.DistributorID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
