package auth

import (
	"time"

	"github.com/angelmondragon/ordermanagement-api/pkg/config"
)

// Issuer binds the JWT configuration to a clock so callers can mint and
// verify tokens without threading both through every call.
type Issuer struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewIssuer constructs an Issuer using the wall clock.
func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	clone := *i
	clone.now = now
	return &clone
}

// Issue mints a token for the payload. A fresh jti is generated per call, so
// issuing twice for the same account yields distinct tokens.
func (i *Issuer) Issue(payload AccessTokenPayload) (string, *AccessTokenClaims, error) {
	return MintAccessToken(i.cfg, i.now(), payload)
}

// Verify checks signature, issuer and expiry and returns the claims.
func (i *Issuer) Verify(token string) (*AccessTokenClaims, error) {
	return ParseAccessToken(i.cfg, i.now(), token)
}

// Now exposes the issuer clock.
func (i *Issuer) Now() time.Time {
	return i.now()
}
