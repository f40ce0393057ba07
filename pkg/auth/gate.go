package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/angelmondragon/ordermanagement-api/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorizationScheme is the scheme clients use in the Authorization header.
const AuthorizationScheme = "Token"

// ErrRevocationUnavailable marks a revocation lookup that could not complete
// when the gate fails closed.
var ErrRevocationUnavailable = errors.New("revocation registry unavailable")

// TokenVerifier validates a raw token string.
type TokenVerifier interface {
	Verify(token string) (*AccessTokenClaims, error)
}

// RevocationChecker reports whether a token id was revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AccountResolver loads the account a token refers to. Implementations
// return gorm.ErrRecordNotFound when the account does not exist.
type AccountResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Account *models.Account
	Claims  *AccessTokenClaims
	Token   string
}

// Gate authenticates requests from their Authorization header.
type Gate struct {
	verifier    TokenVerifier
	revocations RevocationChecker
	accounts    AccountResolver
	failOpen    bool
	metrics     *metrics.AuthMetrics
}

// GateParams bundles the dependencies required to build a Gate.
type GateParams struct {
	Verifier    TokenVerifier
	Revocations RevocationChecker
	Accounts    AccountResolver
	// FailOpen lets requests through when the revocation lookup fails.
	FailOpen bool
	Metrics  *metrics.AuthMetrics
}

// NewGate validates dependencies and constructs a Gate.
func NewGate(params GateParams) (*Gate, error) {
	if params.Verifier == nil {
		return nil, fmt.Errorf("token verifier is required")
	}
	if params.Revocations == nil {
		return nil, fmt.Errorf("revocation checker is required")
	}
	if params.Accounts == nil {
		return nil, fmt.Errorf("account resolver is required")
	}
	return &Gate{
		verifier:    params.Verifier,
		revocations: params.Revocations,
		accounts:    params.Accounts,
		failOpen:    params.FailOpen,
		metrics:     params.Metrics,
	}, nil
}

// ExtractToken pulls the token out of an Authorization header value. Both
// "Token <jwt>" and "Bearer <jwt>" are accepted. A header in any other scheme
// carries no token of ours and is reported as missing.
func ExtractToken(header string) (string, *RejectionError) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", Reject(ReasonMissing, nil)
	}
	scheme, token, _ := strings.Cut(raw, " ")
	if !strings.EqualFold(scheme, AuthorizationScheme) && !strings.EqualFold(scheme, "Bearer") {
		return "", Reject(ReasonMissing, fmt.Errorf("unsupported authorization scheme %q", scheme))
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", Reject(ReasonMissing, nil)
	}
	return token, nil
}

// Authenticate runs extraction, verification, revocation and identity checks
// in that order and stops at the first failure. Rejections are returned as
// *RejectionError; any other error is an infrastructure failure.
func (g *Gate) Authenticate(ctx context.Context, header string) (*Identity, error) {
	token, rejection := ExtractToken(header)
	if rejection != nil {
		return nil, rejection
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		if _, ok := RejectionReason(err); ok {
			return nil, err
		}
		return nil, Reject(ReasonMalformed, err)
	}

	revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		g.metrics.IncLookupFailure()
		if !g.failOpen {
			return nil, Reject(ReasonRevoked, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err))
		}
	}
	if revoked {
		return nil, Reject(ReasonRevoked, nil)
	}

	account, err := g.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Reject(ReasonStaleIdentity, fmt.Errorf("account no longer exists"))
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return nil, Reject(ReasonStaleIdentity, fmt.Errorf("account no longer exists"))
	}
	if account.Email != claims.Email {
		return nil, Reject(ReasonStaleIdentity, fmt.Errorf("account email changed since issuance"))
	}

	return &Identity{Account: account, Claims: claims, Token: token}, nil
}
