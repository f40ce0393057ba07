package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/ordermanagement-api/pkg/auth"
	"github.com/angelmondragon/ordermanagement-api/pkg/config"
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/metrics"
	"github.com/angelmondragon/ordermanagement-api/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	blankMessage              = "can't be blank"
	invalidCredentialsField   = "email or password"
	invalidCredentialsMessage = "is invalid"
	emailTakenMessage         = "is already taken"
	wrongPasswordMessage      = "current password isn't correct"
)

// Service defines the account lifecycle used by the accounts controller.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*AuthView, error)
	Signin(ctx context.Context, input SigninInput) (*AuthView, error)
	Get(ctx context.Context, identity *pkgAuth.Identity) (*AuthView, error)
	Update(ctx context.Context, identity *pkgAuth.Identity, input UpdateInput) (*AuthView, error)
	Signout(ctx context.Context, identity *pkgAuth.Identity) error
}

type accountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
}

type tokenIssuer interface {
	Issue(payload pkgAuth.AccessTokenPayload) (string, *pkgAuth.AccessTokenClaims, error)
	Now() time.Time
}

type tokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type service struct {
	accounts    accountRepository
	issuer      tokenIssuer
	revocations tokenRevoker
	passwordCfg config.PasswordConfig
	metrics     *metrics.AuthMetrics
}

// ServiceParams bundles the dependencies required to build an accounts service.
type ServiceParams struct {
	Accounts    accountRepository
	Issuer      tokenIssuer
	Revocations tokenRevoker
	Password    config.PasswordConfig
	Metrics     *metrics.AuthMetrics
}

// NewService constructs an accounts service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if params.Issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if params.Revocations == nil {
		return nil, fmt.Errorf("revocation registry is required")
	}
	return &service{
		accounts:    params.Accounts,
		issuer:      params.Issuer,
		revocations: params.Revocations,
		passwordCfg: params.Password,
		metrics:     params.Metrics,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*AuthView, error) {
	fullname := strings.TrimSpace(input.Fullname)
	email := strings.TrimSpace(input.Email)

	details := map[string]string{}
	if fullname == "" {
		details["fullname"] = blankMessage
	}
	if email == "" {
		details["email"] = blankMessage
	}
	if input.Password == "" {
		details["password"] = blankMessage
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	cred, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	account := &models.Account{
		Fullname:   fullname,
		Email:      email,
		Salt:       cred.Salt,
		Hash:       cred.Hash,
		Iterations: cred.Iterations,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if isDuplicateEmail(err) {
			return nil, pkgerrors.Field(pkgerrors.CodeConflict, "email", emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create account")
	}

	return s.authView(account)
}

func (s *service) Signin(ctx context.Context, input SigninInput) (*AuthView, error) {
	email := strings.TrimSpace(input.Email)
	details := map[string]string{}
	if email == "" {
		details["email"] = blankMessage
	}
	if input.Password == "" {
		details["password"] = blankMessage
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup account")
	}

	ok, err := security.VerifyPassword(input.Password, credentialOf(account), s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalidCredentials()
	}

	return s.authView(account)
}

func (s *service) Get(ctx context.Context, identity *pkgAuth.Identity) (*AuthView, error) {
	account, err := accountOf(identity)
	if err != nil {
		return nil, err
	}
	return s.authView(account)
}

func (s *service) Update(ctx context.Context, identity *pkgAuth.Identity, input UpdateInput) (*AuthView, error) {
	current, err := accountOf(identity)
	if err != nil {
		return nil, err
	}
	if input.CurrentPassword == "" {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "currentPassword", blankMessage)
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, credentialOf(current), s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.Field(pkgerrors.CodeValidation, "currentPassword", wrongPasswordMessage)
	}

	account := *current
	details := map[string]string{}
	if input.Fullname != nil {
		if v := strings.TrimSpace(*input.Fullname); v != "" {
			account.Fullname = v
		} else {
			details["fullname"] = blankMessage
		}
	}
	if input.Email != nil {
		if v := strings.TrimSpace(*input.Email); v != "" {
			account.Email = v
		} else {
			details["email"] = blankMessage
		}
	}
	if input.Password != nil {
		if *input.Password == "" {
			details["password"] = blankMessage
		} else {
			cred, err := security.HashPassword(*input.Password, s.passwordCfg)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
			}
			account.Salt = cred.Salt
			account.Hash = cred.Hash
			account.Iterations = cred.Iterations
		}
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if err := s.accounts.Update(ctx, &account); err != nil {
		if isDuplicateEmail(err) {
			return nil, pkgerrors.Field(pkgerrors.CodeConflict, "email", emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update account")
	}

	return s.authView(&account)
}

// Signout revokes the presented token for the rest of its lifetime.
func (s *service) Signout(ctx context.Context, identity *pkgAuth.Identity) error {
	if identity == nil || identity.Claims == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "identity missing")
	}
	ttl := identity.Claims.Remaining(s.issuer.Now())
	if err := s.revocations.Revoke(ctx, identity.Claims.ID, ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke token")
	}
	s.metrics.IncRevocation()
	return nil
}

func (s *service) authView(account *models.Account) (*AuthView, error) {
	token, _, err := s.issuer.Issue(pkgAuth.AccessTokenPayload{
		AccountID: account.ID,
		Email:     account.Email,
		Fullname:  account.Fullname,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return NewAuthView(account, token), nil
}

func accountOf(identity *pkgAuth.Identity) (*models.Account, error) {
	if identity == nil || identity.Account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity missing")
	}
	return identity.Account, nil
}

func credentialOf(account *models.Account) security.Credential {
	return security.Credential{Salt: account.Salt, Hash: account.Hash, Iterations: account.Iterations}
}

func invalidCredentials() error {
	return pkgerrors.Field(pkgerrors.CodeValidation, invalidCredentialsField, invalidCredentialsMessage)
}
