package accounts

import (
	"github.com/angelmondragon/ordermanagement-api/pkg/db/models"
	"github.com/google/uuid"
)

// SummaryView is the public shape of an account.
type SummaryView struct {
	ID       uuid.UUID `json:"id"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
}

// AuthView is returned by signup, signin and profile calls, carrying a fresh
// token alongside the summary.
type AuthView struct {
	SummaryView
	Token string `json:"token"`
}

// NewSummaryView projects an account without its credential.
func NewSummaryView(a *models.Account) SummaryView {
	if a == nil {
		return SummaryView{}
	}
	return SummaryView{ID: a.ID, Fullname: a.Fullname, Email: a.Email}
}

// NewAuthView attaches a token to the account summary.
func NewAuthView(a *models.Account, token string) *AuthView {
	return &AuthView{SummaryView: NewSummaryView(a), Token: token}
}

// SignupInput carries the validated signup payload.
type SignupInput struct {
	Fullname string
	Email    string
	Password string
}

// SigninInput carries the credentials presented at signin.
type SigninInput struct {
	Email    string
	Password string
}

// UpdateInput describes a profile change. CurrentPassword is always
// required; nil fields are left untouched.
type UpdateInput struct {
	CurrentPassword string
	Fullname        *string
	Email           *string
	Password        *string
}
