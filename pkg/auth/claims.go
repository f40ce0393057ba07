package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID uuid.UUID
	Email     string
	Fullname  string
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients. The
// registered subject carries the account id.
type AccessTokenClaims struct {
	AccountID   uuid.UUID `json:"account_id"`
	Email       string    `json:"email"`
	Fullname    string    `json:"fullname"`
	SubjectType string    `json:"sub_type,omitempty"`
	jwt.RegisteredClaims
}
