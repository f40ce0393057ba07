package controllers

import (
	"net/http"

	"github.com/angelmondragon/ordermanagement-api/api/middleware"
	"github.com/angelmondragon/ordermanagement-api/api/responses"
	"github.com/angelmondragon/ordermanagement-api/api/validators"
	"github.com/angelmondragon/ordermanagement-api/internal/accounts"
	pkgerrors "github.com/angelmondragon/ordermanagement-api/pkg/errors"
	"github.com/angelmondragon/ordermanagement-api/pkg/logger"
)

type signupRequest struct {
	Account struct {
		Fullname string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"account"`
}

type signinRequest struct {
	Account struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"account"`
}

type updateAccountRequest struct {
	Account struct {
		CurrentPassword string  `json:"currentPassword"`
		Fullname        *string `json:"fullname,omitempty"`
		Email           *string `json:"email,omitempty"`
		Password        *string `json:"password,omitempty"`
	} `json:"account"`
}

// AccountSignup registers an account and returns it with a fresh token.
func AccountSignup(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var payload signupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Signup(r.Context(), accounts.SignupInput{
			Fullname: payload.Account.Fullname,
			Email:    payload.Account.Email,
			Password: payload.Account.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AccountSignin exchanges credentials for a token.
func AccountSignin(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var payload signinRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Signin(r.Context(), accounts.SigninInput{
			Email:    payload.Account.Email,
			Password: payload.Account.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AccountProfile returns the authenticated account.
func AccountProfile(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		view, err := svc.Get(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AccountUpdate changes profile fields or the password after checking the
// current password.
func AccountUpdate(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		var payload updateAccountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), middleware.IdentityFromContext(r.Context()), accounts.UpdateInput{
			CurrentPassword: payload.Account.CurrentPassword,
			Fullname:        payload.Account.Fullname,
			Email:           payload.Account.Email,
			Password:        payload.Account.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AccountSignout revokes the presented token.
func AccountSignout(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		if err := svc.Signout(r.Context(), middleware.IdentityFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
