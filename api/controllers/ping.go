package controllers

import (
	"net/http"

	"github.com/angelmondragon/ordermanagement-api/api/middleware"
	"github.com/angelmondragon/ordermanagement-api/api/responses"
)

// PublicPing answers anonymous callers and echoes the account when a valid
// token is presented.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "public", "status": "ok"}
		if accountID := middleware.AccountIDFromContext(r.Context()); accountID != "" {
			payload["account_id"] = accountID
		}
		responses.WriteSuccess(w, payload)
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{
			"scope":      "private",
			"status":     "ok",
			"account_id": middleware.AccountIDFromContext(r.Context()),
		}
		if account := middleware.AccountFromContext(r.Context()); account != nil {
			payload["email"] = account.Email
		}
		responses.WriteSuccess(w, payload)
	}
}
