package controllers

import (
	"net/http"

	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/api/validators"
	"github.com/tienditalabs/tiendita-backend/internal/auth"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin exchanges panel credentials for an access token.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
