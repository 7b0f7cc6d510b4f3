package controllers

import (
	"net/http"

	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/api/validators"
	"github.com/tienditalabs/tiendita-backend/internal/newsletter"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewsletterSubscribe records a storefront newsletter signup.
func NewsletterSubscribe(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload subscribeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subscriber, err := svc.Subscribe(r.Context(), payload.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"email":  subscriber.Email,
			"status": "subscribed",
		})
	}
}
