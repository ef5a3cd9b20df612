package controllers

import (
	"net/http"

	"github.com/rajagrocer/storefront-backend/api/responses"
	"github.com/rajagrocer/storefront-backend/api/validators"
	"github.com/rajagrocer/storefront-backend/internal/checkout"
	"github.com/rajagrocer/storefront-backend/pkg/enums"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	Payment string `json:"payment" validate:"required,oneof=UPI COD"`
}

type checkoutResponse struct {
	OrderCode string `json:"orderCode"`
	Total     string `json:"total"`
	Message   string `json:"message,omitempty"`
}

// Checkout submits the cart as an order. On success the response carries the
// submitted order code; the cart is already empty and holding a fresh code by
// the time the caller sees it.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := enums.ParsePaymentMethod(payload.Payment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Submit(r.Context(), payment)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			OrderCode: result.OrderCode,
			Total:     result.Total,
			Message:   result.Message,
		})
	}
}
