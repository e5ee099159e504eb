package controllers

import (
	"net/http"

	"github.com/rohanverma/vastra-backend/api/responses"
	"github.com/rohanverma/vastra-backend/api/validators"
	"github.com/rohanverma/vastra-backend/internal/orders"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
)

type verifyPaymentRequest struct {
	ProviderOrderID string `json:"provider_order_id" validate:"required"`
	PaymentID       string `json:"payment_id" validate:"required"`
	Signature       string `json:"signature" validate:"required"`
}

// PaymentVerify is the gateway callback: it checks the HMAC signature and
// moves the matching pending order into processing exactly once.
func PaymentVerify(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body verifyPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.VerifyPayment(r.Context(), orders.VerifyPaymentInput{
			ProviderOrderID: body.ProviderOrderID,
			PaymentID:       body.PaymentID,
			Signature:       body.Signature,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
