package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/rohanverma/vastra-backend/internal/checkout"
	"github.com/rohanverma/vastra-backend/internal/orders"
	"github.com/rohanverma/vastra-backend/internal/payments"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
)

type stubCheckoutService struct {
	result *checkoutsvc.CheckoutResponse
	err    error

	gotUser uuid.UUID
	gotReq  checkoutsvc.CheckoutRequest
}

func (s *stubCheckoutService) Execute(ctx context.Context, userID uuid.UUID, req checkoutsvc.CheckoutRequest) (*checkoutsvc.CheckoutResponse, error) {
	s.gotUser = userID
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func checkoutBody(addressID, variantID uuid.UUID) string {
	return `{"address_id":"` + addressID.String() + `","items":[{"variant_id":"` + variantID.String() + `","quantity":2}]}`
}

func TestCheckoutSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	addressID := uuid.New()
	variantID := uuid.New()

	svc := &stubCheckoutService{result: &checkoutsvc.CheckoutResponse{
		Order: &orders.OrderDTO{
			ID:       uuid.New(),
			UserID:   userID,
			Status:   enums.OrderStatusPending,
			Total:    decimal.RequireFromString("998.00"),
			Currency: enums.CurrencyINR,
		},
		Payment: &payments.CheckoutRef{
			ProviderOrderID: "order_gw_1",
			AmountMinor:     99800,
			Currency:        enums.CurrencyINR,
		},
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody(addressID, variantID)))
	req = withUser(req, userID.String())
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotUser != userID {
		t.Fatalf("expected user %s got %s", userID, svc.gotUser)
	}
	if len(svc.gotReq.Items) != 1 || svc.gotReq.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items forwarded: %+v", svc.gotReq.Items)
	}

	var payload struct {
		Data struct {
			Order struct {
				Status string `json:"status"`
			} `json:"order"`
			Payment struct {
				ProviderOrderID string `json:"provider_order_id"`
			} `json:"payment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.Order.Status != string(enums.OrderStatusPending) {
		t.Fatalf("expected pending got %s", payload.Data.Order.Status)
	}
	if payload.Data.Payment.ProviderOrderID != "order_gw_1" {
		t.Fatalf("expected gateway order id got %s", payload.Data.Payment.ProviderOrderID)
	}
}

func TestCheckoutRequiresAuthContext(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody(uuid.New(), uuid.New())))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	body := `{"address_id":"` + uuid.NewString() + `","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = withUser(req, uuid.NewString())
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutPropagatesStockConflict(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock for variant")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(checkoutBody(uuid.New(), uuid.New())))
	req = withUser(req, uuid.NewString())
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}
