package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rohanverma/vastra-backend/internal/orders"
	"github.com/rohanverma/vastra-backend/pkg/enums"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/pagination"
)

type stubOrdersService struct {
	order *orders.OrderDTO
	err   error

	verifyCalls []orders.VerifyPaymentInput
}

func (s *stubOrdersService) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, s.err
}

func (s *stubOrdersService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) AdminList(ctx context.Context, params pagination.Params, status *enums.OrderStatus) (*orders.OrderList, error) {
	return &orders.OrderList{}, s.err
}

func (s *stubOrdersService) AdminGet(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrdersService) VerifyPayment(ctx context.Context, input orders.VerifyPaymentInput) (*orders.OrderDTO, error) {
	s.verifyCalls = append(s.verifyCalls, input)
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func TestPaymentVerifySuccess(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{order: &orders.OrderDTO{
		ID:              uuid.New(),
		Status:          enums.OrderStatusProcessing,
		ProviderOrderID: "order_gw_1",
	}}

	body := `{"provider_order_id":"order_gw_1","payment_id":"pay_1","signature":"abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body))
	resp := httptest.NewRecorder()

	PaymentVerify(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.verifyCalls) != 1 {
		t.Fatalf("expected one verify call, got %d", len(svc.verifyCalls))
	}
	if svc.verifyCalls[0].PaymentID != "pay_1" {
		t.Fatalf("unexpected payment id %q", svc.verifyCalls[0].PaymentID)
	}

	var payload struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.Status != string(enums.OrderStatusProcessing) {
		t.Fatalf("expected processing got %s", payload.Data.Status)
	}
}

func TestPaymentVerifyRejectsIncompletePayload(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{}
	body := `{"provider_order_id":"order_gw_1","payment_id":"pay_1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body))
	resp := httptest.NewRecorder()

	PaymentVerify(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.verifyCalls) != 0 {
		t.Fatalf("service should not be called on invalid payload")
	}
}

func TestPaymentVerifyMapsSignatureMismatch(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeValidation, "invalid payment signature")}
	body := `{"provider_order_id":"order_gw_1","payment_id":"pay_1","signature":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body))
	resp := httptest.NewRecorder()

	PaymentVerify(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", payload.Error.Code)
	}
}

func TestAdminOrderUpdateStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{}
	body := `{"status":"teleported"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	req = withChiParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()

	AdminOrderUpdateStatus(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderUpdateStatusPropagatesStateConflict(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order enters processing through payment verification")}
	body := `{"status":"processing"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	req = withChiParam(req, "orderId", uuid.NewString())
	resp := httptest.NewRecorder()

	AdminOrderUpdateStatus(svc, nil)(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
