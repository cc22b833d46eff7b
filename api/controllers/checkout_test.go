package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/slopwear/storefront-backend/api/middleware"
	checkoutsvc "github.com/slopwear/storefront-backend/internal/checkout"
	"github.com/slopwear/storefront-backend/pkg/logger"
)

type fakeCheckoutService struct {
	calls      int
	lastCaller checkoutsvc.Caller
	lastReq    checkoutsvc.SessionRequest
	url        string
	err        error
}

func (f *fakeCheckoutService) CreateSession(ctx context.Context, caller checkoutsvc.Caller, req checkoutsvc.SessionRequest) (string, error) {
	f.calls++
	f.lastCaller = caller
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target, body string, accountID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := middleware.WithAccountID(req.Context(), accountID.String())
	ctx = middleware.WithEmail(ctx, "shopper@example.com")
	return req.WithContext(ctx)
}

func TestCheckoutSessionSuccess(t *testing.T) {
	svc := &fakeCheckoutService{url: "https://checkout.stripe.com/pay/cs_1"}
	handler := CheckoutSession(svc, quietLogger())
	accountID := uuid.New()

	body := `{"price_id":"price_1RgTl100QL3l2eWUTfMpkxVy","mode":"payment","success_url":"https://shop.example.com/success","cancel_url":"https://shop.example.com/cancel","quantity":2}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout/session", body, accountID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.URL != svc.url {
		t.Fatalf("unexpected url %q", envelope.Data.URL)
	}
	if svc.lastCaller.AccountID != accountID || svc.lastCaller.Email != "shopper@example.com" {
		t.Fatalf("caller not forwarded: %+v", svc.lastCaller)
	}
	if svc.lastReq.Quantity != 2 || svc.lastReq.Mode != "payment" {
		t.Fatalf("request not forwarded: %+v", svc.lastReq)
	}
}

func TestCheckoutSessionDefaultsOmittedQuantity(t *testing.T) {
	svc := &fakeCheckoutService{url: "https://checkout.stripe.com/pay/cs_1"}
	handler := CheckoutSession(svc, quietLogger())

	body := `{"price_id":"price_1RgTl100QL3l2eWUTfMpkxVy","mode":"payment","success_url":"https://shop.example.com/success","cancel_url":"https://shop.example.com/cancel"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout/session", body, uuid.New()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastReq.Quantity != 1 {
		t.Fatalf("omitted quantity should default to 1, got %d", svc.lastReq.Quantity)
	}
}

func TestCheckoutSessionMissingIdentity(t *testing.T) {
	svc := &fakeCheckoutService{url: "https://example.com"}
	handler := CheckoutSession(svc, quietLogger())

	body := `{"price_id":"p","mode":"payment","success_url":"https://a.example","cancel_url":"https://b.example"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/session", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("service should not run without identity")
	}
}

func TestCheckoutSessionValidation(t *testing.T) {
	svc := &fakeCheckoutService{}
	handler := CheckoutSession(svc, quietLogger())
	accountID := uuid.New()

	for name, body := range map[string]string{
		"missing price":   `{"mode":"payment","success_url":"https://a.example","cancel_url":"https://b.example"}`,
		"missing mode":    `{"price_id":"p","success_url":"https://a.example","cancel_url":"https://b.example"}`,
		"bad mode":        `{"price_id":"p","mode":"donation","success_url":"https://a.example","cancel_url":"https://b.example"}`,
		"missing success": `{"price_id":"p","mode":"payment","cancel_url":"https://b.example"}`,
		"missing cancel":  `{"price_id":"p","mode":"payment","success_url":"https://a.example"}`,
		"zero quantity":   `{"price_id":"p","mode":"payment","success_url":"https://a.example","cancel_url":"https://b.example","quantity":0}`,
		"unknown field":   `{"price_id":"p","mode":"payment","success_url":"https://a.example","cancel_url":"https://b.example","extra":true}`,
		"malformed body":  `{"price_id":`,
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout/session", body, accountID))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d (%s)", name, rec.Code, rec.Body.String())
		}
	}
	if svc.calls != 0 {
		t.Fatalf("service should not run for invalid payloads, calls %d", svc.calls)
	}
}
