package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trademcp/trademcp/internal/models"
)

func TestPlaceOrder(t *testing.T) {
	var gotReq models.PlaceOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/kite/order/place" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Success","data":{"orderId":"151220000000000","status":"success"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.PlaceOrder(context.Background(), models.PlaceOrderRequest{
		APIKey:          "key1",
		TradingSymbol:   "TCS",
		Quantity:        5,
		TransactionType: "BUY",
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if gotReq.TradingSymbol != "TCS" || gotReq.TransactionType != "BUY" {
		t.Errorf("request body = %+v", gotReq)
	}
	if result.OrderID != "151220000000000" || result.Status != "success" {
		t.Errorf("result = %+v", result)
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"Error","data":{"message":"Access token not found. Please authenticate first."}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Orders(context.Background(), "key1")
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status code = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Message != "Access token not found. Please authenticate first." {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestReportQueryParams(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/kite/report" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = map[string]string{
			"apiKey":          r.URL.Query().Get("apiKey"),
			"recommendations": r.URL.Query().Get("recommendations"),
			"riskAnalysis":    r.URL.Query().Get("riskAnalysis"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"Success","data":{"report":"All good."}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	report, err := c.Report(context.Background(), "key1", true, false)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report != "All good." {
		t.Errorf("report = %q", report)
	}
	if gotQuery["apiKey"] != "key1" || gotQuery["recommendations"] != "true" || gotQuery["riskAnalysis"] != "false" {
		t.Errorf("query = %+v", gotQuery)
	}
}

func TestProfileAndPositions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/kite/profile":
			w.Write([]byte(`{"status":"Success","data":{"user_id":"AB1234","broker":"ZERODHA"}}`))
		case "/kite/positions":
			w.Write([]byte(`{"status":"Success","data":{"net":[{"tradingsymbol":"INFY","quantity":10}],"day":[]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)

	profile, err := c.Profile(context.Background(), "key1")
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.UserID != "AB1234" {
		t.Errorf("profile = %+v", profile)
	}

	positions, err := c.Positions(context.Background(), "key1")
	if err != nil {
		t.Fatalf("Positions failed: %v", err)
	}
	if len(positions.Net) != 1 || positions.Net[0].TradingSymbol != "INFY" {
		t.Errorf("positions = %+v", positions)
	}
}
