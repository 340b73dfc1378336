package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/cerebras"
	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage/memory"
)

type stubCompleter struct {
	lastPrompt string
	response   string
	err        error
	calls      int
}

func (c *stubCompleter) Complete(_ context.Context, req cerebras.CompletionRequest) (string, error) {
	c.calls++
	if len(req.Messages) > 0 {
		c.lastPrompt = req.Messages[0].Content
	}
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newTestReportService(broker *stubBroker, ai *stubCompleter) (*ReportService, *memory.TokenCache) {
	cache := memory.NewTokenCache()
	factory := &stubFactory{broker: broker}
	log := zap.NewNop().Sugar()
	orders := NewOrderService(cache, factory.new, log)
	profile := NewProfileService(cache, factory.new, log)
	return NewReportService(orders, profile, ai, log), cache
}

func TestPortfolioReport(t *testing.T) {
	ctx := context.Background()
	broker := &stubBroker{
		profile:   &models.Profile{UserID: "AB1234", UserName: "Test User", Broker: "ZERODHA"},
		positions: &models.Positions{Net: []models.Position{{TradingSymbol: "INFY", Quantity: 10}}},
		orders:    []models.Order{{OrderID: "1", TradingSymbol: "INFY"}},
	}
	ai := &stubCompleter{response: "Portfolio looks balanced."}
	svc, cache := newTestReportService(broker, ai)

	if err := cache.Put(ctx, "key1", "AT1", time.Hour); err != nil {
		t.Fatalf("cache put: %v", err)
	}

	report, err := svc.PortfolioReport(ctx, "key1", ReportOptions{IncludeRecommendations: true, RiskAnalysis: true})
	if err != nil {
		t.Fatalf("PortfolioReport failed: %v", err)
	}
	if !strings.Contains(report, "Portfolio looks balanced.") {
		t.Errorf("report %q does not contain the AI analysis", report)
	}

	if !strings.Contains(ai.lastPrompt, "INFY") {
		t.Errorf("prompt does not include positions: %q", ai.lastPrompt)
	}
	if !strings.Contains(ai.lastPrompt, "trading recommendations") {
		t.Errorf("prompt missing recommendations instruction: %q", ai.lastPrompt)
	}
	if !strings.Contains(ai.lastPrompt, "risk analysis") {
		t.Errorf("prompt missing risk analysis instruction: %q", ai.lastPrompt)
	}
}

func TestPortfolioReportNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	ai := &stubCompleter{response: "unused"}
	svc, _ := newTestReportService(&stubBroker{}, ai)

	if _, err := svc.PortfolioReport(ctx, "key1", ReportOptions{}); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
	if ai.calls != 0 {
		t.Errorf("AI called %d times for unauthenticated key", ai.calls)
	}
}
