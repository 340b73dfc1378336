package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/cerebras"
	"github.com/trademcp/trademcp/internal/models"
)

const (
	reportMaxTokens   = 2000
	reportTemperature = 0.7
	recentOrdersLimit = 10
)

// Completer is the slice of the AI client the report service uses.
type Completer interface {
	Complete(ctx context.Context, req cerebras.CompletionRequest) (string, error)
}

type ReportOptions struct {
	IncludeRecommendations bool
	RiskAnalysis           bool
}

// ReportService composes portfolio data into an AI-generated analysis.
// It reuses the token-gated proxy services, so an unauthenticated API key
// fails before any broker or AI call is made.
type ReportService struct {
	orders  *OrderService
	profile *ProfileService
	ai      Completer
	log     *zap.SugaredLogger
}

func NewReportService(orders *OrderService, profile *ProfileService, ai Completer, log *zap.SugaredLogger) *ReportService {
	return &ReportService{
		orders:  orders,
		profile: profile,
		ai:      ai,
		log:     log,
	}
}

func (s *ReportService) PortfolioReport(ctx context.Context, apiKey string, opts ReportOptions) (string, error) {
	s.log.Infow("Generating portfolio report", "apiKey", apiKey)

	profile, err := s.profile.Profile(ctx, apiKey)
	if err != nil {
		return "", err
	}
	positions, err := s.orders.Positions(ctx, apiKey)
	if err != nil {
		return "", err
	}
	book, err := s.orders.OrderBook(ctx, apiKey)
	if err != nil {
		return "", err
	}

	recent := book.Orders
	if len(recent) > recentOrdersLimit {
		recent = recent[:recentOrdersLimit]
	}

	prompt, err := buildReportPrompt(profile, positions.Net, recent, opts)
	if err != nil {
		return "", err
	}

	report, err := s.ai.Complete(ctx, cerebras.CompletionRequest{
		Messages:    []cerebras.Message{{Role: "user", Content: prompt}},
		MaxTokens:   reportMaxTokens,
		Temperature: reportTemperature,
	})
	if err != nil {
		s.log.Errorw("report generation failed", "error", err)
		return "", fmt.Errorf("failed to generate portfolio report: %w", err)
	}

	return fmt.Sprintf("%s\n\n---\nGenerated on %s", report, time.Now().Format("2006-01-02")), nil
}

func buildReportPrompt(profile *models.Profile, positions []models.Position, orders []models.Order, opts ReportOptions) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	positionsJSON, err := json.Marshal(positions)
	if err != nil {
		return "", fmt.Errorf("marshal positions: %w", err)
	}
	ordersJSON, err := json.Marshal(orders)
	if err != nil {
		return "", fmt.Errorf("marshal orders: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analyze this trading portfolio and generate a comprehensive report:\n\n")
	fmt.Fprintf(&b, "User Profile: %s\n", profileJSON)
	fmt.Fprintf(&b, "Current Positions: %s\n", positionsJSON)
	fmt.Fprintf(&b, "Recent Orders: %s\n\n", ordersJSON)

	if opts.IncludeRecommendations {
		b.WriteString("Include personalized trading recommendations based on the portfolio.\n")
	}
	if opts.RiskAnalysis {
		b.WriteString("Provide detailed risk analysis and diversification suggestions.\n")
	}

	b.WriteString(`
Format the report as a professional financial analysis with sections for:
1. Portfolio Overview
2. Performance Analysis
3. Risk Assessment
4. Recommendations
5. Market Insights

Make it comprehensive but concise.`)

	return b.String(), nil
}
