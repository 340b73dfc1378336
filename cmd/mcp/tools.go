package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/cerebras"
	"github.com/trademcp/trademcp/internal/client"
	"github.com/trademcp/trademcp/internal/models"
)

const (
	sentimentMaxTokens   = 1500
	sentimentTemperature = 0.6
	strategyMaxTokens    = 1800
	strategyTemperature  = 0.7
)

type toolServer struct {
	api *client.Client
	ai  *cerebras.Client
	log *zap.SugaredLogger
}

func (t *toolServer) register(s *server.MCPServer) {
	s.AddTool(orderTool("buy-stock", "Place a buy order for a stock using Kite Connect API"), t.placeOrderHandler("BUY"))
	s.AddTool(orderTool("sell-stock", "Place a sell order for a stock using Kite Connect API"), t.placeOrderHandler("SELL"))

	s.AddTool(mcp.NewTool("analyze-portfolio",
		mcp.WithDescription("Get detailed portfolio analysis including positions and holdings"),
		mcp.WithString("apiKey", mcp.Required(), mcp.Description("Your Kite API key")),
	), t.analyzePortfolio)

	s.AddTool(mcp.NewTool("generate-portfolio-report",
		mcp.WithDescription("Generate a comprehensive report using Cerebras AI analysis"),
		mcp.WithString("apiKey", mcp.Required(), mcp.Description("Your Kite API key")),
		mcp.WithBoolean("includeRecommendations", mcp.Description("Include AI trading recommendations")),
		mcp.WithBoolean("riskAnalysis", mcp.Description("Include risk analysis")),
	), t.generateReport)

	s.AddTool(mcp.NewTool("market-sentiment-analysis",
		mcp.WithDescription("Analyze market sentiment and provide trading insights using AI"),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Stock symbol to analyze")),
		mcp.WithString("context", mcp.Description("Additional context or market conditions")),
		mcp.WithString("analysisType", mcp.Description("technical, fundamental, sentiment, or comprehensive")),
	), t.marketSentiment)

	s.AddTool(mcp.NewTool("generate-trading-strategy",
		mcp.WithDescription("Generate personalized trading strategies using AI analysis"),
		mcp.WithString("apiKey", mcp.Required(), mcp.Description("Your Kite API key")),
		mcp.WithString("riskTolerance", mcp.Description("conservative, moderate, or aggressive")),
		mcp.WithString("investmentHorizon", mcp.Description("short-term, medium-term, or long-term")),
		mcp.WithString("focus", mcp.Description("Specific focus areas (e.g., 'dividend stocks')")),
	), t.tradingStrategy)
}

func orderTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("apiKey", mcp.Required(), mcp.Description("Your Kite API key")),
		mcp.WithString("tradingSymbol", mcp.Required(), mcp.Description("Stock symbol (e.g., RELIANCE, TCS)")),
		mcp.WithNumber("quantity", mcp.Required(), mcp.Description("Number of shares")),
		mcp.WithString("exchange", mcp.Description("Exchange (NSE or BSE)")),
		mcp.WithString("product", mcp.Description("Product type (CNC, NRML or MIS)")),
		mcp.WithString("orderType", mcp.Description("Order type (MARKET or LIMIT)")),
	)
}

func (t *toolServer) placeOrderHandler(transactionType string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		apiKey, err := req.RequireString("apiKey")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		symbol, err := req.RequireString("tradingSymbol")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		quantity, err := req.RequireFloat("quantity")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		t.log.Infow("Order request", "transactionType", transactionType, "symbol", symbol, "quantity", quantity)

		result, err := t.api.PlaceOrder(ctx, models.PlaceOrderRequest{
			APIKey:          apiKey,
			TradingSymbol:   symbol,
			Quantity:        int64(quantity),
			TransactionType: transactionType,
			Exchange:        req.GetString("exchange", "NSE"),
			Product:         req.GetString("product", "CNC"),
			OrderType:       req.GetString("orderType", "MARKET"),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s order failed: %v", transactionType, err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"%s order placed successfully!\nStock: %s\nQuantity: %d\nOrder ID: %s\nStatus: %s",
			transactionType, symbol, int64(quantity), result.OrderID, result.Status,
		)), nil
	}
}

func (t *toolServer) analyzePortfolio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, err := req.RequireString("apiKey")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.log.Infow("Portfolio analysis request", "apiKey", apiKey)

	profile, err := t.api.Profile(ctx, apiKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to retrieve portfolio data: %v", err)), nil
	}
	positions, err := t.api.Positions(ctx, apiKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to retrieve portfolio data: %v", err)), nil
	}
	book, err := t.api.Orders(ctx, apiKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to retrieve portfolio data: %v", err)), nil
	}

	recent := book.Orders
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Portfolio Analysis\n\nUser: %s (%s)\nBroker: %s\nExchanges: %s\n\nPositions: %d holdings\nProducts: %s\n\nRecent Orders: %d orders",
		profile.UserName, profile.UserID,
		profile.Broker,
		strings.Join(profile.Exchanges, ", "),
		len(positions.Net),
		strings.Join(profile.Products, ", "),
		len(recent),
	)), nil
}

func (t *toolServer) generateReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, err := req.RequireString("apiKey")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t.log.Infow("Generating AI portfolio report", "apiKey", apiKey)

	// The report endpoint does the data gathering and prompting server-side.
	report, err := t.api.Report(ctx, apiKey,
		req.GetBool("includeRecommendations", true),
		req.GetBool("riskAnalysis", true),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error generating portfolio report: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"AI-Powered Portfolio Report\n\n%s\n\n---\nGenerated using Cerebras AI on %s",
		report, time.Now().Format("2006-01-02"),
	)), nil
}

func (t *toolServer) marketSentiment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol, err := req.RequireString("symbol")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysisType := req.GetString("analysisType", "comprehensive")
	extraContext := req.GetString("context", "")

	t.log.Infow("Market sentiment analysis", "symbol", symbol, "analysisType", analysisType)

	var b strings.Builder
	fmt.Fprintf(&b, "Perform a %s analysis for the stock %s.\n\n", analysisType, symbol)
	if extraContext != "" {
		fmt.Fprintf(&b, "Additional context: %s\n\n", extraContext)
	}
	b.WriteString(`Please provide:
1. Current market sentiment
2. Technical indicators (if applicable)
3. Fundamental analysis (if applicable)
4. Price predictions and targets
5. Risk assessment
6. Trading recommendations

Be specific and data-driven in your analysis.`)

	analysis, err := t.ai.Complete(ctx, cerebras.CompletionRequest{
		Messages:    []cerebras.Message{{Role: "user", Content: b.String()}},
		MaxTokens:   sentimentMaxTokens,
		Temperature: sentimentTemperature,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error analyzing market sentiment: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("AI Market Analysis for %s\n\n%s", symbol, analysis)), nil
}

func (t *toolServer) tradingStrategy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apiKey, err := req.RequireString("apiKey")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	riskTolerance := req.GetString("riskTolerance", "moderate")
	horizon := req.GetString("investmentHorizon", "medium-term")
	focus := req.GetString("focus", "")

	t.log.Infow("Generating trading strategy", "riskTolerance", riskTolerance, "horizon", horizon)

	positions, err := t.api.Positions(ctx, apiKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error generating trading strategy: %v", err)), nil
	}
	positionsJSON, err := json.Marshal(positions.Net)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error generating trading strategy: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("Generate a personalized trading strategy based on:\n\n")
	fmt.Fprintf(&b, "Risk Tolerance: %s\n", riskTolerance)
	fmt.Fprintf(&b, "Investment Horizon: %s\n", horizon)
	if focus != "" {
		fmt.Fprintf(&b, "Focus Areas: %s\n", focus)
	}
	fmt.Fprintf(&b, "Current Portfolio: %s\n\n", positionsJSON)
	b.WriteString(`Please provide:
1. Overall strategy overview
2. Asset allocation recommendations
3. Specific stock/sector suggestions
4. Risk management guidelines
5. Performance monitoring metrics
6. Rebalancing schedule

Tailor the strategy to the user's risk profile and current holdings.`)

	strategy, err := t.ai.Complete(ctx, cerebras.CompletionRequest{
		Messages:    []cerebras.Message{{Role: "user", Content: b.String()}},
		MaxTokens:   strategyMaxTokens,
		Temperature: strategyTemperature,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error generating trading strategy: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"AI-Generated Trading Strategy\n\nRisk Profile: %s\nTime Horizon: %s\n\n%s",
		riskTolerance, horizon, strategy,
	)), nil
}
