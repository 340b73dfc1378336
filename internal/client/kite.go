package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/trademcp/trademcp/internal/models"
)

func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderResult, error) {
	var result models.OrderResult
	if err := c.post(ctx, "/kite/order/place", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Orders(ctx context.Context, apiKey string) (*models.OrderBook, error) {
	var book models.OrderBook
	if err := c.get(ctx, "/kite/orders", url.Values{"apiKey": {apiKey}}, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) Positions(ctx context.Context, apiKey string) (*models.Positions, error) {
	var positions models.Positions
	if err := c.get(ctx, "/kite/positions", url.Values{"apiKey": {apiKey}}, &positions); err != nil {
		return nil, err
	}
	return &positions, nil
}

func (c *Client) Profile(ctx context.Context, apiKey string) (*models.Profile, error) {
	var profile models.Profile
	if err := c.get(ctx, "/kite/profile", url.Values{"apiKey": {apiKey}}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Report(ctx context.Context, apiKey string, includeRecommendations, riskAnalysis bool) (string, error) {
	query := url.Values{
		"apiKey":          {apiKey},
		"recommendations": {strconv.FormatBool(includeRecommendations)},
		"riskAnalysis":    {strconv.FormatBool(riskAnalysis)},
	}

	var resp struct {
		Report string `json:"report"`
	}
	if err := c.get(ctx, "/kite/report", query, &resp); err != nil {
		return "", err
	}
	return resp.Report, nil
}
