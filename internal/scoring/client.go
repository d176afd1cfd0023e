// Package scoring calls the external reconciliation scoring engine over its
// GraphQL endpoint.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/finpilot-backoffice/internal/config"
	"github.com/finpilot-backoffice/internal/domain/reconciliation"
	"github.com/go-resty/resty/v2"
)

// Engine scores invoice/transaction pairings. Implementations make exactly one
// attempt per call; retry policy belongs to the caller, and the current policy
// is no retries.
type Engine interface {
	Score(ctx context.Context, invoices []reconciliation.InvoiceInput, transactions []reconciliation.TransactionInput) ([]reconciliation.Candidate, error)
}

const scoreMutation = `
	mutation($invoices: [InvoiceInput!]!, $transactions: [TransactionInput!]!) {
		scoreCandidates(invoices: $invoices, transactions: $transactions) {
			invoiceId
			transactionId
			score
			explanation { text }
		}
	}
`

type scoreVariables struct {
	Invoices     []reconciliation.InvoiceInput     `json:"invoices"`
	Transactions []reconciliation.TransactionInput `json:"transactions"`
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables scoreVariables `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type scoredCandidate struct {
	InvoiceID     string  `json:"invoiceId"`
	TransactionID string  `json:"transactionId"`
	Score         float64 `json:"score"`
	Explanation   struct {
		Text string `json:"text"`
	} `json:"explanation"`
}

type graphqlResponse struct {
	Data struct {
		ScoreCandidates []scoredCandidate `json:"scoreCandidates"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// Client is the HTTP implementation of Engine
type Client struct {
	url        string
	httpClient *resty.Client
	logger     *slog.Logger
}

// NewClient creates a scoring engine client with the configured endpoint and
// request timeout
func NewClient(logger *slog.Logger, cfg *config.EngineConfig) *Client {
	httpClient := resty.New().SetTimeout(cfg.Timeout)

	return &Client{
		url:        cfg.URL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Score submits the projected invoices and transactions in one GraphQL call.
// A transport failure or non-200 status maps to ErrEngineUnavailable; a
// GraphQL-level error from a reachable engine maps to ErrCalculation.
func (c *Client) Score(ctx context.Context, invoices []reconciliation.InvoiceInput, transactions []reconciliation.TransactionInput) ([]reconciliation.Candidate, error) {
	req := graphqlRequest{
		Query: scoreMutation,
		Variables: scoreVariables{
			Invoices:     invoices,
			Transactions: transactions,
		},
	}

	httpRes, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.url)
	if err != nil {
		c.logger.Error("Failed to reach scoring engine", "url", c.url, "error", err)
		return nil, reconciliation.ErrEngineUnavailable{Err: err}
	}

	if httpRes.StatusCode() != http.StatusOK {
		c.logger.Error("Scoring engine returned unexpected status",
			"url", c.url,
			"status", httpRes.StatusCode(),
			"body", string(httpRes.Body()))
		return nil, reconciliation.ErrEngineUnavailable{
			Err: fmt.Errorf("unexpected status %d from scoring engine", httpRes.StatusCode()),
		}
	}

	var res graphqlResponse
	if err := json.Unmarshal(httpRes.Body(), &res); err != nil {
		c.logger.Error("Failed to decode scoring engine response", "url", c.url, "error", err)
		return nil, reconciliation.ErrEngineUnavailable{
			Err: fmt.Errorf("failed to decode scoring engine response: %w", err),
		}
	}

	if len(res.Errors) > 0 {
		messages := make([]string, 0, len(res.Errors))
		for _, gqlErr := range res.Errors {
			messages = append(messages, gqlErr.Message)
		}
		c.logger.Error("Scoring engine reported errors", "url", c.url, "errors", messages)
		return nil, reconciliation.ErrCalculation{Messages: messages}
	}

	candidates := make([]reconciliation.Candidate, 0, len(res.Data.ScoreCandidates))
	for _, sc := range res.Data.ScoreCandidates {
		candidates = append(candidates, reconciliation.Candidate{
			InvoiceID:     sc.InvoiceID,
			TransactionID: sc.TransactionID,
			Score:         sc.Score,
			Explanation:   sc.Explanation.Text,
		})
	}

	return candidates, nil
}
