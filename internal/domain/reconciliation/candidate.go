// Package reconciliation holds the domain types for matching invoices against
// imported bank transactions: the neutral projections sent to the scoring
// engine, the candidates it returns, and the local match explainer.
package reconciliation

import (
	"fmt"
	"strings"
	"time"
)

// InvoiceInput is the neutral projection of an invoice submitted for scoring.
// The exact-decimal amount is parsed into a float for this payload only; the
// precision loss is a cross-boundary concession, never a ledger operation.
type InvoiceInput struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Vendor string  `json:"vendor,omitempty"`
}

// TransactionInput is the neutral projection of a bank transaction submitted
// for scoring.
type TransactionInput struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

// Candidate is one scored invoice/transaction pairing returned by the engine.
type Candidate struct {
	InvoiceID     string  `json:"invoice_id"`
	TransactionID string  `json:"transaction_id"`
	Score         float64 `json:"score"`
	Explanation   string  `json:"explanation"`
}

// RunResult is the outcome of one reconciliation run. Candidates are
// transient: they are returned to the caller and announced on the event
// stream, not persisted.
type RunResult struct {
	Message    string      `json:"message,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// NotEnoughData builds the informational result for a run that terminated
// early because the tenant has no open invoices or no transactions.
func NotEnoughData() RunResult {
	return RunResult{Message: "Not enough data to run reconciliation"}
}

// CompletedEvent announces a finished reconciliation run to downstream
// consumers.
type CompletedEvent struct {
	TenantID       string    `json:"tenant_id"`
	CandidateCount int       `json:"candidate_count"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ErrCalculation indicates the scoring engine was reachable but reported an
// application error.
type ErrCalculation struct {
	Messages []string
}

func (e ErrCalculation) Error() string {
	return "calculation engine error: " + strings.Join(e.Messages, "; ")
}

// ErrEngineUnavailable indicates the scoring engine could not be reached.
type ErrEngineUnavailable struct {
	Err error
}

func (e ErrEngineUnavailable) Error() string {
	return fmt.Sprintf("reconciliation engine unavailable: %v", e.Err)
}

func (e ErrEngineUnavailable) Unwrap() error {
	return e.Err
}
