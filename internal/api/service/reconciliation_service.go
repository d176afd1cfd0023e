package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/finpilot-backoffice/internal/domain/reconciliation"
	"github.com/finpilot-backoffice/internal/platform/messaging/producers"
	"github.com/finpilot-backoffice/internal/platform/persistence"
	"github.com/finpilot-backoffice/internal/scoring"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/panjf2000/ants/v2"
)

const publishTimeout = 5 * time.Second

// ReconciliationServiceImpl implements the ReconciliationService interface.
// The event publisher and worker pool are optional; without them a run still
// completes, it just leaves no trace on the event stream.
type ReconciliationServiceImpl struct {
	logger          *slog.Logger
	runner          persistence.TenantRunner
	invoiceRepo     invoice.Repository
	transactionRepo banktxn.Repository
	engine          scoring.Engine
	publisher       producers.MessagePublisher
	pool            *ants.Pool
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(
	logger *slog.Logger,
	runner persistence.TenantRunner,
	invoiceRepo invoice.Repository,
	transactionRepo banktxn.Repository,
	engine scoring.Engine,
	publisher producers.MessagePublisher,
	pool *ants.Pool,
) ReconciliationService {
	return &ReconciliationServiceImpl{
		logger:          logger,
		runner:          runner,
		invoiceRepo:     invoiceRepo,
		transactionRepo: transactionRepo,
		engine:          engine,
		publisher:       publisher,
		pool:            pool,
	}
}

// Reconcile loads the tenant's open invoices and bank transactions in one
// tenant-scoped transaction, projects them to neutral inputs and submits them
// to the scoring engine in a single call. There are no retries: the engine's
// error classification passes through to the caller unchanged.
func (s *ReconciliationServiceImpl) Reconcile(ctx context.Context, tenantID uuid.UUID) (reconciliation.RunResult, error) {
	var result reconciliation.RunResult

	err := s.runner.RunWithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		openInvoices, err := s.invoiceRepo.ListByStatus(ctx, tx, invoice.StatusOpen)
		if err != nil {
			return err
		}

		transactions, err := s.transactionRepo.List(ctx, tx)
		if err != nil {
			return err
		}

		if len(openInvoices) == 0 || len(transactions) == 0 {
			result = reconciliation.NotEnoughData()
			return nil
		}

		candidates, err := s.engine.Score(ctx, projectInvoices(openInvoices), projectTransactions(transactions))
		if err != nil {
			return err
		}

		result = reconciliation.RunResult{Candidates: candidates}
		return nil
	})
	if err != nil {
		return reconciliation.RunResult{}, err
	}

	if result.Message == "" {
		s.announceCompletion(tenantID, len(result.Candidates))
	}

	return result, nil
}

// ExplainMatch fetches the pair inside one tenant-scoped transaction and runs
// the local explainer. Rows of other tenants are invisible to the scoped
// transaction, so a cross-tenant ID surfaces as not found.
func (s *ReconciliationServiceImpl) ExplainMatch(ctx context.Context, tenantID, invoiceID, transactionID uuid.UUID) (reconciliation.Explanation, error) {
	var explanation reconciliation.Explanation

	err := s.runner.RunWithTenant(ctx, tenantID, func(tx pgx.Tx) error {
		inv, err := s.invoiceRepo.GetByID(ctx, tx, invoiceID)
		if err != nil {
			return err
		}

		txn, err := s.transactionRepo.GetByID(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		explanation = reconciliation.Explain(inv, txn)
		return nil
	})
	if err != nil {
		return reconciliation.Explanation{}, err
	}

	return explanation, nil
}

// announceCompletion publishes the completed-run event off the request path.
// Publishing is best effort: a broker outage never fails a finished run.
func (s *ReconciliationServiceImpl) announceCompletion(tenantID uuid.UUID, candidateCount int) {
	if s.publisher == nil {
		return
	}

	event := reconciliation.CompletedEvent{
		TenantID:       tenantID.String(),
		CandidateCount: candidateCount,
		CompletedAt:    time.Now().UTC(),
	}

	publish := func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, event.TenantID, event); err != nil {
			s.logger.Error("Failed to publish reconciliation completed event",
				"tenant_id", event.TenantID,
				"error", err,
			)
		}
	}

	if s.pool == nil {
		publish()
		return
	}

	if err := s.pool.Submit(publish); err != nil {
		s.logger.Error("Failed to submit event publish task to worker pool",
			"tenant_id", event.TenantID,
			"error", err,
		)
	}
}

func projectInvoices(invoices []*invoice.Invoice) []reconciliation.InvoiceInput {
	inputs := make([]reconciliation.InvoiceInput, 0, len(invoices))
	for _, inv := range invoices {
		inputs = append(inputs, reconciliation.InvoiceInput{
			ID:     inv.ID.String(),
			Amount: inv.Amount.InexactFloat64(),
			Date:   inv.CreatedAt.UTC().Format(time.RFC3339),
			Vendor: inv.Description,
		})
	}
	return inputs
}

func projectTransactions(transactions []*banktxn.Transaction) []reconciliation.TransactionInput {
	inputs := make([]reconciliation.TransactionInput, 0, len(transactions))
	for _, txn := range transactions {
		inputs = append(inputs, reconciliation.TransactionInput{
			ID:          txn.ID.String(),
			Amount:      txn.Amount.InexactFloat64(),
			Date:        txn.PostedAt.UTC().Format(time.RFC3339),
			Description: txn.Description,
		})
	}
	return inputs
}
