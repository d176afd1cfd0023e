package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status describes the lifecycle state of an invoice. Only open invoices
// participate in reconciliation runs.
type Status string

const (
	StatusOpen   Status = "open"
	StatusPaid   Status = "paid"
	StatusClosed Status = "closed"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("invoice amount must be a decimal number")
)

// ErrInvoiceNotFound indicates a missing invoice. Cross-tenant lookups also
// surface as not found because the scoped transaction never sees foreign rows.
type ErrInvoiceNotFound struct {
	InvoiceID uuid.UUID
}

func (e ErrInvoiceNotFound) Error() string {
	return "invoice not found: " + e.InvoiceID.String()
}

// Invoice belongs to exactly one tenant for its entire lifetime. The amount is
// an exact decimal; floats never enter the ledger path.
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewInvoice creates an open invoice for the given tenant. The amount arrives
// as a string and must parse as an exact decimal.
func NewInvoice(tenantID uuid.UUID, amount string, description string) (*Invoice, error) {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	return &Invoice{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Amount:      amt,
		Description: description,
		Status:      StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
