package banktxn

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied to imported records that omit a currency code.
const DefaultCurrency = "USD"

// ErrTransactionNotFound indicates a missing bank transaction. Cross-tenant
// lookups also surface as not found because the scoped transaction never sees
// foreign rows.
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "bank transaction not found: " + e.TransactionID.String()
}

// Transaction is an imported bank statement line. It belongs to exactly one
// tenant and is immutable after import. The amount is stored as an exact
// decimal (text column) to avoid binary float drift.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	PostedAt    time.Time       `json:"posted_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FromImportRecord builds a transaction owned by the given tenant from a
// normalized import record.
func FromImportRecord(tenantID uuid.UUID, rec ImportRecord) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Amount:      rec.Amount,
		Currency:    rec.Currency,
		Description: rec.Description,
		PostedAt:    rec.PostedAt,
		CreatedAt:   time.Now().UTC(),
	}
}
