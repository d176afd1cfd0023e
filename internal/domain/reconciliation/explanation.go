package reconciliation

import (
	"fmt"
	"strings"

	"github.com/finpilot-backoffice/internal/domain/banktxn"
	"github.com/finpilot-backoffice/internal/domain/invoice"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModelTag identifies the explanation heuristic. It is a fixed label, not a
// generative model version.
const ModelTag = "heuristic-match-v1"

// Confidence labels, ordered from weakest to strongest.
const (
	ConfidenceLow      = "Low"
	ConfidenceMedium   = "Medium"
	ConfidenceHigh     = "High"
	ConfidenceVeryHigh = "Very High"
)

var (
	exactAmountTolerance = decimal.NewFromFloat(0.01)
	feeAmountTolerance   = decimal.NewFromInt(5)
)

// Explanation is the structured result of explaining one invoice/transaction
// pair.
type Explanation struct {
	InvoiceID     uuid.UUID `json:"invoice_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Confidence    string    `json:"ai_confidence"`
	Text          string    `json:"explanation_text"`
	Model         string    `json:"model"`
}

// Explain computes a deterministic confidence explanation for one invoice and
// one bank transaction. It never calls the scoring engine: repeated calls for
// the same pair return identical output.
//
// The amount difference picks the base tier; a vendor-name hit in the bank
// description upgrades the pair to Very High regardless of that tier.
func Explain(inv *invoice.Invoice, txn *banktxn.Transaction) Explanation {
	diff := inv.Amount.Sub(txn.Amount).Abs()

	var confidence, text string
	switch {
	case diff.LessThan(exactAmountTolerance):
		confidence = ConfidenceHigh
		text = fmt.Sprintf("Invoice amount %s matches the bank transaction amount exactly.", inv.Amount.StringFixed(2))
	case diff.LessThan(feeAmountTolerance):
		confidence = ConfidenceMedium
		text = fmt.Sprintf("Amounts are close (difference %s); the gap could be bank fees.", diff.StringFixed(2))
	default:
		confidence = ConfidenceLow
		text = fmt.Sprintf("Amounts differ significantly (difference %s).", diff.StringFixed(2))
	}

	vendor := strings.ToLower(strings.TrimSpace(inv.Description))
	if vendor != "" && strings.Contains(strings.ToLower(txn.Description), vendor) {
		confidence = ConfidenceVeryHigh
		text += fmt.Sprintf(" Vendor %q was identified in the bank description.", inv.Description)
	}

	return Explanation{
		InvoiceID:     inv.ID,
		TransactionID: txn.ID,
		Confidence:    confidence,
		Text:          text,
		Model:         ModelTag,
	}
}
