package banktxn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidImport indicates a malformed or empty import payload. It is a
// validation failure and maps to a client error at the boundary.
type ErrInvalidImport struct {
	Reason string
}

func (e ErrInvalidImport) Error() string {
	return "invalid import payload: " + e.Reason
}

// ImportRecord is one accepted row of an import payload after normalization.
type ImportRecord struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	PostedAt    time.Time
}

// rawImportRecord matches a single wire-format row before coercion. Amount is
// kept raw because clients send it both as a JSON number and as a string.
type rawImportRecord struct {
	Amount      json.RawMessage `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// importEnvelope matches the {"transactions": ...} wrapper shape, where the
// transactions field is either a native array or a JSON-encoded string.
type importEnvelope struct {
	Transactions json.RawMessage `json:"transactions"`
}

// NormalizeImport resolves the three accepted payload shapes into a list of
// validated records:
//
//  1. {"transactions": "<json-encoded array>"} — stringified array
//  2. {"transactions": [...]}                  — native array
//  3. [...]                                    — bare top-level array (fallback)
//
// The shape is resolved once here; an empty or unparsable result fails with
// ErrInvalidImport. Amounts are coerced to exact decimals, dates to RFC 3339
// timestamps, and a missing currency defaults to USD.
func NormalizeImport(payload []byte) ([]ImportRecord, error) {
	raw, err := resolveTransactionList(payload)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrInvalidImport{Reason: "no transactions found to import"}
	}

	records := make([]ImportRecord, 0, len(raw))
	for i, r := range raw {
		rec, err := coerceRecord(r)
		if err != nil {
			return nil, ErrInvalidImport{Reason: fmt.Sprintf("record %d: %v", i, err)}
		}
		records = append(records, rec)
	}

	return records, nil
}

// resolveTransactionList picks the wire shape off the first JSON token.
func resolveTransactionList(payload []byte) ([]rawImportRecord, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, ErrInvalidImport{Reason: "empty request body"}
	}

	switch trimmed[0] {
	case '{':
		var env importEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, ErrInvalidImport{Reason: "request body is not valid JSON"}
		}
		if len(env.Transactions) == 0 {
			return nil, ErrInvalidImport{Reason: "no transactions found to import"}
		}
		return decodeTransactionsField(env.Transactions)
	case '[':
		// Fallback: the input itself is the array
		var raw []rawImportRecord
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, ErrInvalidImport{Reason: "transactions array is malformed"}
		}
		return raw, nil
	default:
		return nil, ErrInvalidImport{Reason: "request body must be an object or an array"}
	}
}

// decodeTransactionsField handles the transactions field being either a
// JSON-encoded string or a native array.
func decodeTransactionsField(field json.RawMessage) ([]rawImportRecord, error) {
	trimmed := bytes.TrimSpace(field)

	if trimmed[0] == '"' {
		var embedded string
		if err := json.Unmarshal(trimmed, &embedded); err != nil {
			return nil, ErrInvalidImport{Reason: "transactions field is not a valid string"}
		}
		var raw []rawImportRecord
		if err := json.Unmarshal([]byte(embedded), &raw); err != nil {
			return nil, ErrInvalidImport{Reason: "invalid JSON format in transactions field"}
		}
		return raw, nil
	}

	var raw []rawImportRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, ErrInvalidImport{Reason: "transactions field must be an array or a JSON-encoded array"}
	}
	return raw, nil
}

// coerceRecord validates one raw row and coerces its fields.
func coerceRecord(r rawImportRecord) (ImportRecord, error) {
	amount, err := decodeAmount(r.Amount)
	if err != nil {
		return ImportRecord{}, err
	}

	if r.Date == "" {
		return ImportRecord{}, fmt.Errorf("missing date")
	}
	postedAt, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("invalid date %q", r.Date)
	}

	currency := r.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return ImportRecord{
		Amount:      amount,
		Currency:    currency,
		Description: r.Description,
		PostedAt:    postedAt,
	}, nil
}

// decodeAmount accepts an amount sent as a JSON number or a string and
// coerces it to an exact decimal.
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Zero, fmt.Errorf("missing amount")
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return decimal.Zero, fmt.Errorf("amount must be a number or numeric string")
		}
		text = num.String()
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", text)
	}
	return amount, nil
}
