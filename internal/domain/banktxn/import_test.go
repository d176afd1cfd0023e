package banktxn

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeImport_AcceptedShapes(t *testing.T) {
	// The same record set expressed in all three accepted wire shapes must
	// normalize identically.
	native := `{"transactions": [{"amount": 100.00, "date": "2023-01-01T00:00:00Z", "description": "Bank Txn A"}]}`
	stringified := `{"transactions": "[{\"amount\": 100.00, \"date\": \"2023-01-01T00:00:00Z\", \"description\": \"Bank Txn A\"}]"}`
	bare := `[{"amount": 100.00, "date": "2023-01-01T00:00:00Z", "description": "Bank Txn A"}]`

	shapes := map[string]string{
		"NativeArray":      native,
		"StringifiedArray": stringified,
		"BareArray":        bare,
	}

	expectedAmount := decimal.RequireFromString("100.00")
	expectedDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			records, err := NormalizeImport([]byte(payload))
			require.NoError(t, err)
			require.Len(t, records, 1)

			assert.True(t, expectedAmount.Equal(records[0].Amount), "amount should be 100.00, got %s", records[0].Amount)
			assert.Equal(t, "USD", records[0].Currency, "missing currency defaults to USD")
			assert.Equal(t, "Bank Txn A", records[0].Description)
			assert.True(t, expectedDate.Equal(records[0].PostedAt))
		})
	}
}

func TestNormalizeImport_AmountAsString(t *testing.T) {
	payload := `{"transactions": [{"amount": "250.50", "currency": "EUR", "date": "2023-02-01T12:00:00Z", "description": "Wire"}]}`

	records, err := NormalizeImport([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.True(t, decimal.RequireFromString("250.50").Equal(records[0].Amount))
	assert.Equal(t, "EUR", records[0].Currency)
}

func TestNormalizeImport_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"EmptyBody", ``},
		{"EmptyNativeArray", `{"transactions": []}`},
		{"EmptyBareArray", `[]`},
		{"EmptyStringifiedArray", `{"transactions": "[]"}`},
		{"UnparsableString", `{"transactions": "not json"}`},
		{"MissingTransactionsField", `{"other": 1}`},
		{"ScalarBody", `42`},
		{"TransactionsIsObject", `{"transactions": {"amount": 1}}`},
		{"MissingAmount", `{"transactions": [{"date": "2023-01-01T00:00:00Z"}]}`},
		{"BadAmount", `{"transactions": [{"amount": "abc", "date": "2023-01-01T00:00:00Z"}]}`},
		{"MissingDate", `{"transactions": [{"amount": 10}]}`},
		{"BadDate", `{"transactions": [{"amount": 10, "date": "01/01/2023"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			records, err := NormalizeImport([]byte(tc.payload))
			assert.Nil(t, records)
			require.Error(t, err)

			var invalidErr ErrInvalidImport
			assert.ErrorAs(t, err, &invalidErr, "normalization failures must be validation errors")
		})
	}
}

func TestFromImportRecord(t *testing.T) {
	tenantID := uuid.New()
	rec := ImportRecord{
		Amount:      decimal.RequireFromString("99.99"),
		Currency:    "USD",
		Description: "Card settlement",
		PostedAt:    time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	txn := FromImportRecord(tenantID, rec)

	assert.NotEqual(t, uuid.Nil, txn.ID)
	assert.Equal(t, tenantID, txn.TenantID)
	assert.True(t, rec.Amount.Equal(txn.Amount))
	assert.Equal(t, rec.Currency, txn.Currency)
	assert.Equal(t, rec.Description, txn.Description)
	assert.True(t, rec.PostedAt.Equal(txn.PostedAt))
	assert.False(t, txn.CreatedAt.IsZero())
}
