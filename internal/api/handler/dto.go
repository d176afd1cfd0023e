package handler

// CreateTenantRequest represents a request to provision a new tenant
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// CreateInvoiceRequest represents a request to create a new invoice.
// The amount is a string so exact decimal values survive the wire.
type CreateInvoiceRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// BankTransactionResponse represents a bank transaction in API responses
type BankTransactionResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	PostedAt    string `json:"posted_at"`
	CreatedAt   string `json:"created_at"`
}

// ImportResponse represents the outcome of a bank transaction import
type ImportResponse struct {
	Imported     int                       `json:"imported"`
	Transactions []BankTransactionResponse `json:"transactions"`
}
