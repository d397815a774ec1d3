package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRecord is an invoice as it is persisted and as it arrives over the API
type InvoiceRecord struct {
	ID             string          `json:"id"`
	Number         string          `json:"invoice_number"`
	IssueDate      string          `json:"date"`
	DueDate        string          `json:"due_date,omitempty"`
	Status         string          `json:"status"`
	Customer       Customer        `json:"customer"`
	Items          []Item          `json:"items"`
	Settings       InvoiceSettings `json:"settings"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
	Notes          Notes           `json:"notes"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Customer is the bill-to party of an invoice
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Item is one billable row
type Item struct {
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Specs       []string        `json:"specs,omitempty"`
}

// InvoiceSettings carries the per-invoice pricing toggles
type InvoiceSettings struct {
	Currency   string           `json:"currency"`
	Discount   decimal.Decimal  `json:"discount"`
	TaxEnabled bool             `json:"tax_enabled"`
	TaxRate    *decimal.Decimal `json:"tax_rate,omitempty"` // nil means use the configured default
}

// PaymentDetails holds the bank account printed on the invoice
type PaymentDetails struct {
	AccountHolder string `json:"account_holder,omitempty"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingCode   string `json:"routing_code,omitempty"` // IFSC for Indian accounts
	Branch        string `json:"branch,omitempty"`
}

// IsZero reports whether no field is set
func (p *PaymentDetails) IsZero() bool {
	return p == nil || *p == PaymentDetails{}
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	Status string
	Limit  int
	Offset int
}
