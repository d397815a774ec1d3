package invoice

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/money"
)

// Status is the display-only lifecycle tag of an invoice
type Status string

const (
	StatusDraft   Status = entity.StatusDraft
	StatusPending Status = entity.StatusPending
	StatusPaid    Status = entity.StatusPaid
	StatusOverdue Status = entity.StatusOverdue
)

// ParseStatus maps a stored status onto the closed set, defaulting to draft
func ParseStatus(s string) Status {
	if lo.Contains(entity.Statuses, s) {
		return Status(s)
	}
	return StatusDraft
}

// LineItem is a render-ready invoice row
type LineItem struct {
	Name        string
	Description string
	Quantity    int
	Price       decimal.Decimal
	Specs       []string
}

// Line returns the billable part of the row
func (i LineItem) Line() money.Line {
	return money.Line{Quantity: i.Quantity, Price: i.Price}
}

// Amount returns quantity × price
func (i LineItem) Amount() decimal.Decimal {
	return i.Line().Amount()
}

// Customer is the bill-to block
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// PaymentDetails is the bank account block
type PaymentDetails struct {
	AccountHolder string `mapstructure:"account_holder" json:"account_holder"`
	BankName      string `mapstructure:"bank_name" json:"bank_name"`
	AccountNumber string `mapstructure:"account_number" json:"account_number"`
	RoutingCode   string `mapstructure:"routing_code" json:"routing_code"`
	Branch        string `mapstructure:"branch" json:"branch"`
}

// IsZero reports whether no field is set
func (p PaymentDetails) IsZero() bool {
	return p == PaymentDetails{}
}

// ViewModel is the normalized, immutable shape the layout engine consumes.
// Build it with Assemble; never edit one in place, assemble a new one.
type ViewModel struct {
	Number          string
	IssueDate       string
	DueDate         string
	Currency        money.Currency
	CurrencySymbol  string
	Customer        Customer
	Items           []LineItem
	DiscountPercent decimal.Decimal
	TaxEnabled      bool
	TaxRate         decimal.Decimal
	Notes           []string
	Payment         PaymentDetails
	CreatedBy       string
	Status          Status
}

// BillableItems returns the rows with a positive quantity in their original order
func (v ViewModel) BillableItems() []LineItem {
	return lo.Filter(v.Items, func(item LineItem, _ int) bool {
		return item.Line().Billable()
	})
}

// Lines returns every row as a money.Line
func (v ViewModel) Lines() []money.Line {
	return lo.Map(v.Items, func(item LineItem, _ int) money.Line {
		return item.Line()
	})
}

// Totals derives the invoice totals
func (v ViewModel) Totals() money.Totals {
	return money.ComputeTotals(v.Lines(), v.DiscountPercent, v.TaxEnabled, v.TaxRate)
}

// CompanyProfile describes the issuing company. Empty fields are replaced by
// the built-in defaults through WithDefaults.
type CompanyProfile struct {
	Name               string `mapstructure:"name" json:"name"`
	Address            string `mapstructure:"address" json:"address"`
	RegistrationNumber string `mapstructure:"registration_number" json:"registration_number"`
	Phone              string `mapstructure:"phone" json:"phone"`
	Website            string `mapstructure:"website" json:"website"`
	Email              string `mapstructure:"email" json:"email"`
	Slogan             string `mapstructure:"slogan" json:"slogan"`
	LogoRef            string `mapstructure:"logo" json:"logo"`
	StampRef           string `mapstructure:"stamp" json:"stamp"`
}

// Config holds invoice-wide settings that are not part of a single invoice
type Config struct {
	DefaultNotes   []string        `mapstructure:"default_notes" json:"default_notes"`
	ThankYouText   string          `mapstructure:"thank_you_text" json:"thank_you_text"`
	FooterQuote    string          `mapstructure:"footer_quote" json:"footer_quote"`
	DefaultTaxRate decimal.Decimal `mapstructure:"-" json:"default_tax_rate"`
	DefaultPayment PaymentDetails  `mapstructure:"default_payment" json:"default_payment"`
	CreatorName    string          `mapstructure:"creator_name" json:"creator_name"`
}
