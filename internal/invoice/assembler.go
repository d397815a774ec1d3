package invoice

import (
	"strings"

	"github.com/samber/lo"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/money"
)

// Assemble maps a persisted invoice record into the render-ready ViewModel.
// Missing optional data is filled from cfg and then from the built-in defaults;
// an unknown currency code renders as rupees.
func Assemble(rec *entity.InvoiceRecord, cfg Config) ViewModel {
	currency, err := money.ParseCurrency(rec.Settings.Currency)
	if err != nil {
		currency = money.DefaultCurrency
	}

	taxRate := cfg.DefaultTaxRate
	if rec.Settings.TaxRate != nil {
		taxRate = *rec.Settings.TaxRate
	}

	return ViewModel{
		Number:         strings.TrimSpace(rec.Number),
		IssueDate:      rec.IssueDate,
		DueDate:        rec.DueDate,
		Currency:       currency,
		CurrencySymbol: currency.Symbol(),
		Customer: Customer{
			Name:    strings.TrimSpace(rec.Customer.Name),
			Email:   strings.TrimSpace(rec.Customer.Email),
			Phone:   strings.TrimSpace(rec.Customer.Phone),
			Address: strings.TrimSpace(rec.Customer.Address),
		},
		Items:           lo.Map(rec.Items, func(item entity.Item, _ int) LineItem { return toLineItem(item) }),
		DiscountPercent: rec.Settings.Discount,
		TaxEnabled:      rec.Settings.TaxEnabled,
		TaxRate:         taxRate,
		Notes:           NotesFromField(rec.Notes),
		Payment:         resolvePayment(rec.PaymentDetails, cfg),
		CreatedBy:       orDefault(orDefault(rec.CreatedBy, cfg.CreatorName), DefaultCreatorName),
		Status:          ParseStatus(rec.Status),
	}
}

func toLineItem(item entity.Item) LineItem {
	return LineItem{
		Name:        strings.TrimSpace(item.Name),
		Description: strings.TrimSpace(item.Description),
		Quantity:    item.Quantity,
		Price:       item.Price,
		Specs: lo.Filter(lo.Map(item.Specs, func(s string, _ int) string { return strings.TrimSpace(s) }),
			func(s string, _ int) bool { return s != "" }),
	}
}

func resolvePayment(details *entity.PaymentDetails, cfg Config) PaymentDetails {
	if !details.IsZero() {
		return PaymentDetails{
			AccountHolder: details.AccountHolder,
			BankName:      details.BankName,
			AccountNumber: details.AccountNumber,
			RoutingCode:   details.RoutingCode,
			Branch:        details.Branch,
		}
	}
	if !cfg.DefaultPayment.IsZero() {
		return cfg.DefaultPayment
	}
	return DefaultPaymentDetails
}

// NotesFromField resolves the notes field into ordered, non-blank lines
func NotesFromField(n entity.Notes) []string {
	switch n.Kind {
	case entity.NotesText:
		return NormalizeNotes(n.Text)
	case entity.NotesList:
		return NormalizeNotes(n.List...)
	default:
		return nil
	}
}

// NormalizeNotes splits every entry on newlines and drops blank lines
func NormalizeNotes(entries ...string) []string {
	notes := []string{}
	for _, entry := range entries {
		for _, line := range strings.Split(entry, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				notes = append(notes, line)
			}
		}
	}
	return notes
}
