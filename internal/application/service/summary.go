package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
)

// summaryPageSize is how many invoices Summary loads per query
const summaryPageSize = 200

// Summary aggregates stored invoices
type Summary struct {
	InvoiceCount int               `json:"invoice_count"`
	ByStatus     map[string]int    `json:"by_status"`
	ByCurrency   []CurrencySummary `json:"by_currency"`
}

// CurrencySummary aggregates the invoices issued in one currency.
// Outstanding covers every invoice that is not paid.
type CurrencySummary struct {
	Currency             money.Currency  `json:"currency"`
	Count                int             `json:"count"`
	Total                decimal.Decimal `json:"total"`
	Outstanding          decimal.Decimal `json:"outstanding"`
	FormattedTotal       string          `json:"formatted_total"`
	FormattedOutstanding string          `json:"formatted_outstanding"`
}

// Summary walks every stored invoice and totals it per currency and status
func (s *invoiceServiceImpl) Summary(ctx context.Context) (*Summary, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{ByStatus: make(map[string]int)}
	byCurrency := make(map[money.Currency]*CurrencySummary)

	for offset := 0; ; offset += summaryPageSize {
		records, err := s.invoices.List(ctx, entity.InvoiceListFilter{Limit: summaryPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			vm := s.assemble(rec, settings.Invoice)
			total := vm.Totals().Total

			summary.InvoiceCount++
			summary.ByStatus[string(vm.Status)]++

			cs, ok := byCurrency[vm.Currency]
			if !ok {
				cs = &CurrencySummary{Currency: vm.Currency}
				byCurrency[vm.Currency] = cs
			}
			cs.Count++
			cs.Total = cs.Total.Add(total)
			if vm.Status != invoice.StatusPaid {
				cs.Outstanding = cs.Outstanding.Add(total)
			}
		}
		if len(records) < summaryPageSize {
			break
		}
	}

	for _, cs := range byCurrency {
		cs.FormattedTotal = money.FormatCurrency(cs.Total, cs.Currency)
		cs.FormattedOutstanding = money.FormatCurrency(cs.Outstanding, cs.Currency)
		summary.ByCurrency = append(summary.ByCurrency, *cs)
	}
	sort.Slice(summary.ByCurrency, func(i, j int) bool {
		return summary.ByCurrency[i].Currency < summary.ByCurrency[j].Currency
	})

	s.logger.Debugw("Invoice summary computed", "invoices", summary.InvoiceCount, "currencies", len(summary.ByCurrency))
	return summary, nil
}
