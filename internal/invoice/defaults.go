package invoice

import "strings"

// Built-in fallbacks used when neither the invoice nor configuration supplies a value
const (
	DefaultCompanyName    = "Invoice Studio"
	DefaultCompanyAddress = "221B Residency Road\nBengaluru, Karnataka 560025"
	DefaultCompanyPhone   = "+91 80 4000 1234"
	DefaultCompanyEmail   = "accounts@invoicestudio.example"
	DefaultCompanyWebsite = "www.invoicestudio.example"
	DefaultCompanySlogan  = "Clear invoices, faster payments"
	DefaultLogoRef        = "logo.png"
	DefaultStampRef       = "stamp.png"

	DefaultCreatorName  = "Accounts Team"
	DefaultThankYouText = "Thank you for your business!"
	DefaultFooterQuote  = "Quality is never an accident; it is always the result of intelligent effort."

	// NoNotesPlaceholder is printed when the resolved notes list is empty
	NoNotesPlaceholder = "No additional notes for this invoice."

	// UnnamedItem labels rows that have no name
	UnnamedItem = "Unnamed Item"
)

// FallbackNotes are printed when neither the invoice nor configuration has notes
var FallbackNotes = []string{
	"Payment is due within 30 days of the invoice date.",
	"Please quote the invoice number with your payment.",
}

// DefaultPaymentDetails is printed when the invoice and configuration carry no bank account
var DefaultPaymentDetails = PaymentDetails{
	AccountHolder: DefaultCompanyName,
	BankName:      "State Bank of India",
	AccountNumber: "00000000000000",
	RoutingCode:   "SBIN0000001",
	Branch:        "Residency Road",
}

// WithDefaults returns a copy of the profile with empty fields filled in
func (c CompanyProfile) WithDefaults() CompanyProfile {
	c.Name = orDefault(c.Name, DefaultCompanyName)
	c.Address = orDefault(c.Address, DefaultCompanyAddress)
	c.Phone = orDefault(c.Phone, DefaultCompanyPhone)
	c.Email = orDefault(c.Email, DefaultCompanyEmail)
	c.Website = orDefault(c.Website, DefaultCompanyWebsite)
	c.Slogan = orDefault(c.Slogan, DefaultCompanySlogan)
	c.LogoRef = orDefault(c.LogoRef, DefaultLogoRef)
	c.StampRef = orDefault(c.StampRef, DefaultStampRef)
	return c
}

// ContactLines returns the right-aligned contact block of the header, one entry per printed line
func (c CompanyProfile) ContactLines() []string {
	var lines []string
	for _, field := range []string{c.Name, c.Address, c.RegistrationNumber, c.Phone, c.Email, c.Website} {
		for _, line := range strings.Split(field, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// WithDefaults returns a copy of the configuration with empty text fields filled in.
// DefaultNotes is left untouched: nil means "not configured", an empty list is a choice.
func (c Config) WithDefaults() Config {
	c.ThankYouText = orDefault(c.ThankYouText, DefaultThankYouText)
	c.FooterQuote = orDefault(c.FooterQuote, DefaultFooterQuote)
	return c
}

// ResolveNotes applies the notes precedence: invoice notes, then configured
// default notes, then FallbackNotes. An empty result becomes NoNotesPlaceholder.
func ResolveNotes(invoiceNotes []string, cfg Config) []string {
	var notes []string
	switch {
	case len(invoiceNotes) > 0:
		notes = invoiceNotes
	case cfg.DefaultNotes != nil:
		notes = NormalizeNotes(cfg.DefaultNotes...)
	default:
		notes = FallbackNotes
	}
	if len(notes) == 0 {
		return []string{NoNotesPlaceholder}
	}
	return notes
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
