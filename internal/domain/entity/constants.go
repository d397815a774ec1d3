package entity

// Status constants for invoice records
const (
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Statuses lists every valid invoice status
var Statuses = []string{StatusDraft, StatusPending, StatusPaid, StatusOverdue}

// Settings keys for the key/value settings table
const (
	SettingsKeyCompany = "company_profile"
	SettingsKeyInvoice = "invoice_config"
)
