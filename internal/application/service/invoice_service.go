package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/garyjia/invoice-studio/internal/application/port"
	"github.com/garyjia/invoice-studio/internal/domain/entity"
	"github.com/garyjia/invoice-studio/internal/invoice"
	"github.com/garyjia/invoice-studio/internal/money"
	"github.com/garyjia/invoice-studio/internal/pdf"
	"github.com/garyjia/invoice-studio/internal/preview"
	"github.com/garyjia/invoice-studio/pkg/utils"
)

// ErrInvalidInvoice is returned for invoice payloads that fail validation
var ErrInvalidInvoice = errors.New("invalid invoice")

// DocumentGenerator renders invoices to PDF
type DocumentGenerator interface {
	Generate(in pdf.Input) (*pdf.Document, error)
}

// Thumbnailer rasterizes the first page of a PDF
type Thumbnailer interface {
	Thumbnail(pdf []byte) (*preview.Image, error)
}

// Exporter writes an invoice to a spreadsheet
type Exporter interface {
	Export(vm invoice.ViewModel, company invoice.CompanyProfile) ([]byte, error)
}

// Archiver keeps copies of rendered documents
type Archiver interface {
	SavePDF(ctx context.Context, invoiceNumber string, content []byte) (string, error)
	SaveXLSX(ctx context.Context, invoiceNumber string, content []byte) (string, error)
	SaveThumbnail(ctx context.Context, invoiceNumber string, content []byte) (string, error)
	DeleteFolder(invoiceNumber string) error
}

// Defaults are used until settings are saved through SaveSettings
type Defaults struct {
	Company  invoice.CompanyProfile
	Invoice  invoice.Config
	Currency money.Currency
}

// Settings is the company profile and invoice configuration in effect
type Settings struct {
	Company invoice.CompanyProfile `json:"company"`
	Invoice invoice.Config         `json:"invoice"`
}

// TotalsResult is the derived totals of an invoice with their printed forms
type TotalsResult struct {
	Currency       money.Currency  `json:"currency"`
	CurrencySymbol string          `json:"currency_symbol"`
	Totals         money.Totals    `json:"totals"`
	Formatted      FormattedTotals `json:"formatted"`
	AmountInWords  string          `json:"amount_in_words"`
}

// FormattedTotals holds the totals as printed on the document
type FormattedTotals struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discount_amount"`
	TaxAmount      string `json:"tax_amount"`
	Total          string `json:"total"`
}

// PreviewResult is the inline form of a rendered invoice
type PreviewResult struct {
	DataURI   string         `json:"data_uri"`
	Pages     int            `json:"pages"`
	Totals    money.Totals   `json:"totals"`
	Thumbnail *preview.Image `json:"-"`
}

// InvoicePage is one page of an invoice listing
type InvoicePage struct {
	Invoices []*entity.InvoiceRecord `json:"invoices"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}

// InvoiceService loads, assembles and renders invoices
type InvoiceService interface {
	Totals(ctx context.Context, rec *entity.InvoiceRecord) (*TotalsResult, error)
	Render(ctx context.Context, rec *entity.InvoiceRecord) (*pdf.Document, error)
	Preview(ctx context.Context, rec *entity.InvoiceRecord, thumbnail bool) (*PreviewResult, error)
	Export(ctx context.Context, rec *entity.InvoiceRecord) ([]byte, error)

	Create(ctx context.Context, rec *entity.InvoiceRecord) error
	Get(ctx context.Context, id string) (*entity.InvoiceRecord, error)
	List(ctx context.Context, filter entity.InvoiceListFilter) (*InvoicePage, error)
	Update(ctx context.Context, rec *entity.InvoiceRecord) error
	Delete(ctx context.Context, id string) error

	RenderByID(ctx context.Context, id string) (*pdf.Document, *entity.InvoiceRecord, error)
	PreviewByID(ctx context.Context, id string, thumbnail bool) (*PreviewResult, error)
	ExportByID(ctx context.Context, id string) ([]byte, *entity.InvoiceRecord, error)

	Settings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
	Summary(ctx context.Context) (*Summary, error)
}

type invoiceServiceImpl struct {
	invoices    port.InvoiceRepository
	settings    port.SettingsRepository
	generator   DocumentGenerator
	thumbnailer Thumbnailer
	exporter    Exporter
	archiver    Archiver
	defaults    Defaults
	logger      Logger
}

// Option configures optional InvoiceService collaborators
type Option func(*invoiceServiceImpl)

// WithThumbnailer enables preview thumbnails
func WithThumbnailer(t Thumbnailer) Option {
	return func(s *invoiceServiceImpl) { s.thumbnailer = t }
}

// WithArchiver stores a copy of every document rendered from a stored invoice
func WithArchiver(a Archiver) Option {
	return func(s *invoiceServiceImpl) { s.archiver = a }
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices port.InvoiceRepository,
	settings port.SettingsRepository,
	generator DocumentGenerator,
	exporter Exporter,
	defaults Defaults,
	logger Logger,
	opts ...Option,
) InvoiceService {
	if defaults.Currency == "" {
		defaults.Currency = money.DefaultCurrency
	}
	s := &invoiceServiceImpl{
		invoices:  invoices,
		settings:  settings,
		generator: generator,
		exporter:  exporter,
		defaults:  defaults,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Totals derives the totals of rec without rendering a document
func (s *invoiceServiceImpl) Totals(ctx context.Context, rec *entity.InvoiceRecord) (*TotalsResult, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	vm := s.assemble(rec, settings.Invoice)
	totals := vm.Totals()

	return &TotalsResult{
		Currency:       vm.Currency,
		CurrencySymbol: vm.CurrencySymbol,
		Totals:         totals,
		Formatted: FormattedTotals{
			Subtotal:       money.FormatCurrency(totals.Subtotal, vm.Currency),
			DiscountAmount: money.FormatCurrency(totals.DiscountAmount, vm.Currency),
			TaxAmount:      money.FormatCurrency(totals.TaxAmount, vm.Currency),
			Total:          money.FormatCurrency(totals.Total, vm.Currency),
		},
		AmountInWords: money.AmountInWords(totals.Total, vm.Currency),
	}, nil
}

// Render generates the PDF of rec
func (s *invoiceServiceImpl) Render(ctx context.Context, rec *entity.InvoiceRecord) (*pdf.Document, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.generator.Generate(pdf.Input{
		Invoice: s.assemble(rec, settings.Invoice),
		Company: settings.Company,
		Config:  settings.Invoice,
	})
	if err != nil {
		s.logger.Errorw("Failed to render invoice", "invoice_number", rec.Number, "error", err)
		return nil, err
	}

	s.logger.Infow("Invoice rendered",
		"invoice_number", rec.Number,
		"pages", doc.Pages,
		"total", doc.Totals.Total.String())
	return doc, nil
}

// Preview renders rec and returns it inline, with a first-page thumbnail when
// requested and available
func (s *invoiceServiceImpl) Preview(ctx context.Context, rec *entity.InvoiceRecord, thumbnail bool) (*PreviewResult, error) {
	doc, err := s.Render(ctx, rec)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{
		DataURI: doc.DataURI(),
		Pages:   doc.Pages,
		Totals:  doc.Totals,
	}
	if thumbnail && s.thumbnailer != nil {
		img, err := s.thumbnailer.Thumbnail(doc.Bytes)
		if err != nil {
			// The PDF itself is fine; a preview without thumbnail is still useful
			s.logger.Warnw("Thumbnail unavailable", "invoice_number", rec.Number, "error", err)
		} else {
			result.Thumbnail = img
		}
	}
	return result, nil
}

// Export writes rec to a spreadsheet
func (s *invoiceServiceImpl) Export(ctx context.Context, rec *entity.InvoiceRecord) ([]byte, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.exporter.Export(s.assemble(rec, settings.Invoice), settings.Company)
	if err != nil {
		s.logger.Errorw("Failed to export invoice", "invoice_number", rec.Number, "error", err)
		return nil, err
	}
	return data, nil
}

// Create validates and stores a new invoice
func (s *invoiceServiceImpl) Create(ctx context.Context, rec *entity.InvoiceRecord) error {
	if err := Validate(rec); err != nil {
		return err
	}
	if err := s.invoices.Create(ctx, rec); err != nil {
		return err
	}
	s.logger.Infow("Invoice created", "id", rec.ID, "invoice_number", rec.Number)
	return nil
}

// Get returns a stored invoice
func (s *invoiceServiceImpl) Get(ctx context.Context, id string) (*entity.InvoiceRecord, error) {
	return s.invoices.GetByID(ctx, id)
}

// List returns one page of stored invoices
func (s *invoiceServiceImpl) List(ctx context.Context, filter entity.InvoiceListFilter) (*InvoicePage, error) {
	if filter.Status != "" {
		filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	}
	records, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoices.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entity.InvoiceRecord{}
	}
	return &InvoicePage{Invoices: records, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Update validates and replaces a stored invoice
func (s *invoiceServiceImpl) Update(ctx context.Context, rec *entity.InvoiceRecord) error {
	if err := Validate(rec); err != nil {
		return err
	}
	if err := s.invoices.Update(ctx, rec); err != nil {
		return err
	}
	s.logger.Infow("Invoice updated", "id", rec.ID, "invoice_number", rec.Number)
	return nil
}

// Delete removes a stored invoice along with its archived documents
func (s *invoiceServiceImpl) Delete(ctx context.Context, id string) error {
	rec, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	if s.archiver != nil {
		if err := s.archiver.DeleteFolder(rec.Number); err != nil {
			s.logger.Warnw("Failed to remove archived documents", "id", id, "error", err)
		}
	}
	s.logger.Infow("Invoice deleted", "id", id, "invoice_number", rec.Number)
	return nil
}

// RenderByID renders a stored invoice and archives the document when an
// archiver is configured. Archive failures are logged, not returned.
func (s *invoiceServiceImpl) RenderByID(ctx context.Context, id string) (*pdf.Document, *entity.InvoiceRecord, error) {
	rec, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.Render(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	if s.archiver != nil {
		if _, err := s.archiver.SavePDF(ctx, rec.Number, doc.Bytes); err != nil {
			s.logger.Warnw("Failed to archive invoice PDF", "id", id, "error", err)
		}
	}
	return doc, rec, nil
}

// PreviewByID previews a stored invoice, archiving the thumbnail when one was made
func (s *invoiceServiceImpl) PreviewByID(ctx context.Context, id string, thumbnail bool) (*PreviewResult, error) {
	rec, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result, err := s.Preview(ctx, rec, thumbnail)
	if err != nil {
		return nil, err
	}
	if s.archiver != nil && result.Thumbnail != nil {
		if _, err := s.archiver.SaveThumbnail(ctx, rec.Number, result.Thumbnail.Data); err != nil {
			s.logger.Warnw("Failed to archive thumbnail", "id", id, "error", err)
		}
	}
	return result, nil
}

// ExportByID exports a stored invoice
func (s *invoiceServiceImpl) ExportByID(ctx context.Context, id string) ([]byte, *entity.InvoiceRecord, error) {
	rec, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.Export(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	if s.archiver != nil {
		if _, err := s.archiver.SaveXLSX(ctx, rec.Number, data); err != nil {
			s.logger.Warnw("Failed to archive invoice workbook", "id", id, "error", err)
		}
	}
	return data, rec, nil
}

// Settings returns the saved settings, falling back to the configured defaults
// for any document that was never saved
func (s *invoiceServiceImpl) Settings(ctx context.Context) (*Settings, error) {
	settings := &Settings{Company: s.defaults.Company, Invoice: s.defaults.Invoice}
	if s.settings == nil {
		return settings, nil
	}

	company, found, err := s.settings.GetCompanyProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	if found {
		settings.Company = company
	}

	cfg, found, err := s.settings.GetInvoiceConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice configuration: %w", err)
	}
	if found {
		settings.Invoice = cfg
	}
	return settings, nil
}

// SaveSettings stores the company profile and invoice configuration
func (s *invoiceServiceImpl) SaveSettings(ctx context.Context, settings Settings) error {
	if s.settings == nil {
		return fmt.Errorf("settings store is not configured")
	}
	if err := utils.ValidatePercent("default_tax_rate", settings.Invoice.DefaultTaxRate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
	}
	return s.settings.Save(ctx, settings.Company, settings.Invoice)
}

// assemble builds the view model, applying the default currency to invoices without one
func (s *invoiceServiceImpl) assemble(rec *entity.InvoiceRecord, cfg invoice.Config) invoice.ViewModel {
	if strings.TrimSpace(rec.Settings.Currency) == "" {
		copied := *rec
		copied.Settings.Currency = string(s.defaults.Currency)
		rec = &copied
	}
	return invoice.Assemble(rec, cfg)
}

// Validate checks user-entered invoice fields
func Validate(rec *entity.InvoiceRecord) error {
	var problems []string
	add := func(err error) {
		if err != nil {
			problems = append(problems, err.Error())
		}
	}

	if strings.TrimSpace(rec.Number) == "" {
		problems = append(problems, "invoice_number is required")
	}
	if rec.Status != "" && !lo.Contains(entity.Statuses, rec.Status) {
		problems = append(problems, fmt.Sprintf("unknown status: %s", rec.Status))
	}
	if rec.IssueDate != "" {
		add(utils.ValidateISODate(rec.IssueDate))
	}
	if rec.DueDate != "" {
		add(utils.ValidateISODate(rec.DueDate))
	}
	if rec.Customer.Email != "" {
		add(utils.ValidateEmail(rec.Customer.Email))
	}
	add(utils.ValidatePercent("discount", rec.Settings.Discount))
	if rec.Settings.TaxRate != nil {
		add(utils.ValidatePercent("tax_rate", *rec.Settings.TaxRate))
	}
	for i, item := range rec.Items {
		if item.Quantity < 0 {
			problems = append(problems, fmt.Sprintf("items[%d].quantity must not be negative", i))
		}
		if err := utils.ValidateAmount(item.Price); err != nil {
			problems = append(problems, fmt.Sprintf("items[%d]: %v", i, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInvoice, strings.Join(problems, "; "))
	}
	return nil
}

// Sanitize strips control characters from every text field that reaches a document
func Sanitize(rec *entity.InvoiceRecord) {
	for _, field := range []*string{
		&rec.Number,
		&rec.CreatedBy,
		&rec.Customer.Name,
		&rec.Customer.Email,
		&rec.Customer.Phone,
		&rec.Customer.Address,
		&rec.Notes.Text,
	} {
		*field = utils.SanitizeString(*field)
	}
	rec.Notes.List = sanitizeAll(rec.Notes.List)

	for i := range rec.Items {
		item := &rec.Items[i]
		item.Name = utils.SanitizeString(item.Name)
		item.Description = utils.SanitizeString(item.Description)
		item.Specs = sanitizeAll(item.Specs)
	}

	if p := rec.PaymentDetails; p != nil {
		for _, field := range []*string{&p.AccountHolder, &p.BankName, &p.AccountNumber, &p.RoutingCode, &p.Branch} {
			*field = utils.SanitizeString(*field)
		}
	}
}

func sanitizeAll(values []string) []string {
	if values == nil {
		return nil
	}
	return lo.Map(values, func(v string, _ int) string { return utils.SanitizeString(v) })
}
