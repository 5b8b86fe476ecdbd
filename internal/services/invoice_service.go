package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"invoice_manager/internal/barcode"
	"invoice_manager/internal/invoicepdf"
	"invoice_manager/internal/logger"
	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/pricing"
	"invoice_manager/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvoiceInput creates an invoice from an order or patches an existing one.
// OrderID and RFReference are only read on create.
type InvoiceInput struct {
	OrderID      patch.Field[uuid.UUID] `json:"order_id"`
	Reference    patch.Field[string]    `json:"reference"`
	RFReference  bool                   `json:"rf_reference"`
	IBAN         patch.Field[string]    `json:"iban"`
	IssueDate    patch.Field[Date]      `json:"issue_date"`
	DueDate      patch.Field[Date]      `json:"due_date"`
	DaysUntilDue patch.Field[int]       `json:"days_until_due"`
	Status       patch.Field[string]    `json:"status"`
}

type InvoiceService interface {
	CreateInvoice(ctx context.Context, actor Actor, input InvoiceInput) (*models.Invoice, error)
	UpdateInvoice(ctx context.Context, actor Actor, id uuid.UUID, input InvoiceInput) (*models.Invoice, error)
	GetInvoice(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, actor Actor, filter repository.InvoiceFilter) ([]models.Invoice, error)
	DeleteInvoice(ctx context.Context, actor Actor, id uuid.UUID) error
	MarkSent(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error)
	MarkPaid(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error)
	Barcode(ctx context.Context, actor Actor, id uuid.UUID) (string, error)
	RenderPDF(ctx context.Context, actor Actor, id uuid.UUID, w io.Writer) error
	SendInvoice(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error)
}

type invoiceService struct {
	store          repository.Store
	notifier       Notifier
	defaultDueDays int
	now            func() time.Time
	log            zerolog.Logger
}

func NewInvoiceService(store repository.Store, notifier Notifier, defaultDueDays int) InvoiceService {
	return &invoiceService{
		store:          store,
		notifier:       notifier,
		defaultDueDays: defaultDueDays,
		now:            time.Now,
		log:            logger.WithComponent("invoice_service"),
	}
}

// invoiceStatuses are the statuses that may be stored. Overdue is only ever
// derived on read.
var invoiceStatuses = map[string]bool{
	string(models.InvoiceDraft): true,
	string(models.InvoiceSent):  true,
	string(models.InvoicePaid):  true,
}

func (s *invoiceService) CreateInvoice(ctx context.Context, actor Actor, input InvoiceInput) (*models.Invoice, error) {
	orderID, ok := input.OrderID.Get()
	if !ok {
		return nil, invalid("order_id is required")
	}

	var invoice *models.Invoice
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		order, err := tx.Orders().GetByID(ctx, actor.CompanyID, orderID)
		if err != nil {
			return notFound(err, "order")
		}
		if !actor.canModifyInvoice(order) {
			return ErrForbidden
		}
		company, err := tx.Companies().GetByID(ctx, actor.CompanyID)
		if err != nil {
			return notFound(err, "company")
		}

		number, err := tx.Companies().ReserveInvoiceNumber(ctx, company.ID)
		if err != nil {
			return err
		}

		invoice = &models.Invoice{
			CompanyID:          company.ID,
			OrderID:            order.ID,
			CustomerID:         order.CustomerID,
			InvoiceNumber:      number,
			IBAN:               normalizeIBAN(input.IBAN.OrElse(company.IBAN)),
			IssueDate:          truncateDay(s.now()),
			Status:             string(models.InvoiceDraft),
			TotalAmountVatExcl: order.TotalAmountVatExcl,
			TotalAmountVatIncl: order.TotalAmountVatIncl,
		}

		if ref, ok := input.Reference.Get(); ok {
			if err := barcode.ValidateReference(ref); err != nil {
				return err
			}
			invoice.Reference = strings.ToUpper(strings.Join(strings.Fields(ref), ""))
		} else {
			invoice.Reference, err = autoReference(number, input.RFReference)
			if err != nil {
				return err
			}
		}

		if issue, ok := input.IssueDate.Get(); ok {
			invoice.IssueDate = issue.Time
		}
		days := company.DefaultPaymentDays
		if days <= 0 {
			days = s.defaultDueDays
		}
		invoice.DaysUntilDue = days
		if err := resolveDueDate(invoice, input); err != nil {
			return err
		}

		return tx.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Int64("invoice_number", invoice.InvoiceNumber).
		Str("order_id", orderID.String()).
		Msg("invoice created")
	return invoice, nil
}

// autoReference derives the payment reference from the invoice number.
func autoReference(number int64, rf bool) (string, error) {
	national, err := barcode.NationalReference(strconv.FormatInt(number, 10))
	if err != nil {
		return "", err
	}
	if !rf {
		return national, nil
	}
	return barcode.RFReference(national)
}

// resolveDueDate applies due_date and days_until_due. An explicit due date
// wins and the day count is derived from it; a day count alone moves the due
// date; with neither, the due date follows the issue date.
func resolveDueDate(invoice *models.Invoice, input InvoiceInput) error {
	if due, ok := input.DueDate.Get(); ok {
		if due.Time.Before(invoice.IssueDate) {
			return invalid("due_date %s is before issue_date", due.Format(dateLayout))
		}
		invoice.DueDate = due.Time
		invoice.DaysUntilDue = daysBetween(invoice.IssueDate, due.Time)
		return nil
	}
	if days, ok := input.DaysUntilDue.Get(); ok {
		if days < 0 {
			return invalid("days_until_due must not be negative")
		}
		invoice.DaysUntilDue = days
	}
	invoice.DueDate = invoice.IssueDate.AddDate(0, 0, invoice.DaysUntilDue)
	return nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, actor Actor, id uuid.UUID, input InvoiceInput) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		invoice, err = s.authorizedInvoice(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if ref, ok := input.Reference.Get(); ok {
			if err := barcode.ValidateReference(ref); err != nil {
				return err
			}
			invoice.Reference = strings.ToUpper(strings.Join(strings.Fields(ref), ""))
		}
		if iban, ok := input.IBAN.Get(); ok {
			invoice.IBAN = normalizeIBAN(iban)
		}
		if issue, ok := input.IssueDate.Get(); ok {
			invoice.IssueDate = issue.Time
		}
		if input.IssueDate.IsSet() || input.DueDate.IsSet() || input.DaysUntilDue.IsSet() {
			if err := resolveDueDate(invoice, input); err != nil {
				return err
			}
		}
		if status, ok := input.Status.Get(); ok {
			if err := s.setStatus(invoice, status); err != nil {
				return err
			}
		}

		return tx.Invoices().Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return s.withOverdue(invoice), nil
}

func (s *invoiceService) setStatus(invoice *models.Invoice, status string) error {
	if !invoiceStatuses[status] {
		return invalid("unknown invoice status %q", status)
	}
	now := s.now()
	switch models.InvoiceStatus(status) {
	case models.InvoiceSent:
		if invoice.SentAt == nil {
			invoice.SentAt = &now
		}
	case models.InvoicePaid:
		if invoice.PaidAt == nil {
			invoice.PaidAt = &now
		}
	}
	invoice.Status = status
	return nil
}

// authorizedInvoice loads an invoice the actor may modify. Invoices follow the
// permissions of their order; once the order is gone only admins may edit.
func (s *invoiceService) authorizedInvoice(ctx context.Context, st repository.Store, actor Actor, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := st.Invoices().GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, "invoice")
	}
	if actor.IsAdmin() {
		return invoice, nil
	}
	order, err := st.Orders().GetByID(ctx, actor.CompanyID, invoice.OrderID)
	if err != nil {
		if errors.Is(notFound(err, "order"), ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !actor.canModifyInvoice(order) {
		return nil, ErrForbidden
	}
	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.store.Invoices().GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, notFound(err, "invoice")
	}
	return s.withOverdue(invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, actor Actor, filter repository.InvoiceFilter) ([]models.Invoice, error) {
	invoices, err := s.store.Invoices().List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		s.withOverdue(&invoices[i])
	}
	return invoices, nil
}

// withOverdue reports sent invoices past their due date as overdue. The
// stored status is not changed.
func (s *invoiceService) withOverdue(invoice *models.Invoice) *models.Invoice {
	today := truncateDay(s.now())
	if invoice.Status == string(models.InvoiceSent) && !invoice.DueDate.IsZero() && invoice.DueDate.Before(today) {
		invoice.Status = string(models.InvoiceOverdue)
	}
	return invoice
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !actor.canDeleteInvoice() {
		return ErrForbidden
	}
	if err := s.store.Invoices().Delete(ctx, actor.CompanyID, id); err != nil {
		return notFound(err, "invoice")
	}
	s.log.Info().Str("invoice_id", id.String()).Msg("invoice deleted")
	return nil
}

func (s *invoiceService) MarkSent(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error) {
	return s.UpdateInvoice(ctx, actor, id, InvoiceInput{Status: patch.Set(string(models.InvoiceSent))})
}

func (s *invoiceService) MarkPaid(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error) {
	return s.UpdateInvoice(ctx, actor, id, InvoiceInput{Status: patch.Set(string(models.InvoicePaid))})
}

func (s *invoiceService) Barcode(ctx context.Context, actor Actor, id uuid.UUID) (string, error) {
	invoice, err := s.GetInvoice(ctx, actor, id)
	if err != nil {
		return "", err
	}
	return barcodeFor(invoice)
}

func barcodeFor(invoice *models.Invoice) (string, error) {
	return barcode.Build(invoice.IBAN, invoice.TotalAmountVatIncl, invoice.Reference, invoice.DueDate)
}

func (s *invoiceService) RenderPDF(ctx context.Context, actor Actor, id uuid.UUID, w io.Writer) error {
	doc, err := s.pdfDocument(ctx, actor, id)
	if err != nil {
		return err
	}
	return invoicepdf.Render(w, *doc)
}

// pdfDocument collects the invoice with the current lines of its order. The
// invoice totals stay authoritative; doc.LinesChanged is set when the lines
// were edited after invoicing.
func (s *invoiceService) pdfDocument(ctx context.Context, actor Actor, id uuid.UUID) (*invoicepdf.Document, error) {
	invoice, err := s.GetInvoice(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	company, err := s.store.Companies().GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, notFound(err, "company")
	}

	doc := invoicepdf.Document{
		Company:      *company,
		Invoice:      *invoice,
		ProductNames: map[string]string{},
	}
	if customer, err := s.store.Customers().GetByID(ctx, actor.CompanyID, invoice.CustomerID); err == nil {
		doc.Customer = *customer
	}
	if doc.Items, err = s.store.OrderItems().GetByOrderID(ctx, invoice.OrderID); err != nil {
		return nil, err
	}
	excl, incl := pricing.SumTotals(doc.Items)
	doc.LinesChanged = !excl.Equal(invoice.TotalAmountVatExcl) || !incl.Equal(invoice.TotalAmountVatIncl)

	products, err := s.store.Products().List(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		doc.ProductNames[p.ID.String()] = p.Name
	}

	doc.Barcode, err = barcodeFor(invoice)
	if err != nil {
		s.log.Warn().Err(err).Str("invoice_id", id.String()).Msg("rendering invoice without barcode")
		doc.Barcode = ""
	}
	return &doc, nil
}

// SendInvoice messages the payment details to the customer and marks the
// invoice sent.
func (s *invoiceService) SendInvoice(ctx context.Context, actor Actor, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.authorizedInvoice(ctx, s.store, actor, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.store.Customers().GetByID(ctx, actor.CompanyID, invoice.CustomerID)
	if err != nil {
		return nil, notFound(err, "customer")
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, invalid("customer %s has no phone number", customer.Name)
	}
	company, err := s.store.Companies().GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, notFound(err, "company")
	}
	payload, err := barcodeFor(invoice)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, customer.Phone, paymentNotice(company, invoice, payload)); err != nil {
		return nil, fmt.Errorf("failed to send invoice %d: %w", invoice.InvoiceNumber, err)
	}
	s.log.Info().Str("invoice_id", id.String()).Msg("invoice sent")

	if invoice.Status == string(models.InvoicePaid) {
		return invoice, nil
	}
	return s.MarkSent(ctx, actor, id)
}

func paymentNotice(company *models.Company, invoice *models.Invoice, payload string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoice %d from %s\n", invoice.InvoiceNumber, company.Name)
	fmt.Fprintf(&b, "Amount: %s EUR\n", invoice.TotalAmountVatIncl.StringFixed(2))
	fmt.Fprintf(&b, "Due date: %s\n", invoice.DueDate.Format("02.01.2006"))
	fmt.Fprintf(&b, "IBAN: %s\n", invoice.IBAN)
	fmt.Fprintf(&b, "Reference: %s\n", invoice.Reference)
	fmt.Fprintf(&b, "Virtual barcode: %s", payload)
	return b.String()
}

func normalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}
