package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"invoice_manager/internal/barcode"
	"invoice_manager/internal/logger"
	"invoice_manager/internal/models"
	"invoice_manager/internal/patch"
	"invoice_manager/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 16, 9, 30, 0, 0, time.UTC)

func newInvoiceService(env *testEnv, notifier Notifier) *invoiceService {
	return &invoiceService{
		store:          env.store,
		notifier:       notifier,
		defaultDueDays: 14,
		now:            func() time.Time { return fixedNow },
		log:            logger.WithComponent("invoice_service"),
	}
}

func invoiceFor(t *testing.T, env *testEnv, svc InvoiceService, actor Actor, input InvoiceInput) (*models.Order, *models.Invoice) {
	t.Helper()
	order := createOrder(t, env, newOrderService(env), actor, newItem("1", "389.51", "24"))
	input.OrderID = patch.Set(order.ID)
	invoice, err := svc.CreateInvoice(context.Background(), actor, input)
	require.NoError(t, err)
	return order, invoice
}

func TestCreateInvoiceDefaults(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))

	order, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})

	assert.Equal(t, int64(1000), invoice.InvoiceNumber)
	assert.Equal(t, "10003", invoice.Reference)
	assert.Equal(t, "FI5810171000000122", invoice.IBAN)
	assert.Equal(t, order.CustomerID, invoice.CustomerID)
	assert.Equal(t, string(models.InvoiceDraft), invoice.Status)
	assertDecimal(t, "389.51", invoice.TotalAmountVatExcl)
	assertDecimal(t, "482.99", invoice.TotalAmountVatIncl)
	assert.Equal(t, "2024-06-16", invoice.IssueDate.Format(dateLayout))
	assert.Equal(t, 14, invoice.DaysUntilDue)
	assert.Equal(t, "2024-06-30", invoice.DueDate.Format(dateLayout))

	_, second := invoiceFor(t, env, svc, env.user, InvoiceInput{})
	assert.Equal(t, int64(1001), second.InvoiceNumber)
	assert.Equal(t, "10016", second.Reference)
}

func TestCreateInvoiceReferences(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))

	_, rf := invoiceFor(t, env, svc, env.user, InvoiceInput{RFReference: true})
	assert.Equal(t, "RF", rf.Reference[:2])
	assert.NoError(t, barcode.ValidateReference(rf.Reference))

	_, manual := invoiceFor(t, env, svc, env.user, InvoiceInput{Reference: patch.Set("rf81 123453")})
	assert.Equal(t, "RF81123453", manual.Reference)

	order := createOrder(t, env, newOrderService(env), env.user)
	_, err := svc.CreateInvoice(context.Background(), env.user, InvoiceInput{
		OrderID:   patch.Set(order.ID),
		Reference: patch.Set("123454"),
	})
	var verr *barcode.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reference", verr.Field)
}

func TestInvoiceDueDatePrecedence(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))
	ctx := context.Background()

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{
		DaysUntilDue: patch.Set(30),
	})
	assert.Equal(t, "2024-07-16", invoice.DueDate.Format(dateLayout))

	due := DateOf(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	updated, err := svc.UpdateInvoice(ctx, env.user, invoice.ID, InvoiceInput{
		DueDate:      patch.Set(due),
		DaysUntilDue: patch.Set(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", updated.DueDate.Format(dateLayout))
	assert.Equal(t, 15, updated.DaysUntilDue)

	updated, err = svc.UpdateInvoice(ctx, env.user, invoice.ID, InvoiceInput{
		IssueDate: patch.Set(DateOf(time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC))),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-05", updated.DueDate.Format(dateLayout))

	_, err = svc.UpdateInvoice(ctx, env.user, invoice.ID, InvoiceInput{
		DueDate: patch.Set(DateOf(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateInvoice(ctx, env.user, invoice.ID, InvoiceInput{DaysUntilDue: patch.Set(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInvoiceBarcode(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{Reference: patch.Set("12345 3")})

	got, err := svc.Barcode(context.Background(), env.user, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "458101710000001220004829900000000000000000123453240630", got)
}

func TestSendInvoice(t *testing.T) {
	env := newTestEnv(t)
	notifier := new(mockNotifier)
	svc := newInvoiceService(env, notifier)
	ctx := context.Background()

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})
	payload, err := svc.Barcode(ctx, env.user, invoice.ID)
	require.NoError(t, err)

	notifier.On("Notify", mock.Anything, "040 123 4567", mock.MatchedBy(func(msg string) bool {
		return bytes.Contains([]byte(msg), []byte(payload)) && bytes.Contains([]byte(msg), []byte("482.99 EUR"))
	})).Return(nil).Once()

	sent, err := svc.SendInvoice(ctx, env.user, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InvoiceSent), sent.Status)
	require.NotNil(t, sent.SentAt)
	notifier.AssertExpectations(t)
}

func TestSendInvoiceNeedsPhone(t *testing.T) {
	env := newTestEnv(t)
	notifier := new(mockNotifier)
	svc := newInvoiceService(env, notifier)
	ctx := context.Background()

	env.customer.Phone = ""
	require.NoError(t, env.store.Customers().Update(ctx, env.customer))

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})
	_, err := svc.SendInvoice(ctx, env.user, invoice.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceStatusAndOverdue(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))
	ctx := context.Background()

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})

	sent, err := svc.MarkSent(ctx, env.user, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InvoiceSent), sent.Status)

	svc.now = func() time.Time { return fixedNow.AddDate(0, 1, 0) }
	got, err := svc.GetInvoice(ctx, env.user, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InvoiceOverdue), got.Status)

	paid, err := svc.MarkPaid(ctx, env.user, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InvoicePaid), paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = svc.UpdateInvoice(ctx, env.user, invoice.ID, InvoiceInput{Status: patch.Set("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInvoicePermissions(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))
	ctx := context.Background()

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})
	stranger := Actor{UserID: uuid.New(), CompanyID: env.company.ID, Role: models.RoleUser}

	_, err := svc.MarkPaid(ctx, stranger, invoice.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, svc.DeleteInvoice(ctx, env.user, invoice.ID), ErrForbidden)
	require.NoError(t, svc.DeleteInvoice(ctx, env.admin, invoice.ID))

	_, err = svc.GetInvoice(ctx, env.admin, invoice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderInvoicePDF(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})

	var buf bytes.Buffer
	require.NoError(t, svc.RenderPDF(context.Background(), env.user, invoice.ID, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestInvoiceStatusOverdueIsNotStored(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))
	ctx := context.Background()

	_, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})

	_, err := svc.UpdateInvoice(ctx, env.user, invoice.ID, InvoiceInput{Status: patch.Set(string(models.InvoiceOverdue))})
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored, err := env.store.Invoices().GetByID(ctx, env.company.ID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.InvoiceDraft), stored.Status)
}

func TestInvoicePDFFlagsChangedOrderLines(t *testing.T) {
	env := newTestEnv(t)
	svc := newInvoiceService(env, new(mockNotifier))
	orders := newOrderService(env)
	ctx := context.Background()

	order, invoice := invoiceFor(t, env, svc, env.user, InvoiceInput{})

	doc, err := svc.pdfDocument(ctx, env.user, invoice.ID)
	require.NoError(t, err)
	assert.False(t, doc.LinesChanged)

	_, err = orders.UpdateOrder(ctx, env.user, order.ID, OrderInput{
		Items: patch.Set([]pricing.ItemInput{
			{ID: order.Items[0].ID.String(), Quantity: lenient("2")},
		}),
	})
	require.NoError(t, err)

	doc, err = svc.pdfDocument(ctx, env.user, invoice.ID)
	require.NoError(t, err)
	assert.True(t, doc.LinesChanged)
	assertDecimal(t, "482.99", doc.Invoice.TotalAmountVatIncl)

	var buf bytes.Buffer
	require.NoError(t, svc.RenderPDF(ctx, env.user, invoice.ID, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
