// Package invoicepdf lays out a printable invoice with its payment barcode.
package invoicepdf

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strconv"

	"invoice_manager/internal/barcode"
	"invoice_manager/internal/models"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Document is everything printed on one invoice. ProductNames maps order
// item product ids to display names; unknown products print as "Item".
// LinesChanged marks items that no longer add up to the invoice totals, which
// were fixed when the invoice was created.
type Document struct {
	Company      models.Company
	Customer     models.Customer
	Invoice      models.Invoice
	Items        []models.OrderItem
	ProductNames map[string]string
	Barcode      string
	LinesChanged bool
}

const linesChangedNote = "Order lines were changed after this invoice was issued. The amount to pay is the invoiced total."

const (
	marginLeft   = 15.0
	pageWidth    = 210.0
	contentWidth = pageWidth - 2*marginLeft
	barcodeImgW  = 600
	barcodeImgH  = 60
)

// Render writes doc as a single A4 PDF to w.
func Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 15, marginLeft)
	pdf.SetTitle(fmt.Sprintf("Invoice %d", doc.Invoice.InvoiceNumber), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentWidth/2, 10, tr(doc.Company.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth/2, 10, "INVOICE / LASKU", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	y := pdf.GetY()
	pdf.MultiCell(contentWidth/2, 5, tr(companyBlock(doc.Company)), "", "L", false)
	pdf.SetXY(marginLeft+contentWidth/2, y)
	pdf.MultiCell(contentWidth/2, 5, tr(invoiceBlock(doc.Invoice)), "", "R", false)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentWidth, 5, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentWidth, 5, tr(customerBlock(doc.Customer)), "", "L", false)

	pdf.Ln(6)
	itemTable(pdf, tr, doc)
	totals(pdf, doc.Invoice)
	if doc.LinesChanged {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(contentWidth, 5, linesChangedNote, "", "L", false)
	}

	if doc.Barcode != "" {
		if err := barcodeBlock(pdf, doc); err != nil {
			return err
		}
	}

	return pdf.Output(w)
}

func companyBlock(c models.Company) string {
	s := c.Address
	if c.BusinessID != "" {
		s += "\nBusiness ID " + c.BusinessID
	}
	return s
}

func invoiceBlock(inv models.Invoice) string {
	return fmt.Sprintf("Invoice number %d\nDate %s\nDue date %s\nReference %s",
		inv.InvoiceNumber,
		inv.IssueDate.Format("02.01.2006"),
		inv.DueDate.Format("02.01.2006"),
		inv.Reference,
	)
}

func customerBlock(c models.Customer) string {
	s := c.Name
	if c.Address != "" {
		s += "\n" + c.Address
	}
	if c.BusinessID != "" {
		s += "\nBusiness ID " + c.BusinessID
	}
	return s
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Product", 70, "L"},
	{"Qty", 15, "R"},
	{"Unit excl.", 25, "R"},
	{"VAT %", 15, "R"},
	{"Total excl.", 25, "R"},
	{"Total incl.", 30, "R"},
}

func itemTable(pdf *fpdf.Fpdf, tr func(string) string, doc Document) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "B", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range doc.Items {
		name, ok := doc.ProductNames[item.ProductID.String()]
		if !ok {
			name = "Item"
		}
		cells := []string{
			tr(name),
			strconv.FormatInt(item.Quantity, 10),
			money(item.UnitPriceVatExcl),
			item.TaxRate.String(),
			money(item.TotalPriceVatExcl),
			money(item.TotalPriceVatIncl),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 6, cells[i], "", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func totals(pdf *fpdf.Fpdf, inv models.Invoice) {
	vat := inv.TotalAmountVatIncl.Sub(inv.TotalAmountVatExcl)
	rows := [][2]string{
		{"Total excl. VAT", money(inv.TotalAmountVatExcl)},
		{"VAT", money(vat)},
		{"Total to pay EUR", money(inv.TotalAmountVatIncl)},
	}

	pdf.Ln(4)
	for i, row := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(contentWidth-30, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row[1], "", 1, "R", false, 0, "")
	}
}

func barcodeBlock(pdf *fpdf.Fpdf, doc Document) error {
	img, err := barcode.Image(doc.Barcode, barcodeImgW, barcodeImgH)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode barcode: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("barcode", opts, &buf)

	const top = 240.0
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(marginLeft, top-12)
	pdf.CellFormat(contentWidth, 4, "Recipient IBAN "+doc.Invoice.IBAN, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentWidth, 4, "Reference "+doc.Invoice.Reference, "", 1, "L", false, 0, "")
	pdf.ImageOptions("barcode", marginLeft, top, 105, 13, false, opts, 0, "")
	pdf.SetXY(marginLeft, top+14)
	pdf.SetFont("Courier", "", 9)
	pdf.CellFormat(contentWidth, 5, doc.Barcode, "", 1, "L", false, 0, "")

	return pdf.Error()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
