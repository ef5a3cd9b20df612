package billing

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// ExportPDF renders the bill as a single page PDF with a QR code of the
// order code. The same approval gate as GetBill applies.
func (s *service) ExportPDF(ctx context.Context, code string) (string, []byte, error) {
	bill, err := s.GetBill(ctx, code)
	if err != nil {
		return "", nil, err
	}

	data, err := renderPDF(bill)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render bill pdf")
	}
	filename := fmt.Sprintf("RajaGrocer_Bill_%s.pdf", bill.OrderCode)
	return filename, data, nil
}

func renderPDF(bill *Bill) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(bill.StoreName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Order: "+bill.OrderCode, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, bill.SubmittedAt.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(90, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range bill.Lines {
		pdf.CellFormat(90, 8, tr(line.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, line.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", line.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, line.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 10, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 10, bill.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, "Payment: "+bill.Payment.String(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	png, err := qrcode.Encode(bill.OrderCode, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("order-qr", 85, pdf.GetY(), 40, 40, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 44)

	pdf.SetFont("Helvetica", "I", 11)
	pdf.CellFormat(0, 8, bill.Footer, "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
