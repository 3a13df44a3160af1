package documents

import (
	"io"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// WriteInvoice renders a one-page GST invoice for a booking.
func WriteInvoice(w io.Writer, booking *models.Booking, customerName string) error {
	return invoiceSheet(booking, customerName).pdf.Output(w)
}

func invoiceSheet(b *models.Booking, customerName string) *sheet {
	s := newSheet("Invoice " + b.InvoiceNumber())
	s.pdf.AddPage()
	s.heading("GST INVOICE", 18)
	s.pdf.Ln(4)

	s.row("Invoice Number", b.InvoiceNumber())
	s.row("Date", b.CreatedAt.Format("02 Jan 2006"))
	s.row("Customer", orDash(customerName))
	s.row("Route", orDash(b.From)+" to "+orDash(b.To))
	s.rule()

	s.row("Base Amount", rupees(b.FreightAmount))
	s.row("GST (12%)", rupees(b.GSTAmount))
	s.row("Total Payable", rupees(b.TotalAmount()))
	s.row("Advance Paid", rupees(b.AdvancePaid))
	s.row("Balance Due", rupees(b.BalanceAmount))
	s.row("Payment Status", orDash(b.PaymentStatus))
	return s
}
