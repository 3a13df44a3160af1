package documents

import (
	"io"
	"strings"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
)

// BiltyCopies are the labelled copies printed for every shipment, one per page.
var BiltyCopies = []string{"Consignor Copy", "Consignee Copy", "Driver Copy", "Transport Copy"}

// WriteBilty renders the lorry receipt as four labelled copies.
func WriteBilty(w io.Writer, b *models.Bilty) error {
	return biltySheet(b).pdf.Output(w)
}

func biltySheet(b *models.Bilty) *sheet {
	s := newSheet("Bilty " + b.LRNumber)
	for _, copyLabel := range BiltyCopies {
		s.pdf.AddPage()
		s.heading("LOGISTICS BILTY", 18)
		s.subheading(copyLabel)

		s.row("LR Number", b.LRNumber)
		s.row("Date", b.CreatedAt.Format("02 Jan 2006"))
		s.rule()

		s.row("Consignor", orDash(b.ConsignorName))
		s.row("Consignee", orDash(b.ConsigneeName))
		s.row("Pickup", orDash(b.PickupLocation))
		s.row("Drop", orDash(b.DropLocation))
		s.row("Material", orDash(b.MaterialType))
		s.row("Weight", tons(b.Weight))
		s.rule()

		s.row("Vehicle Number", orDash(b.VehicleNumber))
		s.row("Truck Type", orDash(b.TruckType))
		s.row("Driver", orDash(b.DriverName))
		s.row("Driver Phone", orDash(b.DriverPhone))
		s.rule()

		s.row("Freight", rupees(b.FreightAmount))
		s.row("Advance Paid", rupees(b.AdvancePaid))
		s.row("Balance", rupees(b.BalanceAmount))
		s.row("Payment Mode", strings.ToUpper(orDash(b.PaymentMode)))
		s.row("Shipment Status", orDash(b.ShipmentStatus))
	}
	return s
}
