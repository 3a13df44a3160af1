package services

import "github.com/shopspring/decimal"

// GSTRate is the fixed tax applied to freight.
var GSTRate = decimal.RequireFromString("0.12")

// DefaultFreightRatePerTon applies when no valid rate is configured.
const DefaultFreightRatePerTon = 1000.0

// Quote is the money side of a booking.
type Quote struct {
	Freight float64
	GST     float64
	Total   float64
	Advance float64
	Balance float64
}

// QuoteFreight prices a load. Arithmetic runs in decimal; an advance larger
// than the total leaves a zero balance rather than a credit.
func QuoteFreight(requiredCapacity, ratePerTon, advance float64) Quote {
	if ratePerTon <= 0 {
		ratePerTon = DefaultFreightRatePerTon
	}
	if advance < 0 {
		advance = 0
	}

	freight := decimal.NewFromFloat(requiredCapacity).Mul(decimal.NewFromFloat(ratePerTon))
	gst := freight.Mul(GSTRate)
	total := freight.Add(gst)
	adv := decimal.NewFromFloat(advance)
	balance := decimal.Max(total.Sub(adv), decimal.Zero)

	return Quote{
		Freight: freight.InexactFloat64(),
		GST:     gst.InexactFloat64(),
		Total:   total.InexactFloat64(),
		Advance: adv.InexactFloat64(),
		Balance: balance.InexactFloat64(),
	}
}
