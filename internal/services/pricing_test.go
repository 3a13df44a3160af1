package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteFreight(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		rate     float64
		advance  float64
		want     Quote
	}{
		{
			name:     "ten tons with advance",
			capacity: 10, rate: 1000, advance: 1000,
			want: Quote{Freight: 10000, GST: 1200, Total: 11200, Advance: 1000, Balance: 10200},
		},
		{
			name:     "overpayment clamps to zero",
			capacity: 1, rate: 1000, advance: 5000,
			want: Quote{Freight: 1000, GST: 120, Total: 1120, Advance: 5000, Balance: 0},
		},
		{
			name:     "invalid rate uses default",
			capacity: 2, rate: -5, advance: 0,
			want: Quote{Freight: 2000, GST: 240, Total: 2240, Advance: 0, Balance: 2240},
		},
		{
			name:     "fractional tons",
			capacity: 2.5, rate: 1500, advance: 0,
			want: Quote{Freight: 3750, GST: 450, Total: 4200, Advance: 0, Balance: 4200},
		},
		{
			name:     "negative advance ignored",
			capacity: 1, rate: 1000, advance: -10,
			want: Quote{Freight: 1000, GST: 120, Total: 1120, Advance: 0, Balance: 1120},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteFreight(tt.capacity, tt.rate, tt.advance))
		})
	}
}

func TestQuoteFreightGSTIsTwelvePercent(t *testing.T) {
	for _, capacity := range []float64{0.5, 1, 3.3, 7.25, 12, 40} {
		q := QuoteFreight(capacity, 1000, 0)
		assert.InDelta(t, q.Freight*0.12, q.GST, 1e-9)
		assert.InDelta(t, q.Freight+q.GST, q.Total, 1e-9)
	}
}
