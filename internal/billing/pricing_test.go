package billing

import "testing"

func TestQuote(t *testing.T) {
	pricing := Pricing{FreeTierLimit: 250, PricePerRowCents: 1}

	cases := []struct {
		rows     int
		cents    int
		freeTier bool
	}{
		{0, 0, true},
		{1, 0, true},
		{250, 0, true},
		{251, 251, false},
		{1000, 1000, false},
	}
	for _, tc := range cases {
		cents, freeTier := pricing.Quote(tc.rows)
		if cents != tc.cents || freeTier != tc.freeTier {
			t.Errorf("Quote(%d) = (%d, %v), want (%d, %v)", tc.rows, cents, freeTier, tc.cents, tc.freeTier)
		}
	}
}
