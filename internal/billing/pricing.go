// Package billing holds the payment gate: per-row pricing with a free tier,
// and the checkout provider used to collect payment before downloads unlock.
// The engine never sees any of this.
package billing

// Pricing computes the charge for one run.
type Pricing struct {
	// FreeTierLimit is the largest row count processed for free.
	FreeTierLimit int
	// PricePerRowCents is charged per input row once above the free tier.
	PricePerRowCents int
}

// Quote returns the price in cents and whether the run falls in the free
// tier. Paid runs are charged for every row, not just the overage.
func (p Pricing) Quote(rows int) (cents int, freeTier bool) {
	if rows <= p.FreeTierLimit {
		return 0, true
	}
	return rows * p.PricePerRowCents, false
}
