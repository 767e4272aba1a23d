package usecase

// Pricing computes the buyer's landed cost for a lot
type Pricing struct {
	BrokerageRate float64
	DeliveryFee   float64
}

// Fee is the brokerage fee on the highest bid; an absent bid counts as zero
func (p Pricing) Fee(bid *float64) float64 {
	return bidValue(bid) * p.BrokerageRate
}

// FinalPrice is bid plus fee plus delivery
func (p Pricing) FinalPrice(bid *float64) float64 {
	return bidValue(bid) + p.Fee(bid) + p.DeliveryFee
}

// Ratio divides the final price by the market estimate. It is nil when the
// estimate is absent or zero.
func Ratio(final float64, estimate *float64) *float64 {
	if estimate == nil || *estimate == 0 {
		return nil
	}
	r := final / *estimate
	return &r
}

func bidValue(bid *float64) float64 {
	if bid == nil {
		return 0
	}
	return *bid
}
