package registration

import (
	"math"

	"github.com/Rhymond/go-money"
)

// Currency is the only currency registrations are charged in
const Currency = money.NGN

// MinimumFee is the lowest accepted registration payment, in naira
const MinimumFee int64 = 1020

const maxAmount = 1e9

// Fee converts a whole naira amount to money
func Fee(naira int64) *money.Money {
	return money.New(naira*100, Currency)
}

// checkAmount rejects fractional amounts and anything below MinimumFee
func checkAmount(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount != math.Trunc(amount) || amount > maxAmount {
		return 0, NewInvalidAmountError("Invalid amount", nil)
	}
	naira := int64(amount)
	below, err := Fee(naira).LessThan(Fee(MinimumFee))
	if err != nil {
		return 0, NewInvalidAmountError("Invalid amount", err)
	}
	if below {
		return 0, NewInvalidAmountError("Invalid amount", nil)
	}
	return naira, nil
}
