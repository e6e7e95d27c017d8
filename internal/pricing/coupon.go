package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownCoupon = errors.New("unknown coupon code")

// Evaluator maps coupon codes to percentage discounts. Codes are matched
// case-insensitively against a fixed allow-list.
type Evaluator struct {
	rates map[string]decimal.Decimal // upper-cased code -> rate in [0,1]
}

func NewEvaluator(percents map[string]int) *Evaluator {
	rates := make(map[string]decimal.Decimal, len(percents))
	for code, pct := range percents {
		if pct <= 0 || pct > 100 {
			continue
		}
		rates[strings.ToUpper(code)] = decimal.NewFromInt(int64(pct)).Div(decimal.NewFromInt(100))
	}
	return &Evaluator{rates: rates}
}

// Evaluate returns the discount in cents for the given code and subtotal.
// An empty code means no coupon was applied; an unknown code returns zero
// discount and ErrUnknownCoupon so the caller can surface the rejection.
func (e *Evaluator) Evaluate(code string, subtotalCents int64) (int64, error) {
	if strings.TrimSpace(code) == "" {
		return 0, nil
	}
	rate, ok := e.rates[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrUnknownCoupon
	}
	discount := decimal.NewFromInt(subtotalCents).Mul(rate)
	return discount.IntPart(), nil
}
