package checkout

import (
	"github.com/shopspring/decimal"

	"bijuli-pos/internal/pricing"
)

// Reason tags why an order was refused. Rejections are ordinary return
// values, not panics or control-flow errors - the caller decides how to
// present them.
type Reason string

const (
	ReasonEmptyCart           Reason = "empty_cart"
	ReasonInsufficientStock   Reason = "insufficient_stock"
	ReasonInsufficientPayment Reason = "insufficient_payment"
	ReasonInvalidCustomer     Reason = "invalid_customer"
	ReasonPersistenceFailure  Reason = "persistence_failure"
	// ReasonDuplicateSubmission means another placement for the same session
	// is still in flight. Callers should absorb it quietly: no error shown,
	// no second order created.
	ReasonDuplicateSubmission Reason = "duplicate_submission"
)

// Rejection explains a refused order. ProductID is set for stock rejections
// so the message can name the offending product. Err carries the underlying
// storage error for persistence failures.
type Rejection struct {
	Reason    Reason `json:"reason"`
	ProductID uint   `json:"product_id,omitempty"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

// Result is a committed order.
type Result struct {
	OrderID      uint            `json:"order_id"`
	Totals       pricing.Totals  `json:"totals"`
	PointsEarned int             `json:"points_earned"`
	Change       decimal.Decimal `json:"change"`
}

// rejectionError smuggles a Rejection out of the store transaction callback
// so the transaction rolls back on every rejection path. It never escapes
// the coordinator.
type rejectionError struct {
	rejection *Rejection
}

func (e *rejectionError) Error() string {
	return string(e.rejection.Reason) + ": " + e.rejection.Message
}
