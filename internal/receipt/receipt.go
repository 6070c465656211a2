// Package receipt builds the printable view of a committed order. It reads
// back persisted rows - the stored total is authoritative, nothing is
// repriced here - and leaves actual rendering (HTML, plain text) to callers.
package receipt

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bijuli-pos/internal/models"
	"bijuli-pos/internal/pricing"
)

// ErrOrderNotFound is returned by Build for an unknown order ID.
var ErrOrderNotFound = errors.New("order not found")

// Store is the read side the assembler needs. GetOrder returns (nil, nil)
// when the order does not exist, mirroring a LEFT JOIN: absence is a normal
// answer, not a failure.
type Store interface {
	GetOrder(orderID uint) (*models.Order, error)
	GetCustomer(customerID uint) (*models.Customer, error)
}

// Line is one row of the receipt body.
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is the assembled receipt, ready for a renderer.
type View struct {
	OrderID       uint            `json:"order_id"`
	TerminalID    string          `json:"terminal_id"`
	IssuedAt      time.Time       `json:"issued_at"`
	CustomerName  string          `json:"customer_name,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	Lines         []Line          `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Savings       decimal.Decimal `json:"savings"`
	Total         decimal.Decimal `json:"total"` // tax inclusive, as persisted
	GST           decimal.Decimal `json:"gst"`   // 15% backed out of Total
	PointsEarned  int             `json:"points_earned"`
}

// Assembler builds receipt views. TerminalID is stamped into every header so
// a paper trail can be matched to the till that printed it.
type Assembler struct {
	store      Store
	terminalID string
}

func NewAssembler(store Store, terminalID string) *Assembler {
	return &Assembler{store: store, terminalID: terminalID}
}

// Build assembles the receipt for a persisted order.
//
// The subtotal is recomputed from the stored line items (price at purchase,
// not today's catalog price) and the savings figure is simply subtotal minus
// the stored total - whatever mix of VIP and voucher discount produced it.
func (a *Assembler) Build(orderID uint) (*View, error) {
	order, err := a.store.GetOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	view := &View{
		OrderID:       order.ID,
		TerminalID:    a.terminalID,
		IssuedAt:      order.OrderDate,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		Total:         order.TotalAmount.Round(2),
	}

	subtotal := decimal.Zero
	for _, item := range order.Items {
		lineTotal := item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		view.Lines = append(view.Lines, Line{
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.PriceAtPurchase,
			LineTotal: lineTotal.Round(2),
		})
	}
	view.Subtotal = subtotal.Round(2)
	view.Savings = view.Subtotal.Sub(view.Total)
	view.GST = pricing.GSTComponent(view.Total).Round(2)

	if order.CustomerID != nil {
		// Best effort: a deleted customer just leaves the name blank, the
		// receipt is still valid.
		if customer, err := a.store.GetCustomer(*order.CustomerID); err == nil && customer != nil {
			view.CustomerName = customer.Name
		}
		view.PointsEarned = pricing.PointsEarned(view.Total)
	}

	return view, nil
}
