// Package checkout turns a cart into a committed order: one transaction
// covering the stock check, the order rows, the stock decrement and the
// loyalty award, guarded against double submission from the till.
package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bijuli-pos/internal/cart"
	"bijuli-pos/internal/models"
	"bijuli-pos/internal/pricing"
)

// Payment methods accepted at the counter.
const (
	PaymentCash       = "Cash"
	PaymentCreditCard = "Credit Card"
	PaymentEFTPOS     = "EFTPOS"
)

// Request carries everything the till collected for one sale.
type Request struct {
	Cart          cart.Cart
	CustomerID    *uint // nil for walk-in sales
	UserID        uint  // staff member processing the sale
	Discounts     pricing.Discounts
	PaymentMethod string
	AmountGiven   decimal.Decimal // tendered cash, ignored for card/EFTPOS
}

// Coordinator owns the order placement sequence. One instance serves the
// whole process; the inflight map holds a flag per session so a double-fired
// confirm click can never place two orders.
type Coordinator struct {
	store    Store
	inflight sync.Map // session key -> struct{}
}

func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// PlaceOrder validates, prices and commits a sale as one atomic unit.
// It returns either a Result or a Rejection, never both. On any rejection
// or storage failure the database is left exactly as it was.
//
// sessionKey identifies the active cart/session (one per logged-in
// terminal). The in-flight flag for it is set before any other work and
// cleared on every exit path.
func (co *Coordinator) PlaceOrder(sessionKey string, req Request) (*Result, *Rejection) {
	if _, busy := co.inflight.LoadOrStore(sessionKey, struct{}{}); busy {
		return nil, &Rejection{
			Reason:  ReasonDuplicateSubmission,
			Message: "an order for this session is already being processed",
		}
	}
	defer co.inflight.Delete(sessionKey)

	if req.Cart.IsEmpty() {
		return nil, &Rejection{Reason: ReasonEmptyCart, Message: "cart is empty"}
	}

	// Totals are priced off the cart snapshot the customer saw. Rounding
	// happens once, here, at the persistence boundary.
	totals := pricing.ComputeTotals(req.Cart, req.Discounts).Round()

	if req.PaymentMethod == PaymentCash && req.AmountGiven.LessThan(totals.FinalTotal) {
		return nil, &Rejection{
			Reason:  ReasonInsufficientPayment,
			Message: fmt.Sprintf("tendered %s is less than total %s", req.AmountGiven.StringFixed(2), totals.FinalTotal.StringFixed(2)),
		}
	}

	var customer *models.Customer
	if req.CustomerID != nil {
		var err error
		customer, err = co.store.GetCustomer(*req.CustomerID)
		if errors.Is(err, ErrNotFound) {
			return nil, &Rejection{Reason: ReasonInvalidCustomer, Message: fmt.Sprintf("customer %d does not exist", *req.CustomerID)}
		}
		if err != nil {
			return nil, &Rejection{Reason: ReasonPersistenceFailure, Message: "failed to load customer", Err: err}
		}
	}

	points := pricing.PointsEarned(totals.FinalTotal)

	var orderID uint
	txErr := co.store.InTransaction(func(tx Store) error {
		order := models.Order{
			CustomerID:    req.CustomerID,
			UserID:        req.UserID,
			TotalAmount:   totals.FinalTotal,
			Status:        models.OrderStatusPaid,
			PaymentMethod: req.PaymentMethod,
			OrderDate:     time.Now(),
		}

		// Deterministic line order keeps row locks acquired in a stable
		// sequence across concurrent terminals.
		for _, pid := range req.Cart.ProductIDs() {
			line := req.Cart[pid]

			product, err := tx.GetProduct(pid)
			if errors.Is(err, ErrNotFound) {
				return &rejectionError{&Rejection{
					Reason:    ReasonInsufficientStock,
					ProductID: pid,
					Message:   fmt.Sprintf("product %d is no longer stocked", pid),
				}}
			}
			if err != nil {
				return err
			}
			if product.StockLevel < line.Quantity {
				return &rejectionError{&Rejection{
					Reason:    ReasonInsufficientStock,
					ProductID: pid,
					Message:   fmt.Sprintf("insufficient stock for %s", product.Name),
				}}
			}

			// The line item records the catalog price at commit time, not
			// the cart's add-time snapshot. The persisted order is the
			// source of truth even if the price changed mid-session.
			order.Items = append(order.Items, models.OrderItem{
				ProductID:       pid,
				Quantity:        line.Quantity,
				PriceAtPurchase: product.Price.Round(2),
			})
		}

		if err := tx.InsertOrder(&order); err != nil {
			return err
		}

		for _, pid := range req.Cart.ProductIDs() {
			ok, err := tx.DecrementStock(pid, req.Cart[pid].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Lost a race since the locked read. The guarded update
				// refuses rather than driving stock negative.
				return &rejectionError{&Rejection{
					Reason:    ReasonInsufficientStock,
					ProductID: pid,
					Message:   fmt.Sprintf("insufficient stock for product %d", pid),
				}}
			}
		}

		if customer != nil && points > 0 {
			if err := tx.AddLoyaltyPoints(customer.ID, points); err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})

	if txErr != nil {
		var rej *rejectionError
		if errors.As(txErr, &rej) {
			return nil, rej.rejection
		}
		return nil, &Rejection{Reason: ReasonPersistenceFailure, Message: "order could not be saved", Err: txErr}
	}

	result := &Result{
		OrderID: orderID,
		Totals:  totals,
		Change:  decimal.Zero,
	}
	if customer != nil {
		result.PointsEarned = points
	}
	if req.PaymentMethod == PaymentCash {
		result.Change = req.AmountGiven.Sub(totals.FinalTotal)
	}
	return result, nil
}
