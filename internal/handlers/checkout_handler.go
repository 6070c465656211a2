package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bijuli-pos/internal/cart"
	"bijuli-pos/internal/checkout"
	"bijuli-pos/internal/pricing"
)

// CartItemInput is one line as the till sends it. UnitPrice is the snapshot
// shown to the customer; the commit re-reads the catalog price anyway.
type CartItemInput struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type QuoteRequest struct {
	Items       []CartItemInput `json:"items"`
	CustomerID  *uint           `json:"customer_id"`
	VoucherCode string          `json:"voucher_code"`
}

type CheckoutRequest struct {
	QuoteRequest
	PaymentMethod string          `json:"payment_method" binding:"required"`
	AmountGiven   decimal.Decimal `json:"amount_given"`
}

var paymentMethods = map[string]bool{
	checkout.PaymentCash:       true,
	checkout.PaymentCreditCard: true,
	checkout.PaymentEFTPOS:     true,
}

func buildCart(items []CartItemInput) cart.Cart {
	crt := cart.New()
	for _, item := range items {
		crt.Add(item.ProductID, item.UnitPrice, item.Quantity)
	}
	return crt
}

// resolveDiscounts turns the customer + voucher input into pricing rates.
// voucherValid is false only for a non-empty unknown code.
func resolveDiscounts(req QuoteRequest) (pricing.Discounts, bool, *checkout.Rejection) {
	discounts := pricing.Discounts{VoucherCode: req.VoucherCode}

	rate, valid := pricing.ResolveVoucher(req.VoucherCode)
	discounts.VoucherRate = rate

	if req.CustomerID != nil {
		customer, err := store.GetCustomer(*req.CustomerID)
		if errors.Is(err, checkout.ErrNotFound) {
			return discounts, valid, &checkout.Rejection{
				Reason:  checkout.ReasonInvalidCustomer,
				Message: fmt.Sprintf("customer %d does not exist", *req.CustomerID),
			}
		}
		if err != nil {
			return discounts, valid, &checkout.Rejection{Reason: checkout.ReasonPersistenceFailure, Message: "failed to load customer", Err: err}
		}
		discounts.VIPRate = pricing.RateForCustomerType(customer.CustomerType)
	}

	return discounts, valid, nil
}

// --- POST: /api/checkout/quote ---
// The till calls this on every cart or discount change for live display.
// An unknown voucher code is not an error, just reported invalid with no
// discount applied.
func QuoteTotals(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	discounts, voucherValid, rejection := resolveDiscounts(req)
	if rejection != nil {
		status := http.StatusBadRequest
		if rejection.Reason == checkout.ReasonPersistenceFailure {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": rejection.Message})
		return
	}

	totals := pricing.ComputeTotals(buildCart(req.Items), discounts).Round()

	c.JSON(http.StatusOK, gin.H{
		"totals":        totals,
		"voucher_valid": voucherValid,
		"points_earned": pricing.PointsEarned(totals.FinalTotal),
	})
}

// --- POST: /api/checkout ---
// One call per confirmed sale. The coordinator's in-flight guard absorbs a
// double-fired confirm: the repeat gets a 200 with no new order, never an
// error popup at the counter.
func ProcessCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !paymentMethods[req.PaymentMethod] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment method"})
		return
	}

	discounts, voucherValid, rejection := resolveDiscounts(req.QuoteRequest)
	if rejection == nil && !voucherValid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid voucher code"})
		return
	}
	if rejection != nil {
		status := http.StatusBadRequest
		if rejection.Reason == checkout.ReasonPersistenceFailure {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": rejection.Message})
		return
	}

	userID := c.MustGet("userID").(uint)
	sessionKey := fmt.Sprintf("user-%d", userID)

	result, rej := coordinator.PlaceOrder(sessionKey, checkout.Request{
		Cart:          buildCart(req.Items),
		CustomerID:    req.CustomerID,
		UserID:        userID,
		Discounts:     discounts,
		PaymentMethod: req.PaymentMethod,
		AmountGiven:   req.AmountGiven,
	})

	if rej != nil {
		switch rej.Reason {
		case checkout.ReasonDuplicateSubmission:
			// Absorbed: the first click is still working on it
			c.JSON(http.StatusOK, gin.H{"status": "in_progress"})
		case checkout.ReasonPersistenceFailure:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": rej.Message, "reason": rej.Reason})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Sale successful!",
		"order_id":      result.OrderID,
		"totals":        result.Totals,
		"change":        result.Change,
		"points_earned": result.PointsEarned,
	})
}
