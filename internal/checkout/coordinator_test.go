package checkout

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bijuli-pos/internal/cart"
	"bijuli-pos/internal/pricing"
)

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func cartOf(productID uint, price string, qty int) cart.Cart {
	c := cart.New()
	c.Add(productID, money(price), qty)
	return c
}

func uintPtr(v uint) *uint { return &v }

func TestPlaceOrderEmptyCart(t *testing.T) {
	co := NewCoordinator(newMockStore())

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cart.New(),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})

	assert.Nil(t, result)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonEmptyCart, rej.Reason)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "LG Monitor 27\"", "300.00", 1)
	co := NewCoordinator(store)

	// Stock is 1, cart wants 2
	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "300.00", 2),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})

	assert.Nil(t, result)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonInsufficientStock, rej.Reason)
	assert.Equal(t, uint(1), rej.ProductID)
	assert.Contains(t, rej.Message, "LG Monitor", "rejection must name the offending product")

	// Nothing persisted, stock untouched
	assert.Empty(t, store.orders)
	assert.Equal(t, 1, store.products[1].StockLevel)
}

func TestPlaceOrderInsufficientCash(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "JBL Speaker", "50.00", 10)
	co := NewCoordinator(store)

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "50.00", 1),
		UserID:        1,
		PaymentMethod: PaymentCash,
		AmountGiven:   money("40.00"),
	})

	assert.Nil(t, result)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonInsufficientPayment, rej.Reason)
	assert.Empty(t, store.orders)
	assert.Equal(t, 10, store.products[1].StockLevel)
}

func TestPlaceOrderSuccessWithDiscountsAndLoyalty(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "Gaming PC Mid", "100.00", 10)
	store.addCustomer(2, "Jane Smith", "VIP", 5)
	co := NewCoordinator(store)

	// 100.00 x2 = 200.00, VIP 5% then voucher 10% -> 171.00
	result, rej := co.PlaceOrder("s1", Request{
		Cart:       cartOf(1, "100.00", 2),
		CustomerID: uintPtr(2),
		UserID:     7,
		Discounts: pricing.Discounts{
			VIPRate:     money("0.05"),
			VoucherRate: money("0.10"),
			VoucherCode: "ais10",
		},
		PaymentMethod: PaymentCash,
		AmountGiven:   money("180.00"),
	})

	require.Nil(t, rej)
	require.NotNil(t, result)

	assert.Equal(t, "200.00", result.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", result.Totals.VIPDiscount.StringFixed(2))
	assert.Equal(t, "19.00", result.Totals.VoucherDiscount.StringFixed(2))
	assert.Equal(t, "171.00", result.Totals.FinalTotal.StringFixed(2))
	assert.Equal(t, "9.00", result.Change.StringFixed(2))
	assert.Equal(t, 17, result.PointsEarned)

	// Points added to the existing balance: 5 + floor(171/10) = 22
	assert.Equal(t, 22, store.customers[2].LoyaltyPoints)
	// Stock decremented by the sold quantity
	assert.Equal(t, 8, store.products[1].StockLevel)

	require.Len(t, store.orders, 1)
	order := store.orders[0]
	assert.Equal(t, result.OrderID, order.ID)
	assert.Equal(t, "paid", order.Status)
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, "171.00", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "100.00", order.Items[0].PriceAtPurchase.StringFixed(2))
}

func TestCommitTimeRepricing(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "MacBook Pro", "2200.00", 5) // catalog price moved up
	co := NewCoordinator(store)

	// Cart still carries the add-time snapshot of 2100.00
	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "2100.00", 1),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})

	require.Nil(t, rej)
	// Totals come from the snapshot the customer saw...
	assert.Equal(t, "2100.00", result.Totals.FinalTotal.StringFixed(2))
	// ...but the line item records the catalog price at commit time.
	assert.Equal(t, "2200.00", store.orders[0].Items[0].PriceAtPurchase.StringFixed(2))
}

func TestWalkInSaleEarnsNoPoints(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "Raspberry Pi 5", "85.00", 50)
	co := NewCoordinator(store)

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "85.00", 1),
		UserID:        1,
		PaymentMethod: PaymentCreditCard,
	})

	require.Nil(t, rej)
	assert.Equal(t, 0, result.PointsEarned)
	require.Len(t, store.orders, 1)
	assert.Nil(t, store.orders[0].CustomerID)
}

func TestSmallSaleAwardsZeroPoints(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "Cable", "9.50", 10)
	store.addCustomer(2, "John Doe", "Standard", 10)
	co := NewCoordinator(store)

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "9.50", 1),
		CustomerID:    uintPtr(2),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})

	require.Nil(t, rej)
	assert.Equal(t, 0, result.PointsEarned)
	assert.Equal(t, 10, store.customers[2].LoyaltyPoints)
}

func TestPlaceOrderInvalidCustomer(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "JBL Headphone", "150.00", 20)
	co := NewCoordinator(store)

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "150.00", 1),
		CustomerID:    uintPtr(99),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})

	assert.Nil(t, result)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonInvalidCustomer, rej.Reason)
	assert.Empty(t, store.orders)
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "Xiaomi Scooter", "550.00", 3)
	store.insertErr = errors.New("disk full")
	co := NewCoordinator(store)

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "550.00", 1),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})

	assert.Nil(t, result)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonPersistenceFailure, rej.Reason)
	assert.ErrorContains(t, rej.Err, "disk full")

	assert.Empty(t, store.orders)
	assert.Equal(t, 3, store.products[1].StockLevel)
}

func TestDuplicateSubmissionAbsorbed(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "Samsung S24 Ultra", "1300.00", 12)

	started := make(chan struct{})
	release := make(chan struct{})
	store.onInsert = func() {
		close(started)
		<-release
	}

	co := NewCoordinator(store)
	req := Request{
		Cart:          cartOf(1, "1300.00", 1),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	}

	done := make(chan *Result)
	go func() {
		result, rej := co.PlaceOrder("user-1", req)
		assert.Nil(t, rej)
		done <- result
	}()

	// The confirm button fires again while the first call sits in I/O
	<-started
	result, rej := co.PlaceOrder("user-1", req)
	assert.Nil(t, result)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonDuplicateSubmission, rej.Reason)

	close(release)
	first := <-done
	require.NotNil(t, first)

	// Exactly one order, one decrement
	assert.Len(t, store.orders, 1)
	assert.Equal(t, 11, store.products[1].StockLevel)
}

func TestGuardClearedOnEveryExitPath(t *testing.T) {
	store := newMockStore()
	store.addProduct(1, "Mechanical Keyboard", "110.00", 30)
	co := NewCoordinator(store)

	// Rejected attempt must not leave the session flagged
	_, rej := co.PlaceOrder("s1", Request{Cart: cart.New(), UserID: 1, PaymentMethod: PaymentEFTPOS})
	require.NotNil(t, rej)

	result, rej := co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "110.00", 1),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})
	require.Nil(t, rej)
	require.NotNil(t, result)

	// And a successful attempt clears it too
	result, rej = co.PlaceOrder("s1", Request{
		Cart:          cartOf(1, "110.00", 1),
		UserID:        1,
		PaymentMethod: PaymentEFTPOS,
	})
	require.Nil(t, rej)
	require.NotNil(t, result)
	assert.Len(t, store.orders, 2)
}
