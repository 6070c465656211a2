package checkout

import (
	"errors"

	"bijuli-pos/internal/models"
)

// ErrNotFound is returned by Store lookups when the row does not exist.
// Implementations translate their driver's not-found error into this one.
var ErrNotFound = errors.New("record not found")

// Store is the persistence collaborator the coordinator runs against.
// The coordinator never touches a concrete database; the gorm store in
// internal/database implements this over MySQL (and sqlite in tests).
type Store interface {
	// GetProduct reads one product row - current price, name and stock in a
	// single fetch. Inside InTransaction the row must be read locked so the
	// stock check and the later decrement cannot interleave with another
	// terminal.
	GetProduct(productID uint) (*models.Product, error)

	GetCustomer(customerID uint) (*models.Customer, error)

	// InsertOrder writes the order header and its line items together,
	// filling in the generated order ID.
	InsertOrder(order *models.Order) error

	// DecrementStock subtracts qty from a product's stock as one guarded
	// update. It returns false, with no effect, if the result would go
	// negative.
	DecrementStock(productID uint, qty int) (bool, error)

	// AddLoyaltyPoints adds (not replaces) points on a customer's balance.
	AddLoyaltyPoints(customerID uint, points int) error

	// InTransaction runs fn against a transactional view of the store.
	// If fn returns an error everything it did is rolled back.
	InTransaction(fn func(tx Store) error) error
}
