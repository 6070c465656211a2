package database

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bijuli-pos/internal/checkout"
	"bijuli-pos/internal/models"
)

// Store adapts gorm to the interfaces the checkout coordinator and receipt
// assembler consume. The same type serves plain reads and transactional
// work: InTransaction hands callbacks a Store bound to the gorm transaction.
type Store struct {
	db   *gorm.DB
	inTx bool
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetProduct reads one product row. Inside a transaction on MySQL the row is
// locked FOR UPDATE so concurrent terminals serialize on it; sqlite (tests)
// has no row locks, its single-writer model covers the same guarantee.
func (s *Store) GetProduct(productID uint) (*models.Product, error) {
	q := s.db
	if s.inTx && s.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := q.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkout.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) GetCustomer(customerID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checkout.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// InsertOrder writes the order header; gorm inserts the line items with it
// and back-fills the generated IDs.
func (s *Store) InsertOrder(order *models.Order) error {
	return s.db.Create(order).Error
}

// DecrementStock is a single guarded update: the WHERE clause refuses any
// decrement that would take stock below zero, so there is no check-then-act
// window even across terminals.
func (s *Store) DecrementStock(productID uint, qty int) (bool, error) {
	res := s.db.Model(&models.Product{}).
		Where("id = ? AND stock_level >= ?", productID, qty).
		UpdateColumn("stock_level", gorm.Expr("stock_level - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) AddLoyaltyPoints(customerID uint, points int) error {
	res := s.db.Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return checkout.ErrNotFound
	}
	return nil
}

func (s *Store) InTransaction(fn func(tx checkout.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

// GetOrder loads an order with its line items and product names for the
// receipt assembler. A missing order is (nil, nil), not an error.
func (s *Store) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items.Product").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
