package checkout

import (
	"sync"

	"github.com/shopspring/decimal"

	"bijuli-pos/internal/models"
)

// mockStore implements Store in memory with real transaction semantics:
// writes stage inside the callback and merge only when it returns nil, so
// rollback behavior can be asserted the same way as against a database.
type mockStore struct {
	mu        sync.Mutex
	products  map[uint]*models.Product
	customers map[uint]*models.Customer
	orders    []*models.Order
	nextID    uint

	insertErr error  // forced InsertOrder failure
	pointsErr error  // forced AddLoyaltyPoints failure
	onInsert  func() // hook running inside InsertOrder, for concurrency tests
}

func newMockStore() *mockStore {
	return &mockStore{
		products:  map[uint]*models.Product{},
		customers: map[uint]*models.Customer{},
		nextID:    1,
	}
}

func (m *mockStore) addProduct(id uint, name, price string, stock int) {
	p, _ := decimal.NewFromString(price)
	m.products[id] = &models.Product{ID: id, Name: name, Price: p, StockLevel: stock}
}

func (m *mockStore) addCustomer(id uint, name, customerType string, points int) {
	m.customers[id] = &models.Customer{ID: id, Name: name, CustomerType: customerType, LoyaltyPoints: points}
}

func (m *mockStore) GetProduct(productID uint) (*models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockStore) GetCustomer(customerID uint) (*models.Customer, error) {
	c, ok := m.customers[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockStore) InsertOrder(order *models.Order) error {
	// Only the transactional view inserts
	panic("InsertOrder called outside a transaction")
}

func (m *mockStore) DecrementStock(productID uint, qty int) (bool, error) {
	panic("DecrementStock called outside a transaction")
}

func (m *mockStore) AddLoyaltyPoints(customerID uint, points int) error {
	panic("AddLoyaltyPoints called outside a transaction")
}

func (m *mockStore) InTransaction(fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &mockTx{
		store:      m,
		decrements: map[uint]int{},
		points:     map[uint]int{},
	}
	if err := fn(tx); err != nil {
		return err // staged writes dropped
	}

	for pid, qty := range tx.decrements {
		m.products[pid].StockLevel -= qty
	}
	for cid, pts := range tx.points {
		m.customers[cid].LoyaltyPoints += pts
	}
	m.orders = append(m.orders, tx.inserted...)
	return nil
}

type mockTx struct {
	store      *mockStore
	inserted   []*models.Order
	decrements map[uint]int
	points     map[uint]int
}

func (t *mockTx) GetProduct(productID uint) (*models.Product, error) {
	return t.store.GetProduct(productID)
}

func (t *mockTx) GetCustomer(customerID uint) (*models.Customer, error) {
	return t.store.GetCustomer(customerID)
}

func (t *mockTx) InsertOrder(order *models.Order) error {
	if t.store.insertErr != nil {
		return t.store.insertErr
	}
	if t.store.onInsert != nil {
		t.store.onInsert()
	}
	order.ID = t.store.nextID
	t.store.nextID++
	t.inserted = append(t.inserted, order)
	return nil
}

func (t *mockTx) DecrementStock(productID uint, qty int) (bool, error) {
	p, ok := t.store.products[productID]
	if !ok {
		return false, nil
	}
	if p.StockLevel-t.decrements[productID] < qty {
		return false, nil
	}
	t.decrements[productID] += qty
	return true, nil
}

func (t *mockTx) AddLoyaltyPoints(customerID uint, points int) error {
	if t.store.pointsErr != nil {
		return t.store.pointsErr
	}
	t.points[customerID] += points
	return nil
}

func (t *mockTx) InTransaction(fn func(tx Store) error) error {
	return fn(t)
}
