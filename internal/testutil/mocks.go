package testutil

import (
	"sort"
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// AddTransaction seeds a transaction into the mock
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) {
	if t.ID == 0 {
		t.ID = m.NextID
	}
	if t.ID >= m.NextID {
		m.NextID = t.ID + 1
	}
	m.Transactions[t.ID] = t
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	t.ID = m.NextID
	m.NextID++
	m.Transactions[t.ID] = t
	return t, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// List retrieves transactions matching the filters
func (m *MockTransactionRepository) List(filters *domain.RecordFilters) ([]*domain.Transaction, error) {
	result := make([]*domain.Transaction, 0)
	start, end := filters.Resolve()
	for _, t := range m.Transactions {
		if t.IsDeleted && (filters == nil || !filters.IncludeArchived) {
			continue
		}
		if !inRange(t.Date, start, end) {
			continue
		}
		if filters != nil && filters.Fund != nil && t.Fund != *filters.Fund {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces a transaction
func (m *MockTransactionRepository) Update(t *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := m.Transactions[t.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	m.Transactions[t.ID] = t
	return t, nil
}

// UpdatePayment applies a new payment state
func (m *MockTransactionRepository) UpdatePayment(id int32, state domain.PaymentState, actor string) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.PaymentStatus = state.Status
	t.DownPayment = state.DownPayment
	t.Remaining = state.Remaining
	t.UpdatedBy = &actor
	t.UpdatedAt = time.Now().UTC()
	return t, nil
}

// UpdateLifecycle applies new audit fields
func (m *MockTransactionRepository) UpdateLifecycle(id int32, audit domain.AuditFields) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.AuditFields = audit
	return t, nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
	CreateFn func(e *domain.Expense) (*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// AddExpense seeds an expense into the mock
func (m *MockExpenseRepository) AddExpense(e *domain.Expense) {
	if e.ID == 0 {
		e.ID = m.NextID
	}
	if e.ID >= m.NextID {
		m.NextID = e.ID + 1
	}
	m.Expenses[e.ID] = e
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(e *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(e)
	}
	e.ID = m.NextID
	m.NextID++
	m.Expenses[e.ID] = e
	return e, nil
}

// GetByReference retrieves an expense by its idempotency reference
func (m *MockExpenseRepository) GetByReference(referenceID string) (*domain.Expense, error) {
	for _, e := range m.Expenses {
		if e.ReferenceID == referenceID {
			return e, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(id int32) (*domain.Expense, error) {
	if e, ok := m.Expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

// List retrieves expenses matching the filters
func (m *MockExpenseRepository) List(filters *domain.RecordFilters) ([]*domain.Expense, error) {
	result := make([]*domain.Expense, 0)
	start, end := filters.Resolve()
	for _, e := range m.Expenses {
		if e.IsDeleted && (filters == nil || !filters.IncludeArchived) {
			continue
		}
		if !inRange(e.Date, start, end) {
			continue
		}
		if filters != nil && filters.Fund != nil && e.Fund != *filters.Fund {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdateLifecycle applies new audit fields
func (m *MockExpenseRepository) UpdateLifecycle(id int32, audit domain.AuditFields) (*domain.Expense, error) {
	e, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	e.AuditFields = audit
	return e, nil
}

// MockInventoryRepository is a mock implementation of domain.InventoryRepository
type MockInventoryRepository struct {
	Items  map[int32]*domain.InventoryItem
	NextID int32
}

// NewMockInventoryRepository creates a new MockInventoryRepository
func NewMockInventoryRepository() *MockInventoryRepository {
	return &MockInventoryRepository{
		Items:  make(map[int32]*domain.InventoryItem),
		NextID: 1,
	}
}

// AddItem seeds an item into the mock
func (m *MockInventoryRepository) AddItem(item *domain.InventoryItem) {
	if item.ID == 0 {
		item.ID = m.NextID
	}
	if item.ID >= m.NextID {
		m.NextID = item.ID + 1
	}
	m.Items[item.ID] = item
}

// Create creates a new inventory item
func (m *MockInventoryRepository) Create(item *domain.InventoryItem) (*domain.InventoryItem, error) {
	item.ID = m.NextID
	m.NextID++
	m.Items[item.ID] = item
	return item, nil
}

// GetByID retrieves an item by ID
func (m *MockInventoryRepository) GetByID(id int32) (*domain.InventoryItem, error) {
	if item, ok := m.Items[id]; ok {
		return item, nil
	}
	return nil, domain.ErrItemNotFound
}

// List retrieves items matching the filters
func (m *MockInventoryRepository) List(filters *domain.RecordFilters) ([]*domain.InventoryItem, error) {
	result := make([]*domain.InventoryItem, 0)
	start, end := filters.Resolve()
	for _, item := range m.Items {
		if item.IsDeleted && (filters == nil || !filters.IncludeArchived) {
			continue
		}
		if !inRange(item.PurchaseDate, start, end) {
			continue
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// UpdatePayment applies a new payment state
func (m *MockInventoryRepository) UpdatePayment(id int32, state domain.PaymentState, actor string) (*domain.InventoryItem, error) {
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	item.PaymentStatus = state.Status
	item.DownPayment = state.DownPayment
	item.Remaining = state.Remaining
	item.UpdatedBy = &actor
	item.UpdatedAt = time.Now().UTC()
	return item, nil
}

// UpdateNextBilling sets the stored next billing date
func (m *MockInventoryRepository) UpdateNextBilling(id int32, next time.Time) error {
	item, ok := m.Items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.NextBillingDate = &next
	return nil
}

// UpdateLifecycle applies new audit fields
func (m *MockInventoryRepository) UpdateLifecycle(id int32, audit domain.AuditFields) (*domain.InventoryItem, error) {
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	item.AuditFields = audit
	return item, nil
}

// MockAdjustmentRepository is a mock implementation of domain.AdjustmentRepository.
// It writes through to the item store so a journaled delta and the stored
// quantity move together, the way the transactional store does. Set ApplyErr
// to simulate a write failure; nothing is recorded when it fires.
type MockAdjustmentRepository struct {
	Adjustments []*domain.InventoryAdjustment
	Items       *MockInventoryRepository
	ApplyErr    error
}

// NewMockAdjustmentRepository creates a new MockAdjustmentRepository backed
// by the given item store
func NewMockAdjustmentRepository(items *MockInventoryRepository) *MockAdjustmentRepository {
	return &MockAdjustmentRepository{
		Adjustments: make([]*domain.InventoryAdjustment, 0),
		Items:       items,
	}
}

// Apply journals an adjustment and moves the item to its new quantity
func (m *MockAdjustmentRepository) Apply(adj *domain.InventoryAdjustment, totalValue decimal.Decimal) (*domain.InventoryItem, *domain.InventoryAdjustment, error) {
	if m.ApplyErr != nil {
		return nil, nil, m.ApplyErr
	}
	item, ok := m.Items.Items[adj.ItemID]
	if !ok {
		return nil, nil, domain.ErrItemNotFound
	}
	m.Adjustments = append(m.Adjustments, adj)
	item.Quantity = adj.NewQuantity
	item.TotalValue = totalValue
	item.UpdatedBy = &adj.Actor
	item.UpdatedAt = time.Now().UTC()
	return item, adj, nil
}

// ListByItem returns the adjustments for one item in order
func (m *MockAdjustmentRepository) ListByItem(itemID int32) ([]*domain.InventoryAdjustment, error) {
	result := make([]*domain.InventoryAdjustment, 0)
	for _, adj := range m.Adjustments {
		if adj.ItemID == itemID {
			result = append(result, adj)
		}
	}
	return result, nil
}

// MockFundRepository is a mock implementation of domain.FundRepository
type MockFundRepository struct {
	Balances    map[domain.FundType]*domain.FundBalance
	Postings    map[string]*domain.FundPosting
	PostDeltaFn func(fund domain.FundType, delta decimal.Decimal, referenceID string) (*domain.FundBalance, error)
	nextID      int64
}

// NewMockFundRepository creates a new MockFundRepository with both funds at zero
func NewMockFundRepository() *MockFundRepository {
	m := &MockFundRepository{
		Balances: make(map[domain.FundType]*domain.FundBalance),
		Postings: make(map[string]*domain.FundPosting),
		nextID:   1,
	}
	for _, fund := range []domain.FundType{domain.FundPettyCash, domain.FundProfitBank} {
		m.Balances[fund] = &domain.FundBalance{Fund: fund, CurrentBalance: decimal.Zero, UpdatedAt: time.Now().UTC()}
	}
	return m
}

func postingKey(fund domain.FundType, referenceID string) string {
	return string(fund) + "|" + referenceID
}

// PostDelta atomically applies a signed delta with reference dedup
func (m *MockFundRepository) PostDelta(fund domain.FundType, delta decimal.Decimal, referenceID string) (*domain.FundBalance, error) {
	if m.PostDeltaFn != nil {
		return m.PostDeltaFn(fund, delta, referenceID)
	}
	key := postingKey(fund, referenceID)
	if _, ok := m.Postings[key]; ok {
		return nil, domain.ErrDuplicatePosting
	}
	m.Postings[key] = &domain.FundPosting{
		ID:          m.nextID,
		Fund:        fund,
		Amount:      delta,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextID++

	balance := m.Balances[fund]
	balance.CurrentBalance = balance.CurrentBalance.Add(delta)
	balance.UpdatedAt = time.Now().UTC()
	snapshot := *balance
	return &snapshot, nil
}

// GetPosting returns a journaled posting
func (m *MockFundRepository) GetPosting(fund domain.FundType, referenceID string) (*domain.FundPosting, error) {
	if p, ok := m.Postings[postingKey(fund, referenceID)]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

// GetBalance returns the current balance for a fund
func (m *MockFundRepository) GetBalance(fund domain.FundType) (*domain.FundBalance, error) {
	if b, ok := m.Balances[fund]; ok {
		snapshot := *b
		return &snapshot, nil
	}
	return nil, domain.ErrUnknownFund
}

// ListBalances returns both fund balances
func (m *MockFundRepository) ListBalances() ([]*domain.FundBalance, error) {
	result := make([]*domain.FundBalance, 0, len(m.Balances))
	for _, fund := range []domain.FundType{domain.FundPettyCash, domain.FundProfitBank} {
		snapshot := *m.Balances[fund]
		result = append(result, &snapshot)
	}
	return result, nil
}

func inRange(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}
