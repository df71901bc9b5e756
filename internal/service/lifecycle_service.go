package service

import (
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
)

// LifecycleService applies archive/restore uniformly to transactions,
// expenses and inventory items. Both directions are explicit operator
// actions; nothing archives automatically.
type LifecycleService struct {
	transactionRepo domain.TransactionRepository
	expenseRepo     domain.ExpenseRepository
	inventoryRepo   domain.InventoryRepository
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(transactionRepo domain.TransactionRepository, expenseRepo domain.ExpenseRepository, inventoryRepo domain.InventoryRepository) *LifecycleService {
	return &LifecycleService{
		transactionRepo: transactionRepo,
		expenseRepo:     expenseRepo,
		inventoryRepo:   inventoryRepo,
	}
}

// ArchiveTransaction soft-deletes a transaction.
func (s *LifecycleService) ArchiveTransaction(id int32, actor string) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	audit, err := tx.AuditFields.Archive(actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.UpdateLifecycle(id, audit)
}

// RestoreTransaction brings an archived transaction back.
func (s *LifecycleService) RestoreTransaction(id int32, actor string) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	audit, err := tx.AuditFields.Restore(actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.transactionRepo.UpdateLifecycle(id, audit)
}

// ArchiveExpense soft-deletes an expense.
func (s *LifecycleService) ArchiveExpense(id int32, actor string) (*domain.Expense, error) {
	e, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	audit, err := e.AuditFields.Archive(actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.expenseRepo.UpdateLifecycle(id, audit)
}

// RestoreExpense brings an archived expense back.
func (s *LifecycleService) RestoreExpense(id int32, actor string) (*domain.Expense, error) {
	e, err := s.expenseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	audit, err := e.AuditFields.Restore(actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.expenseRepo.UpdateLifecycle(id, audit)
}

// ArchiveItem soft-deletes an inventory item.
func (s *LifecycleService) ArchiveItem(id int32, actor string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	audit, err := item.AuditFields.Archive(actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.inventoryRepo.UpdateLifecycle(id, audit)
}

// RestoreItem brings an archived inventory item back.
func (s *LifecycleService) RestoreItem(id int32, actor string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	audit, err := item.AuditFields.Restore(actor, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return s.inventoryRepo.UpdateLifecycle(id, audit)
}
