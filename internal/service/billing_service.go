package service

import (
	"time"

	"github.com/gilangpr/kasku/kasku-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// BillingService computes upcoming subscription billing dates and the
// reminder list. Billing dates are always re-derived from the purchase date
// anchor, never from the previously stored date, so a clamped day never
// drifts.
type BillingService struct {
	inventoryRepo domain.InventoryRepository
}

// NewBillingService creates a new BillingService
func NewBillingService(inventoryRepo domain.InventoryRepository) *BillingService {
	return &BillingService{inventoryRepo: inventoryRepo}
}

// Reminder is one due subscription in the reminder list.
type Reminder struct {
	Item            *domain.InventoryItem `json:"item"`
	NextBillingDate time.Time             `json:"nextBillingDate"`
	DaysUntilDue    int                   `json:"daysUntilDue"`
}

// DueReminders returns the active recurring subscriptions whose reminder
// window contains today. Today is an explicit parameter; the engine holds
// no clock of its own.
func (s *BillingService) DueReminders(today time.Time) ([]*Reminder, error) {
	items, err := s.inventoryRepo.List(&domain.RecordFilters{})
	if err != nil {
		return nil, err
	}

	reminders := make([]*Reminder, 0)
	for _, item := range items {
		if !item.IsRecurring || item.Cadence == nil {
			continue
		}
		next := s.upcomingBilling(item, today)
		if domain.ReminderDue(today, next, item.ReminderDays) {
			days := int(next.Sub(today.Truncate(24*time.Hour)).Hours() / 24)
			if days < 0 {
				days = 0
			}
			reminders = append(reminders, &Reminder{
				Item:            item,
				NextBillingDate: next,
				DaysUntilDue:    days,
			})
		}
	}
	return reminders, nil
}

// RefreshNextBillingDates recomputes and persists the stored next billing
// date for every active subscription. Run by the daily sweep.
func (s *BillingService) RefreshNextBillingDates(today time.Time) error {
	items, err := s.inventoryRepo.List(&domain.RecordFilters{})
	if err != nil {
		return err
	}

	for _, item := range items {
		if !item.IsRecurring || item.Cadence == nil {
			continue
		}
		next := s.upcomingBilling(item, today)
		if item.NextBillingDate != nil && item.NextBillingDate.Equal(next) {
			continue
		}
		if err := s.inventoryRepo.UpdateNextBilling(item.ID, next); err != nil {
			log.Error().Err(err).Int32("item_id", item.ID).Msg("Failed to refresh next billing date")
			return err
		}
	}
	return nil
}

// upcomingBilling returns the earliest anchor-derived billing date on or
// after today. NextBillingDate is strictly-after, so ask from yesterday to
// keep today itself eligible.
func (s *BillingService) upcomingBilling(item *domain.InventoryItem, today time.Time) time.Time {
	return domain.NextBillingDate(item.PurchaseDate, *item.Cadence, today.AddDate(0, 0, -1))
}
