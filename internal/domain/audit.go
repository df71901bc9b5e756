package domain

import "time"

// AuditFields carries the creation/update/archive trail shared by
// transactions, expenses and inventory items. Archiving is a soft delete:
// the record stays queryable for history views and can be restored.
type AuditFields struct {
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedBy *string    `json:"updatedBy,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedBy *string    `json:"deletedBy,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	IsDeleted bool       `json:"isDeleted"`
}

// Archive stamps the archive event. Fails if the record is already archived.
func (a AuditFields) Archive(actor string, now time.Time) (AuditFields, error) {
	if actor == "" {
		return a, ErrActorRequired
	}
	if a.IsDeleted {
		return a, ErrAlreadyArchived
	}
	a.IsDeleted = true
	a.DeletedBy = &actor
	a.DeletedAt = &now
	return a, nil
}

// Restore clears the archived flag and stamps the update. DeletedBy and
// DeletedAt are kept as history of the most recent archive event.
func (a AuditFields) Restore(actor string, now time.Time) (AuditFields, error) {
	if actor == "" {
		return a, ErrActorRequired
	}
	if !a.IsDeleted {
		return a, ErrNotArchived
	}
	a.IsDeleted = false
	a.UpdatedBy = &actor
	a.UpdatedAt = now
	return a, nil
}
