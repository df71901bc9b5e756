package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInternalError        = errors.New("internal error")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrItemNotFound         = errors.New("inventory item not found")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidPayment       = errors.New("invalid payment amount or status transition")
	ErrUnknownFund          = errors.New("unknown fund")
	ErrInsufficientQuantity = errors.New("adjustment exceeds current quantity")
	ErrInvalidDate          = errors.New("malformed or out-of-order date range")
	ErrDuplicatePosting     = errors.New("reference already posted with a different amount")
	ErrInvalidCadence       = errors.New("invalid recurring cadence")
	ErrInvalidItemType      = errors.New("invalid inventory item type")
	ErrInvalidReason        = errors.New("invalid adjustment reason")
	ErrAlreadyArchived      = errors.New("record is already archived")
	ErrNotArchived          = errors.New("record is not archived")
	ErrActorRequired        = errors.New("actor is required")
)

// Validation constants
const (
	MaxNameLength = 255
	MaxNoteLength = 1000
)
