package services

import "errors"

var (
	// ErrPreferencesLocked is returned when a non-manager edits preferences after the lock or deadline
	ErrPreferencesLocked = errors.New("preferences are locked")

	// ErrAlreadyAllocated is returned when an allocation has been committed and force was not set
	ErrAlreadyAllocated = errors.New("shifts have already been allocated")

	// ErrInvalidAllocation is returned when an outcome breaks an invariant and force was not set
	ErrInvalidAllocation = errors.New("allocation outcome failed validation")

	// ErrNotAllocated is returned when there is no committed allocation to view
	ErrNotAllocated = errors.New("shifts have not been allocated yet")

	ErrInvalidPreferences = errors.New("invalid preferences")
	ErrInvalidEmployee    = errors.New("invalid employee")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeExists     = errors.New("employee already exists")
)
