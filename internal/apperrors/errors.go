package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation is not legal for the entry's current
// status, e.g. posting a non-draft entry or voiding an entry twice.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrUnbalanced indicates that an entry's debits and credits do not balance at post time.
var ErrUnbalanced = errors.New("journal entry debits and credits do not balance")

// ErrAccountUnresolved indicates that an auto-posted entry referenced an account
// (by ID or by account-type name) that could not be resolved for the company.
// Nothing has been written when this is returned; the caller of the auto-post
// bridge decides whether to abort its own transaction or continue without the
// ledger effect.
var ErrAccountUnresolved = errors.New("ledger account could not be resolved")

// ErrInternal indicates an unexpected infrastructure failure. The failed
// operation is guaranteed to have had no partial effect.
var ErrInternal = errors.New("internal error")
