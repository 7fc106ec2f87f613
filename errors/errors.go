// Package errors provides the structured error taxonomy for the ledger
// engine. Every error crossing the service boundary is an *AppError so that
// callers can branch on the error code instead of matching message strings.
package errors

// Error codes, one per failure class.
const (
	// CodeValidation marks caller-supplied data violating a structural rule.
	CodeValidation = "VALIDATION_ERROR"
	// CodeReference marks a referenced account or category id that does not
	// resolve at the time of the operation.
	CodeReference = "REFERENCE_ERROR"
	// CodeNotFound marks an update/delete targeting a transaction id that
	// does not exist.
	CodeNotFound = "NOT_FOUND"
	// CodeConsistency marks a revert step that cannot find an account the
	// stored transaction claims to reference. The store is already corrupt;
	// masking this would leave balances silently wrong.
	CodeConsistency = "CONSISTENCY_ERROR"
	// CodeConflict marks an operation refused because existing records still
	// depend on the target.
	CodeConflict = "CONFLICT"
	// CodeInternal marks an unexpected storage failure.
	CodeInternal = "INTERNAL_ERROR"
)

// AppError represents a structured application error with an error code,
// human-readable message, and optional internal error.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message but wraps an
// internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		Internal: sentinel.Internal,
	}
}

// Validation errors.
var (
	ErrInvalidInput               = &AppError{Code: CodeValidation, Message: "invalid input"}
	ErrMissingTransferDestination = &AppError{Code: CodeValidation, Message: "transfer requires a destination account"}
	ErrSameAccountTransfer        = &AppError{Code: CodeValidation, Message: "cannot transfer to the same account"}
	ErrInvalidTransactionType     = &AppError{Code: CodeValidation, Message: "unsupported transaction type"}
)

// Reference errors.
var (
	ErrAccountNotFound  = &AppError{Code: CodeReference, Message: "account does not exist"}
	ErrCategoryNotFound = &AppError{Code: CodeReference, Message: "category does not exist"}
)

// Not-found errors.
var (
	ErrTransactionNotFound = &AppError{Code: CodeNotFound, Message: "transaction not found"}
)

// Consistency errors.
var (
	ErrConsistency = &AppError{Code: CodeConsistency, Message: "stored balances are inconsistent with the transaction history"}
)

// Conflict errors.
var (
	ErrAccountInUse  = &AppError{Code: CodeConflict, Message: "account is referenced by existing transactions"}
	ErrCategoryInUse = &AppError{Code: CodeConflict, Message: "category is used by existing transactions"}
)

// General errors.
var (
	ErrInternal = &AppError{Code: CodeInternal, Message: "an internal error occurred"}
)
