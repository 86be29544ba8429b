package serverutils

// AppError carries the failure taxonomy used across services. Controllers
// never inspect it; ErrorHandlerMiddleware maps kinds to HTTP statuses.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindStore
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// NewStoreError wraps a persistence failure. The original error stays
// reachable for logs but is never serialized to the client.
func NewStoreError(err error) *AppError {
	return &AppError{Kind: KindStore, Message: "storage operation failed", Err: err}
}
