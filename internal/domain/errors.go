package domain

import (
	"errors"
	"fmt"
)

type ValidationKind int

const (
	InvalidField ValidationKind = iota + 1
	DuplicateName
	UnknownCategory
	DuplicateSKU
)

func (k ValidationKind) String() string {
	switch k {
	case InvalidField:
		return "invalid_field"
	case DuplicateName:
		return "duplicate_name"
	case UnknownCategory:
		return "unknown_category"
	case DuplicateSKU:
		return "duplicate_sku"
	default:
		return "unknown"
	}
}

// ValidationError is a client-caused rejection of a new product.
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): field=%s, %s", e.Kind, e.Field, e.Reason)
}

// Is matches another *ValidationError of the same kind, or any kind when the
// target kind is zero.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}

// ConflictError is a uniqueness violation detected by the store at insert time.
// Resource defaults to "product" when empty.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "product"
	}
	if e.Field == "" {
		return resource + " already exists"
	}
	return fmt.Sprintf("%s with %s '%s' already exists", resource, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool {
	_, ok := target.(*ConflictError)
	return ok
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// InsufficientStockError is a terminal business outcome of a purchase, not a fault.
type InsufficientStockError struct {
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product '%s': requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

func (e *InvalidRequestError) Is(target error) bool {
	_, ok := target.(*InvalidRequestError)
	return ok
}

// StoreUnavailableError wraps a failure of the durable store. The operation
// that returned it had no effect.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

func (e *StoreUnavailableError) Is(target error) bool {
	_, ok := target.(*StoreUnavailableError)
	return ok
}

// Sentinels for errors.Is.
var (
	ErrValidation        = &ValidationError{}
	ErrInvalidField      = &ValidationError{Kind: InvalidField}
	ErrDuplicateName     = &ValidationError{Kind: DuplicateName}
	ErrUnknownCategory   = &ValidationError{Kind: UnknownCategory}
	ErrDuplicateSKU      = &ValidationError{Kind: DuplicateSKU}
	ErrConflict          = &ConflictError{}
	ErrNotFound          = &NotFoundError{}
	ErrInsufficientStock = &InsufficientStockError{}
	ErrInvalidRequest    = &InvalidRequestError{}
	ErrStoreUnavailable  = &StoreUnavailableError{}
)

func NewProductNotFoundError(key string) error {
	return &NotFoundError{Resource: "product", Key: key}
}

func NewCategoryNotFoundError(id int) error {
	return &NotFoundError{Resource: "category", Key: fmt.Sprintf("id=%d", id)}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
