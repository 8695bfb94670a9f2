package rides

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind стабильный код ошибки, который клиенты используют для ветвления
type Kind string

const (
	KindValidationFailed    Kind = "validation_failed"
	KindNotFound            Kind = "not_found"
	KindForbidden           Kind = "forbidden"
	KindLifecycleClosed     Kind = "lifecycle_closed"
	KindCapacityExceeded    Kind = "capacity_exceeded"
	KindDuplicateMembership Kind = "duplicate_membership"
	KindPreferenceMismatch  Kind = "preference_mismatch"
	KindStoreUnavailable    Kind = "store_unavailable"
)

// Error отказ операции: код, поле (для ошибок валидации) и текст для пользователя
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает только код, поэтому errors.Is(err, ErrNotFound) срабатывает
// для любой ошибки not_found независимо от текста.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidationFailed    = &Error{Kind: KindValidationFailed}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrLifecycleClosed     = &Error{Kind: KindLifecycleClosed}
	ErrCapacityExceeded    = &Error{Kind: KindCapacityExceeded}
	ErrDuplicateMembership = &Error{Kind: KindDuplicateMembership}
	ErrPreferenceMismatch  = &Error{Kind: KindPreferenceMismatch}
	ErrStoreUnavailable    = &Error{Kind: KindStoreUnavailable}
)

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationError(field, message string) *Error {
	return &Error{Kind: KindValidationFailed, Field: field, Message: message}
}

// KindOf возвращает код ошибки; всё, что не является *Error, считается
// недоступностью хранилища.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}

// storeError приводит ошибку gorm/драйвера к таксономии движка
func storeError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: KindDuplicateMembership, Message: "вы уже участвуете в этой поездке", Err: err}
	}
	return &Error{Kind: KindStoreUnavailable, Message: "хранилище недоступно", Err: err}
}

// NewError для соседних сервисов, работающих с теми же данными
func NewError(kind Kind, message string) *Error {
	return newError(kind, message)
}

// StoreError экспортированный storeError
func StoreError(err error) error {
	return storeError(err)
}
