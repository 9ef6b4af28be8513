package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound возвращается хранилищем, когда запись отсутствует.
var ErrNotFound = errors.New("запись не найдена")

// ErrNotRegistered - пользователь не зарегистрирован в клубе,
// а операция требует членства.
var ErrNotRegistered = errors.New("пользователь не зарегистрирован")

// ValidationError - ошибка в данных, введённых пользователем.
// Сессия при этом не сбрасывается, шаг повторяется.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("некорректное значение поля %s: %s", e.Field, e.Reason)
}

// NewValidationError создает ошибку валидации для поля.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation сообщает, является ли ошибка пользовательской.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError оборачивает ошибку слоя хранения. Для пользователя все
// такие ошибки выглядят одинаково - "попробуйте позже".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ошибка хранилища (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStore оборачивает err в StoreError, nil остаётся nil.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStore сообщает, пришла ли ошибка из слоя хранения.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
