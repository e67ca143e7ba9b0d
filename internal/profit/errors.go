package profit

import "errors"

var (
	// ErrDivisionByZero is returned when a warehouse has no shipped units or no profit to divide by.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrTariffNotFound is returned when an order references a warehouse without a resolved tariff.
	ErrTariffNotFound = errors.New("tariff not found")
)
