package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/store-eerr/pkg/constants"
)

var (
	// ErrMissingColumn marks a required table or field absent from the inputs.
	ErrMissingColumn = errors.New("missing column")

	// ErrMissingCurrencyData marks a month whose currency-index window is empty.
	ErrMissingCurrencyData = errors.New("missing currency data")

	// ErrEmptySeries marks an empty currency-index series.
	ErrEmptySeries = errors.New("currency index series is empty")
)

// MissingColumnError names the table and column that were not supplied.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: table %q", ErrMissingColumn, e.Table)
	}
	return fmt.Sprintf("%s: %s.%s", ErrMissingColumn, e.Table, e.Column)
}

// Unwrap returns ErrMissingColumn.
func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// MissingCurrencyDataError identifies the month that could not be averaged.
type MissingCurrencyDataError struct {
	Month time.Time
}

func (e *MissingCurrencyDataError) Error() string {
	return fmt.Sprintf("%s for %s", ErrMissingCurrencyData, e.Month.Format(constants.DateTimeLayout))
}

// Unwrap returns ErrMissingCurrencyData.
func (e *MissingCurrencyDataError) Unwrap() error {
	return ErrMissingCurrencyData
}
