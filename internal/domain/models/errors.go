package models

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable reports that the trade ledger backing store is
// missing. Wrapped with the concrete path/table by the repository layer.
var ErrSourceUnavailable = errors.New("trade source unavailable")

// MalformedRecordError reports a ledger row that cannot be coerced to the
// TradeRecord schema. The load aborts on the first bad row.
type MalformedRecordError struct {
	Row   int
	Field string
	Cause error
}

func (e *MalformedRecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed trade record at row %d, field %s: %v", e.Row, e.Field, e.Cause)
	}
	return fmt.Sprintf("malformed trade record at row %d, field %s", e.Row, e.Field)
}

func (e *MalformedRecordError) Unwrap() error { return e.Cause }

// FetchError reports a quote provider failure for one symbol. An empty
// series in range is not a FetchError.
type FetchError struct {
	Symbol string
	Cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }
