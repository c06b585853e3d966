package transaction

import (
	"math"
	"time"

	"github.com/fintrackhq/fintrack/internal"
)

// DateLayout is the calendar-date format accepted on the wire.
const DateLayout = "2006-01-02"

// CreateTransactionDTO is the request payload for recording a transaction.
type CreateTransactionDTO struct {
	Type        string   `json:"type"`
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description,omitempty"`
	Date        string   `json:"date"`
	CategoryID  *int64   `json:"category_id,omitempty"`
}

func (d CreateTransactionDTO) Validate() error {
	if d.Type == "" {
		return internal.NewFieldValidationError("type", "type is required")
	}
	if d.Amount == nil {
		return internal.NewFieldValidationError("amount", "amount is required")
	}
	if d.Date == "" {
		return internal.NewFieldValidationError("date", "date is required")
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return internal.NewFieldValidationError("date", "date must be a valid date in YYYY-MM-DD format")
	}
	return nil
}

// UpdateTransactionDTO carries the optional fields of a partial update. Each
// present field is validated independently.
type UpdateTransactionDTO struct {
	Type        *string  `json:"type,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Description *string  `json:"description,omitempty"`
	Date        *string  `json:"date,omitempty"`
	CategoryID  *int64   `json:"category_id,omitempty"`
}

func (d UpdateTransactionDTO) Validate() error {
	if d.Type != nil && *d.Type == "" {
		return internal.NewFieldValidationError("type", "type must not be empty")
	}
	if d.Date != nil {
		if _, err := time.Parse(DateLayout, *d.Date); err != nil {
			return internal.NewFieldValidationError("date", "date must be a valid date in YYYY-MM-DD format")
		}
	}
	return nil
}

type TransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

// roundAmount keeps amounts at the two-decimal precision the store uses.
func roundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
