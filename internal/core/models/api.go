package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount accepts JSON numbers as well as strings; string inputs are cleaned
// the way real users type them, with spaces stripped and a comma decimal
// separator replaced by a point.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		cleaned := strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// MoneyRequest is the body of deposit and withdraw calls.
type MoneyRequest struct {
	Amount      Amount `json:"amount" validate:"required"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

type TransferRequest struct {
	MoneyRequest
	ReceiverPhone string `json:"receiverPhone" validate:"required"`
}

// APIResponse is the uniform envelope for every route.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}
