package usecase

import "errors"

// Client-caused failures, surfaced verbatim to the caller. Store failures wrap
// the underlying error and surface as an opaque server error. A missing wallet
// is never a client-visible state: reads create the wallet lazily and debits
// from an absent wallet report insufficient funds.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrMissingRecipient  = errors.New("recipient phone number is required")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrSelfTransfer      = errors.New("cannot transfer to your own wallet")
)
