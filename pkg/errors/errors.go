package errors

import (
	"errors"
	"fmt"
)

// Base classes. Handlers match on these with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrAuthentication    = errors.New("authentication failed")
	ErrProvider          = errors.New("external provider failure")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceLocked     = errors.New("balance is locked by another operation")
)

var (
	ErrAmountOutOfRange      = fmt.Errorf("%w: amount out of range", ErrValidation)
	ErrInvalidAmount         = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidCurrency       = fmt.Errorf("%w: unsupported currency", ErrValidation)
	ErrInvalidCryptoAddress  = fmt.Errorf("%w: invalid crypto address", ErrValidation)
	ErrInvalidPayload        = fmt.Errorf("%w: invalid payload", ErrValidation)
	ErrSelfTransfer          = fmt.Errorf("%w: cannot transfer to yourself", ErrValidation)
	ErrCardholderNotVerified = fmt.Errorf("%w: user is not a verified cardholder", ErrValidation)

	ErrFeeScheduleNotFound = fmt.Errorf("%w: fee schedule", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)
	ErrCardNotFound        = fmt.Errorf("%w: card", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)

	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrAuthentication)
	ErrStaleSignature   = fmt.Errorf("%w: signature timestamp outside tolerance", ErrAuthentication)
	ErrInvalidToken     = fmt.Errorf("%w: invalid token", ErrAuthentication)

	ErrAmountMismatch           = errors.New("received amount differs from the requested deposit")
	ErrNilTransaction           = errors.New("transaction is nil")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidTransition        = errors.New("invalid transaction status transition")
	ErrNilCard                  = errors.New("card is nil")
)
