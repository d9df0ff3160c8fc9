package models

import "errors"

var (
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInvalidQuantity        = errors.New("quantity outside service bounds")
	ErrInvalidLink            = errors.New("invalid link")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrOrderNotFound          = errors.New("order not found")
	ErrServiceNotFound        = errors.New("service not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrReceiptNotFound        = errors.New("receipt not found")
	ErrReceiptAlreadyReviewed = errors.New("receipt already reviewed")
	ErrUnsupportedCurrency    = errors.New("unsupported currency")
)
