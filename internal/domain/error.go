package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")

	// Commerce errors
	ErrCouponInactive         = errors.New("coupon is not active")
	ErrCouponExpired          = errors.New("coupon has expired")
	ErrCouponExhausted        = errors.New("coupon usage limit reached")
	ErrMembershipInactive     = errors.New("membership plan is not active")
	ErrInsufficientBalance    = errors.New("insufficient wallet balance")
	ErrEmailDomainNotAllowed  = errors.New("email domain not allowed for registration")
	ErrPaymentChannelDisabled = errors.New("payment channel is disabled")
	ErrChallengeNotJoined     = errors.New("affiliate has not joined this challenge")
	ErrChallengeClosed        = errors.New("challenge is not open")
	ErrRevenueAlreadyDecided  = errors.New("pending revenue already processed")
)
