package credit

import "errors"

var (
	// ErrInsufficientCredits is returned when user doesn't have enough credits
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrDailyCapExceeded is returned when a reward grant would exceed max_daily_earn
	ErrDailyCapExceeded = errors.New("daily earn cap exceeded")

	// ErrConfigNotFound is returned for an unknown config key.
	// Reward computation fails loud rather than assuming a default.
	ErrConfigNotFound = errors.New("credit config key not found")

	// ErrInvalidConfigValue is returned when an admin submits a negative value
	ErrInvalidConfigValue = errors.New("config value must be a non-negative integer")
)
