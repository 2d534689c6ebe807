package order

import "errors"

var (
	// ErrNotFound is returned when order doesn't exist
	ErrNotFound = errors.New("order not found")

	// ErrSelfPurchase is returned when a seller tries to buy their own project
	ErrSelfPurchase = errors.New("cannot purchase your own project")

	// ErrProjectNotPurchasable is returned when the project is not published
	ErrProjectNotPurchasable = errors.New("project is not purchasable")

	// ErrUnsupportedPaymentMethod is returned for anything but credits
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")

	// ErrOrderNotPending is returned on a transition out of a terminal state
	ErrOrderNotPending = errors.New("order is not pending")

	// ErrNotYourOrder is returned when the caller is not a party to the order
	ErrNotYourOrder = errors.New("not a party to this order")

	// ErrNotEntitled is returned when a download is requested without a
	// completed purchase
	ErrNotEntitled = errors.New("no completed purchase for this project")
)
