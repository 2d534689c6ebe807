package order

// CreateOrderRequest is the buyer payload for a new pending order
type CreateOrderRequest struct {
	ProjectID     string `json:"project_id" validate:"required,uuid"`
	PaymentMethod string `json:"payment_method" validate:"required,payment_method"`
}

// CancelOrderRequest carries the optional buyer-supplied reason
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}
