package roleupgrade

// SubmitRequest is the user payload for a seller-upgrade application
type SubmitRequest struct {
	Motivation string `json:"motivation,omitempty" validate:"max=2000"`
}

// ReviewRequest is the admin decision payload
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty" validate:"max=1000"`
}
