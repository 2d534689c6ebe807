package project

// CreateProjectRequest is the seller payload for a new draft listing
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	Price       int    `json:"price" validate:"required,min=1,max=1000000"`
	Dockerized  bool   `json:"dockerized"`
}
