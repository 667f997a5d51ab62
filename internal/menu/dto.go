package menu

// CreateItemRequest adds a menu entry.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description string  `json:"description" validate:"max=280"`
	Price       float64 `json:"price" validate:"gte=0"`
	Available   *bool   `json:"available,omitempty"`
}

// UpdateItemRequest edits a menu entry; absent fields keep their value.
type UpdateItemRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=280"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Available   *bool    `json:"available,omitempty"`
}
