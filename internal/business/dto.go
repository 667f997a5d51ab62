package business

// UpdateBusinessRequest carries editable profile and presentation settings.
// All fields are optional; absent fields keep their stored value.
type UpdateBusinessRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Tagline       *string `json:"tagline,omitempty" validate:"omitempty,max=160"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	FooterMessage *string `json:"footer_message,omitempty" validate:"omitempty,max=240"`
	Currency      *string `json:"currency,omitempty" validate:"omitempty,max=24"`
	AccentColor   *string `json:"accent_color,omitempty" validate:"omitempty,hexcolor"`
	ShowLogo      *bool   `json:"show_logo,omitempty"`
	Variant       *string `json:"template_variant,omitempty" validate:"omitempty,oneof=simple detailed"`
	Slug          *string `json:"slug,omitempty" validate:"omitempty,min=3,max=60,lowercase,excludesall= "`
}
