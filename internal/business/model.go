package business

import (
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/receipts"
)

// Business is a vendor profile. Its presentation fields drive how every
// receipt and the public menu page are rendered.
type Business struct {
	ID            uuid.UUID                `json:"id" db:"id"`
	OwnerID       uuid.UUID                `json:"owner_id" db:"owner_id"`
	Name          string                   `json:"name" db:"name"`
	Tagline       string                   `json:"tagline" db:"tagline"`
	Phone         string                   `json:"phone" db:"phone"`
	FooterMessage string                   `json:"footer_message" db:"footer_message"`
	Currency      string                   `json:"currency" db:"currency"`
	AccentColor   string                   `json:"accent_color" db:"accent_color"`
	ShowLogo      bool                     `json:"show_logo" db:"show_logo"`
	Variant       receipts.TemplateVariant `json:"template_variant" db:"template_variant"`
	LogoURL       *string                  `json:"logo_url,omitempty" db:"logo_url"`
	Slug          string                   `json:"slug" db:"slug"`
	CreatedAt     time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at" db:"updated_at"`
}

// CurrencySymbol resolves the short display symbol from the configured
// currency field.
func (b *Business) CurrencySymbol() string {
	return receipts.DeriveCurrencySymbol(b.Currency)
}
