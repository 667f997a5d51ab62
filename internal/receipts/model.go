package receipts

import (
	"time"

	"github.com/google/uuid"
)

// Status describes the payment state printed on a receipt.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusUnpaid  Status = "unpaid"
)

// Valid reports whether the status is one of the supported states.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusUnpaid:
		return true
	}
	return false
}

// TemplateVariant controls item-row verbosity on the rendered document.
type TemplateVariant string

const (
	VariantSimple   TemplateVariant = "simple"
	VariantDetailed TemplateVariant = "detailed"
)

// Receipt is a vendor-issued payment receipt. Subtotal and grand total are
// never stored; they are recomputed from the line items on every read.
type Receipt struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	BusinessID     uuid.UUID       `json:"business_id" db:"business_id"`
	ReceiptNumber  string          `json:"receipt_number" db:"receipt_number"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	IssueDate      time.Time       `json:"issue_date" db:"issue_date"`
	Status         Status          `json:"status" db:"status"`
	ShippingFee    float64         `json:"shipping_fee" db:"shipping_fee"`
	DiscountAmount float64         `json:"discount_amount" db:"discount_amount"`
	Variant        TemplateVariant `json:"template_variant" db:"template_variant"`
	ImageURL       *string         `json:"image_url,omitempty" db:"image_url"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	Items          []LineItem      `json:"items" db:"-"`
}

// LineItem is one purchased product or service entry on a receipt. The unit
// price keeps the raw text the vendor typed ("₦1,500", "300") and is
// sanitized whenever an amount is needed.
type LineItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReceiptID uuid.UUID `json:"receipt_id" db:"receipt_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice string    `json:"unit_price" db:"unit_price"`
	Position  int       `json:"position" db:"position"`
}

// Amount returns the sanitized line amount (unit price times quantity).
func (li LineItem) Amount() float64 {
	qty := li.Quantity
	if qty < 0 {
		qty = 0
	}
	return SanitizePrice(li.UnitPrice) * float64(qty)
}

// Totals carries the derived amounts for a receipt.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	GrandTotal float64 `json:"grand_total"`
}

// ComputeTotals derives the receipt totals from current item state.
func (r *Receipt) ComputeTotals() Totals {
	subtotal := ComputeSubtotal(r.Items)
	return Totals{
		Subtotal:   subtotal,
		GrandTotal: ComputeGrandTotal(subtotal, r.ShippingFee, r.DiscountAmount),
	}
}
