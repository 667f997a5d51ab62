package receipts

import "time"

// LineItemRequest accepts one item row. Unit price is free text on purpose:
// vendors paste values like "₦1,500" and the calculator sanitizes them.
type LineItemRequest struct {
	Name      string `json:"name" validate:"max=120"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	UnitPrice string `json:"unit_price" validate:"max=40"`
}

// CreateReceiptRequest carries a new receipt.
type CreateReceiptRequest struct {
	CustomerName   string            `json:"customer_name" validate:"max=120"`
	IssueDate      *time.Time        `json:"issue_date,omitempty"`
	Status         string            `json:"status" validate:"required,oneof=paid pending unpaid"`
	ShippingFee    float64           `json:"shipping_fee" validate:"gte=0"`
	DiscountAmount float64           `json:"discount_amount" validate:"gte=0"`
	Variant        string            `json:"template_variant" validate:"omitempty,oneof=simple detailed"`
	Items          []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateReceiptRequest mirrors the create payload; absent fields keep their
// stored value, a present Items slice replaces all rows.
type UpdateReceiptRequest struct {
	CustomerName   *string            `json:"customer_name,omitempty" validate:"omitempty,max=120"`
	IssueDate      *time.Time         `json:"issue_date,omitempty"`
	Status         *string            `json:"status,omitempty" validate:"omitempty,oneof=paid pending unpaid"`
	ShippingFee    *float64           `json:"shipping_fee,omitempty" validate:"omitempty,gte=0"`
	DiscountAmount *float64           `json:"discount_amount,omitempty" validate:"omitempty,gte=0"`
	Variant        *string            `json:"template_variant,omitempty" validate:"omitempty,oneof=simple detailed"`
	Items          *[]LineItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// ListReceiptsRequest filters the vendor's receipt listing.
type ListReceiptsRequest struct {
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PerPage  int
}

// ReceiptResponse is a receipt plus its freshly derived totals.
type ReceiptResponse struct {
	Receipt
	Totals Totals `json:"totals"`
}

// NewReceiptResponse computes totals for the wire representation.
func NewReceiptResponse(r *Receipt) ReceiptResponse {
	return ReceiptResponse{Receipt: *r, Totals: r.ComputeTotals()}
}
