// Package render lays out a receipt document for on-screen display and for
// capture to an image. Building and rendering are pure: the same receipt,
// settings and preview flag always produce byte-identical output.
package render

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/receiptly/receiptly/internal/receipts"
)

const (
	fallbackCustomer = "Guest"
	fallbackItemName = "Item Name"
	fallbackBusiness = "Your Business Name"
	fallbackMonogram = "R"

	labelTotalDue  = "TOTAL DUE"
	labelTotalPaid = "TOTAL PAID"
)

// Settings carries the presentation configuration of the issuing business.
type Settings struct {
	BusinessName  string
	Tagline       string
	Phone         string
	FooterMessage string
	Currency      string
	AccentColor   string
	ShowLogo      bool
	LogoURL       string
}

// ItemView is one laid-out item row.
type ItemView struct {
	Name   string
	Amount string
	// Detail holds the "qty × unit price" sub-line, empty unless the
	// detailed template variant is active.
	Detail string
}

// Document is the fully laid-out receipt handed to the HTML template.
type Document struct {
	AccentColor  string
	ShowLogo     bool
	LogoURL      string
	Monogram     string
	BusinessName string
	Tagline      string
	Phone        string

	CustomerName  string
	ReceiptNumber string
	DateLabel     string

	Items []ItemView

	Subtotal     string
	ShowShipping bool
	Shipping     string
	ShowDiscount bool
	Discount     string
	TotalLabel   string
	Total        string

	ShowPendingWatermark bool
	ShowPreviewWatermark bool

	FooterMessage string
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary value with the currency symbol and
// grouping separators, e.g. "₦3,300.00".
func FormatAmount(symbol string, v float64) string {
	if v < 0 {
		return "-" + symbol + printer.Sprintf("%.2f", -v)
	}
	return symbol + printer.Sprintf("%.2f", v)
}

// BuildDocument derives the laid-out document from a receipt, the issuing
// business's presentation settings and an explicit preview flag. Totals are
// recomputed here on every call; nothing stored is trusted.
func BuildDocument(rec *receipts.Receipt, st Settings, preview bool) Document {
	symbol := receipts.DeriveCurrencySymbol(st.Currency)
	totals := rec.ComputeTotals()

	doc := Document{
		AccentColor:          st.AccentColor,
		ShowLogo:             st.ShowLogo,
		LogoURL:              st.LogoURL,
		Monogram:             monogram(st.BusinessName),
		BusinessName:         fallback(st.BusinessName, fallbackBusiness),
		Tagline:              strings.TrimSpace(st.Tagline),
		Phone:                st.Phone,
		CustomerName:         fallback(rec.CustomerName, fallbackCustomer),
		ReceiptNumber:        rec.ReceiptNumber,
		DateLabel:            formatDate(rec.IssueDate),
		Subtotal:             FormatAmount(symbol, totals.Subtotal),
		ShowShipping:         rec.ShippingFee > 0,
		ShowDiscount:         rec.DiscountAmount > 0,
		TotalLabel:           totalLabel(rec.Status),
		Total:                FormatAmount(symbol, totals.GrandTotal),
		ShowPendingWatermark: rec.Status == receipts.StatusPending,
		ShowPreviewWatermark: preview,
		FooterMessage:        st.FooterMessage,
	}
	if doc.ShowShipping {
		doc.Shipping = FormatAmount(symbol, rec.ShippingFee)
	}
	if doc.ShowDiscount {
		doc.Discount = FormatAmount(symbol, -rec.DiscountAmount)
	}

	doc.Items = make([]ItemView, 0, len(rec.Items))
	for _, item := range rec.Items {
		view := ItemView{
			Name:   fallback(item.Name, fallbackItemName),
			Amount: FormatAmount(symbol, item.Amount()),
		}
		if rec.Variant == receipts.VariantDetailed {
			qty := item.Quantity
			if qty < 0 {
				qty = 0
			}
			view.Detail = printer.Sprintf("%d × %s", qty, FormatAmount(symbol, receipts.SanitizePrice(item.UnitPrice)))
		}
		doc.Items = append(doc.Items, view)
	}
	return doc
}

func totalLabel(status receipts.Status) string {
	if status == receipts.StatusPending {
		return labelTotalDue
	}
	return labelTotalPaid
}

func monogram(businessName string) string {
	trimmed := strings.TrimSpace(businessName)
	if trimmed == "" {
		return fallbackMonogram
	}
	return strings.ToUpper(string([]rune(trimmed)[0]))
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}
