package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind selects between the two document layouts
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindQuote   Kind = "quote"
)

// ParseKind accepts the English kind names as well as the Dutch labels
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "invoice", "factuur":
		return KindInvoice, nil
	case "quote", "offerte":
		return KindQuote, nil
	default:
		return "", fmt.Errorf("unknown document kind %q", s)
	}
}

// Title is the heading printed on the page
func (k Kind) Title() string {
	if k == KindQuote {
		return "Offerte"
	}
	return "Factuur"
}

func (k Kind) filePrefix() string {
	if k == KindQuote {
		return "offerte"
	}
	return "factuur"
}

func (k Kind) numberLabel() string {
	if k == KindQuote {
		return "Offerte nummer"
	}
	return "Factuur nummer"
}

func (k Kind) issueDateLabel() string {
	if k == KindQuote {
		return "Offertedatum"
	}
	return "Factuurdatum"
}

func (k Kind) dueDateLabel() string {
	if k == KindQuote {
		return "Geldig t/m"
	}
	return "Vervaldatum"
}

// Party is a sender or recipient printed on the document
type Party struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Country string `json:"country"`
}

// LineItem is one billable row of the table
type LineItem struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// Net returns quantity x unit price
func (li LineItem) Net() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Tax returns the tax amount of the row
func (li LineItem) Tax() decimal.Decimal {
	return li.Net().Mul(li.TaxRate).Div(decimal.NewFromInt(100))
}

// DocumentRequest is everything the renderer needs for one page
type DocumentRequest struct {
	Kind             Kind       `json:"kind" validate:"required,oneof=invoice quote"`
	Sender           Party      `json:"sender"`
	Recipient        Party      `json:"recipient"`
	RecipientCountry string     `json:"recipient_country"`
	Items            []LineItem `json:"items" validate:"dive"`
	LogoPath         string     `json:"logo_path,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
}

// Totals are the amounts printed in the summary block
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	TaxLabel string          `json:"tax_label"`
}

// RenderedDocument is the finished PDF. The byte buffer is copied on the way
// in and out so the document cannot change after rendering.
type RenderedDocument struct {
	Filename string
	Number   string
	IssuedAt time.Time
	DueDate  time.Time
	Totals   Totals

	data []byte
}

// Bytes returns a copy of the PDF content
func (d *RenderedDocument) Bytes() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// Size returns the PDF size in bytes
func (d *RenderedDocument) Size() int {
	return len(d.data)
}

// OwnerDetails are the business contact lines printed in the invoice footer
type OwnerDetails struct {
	Name      string
	Address   string
	City      string
	IBAN      string
	VATNumber string
	Phone     string
	Email     string
	KVKNumber string
}

// GenerateRequest is the form input for generating a document from stored
// records. Form posts select a single service; JSON bodies may list items.
type GenerateRequest struct {
	Kind       Kind            `json:"-" form:"-"`
	CustomerID uint            `json:"customer_id" form:"customer_id" binding:"required"`
	ServiceID  uint            `json:"service_id,omitempty" form:"service_id"`
	Quantity   int             `json:"quantity,omitempty" form:"quantity" binding:"gte=0"`
	Items      []ItemSelection `json:"items,omitempty" form:"-" binding:"dive"`
	TaxRate    *int            `json:"tax_rate" form:"tax_rate"`
	DueDate    string          `json:"due_date,omitempty" form:"due_date"`
}

// ItemSelection picks a stored service and a quantity
type ItemSelection struct {
	ServiceID uint `json:"service_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"gte=0"`
}

// Selections returns the chosen items, falling back to the single form selection
func (r GenerateRequest) Selections() []ItemSelection {
	if len(r.Items) > 0 {
		return r.Items
	}
	if r.ServiceID != 0 {
		return []ItemSelection{{ServiceID: r.ServiceID, Quantity: r.Quantity}}
	}
	return nil
}

// Choice is one entry of a selection list
type Choice struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// FormOptions are the selections offered when composing a document
type FormOptions struct {
	Customers      []Choice `json:"customers"`
	Services       []Choice `json:"services"`
	TaxRates       []int    `json:"tax_rates"`
	DefaultTaxRate int      `json:"default_tax_rate"`
}
