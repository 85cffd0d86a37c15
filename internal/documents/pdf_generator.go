package documents

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// LayoutOptions configures page geometry and document defaults.
// Distances are in points measured from the top-left corner of the page.
type LayoutOptions struct {
	PageSize          string    `json:"page_size"`
	FontFamily        string    `json:"font_family"`
	MarginLeft        float64   `json:"margin_left"`
	LogoTop           float64   `json:"logo_top"`
	LogoMaxWidth      float64   `json:"logo_max_width"`
	LogoMaxHeight     float64   `json:"logo_max_height"`
	LogoGap           float64   `json:"logo_gap"`
	HeaderTop         float64   `json:"header_top"`
	RecipientOffset   float64   `json:"recipient_offset"`
	TableOffset       float64   `json:"table_offset"`
	ColumnWidths      []float64 `json:"column_widths"`
	RowPitch          float64   `json:"row_pitch"`
	WrapWidth         int       `json:"wrap_width"`
	AmountOffset      float64   `json:"amount_offset"`
	PaymentTermDays   int       `json:"payment_term_days"`
	QuoteValidityDays int       `json:"quote_validity_days"`
	Attribution       string    `json:"attribution"`
	Compress          bool      `json:"compress"`
}

// DefaultLayoutOptions returns the standard A4 layout
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		PageSize:          "A4",
		FontFamily:        "Helvetica",
		MarginLeft:        40,
		LogoTop:           40,
		LogoMaxWidth:      140,
		LogoMaxHeight:     70,
		LogoGap:           20,
		HeaderTop:         60,
		RecipientOffset:   180,
		TableOffset:       120,
		ColumnWidths:      []float64{220, 70, 80, 50, 100},
		RowPitch:          18,
		WrapWidth:         90,
		AmountOffset:      250,
		PaymentTermDays:   14,
		QuoteValidityDays: 30,
		Attribution:       "Automatisch gegenereerd door factuur-portal",
		Compress:          true,
	}
}

var tableHeaders = []string{"Titel", "Aantal", "Bedrag", "BTW", "Totaal excl. BTW"}

const paymentReminder = "We verzoeken u vriendelijk het bovenstaande bedrag voor de genoemde vervaldatum te voldoen."

// Renderer lays out invoices and quotes on a single A4 page.
// It holds no per-render state and is safe for concurrent use.
type Renderer struct {
	options  LayoutOptions
	owner    OwnerDetails
	logger   *zap.Logger
	validate *validator.Validate
	nowFunc  func() time.Time
}

// NewRenderer creates a renderer printing the given owner details in invoice footers
func NewRenderer(options LayoutOptions, owner OwnerDetails, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		options:  options,
		owner:    owner,
		logger:   logger,
		validate: validator.New(),
		nowFunc:  time.Now,
	}
}

// WithNowFunc replaces the clock used for the document number and dates
func (r *Renderer) WithNowFunc(fn func() time.Time) *Renderer {
	r.nowFunc = fn
	return r
}

// Validate checks a request without rendering it
func (r *Renderer) Validate(req DocumentRequest) error {
	if len(req.Items) == 0 {
		return NewRenderError(ErrCodeInvalidRequest, "invalid document request", ErrNoLineItems)
	}
	if err := r.validate.Struct(req); err != nil {
		return NewRenderError(ErrCodeInvalidRequest, "invalid document request", err)
	}
	for i, item := range req.Items {
		if item.UnitPrice.IsNegative() || item.TaxRate.IsNegative() {
			return NewRenderError(ErrCodeInvalidRequest,
				fmt.Sprintf("invalid line item %d", i+1), ErrNegativeAmount)
		}
	}
	return nil
}

// Render produces the PDF for req. On failure the returned document is nil.
func (r *Renderer) Render(req DocumentRequest) (*RenderedDocument, error) {
	if err := r.Validate(req); err != nil {
		return nil, err
	}

	now := r.nowFunc()
	number := strconv.FormatInt(now.Unix(), 10)
	dueDate := r.dueDate(req, now)
	totals := ComputeTotals(req.Items)

	pdf := gofpdf.New("P", "pt", r.options.PageSize, "")
	if pdf.Err() {
		return nil, NewRenderError(ErrCodeCanvasFailed, "failed to initialise page", pdf.Error())
	}
	pdf.SetCompression(r.options.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(req.Kind.Title()+" "+number, true)
	pdf.SetAuthor(req.Sender.Name, true)
	pdf.SetCreator("factuur-portal", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	w := &pageWriter{
		pdf:     pdf,
		options: r.options,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
	}

	headerY := r.options.HeaderTop
	if drawH, ok := w.addLogo(req.LogoPath); ok {
		headerY = r.options.LogoTop + drawH + r.options.LogoGap
	} else if req.LogoPath != "" {
		r.logger.Debug("Logo skipped", zap.String("path", req.LogoPath))
	}

	w.addHeader(req, number, headerY)
	w.addRecipient(req, now, dueDate, headerY)
	rowsEnd := w.addItemsTable(req.Items, headerY+r.options.TableOffset)
	descTop := rowsEnd + 10
	descHeight := w.addDescription(req.Items, descTop)
	summaryBase := descTop + descHeight + 50
	w.addTotals(totals, summaryBase)
	if req.Kind == KindInvoice {
		w.addFooter(r.owner, summaryBase)
	}

	if pdf.Err() {
		return nil, NewRenderError(ErrCodeCanvasFailed, "failed to lay out document", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeCanvasFailed, "failed to write document", err)
	}

	return &RenderedDocument{
		Filename: Filename(req.Kind, req.Recipient.Name, now),
		Number:   number,
		IssuedAt: now,
		DueDate:  dueDate,
		Totals:   totals,
		data:     buf.Bytes(),
	}, nil
}

func (r *Renderer) dueDate(req DocumentRequest, issued time.Time) time.Time {
	if req.DueDate != nil {
		return *req.DueDate
	}
	days := r.options.PaymentTermDays
	if req.Kind == KindQuote {
		days = r.options.QuoteValidityDays
	}
	return issued.AddDate(0, 0, days)
}

// pageWriter holds the canvas of a single render
type pageWriter struct {
	pdf     *gofpdf.Fpdf
	options LayoutOptions
	tr      func(string) string
}

func (w *pageWriter) text(x, y float64, s string) {
	w.pdf.Text(x, y, w.tr(s))
}

func (w *pageWriter) centeredText(y float64, s string) {
	pageW, _ := w.pdf.GetPageSize()
	t := w.tr(s)
	w.pdf.Text((pageW-w.pdf.GetStringWidth(t))/2, y, t)
}

func (w *pageWriter) font(style string, size float64) {
	w.pdf.SetFont(w.options.FontFamily, style, size)
}

// addLogo draws the logo scaled into the logo box and reports its drawn height.
// Any problem with the file leaves the page untouched.
func (w *pageWriter) addLogo(path string) (float64, bool) {
	if path == "" {
		return 0, false
	}

	var imageType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		imageType = "PNG"
	case ".jpg", ".jpeg":
		imageType = "JPG"
	case ".gif":
		imageType = "GIF"
	default:
		return 0, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	info := w.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(data))
	if w.pdf.Err() || info == nil {
		w.pdf.ClearError()
		return 0, false
	}

	imgW, imgH := info.Width(), info.Height()
	if imgW <= 0 || imgH <= 0 {
		return 0, false
	}

	scale := w.options.LogoMaxWidth / imgW
	if s := w.options.LogoMaxHeight / imgH; s < scale {
		scale = s
	}
	drawW, drawH := imgW*scale, imgH*scale

	w.pdf.ImageOptions("logo", w.options.MarginLeft, w.options.LogoTop, drawW, drawH, false, opts, 0, "")
	return drawH, true
}

// addHeader draws the title, sender block and document number
func (w *pageWriter) addHeader(req DocumentRequest, number string, y float64) {
	x := w.options.MarginLeft

	w.font("B", 16)
	w.text(x, y, req.Kind.Title())

	w.font("", 10)
	w.text(x, y+20, req.Sender.Name)
	w.text(x, y+32, req.Sender.Address)
	w.text(x, y+44, req.Sender.Country)
	w.text(x, y+56, req.Kind.numberLabel()+": "+number)
}

// addRecipient draws the customer block and the date lines beneath it
func (w *pageWriter) addRecipient(req DocumentRequest, issued, due time.Time, y float64) {
	pageW, _ := w.pdf.GetPageSize()
	x := pageW - w.options.RecipientOffset

	country := req.Recipient.Country
	if country == "" {
		country = req.RecipientCountry
	}

	w.font("B", 10)
	w.text(x, y, "Klantgegevens:")

	w.font("", 10)
	w.text(x, y+20, req.Recipient.Name)
	w.text(x, y+32, req.Recipient.Address)
	w.text(x, y+44, country)

	w.text(x, y+70, req.Kind.issueDateLabel()+": "+formatDate(issued))
	w.text(x, y+82, req.Kind.dueDateLabel()+": "+formatDate(due))
}

// addItemsTable draws the header row, rule and item rows. It returns the
// baseline following the last row.
func (w *pageWriter) addItemsTable(items []LineItem, top float64) float64 {
	left := w.options.MarginLeft
	pageW, _ := w.pdf.GetPageSize()

	w.font("B", 10)
	x := left
	for i, h := range tableHeaders {
		w.text(x, top, h)
		x += w.options.ColumnWidths[i]
	}

	w.pdf.SetLineWidth(1)
	w.pdf.Line(left, top+5, pageW-left, top+5)

	w.font("", 10)
	y := top + 25
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = item.Description
		}
		cells := []string{
			title,
			strconv.Itoa(item.Quantity),
			formatMoney(item.UnitPrice),
			formatPercent(item.TaxRate),
			formatMoney(item.Net()),
		}

		x = left
		for i, cell := range cells {
			w.text(x, y, cell)
			x += w.options.ColumnWidths[i]
		}
		y += w.options.RowPitch
	}
	return y
}

// addDescription draws the wrapped description block and returns its height
func (w *pageWriter) addDescription(items []LineItem, top float64) float64 {
	lines := wrapText(combinedDescription(items), w.options.WrapWidth)
	x := w.options.MarginLeft

	w.font("B", 10)
	w.text(x, top+14, "Omschrijving van de dienst")

	w.font("", 10)
	y := top + 28
	for _, line := range lines {
		w.text(x, y, line)
		y += 12
	}

	height := 16 + 12*float64(len(lines))
	if height < 40 {
		height = 40
	}
	return height
}

// addTotals draws subtotal, tax and grand total
func (w *pageWriter) addTotals(totals Totals, y float64) {
	x := w.options.MarginLeft
	amountX := x + w.options.AmountOffset

	w.font("", 10)
	w.text(x, y, "Subtotaal")
	w.text(amountX, y, formatMoney(totals.Subtotal))
	w.text(x, y+20, totals.TaxLabel)
	w.text(amountX, y+20, formatMoney(totals.Tax))

	w.font("B", 12)
	w.text(x, y+40, "Totaal te betalen")
	w.text(amountX, y+40, formatMoney(totals.Total))
}

// addFooter draws the payment reminder and the owner contact lines
func (w *pageWriter) addFooter(owner OwnerDetails, summaryBase float64) {
	_, pageH := w.pdf.GetPageSize()

	w.font("", 9)
	w.text(w.options.MarginLeft, summaryBase+90, paymentReminder)

	w.centeredText(pageH-62, owner.Name+" | "+owner.Address+" | "+owner.City)
	w.centeredText(pageH-50, "IBAN: "+owner.IBAN+" | BTW: "+owner.VATNumber)
	w.centeredText(pageH-38, "Mobiel: "+owner.Phone+" | E-mail: "+owner.Email+" | KVK: "+owner.KVKNumber)
	if w.options.Attribution != "" {
		w.centeredText(pageH-26, w.options.Attribution)
	}
}
