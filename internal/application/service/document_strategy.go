package service

import (
	"fmt"
	"time"

	"github.com/dukapos/dukapos-api/internal/domain/entity"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/pkg/printer"
)

// documentContext carries everything a strategy may need to judge and
// prepare a document: the originating order, the issuing store and, for
// refund paperwork, the refund itself.
type documentContext struct {
	Order  *entity.Order
	Store  *entity.Store
	Refund *entity.Refund
}

// documentStrategy is the per-type policy for issuing a document. The
// registry of strategies is fixed at service construction; asking for an
// unregistered type is a wiring bug.
type documentStrategy interface {
	// CanGenerate is the type-specific eligibility gate.
	CanGenerate(dc *documentContext) bool
	// Validate returns human-readable violations blocking generation.
	Validate(dc *documentContext) []string
	// PrepareData derives the render snapshot for the builder.
	PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData
	AllowsReprint() bool
	AllowsVoid() bool
	Title() string
}

func documentStrategies() map[enum.DocumentType]documentStrategy {
	return map[enum.DocumentType]documentStrategy{
		enum.DocumentTypeTicket:       ticketDocStrategy{},
		enum.DocumentTypeInvoice:      invoiceDocStrategy{},
		enum.DocumentTypeProforma:     proformaDocStrategy{},
		enum.DocumentTypeRefund:       refundDocStrategy{},
		enum.DocumentTypeCreditNote:   creditNoteDocStrategy{},
		enum.DocumentTypeDeliveryNote: deliveryNoteDocStrategy{},
	}
}

// baseDocumentData fills the fields shared by every document type.
func baseDocumentData(dc *documentContext, title, number string, issuedAt time.Time) *entity.DocumentData {
	data := &entity.DocumentData{
		Number:      number,
		Title:       title,
		Date:        issuedAt.Format("2006-01-02 15:04"),
		OrderNumber: dc.Order.Number,
		SubTotal:    float64(dc.Order.SubTotal) / 100,
		Tax:         float64(dc.Order.Tax) / 100,
		Discount:    float64(dc.Order.Discount) / 100,
		Total:       float64(dc.Order.Total) / 100,
		Paid:        float64(dc.Order.Paid) / 100,
		Remaining:   float64(dc.Order.Remaining) / 100,
	}

	if dc.Store != nil {
		data.Header.StoreName = dc.Store.Name
		if dc.Store.Address != nil {
			data.Header.Address = *dc.Store.Address
		}
		if dc.Store.Phone != nil {
			data.Header.Phone = *dc.Store.Phone
		}
		if dc.Store.TaxID != nil {
			data.Header.TaxID = *dc.Store.TaxID
		}
	}
	if dc.Order.Customer != nil {
		data.Customer = dc.Order.Customer.Name
	}

	for _, item := range dc.Order.Items {
		name := item.Product.Name
		if name == "" {
			name = item.ProductID.String()
		}
		data.Lines = append(data.Lines, entity.DocumentLine{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.FinalPrice) / 100,
		})
	}

	return data
}

func validateOrderForDocument(order *entity.Order) []string {
	var violations []string
	if len(order.Items) == 0 {
		violations = append(violations, "order has no items")
	}
	if order.Total <= 0 {
		violations = append(violations, "order total must be positive")
	}
	return violations
}

type ticketDocStrategy struct{}

func (ticketDocStrategy) CanGenerate(dc *documentContext) bool { return dc.Order != nil }
func (ticketDocStrategy) Validate(dc *documentContext) []string {
	return validateOrderForDocument(dc.Order)
}
func (ticketDocStrategy) PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData {
	data := baseDocumentData(dc, "SALES TICKET", number, issuedAt)
	data.Footnote = "Thank you for your purchase"
	return data
}
func (ticketDocStrategy) AllowsReprint() bool { return true }
func (ticketDocStrategy) AllowsVoid() bool    { return true }
func (ticketDocStrategy) Title() string       { return "SALES TICKET" }

type invoiceDocStrategy struct{}

// CanGenerate restricts invoices to account sales: a credit-sale or
// proforma order with an identified customer.
func (invoiceDocStrategy) CanGenerate(dc *documentContext) bool {
	if dc.Order == nil || dc.Order.CustomerID == nil {
		return false
	}
	return dc.Order.OrderType == enum.OrderTypeCreditSale || dc.Order.OrderType == enum.OrderTypeProforma
}
func (invoiceDocStrategy) Validate(dc *documentContext) []string {
	violations := validateOrderForDocument(dc.Order)
	if dc.Order.CustomerID == nil {
		violations = append(violations, "invoice requires a customer")
	}
	return violations
}
func (invoiceDocStrategy) PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData {
	return baseDocumentData(dc, "INVOICE", number, issuedAt)
}
func (invoiceDocStrategy) AllowsReprint() bool { return true }

// AllowsVoid is false for invoices: a credit note corrects an issued
// invoice, it is never voided in place.
func (invoiceDocStrategy) AllowsVoid() bool { return false }
func (invoiceDocStrategy) Title() string    { return "INVOICE" }

type proformaDocStrategy struct{}

func (proformaDocStrategy) CanGenerate(dc *documentContext) bool {
	return dc.Order != nil && dc.Order.OrderType == enum.OrderTypeProforma
}
func (proformaDocStrategy) Validate(dc *documentContext) []string {
	var violations []string
	if len(dc.Order.Items) == 0 {
		violations = append(violations, "order has no items")
	}
	return violations
}
func (proformaDocStrategy) PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData {
	data := baseDocumentData(dc, "PROFORMA", number, issuedAt)
	data.ValidUntil = issuedAt.AddDate(0, 0, 30).Format("2006-01-02")
	data.Footnote = "This proforma is not a tax invoice"
	return data
}
func (proformaDocStrategy) AllowsReprint() bool { return true }
func (proformaDocStrategy) AllowsVoid() bool    { return true }
func (proformaDocStrategy) Title() string       { return "PROFORMA" }

type refundDocStrategy struct{}

func (refundDocStrategy) CanGenerate(dc *documentContext) bool {
	return dc.Order != nil && dc.Refund != nil
}
func (refundDocStrategy) Validate(dc *documentContext) []string {
	var violations []string
	if dc.Refund == nil {
		violations = append(violations, "refund document requires a refund")
	} else if dc.Refund.Amount <= 0 {
		violations = append(violations, "refund amount must be positive")
	}
	return violations
}
func (refundDocStrategy) PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData {
	data := baseDocumentData(dc, "REFUND NOTE", number, issuedAt)
	data.Total = float64(dc.Refund.Amount) / 100
	data.Footnote = "Refund against order " + dc.Order.Number
	return data
}
func (refundDocStrategy) AllowsReprint() bool { return true }
func (refundDocStrategy) AllowsVoid() bool    { return false }
func (refundDocStrategy) Title() string       { return "REFUND NOTE" }

type creditNoteDocStrategy struct{}

func (creditNoteDocStrategy) CanGenerate(dc *documentContext) bool {
	return dc.Order != nil && dc.Refund != nil
}
func (creditNoteDocStrategy) Validate(dc *documentContext) []string {
	var violations []string
	if dc.Refund == nil {
		violations = append(violations, "credit note requires a refund")
	}
	if dc.Order.CustomerID == nil {
		violations = append(violations, "credit note requires a customer")
	}
	return violations
}
func (creditNoteDocStrategy) PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData {
	data := baseDocumentData(dc, "CREDIT NOTE", number, issuedAt)
	if dc.Refund != nil {
		data.Total = float64(dc.Refund.Amount) / 100
	}
	return data
}
func (creditNoteDocStrategy) AllowsReprint() bool { return true }
func (creditNoteDocStrategy) AllowsVoid() bool    { return false }
func (creditNoteDocStrategy) Title() string       { return "CREDIT NOTE" }

type deliveryNoteDocStrategy struct{}

func (deliveryNoteDocStrategy) CanGenerate(dc *documentContext) bool {
	return dc.Order != nil && dc.Order.ShippingAddr != nil
}
func (deliveryNoteDocStrategy) Validate(dc *documentContext) []string {
	var violations []string
	if len(dc.Order.Items) == 0 {
		violations = append(violations, "order has no items")
	}
	if dc.Order.ShippingAddr == nil || *dc.Order.ShippingAddr == "" {
		violations = append(violations, "delivery note requires a shipping address")
	}
	return violations
}
func (deliveryNoteDocStrategy) PrepareData(dc *documentContext, number string, issuedAt time.Time) *entity.DocumentData {
	data := baseDocumentData(dc, "DELIVERY NOTE", number, issuedAt)
	if dc.Order.ShippingAddr != nil {
		data.Footnote = "Deliver to: " + *dc.Order.ShippingAddr
	}
	return data
}
func (deliveryNoteDocStrategy) AllowsReprint() bool { return true }
func (deliveryNoteDocStrategy) AllowsVoid() bool    { return true }
func (deliveryNoteDocStrategy) Title() string       { return "DELIVERY NOTE" }

// documentBuilder renders a prepared snapshot into opaque bytes.
type documentBuilder interface {
	Render(data *entity.DocumentData) []byte
}

// escposBuilder renders ESC/POS ticket bytes for thermal printers.
type escposBuilder struct {
	width int
}

func (b escposBuilder) Render(data *entity.DocumentData) []byte {
	doc := printer.NewDocument(b.width).Init()

	doc.SetAlign(printer.AlignCenter).SetBold(true)
	doc.Text(data.Header.StoreName)
	doc.SetBold(false)
	if data.Header.Address != "" {
		doc.Text(data.Header.Address)
	}
	if data.Header.Phone != "" {
		doc.Text("Tel: " + data.Header.Phone)
	}
	if data.Header.TaxID != "" {
		doc.Text("PIN: " + data.Header.TaxID)
	}
	doc.Separator('=')

	doc.SetBold(true).Text(data.Title).SetBold(false)
	doc.SetAlign(printer.AlignLeft)
	doc.KeyValue("No", data.Number)
	doc.KeyValue("Date", data.Date)
	doc.KeyValue("Order", data.OrderNumber)
	if data.Cashier != "" {
		doc.KeyValue("Cashier", data.Cashier)
	}
	if data.Customer != "" {
		doc.KeyValue("Customer", data.Customer)
	}
	doc.Separator('-')

	for _, line := range data.Lines {
		doc.ItemLine(line.Quantity, line.Name, fmt.Sprintf("%.2f", line.Total))
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal", fmt.Sprintf("%.2f", data.SubTotal))
	if data.Discount > 0 {
		doc.KeyValue("Discount", fmt.Sprintf("-%.2f", data.Discount))
	}
	if data.Tax > 0 {
		doc.KeyValue("Tax", fmt.Sprintf("%.2f", data.Tax))
	}
	doc.SetBold(true)
	doc.KeyValue("TOTAL", fmt.Sprintf("%.2f", data.Total))
	doc.SetBold(false)
	doc.KeyValue("Paid", fmt.Sprintf("%.2f", data.Paid))
	if data.Remaining > 0 {
		doc.KeyValue("Due", fmt.Sprintf("%.2f", data.Remaining))
	}

	if data.ValidUntil != "" {
		doc.LineFeed()
		doc.Text("Valid until: " + data.ValidUntil)
	}
	if data.Footnote != "" {
		doc.LineFeed()
		doc.SetAlign(printer.AlignCenter)
		doc.Text(data.Footnote)
	}

	doc.FeedLines(3).Cut()
	return doc.Bytes()
}

// textBuilder renders a plain-text document for archival and email.
type textBuilder struct{}

func (textBuilder) Render(data *entity.DocumentData) []byte {
	var out []byte
	w := func(format string, args ...interface{}) {
		out = append(out, []byte(fmt.Sprintf(format+"\n", args...))...)
	}

	w("%s", data.Header.StoreName)
	if data.Header.Address != "" {
		w("%s", data.Header.Address)
	}
	if data.Header.TaxID != "" {
		w("PIN: %s", data.Header.TaxID)
	}
	w("")
	w("%s  %s", data.Title, data.Number)
	w("Date: %s", data.Date)
	w("Order: %s", data.OrderNumber)
	if data.Customer != "" {
		w("Customer: %s", data.Customer)
	}
	w("")
	for _, line := range data.Lines {
		w("%3d x %-30s %10.2f", line.Quantity, line.Name, line.Total)
	}
	w("")
	w("Subtotal: %10.2f", data.SubTotal)
	if data.Discount > 0 {
		w("Discount: %10.2f", data.Discount)
	}
	if data.Tax > 0 {
		w("Tax:      %10.2f", data.Tax)
	}
	w("TOTAL:    %10.2f", data.Total)
	if data.Remaining > 0 {
		w("Due:      %10.2f", data.Remaining)
	}
	if data.ValidUntil != "" {
		w("")
		w("Valid until: %s", data.ValidUntil)
	}
	if data.Footnote != "" {
		w("")
		w("%s", data.Footnote)
	}

	return out
}
