package models

// InvoiceItem is a line item embedded in exactly one invoice. IDs are
// generated locally and are only unique within the owning invoice.
type InvoiceItem struct {
	ID          string  `json:"id" firestore:"id"`
	Description string  `json:"description" firestore:"description"`
	Quantity    float64 `json:"quantity" firestore:"quantity"`
	UnitPrice   float64 `json:"unitPrice" firestore:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice" firestore:"totalPrice"`
}

// Invoice is a financial record tied to one event. TotalAmount is derived
// from the items and the owning event's amountSpent is derived from all
// invoices referencing it.
type Invoice struct {
	ID            string        `json:"id" firestore:"-"`
	EventID       string        `json:"eventId" firestore:"eventId"`
	Items         []InvoiceItem `json:"items" firestore:"items"`
	TotalAmount   float64       `json:"totalAmount" firestore:"totalAmount"`
	Date          string        `json:"date" firestore:"date"` // calendar date, YYYY-MM-DD
	InvoiceNumber string        `json:"invoiceNumber,omitempty" firestore:"invoiceNumber,omitempty"`
	Vendor        string        `json:"vendor,omitempty" firestore:"vendor,omitempty"`
	Notes         string        `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedBy     string        `json:"createdBy" firestore:"createdBy"`
}

// RecomputeTotals rederives each item's totalPrice (quantity x unitPrice) and
// the invoice totalAmount. Called on every write so client-supplied totals
// can never drift from the line items.
func (inv *Invoice) RecomputeTotals() {
	var total float64
	for i := range inv.Items {
		inv.Items[i].TotalPrice = inv.Items[i].Quantity * inv.Items[i].UnitPrice
		total += inv.Items[i].TotalPrice
	}
	inv.TotalAmount = total
}

// ItemCount returns the number of line items.
func (inv *Invoice) ItemCount() int {
	return len(inv.Items)
}
